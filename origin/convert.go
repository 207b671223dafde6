// Copyright 2026 The Quarry Authors
// SPDX-License-Identifier: Apache-2.0

package origin

import (
	"encoding/json"
	"fmt"
)

// Stock converters for the datum shapes JSON decoding produces. Numbers
// arrive as float64 (or json.Number when a dispatcher opts in), so the
// numeric converters accept both and normalize.

// StringConverter passes string datums through.
func StringConverter() Converter[string] {
	return Converter[string]{
		Forward: func(datum any) (string, error) {
			s, ok := datum.(string)
			if !ok {
				return "", fmt.Errorf("expected string, got %T", datum)
			}
			return s, nil
		},
		Backward: func(value string) (any, error) { return value, nil },
	}
}

// IntConverter accepts the integer shapes a decoded record can hold.
// A float64 with a fractional part is rejected.
func IntConverter() Converter[int] {
	return Converter[int]{
		Forward: func(datum any) (int, error) {
			switch v := datum.(type) {
			case int:
				return v, nil
			case int64:
				return int(v), nil
			case float64:
				n := int(v)
				if float64(n) != v {
					return 0, fmt.Errorf("expected integer, got %v", v)
				}
				return n, nil
			case json.Number:
				n, err := v.Int64()
				if err != nil {
					return 0, fmt.Errorf("expected integer, got %q", v.String())
				}
				return int(n), nil
			default:
				return 0, fmt.Errorf("expected integer, got %T", datum)
			}
		},
		Backward: func(value int) (any, error) { return value, nil },
	}
}

// FloatConverter accepts any numeric datum shape.
func FloatConverter() Converter[float64] {
	return Converter[float64]{
		Forward: func(datum any) (float64, error) {
			switch v := datum.(type) {
			case float64:
				return v, nil
			case int:
				return float64(v), nil
			case int64:
				return float64(v), nil
			case json.Number:
				f, err := v.Float64()
				if err != nil {
					return 0, fmt.Errorf("expected number, got %q", v.String())
				}
				return f, nil
			default:
				return 0, fmt.Errorf("expected number, got %T", datum)
			}
		},
		Backward: func(value float64) (any, error) { return value, nil },
	}
}

// BoolConverter passes bool datums through.
func BoolConverter() Converter[bool] {
	return Converter[bool]{
		Forward: func(datum any) (bool, error) {
			b, ok := datum.(bool)
			if !ok {
				return false, fmt.Errorf("expected bool, got %T", datum)
			}
			return b, nil
		},
		Backward: func(value bool) (any, error) { return value, nil },
	}
}

// StringSliceConverter accepts []string or a decoded []any of strings.
func StringSliceConverter() Converter[[]string] {
	return Converter[[]string]{
		Forward: func(datum any) ([]string, error) {
			switch v := datum.(type) {
			case []string:
				return v, nil
			case []any:
				out := make([]string, len(v))
				for i, item := range v {
					s, ok := item.(string)
					if !ok {
						return nil, fmt.Errorf("expected string at index %d, got %T", i, item)
					}
					out[i] = s
				}
				return out, nil
			default:
				return nil, fmt.Errorf("expected list of strings, got %T", datum)
			}
		},
		Backward: func(value []string) (any, error) { return value, nil },
	}
}

// OptionalStringConverter treats a nil datum as the empty string. The
// region reports unset text fields as null.
func OptionalStringConverter() Converter[string] {
	base := StringConverter()
	return Converter[string]{
		Forward: func(datum any) (string, error) {
			if datum == nil {
				return "", nil
			}
			return base.Forward(datum)
		},
		Backward: func(value string) (any, error) { return value, nil },
	}
}
