// Copyright 2026 The Quarry Authors
// SPDX-License-Identifier: Apache-2.0

package cli

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"reflect"

	"gopkg.in/yaml.v3"
)

// FormatOutput is an embeddable struct that adds a --format flag to a
// command's parameter struct. Embedding it provides the flag (via
// struct tag processing in [BindFlags]) and the [FormatOutput.Emit]
// method for structured output.
//
// Usage:
//
//	type listParams struct {
//	    cli.ClientConfig
//	    cli.FormatOutput
//	}
//
//	// In Run:
//	if done, err := params.Emit(entries); done {
//	    return err
//	}
//	// ... table formatting for the default format ...
type FormatOutput struct {
	Format string `json:"-" flag:"format,f" default:"table" desc:"output format: table, json, or yaml"`
}

// Emit writes result to stdout as JSON or YAML when --format asks for
// a structured format. Returns (true, nil) on success, (true, err) on
// a write failure or an unknown format, or (false, nil) when the
// format is "table" and the caller should render text itself.
//
// Nil slices are normalized to empty slices first, so structured
// output never contains null where a list belongs.
func (f *FormatOutput) Emit(result any) (bool, error) {
	switch f.Format {
	case "", "table":
		return false, nil
	case "json":
		return true, WriteJSON(os.Stdout, normalizeNilSlice(result))
	case "yaml":
		return true, WriteYAML(os.Stdout, normalizeNilSlice(result))
	default:
		return true, fmt.Errorf("unknown output format %q (want table, json, or yaml)", f.Format)
	}
}

// WriteJSON marshals value as indented JSON and writes it to w.
func WriteJSON(w io.Writer, value any) error {
	encoder := json.NewEncoder(w)
	encoder.SetIndent("", "  ")
	return encoder.Encode(value)
}

// WriteYAML marshals value as YAML and writes it to w. The value is
// round-tripped through JSON first so the json struct tags decide the
// key names, keeping yaml output consistent with json output.
func WriteYAML(w io.Writer, value any) error {
	raw, err := json.Marshal(value)
	if err != nil {
		return err
	}
	var generic any
	if err := json.Unmarshal(raw, &generic); err != nil {
		return err
	}
	encoder := yaml.NewEncoder(w)
	encoder.SetIndent(2)
	if err := encoder.Encode(generic); err != nil {
		return err
	}
	return encoder.Close()
}

// normalizeNilSlice returns an empty slice of the same type if value
// is a nil slice, so serialization produces [] instead of null.
// Returns value unchanged for all other types.
func normalizeNilSlice(value any) any {
	v := reflect.ValueOf(value)
	if v.Kind() == reflect.Slice && v.IsNil() {
		return reflect.MakeSlice(v.Type(), 0, 0).Interface()
	}
	return value
}
