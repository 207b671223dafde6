// Copyright 2026 The Quarry Authors
// SPDX-License-Identifier: Apache-2.0

package origin

import (
	"fmt"
	"net/http"

	"github.com/quarry-project/quarry/transport"
)

// MissingAttributeError reports a field read on an object whose record
// holds no datum for the field and whose declaration carries no default.
type MissingAttributeError struct {
	// Type is the bound type name, Field the declared field name.
	Type  string
	Field string
}

func (e *MissingAttributeError) Error() string {
	return fmt.Sprintf("origin: %s.%s is not set", e.Type, e.Field)
}

// ReadOnlyFieldError reports a write or delete on a read-only field.
type ReadOnlyFieldError struct {
	Type  string
	Field string
}

func (e *ReadOnlyFieldError) Error() string {
	return fmt.Sprintf("origin: %s.%s is read-only", e.Type, e.Field)
}

// ValidationError reports a datum or value the field's conversion
// rejected. Err carries the conversion failure.
type ValidationError struct {
	Type  string
	Field string
	Value any
	Err   error
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("origin: %s.%s: invalid value %v: %v", e.Type, e.Field, e.Value, e.Err)
}

func (e *ValidationError) Unwrap() error { return e.Err }

// CallLevel says whether a method was invoked on the bound type itself
// or on one of its objects.
type CallLevel int

const (
	ClassLevel CallLevel = iota
	InstanceLevel
)

func (l CallLevel) String() string {
	if l == InstanceLevel {
		return "instance-level"
	}
	return "class-level"
}

// NotSupportedError reports a method call the bound type cannot serve:
// either the method exists at the other call level only, or it was
// removed on purpose (a [Disabled] table entry).
type NotSupportedError struct {
	Type   string
	Method string
	Level  CallLevel

	// Removed marks a deliberately disabled method rather than one the
	// type simply never had.
	Removed bool
	// Alternative optionally names the method to use instead.
	Alternative string
}

func (e *NotSupportedError) Error() string {
	if e.Removed {
		if e.Alternative != "" {
			return fmt.Sprintf("origin: %s.%s has been removed; use %s instead", e.Type, e.Method, e.Alternative)
		}
		return fmt.Sprintf("origin: %s.%s has been removed", e.Type, e.Method)
	}
	return fmt.Sprintf("origin: %s.%s has no %s implementation", e.Type, e.Method, e.Level)
}

// ConfigurationError reports an inconsistent registry or blueprint: a
// name registered under two kinds, a blueprint without a name, a
// collection whose singular type is missing. These are programming
// mistakes, not server conditions.
type ConfigurationError struct {
	Name   string
	Reason string
}

func (e *ConfigurationError) Error() string {
	return fmt.Sprintf("origin: %s: %s", e.Name, e.Reason)
}

// NotFoundError reports a search-style call that matched nothing. The
// underlying [transport.CallError] is available through Unwrap.
type NotFoundError struct {
	// Resource is the bound type name the call was made on.
	Resource string
	Message  string
	Err      error
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("origin: %s: %s", e.Resource, e.Message)
}

func (e *NotFoundError) Unwrap() error { return e.Err }

// InvalidRecordError reports a value that should have been a
// string-keyed record but was not.
type InvalidRecordError struct {
	Type  string
	Value any
}

func (e *InvalidRecordError) Error() string {
	return fmt.Sprintf("origin: %s requires a string-keyed record, got %T", e.Type, e.Value)
}

// translateConflict converts an HTTP 409 from a search-style call into
// a [NotFoundError] so callers can tell "nothing matched" apart from
// transport failures. Other errors pass through unchanged.
func translateConflict(resource string, err error) error {
	if transport.IsCallError(err, http.StatusConflict) {
		return &NotFoundError{
			Resource: resource,
			Message:  "no match for the given criteria",
			Err:      err,
		}
	}
	return err
}
