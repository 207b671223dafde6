// Copyright 2026 The Quarry Authors
// SPDX-License-Identifier: Apache-2.0

package origin

import (
	"fmt"
	"reflect"
)

// FieldSpec declares one attribute of a bound type.
type FieldSpec struct {
	// Key is the record key the field reads and writes.
	Key string

	// Name is the field's name on the object. Defaults to Key, so it
	// only needs setting when the two diverge (User.IsAdmin maps the
	// record key "is_superuser", for example).
	Name string

	// ReadOnly rejects writes and deletes through the field.
	ReadOnly bool

	// Default is returned by Get when the record has no datum for Key.
	// It is handed back as declared, without conversion. Leave nil for
	// a required field: reading it while absent is then an error.
	Default any
}

// Field is the runtime form of a field declaration: the spec plus the
// conversion the field applies between wire datums and Go values. An
// untyped Field passes datums through unchanged; [NewTypedField] layers
// checked conversion on top.
type Field struct {
	key      string
	name     string
	readOnly bool
	fallback any
	forward  func(any) (any, error)
	backward func(any) (any, error)
}

// NewField builds a pass-through field from spec.
func NewField(spec FieldSpec) *Field {
	name := spec.Name
	if name == "" {
		name = spec.Key
	}
	identity := func(v any) (any, error) { return v, nil }
	return &Field{
		key:      spec.Key,
		name:     name,
		readOnly: spec.ReadOnly,
		fallback: spec.Default,
		forward:  identity,
		backward: identity,
	}
}

// Name returns the field's object-side name.
func (f *Field) Name() string { return f.name }

// Key returns the record key the field is backed by.
func (f *Field) Key() string { return f.key }

// ReadOnly reports whether writes through the field are rejected.
func (f *Field) ReadOnly() bool { return f.readOnly }

// get reads the field from record. A present datum is converted; an
// absent one yields the declared default, or MissingAttributeError when
// there is none. typeName is the owning type, for error messages.
func (f *Field) get(typeName string, record Record) (any, error) {
	datum, ok := record[f.key]
	if !ok {
		if f.fallback != nil {
			return f.fallback, nil
		}
		return nil, &MissingAttributeError{Type: typeName, Field: f.name}
	}
	value, err := f.forward(datum)
	if err != nil {
		return nil, &ValidationError{Type: typeName, Field: f.name, Value: datum, Err: err}
	}
	return value, nil
}

// set writes value into record through the field's conversion.
func (f *Field) set(typeName string, record Record, value any) error {
	if f.readOnly {
		return &ReadOnlyFieldError{Type: typeName, Field: f.name}
	}
	datum, err := f.backward(value)
	if err != nil {
		return &ValidationError{Type: typeName, Field: f.name, Value: value, Err: err}
	}
	record[f.key] = datum
	return nil
}

// unset removes the field's datum from record. Removing an absent
// datum is a no-op.
func (f *Field) unset(typeName string, record Record) error {
	if f.readOnly {
		return &ReadOnlyFieldError{Type: typeName, Field: f.name}
	}
	delete(record, f.key)
	return nil
}

// Converter translates between the wire datum of a field and its Go
// value. Forward decodes a datum, Backward encodes a value; both reject
// input of the wrong shape with an error.
type Converter[V any] struct {
	Forward  func(any) (V, error)
	Backward func(V) (any, error)
}

// TypedField wraps a [Field] with a checked conversion to V. Construct
// one with [NewTypedField]; the embedded Field is what goes into a
// blueprint's field list.
type TypedField[V any] struct {
	*Field
}

// NewTypedField builds a field converting through conv. When spec
// carries a default, the default must survive a Backward/Forward round
// trip unchanged; a default the conversion cannot reproduce is a
// declaration bug and rejected here rather than at first read.
func NewTypedField[V any](spec FieldSpec, conv Converter[V]) (*TypedField[V], error) {
	field := NewField(spec)
	field.forward = func(datum any) (any, error) {
		return conv.Forward(datum)
	}
	field.backward = func(value any) (any, error) {
		typed, ok := value.(V)
		if !ok {
			return nil, fmt.Errorf("expected %T, got %T", *new(V), value)
		}
		return conv.Backward(typed)
	}
	if spec.Default != nil {
		typed, ok := spec.Default.(V)
		if !ok {
			return nil, fmt.Errorf("origin: field %s: default %v is not a %T", field.name, spec.Default, *new(V))
		}
		datum, err := conv.Backward(typed)
		if err != nil {
			return nil, fmt.Errorf("origin: field %s: default %v does not encode: %w", field.name, spec.Default, err)
		}
		back, err := conv.Forward(datum)
		if err != nil {
			return nil, fmt.Errorf("origin: field %s: default %v does not round-trip: %w", field.name, spec.Default, err)
		}
		if !reflect.DeepEqual(back, typed) {
			return nil, fmt.Errorf("origin: field %s: default %v does not round-trip (became %v)", field.name, spec.Default, back)
		}
	}
	return &TypedField[V]{Field: field}, nil
}

// MustTypedField is NewTypedField for package-level declarations; it
// panics on a bad declaration.
func MustTypedField[V any](spec FieldSpec, conv Converter[V]) *TypedField[V] {
	field, err := NewTypedField(spec, conv)
	if err != nil {
		panic(err)
	}
	return field
}
