// Copyright 2026 The Quarry Authors
// SPDX-License-Identifier: Apache-2.0

package origin

import (
	"context"
	"fmt"
	"maps"
	"reflect"
	"slices"
	"strings"

	"github.com/quarry-project/quarry/transport"
)

// Record is the raw wire form of a resource: a decoded JSON object.
type Record = map[string]any

// Params carries the named arguments of a method call.
type Params = map[string]any

// Kind separates types describing one resource from types describing
// the set of them. The kind decides how default methods wrap results:
// a collection's read wraps each element, an object's read wraps the
// single record.
type Kind int

const (
	KindObject Kind = iota
	KindCollection
)

func (k Kind) String() string {
	if k == KindCollection {
		return "collection"
	}
	return "object"
}

// BoundType is a blueprint tied to a live session: the declared fields
// and methods of a resource plus the handler serving it. It is the
// class half of the object model; [BoundType.New] mints the instances.
type BoundType struct {
	name     string
	kind     Kind
	singular string
	origin   *Origin

	// handler is nil for a registered type whose resource the session
	// does not advertise. Field access still works on such a type;
	// synthesized methods simply never appear.
	handler *transport.Handler

	fields  map[string]*Field
	methods map[string]Method

	// registered is false for types synthesized from handler names that
	// no blueprint claimed.
	registered bool
}

// Name returns the bound type's name, e.g. "Machines".
func (t *BoundType) Name() string { return t.name }

// Kind reports whether the type describes one resource or a set.
func (t *BoundType) Kind() Kind { return t.kind }

// Registered reports whether the type came from a registry blueprint
// rather than being synthesized for an unclaimed handler.
func (t *BoundType) Registered() bool { return t.registered }

// Origin returns the origin the type is bound into.
func (t *BoundType) Origin() *Origin { return t.origin }

// Handler returns the transport handler serving the type, or nil when
// the session does not advertise the resource.
func (t *BoundType) Handler() *transport.Handler { return t.handler }

// Field looks up a declared field by name.
func (t *BoundType) Field(name string) (*Field, bool) {
	f, ok := t.fields[name]
	return f, ok
}

// FieldNames returns the declared field names, sorted.
func (t *BoundType) FieldNames() []string {
	return slices.Sorted(maps.Keys(t.fields))
}

// MethodNames returns the method table's names, sorted.
func (t *BoundType) MethodNames() []string {
	return slices.Sorted(maps.Keys(t.methods))
}

// HasMethod reports whether name is in the method table at all,
// regardless of which halves are populated.
func (t *BoundType) HasMethod(name string) bool {
	_, ok := t.methods[name]
	return ok
}

// New wraps record in an object of this type. The record is copied
// shallowly so later mutation of the argument does not alias the
// object. Anything but a string-keyed map is rejected.
func (t *BoundType) New(record any) (*Object, error) {
	data, ok := record.(map[string]any)
	if !ok {
		return nil, &InvalidRecordError{Type: t.name, Value: record}
	}
	copied := make(Record, len(data))
	maps.Copy(copied, data)
	return &Object{typ: t, data: copied}, nil
}

// Call invokes the class half of the named method. Methods the table
// does not hold, and methods present with a nil class half, both come
// back as [NotSupportedError].
func (t *BoundType) Call(ctx context.Context, name string, params Params) (any, error) {
	method, ok := t.methods[name]
	if !ok || method.Class == nil {
		return nil, &NotSupportedError{Type: t.name, Method: name, Level: ClassLevel}
	}
	return method.Class(ctx, t, params)
}

// action resolves a named action on the type's handler. Types bound
// without a live handler, and handlers missing the action, report
// NotSupported.
func (t *BoundType) action(name string) (*transport.Action, error) {
	if t.handler != nil {
		if action, ok := t.handler.Action(name); ok {
			return action, nil
		}
	}
	return nil, &NotSupportedError{Type: t.name, Method: name, Level: ClassLevel}
}

// singularType resolves the object type a collection wraps elements in.
func (t *BoundType) singularType() (*BoundType, error) {
	single, ok := t.origin.types[t.singular]
	if !ok {
		return nil, &ConfigurationError{
			Name:   t.name,
			Reason: fmt.Sprintf("no singular type %q bound for this collection", t.singular),
		}
	}
	return single, nil
}

// wrapSingular wraps one record as an instance of the resource's object
// type: the type itself when t is object-kinded, the singular type when
// t is a collection.
func (t *BoundType) wrapSingular(result any) (*Object, error) {
	target := t
	if t.kind == KindCollection {
		single, err := t.singularType()
		if err != nil {
			return nil, err
		}
		target = single
	}
	return target.New(result)
}

// wrapResult shapes a raw call result by the type's kind: a list
// becomes a [Collection] of wrapped elements, a single record becomes
// an [Object].
func (t *BoundType) wrapResult(result any) (any, error) {
	if list, ok := result.([]any); ok {
		single := t
		if t.kind == KindCollection {
			var err error
			single, err = t.singularType()
			if err != nil {
				return nil, err
			}
		}
		return NewCollection(single, list)
	}
	return t.wrapSingular(result)
}

// Object is one resource record wrapped in its bound type. Field access
// goes through the type's declarations; the record itself stays
// available through [Object.Record] for keys no field claims.
type Object struct {
	typ  *BoundType
	data Record
}

// Type returns the object's bound type.
func (o *Object) Type() *BoundType { return o.typ }

// TypeName returns the bound type's name.
func (o *Object) TypeName() string { return o.typ.name }

// Record returns a copy of the object's raw record.
func (o *Object) Record() Record {
	copied := make(Record, len(o.data))
	maps.Copy(copied, o.data)
	return copied
}

// Get reads a declared field.
func (o *Object) Get(name string) (any, error) {
	field, ok := o.typ.fields[name]
	if !ok {
		return nil, &MissingAttributeError{Type: o.typ.name, Field: name}
	}
	return field.get(o.typ.name, o.data)
}

// MustGet is Get for callers that know the field is present, such as
// reading a required field straight after a successful read.
func (o *Object) MustGet(name string) any {
	value, err := o.Get(name)
	if err != nil {
		panic(err)
	}
	return value
}

// Set writes a declared field through its conversion.
func (o *Object) Set(name string, value any) error {
	field, ok := o.typ.fields[name]
	if !ok {
		return &MissingAttributeError{Type: o.typ.name, Field: name}
	}
	return field.set(o.typ.name, o.data, value)
}

// Unset removes a declared field's datum from the record. Unsetting an
// absent field is a no-op.
func (o *Object) Unset(name string) error {
	field, ok := o.typ.fields[name]
	if !ok {
		return &MissingAttributeError{Type: o.typ.name, Field: name}
	}
	return field.unset(o.typ.name, o.data)
}

// Call invokes the instance half of the named method.
func (o *Object) Call(ctx context.Context, name string, params Params) (any, error) {
	method, ok := o.typ.methods[name]
	if !ok || method.Instance == nil {
		return nil, &NotSupportedError{Type: o.typ.name, Method: name, Level: InstanceLevel}
	}
	return method.Instance(ctx, o, params)
}

// Equal compares two objects by type and declared fields. Record keys
// no field claims do not participate, so two records that differ only
// in undeclared bookkeeping compare equal.
func (o *Object) Equal(other *Object) bool {
	if other == nil || o.typ != other.typ {
		return false
	}
	if len(o.typ.fields) == 0 {
		// Types without declarations (generic bindings) fall back to
		// whole-record comparison.
		return reflect.DeepEqual(o.data, other.data)
	}
	for _, field := range o.typ.fields {
		a, aok := o.data[field.key]
		b, bok := other.data[field.key]
		if aok != bok || !reflect.DeepEqual(a, b) {
			return false
		}
	}
	return true
}

// String renders the object from its declared fields, sorted by name.
// Fields whose read fails (absent without default) are skipped.
func (o *Object) String() string {
	var b strings.Builder
	b.WriteString("<")
	b.WriteString(o.typ.name)
	for _, name := range o.typ.FieldNames() {
		value, err := o.Get(name)
		if err != nil {
			continue
		}
		fmt.Fprintf(&b, " %s=%v", name, value)
	}
	b.WriteString(">")
	return b.String()
}
