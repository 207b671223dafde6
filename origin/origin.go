// Copyright 2026 The Quarry Authors
// SPDX-License-Identifier: Apache-2.0

package origin

import (
	"context"
	"fmt"
	"maps"
	"slices"
	"strings"

	"github.com/quarry-project/quarry/transport"
)

// Blueprint declares a resource type ahead of binding: its fields, its
// hand-written methods, and optionally a base blueprint whose members
// it inherits. Blueprints are inert declarations; [New] turns them into
// [BoundType]s against a live session.
type Blueprint struct {
	// Name is the resource name the blueprint claims, matching the
	// handler name the session advertises ("Machines", "Tag").
	Name string

	// Kind declares whether the type wraps one record or a set.
	Kind Kind

	// Singular names the element type a collection wraps results in.
	// Defaults to Name without its trailing "s".
	Singular string

	// Base chains another blueprint's fields and methods under this
	// one. Member lookup walks the chain nearest-first.
	Base *Blueprint

	Fields  []*Field
	Methods map[string]Method
}

func (b *Blueprint) singularName() string {
	if b.Singular != "" {
		return b.Singular
	}
	return strings.TrimSuffix(b.Name, "s")
}

// declares reports whether name is a member — field or method — of the
// blueprint or any base in its chain. Synthesis skips declared names so
// a hand-written member always beats the stock implementation.
func (b *Blueprint) declares(name string) bool {
	for bp := b; bp != nil; bp = bp.Base {
		if _, ok := bp.Methods[name]; ok {
			return true
		}
		for _, field := range bp.Fields {
			if field.Name() == name {
				return true
			}
		}
	}
	return false
}

// flatten resolves the effective members of the chain. Fields override
// whole; methods override per half, so a derived blueprint can replace
// just the instance behavior and keep the base's class behavior.
func (b *Blueprint) flatten() (map[string]*Field, map[string]Method) {
	var chain []*Blueprint
	for bp := b; bp != nil; bp = bp.Base {
		chain = append(chain, bp)
	}
	fields := make(map[string]*Field)
	methods := make(map[string]Method)
	for _, bp := range slices.Backward(chain) {
		for _, field := range bp.Fields {
			fields[field.Name()] = field
		}
		for name, method := range bp.Methods {
			merged := methods[name]
			if method.Class != nil {
				merged.Class = method.Class
			}
			if method.Instance != nil {
				merged.Instance = method.Instance
			}
			methods[name] = merged
		}
	}
	return fields, methods
}

// Registry maps resource names to blueprints. The zero registry is not
// usable; construct with [NewRegistry] or take [DefaultRegistry].
type Registry struct {
	blueprints map[string]*Blueprint
}

func NewRegistry() *Registry {
	return &Registry{blueprints: make(map[string]*Blueprint)}
}

// Add registers bp under its name. Re-registering a name with the same
// kind replaces the earlier blueprint, which is how a caller swaps a
// stock type for an extended one. Changing the kind of a registered
// name is a [ConfigurationError]: the two declarations cannot both be
// true and silently picking one would corrupt every wrap decision
// downstream.
func (r *Registry) Add(bp *Blueprint) error {
	if bp.Name == "" {
		return &ConfigurationError{Name: "(unnamed)", Reason: "blueprint has no name"}
	}
	if existing, ok := r.blueprints[bp.Name]; ok && existing.Kind != bp.Kind {
		return &ConfigurationError{
			Name:   bp.Name,
			Reason: fmt.Sprintf("registered as a %s, cannot re-register as a %s", existing.Kind, bp.Kind),
		}
	}
	r.blueprints[bp.Name] = bp
	return nil
}

// Get returns the blueprint registered under name.
func (r *Registry) Get(name string) (*Blueprint, bool) {
	bp, ok := r.blueprints[name]
	return bp, ok
}

// Names returns the registered names, sorted.
func (r *Registry) Names() []string {
	return slices.Sorted(maps.Keys(r.blueprints))
}

// Origin is a bound object model: one [BoundType] per resource, built
// from a session's handlers and a registry's blueprints. Construction
// is synchronous and performs no requests.
type Origin struct {
	session *transport.Session
	types   map[string]*BoundType
}

// New binds registry against session. The bound names are the union of
// both sides: a blueprint with no live handler still binds (fields
// work, synthesized methods don't exist), and a handler with no
// blueprint binds generically under a "_"-prefixed name. Any
// configuration problem fails the whole construction; New never returns
// a partially bound origin.
func New(session *transport.Session, registry *Registry) (*Origin, error) {
	if session == nil {
		return nil, fmt.Errorf("origin: session must not be nil")
	}
	if registry == nil {
		registry = NewRegistry()
	}

	names := make(map[string]bool)
	for _, name := range session.HandlerNames() {
		names[name] = true
	}
	for _, name := range registry.Names() {
		names[name] = true
	}

	origin := &Origin{
		session: session,
		types:   make(map[string]*BoundType, len(names)),
	}
	for _, name := range slices.Sorted(maps.Keys(names)) {
		blueprint, _ := registry.Get(name)
		if err := validateChain(blueprint); err != nil {
			return nil, err
		}
		var handler *transport.Handler
		if h, ok := session.Handler(name); ok {
			handler = h
		}
		bound := build(origin, name, blueprint, handler)
		origin.types[bound.name] = bound
	}

	session.Logger().Debug("origin bound",
		"types", len(origin.types),
		"registered", len(registry.Names()))
	return origin, nil
}

// validateChain rejects a blueprint whose base chain mixes kinds. A
// collection deriving object members (or the reverse) would make every
// wrap decision ambiguous.
func validateChain(bp *Blueprint) error {
	if bp == nil {
		return nil
	}
	for base := bp.Base; base != nil; base = base.Base {
		if base.Kind != bp.Kind {
			return &ConfigurationError{
				Name:   bp.Name,
				Reason: fmt.Sprintf("%s blueprint derives from %s base %q", bp.Kind, base.Kind, base.Name),
			}
		}
	}
	return nil
}

// build materializes one bound type: the blueprint's declared members,
// plus a default method for every handler action the declarations do
// not already cover. With no blueprint the type is generic — no fields,
// all methods synthesized — and carries a "_" name prefix marking it as
// not first-class.
func build(origin *Origin, name string, blueprint *Blueprint, handler *transport.Handler) *BoundType {
	bound := &BoundType{
		origin:  origin,
		handler: handler,
		fields:  make(map[string]*Field),
		methods: make(map[string]Method),
	}
	if blueprint == nil {
		bound.name = "_" + name
		bound.kind = KindObject
	} else {
		bound.name = blueprint.Name
		bound.kind = blueprint.Kind
		bound.singular = blueprint.singularName()
		bound.registered = true
		bound.fields, bound.methods = blueprint.flatten()
	}
	if handler != nil {
		for _, actionName := range handler.ActionNames() {
			if blueprint != nil && blueprint.declares(actionName) {
				continue
			}
			action, _ := handler.Action(actionName)
			bound.methods[actionName] = defaultMethod(actionName, action)
		}
	}
	return bound
}

// defaultMethod is the fixed action-name table behind synthesis:
//
//	create, read   class-only; wrap the result as one singular object
//	update         instance-only; send the whole record, adopt the reply
//	delete         both levels; returns nothing
//	anything else  both levels; returns the raw result
//
// Instance-level halves source the action's declared parameter names
// from the record, with explicitly passed parameters laid on top.
func defaultMethod(name string, action *transport.Action) Method {
	switch name {
	case "create", "read":
		return Method{Class: classCreate(action)}
	case "update":
		return Method{Instance: instanceUpdate(action)}
	case "delete":
		return Method{Class: classDelete(action), Instance: instanceDelete(action)}
	default:
		return Method{Class: classOperation(action), Instance: instanceOperation(action)}
	}
}

func classCreate(action *transport.Action) func(context.Context, *BoundType, Params) (any, error) {
	return func(ctx context.Context, t *BoundType, params Params) (any, error) {
		result, err := action.Call(ctx, params)
		if err != nil {
			return nil, err
		}
		return t.wrapSingular(result)
	}
}

func instanceUpdate(action *transport.Action) func(context.Context, *Object, Params) (any, error) {
	return func(ctx context.Context, o *Object, params Params) (any, error) {
		data := o.Record()
		maps.Copy(data, params)
		result, err := action.Call(ctx, data)
		if err != nil {
			return nil, err
		}
		record, ok := result.(map[string]any)
		if !ok {
			return nil, &InvalidRecordError{Type: o.typ.name, Value: result}
		}
		o.data = record
		return o, nil
	}
}

func classDelete(action *transport.Action) func(context.Context, *BoundType, Params) (any, error) {
	return func(ctx context.Context, t *BoundType, params Params) (any, error) {
		if _, err := action.Call(ctx, params); err != nil {
			return nil, err
		}
		return nil, nil
	}
}

func instanceDelete(action *transport.Action) func(context.Context, *Object, Params) (any, error) {
	return func(ctx context.Context, o *Object, params Params) (any, error) {
		data, err := instanceParams(action, o, params)
		if err != nil {
			return nil, err
		}
		if _, err := action.Call(ctx, data); err != nil {
			return nil, err
		}
		return nil, nil
	}
}

// classOperation serves the search and operation style actions. A
// conflict status from the server means nothing matched the request,
// which callers want to branch on, so it surfaces as [NotFoundError];
// every other error passes through untouched.
func classOperation(action *transport.Action) func(context.Context, *BoundType, Params) (any, error) {
	return func(ctx context.Context, t *BoundType, params Params) (any, error) {
		result, err := action.Call(ctx, params)
		if err != nil {
			return nil, translateConflict(t.name, err)
		}
		return result, nil
	}
}

func instanceOperation(action *transport.Action) func(context.Context, *Object, Params) (any, error) {
	return func(ctx context.Context, o *Object, params Params) (any, error) {
		data, err := instanceParams(action, o, params)
		if err != nil {
			return nil, err
		}
		return action.Call(ctx, data)
	}
}

// instanceParams assembles an instance-level call's parameters: exactly
// the action's declared names, each sourced from the record, with the
// caller's explicit params overriding. A declared name the record does
// not hold is a MissingAttributeError — better than sending a call the
// server will reject for a different-looking reason.
func instanceParams(action *transport.Action, o *Object, params Params) (Params, error) {
	data := make(Params, len(action.Params())+len(params))
	for _, name := range action.Params() {
		datum, ok := o.data[name]
		if !ok {
			if _, explicit := params[name]; explicit {
				continue
			}
			return nil, &MissingAttributeError{Type: o.typ.name, Field: name}
		}
		data[name] = datum
	}
	maps.Copy(data, params)
	return data, nil
}

// Session returns the session the origin is bound to.
func (o *Origin) Session() *transport.Session { return o.session }

// Type looks up a bound type by its exposed name. Generic bindings are
// exposed under the "_"-prefixed form of their handler name.
func (o *Origin) Type(name string) (*BoundType, bool) {
	t, ok := o.types[name]
	return t, ok
}

// resource is Type for the package's own typed APIs, turning a missing
// binding into a ConfigurationError.
func (o *Origin) resource(name string) (*BoundType, error) {
	t, ok := o.types[name]
	if !ok {
		return nil, &ConfigurationError{Name: name, Reason: "resource is not bound"}
	}
	return t, nil
}

// TypeNames returns every exposed type name, sorted.
func (o *Origin) TypeNames() []string {
	return slices.Sorted(maps.Keys(o.types))
}
