// Copyright 2026 The Quarry Authors
// SPDX-License-Identifier: Apache-2.0

package origin

import "context"

// Method is one entry in a bound type's dispatch table. The two halves
// are independent: a method may exist on the type (Machines.Allocate),
// on its objects (machine.Deploy), or both. A nil half means the method
// does not exist at that level, which [BoundType.Call] and
// [Object.Call] report as a [NotSupportedError].
//
// Dispatch consults only the method table. A record key with the same
// name as a method never shadows it, and a method result never leaks
// into the record.
type Method struct {
	Class    func(ctx context.Context, t *BoundType, params Params) (any, error)
	Instance func(ctx context.Context, o *Object, params Params) (any, error)
}

// Disabled builds a method that refuses both call levels, for API
// surface deliberately withdrawn from a type. Callers get a
// [NotSupportedError] with Removed set and, when alternative is not
// empty, a pointer at the replacement.
func Disabled(name, alternative string) Method {
	removed := func(typeName string, level CallLevel) error {
		return &NotSupportedError{
			Type:        typeName,
			Method:      name,
			Level:       level,
			Removed:     true,
			Alternative: alternative,
		}
	}
	return Method{
		Class: func(_ context.Context, t *BoundType, _ Params) (any, error) {
			return nil, removed(t.Name(), ClassLevel)
		},
		Instance: func(_ context.Context, o *Object, _ Params) (any, error) {
			return nil, removed(o.TypeName(), InstanceLevel)
		},
	}
}
