// Copyright 2026 The Quarry Authors
// SPDX-License-Identifier: Apache-2.0

package origin

import "context"

func versionBlueprint() *Blueprint {
	return &Blueprint{
		Name: "Version",
		Kind: KindObject,
		Fields: []*Field{
			MustTypedField(FieldSpec{Key: "version", ReadOnly: true, Default: ""}, StringConverter()).Field,
			MustTypedField(FieldSpec{Key: "subversion", ReadOnly: true, Default: ""}, OptionalStringConverter()).Field,
			MustTypedField(FieldSpec{Key: "capabilities", ReadOnly: true, Default: []string{}}, StringSliceConverter()).Field,
		},
	}
}

// Version describes the region controller's software.
type Version struct {
	obj *Object
}

// Object returns the underlying object.
func (v *Version) Object() *Object { return v.obj }

func (v *Version) Version() string        { return stringField(v.obj, "version") }
func (v *Version) Subversion() string     { return stringField(v.obj, "subversion") }
func (v *Version) Capabilities() []string { return stringsField(v.obj, "capabilities") }

// HasCapability reports whether the region advertises name.
func (v *Version) HasCapability(name string) bool {
	for _, capability := range v.Capabilities() {
		if capability == name {
			return true
		}
	}
	return false
}

func readVersion(ctx context.Context, origin *Origin) (*Version, error) {
	version, err := origin.resource("Version")
	if err != nil {
		return nil, err
	}
	result, err := version.Call(ctx, "read", nil)
	if err != nil {
		return nil, err
	}
	obj, ok := result.(*Object)
	if !ok {
		return nil, &InvalidRecordError{Type: "Version", Value: result}
	}
	return &Version{obj: obj}, nil
}
