// Copyright 2026 The Quarry Authors
// SPDX-License-Identifier: Apache-2.0

package origin

// nodeBase carries the field declarations every node flavor shares.
// Machine and Device blueprints chain it as their base.
func nodeBase() *Blueprint {
	return &Blueprint{
		Name: "Node",
		Kind: KindObject,
		Fields: []*Field{
			MustTypedField(FieldSpec{Key: "system_id", ReadOnly: true}, StringConverter()).Field,
			MustTypedField(FieldSpec{Key: "hostname", Default: ""}, StringConverter()).Field,
			MustTypedField(FieldSpec{Key: "fqdn", ReadOnly: true, Default: ""}, StringConverter()).Field,
			MustTypedField(FieldSpec{Key: "ip_addresses", ReadOnly: true, Default: []string{}}, StringSliceConverter()).Field,
			MustTypedField(FieldSpec{Key: "tag_names", Name: "tags", ReadOnly: true, Default: []string{}}, StringSliceConverter()).Field,
			MustTypedField(FieldSpec{Key: "owner", Default: ""}, OptionalStringConverter()).Field,
			// The zone arrives as a nested record; it stays raw and the
			// typed views project the name out of it.
			NewField(FieldSpec{Key: "zone", Default: map[string]any{}}),
		},
	}
}

// zoneName extracts the zone name from a node record's nested zone.
func zoneName(o *Object) string {
	value, err := o.Get("zone")
	if err != nil {
		return ""
	}
	record, ok := value.(map[string]any)
	if !ok {
		return ""
	}
	name, _ := record["name"].(string)
	return name
}

// Accessor helpers shared by the typed views. Views are convenience
// projections: a missing or malformed datum reads as the zero value,
// and [Object.Get] remains the checked path.

func stringField(o *Object, name string) string {
	value, err := o.Get(name)
	if err != nil {
		return ""
	}
	s, _ := value.(string)
	return s
}

func intField(o *Object, name string) int {
	value, err := o.Get(name)
	if err != nil {
		return 0
	}
	n, _ := value.(int)
	return n
}

func boolField(o *Object, name string) bool {
	value, err := o.Get(name)
	if err != nil {
		return false
	}
	b, _ := value.(bool)
	return b
}

func stringsField(o *Object, name string) []string {
	value, err := o.Get(name)
	if err != nil {
		return nil
	}
	list, _ := value.([]string)
	return list
}
