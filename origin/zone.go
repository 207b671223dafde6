// Copyright 2026 The Quarry Authors
// SPDX-License-Identifier: Apache-2.0

package origin

import "context"

func zonesBlueprint() *Blueprint {
	return &Blueprint{
		Name: "Zones",
		Kind: KindCollection,
		Methods: map[string]Method{
			"read": collectionRead(),
		},
	}
}

func zoneBlueprint() *Blueprint {
	return &Blueprint{
		Name: "Zone",
		Kind: KindObject,
		Fields: []*Field{
			MustTypedField(FieldSpec{Key: "id", ReadOnly: true, Default: 0}, IntConverter()).Field,
			MustTypedField(FieldSpec{Key: "name"}, StringConverter()).Field,
			MustTypedField(FieldSpec{Key: "description", Default: ""}, OptionalStringConverter()).Field,
		},
	}
}

// ZonesAPI is the typed entry point for availability zones.
type ZonesAPI struct {
	origin *Origin
}

// List returns every zone.
func (api *ZonesAPI) List(ctx context.Context) ([]*Zone, error) {
	zones, err := api.origin.resource("Zones")
	if err != nil {
		return nil, err
	}
	result, err := zones.Call(ctx, "read", nil)
	if err != nil {
		return nil, err
	}
	collection, ok := result.(*Collection)
	if !ok {
		return nil, &InvalidRecordError{Type: "Zones", Value: result}
	}
	out := make([]*Zone, 0, collection.Len())
	for obj := range collection.All() {
		out = append(out, &Zone{obj: obj})
	}
	return out, nil
}

// Get reads one zone by name.
func (api *ZonesAPI) Get(ctx context.Context, name string) (*Zone, error) {
	zone, err := api.origin.resource("Zone")
	if err != nil {
		return nil, err
	}
	result, err := zone.Call(ctx, "read", Params{"name": name})
	if err != nil {
		return nil, err
	}
	obj, ok := result.(*Object)
	if !ok {
		return nil, &InvalidRecordError{Type: "Zone", Value: result}
	}
	return &Zone{obj: obj}, nil
}

// Create makes a new zone.
func (api *ZonesAPI) Create(ctx context.Context, name, description string) (*Zone, error) {
	zones, err := api.origin.resource("Zones")
	if err != nil {
		return nil, err
	}
	params := Params{"name": name}
	if description != "" {
		params["description"] = description
	}
	result, err := zones.Call(ctx, "create", params)
	if err != nil {
		return nil, err
	}
	obj, ok := result.(*Object)
	if !ok {
		return nil, &InvalidRecordError{Type: "Zone", Value: result}
	}
	return &Zone{obj: obj}, nil
}

// Zone is the typed view over one availability zone.
type Zone struct {
	obj *Object
}

// Object returns the underlying object.
func (z *Zone) Object() *Object { return z.obj }

func (z *Zone) ID() int             { return intField(z.obj, "id") }
func (z *Zone) Name() string        { return stringField(z.obj, "name") }
func (z *Zone) Description() string { return stringField(z.obj, "description") }

// Update pushes the zone's record with changes laid on top.
func (z *Zone) Update(ctx context.Context, changes Params) error {
	_, err := z.obj.Call(ctx, "update", changes)
	return err
}

// Delete removes the zone.
func (z *Zone) Delete(ctx context.Context) error {
	_, err := z.obj.Call(ctx, "delete", nil)
	return err
}
