// Copyright 2026 The Quarry Authors
// SPDX-License-Identifier: Apache-2.0

package origin

import "context"

func devicesBlueprint() *Blueprint {
	return &Blueprint{
		Name: "Devices",
		Kind: KindCollection,
		Methods: map[string]Method{
			"read": collectionRead(),
		},
	}
}

func deviceBlueprint() *Blueprint {
	return &Blueprint{
		Name: "Device",
		Kind: KindObject,
		Base: nodeBase(),
	}
}

// DevicesAPI is the typed entry point for non-deployable devices.
type DevicesAPI struct {
	origin *Origin
}

// List returns every device visible to the session.
func (api *DevicesAPI) List(ctx context.Context) ([]*Device, error) {
	devices, err := api.origin.resource("Devices")
	if err != nil {
		return nil, err
	}
	result, err := devices.Call(ctx, "read", nil)
	if err != nil {
		return nil, err
	}
	collection, ok := result.(*Collection)
	if !ok {
		return nil, &InvalidRecordError{Type: "Devices", Value: result}
	}
	out := make([]*Device, 0, collection.Len())
	for obj := range collection.All() {
		out = append(out, &Device{obj: obj})
	}
	return out, nil
}

// Get reads one device by system ID.
func (api *DevicesAPI) Get(ctx context.Context, systemID string) (*Device, error) {
	device, err := api.origin.resource("Device")
	if err != nil {
		return nil, err
	}
	result, err := device.Call(ctx, "read", Params{"system_id": systemID})
	if err != nil {
		return nil, err
	}
	obj, ok := result.(*Object)
	if !ok {
		return nil, &InvalidRecordError{Type: "Device", Value: result}
	}
	return &Device{obj: obj}, nil
}

// Device is the typed view over one device object.
type Device struct {
	obj *Object
}

// Object returns the underlying object.
func (d *Device) Object() *Object { return d.obj }

func (d *Device) SystemID() string      { return stringField(d.obj, "system_id") }
func (d *Device) Hostname() string      { return stringField(d.obj, "hostname") }
func (d *Device) FQDN() string          { return stringField(d.obj, "fqdn") }
func (d *Device) IPAddresses() []string { return stringsField(d.obj, "ip_addresses") }
func (d *Device) Tags() []string        { return stringsField(d.obj, "tags") }
func (d *Device) Owner() string         { return stringField(d.obj, "owner") }
func (d *Device) Zone() string          { return zoneName(d.obj) }

// Delete removes the device from the region.
func (d *Device) Delete(ctx context.Context) error {
	_, err := d.obj.Call(ctx, "delete", nil)
	return err
}
