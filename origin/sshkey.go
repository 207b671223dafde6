// Copyright 2026 The Quarry Authors
// SPDX-License-Identifier: Apache-2.0

package origin

import (
	"context"

	"golang.org/x/crypto/ssh"
)

func sshKeysBlueprint() *Blueprint {
	return &Blueprint{
		Name: "SSHKeys",
		Kind: KindCollection,
		Methods: map[string]Method{
			"read": collectionRead(),
		},
	}
}

func sshKeyBlueprint() *Blueprint {
	return &Blueprint{
		Name: "SSHKey",
		Kind: KindObject,
		Fields: []*Field{
			MustTypedField(FieldSpec{Key: "id", ReadOnly: true}, IntConverter()).Field,
			MustTypedField(FieldSpec{Key: "key", ReadOnly: true}, StringConverter()).Field,
			MustTypedField(FieldSpec{Key: "keysource", ReadOnly: true, Default: ""}, OptionalStringConverter()).Field,
		},
	}
}

// SSHKeysAPI is the typed entry point for the session user's SSH keys.
type SSHKeysAPI struct {
	origin *Origin
}

// List returns the user's registered keys.
func (api *SSHKeysAPI) List(ctx context.Context) ([]*SSHKey, error) {
	keys, err := api.origin.resource("SSHKeys")
	if err != nil {
		return nil, err
	}
	result, err := keys.Call(ctx, "read", nil)
	if err != nil {
		return nil, err
	}
	collection, ok := result.(*Collection)
	if !ok {
		return nil, &InvalidRecordError{Type: "SSHKeys", Value: result}
	}
	out := make([]*SSHKey, 0, collection.Len())
	for obj := range collection.All() {
		out = append(out, &SSHKey{obj: obj})
	}
	return out, nil
}

// Add registers a public key with the region. The key material is
// checked locally first so a pasted private key or truncated line
// fails before it leaves the process.
func (api *SSHKeysAPI) Add(ctx context.Context, key string) (*SSHKey, error) {
	if _, _, _, _, err := ssh.ParseAuthorizedKey([]byte(key)); err != nil {
		return nil, &ValidationError{Type: "SSHKeys", Field: "key", Value: key, Err: err}
	}
	keys, err := api.origin.resource("SSHKeys")
	if err != nil {
		return nil, err
	}
	result, err := keys.Call(ctx, "create", Params{"key": key})
	if err != nil {
		return nil, err
	}
	obj, ok := result.(*Object)
	if !ok {
		return nil, &InvalidRecordError{Type: "SSHKey", Value: result}
	}
	return &SSHKey{obj: obj}, nil
}

// Get reads one registered key by ID.
func (api *SSHKeysAPI) Get(ctx context.Context, id int) (*SSHKey, error) {
	key, err := api.origin.resource("SSHKey")
	if err != nil {
		return nil, err
	}
	result, err := key.Call(ctx, "read", Params{"id": id})
	if err != nil {
		return nil, err
	}
	obj, ok := result.(*Object)
	if !ok {
		return nil, &InvalidRecordError{Type: "SSHKey", Value: result}
	}
	return &SSHKey{obj: obj}, nil
}

// SSHKey is the typed view over one registered key.
type SSHKey struct {
	obj *Object
}

// Object returns the underlying object.
func (k *SSHKey) Object() *Object { return k.obj }

func (k *SSHKey) ID() int           { return intField(k.obj, "id") }
func (k *SSHKey) Key() string       { return stringField(k.obj, "key") }
func (k *SSHKey) KeySource() string { return stringField(k.obj, "keysource") }

// Delete removes the key from the region.
func (k *SSHKey) Delete(ctx context.Context) error {
	_, err := k.obj.Call(ctx, "delete", nil)
	return err
}
