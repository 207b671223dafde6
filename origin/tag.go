// Copyright 2026 The Quarry Authors
// SPDX-License-Identifier: Apache-2.0

package origin

import "context"

func tagsBlueprint() *Blueprint {
	return &Blueprint{
		Name: "Tags",
		Kind: KindCollection,
		Methods: map[string]Method{
			"read": collectionRead(),
			// The server's own listing op on this handler is malformed;
			// read covers it.
			"list": Disabled("list", "read"),
			"new":  Disabled("new", "create"),
		},
	}
}

func tagBlueprint() *Blueprint {
	return &Blueprint{
		Name: "Tag",
		Kind: KindObject,
		Fields: []*Field{
			MustTypedField(FieldSpec{Key: "name", ReadOnly: true}, StringConverter()).Field,
			MustTypedField(FieldSpec{Key: "comment", Default: ""}, OptionalStringConverter()).Field,
			MustTypedField(FieldSpec{Key: "definition", Default: ""}, OptionalStringConverter()).Field,
			MustTypedField(FieldSpec{Key: "kernel_opts", Default: ""}, OptionalStringConverter()).Field,
		},
	}
}

// TagsAPI is the typed entry point for machine tags.
type TagsAPI struct {
	origin *Origin
}

// List returns every tag.
func (api *TagsAPI) List(ctx context.Context) ([]*Tag, error) {
	tags, err := api.origin.resource("Tags")
	if err != nil {
		return nil, err
	}
	result, err := tags.Call(ctx, "read", nil)
	if err != nil {
		return nil, err
	}
	collection, ok := result.(*Collection)
	if !ok {
		return nil, &InvalidRecordError{Type: "Tags", Value: result}
	}
	out := make([]*Tag, 0, collection.Len())
	for obj := range collection.All() {
		out = append(out, &Tag{obj: obj})
	}
	return out, nil
}

// Get reads one tag by name.
func (api *TagsAPI) Get(ctx context.Context, name string) (*Tag, error) {
	tag, err := api.origin.resource("Tag")
	if err != nil {
		return nil, err
	}
	result, err := tag.Call(ctx, "read", Params{"name": name})
	if err != nil {
		return nil, err
	}
	obj, ok := result.(*Object)
	if !ok {
		return nil, &InvalidRecordError{Type: "Tag", Value: result}
	}
	return &Tag{obj: obj}, nil
}

// TagOpts are the optional attributes of a new tag. Definition is an
// XPath expression the region evaluates against hardware details to
// auto-apply the tag.
type TagOpts struct {
	Comment    string
	Definition string
	KernelOpts string
}

// Create makes a new tag.
func (api *TagsAPI) Create(ctx context.Context, name string, opts TagOpts) (*Tag, error) {
	tags, err := api.origin.resource("Tags")
	if err != nil {
		return nil, err
	}
	params := Params{
		"name":        name,
		"comment":     opts.Comment,
		"definition":  opts.Definition,
		"kernel_opts": opts.KernelOpts,
	}
	result, err := tags.Call(ctx, "create", params)
	if err != nil {
		return nil, err
	}
	obj, ok := result.(*Object)
	if !ok {
		return nil, &InvalidRecordError{Type: "Tag", Value: result}
	}
	return &Tag{obj: obj}, nil
}

// Tag is the typed view over one tag object.
type Tag struct {
	obj *Object
}

// Object returns the underlying object.
func (t *Tag) Object() *Object { return t.obj }

func (t *Tag) Name() string       { return stringField(t.obj, "name") }
func (t *Tag) Comment() string    { return stringField(t.obj, "comment") }
func (t *Tag) Definition() string { return stringField(t.obj, "definition") }
func (t *Tag) KernelOpts() string { return stringField(t.obj, "kernel_opts") }

// Update pushes the tag's record with changes laid on top.
func (t *Tag) Update(ctx context.Context, changes Params) error {
	_, err := t.obj.Call(ctx, "update", changes)
	return err
}

// Delete removes the tag.
func (t *Tag) Delete(ctx context.Context) error {
	_, err := t.obj.Call(ctx, "delete", nil)
	return err
}
