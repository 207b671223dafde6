// Copyright 2026 The Quarry Authors
// SPDX-License-Identifier: Apache-2.0

package origin

import "context"

func filesBlueprint() *Blueprint {
	return &Blueprint{
		Name: "Files",
		Kind: KindCollection,
		Methods: map[string]Method{
			"read": collectionRead(),
			"list": Disabled("list", "read"),
		},
	}
}

func fileBlueprint() *Blueprint {
	return &Blueprint{
		Name: "File",
		Kind: KindObject,
		Fields: []*Field{
			MustTypedField(FieldSpec{Key: "filename", ReadOnly: true}, StringConverter()).Field,
			MustTypedField(FieldSpec{Key: "anon_resource_uri", Name: "anon_uri", ReadOnly: true, Default: ""}, OptionalStringConverter()).Field,
		},
	}
}

// FilesAPI is the typed entry point for stored files.
type FilesAPI struct {
	origin *Origin
}

// List returns every stored file's metadata.
func (api *FilesAPI) List(ctx context.Context) ([]*File, error) {
	files, err := api.origin.resource("Files")
	if err != nil {
		return nil, err
	}
	result, err := files.Call(ctx, "read", nil)
	if err != nil {
		return nil, err
	}
	collection, ok := result.(*Collection)
	if !ok {
		return nil, &InvalidRecordError{Type: "Files", Value: result}
	}
	out := make([]*File, 0, collection.Len())
	for obj := range collection.All() {
		out = append(out, &File{obj: obj})
	}
	return out, nil
}

// Get reads one stored file's metadata by filename.
func (api *FilesAPI) Get(ctx context.Context, filename string) (*File, error) {
	file, err := api.origin.resource("File")
	if err != nil {
		return nil, err
	}
	result, err := file.Call(ctx, "read", Params{"filename": filename})
	if err != nil {
		return nil, err
	}
	obj, ok := result.(*Object)
	if !ok {
		return nil, &InvalidRecordError{Type: "File", Value: result}
	}
	return &File{obj: obj}, nil
}

// File is the typed view over one stored file.
type File struct {
	obj *Object
}

// Object returns the underlying object.
func (f *File) Object() *Object { return f.obj }

func (f *File) Filename() string { return stringField(f.obj, "filename") }
func (f *File) AnonURI() string  { return stringField(f.obj, "anon_uri") }

// Delete removes the stored file.
func (f *File) Delete(ctx context.Context) error {
	_, err := f.obj.Call(ctx, "delete", nil)
	return err
}
