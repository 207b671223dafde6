// Copyright 2026 The Quarry Authors
// SPDX-License-Identifier: Apache-2.0

package origin

import "context"

func usersBlueprint() *Blueprint {
	return &Blueprint{
		Name: "Users",
		Kind: KindCollection,
		Methods: map[string]Method{
			"read": collectionRead(),
		},
	}
}

func userBlueprint() *Blueprint {
	return &Blueprint{
		Name: "User",
		Kind: KindObject,
		Fields: []*Field{
			MustTypedField(FieldSpec{Key: "username"}, StringConverter()).Field,
			MustTypedField(FieldSpec{Key: "email", Default: ""}, OptionalStringConverter()).Field,
			MustTypedField(FieldSpec{Key: "is_superuser", Name: "is_admin", Default: false}, BoolConverter()).Field,
		},
	}
}

// UsersAPI is the typed entry point for user accounts.
type UsersAPI struct {
	origin *Origin
}

// List returns every user account. Requires an administrator session.
func (api *UsersAPI) List(ctx context.Context) ([]*User, error) {
	users, err := api.origin.resource("Users")
	if err != nil {
		return nil, err
	}
	result, err := users.Call(ctx, "read", nil)
	if err != nil {
		return nil, err
	}
	collection, ok := result.(*Collection)
	if !ok {
		return nil, &InvalidRecordError{Type: "Users", Value: result}
	}
	out := make([]*User, 0, collection.Len())
	for obj := range collection.All() {
		out = append(out, &User{obj: obj})
	}
	return out, nil
}

// Whoami returns the account the session is authenticated as.
func (api *UsersAPI) Whoami(ctx context.Context) (*User, error) {
	users, err := api.origin.resource("Users")
	if err != nil {
		return nil, err
	}
	result, err := users.Call(ctx, "whoami", nil)
	if err != nil {
		return nil, err
	}
	obj, err := users.wrapSingular(result)
	if err != nil {
		return nil, err
	}
	return &User{obj: obj}, nil
}

// CreateUserArgs name the fields of a new account.
type CreateUserArgs struct {
	Username string
	Email    string
	Password string
	// Admin grants region administrator rights; the wire name for the
	// flag is is_superuser.
	Admin bool
}

// Create makes a new user account. Requires an administrator session.
func (api *UsersAPI) Create(ctx context.Context, args CreateUserArgs) (*User, error) {
	users, err := api.origin.resource("Users")
	if err != nil {
		return nil, err
	}
	params := Params{
		"username":     args.Username,
		"is_superuser": args.Admin,
	}
	if args.Email != "" {
		params["email"] = args.Email
	}
	if args.Password != "" {
		params["password"] = args.Password
	}
	result, err := users.Call(ctx, "create", params)
	if err != nil {
		return nil, err
	}
	obj, ok := result.(*Object)
	if !ok {
		return nil, &InvalidRecordError{Type: "User", Value: result}
	}
	return &User{obj: obj}, nil
}

// User is the typed view over one user object.
type User struct {
	obj *Object
}

// Object returns the underlying object.
func (u *User) Object() *Object { return u.obj }

func (u *User) Username() string { return stringField(u.obj, "username") }
func (u *User) Email() string    { return stringField(u.obj, "email") }
func (u *User) IsAdmin() bool    { return boolField(u.obj, "is_admin") }
