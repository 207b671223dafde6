// Copyright 2026 The Quarry Authors
// SPDX-License-Identifier: Apache-2.0

// Package origin builds a typed object model on top of the transport
// bindings. Where [transport.Session] exposes the region's API as raw
// handlers and actions, origin wraps each resource in a bound type with
// declared fields, conversion, and method dispatch, so callers work with
// machines, tags, and zones instead of maps.
//
// # Binding
//
// [New] unions the handler names of a [transport.Session] with the
// blueprints of a [Registry] and produces an [Origin]. Every registered
// blueprint becomes a [BoundType]; handler names with no blueprint are
// bound generically and exposed under a "_"-prefixed name so unknown
// server resources remain reachable. Binding is pure bookkeeping: no
// request leaves the process until a method is called.
//
// For each action a handler advertises, the bound type gains a default
// method of the same name unless the blueprint (or any of its bases)
// already declares that member. Defaults follow the action's shape:
// create and read return wrapped objects, update sends the full record
// and replaces it with the server's answer, delete returns nothing, and
// everything else returns the raw result.
//
// # Objects
//
// An [Object] is a record plus the declared [Field] set of its type.
// Field access converts between wire datums and Go values; unknown
// record keys stay in the record and travel back to the server
// untouched. Equality and printing consider declared fields only.
//
// The stock blueprints for the fleet resources live in this package
// ([DefaultRegistry]); [Connect] ties them to a live session.
package origin
