// Copyright 2026 The Quarry Authors
// SPDX-License-Identifier: Apache-2.0

// Package codec provides deterministic serialization for values that
// need a stable byte representation, and content fingerprinting built
// on top of it.
//
// The service's API description document has no canonical JSON form —
// key order and whitespace vary between servers and versions. To
// compare descriptions across sessions (has the API changed since the
// last connect?) the transport re-encodes the parsed document with
// CBOR Core Deterministic Encoding and hashes the result; see
// Fingerprint.
package codec
