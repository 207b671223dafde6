// Copyright 2026 The Quarry Authors
// SPDX-License-Identifier: Apache-2.0

// Package testutil provides shared test helpers for Quarry packages.
//
// [RequireReceive], [RequireSend], and [RequireClosed] encapsulate the
// timeout safety valve pattern (select with time.After fallback) so
// that individual tests do not need direct time.After calls. Tests that
// drive polling loops against a fake clock use these to collect results
// from worker goroutines without risking an indefinite hang.
//
// [UniqueID] generates monotonically increasing identifiers for test
// disambiguation. Use it instead of time.Now() when tests need unique
// system IDs, hostnames, or filenames distinguishable across subtests.
//
// All helpers call t.Fatalf on failure rather than returning errors,
// since test setup failures are not recoverable.
//
// This package has no Quarry-internal dependencies.
package testutil
