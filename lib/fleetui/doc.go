// Copyright 2026 The Quarry Authors
// SPDX-License-Identifier: Apache-2.0

// Package fleetui implements the live fleet dashboard behind "quarry
// machines watch": a full-screen bubbletea table of every machine with
// its lifecycle status, kept fresh by polling the region controller.
//
// The package splits into a data side and a view side. [Poller]
// periodically lists machines through any [Lister] (in practice the
// origin client's machines API) and publishes [Snapshot] values;
// [Model] consumes snapshots through the [Source] interface and never
// performs I/O itself, which keeps the update loop testable without a
// region.
package fleetui
