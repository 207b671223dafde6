// Copyright 2026 The Quarry Authors
// SPDX-License-Identifier: Apache-2.0

// Package cli provides the command-line framework for the quarry CLI.
//
// The central type is [Command], which represents a named subcommand with
// optional nested [Command.Subcommands], a [pflag.FlagSet] factory, and a
// Run function. Commands are assembled into a tree in cmd/quarry/commands
// and dispatched via [Command.Execute], which handles flag parsing,
// subcommand routing, and structured help output with examples.
//
// When a user types an unknown subcommand or flag, the framework computes
// Levenshtein edit distance against all known names and suggests the
// closest match (threshold: distance <= 3). This is implemented in
// suggest.go.
//
// Commands bind their flags from tagged param structs via [BindFlags],
// write results through the [Output] helpers (table, JSON, or YAML), and
// reach the region through [ClientConfig.Connect], which resolves the
// region URL and API key from flags, the QUARRY_URL and QUARRY_CREDENTIALS
// environment variables, or a JSONC config file, in that order.
package cli
