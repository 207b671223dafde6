// Copyright 2026 The Quarry Authors
// SPDX-License-Identifier: Apache-2.0

// Package machine implements the "quarry machines" subcommands: the
// allocate/deploy/release lifecycle, listing and inspection, and
// commissioning. The live dashboard lives in the watch subpackage so
// the TUI dependency chain only links into binaries that want it.
package machine

import (
	"github.com/quarry-project/quarry/cmd/quarry/cli"
	watchcmd "github.com/quarry-project/quarry/cmd/quarry/machine/watch"
)

// Command returns the "machines" parent command with all subcommands.
func Command() *cli.Command {
	return &cli.Command{
		Name:    "machines",
		Summary: "Manage fleet machines",
		Description: `Manage fleet machines through their lifecycle: allocate one from the
pool, deploy an operating system onto it, and release it when done.

"list" and "show" read fleet state; "watch" is the live dashboard.
"commission" re-runs the hardware discovery scripts, and "delete"
removes a machine from the region entirely.

Deploy, release, and commission accept --wait to block until the
machine settles, polling the region until the transition completes,
fails, or the wait window closes.`,
		Subcommands: []*cli.Command{
			listCommand(),
			showCommand(),
			allocateCommand(),
			deployCommand(),
			releaseCommand(),
			commissionCommand(),
			deleteCommand(),
			watchcmd.Command(),
		},
		Examples: []cli.Example{
			{
				Description: "List the fleet",
				Command:     "quarry machines list",
			},
			{
				Description: "Allocate any ready machine tagged gpu",
				Command:     "quarry machines allocate --tags gpu",
			},
			{
				Description: "Deploy and wait for the install to finish",
				Command:     "quarry machines deploy abc123 --distro-series noble --wait",
			},
			{
				Description: "Release with disk erasure",
				Command:     "quarry machines release abc123 --erase --wait",
			},
		},
	}
}
