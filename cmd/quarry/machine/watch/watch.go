// Copyright 2026 The Quarry Authors
// SPDX-License-Identifier: Apache-2.0

// Package watch provides the "quarry machines watch" live dashboard.
// It is a separate package from cmd/quarry/machine so the bubbletea
// dependency chain only links into binaries that import the TUI.
package watch

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/pflag"

	"github.com/quarry-project/quarry/cmd/quarry/cli"
	"github.com/quarry-project/quarry/lib/fleetui"
)

type watchParams struct {
	cli.ClientConfig

	Interval time.Duration `json:"-" flag:"interval" default:"5s" desc:"poll spacing"`
}

// Command returns the "watch" subcommand.
func Command() *cli.Command {
	var params watchParams

	return &cli.Command{
		Name:    "watch",
		Summary: "Live fleet dashboard",
		Description: `Open a full-screen dashboard of every machine in the fleet,
refreshed by polling the region. A failed poll keeps the last good
view on screen and shows the error in the status line.

Press q to quit.`,
		Usage: "quarry machines watch [flags]",
		Flags: func() *pflag.FlagSet {
			return cli.FlagsFromParams("watch", &params)
		},
		Run: func(ctx context.Context, args []string, logger *slog.Logger) error {
			if len(args) > 0 {
				return fmt.Errorf("unexpected argument: %s", args[0])
			}
			client, err := params.Connect(ctx, logger)
			if err != nil {
				return err
			}
			defer client.Close()

			poller := fleetui.NewPoller(fleetui.PollerConfig{
				Lister:   fleetui.APILister{API: client.Machines},
				Interval: params.Interval,
			})

			// The poller stops when the program exits and cancels this
			// context.
			pollCtx, stopPolling := context.WithCancel(ctx)
			defer stopPolling()
			go poller.Run(pollCtx)

			model := fleetui.NewModel(poller, fleetui.DefaultTheme)
			program := tea.NewProgram(model, tea.WithAltScreen(), tea.WithContext(ctx))
			_, err = program.Run()
			return err
		},
	}
}
