// Copyright 2026 The Quarry Authors
// SPDX-License-Identifier: Apache-2.0

// Package zone implements the "quarry zones" subcommands.
package zone

import (
	"context"
	"fmt"
	"log/slog"
	"os"

	"github.com/spf13/pflag"

	"github.com/quarry-project/quarry/cmd/quarry/cli"
)

// Command returns the "zones" parent command with all subcommands.
func Command() *cli.Command {
	return &cli.Command{
		Name:    "zones",
		Summary: "Manage availability zones",
		Description: `Manage availability zones: named groups of machines, typically
mapping to racks or failure domains. Allocation constraints can pin
a machine to a zone.`,
		Subcommands: []*cli.Command{
			listCommand(),
			createCommand(),
			deleteCommand(),
		},
	}
}

// zoneEntry is the structured form of one zone row.
type zoneEntry struct {
	Name        string `json:"name"`
	Description string `json:"description,omitempty"`
}

type listParams struct {
	cli.ClientConfig
	cli.FormatOutput
}

func listCommand() *cli.Command {
	var params listParams

	return &cli.Command{
		Name:    "list",
		Summary: "List availability zones",
		Usage:   "quarry zones list [flags]",
		Flags: func() *pflag.FlagSet {
			return cli.FlagsFromParams("list", &params)
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

			zones, err := client.Zones.List(ctx)
			if err != nil {
				return err
			}
			entries := make([]zoneEntry, 0, len(zones))
			for _, zone := range zones {
				entries = append(entries, zoneEntry{
					Name:        zone.Name(),
					Description: zone.Description(),
				})
			}

			if done, err := params.Emit(entries); done {
				return err
			}
			table := cli.NewTable("ZONE", "DESCRIPTION")
			for _, entry := range entries {
				table.AddRow(entry.Name, entry.Description)
			}
			table.Render(os.Stdout)
			return nil
		},
	}
}

type createParams struct {
	cli.ClientConfig
	cli.FormatOutput

	Description string `json:"-" flag:"description" desc:"what this zone groups (rack, room, failure domain)"`
}

func createCommand() *cli.Command {
	var params createParams

	return &cli.Command{
		Name:    "create",
		Summary: "Create an availability zone",
		Usage:   "quarry zones create <name> [flags]",
		Flags: func() *pflag.FlagSet {
			return cli.FlagsFromParams("create", &params)
		},
		Run: func(ctx context.Context, args []string, logger *slog.Logger) error {
			if len(args) != 1 {
				return fmt.Errorf("expected exactly one zone name argument")
			}
			client, err := params.Connect(ctx, logger)
			if err != nil {
				return err
			}
			defer client.Close()

			zone, err := client.Zones.Create(ctx, args[0], params.Description)
			if err != nil {
				return err
			}
			if done, err := params.Emit(zoneEntry{Name: zone.Name(), Description: zone.Description()}); done {
				return err
			}
			fmt.Printf("created zone %s\n", zone.Name())
			return nil
		},
	}
}

type deleteParams struct {
	cli.ClientConfig
}

func deleteCommand() *cli.Command {
	var params deleteParams

	return &cli.Command{
		Name:    "delete",
		Summary: "Delete an availability zone",
		Description: `Delete a zone. Machines in it move to the default zone; the region
rejects deleting the default zone itself.`,
		Usage: "quarry zones delete <name> [flags]",
		Flags: func() *pflag.FlagSet {
			return cli.FlagsFromParams("delete", &params)
		},
		Run: func(ctx context.Context, args []string, logger *slog.Logger) error {
			if len(args) != 1 {
				return fmt.Errorf("expected exactly one zone name argument")
			}
			client, err := params.Connect(ctx, logger)
			if err != nil {
				return err
			}
			defer client.Close()

			zone, err := client.Zones.Get(ctx, args[0])
			if err != nil {
				return err
			}
			if err := zone.Delete(ctx); err != nil {
				return err
			}
			fmt.Printf("deleted zone %s\n", args[0])
			return nil
		},
	}
}
