// Copyright 2026 The Quarry Authors
// SPDX-License-Identifier: Apache-2.0

// Package commands builds the complete quarry CLI command tree. The
// quarry binary is a thin main around [Root]; everything the CLI can
// do is declared here and in the per-resource subcommand packages.
package commands

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/spf13/pflag"

	"github.com/quarry-project/quarry/cmd/quarry/cli"
	describecmd "github.com/quarry-project/quarry/cmd/quarry/describe"
	filecmd "github.com/quarry-project/quarry/cmd/quarry/file"
	machinecmd "github.com/quarry-project/quarry/cmd/quarry/machine"
	sshkeycmd "github.com/quarry-project/quarry/cmd/quarry/sshkey"
	tagcmd "github.com/quarry-project/quarry/cmd/quarry/tag"
	usercmd "github.com/quarry-project/quarry/cmd/quarry/user"
	zonecmd "github.com/quarry-project/quarry/cmd/quarry/zone"
)

// Root builds and returns the complete quarry CLI command tree.
func Root() *cli.Command {
	return &cli.Command{
		Name: "quarry",
		Description: `Quarry: bare-metal fleet management client.

Allocate, deploy, and release machines on a Quarry region controller,
and manage the tags, zones, users, and SSH keys around them. The region
URL and API key come from --url/--api-key, the QUARRY_URL and
QUARRY_CREDENTIALS environment variables, or a JSONC config file.`,
		Subcommands: []*cli.Command{
			describecmd.Command(),
			machinecmd.Command(),
			tagcmd.Command(),
			zonecmd.Command(),
			usercmd.Command(),
			sshkeycmd.Command(),
			filecmd.Command(),
			versionCommand(),
		},
		Examples: []cli.Example{
			{
				Description: "Inspect the region's API surface",
				Command:     "quarry describe --url http://region:5240/fleet/",
			},
			{
				Description: "List every machine in the fleet",
				Command:     "quarry machines list",
			},
			{
				Description: "Allocate a machine with at least 8 cores and deploy it",
				Command:     "quarry machines allocate --min-cpus 8 --tags gpu && quarry machines deploy <system-id> --wait",
			},
			{
				Description: "Watch the fleet live",
				Command:     "quarry machines watch",
			},
		},
	}
}

// versionOutput is the structured form of the version command's output.
type versionOutput struct {
	Version      string   `json:"version"`
	Subversion   string   `json:"subversion,omitempty"`
	Capabilities []string `json:"capabilities"`
}

type versionParams struct {
	cli.ClientConfig
	cli.FormatOutput
}

func versionCommand() *cli.Command {
	var params versionParams

	return &cli.Command{
		Name:    "version",
		Summary: "Show the region controller version",
		Description: `Show the region controller's version, subversion, and capability
list. Capabilities gate optional API features; scripts can check for
one with --format json and jq.`,
		Usage: "quarry version [flags]",
		Flags: func() *pflag.FlagSet {
			return cli.FlagsFromParams("version", &params)
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

			version, err := client.Version(ctx)
			if err != nil {
				return err
			}
			output := versionOutput{
				Version:      version.Version(),
				Subversion:   version.Subversion(),
				Capabilities: version.Capabilities(),
			}
			if done, err := params.Emit(output); done {
				return err
			}
			if output.Subversion != "" {
				fmt.Printf("region %s (%s)\n", output.Version, output.Subversion)
			} else {
				fmt.Printf("region %s\n", output.Version)
			}
			for _, capability := range output.Capabilities {
				fmt.Printf("  %s\n", capability)
			}
			return nil
		},
	}
}
