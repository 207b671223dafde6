// Copyright 2026 The Quarry Authors
// SPDX-License-Identifier: Apache-2.0

package machine

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/spf13/pflag"

	"github.com/quarry-project/quarry/cmd/quarry/cli"
	"github.com/quarry-project/quarry/origin"
)

type allocateParams struct {
	cli.ClientConfig
	cli.FormatOutput

	Hostname  string   `json:"-" flag:"hostname" desc:"allocate this specific machine by hostname"`
	Arch      string   `json:"-" flag:"arch" desc:"required architecture (e.g. amd64/generic)"`
	MinCPUs   int      `json:"-" flag:"min-cpus" desc:"minimum CPU core count"`
	MinMemory int      `json:"-" flag:"min-memory" desc:"minimum memory in megabytes"`
	Tags      []string `json:"-" flag:"tags" desc:"required tags; prefix with - to exclude (e.g. gpu,-flaky)"`
	Zone      string   `json:"-" flag:"zone" desc:"required availability zone"`
}

func allocateCommand() *cli.Command {
	var params allocateParams

	return &cli.Command{
		Name:    "allocate",
		Summary: "Allocate a machine from the pool",
		Description: `Ask the region for a ready machine matching the given constraints
and take ownership of it. Omitted constraints do not constrain.

When no machine matches, the command exits 1 with a clear message
rather than a raw transport error; scripts can retry or relax their
constraints.`,
		Usage: "quarry machines allocate [flags]",
		Examples: []cli.Example{
			{
				Description: "Any ready machine",
				Command:     "quarry machines allocate",
			},
			{
				Description: "8 cores, 32 GB, tagged gpu but not flaky",
				Command:     "quarry machines allocate --min-cpus 8 --min-memory 32768 --tags gpu,-flaky",
			},
		},
		Flags: func() *pflag.FlagSet {
			return cli.FlagsFromParams("allocate", &params)
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

			machine, err := client.Machines.Allocate(ctx, origin.AllocateArgs{
				Hostname:     params.Hostname,
				Architecture: params.Arch,
				MinCPUs:      params.MinCPUs,
				MinMemory:    params.MinMemory,
				Tags:         params.Tags,
				Zone:         params.Zone,
			})
			var notFound *origin.NotFoundError
			if errors.As(err, &notFound) {
				return fmt.Errorf("no machine matches the requested constraints")
			}
			if err != nil {
				return err
			}

			if done, err := params.Emit(machine.Object().Record()); done {
				return err
			}
			fmt.Printf("allocated %s (%s)\n", machine.SystemID(), machine.Hostname())
			return nil
		},
	}
}
