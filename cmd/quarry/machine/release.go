// Copyright 2026 The Quarry Authors
// SPDX-License-Identifier: Apache-2.0

package machine

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/spf13/pflag"

	"github.com/quarry-project/quarry/cmd/quarry/cli"
	"github.com/quarry-project/quarry/origin"
)

type releaseParams struct {
	cli.ClientConfig

	Comment      string        `json:"-" flag:"comment" desc:"comment recorded in the machine's event log"`
	Erase        bool          `json:"-" flag:"erase" desc:"erase the machine's disks during release"`
	Wait         bool          `json:"-" flag:"wait" desc:"block until the machine is back in the pool"`
	WaitInterval time.Duration `json:"-" flag:"wait-interval" default:"5s" desc:"poll spacing while waiting"`
	WaitTimeout  time.Duration `json:"-" flag:"wait-timeout" default:"30m" desc:"give up waiting after this long"`
}

func releaseCommand() *cli.Command {
	var params releaseParams

	return &cli.Command{
		Name:    "release",
		Summary: "Return a machine to the pool",
		Description: `Release an allocated or deployed machine back to the ready pool.
--erase wipes its disks first; with --wait the command polls through
the releasing (and disk-erasing) states until the machine is Ready.`,
		Usage: "quarry machines release <system-id> [flags]",
		Flags: func() *pflag.FlagSet {
			return cli.FlagsFromParams("release", &params)
		},
		Run: func(ctx context.Context, args []string, logger *slog.Logger) error {
			if len(args) != 1 {
				return fmt.Errorf("expected exactly one system ID argument")
			}
			client, err := params.Connect(ctx, logger)
			if err != nil {
				return err
			}
			defer client.Close()

			machine, err := client.Machines.Get(ctx, args[0])
			if err != nil {
				return err
			}
			if err := machine.Release(ctx, origin.ReleaseArgs{
				Comment:      params.Comment,
				Erase:        params.Erase,
				Wait:         params.Wait,
				WaitInterval: params.WaitInterval,
				WaitTimeout:  params.WaitTimeout,
			}); err != nil {
				return err
			}

			if params.Wait {
				fmt.Printf("%s released (%s)\n", machine.SystemID(), statusText(machine))
			} else {
				fmt.Printf("%s releasing\n", machine.SystemID())
			}
			return nil
		},
	}
}
