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

type commissionParams struct {
	cli.ClientConfig

	EnableSSH      bool          `json:"-" flag:"enable-ssh" desc:"leave SSH enabled during commissioning"`
	SkipNetworking bool          `json:"-" flag:"skip-networking" desc:"keep the machine's existing network configuration"`
	SkipStorage    bool          `json:"-" flag:"skip-storage" desc:"keep the machine's existing storage configuration"`
	Wait           bool          `json:"-" flag:"wait" desc:"block until commissioning settles"`
	WaitInterval   time.Duration `json:"-" flag:"wait-interval" default:"5s" desc:"poll spacing while waiting"`
	WaitTimeout    time.Duration `json:"-" flag:"wait-timeout" default:"30m" desc:"give up waiting after this long"`
}

func commissionCommand() *cli.Command {
	var params commissionParams

	return &cli.Command{
		Name:    "commission",
		Summary: "Re-run hardware discovery on a machine",
		Description: `Commission a machine: boot it into an ephemeral environment and run
the hardware discovery and test scripts. With --wait the command
polls through the commissioning and testing states.`,
		Usage: "quarry machines commission <system-id> [flags]",
		Flags: func() *pflag.FlagSet {
			return cli.FlagsFromParams("commission", &params)
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
			if err := machine.Commission(ctx, origin.CommissionArgs{
				EnableSSH:      params.EnableSSH,
				SkipNetworking: params.SkipNetworking,
				SkipStorage:    params.SkipStorage,
				Wait:           params.Wait,
				WaitInterval:   params.WaitInterval,
				WaitTimeout:    params.WaitTimeout,
			}); err != nil {
				return err
			}

			if params.Wait {
				fmt.Printf("%s commissioned (%s)\n", machine.SystemID(), statusText(machine))
			} else {
				fmt.Printf("%s commissioning\n", machine.SystemID())
			}
			return nil
		},
	}
}
