// Copyright 2026 The Quarry Authors
// SPDX-License-Identifier: Apache-2.0

package machine

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"time"

	"github.com/spf13/pflag"

	"github.com/quarry-project/quarry/cmd/quarry/cli"
	"github.com/quarry-project/quarry/origin"
)

type deployParams struct {
	cli.ClientConfig

	DistroSeries string        `json:"-" flag:"distro-series" desc:"OS series to install (e.g. noble)"`
	HWEKernel    string        `json:"-" flag:"hwe-kernel" desc:"hardware-enablement kernel to install"`
	UserData     string        `json:"-" flag:"user-data" desc:"path to a cloud-init user-data file"`
	Comment      string        `json:"-" flag:"comment" desc:"comment recorded in the machine's event log"`
	Wait         bool          `json:"-" flag:"wait" desc:"block until the deployment settles"`
	WaitInterval time.Duration `json:"-" flag:"wait-interval" default:"5s" desc:"poll spacing while waiting"`
	WaitTimeout  time.Duration `json:"-" flag:"wait-timeout" default:"30m" desc:"give up waiting after this long"`
}

func deployCommand() *cli.Command {
	var params deployParams

	return &cli.Command{
		Name:    "deploy",
		Summary: "Install an operating system on a machine",
		Description: `Deploy an operating system onto an allocated machine. With --wait
the command polls the region until the machine reaches Deployed,
exits non-zero if the deployment fails, and gives up after
--wait-timeout if the machine is still deploying.`,
		Usage: "quarry machines deploy <system-id> [flags]",
		Flags: func() *pflag.FlagSet {
			return cli.FlagsFromParams("deploy", &params)
		},
		Run: func(ctx context.Context, args []string, logger *slog.Logger) error {
			if len(args) != 1 {
				return fmt.Errorf("expected exactly one system ID argument")
			}

			var userData []byte
			if params.UserData != "" {
				data, err := os.ReadFile(params.UserData)
				if err != nil {
					return fmt.Errorf("reading user data: %w", err)
				}
				userData = data
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
			if err := machine.Deploy(ctx, origin.DeployArgs{
				UserData:     userData,
				DistroSeries: params.DistroSeries,
				HWEKernel:    params.HWEKernel,
				Comment:      params.Comment,
				Wait:         params.Wait,
				WaitInterval: params.WaitInterval,
				WaitTimeout:  params.WaitTimeout,
			}); err != nil {
				return err
			}

			if params.Wait {
				fmt.Printf("%s deployed (%s)\n", machine.SystemID(), statusText(machine))
			} else {
				fmt.Printf("%s deploying\n", machine.SystemID())
			}
			return nil
		},
	}
}
