// Copyright 2026 The Quarry Authors
// SPDX-License-Identifier: Apache-2.0

package machine

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/spf13/pflag"

	"github.com/quarry-project/quarry/cmd/quarry/cli"
)

type deleteParams struct {
	cli.ClientConfig
}

func deleteCommand() *cli.Command {
	var params deleteParams

	return &cli.Command{
		Name:    "delete",
		Summary: "Remove a machine from the region",
		Description: `Delete a machine's record from the region entirely. The hardware is
untouched; re-enlist it to bring it back. There is no undo.`,
		Usage: "quarry machines delete <system-id> [flags]",
		Flags: func() *pflag.FlagSet {
			return cli.FlagsFromParams("delete", &params)
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
			if err := machine.Delete(ctx); err != nil {
				return err
			}
			fmt.Printf("%s deleted\n", args[0])
			return nil
		},
	}
}
