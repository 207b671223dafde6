// Copyright 2026 The Quarry Authors
// SPDX-License-Identifier: Apache-2.0

// Package user implements the "quarry users" subcommands.
package user

import (
	"context"
	"fmt"
	"log/slog"
	"os"

	"github.com/spf13/pflag"

	"github.com/quarry-project/quarry/cmd/quarry/cli"
)

// Command returns the "users" parent command with all subcommands.
func Command() *cli.Command {
	return &cli.Command{
		Name:    "users",
		Summary: "Inspect region user accounts",
		Description: `Inspect the region's user accounts. "whoami" shows which account
the current API key belongs to; "list" needs an administrator key.`,
		Subcommands: []*cli.Command{
			listCommand(),
			whoamiCommand(),
		},
	}
}

// userEntry is the structured form of one user row.
type userEntry struct {
	Username string `json:"username"`
	Email    string `json:"email,omitempty"`
	IsAdmin  bool   `json:"is_admin"`
}

type listParams struct {
	cli.ClientConfig
	cli.FormatOutput
}

func listCommand() *cli.Command {
	var params listParams

	return &cli.Command{
		Name:    "list",
		Summary: "List user accounts",
		Usage:   "quarry users list [flags]",
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

			users, err := client.Users.List(ctx)
			if err != nil {
				return err
			}
			entries := make([]userEntry, 0, len(users))
			for _, user := range users {
				entries = append(entries, userEntry{
					Username: user.Username(),
					Email:    user.Email(),
					IsAdmin:  user.IsAdmin(),
				})
			}

			if done, err := params.Emit(entries); done {
				return err
			}
			table := cli.NewTable("USERNAME", "EMAIL", "ADMIN")
			for _, entry := range entries {
				admin := ""
				if entry.IsAdmin {
					admin = "yes"
				}
				table.AddRow(entry.Username, entry.Email, admin)
			}
			table.Render(os.Stdout)
			return nil
		},
	}
}

type whoamiParams struct {
	cli.ClientConfig
	cli.FormatOutput
}

func whoamiCommand() *cli.Command {
	var params whoamiParams

	return &cli.Command{
		Name:    "whoami",
		Summary: "Show the account behind the current API key",
		Usage:   "quarry users whoami [flags]",
		Flags: func() *pflag.FlagSet {
			return cli.FlagsFromParams("whoami", &params)
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

			user, err := client.Users.Whoami(ctx)
			if err != nil {
				return err
			}
			entry := userEntry{
				Username: user.Username(),
				Email:    user.Email(),
				IsAdmin:  user.IsAdmin(),
			}
			if done, err := params.Emit(entry); done {
				return err
			}
			role := "user"
			if entry.IsAdmin {
				role = "admin"
			}
			if entry.Email != "" {
				fmt.Printf("%s (%s, %s)\n", entry.Username, entry.Email, role)
			} else {
				fmt.Printf("%s (%s)\n", entry.Username, role)
			}
			return nil
		},
	}
}
