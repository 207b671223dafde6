// Copyright 2026 The Quarry Authors
// SPDX-License-Identifier: Apache-2.0

// Package sshkey implements the "quarry sshkeys" subcommands.
package sshkey

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strconv"
	"strings"

	"github.com/spf13/pflag"

	"github.com/quarry-project/quarry/cmd/quarry/cli"
)

// Command returns the "sshkeys" parent command with all subcommands.
func Command() *cli.Command {
	return &cli.Command{
		Name:    "sshkeys",
		Summary: "Manage your SSH public keys",
		Description: `Manage the SSH public keys the region installs on machines you
deploy. Keys belong to the account behind the API key.`,
		Subcommands: []*cli.Command{
			listCommand(),
			addCommand(),
			deleteCommand(),
		},
		Examples: []cli.Example{
			{
				Description: "Register your public key",
				Command:     "quarry sshkeys add ~/.ssh/id_ed25519.pub",
			},
		},
	}
}

// keyEntry is the structured form of one key row.
type keyEntry struct {
	ID  int    `json:"id"`
	Key string `json:"key"`
}

type listParams struct {
	cli.ClientConfig
	cli.FormatOutput
}

func listCommand() *cli.Command {
	var params listParams

	return &cli.Command{
		Name:    "list",
		Summary: "List your SSH keys",
		Usage:   "quarry sshkeys list [flags]",
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

			keys, err := client.SSHKeys.List(ctx)
			if err != nil {
				return err
			}
			entries := make([]keyEntry, 0, len(keys))
			for _, key := range keys {
				entries = append(entries, keyEntry{ID: key.ID(), Key: key.Key()})
			}

			if done, err := params.Emit(entries); done {
				return err
			}
			table := cli.NewTable("ID", "KEY")
			for _, entry := range entries {
				table.AddRow(fmt.Sprintf("%d", entry.ID), entry.Key)
			}
			table.Render(os.Stdout)
			return nil
		},
	}
}

type addParams struct {
	cli.ClientConfig
	cli.FormatOutput
}

func addCommand() *cli.Command {
	var params addParams

	return &cli.Command{
		Name:    "add",
		Summary: "Register an SSH public key",
		Description: `Register an SSH public key with your account. The argument is a
path to a public key file (or "-" for stdin). The key material is
validated locally before anything goes over the wire.`,
		Usage: "quarry sshkeys add <public-key-file> [flags]",
		Flags: func() *pflag.FlagSet {
			return cli.FlagsFromParams("add", &params)
		},
		Run: func(ctx context.Context, args []string, logger *slog.Logger) error {
			if len(args) != 1 {
				return fmt.Errorf("expected exactly one public key file argument")
			}
			material, err := readKeyFile(args[0])
			if err != nil {
				return err
			}

			client, err := params.Connect(ctx, logger)
			if err != nil {
				return err
			}
			defer client.Close()

			key, err := client.SSHKeys.Add(ctx, material)
			if err != nil {
				return err
			}
			if done, err := params.Emit(keyEntry{ID: key.ID(), Key: key.Key()}); done {
				return err
			}
			fmt.Printf("added key %d\n", key.ID())
			return nil
		},
	}
}

func readKeyFile(path string) (string, error) {
	var data []byte
	var err error
	if path == "-" {
		data, err = io.ReadAll(os.Stdin)
	} else {
		data, err = os.ReadFile(path)
	}
	if err != nil {
		return "", fmt.Errorf("reading public key: %w", err)
	}
	return strings.TrimSpace(string(data)), nil
}

type deleteParams struct {
	cli.ClientConfig
}

func deleteCommand() *cli.Command {
	var params deleteParams

	return &cli.Command{
		Name:    "delete",
		Summary: "Remove an SSH key",
		Usage:   "quarry sshkeys delete <id> [flags]",
		Flags: func() *pflag.FlagSet {
			return cli.FlagsFromParams("delete", &params)
		},
		Run: func(ctx context.Context, args []string, logger *slog.Logger) error {
			if len(args) != 1 {
				return fmt.Errorf("expected exactly one key ID argument")
			}
			id, err := strconv.Atoi(args[0])
			if err != nil {
				return fmt.Errorf("key ID must be a number, got %q", args[0])
			}

			client, err := params.Connect(ctx, logger)
			if err != nil {
				return err
			}
			defer client.Close()

			keys, err := client.SSHKeys.List(ctx)
			if err != nil {
				return err
			}
			for _, key := range keys {
				if key.ID() == id {
					if err := key.Delete(ctx); err != nil {
						return err
					}
					fmt.Printf("deleted key %d\n", id)
					return nil
				}
			}
			return fmt.Errorf("no SSH key with ID %d", id)
		},
	}
}
