// Copyright 2026 The Quarry Authors
// SPDX-License-Identifier: Apache-2.0

// Package file implements the "quarry files" subcommands.
package file

import (
	"context"
	"fmt"
	"log/slog"
	"os"

	"github.com/spf13/pflag"

	"github.com/quarry-project/quarry/cmd/quarry/cli"
)

// Command returns the "files" parent command with all subcommands.
func Command() *cli.Command {
	return &cli.Command{
		Name:    "files",
		Summary: "Manage stored files",
		Description: `Manage the files stored with your account on the region controller
(typically cloud-init payloads and commissioning script output).`,
		Subcommands: []*cli.Command{
			listCommand(),
			deleteCommand(),
		},
	}
}

// fileEntry is the structured form of one file row.
type fileEntry struct {
	Filename string `json:"filename"`
	AnonURI  string `json:"anon_uri,omitempty"`
}

type listParams struct {
	cli.ClientConfig
	cli.FormatOutput
}

func listCommand() *cli.Command {
	var params listParams

	return &cli.Command{
		Name:    "list",
		Summary: "List stored files",
		Usage:   "quarry files list [flags]",
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

			files, err := client.Files.List(ctx)
			if err != nil {
				return err
			}
			entries := make([]fileEntry, 0, len(files))
			for _, file := range files {
				entries = append(entries, fileEntry{
					Filename: file.Filename(),
					AnonURI:  file.AnonURI(),
				})
			}

			if done, err := params.Emit(entries); done {
				return err
			}
			table := cli.NewTable("FILENAME", "ANONYMOUS URI")
			for _, entry := range entries {
				table.AddRow(entry.Filename, entry.AnonURI)
			}
			table.Render(os.Stdout)
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
		Summary: "Delete a stored file",
		Usage:   "quarry files delete <filename> [flags]",
		Flags: func() *pflag.FlagSet {
			return cli.FlagsFromParams("delete", &params)
		},
		Run: func(ctx context.Context, args []string, logger *slog.Logger) error {
			if len(args) != 1 {
				return fmt.Errorf("expected exactly one filename argument")
			}
			client, err := params.Connect(ctx, logger)
			if err != nil {
				return err
			}
			defer client.Close()

			files, err := client.Files.List(ctx)
			if err != nil {
				return err
			}
			for _, file := range files {
				if file.Filename() == args[0] {
					if err := file.Delete(ctx); err != nil {
						return err
					}
					fmt.Printf("deleted %s\n", args[0])
					return nil
				}
			}
			return fmt.Errorf("no stored file named %q", args[0])
		},
	}
}
