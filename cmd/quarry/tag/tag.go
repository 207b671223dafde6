// Copyright 2026 The Quarry Authors
// SPDX-License-Identifier: Apache-2.0

// Package tag implements the "quarry tags" subcommands.
package tag

import (
	"context"
	"fmt"
	"log/slog"
	"os"

	"github.com/spf13/pflag"

	"github.com/quarry-project/quarry/cmd/quarry/cli"
	"github.com/quarry-project/quarry/origin"
)

// Command returns the "tags" parent command with all subcommands.
func Command() *cli.Command {
	return &cli.Command{
		Name:    "tags",
		Summary: "Manage machine tags",
		Description: `Manage the tags machines carry. A tag with a definition is
automatic: the region applies it to every machine whose hardware
matches the XPath expression. A tag without one is manual.`,
		Subcommands: []*cli.Command{
			listCommand(),
			createCommand(),
			deleteCommand(),
		},
		Examples: []cli.Example{
			{
				Description: "List all tags",
				Command:     "quarry tags list",
			},
			{
				Description: "Create an automatic tag matching NVMe machines",
				Command:     `quarry tags create nvme --definition "//node[@id='storage']//*[contains(., 'nvme')]"`,
			},
		},
	}
}

type listParams struct {
	cli.ClientConfig
	cli.FormatOutput
}

// tagEntry is the structured form of one tag row.
type tagEntry struct {
	Name       string `json:"name"`
	Definition string `json:"definition,omitempty"`
	KernelOpts string `json:"kernel_opts,omitempty"`
	Comment    string `json:"comment,omitempty"`
}

func listCommand() *cli.Command {
	var params listParams

	return &cli.Command{
		Name:    "list",
		Summary: "List tags",
		Usage:   "quarry tags list [flags]",
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

			tags, err := client.Tags.List(ctx)
			if err != nil {
				return err
			}
			entries := make([]tagEntry, 0, len(tags))
			for _, tag := range tags {
				entries = append(entries, tagEntry{
					Name:       tag.Name(),
					Definition: tag.Definition(),
					KernelOpts: tag.KernelOpts(),
					Comment:    tag.Comment(),
				})
			}

			if done, err := params.Emit(entries); done {
				return err
			}
			table := cli.NewTable("TAG", "KIND", "COMMENT")
			for _, entry := range entries {
				kind := "manual"
				if entry.Definition != "" {
					kind = "automatic"
				}
				table.AddRow(entry.Name, kind, entry.Comment)
			}
			table.Render(os.Stdout)
			return nil
		},
	}
}

type createParams struct {
	cli.ClientConfig
	cli.FormatOutput

	Comment    string `json:"-" flag:"comment" desc:"human-readable note on the tag's purpose"`
	Definition string `json:"-" flag:"definition" desc:"XPath expression over machine hardware; makes the tag automatic"`
	KernelOpts string `json:"-" flag:"kernel-opts" desc:"kernel command line options applied to tagged machines"`
}

func createCommand() *cli.Command {
	var params createParams

	return &cli.Command{
		Name:    "create",
		Summary: "Create a tag",
		Usage:   "quarry tags create <name> [flags]",
		Flags: func() *pflag.FlagSet {
			return cli.FlagsFromParams("create", &params)
		},
		Run: func(ctx context.Context, args []string, logger *slog.Logger) error {
			if len(args) != 1 {
				return fmt.Errorf("expected exactly one tag name argument")
			}
			client, err := params.Connect(ctx, logger)
			if err != nil {
				return err
			}
			defer client.Close()

			tag, err := client.Tags.Create(ctx, args[0], origin.TagOpts{
				Comment:    params.Comment,
				Definition: params.Definition,
				KernelOpts: params.KernelOpts,
			})
			if err != nil {
				return err
			}
			if done, err := params.Emit(tag.Object().Record()); done {
				return err
			}
			fmt.Printf("created tag %s\n", tag.Name())
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
		Summary: "Delete a tag",
		Description: `Delete a tag. Machines carrying it simply lose it; nothing else
changes.`,
		Usage: "quarry tags delete <name> [flags]",
		Flags: func() *pflag.FlagSet {
			return cli.FlagsFromParams("delete", &params)
		},
		Run: func(ctx context.Context, args []string, logger *slog.Logger) error {
			if len(args) != 1 {
				return fmt.Errorf("expected exactly one tag name argument")
			}
			client, err := params.Connect(ctx, logger)
			if err != nil {
				return err
			}
			defer client.Close()

			tag, err := client.Tags.Get(ctx, args[0])
			if err != nil {
				return err
			}
			if err := tag.Delete(ctx); err != nil {
				return err
			}
			fmt.Printf("deleted tag %s\n", args[0])
			return nil
		},
	}
}
