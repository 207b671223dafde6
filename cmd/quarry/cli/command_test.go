// Copyright 2026 The Quarry Authors
// SPDX-License-Identifier: Apache-2.0

package cli

import (
	"bytes"
	"context"
	"log/slog"
	"strings"
	"testing"

	"github.com/spf13/pflag"
)

func TestCommand_Execute_DispatchesToSubcommand(t *testing.T) {
	var called string

	root := &Command{
		Name: "quarry",
		Subcommands: []*Command{
			{
				Name: "version",
				Run: func(ctx context.Context, args []string, logger *slog.Logger) error {
					called = "version"
					return nil
				},
			},
			{
				Name: "machines",
				Run: func(ctx context.Context, args []string, logger *slog.Logger) error {
					called = "machines"
					return nil
				},
			},
		},
	}

	if err := root.Execute([]string{"machines"}); err != nil {
		t.Fatalf("Execute() error: %v", err)
	}
	if called != "machines" {
		t.Errorf("dispatched to %q, want %q", called, "machines")
	}
}

func TestCommand_Execute_NestedSubcommands(t *testing.T) {
	var called string
	var receivedArgs []string

	root := &Command{
		Name: "quarry",
		Subcommands: []*Command{
			{
				Name: "machines",
				Subcommands: []*Command{
					{
						Name: "deploy",
						Run: func(ctx context.Context, args []string, logger *slog.Logger) error {
							called = "machines deploy"
							receivedArgs = args
							return nil
						},
					},
				},
			},
		},
	}

	if err := root.Execute([]string{"machines", "deploy", "abc123"}); err != nil {
		t.Fatalf("Execute() error: %v", err)
	}
	if called != "machines deploy" {
		t.Errorf("dispatched to %q, want %q", called, "machines deploy")
	}
	if len(receivedArgs) != 1 || receivedArgs[0] != "abc123" {
		t.Errorf("args = %v, want [abc123]", receivedArgs)
	}
}

func TestCommand_Execute_ContextAndLoggerProvided(t *testing.T) {
	command := &Command{
		Name: "list",
		Run: func(ctx context.Context, args []string, logger *slog.Logger) error {
			if ctx == nil {
				t.Error("ctx is nil")
			}
			if logger == nil {
				t.Error("logger is nil")
			}
			if err := ctx.Err(); err != nil {
				t.Errorf("ctx already done: %v", err)
			}
			return nil
		},
	}

	if err := command.Execute(nil); err != nil {
		t.Fatalf("Execute() error: %v", err)
	}
}

func TestCommand_Execute_FlagParsing(t *testing.T) {
	var series string
	var target string

	command := &Command{
		Name: "deploy",
		Flags: func() *pflag.FlagSet {
			flagSet := pflag.NewFlagSet("deploy", pflag.ContinueOnError)
			flagSet.StringVar(&series, "distro-series", "jammy", "OS series")
			return flagSet
		},
		Run: func(ctx context.Context, args []string, logger *slog.Logger) error {
			if len(args) > 0 {
				target = args[0]
			}
			return nil
		},
	}

	if err := command.Execute([]string{"--distro-series", "noble", "abc123"}); err != nil {
		t.Fatalf("Execute() error: %v", err)
	}
	if series != "noble" {
		t.Errorf("series = %q, want %q", series, "noble")
	}
	if target != "abc123" {
		t.Errorf("target = %q, want %q", target, "abc123")
	}
}

func TestCommand_Execute_UnknownFlagSuggestion(t *testing.T) {
	command := &Command{
		Name: "deploy",
		Flags: func() *pflag.FlagSet {
			flagSet := pflag.NewFlagSet("deploy", pflag.ContinueOnError)
			flagSet.Bool("wait", false, "block until the deploy settles")
			flagSet.String("distro-series", "jammy", "OS series")
			return flagSet
		},
		Run: func(ctx context.Context, args []string, logger *slog.Logger) error { return nil },
	}

	err := command.Execute([]string{"--wiat"})
	if err == nil {
		t.Fatal("Execute() = nil, want error for unknown flag")
	}
	errStr := err.Error()
	if !strings.Contains(errStr, "did you mean --wait") {
		t.Errorf("error = %q, want suggestion for '--wait'", errStr)
	}
	if !strings.Contains(errStr, "wiat") {
		t.Errorf("error = %q, should mention the bad flag", errStr)
	}
	if !strings.Contains(errStr, "--help") {
		t.Errorf("error = %q, should point to --help", errStr)
	}
}

func TestCommand_Execute_UnknownFlagNoSuggestion(t *testing.T) {
	command := &Command{
		Name: "deploy",
		Flags: func() *pflag.FlagSet {
			flagSet := pflag.NewFlagSet("deploy", pflag.ContinueOnError)
			flagSet.Bool("wait", false, "block until the deploy settles")
			return flagSet
		},
		Run: func(ctx context.Context, args []string, logger *slog.Logger) error { return nil },
	}

	err := command.Execute([]string{"--zzzzzzzzz"})
	if err == nil {
		t.Fatal("Execute() = nil, want error for unknown flag")
	}
	if strings.Contains(err.Error(), "did you mean") {
		t.Errorf("error = %q, should not suggest for distant flag", err.Error())
	}
	if !strings.Contains(err.Error(), "--help") {
		t.Errorf("error = %q, should point to --help", err.Error())
	}
}

func TestCommand_Execute_UnknownSubcommandSuggestion(t *testing.T) {
	root := &Command{
		Name: "quarry",
		Subcommands: []*Command{
			{Name: "machines"},
			{Name: "tags"},
			{Name: "version"},
		},
	}

	err := root.Execute([]string{"machnies"})
	if err == nil {
		t.Fatal("Execute() = nil, want error for unknown subcommand")
	}
	if !strings.Contains(err.Error(), "did you mean \"machines\"") {
		t.Errorf("error = %q, want suggestion for 'machines'", err.Error())
	}
}

func TestCommand_Execute_UnknownSubcommandNoSuggestion(t *testing.T) {
	root := &Command{
		Name: "quarry",
		Subcommands: []*Command{
			{Name: "machines"},
			{Name: "tags"},
		},
	}

	err := root.Execute([]string{"zzzzzzz"})
	if err == nil {
		t.Fatal("Execute() = nil, want error for unknown subcommand")
	}
	if strings.Contains(err.Error(), "did you mean") {
		t.Errorf("error = %q, should not contain suggestion for distant input", err.Error())
	}
}

func TestCommand_Execute_HelpFlag(t *testing.T) {
	for _, helpArg := range []string{"-h", "--help", "help"} {
		t.Run(helpArg, func(t *testing.T) {
			root := &Command{
				Name:    "quarry",
				Summary: "Manage a bare-metal fleet",
				Subcommands: []*Command{
					{Name: "machines", Summary: "Machine operations"},
				},
			}

			err := root.Execute([]string{helpArg})
			if err != nil {
				t.Errorf("Execute(%q) error: %v", helpArg, err)
			}
		})
	}
}

func TestCommand_Execute_NoArgsShowsHelp(t *testing.T) {
	root := &Command{
		Name: "quarry",
		Subcommands: []*Command{
			{Name: "machines", Summary: "Machine operations"},
		},
	}

	err := root.Execute([]string{})
	if err == nil {
		t.Fatal("Execute() = nil, want error for missing subcommand")
	}
	if !strings.Contains(err.Error(), "subcommand required") {
		t.Errorf("error = %q, want 'subcommand required'", err.Error())
	}
}

func TestCommand_PrintHelp(t *testing.T) {
	command := &Command{
		Name:        "quarry",
		Description: "Manage a bare-metal fleet through its region controller.",
		Subcommands: []*Command{
			{Name: "machines", Summary: "List, allocate, and deploy machines"},
			{Name: "tags", Summary: "Manage machine tags"},
			{Name: "version", Summary: "Print version information"},
		},
		Examples: []Example{
			{
				Description: "Deploy a machine and wait for it to come up",
				Command:     "quarry machines deploy abc123 --wait",
			},
			{
				Description: "List every machine as JSON",
				Command:     "quarry machines list --format json",
			},
		},
	}

	var buffer bytes.Buffer
	command.PrintHelp(&buffer)
	output := buffer.String()

	for _, want := range []string{
		"Manage a bare-metal fleet through its region controller.",
		"Usage:",
		"quarry <command> [flags]",
		"Commands:",
		"machines",
		"List, allocate, and deploy machines",
		"tags",
		"Manage machine tags",
		"Examples:",
		"quarry machines deploy abc123 --wait",
		"quarry machines list --format json",
		"Run 'quarry <command> --help'",
	} {
		if !strings.Contains(output, want) {
			t.Errorf("help output missing %q\n\nFull output:\n%s", want, output)
		}
	}
}

func TestCommand_PrintHelp_WithFlags(t *testing.T) {
	command := &Command{
		Name:    "deploy",
		Summary: "Deploy an allocated machine",
		Usage:   "quarry machines deploy <system-id> [flags]",
		Flags: func() *pflag.FlagSet {
			flagSet := pflag.NewFlagSet("deploy", pflag.ContinueOnError)
			flagSet.String("distro-series", "jammy", "OS series to install")
			flagSet.Bool("wait", false, "block until the deploy settles")
			return flagSet
		},
	}

	var buffer bytes.Buffer
	command.PrintHelp(&buffer)
	output := buffer.String()

	for _, want := range []string{
		"quarry machines deploy <system-id> [flags]",
		"Flags:",
		"distro-series",
		"wait",
	} {
		if !strings.Contains(output, want) {
			t.Errorf("help output missing %q\n\nFull output:\n%s", want, output)
		}
	}
}

func TestCommand_FullName(t *testing.T) {
	root := &Command{Name: "quarry"}
	machines := &Command{Name: "machines", parent: root}
	deploy := &Command{Name: "deploy", parent: machines}

	if got := root.fullName(); got != "quarry" {
		t.Errorf("root.fullName() = %q, want %q", got, "quarry")
	}
	if got := machines.fullName(); got != "quarry machines" {
		t.Errorf("machines.fullName() = %q, want %q", got, "quarry machines")
	}
	if got := deploy.fullName(); got != "quarry machines deploy" {
		t.Errorf("deploy.fullName() = %q, want %q", got, "quarry machines deploy")
	}
}
