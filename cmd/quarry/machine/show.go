// Copyright 2026 The Quarry Authors
// SPDX-License-Identifier: Apache-2.0

package machine

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/spf13/pflag"

	"github.com/quarry-project/quarry/cmd/quarry/cli"
	"github.com/quarry-project/quarry/origin"
)

type showParams struct {
	cli.ClientConfig
	cli.FormatOutput
}

func showCommand() *cli.Command {
	var params showParams

	return &cli.Command{
		Name:    "show",
		Summary: "Show one machine in detail",
		Description: `Show one machine's record. The table format prints the common
fields; --format json dumps the machine's entire raw record as the
region sent it, including fields the typed layer does not surface.`,
		Usage: "quarry machines show <system-id> [flags]",
		Flags: func() *pflag.FlagSet {
			return cli.FlagsFromParams("show", &params)
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
			return renderShow(machine, &params)
		},
	}
}

func renderShow(machine *origin.Machine, params *showParams) error {
	// Structured output gets the whole record, not the typed subset.
	if done, err := params.Emit(machine.Object().Record()); done {
		return err
	}

	rows := []struct {
		label string
		value string
	}{
		{"hostname", machine.Hostname()},
		{"fqdn", machine.FQDN()},
		{"system id", machine.SystemID()},
		{"status", statusText(machine)},
		{"status message", machine.StatusMessage()},
		{"power", machine.PowerState()},
		{"architecture", machine.Architecture()},
		{"cpus", fmt.Sprintf("%d", machine.CPUs())},
		{"memory", memoryText(machine.Memory())},
		{"os", osText(machine)},
		{"zone", machine.Zone()},
		{"owner", machine.Owner()},
		{"ip addresses", strings.Join(machine.IPAddresses(), ", ")},
		{"tags", strings.Join(machine.Tags(), ", ")},
	}
	for _, row := range rows {
		if row.value == "" {
			continue
		}
		fmt.Printf("%-15s %s\n", row.label+":", row.value)
	}
	return nil
}

// osText joins the OS name and series ("ubuntu noble"), either half
// optional.
func osText(machine *origin.Machine) string {
	return strings.TrimSpace(machine.OS() + " " + machine.DistroSeries())
}
