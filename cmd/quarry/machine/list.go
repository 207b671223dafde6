// Copyright 2026 The Quarry Authors
// SPDX-License-Identifier: Apache-2.0

package machine

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"slices"
	"strings"

	"github.com/muesli/termenv"
	"github.com/spf13/pflag"

	"github.com/quarry-project/quarry/cmd/quarry/cli"
	"github.com/quarry-project/quarry/lib/fleetui"
	"github.com/quarry-project/quarry/origin"
)

type listParams struct {
	cli.ClientConfig
	cli.FormatOutput

	Status string `json:"-" flag:"status" desc:"only machines in this lifecycle state (e.g. Ready, Deployed)"`
	Zone   string `json:"-" flag:"zone" desc:"only machines in this zone"`
}

// machineEntry is the structured form of one machine row.
type machineEntry struct {
	Hostname   string   `json:"hostname"`
	SystemID   string   `json:"system_id"`
	Status     string   `json:"status"`
	PowerState string   `json:"power_state"`
	Arch       string   `json:"architecture,omitempty"`
	CPUs       int      `json:"cpus"`
	MemoryMB   int      `json:"memory_mb"`
	Zone       string   `json:"zone,omitempty"`
	Owner      string   `json:"owner,omitempty"`
	IPs        []string `json:"ip_addresses"`
	Tags       []string `json:"tags"`
}

func listCommand() *cli.Command {
	var params listParams

	return &cli.Command{
		Name:    "list",
		Summary: "List fleet machines",
		Description: `List every machine the session can see, one row per machine with
its lifecycle state, power state, and hardware summary.

--status and --zone filter the output client-side; combine them to
narrow further.`,
		Usage: "quarry machines list [flags]",
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

			machines, err := client.Machines.List(ctx)
			if err != nil {
				return err
			}
			return renderList(machines, &params)
		},
	}
}

func renderList(machines []*origin.Machine, params *listParams) error {
	entries := make([]machineEntry, 0, len(machines))
	statuses := make([]origin.MachineStatus, 0, len(machines))
	for _, machine := range machines {
		if params.Status != "" && !strings.EqualFold(machine.Status().String(), params.Status) {
			continue
		}
		if params.Zone != "" && machine.Zone() != params.Zone {
			continue
		}
		entries = append(entries, machineEntry{
			Hostname:   machine.Hostname(),
			SystemID:   machine.SystemID(),
			Status:     statusText(machine),
			PowerState: machine.PowerState(),
			Arch:       machine.Architecture(),
			CPUs:       machine.CPUs(),
			MemoryMB:   machine.Memory(),
			Zone:       machine.Zone(),
			Owner:      machine.Owner(),
			IPs:        machine.IPAddresses(),
			Tags:       machine.Tags(),
		})
		statuses = append(statuses, machine.Status())
	}
	slices.SortFunc(entries, func(a, b machineEntry) int {
		return strings.Compare(a.Hostname, b.Hostname)
	})

	if done, err := params.Emit(entries); done {
		return err
	}

	profile := termenv.EnvColorProfile()
	table := cli.NewTable("HOSTNAME", "SYSTEM", "STATUS", "POWER", "CPUS", "MEMORY", "ZONE", "OWNER")
	for i, entry := range entries {
		table.AddRow(
			entry.Hostname,
			entry.SystemID,
			coloredStatus(profile, entry.Status, statuses[i]),
			entry.PowerState,
			fmt.Sprintf("%d", entry.CPUs),
			memoryText(entry.MemoryMB),
			entry.Zone,
			entry.Owner,
		)
	}
	table.Render(os.Stdout)
	return nil
}

// statusText prefers the server's status_name over the enum's label:
// the server annotates transient states with progress detail.
func statusText(machine *origin.Machine) string {
	if name := machine.StatusName(); name != "" {
		return name
	}
	return machine.Status().String()
}

// coloredStatus styles the status cell on capable terminals. The
// color buckets come from the dashboard theme, so list and watch
// agree on what red means.
func coloredStatus(profile termenv.Profile, label string, status origin.MachineStatus) string {
	if profile == termenv.Ascii {
		return label
	}
	color := fleetui.DefaultTheme.StatusColor(status)
	return profile.String(label).Foreground(profile.Color(string(color))).String()
}

func memoryText(megabytes int) string {
	if megabytes <= 0 {
		return "-"
	}
	if megabytes%1024 == 0 {
		return fmt.Sprintf("%d GB", megabytes/1024)
	}
	return fmt.Sprintf("%d MB", megabytes)
}
