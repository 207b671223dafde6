// Copyright 2026 The Quarry Authors
// SPDX-License-Identifier: Apache-2.0

package fleetui

import (
	"errors"
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/quarry-project/quarry/origin"
)

type chanSource struct {
	ch chan Snapshot
}

func (s *chanSource) Snapshots() <-chan Snapshot { return s.ch }

// drive applies a message and returns the updated model.
func drive(t *testing.T, model Model, message tea.Msg) Model {
	t.Helper()
	updated, _ := model.Update(message)
	next, ok := updated.(Model)
	if !ok {
		t.Fatalf("Update returned %T, want fleetui.Model", updated)
	}
	return next
}

func newTestModel() (Model, *chanSource) {
	source := &chanSource{ch: make(chan Snapshot, 1)}
	model := NewModel(source, DefaultTheme)
	return model, source
}

func TestModelSortsFleetByHostname(t *testing.T) {
	model, _ := newTestModel()
	model = drive(t, model, tea.WindowSizeMsg{Width: 120, Height: 40})
	model = drive(t, model, snapshotMsg(Snapshot{
		Machines: []MachineRow{
			machineRow("zebra", "zzz111", origin.StatusReady),
			machineRow("alpha", "abc123", origin.StatusDeployed),
			machineRow("mango", "mmm999", origin.StatusBroken),
		},
		Taken: epoch,
	}))

	if len(model.machines) != 3 {
		t.Fatalf("model holds %d machines, want 3", len(model.machines))
	}
	var hostnames []string
	for _, machine := range model.machines {
		hostnames = append(hostnames, machine.Hostname)
	}
	want := []string{"alpha", "mango", "zebra"}
	for i, hostname := range want {
		if hostnames[i] != hostname {
			t.Fatalf("hostnames = %v, want %v", hostnames, want)
		}
	}
}

func TestModelKeepsFleetAcrossPollFailure(t *testing.T) {
	model, _ := newTestModel()
	model = drive(t, model, tea.WindowSizeMsg{Width: 120, Height: 40})
	model = drive(t, model, snapshotMsg(Snapshot{
		Machines: []MachineRow{machineRow("alpha", "abc123", origin.StatusReady)},
		Taken:    epoch,
	}))
	model = drive(t, model, snapshotMsg(Snapshot{Err: errors.New("region unreachable")}))

	if len(model.machines) != 1 {
		t.Fatalf("poll failure dropped the fleet: %v", model.machines)
	}
	view := model.View()
	if !strings.Contains(view, "alpha") {
		t.Errorf("view lost the machine row:\n%s", view)
	}
	if !strings.Contains(view, "poll failed") {
		t.Errorf("view does not surface the poll error:\n%s", view)
	}
}

func TestModelQuitsOnQ(t *testing.T) {
	model, _ := newTestModel()
	_, command := model.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'q'}})
	if command == nil {
		t.Fatal("no command returned for q")
	}
	if _, ok := command().(tea.QuitMsg); !ok {
		t.Fatalf("q produced %T, want tea.QuitMsg", command())
	}
}

func TestStatusLabelPrefersServerText(t *testing.T) {
	row := machineRow("alpha", "abc123", origin.StatusDeploying)
	if got := statusLabel(row); got != "Deploying" {
		t.Errorf("statusLabel = %q, want %q", got, "Deploying")
	}
	row.StatusName = "Deploying (42%)"
	if got := statusLabel(row); got != "Deploying (42%)" {
		t.Errorf("statusLabel = %q, want the server's text", got)
	}
}

func TestCellFormatting(t *testing.T) {
	if got := archLabel("amd64/generic"); got != "amd64" {
		t.Errorf("archLabel(amd64/generic) = %q", got)
	}
	tests := []struct {
		megabytes int
		want      string
	}{
		{0, "-"},
		{2048, "2 GB"},
		{1500, "1500 MB"},
	}
	for _, test := range tests {
		if got := memoryLabel(test.megabytes); got != test.want {
			t.Errorf("memoryLabel(%d) = %q, want %q", test.megabytes, got, test.want)
		}
	}
}

func TestThemeStatusBuckets(t *testing.T) {
	theme := DefaultTheme
	tests := []struct {
		status origin.MachineStatus
		want   string
	}{
		{origin.StatusReady, string(theme.StatusReady)},
		{origin.StatusDeployed, string(theme.StatusActive)},
		{origin.StatusDeploying, string(theme.StatusTransient)},
		{origin.StatusCommissioning, string(theme.StatusTransient)},
		{origin.StatusBroken, string(theme.StatusFailed)},
		{origin.StatusFailedDeployment, string(theme.StatusFailed)},
		{origin.StatusNew, string(theme.FaintText)},
		{origin.StatusRetired, string(theme.FaintText)},
	}
	for _, test := range tests {
		if got := string(theme.StatusColor(test.status)); got != test.want {
			t.Errorf("StatusColor(%v) = %q, want %q", test.status, got, test.want)
		}
	}
}
