// Copyright 2026 The Quarry Authors
// SPDX-License-Identifier: Apache-2.0

package fleetui

import (
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/table"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/x/ansi"
)

// chromeHeight is the number of screen rows the header, the status
// line, and the help line take away from the table.
const chromeHeight = 4

// snapshotMsg carries one poller snapshot into the update loop.
type snapshotMsg Snapshot

// Model is the bubbletea model for the fleet dashboard. It renders
// whatever the [Source] last published and performs no I/O of its own.
type Model struct {
	source Source
	theme  Theme

	table    table.Model
	spin     spinner.Model
	width    int
	height   int
	ready    bool
	machines []MachineRow
	taken    time.Time
	pollErr  error
}

// NewModel builds a dashboard over source.
func NewModel(source Source, theme Theme) Model {
	spin := spinner.New(
		spinner.WithSpinner(spinner.MiniDot),
		spinner.WithStyle(lipgloss.NewStyle().Foreground(theme.StatusTransient)),
	)

	grid := table.New(
		table.WithColumns(fleetColumns(0)),
		table.WithFocused(true),
	)
	styles := table.DefaultStyles()
	styles.Header = styles.Header.
		Bold(true).
		Foreground(theme.HeaderForeground).
		BorderStyle(lipgloss.NormalBorder()).
		BorderForeground(theme.FaintText).
		BorderBottom(true)
	styles.Cell = styles.Cell.Foreground(theme.NormalText)
	styles.Selected = styles.Selected.
		Foreground(theme.SelectedForeground).
		Background(theme.SelectedBackground)
	grid.SetStyles(styles)

	return Model{
		source: source,
		theme:  theme,
		table:  grid,
		spin:   spin,
	}
}

func (m Model) Init() tea.Cmd {
	return tea.Batch(m.spin.Tick, listenForSnapshot(m.source.Snapshots()))
}

// listenForSnapshot blocks until the source publishes, then delivers
// the snapshot as a message. The update loop re-issues it after every
// delivery so exactly one listener is pending at a time.
func listenForSnapshot(snapshots <-chan Snapshot) tea.Cmd {
	return func() tea.Msg {
		return snapshotMsg(<-snapshots)
	}
}

func (m Model) Update(message tea.Msg) (tea.Model, tea.Cmd) {
	switch message := message.(type) {
	case tea.KeyMsg:
		switch message.String() {
		case "q", "esc", "ctrl+c":
			return m, tea.Quit
		}

	case tea.WindowSizeMsg:
		m.width = message.Width
		m.height = message.Height
		m.ready = true
		m.table.SetColumns(fleetColumns(m.width))
		m.table.SetWidth(m.width)
		m.table.SetHeight(max(1, m.height-chromeHeight))
		m.table.SetRows(fleetRows(m.machines))
		return m, nil

	case snapshotMsg:
		m.applySnapshot(Snapshot(message))
		return m, listenForSnapshot(m.source.Snapshots())

	case spinner.TickMsg:
		var command tea.Cmd
		m.spin, command = m.spin.Update(message)
		return m, command
	}

	var command tea.Cmd
	m.table, command = m.table.Update(message)
	return m, command
}

// applySnapshot folds a poll result into the model. A failed poll
// keeps the previous fleet on screen; the error shows in the status
// line until a poll succeeds again.
func (m *Model) applySnapshot(snapshot Snapshot) {
	m.pollErr = snapshot.Err
	if snapshot.Err != nil {
		return
	}
	machines := append([]MachineRow(nil), snapshot.Machines...)
	sort.Slice(machines, func(i, j int) bool {
		if machines[i].Hostname != machines[j].Hostname {
			return machines[i].Hostname < machines[j].Hostname
		}
		return machines[i].SystemID < machines[j].SystemID
	})
	m.machines = machines
	m.taken = snapshot.Taken

	cursor := m.table.Cursor()
	m.table.SetRows(fleetRows(m.machines))
	if cursor < len(m.machines) {
		m.table.SetCursor(cursor)
	}
}

func (m Model) View() string {
	if !m.ready {
		return "loading…"
	}

	header := lipgloss.NewStyle().
		Bold(true).
		Foreground(m.theme.HeaderForeground).
		Render(fmt.Sprintf("%s quarry fleet — %d machines", m.spin.View(), len(m.machines)))

	status := ""
	if !m.taken.IsZero() {
		status = "updated " + m.taken.Format("15:04:05")
	}
	if m.pollErr != nil {
		status = lipgloss.NewStyle().
			Foreground(m.theme.StatusFailed).
			Render("poll failed: " + ansi.Truncate(m.pollErr.Error(), max(10, m.width-14), "…"))
	}

	help := lipgloss.NewStyle().
		Foreground(m.theme.HelpText).
		Render("↑/↓ select · q quit")

	var view strings.Builder
	view.WriteString(header)
	view.WriteString("\n")
	view.WriteString(m.table.View())
	view.WriteString("\n")
	view.WriteString(status)
	view.WriteString("\n")
	view.WriteString(help)
	return view.String()
}

// fleetColumns sizes the grid for a terminal width. The hostname
// column absorbs the slack; every other column is fixed.
func fleetColumns(width int) []table.Column {
	const fixed = 8 + 14 + 8 + 6 + 5 + 7 + 10 + 10 + 9*2 // sum + separators
	hostname := 24
	if width > 0 {
		if slack := width - fixed; slack > hostname {
			hostname = slack
		}
	}
	return []table.Column{
		{Title: "HOSTNAME", Width: hostname},
		{Title: "SYSTEM", Width: 8},
		{Title: "STATUS", Width: 14},
		{Title: "POWER", Width: 8},
		{Title: "ARCH", Width: 6},
		{Title: "CPUS", Width: 5},
		{Title: "MEMORY", Width: 7},
		{Title: "ZONE", Width: 10},
		{Title: "OWNER", Width: 10},
	}
}

// fleetRows renders machines into table rows. Cells stay free of ANSI
// sequences — the table's own styles handle color — except the memory
// formatting, which is plain text either way.
func fleetRows(machines []MachineRow) []table.Row {
	rows := make([]table.Row, 0, len(machines))
	for _, machine := range machines {
		rows = append(rows, table.Row{
			machine.Hostname,
			machine.SystemID,
			statusLabel(machine),
			machine.PowerState,
			archLabel(machine.Architecture),
			fmt.Sprintf("%d", machine.CPUs),
			memoryLabel(machine.MemoryMB),
			machine.Zone,
			machine.Owner,
		})
	}
	return rows
}

// statusLabel prefers the server's status_name text, falling back to
// the numeric status's own name.
func statusLabel(machine MachineRow) string {
	if machine.StatusName != "" {
		return machine.StatusName
	}
	return machine.Status.String()
}

// archLabel shows the architecture family without the subarch suffix
// ("amd64/generic" → "amd64") to keep the column narrow.
func archLabel(architecture string) string {
	family, _, _ := strings.Cut(architecture, "/")
	return family
}

// memoryLabel formats megabytes as gigabytes once they divide evenly.
func memoryLabel(megabytes int) string {
	if megabytes <= 0 {
		return "-"
	}
	if megabytes%1024 == 0 {
		return fmt.Sprintf("%d GB", megabytes/1024)
	}
	return fmt.Sprintf("%d MB", megabytes)
}
