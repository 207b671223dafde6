// Copyright 2026 The Quarry Authors
// SPDX-License-Identifier: Apache-2.0

package fleetui

import (
	"context"
	"time"

	"github.com/quarry-project/quarry/lib/clock"
	"github.com/quarry-project/quarry/lib/retrier"
	"github.com/quarry-project/quarry/origin"
)

// MachineRow is the dashboard's view of one machine: just the data the
// table renders, detached from the live origin object so the view side
// never touches a record.
type MachineRow struct {
	SystemID     string
	Hostname     string
	Status       origin.MachineStatus
	StatusName   string
	PowerState   string
	Architecture string
	CPUs         int
	MemoryMB     int
	Zone         string
	Owner        string
	IPAddresses  []string
}

// RowFromMachine projects a live machine into a MachineRow.
func RowFromMachine(machine *origin.Machine) MachineRow {
	return MachineRow{
		SystemID:     machine.SystemID(),
		Hostname:     machine.Hostname(),
		Status:       machine.Status(),
		StatusName:   machine.StatusName(),
		PowerState:   machine.PowerState(),
		Architecture: machine.Architecture(),
		CPUs:         machine.CPUs(),
		MemoryMB:     machine.Memory(),
		Zone:         machine.Zone(),
		Owner:        machine.Owner(),
		IPAddresses:  machine.IPAddresses(),
	}
}

// Lister produces the current fleet. [APILister] adapts the origin
// client's machines API; tests supply rows directly.
type Lister interface {
	List(ctx context.Context) ([]MachineRow, error)
}

// APILister adapts [*origin.MachinesAPI] to [Lister].
type APILister struct {
	API *origin.MachinesAPI
}

func (l APILister) List(ctx context.Context) ([]MachineRow, error) {
	machines, err := l.API.List(ctx)
	if err != nil {
		return nil, err
	}
	rows := make([]MachineRow, 0, len(machines))
	for _, machine := range machines {
		rows = append(rows, RowFromMachine(machine))
	}
	return rows, nil
}

// Snapshot is one poll result. On a failed poll Err is set and Machines
// is nil; the dashboard keeps showing the previous fleet and surfaces
// the error in its status line.
type Snapshot struct {
	Machines []MachineRow
	Taken    time.Time
	Err      error
}

// Source feeds snapshots to the dashboard model.
type Source interface {
	Snapshots() <-chan Snapshot
}

// PollerConfig configures a [Poller].
type PollerConfig struct {
	Lister Lister

	// Interval between polls. Default 5s.
	Interval time.Duration

	// Clock paces the polling. Default the real clock.
	Clock clock.Clock
}

// Poller periodically lists the fleet and publishes snapshots. It is
// the production [Source].
type Poller struct {
	lister    Lister
	interval  time.Duration
	clk       clock.Clock
	snapshots chan Snapshot
}

// NewPoller creates a poller. Call [Poller.Run] on its own goroutine to
// start polling.
func NewPoller(config PollerConfig) *Poller {
	interval := config.Interval
	if interval <= 0 {
		interval = 5 * time.Second
	}
	clk := config.Clock
	if clk == nil {
		clk = clock.Real()
	}
	return &Poller{
		lister:    config.Lister,
		interval:  interval,
		clk:       clk,
		snapshots: make(chan Snapshot, 1),
	}
}

// Snapshots returns the channel snapshots are published on. The channel
// holds the most recent snapshot only: a slow consumer sees the latest
// fleet state, not a backlog.
func (p *Poller) Snapshots() <-chan Snapshot {
	return p.snapshots
}

// pollWindow bounds one tick sequence. The tick factory is finite by
// contract, so a dashboard that runs for longer restarts it.
const pollWindow = time.Hour

// Run polls until ctx is cancelled. The first poll happens immediately.
func (p *Poller) Run(ctx context.Context) {
	for {
		for tick := range retrier.Ticks(ctx, p.clk, pollWindow, retrier.Fixed(p.interval)) {
			if tick.Wait == 0 {
				// Window exhausted; the outer loop starts the next one.
				break
			}
			p.publish(ctx)
		}
		if ctx.Err() != nil {
			return
		}
	}
}

// publish runs one poll and replaces whatever snapshot is still queued.
// Run is the only sender, so the drain-then-send pair cannot race.
func (p *Poller) publish(ctx context.Context) {
	machines, err := p.lister.List(ctx)
	if ctx.Err() != nil {
		return
	}
	snapshot := Snapshot{Machines: machines, Taken: p.clk.Now(), Err: err}
	select {
	case p.snapshots <- snapshot:
	default:
		select {
		case <-p.snapshots:
		default:
		}
		p.snapshots <- snapshot
	}
}
