// Copyright 2026 The Quarry Authors
// SPDX-License-Identifier: Apache-2.0

package fleetui

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/quarry-project/quarry/lib/clock"
	"github.com/quarry-project/quarry/lib/testutil"
	"github.com/quarry-project/quarry/origin"
)

var epoch = time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)

// scriptedLister returns each listed result in turn, then repeats the
// last one.
type scriptedLister struct {
	mu      sync.Mutex
	results []listResult
	calls   int
}

type listResult struct {
	rows []MachineRow
	err  error
}

func (l *scriptedLister) List(ctx context.Context) ([]MachineRow, error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	index := min(l.calls, len(l.results)-1)
	l.calls++
	return l.results[index].rows, l.results[index].err
}

func machineRow(hostname, systemID string, status origin.MachineStatus) MachineRow {
	return MachineRow{Hostname: hostname, SystemID: systemID, Status: status}
}

func TestPollerPublishesOnEachTick(t *testing.T) {
	lister := &scriptedLister{results: []listResult{
		{rows: []MachineRow{machineRow("alpha", "abc123", origin.StatusReady)}},
		{rows: []MachineRow{
			machineRow("alpha", "abc123", origin.StatusDeploying),
			machineRow("beta", "def456", origin.StatusReady),
		}},
	}}
	clk := clock.Fake(epoch)
	poller := NewPoller(PollerConfig{Lister: lister, Interval: 5 * time.Second, Clock: clk})

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	done := make(chan struct{})
	go func() {
		poller.Run(ctx)
		close(done)
	}()

	first := testutil.RequireReceive(t, poller.Snapshots(), 5*time.Second, "first snapshot")
	if len(first.Machines) != 1 || first.Machines[0].Hostname != "alpha" {
		t.Fatalf("first snapshot machines = %v", first.Machines)
	}
	if first.Err != nil {
		t.Fatalf("first snapshot error: %v", first.Err)
	}
	if !first.Taken.Equal(epoch) {
		t.Errorf("first snapshot taken %v, want %v", first.Taken, epoch)
	}

	// The poller is now pausing between ticks on the fake clock.
	clk.WaitForTimers(1)
	clk.Advance(5 * time.Second)

	second := testutil.RequireReceive(t, poller.Snapshots(), 5*time.Second, "second snapshot")
	if len(second.Machines) != 2 {
		t.Fatalf("second snapshot has %d machines, want 2", len(second.Machines))
	}

	cancel()
	testutil.RequireClosed(t, done, 5*time.Second, "poller shutdown")
}

func TestPollerKeepsLatestSnapshotOnly(t *testing.T) {
	lister := &scriptedLister{results: []listResult{
		{rows: []MachineRow{machineRow("alpha", "abc123", origin.StatusReady)}},
		{rows: []MachineRow{machineRow("beta", "def456", origin.StatusReady)}},
	}}
	clk := clock.Fake(epoch)
	poller := NewPoller(PollerConfig{Lister: lister, Interval: time.Second, Clock: clk})

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	done := make(chan struct{})
	go func() {
		poller.Run(ctx)
		close(done)
	}()

	// Let two polls complete without consuming. The queue holds one
	// snapshot, so the second poll replaces the first. The poller only
	// re-arms its pause timer after publishing, so a pending timer
	// means the previous publish is complete.
	clk.WaitForTimers(1)
	clk.Advance(time.Second)
	clk.WaitForTimers(1)

	snapshot := testutil.RequireReceive(t, poller.Snapshots(), 5*time.Second, "latest snapshot")
	if len(snapshot.Machines) != 1 || snapshot.Machines[0].Hostname != "beta" {
		t.Fatalf("snapshot machines = %v, want the later poll", snapshot.Machines)
	}

	cancel()
	testutil.RequireClosed(t, done, 5*time.Second, "poller shutdown")
}

func TestPollerReportsListErrors(t *testing.T) {
	listErr := errors.New("region unreachable")
	lister := &scriptedLister{results: []listResult{{err: listErr}}}
	clk := clock.Fake(epoch)
	poller := NewPoller(PollerConfig{Lister: lister, Interval: time.Second, Clock: clk})

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	done := make(chan struct{})
	go func() {
		poller.Run(ctx)
		close(done)
	}()

	snapshot := testutil.RequireReceive(t, poller.Snapshots(), 5*time.Second, "error snapshot")
	if !errors.Is(snapshot.Err, listErr) {
		t.Fatalf("snapshot error = %v, want %v", snapshot.Err, listErr)
	}
	if snapshot.Machines != nil {
		t.Errorf("error snapshot carries machines: %v", snapshot.Machines)
	}

	cancel()
	testutil.RequireClosed(t, done, 5*time.Second, "poller shutdown")
}
