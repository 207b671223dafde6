// Copyright 2026 The Quarry Authors
// SPDX-License-Identifier: Apache-2.0

package retrier

import (
	"context"
	"iter"
	"time"

	"github.com/quarry-project/quarry/lib/clock"
)

// Tick is one step of a bounded polling loop.
type Tick struct {
	// Elapsed is the time spent since the sequence started.
	Elapsed time.Duration

	// Remaining is the time left until the deadline. Zero or negative
	// on the final tick.
	Remaining time.Duration

	// Wait is the pause the iterator takes after yielding this tick:
	// the next interval hint, clamped so the sequence never overshoots
	// the deadline. Zero on the final tick — a consumer that is still
	// waiting for a state change when Wait is zero has timed out.
	Wait time.Duration
}

// Intervals supplies successive wait hints for a polling sequence.
// The stock sources (Fixed, Series, Backoff) never stop producing;
// the deadline is the only thing that ends a sequence.
type Intervals = iter.Seq[time.Duration]

// Ticks returns a finite sequence of timing triples spanning at most
// timeout from the moment of the call. All times are measured on clk.
//
// Between ticks the iterator pauses for the yielded Wait on clk, so
// consecutive ticks always observe real elapsed time — the loop body
// itself never needs to sleep. The final tick lands at or past the
// deadline and carries a zero Wait; no tick is yielded after it.
//
// The sequence stops early when the consumer breaks out of the loop or
// ctx is cancelled during a pause. A new call to Ticks starts a fresh
// sequence; an exhausted one cannot be resumed.
func Ticks(ctx context.Context, clk clock.Clock, timeout time.Duration, intervals Intervals) iter.Seq[Tick] {
	return func(yield func(Tick) bool) {
		next, stop := iter.Pull(intervals)
		defer stop()

		start := clk.Now()
		deadline := start.Add(timeout)
		for {
			now := clk.Now()
			elapsed := now.Sub(start)
			remaining := deadline.Sub(now)
			if remaining <= 0 {
				yield(Tick{Elapsed: elapsed, Remaining: remaining})
				return
			}

			hint, ok := next()
			if !ok {
				// The interval source dried up. Treat the rest of the
				// window as one final pause.
				hint = remaining
			}
			wait := min(hint, remaining)
			if !yield(Tick{Elapsed: elapsed, Remaining: remaining, Wait: wait}) {
				return
			}

			select {
			case <-clk.After(wait):
			case <-ctx.Done():
				return
			}
		}
	}
}
