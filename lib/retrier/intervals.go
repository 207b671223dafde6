// Copyright 2026 The Quarry Authors
// SPDX-License-Identifier: Apache-2.0

package retrier

import (
	"fmt"
	"time"
)

// Fixed returns an interval source that suggests d forever. Panics if
// d is not positive.
func Fixed(d time.Duration) Intervals {
	if d <= 0 {
		panic(fmt.Sprintf("retrier: non-positive fixed interval %v", d))
	}
	return func(yield func(time.Duration) bool) {
		for yield(d) {
		}
	}
}

// Series returns an interval source that suggests the given durations
// in order, then repeats the last one forever. Panics if the series is
// empty or contains a non-positive duration.
func Series(durations ...time.Duration) Intervals {
	if len(durations) == 0 {
		panic("retrier: empty interval series")
	}
	for _, d := range durations {
		if d <= 0 {
			panic(fmt.Sprintf("retrier: non-positive interval %v in series", d))
		}
	}
	series := append([]time.Duration(nil), durations...)
	return func(yield func(time.Duration) bool) {
		for _, d := range series {
			if !yield(d) {
				return
			}
		}
		last := series[len(series)-1]
		for yield(last) {
		}
	}
}

// Backoff returns an interval source that starts at first and
// multiplies by factor after each hint, capped at max. Panics if first
// or max is not positive, or factor is less than 1.
func Backoff(first time.Duration, factor float64, max time.Duration) Intervals {
	if first <= 0 || max <= 0 {
		panic(fmt.Sprintf("retrier: non-positive backoff bounds (first=%v, max=%v)", first, max))
	}
	if factor < 1 {
		panic(fmt.Sprintf("retrier: backoff factor %v below 1", factor))
	}
	return func(yield func(time.Duration) bool) {
		d := min(first, max)
		for yield(d) {
			d = time.Duration(float64(d) * factor)
			if d > max {
				d = max
			}
		}
	}
}
