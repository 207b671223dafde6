// Copyright 2026 The Quarry Authors
// SPDX-License-Identifier: Apache-2.0

// Package clock provides an injectable time abstraction for testability.
//
// Production code accepts a Clock interface parameter instead of calling
// time.Now, time.After, or time.Sleep directly. In production, Real()
// provides the standard library behavior. In tests, Fake() provides a
// deterministic clock that advances only when Advance is called.
//
// The polling iterator in lib/retrier and the request-duration logging
// in the transport both take their time from a Clock, so their tests
// never sleep for real and never race the wall clock.
//
// # Wiring Pattern
//
// Add a Clock field to config structs and default it in the
// constructor:
//
//	clk := config.Clock
//	if clk == nil {
//	    clk = clock.Real()
//	}
package clock
