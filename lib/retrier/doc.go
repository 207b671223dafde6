// Copyright 2026 The Quarry Authors
// SPDX-License-Identifier: Apache-2.0

// Package retrier provides the bounded polling primitive used to wait
// out long-running server-side state transitions (a machine deploying,
// a disk erasing).
//
// Ticks produces a finite sequence of timing triples. Loop bodies
// decide per tick whether the awaited condition has been reached;
// whether to keep polling, give up, or surface an unexpected state is
// entirely the caller's business. The package deliberately contains no
// retry policy: intervals and the overall timeout are always supplied
// by the caller.
//
//	for tick := range retrier.Ticks(ctx, clk, time.Minute, retrier.Fixed(5*time.Second)) {
//	    if err := machine.Refresh(ctx); err != nil {
//	        return err
//	    }
//	    if machine.Status() != origin.StatusDeploying {
//	        break
//	    }
//	    if tick.Wait == 0 {
//	        return fmt.Errorf("deploy timed out after %v", tick.Elapsed)
//	    }
//	}
package retrier
