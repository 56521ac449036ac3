// Package worker implements the three worker-scheduling variants (serial,
// local-pool, distributed) that execute tasks pulled from a store.Store,
// per SPEC_FULL.md §4.3-4.6.
package worker

import (
	"context"
	"time"

	"github.com/cakehq/cake/internal/store"
)

// Config holds the configuration shared by every worker variant.
type Config struct {
	// Runtime bounds the worker's total lifetime. Zero means unbounded.
	Runtime time.Duration
	// StopTime reserves a tail of Runtime for graceful draining.
	StopTime time.Duration
	// LeftFrac is the fraction of StopTime allotted to the final drain
	// sub-phase once admission has stopped.
	LeftFrac float64
	// Silent suppresses per-task progress logging.
	Silent bool
}

// DefaultConfig returns the worker defaults from SPEC_FULL.md §4.3.
func DefaultConfig() Config {
	return Config{
		Runtime:  0,
		StopTime: 300 * time.Second,
		LeftFrac: 0.5,
	}
}

// admitDeadline returns the absolute time by which the worker must stop
// admitting new work, given a start time.
func (c Config) admitDeadline(start time.Time) time.Time {
	if c.Runtime <= 0 {
		return time.Time{} // zero value: no deadline
	}
	return start.Add(c.Runtime - c.StopTime)
}

// drainDeadline returns the absolute time by which the worker must stop
// draining in-flight tasks and check in the remainder as KILLED.
func (c Config) drainDeadline(start time.Time) time.Time {
	if c.Runtime <= 0 {
		return time.Time{}
	}
	return start.Add(c.Runtime - time.Duration(float64(c.StopTime)*c.LeftFrac))
}

func pastDeadline(deadline time.Time) bool {
	return !deadline.IsZero() && !time.Now().Before(deadline)
}

// Runner is the capability set shared by every worker variant, allowing
// the CLI layer to select an implementation dynamically (SPEC_FULL.md §9,
// "dynamic dispatch over worker variants").
type Runner interface {
	// Run drains the store of eligible tasks (optionally restricted to
	// state) until paused, time-exhausted, or the queue is empty.
	Run(ctx context.Context, state *store.State) error
	Close() error
}

// Base is embedded by each worker variant: it owns the Store handle and
// guarantees its release on every exit path.
type Base struct {
	Store  *store.Store
	Config Config
}

// Close releases the underlying store handle.
func (b *Base) Close() error {
	return b.Store.Close(context.Background())
}
