package worker

import (
	"context"
	"fmt"
	"time"

	"github.com/cakehq/cake/internal/logger"
	"github.com/cakehq/cake/internal/metrics"
	"github.com/cakehq/cake/internal/store"
)

// Serial is the single-threaded worker loop of SPEC_FULL.md §4.4.
type Serial struct {
	Base
}

// NewSerial constructs a serial worker over an already-open store handle.
func NewSerial(s *store.Store, cfg Config) *Serial {
	return &Serial{Base{Store: s, Config: cfg}}
}

// Run executes tasks one at a time until the queue drains, the store is
// paused, Runtime elapses, or ctx is canceled/interrupted.
func (w *Serial) Run(ctx context.Context, state *store.State) error {
	interrupts, stopWatching := notifyInterrupt()
	defer stopWatching()

	start := time.Now()
	var deadline time.Time // zero value: no deadline
	if w.Config.Runtime > 0 {
		deadline = start.Add(w.Config.Runtime)
	}

	if err := w.Store.Run(ctx); err != nil {
		return fmt.Errorf("worker: set store running: %w", err)
	}

	var inFlight string // task id currently executing, if any

	killInFlight := func() {
		if inFlight == "" {
			return
		}
		if err := w.Store.Checkin(context.Background(), inFlight, store.StateKilled, ""); err != nil {
			logger.WithTask(inFlight).Error().Err(err).Msg("failed to check in killed task")
		}
		metrics.RecordCheckin("killed")
		inFlight = ""
	}

	for {
		select {
		case <-interrupts:
			killInFlight()
			return nil
		case <-ctx.Done():
			killInFlight()
			return nil
		default:
		}

		if pastDeadline(deadline) {
			return nil
		}

		storeState, err := w.Store.State(ctx)
		if err != nil {
			return fmt.Errorf("worker: read store state: %w", err)
		}
		if storeState == store.StoreStatePaused {
			return nil
		}

		cmd, id, ok, err := w.Store.Checkout(ctx, state)
		if err != nil {
			return fmt.Errorf("worker: checkout: %w", err)
		}
		if !ok {
			return nil
		}

		inFlight = id
		if !w.Config.Silent {
			logger.WithTask(id).Info().Str("cmd", cmd).Msg("executing task")
		}

		taskCtx, cancelTask := context.WithCancel(ctx)
		done := make(chan slotResult, 1)
		go func() {
			st, e := runShell(taskCtx, id, cmd)
			done <- slotResult{taskID: id, status: st, err: e}
		}()
		var res slotResult
		select {
		case res = <-done:
		case <-interrupts:
			cancelTask()
			killInFlight()
			return nil
		}
		cancelTask()
		status, execErr := res.status, res.err
		inFlight = ""

		if execErr != nil {
			return fmt.Errorf("worker: shell execution: %w", execErr)
		}

		if status == 0 {
			if err := w.Store.Checkin(ctx, id, store.StateSucceeded, ""); err != nil {
				return fmt.Errorf("worker: checkin: %w", err)
			}
			metrics.RecordCheckin("succeeded")
		} else {
			if err := w.Store.Checkin(ctx, id, store.StateFailed, fmt.Sprintf("%d", status)); err != nil {
				return fmt.Errorf("worker: checkin: %w", err)
			}
			metrics.RecordCheckin("failed")
		}
	}
}
