package worker

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/cakehq/cake/internal/logger"
	"github.com/cakehq/cake/internal/metrics"
	"github.com/cakehq/cake/internal/store"
)

// slotResult is what a dispatched slot goroutine reports back on
// completion.
type slotResult struct {
	taskID string
	status int
	err    error
}

// inFlightEntry tracks one task currently executing in a pool slot.
type inFlightEntry struct {
	taskID    string
	startedAt time.Time
	cancel    context.CancelFunc
}

// Pool is the fixed-size local-process (goroutine) pool worker of
// SPEC_FULL.md §4.5.
type Pool struct {
	Base
	n int

	mu       sync.Mutex
	inFlight map[string]*inFlightEntry
}

// NewPool constructs a local-pool worker with n execution slots.
func NewPool(s *store.Store, cfg Config, n int) *Pool {
	if n <= 0 {
		n = 1
	}
	return &Pool{
		Base:     Base{Store: s, Config: cfg},
		n:        n,
		inFlight: make(map[string]*inFlightEntry),
	}
}

// Run admits tasks into up to n concurrent slots, drains in-flight work
// within the configured stop window, and checks in anything still running
// at the drain deadline (or on interrupt) as KILLED.
func (p *Pool) Run(ctx context.Context, state *store.State) error {
	interrupts, stopWatching := notifyInterrupt()
	defer stopWatching()

	poolCtx, cancelPool := context.WithCancel(ctx)
	defer cancelPool()

	start := time.Now()
	admitDeadline := p.Config.admitDeadline(start)
	drainDeadline := p.Config.drainDeadline(start)

	if err := p.Store.Run(ctx); err != nil {
		return fmt.Errorf("worker: set store running: %w", err)
	}

	results := make(chan slotResult, p.n)
	idle := p.n

	killRemaining := func() {
		p.mu.Lock()
		defer p.mu.Unlock()
		for id, entry := range p.inFlight {
			entry.cancel()
			if err := p.Store.Checkin(context.Background(), id, store.StateKilled, ""); err != nil {
				logger.WithTask(id).Error().Err(err).Msg("failed to check in killed task")
			}
			metrics.RecordCheckin("killed")
			delete(p.inFlight, id)
		}
	}

	admitting := true
	for admitting {
		select {
		case <-interrupts:
			cancelPool()
			killRemaining()
			return nil
		case <-ctx.Done():
			cancelPool()
			killRemaining()
			return nil
		default:
		}

		if pastDeadline(admitDeadline) {
			admitting = false
			break
		}

		storeState, err := p.Store.State(ctx)
		if err != nil {
			return fmt.Errorf("worker: read store state: %w", err)
		}
		if storeState == store.StoreStatePaused {
			admitting = false
			break
		}

		for idle > 0 {
			cmd, id, ok, err := p.Store.Checkout(ctx, state)
			if err != nil {
				return fmt.Errorf("worker: checkout: %w", err)
			}
			if !ok {
				admitting = false
				break
			}
			idle--
			p.dispatch(poolCtx, id, cmd, results)
		}

		select {
		case res := <-results:
			p.finish(ctx, res)
			idle++
		case <-time.After(100 * time.Millisecond):
		case <-interrupts:
			cancelPool()
			killRemaining()
			return nil
		}
	}

	// Phase B: drain.
	for p.activeCount() > 0 {
		if pastDeadline(drainDeadline) {
			break
		}
		select {
		case res := <-results:
			p.finish(ctx, res)
		case <-interrupts:
			cancelPool()
			killRemaining()
			return nil
		case <-time.After(100 * time.Millisecond):
		}
	}

	cancelPool()
	killRemaining()
	return nil
}

func (p *Pool) dispatch(ctx context.Context, id, cmd string, results chan<- slotResult) {
	taskCtx, cancel := context.WithCancel(ctx)
	p.mu.Lock()
	p.inFlight[id] = &inFlightEntry{taskID: id, startedAt: time.Now(), cancel: cancel}
	p.mu.Unlock()

	if !p.Config.Silent {
		logger.WithTask(id).Info().Str("cmd", cmd).Msg("dispatching task")
	}

	go func() {
		status, err := runShell(taskCtx, id, cmd)
		results <- slotResult{taskID: id, status: status, err: err}
	}()
}

func (p *Pool) finish(ctx context.Context, res slotResult) {
	p.mu.Lock()
	entry, tracked := p.inFlight[res.taskID]
	if tracked {
		delete(p.inFlight, res.taskID)
	}
	p.mu.Unlock()
	if !tracked {
		return
	}
	entry.cancel()

	if res.err != nil {
		logger.WithTask(res.taskID).Error().Err(res.err).Msg("shell execution failed")
		return
	}

	if res.status == 0 {
		if err := p.Store.Checkin(ctx, res.taskID, store.StateSucceeded, ""); err != nil {
			logger.WithTask(res.taskID).Error().Err(err).Msg("failed to check in succeeded task")
		}
		metrics.RecordCheckin("succeeded")
	} else {
		if err := p.Store.Checkin(ctx, res.taskID, store.StateFailed, fmt.Sprintf("%d", res.status)); err != nil {
			logger.WithTask(res.taskID).Error().Err(err).Msg("failed to check in failed task")
		}
		metrics.RecordCheckin("failed")
	}
}

func (p *Pool) activeCount() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return len(p.inFlight)
}
