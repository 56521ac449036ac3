package distributed

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/cakehq/cake/internal/logger"
	"github.com/cakehq/cake/internal/metrics"
	"github.com/cakehq/cake/internal/store"
)

// inFlight tracks one task dispatched to a worker rank awaiting results.
type inFlight struct {
	taskID    string
	rank      string
	startedAt time.Time
}

// Master owns the Store and dispatches tasks to worker ranks over ch.
type Master struct {
	Store    *store.Store
	Channel  Channel
	Ranks    []string
	Runtime  time.Duration
	StopTime time.Duration
	LeftFrac float64
	Silent   bool
}

// Run implements the master algorithm of SPEC_FULL.md §4.6.
func (m *Master) Run(ctx context.Context, state *store.State) error {
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	defer signal.Stop(sigCh)

	start := time.Now()
	var admitDeadline, drainDeadline time.Time
	if m.Runtime > 0 {
		admitDeadline = start.Add(m.Runtime - m.StopTime)
		drainDeadline = start.Add(m.Runtime - time.Duration(float64(m.StopTime)*m.LeftFrac))
	}

	if err := m.Store.Run(ctx); err != nil {
		return fmt.Errorf("distributed master: set store running: %w", err)
	}

	tracked := make(map[string]*inFlight) // taskID -> entry

	killAll := func() {
		for id := range tracked {
			if err := m.Store.Checkin(context.Background(), id, store.StateKilled, ""); err != nil {
				logger.WithTask(id).Error().Err(err).Msg("master: failed to check in killed task")
			}
			metrics.RecordCheckin("killed")
		}
	}

	admitting := true
	for admitting {
		select {
		case <-sigCh:
			killAll()
			return nil
		case <-ctx.Done():
			killAll()
			return nil
		default:
		}

		if !admitDeadline.IsZero() && !time.Now().Before(admitDeadline) {
			break
		}
		storeState, err := m.Store.State(ctx)
		if err != nil {
			return fmt.Errorf("distributed master: read store state: %w", err)
		}
		if storeState == store.StoreStatePaused {
			break
		}

		env, err := m.Channel.Recv(ctx)
		if err != nil {
			return fmt.Errorf("distributed master: recv: %w", err)
		}

		switch env.Tag {
		case TagReadyWorker:
			cmd, id, ok, err := m.Store.Checkout(ctx, state)
			if err != nil {
				return fmt.Errorf("distributed master: checkout: %w", err)
			}
			if !ok {
				// Stop admitting but keep draining until the deadline
				// (SPEC_FULL.md §4.6 resolves the original open question).
				admitting = false
				continue
			}
			tracked[id] = &inFlight{taskID: id, rank: env.From, startedAt: time.Now()}
			if err := m.Channel.Send(ctx, env.From, TagRecvWork, encode(WorkPayload{Cmd: cmd, ID: id})); err != nil {
				return fmt.Errorf("distributed master: send work: %w", err)
			}
		case TagResultsWorker:
			m.handleResult(ctx, tracked, env)
		}
	}

	// Phase B: drain.
	for len(tracked) > 0 {
		if !drainDeadline.IsZero() && !time.Now().Before(drainDeadline) {
			break
		}
		select {
		case <-sigCh:
			killAll()
			return nil
		case <-ctx.Done():
			killAll()
			return nil
		default:
		}

		env, err := m.Channel.Recv(ctx)
		if err != nil {
			break
		}
		if env.Tag == TagResultsWorker {
			m.handleResult(ctx, tracked, env)
		}
	}

	for _, rank := range m.Ranks {
		_ = m.Channel.Send(ctx, rank, TagStopWork, nil)
	}

	killAll()
	return nil
}

func (m *Master) handleResult(ctx context.Context, tracked map[string]*inFlight, env Envelope) {
	res, err := decodeResult(env.Payload)
	if err != nil {
		logger.Error().Err(err).Msg("master: malformed result payload")
		return
	}
	if _, ok := tracked[res.ID]; !ok {
		return
	}
	delete(tracked, res.ID)

	if res.Status == 0 {
		if err := m.Store.Checkin(ctx, res.ID, store.StateSucceeded, ""); err != nil {
			logger.WithTask(res.ID).Error().Err(err).Msg("master: checkin failed")
		}
		metrics.RecordCheckin("succeeded")
	} else {
		if err := m.Store.Checkin(ctx, res.ID, store.StateFailed, fmt.Sprintf("%d", res.Status)); err != nil {
			logger.WithTask(res.ID).Error().Err(err).Msg("master: checkin failed")
		}
		metrics.RecordCheckin("failed")
	}
}
