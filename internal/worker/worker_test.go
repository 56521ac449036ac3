package worker

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cakehq/cake/internal/store"
)

func openTestStore(t *testing.T) *store.Store {
	t.Helper()
	path := filepath.Join(t.TempDir(), "cake.db")
	s, err := store.Open(context.Background(), path, store.DefaultConfig())
	require.NoError(t, err)
	t.Cleanup(func() { _ = s.Close(context.Background()) })
	return s
}

func seedEchoTasks(t *testing.T, s *store.Store, n int) {
	t.Helper()
	ctx := context.Background()
	for i := 0; i < n; i++ {
		_, err := s.Add(ctx, "echo hi", "", 0)
		require.NoError(t, err)
	}
}

func TestSerial_RunsAllTasksToCompletion(t *testing.T) {
	s := openTestStore(t)
	seedEchoTasks(t, s, 16)

	w := NewSerial(s, DefaultConfig())
	require.NoError(t, w.Run(context.Background(), nil))

	report, err := s.Status(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 16, report.ByState[store.StateSucceeded])
}

func TestSerial_PausedStoreStopsTheLoop(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()
	for i := 0; i < 4; i++ {
		_, err := s.Add(ctx, "sleep 1", "", 0)
		require.NoError(t, err)
	}

	// Run sets the store RUNNING before its loop starts, so the pause is
	// issued while the first task executes; the loop stops after it.
	w := NewSerial(s, DefaultConfig())
	done := make(chan error, 1)
	go func() { done <- w.Run(ctx, nil) }()
	time.Sleep(300 * time.Millisecond)
	require.NoError(t, s.Pause(ctx))
	require.NoError(t, <-done)

	report, err := s.Status(ctx)
	require.NoError(t, err)
	assert.Equal(t, 3, report.ByState[store.StateQueuedNoDep])
}

func TestPool_RunsAllTasksToCompletion(t *testing.T) {
	s := openTestStore(t)
	seedEchoTasks(t, s, 16)

	w := NewPool(s, DefaultConfig(), 4)
	require.NoError(t, w.Run(context.Background(), nil))

	report, err := s.Status(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 16, report.ByState[store.StateSucceeded])
}

func TestPool_StopTimeZeroKillsLongRunningTasks(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()
	for i := 0; i < 4; i++ {
		_, err := s.Add(ctx, "sleep 10", "", 0)
		require.NoError(t, err)
	}

	cfg := DefaultConfig()
	cfg.Runtime = 200 * time.Millisecond
	cfg.StopTime = 0
	cfg.LeftFrac = 0

	w := NewPool(s, cfg, 4)
	require.NoError(t, w.Run(ctx, nil))

	report, err := s.Status(ctx)
	require.NoError(t, err)
	assert.Equal(t, 4, report.ByState[store.StateKilled])
}
