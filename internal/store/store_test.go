package store

import (
	"context"
	"fmt"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func openTestStore(t *testing.T) *Store {
	t.Helper()
	path := filepath.Join(t.TempDir(), "cake.db")
	s, err := Open(context.Background(), path, DefaultConfig())
	require.NoError(t, err)
	t.Cleanup(func() { _ = s.Close(context.Background()) })
	return s
}

func TestOpen_FreshStoreIsPaused(t *testing.T) {
	s := openTestStore(t)
	st, err := s.State(context.Background())
	require.NoError(t, err)
	assert.Equal(t, StoreStatePaused, st)
}

func TestAdd_DuplicateIDFailsAtomically(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()

	_, err := s.Add(ctx, "echo 1", "task-1", 0)
	require.NoError(t, err)

	_, err = s.Add(ctx, "echo 2", "task-1", 0)
	require.ErrorIs(t, err, ErrIntegrity)

	tasks, err := s.List(ctx, nil)
	require.NoError(t, err)
	require.Len(t, tasks, 1)
	assert.Equal(t, "echo 1", tasks[0].Cmd)
}

func TestAddMultiple_CollisionFailsWholeBatch(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()

	_, err := s.Add(ctx, "echo 0", "dup", 0)
	require.NoError(t, err)

	_, err = s.AddMultiple(ctx, []string{"echo 1", "echo 2"}, []string{"dup", "fresh"}, nil)
	require.ErrorIs(t, err, ErrIntegrity)

	tasks, err := s.List(ctx, nil)
	require.NoError(t, err)
	require.Len(t, tasks, 1, "no task from the failed batch should have been inserted")
}

func TestAddMultiple_ScalarPriorityAppliesToAll(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()

	ids, err := s.AddMultiple(ctx, []string{"echo 0", "echo 1", "echo 2"}, nil, []float64{5})
	require.NoError(t, err)
	require.Len(t, ids, 3)

	tasks, err := s.List(ctx, nil)
	require.NoError(t, err)
	for _, task := range tasks {
		assert.Equal(t, float64(5), task.Priority)
	}
}

func TestCheckout_SelectsHighestPriority(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()

	_, err := s.Add(ctx, "echo low", "low", 1)
	require.NoError(t, err)
	_, err = s.Add(ctx, "echo high", "high", 10)
	require.NoError(t, err)

	cmd, id, ok, err := s.Checkout(ctx, nil)
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, "high", id)
	assert.Equal(t, "echo high", cmd)

	tasks, err := s.List(ctx, nil)
	require.NoError(t, err)
	for _, task := range tasks {
		if task.ID == "high" {
			assert.Equal(t, StateRunning, task.State)
		}
	}
}

func TestCheckout_EmptyQueueReturnsNoTaskWithoutError(t *testing.T) {
	s := openTestStore(t)
	_, _, ok, err := s.Checkout(context.Background(), nil)
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestCheckout_NoTaskForRequestedState(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()
	_, err := s.Add(ctx, "echo 1", "", 0)
	require.NoError(t, err)

	failed := StateFailed
	_, _, ok, err := s.Checkout(ctx, &failed)
	require.NoError(t, err)
	assert.False(t, ok)

	tasks, err := s.List(ctx, nil)
	require.NoError(t, err)
	assert.Equal(t, StateQueuedNoDep, tasks[0].State, "checkout against an empty requested state must not mutate other tasks")
}

func TestCheckin_RejectsIllegalOutcome(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()
	id, err := s.Add(ctx, "echo 1", "", 0)
	require.NoError(t, err)

	err = s.Checkin(ctx, id, StateQueuedNoDep, "")
	require.ErrorIs(t, err, ErrInvalidArgument)
}

func TestCheckinCycle_ThenReset(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()

	outcomes := []State{StateFailed, StateSucceeded, StateCheckpointed, StateKilled}
	var ids []string
	for i := 0; i < 10; i++ {
		// Ids sort in insertion order, since equal priorities break ties on task_id.
		id, err := s.Add(ctx, "echo task", fmt.Sprintf("task-%02d", i), 0)
		require.NoError(t, err)
		ids = append(ids, id)
	}

	// Only QUEUED_NO_DEP tasks are checked out, so the CHECKPOINTED and
	// KILLED ones from earlier iterations are not picked again.
	queued := StateQueuedNoDep
	for i, id := range ids {
		_, gotID, ok, err := s.Checkout(ctx, &queued)
		require.NoError(t, err)
		require.True(t, ok)
		require.Equal(t, id, gotID)
		require.NoError(t, s.Checkin(ctx, id, outcomes[i%len(outcomes)], ""))
	}

	require.NoError(t, s.Reset(ctx))

	tasks, err := s.List(ctx, nil)
	require.NoError(t, err)
	for _, task := range tasks {
		assert.Equal(t, StateQueuedNoDep, task.State)
		entries, err := s.Log(ctx, task.ID)
		require.NoError(t, err)
		require.NotEmpty(t, entries)
		assert.Equal(t, ActionReset, entries[len(entries)-1].Action)
	}
}

func TestCleanup_MarksRunningTasksKilled(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()
	id, err := s.Add(ctx, "echo 1", "", 0)
	require.NoError(t, err)
	_, _, ok, err := s.Checkout(ctx, nil)
	require.NoError(t, err)
	require.True(t, ok)

	require.NoError(t, s.Cleanup(ctx))

	tasks, err := s.List(ctx, nil)
	require.NoError(t, err)
	require.Len(t, tasks, 1)
	assert.Equal(t, id, tasks[0].ID)
	assert.Equal(t, StateKilled, tasks[0].State)
}

func TestClose_LastClientForcesPaused(t *testing.T) {
	path := filepath.Join(t.TempDir(), "cake.db")
	ctx := context.Background()
	s, err := Open(ctx, path, DefaultConfig())
	require.NoError(t, err)

	require.NoError(t, s.Run(ctx))
	st, err := s.State(ctx)
	require.NoError(t, err)
	assert.Equal(t, StoreStateRunning, st)

	require.NoError(t, s.Close(ctx))

	s2, err := Open(ctx, path, DefaultConfig())
	require.NoError(t, err)
	defer s2.Close(ctx)

	st, err = s2.State(ctx)
	require.NoError(t, err)
	assert.Equal(t, StoreStatePaused, st)
}

func TestStatus_ExcludesDeletedFromTotal(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()
	_, err := s.Add(ctx, "echo 1", "keep", 0)
	require.NoError(t, err)
	_, err = s.Add(ctx, "echo 2", "gone", 0)
	require.NoError(t, err)
	require.NoError(t, s.Delete(ctx, "gone", false))

	report, err := s.Status(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, report.TotalTasks)
	assert.Equal(t, 1, report.ByState[StateDeleted])
}

func TestRuntime_OnlyWellDefinedTasksContribute(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()

	id, err := s.Add(ctx, "echo 1", "", 0)
	require.NoError(t, err)
	_, _, ok, err := s.Checkout(ctx, nil)
	require.NoError(t, err)
	require.True(t, ok)
	require.NoError(t, s.Checkin(ctx, id, StateSucceeded, ""))

	report, err := s.Runtime(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, report.Count)
	assert.GreaterOrEqual(t, report.Total, float64(0))
	assert.Equal(t, id, report.Min.TaskID)
}
