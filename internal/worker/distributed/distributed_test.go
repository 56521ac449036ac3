package distributed

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cakehq/cake/internal/store"
)

func TestMasterWorker_DrainsQueueOverMemChannel(t *testing.T) {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	path := filepath.Join(t.TempDir(), "cake.db")
	s, err := store.Open(ctx, path, store.DefaultConfig())
	require.NoError(t, err)
	defer s.Close(ctx)

	for i := 0; i < 6; i++ {
		_, err := s.Add(ctx, "echo hi", "", 0)
		require.NoError(t, err)
	}

	ranks := NewMemChannelSet("master", "worker-1", "worker-2")

	master := &Master{
		Store:    s,
		Channel:  ranks["master"],
		Ranks:    []string{"worker-1", "worker-2"},
		Runtime:  2 * time.Second,
		StopTime: time.Second,
		LeftFrac: 0.5,
	}
	w1 := &Worker{Rank: "worker-1", MasterRank: "master", Channel: ranks["worker-1"]}
	w2 := &Worker{Rank: "worker-2", MasterRank: "master", Channel: ranks["worker-2"]}

	done := make(chan error, 2)
	go func() { done <- w1.Run(ctx) }()
	go func() { done <- w2.Run(ctx) }()

	require.NoError(t, master.Run(ctx, nil))

	report, err := s.Status(ctx)
	require.NoError(t, err)
	assert.Equal(t, 6, report.ByState[store.StateSucceeded])

	for i := 0; i < 2; i++ {
		<-done
	}
}
