//go:build integration
// +build integration

package integration

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cakehq/cake/internal/adminapi"
	"github.com/cakehq/cake/internal/config"
	"github.com/cakehq/cake/internal/logger"
	"github.com/cakehq/cake/internal/store"
	"github.com/cakehq/cake/internal/worker"
)

func init() {
	logger.Init("error", false)
}

func newTestServer(t *testing.T) (*adminapi.Server, *store.Store) {
	t.Helper()
	path := filepath.Join(t.TempDir(), "cake.db")
	s, err := store.Open(context.Background(), path, store.DefaultConfig())
	require.NoError(t, err)
	t.Cleanup(func() { _ = s.Close(context.Background()) })

	cfg := &config.Config{
		Metrics: config.MetricsConfig{Enabled: false},
		Auth:    config.AuthConfig{Enabled: false},
	}
	server := adminapi.NewServer(cfg, s)

	ctx, cancel := context.WithCancel(context.Background())
	t.Cleanup(cancel)
	server.Start(ctx)
	t.Cleanup(server.Stop)

	return server, s
}

func doJSON(t *testing.T, server *adminapi.Server, method, path string, body interface{}) (*httptest.ResponseRecorder, map[string]interface{}) {
	t.Helper()

	var reader *bytes.Reader
	if body != nil {
		b, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(b)
	} else {
		reader = bytes.NewReader(nil)
	}

	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	server.ServeHTTP(w, req)

	var parsed map[string]interface{}
	if w.Body.Len() > 0 {
		_ = json.Unmarshal(w.Body.Bytes(), &parsed)
	}
	return w, parsed
}

func TestTaskLifecycle_AddListGet(t *testing.T) {
	server, _ := newTestServer(t)

	w, resp := doJSON(t, server, http.MethodPost, "/api/v1/tasks", map[string]interface{}{
		"cmd":      "echo hello",
		"priority": 1.5,
	})
	require.Equal(t, http.StatusCreated, w.Code)
	taskID, _ := resp["id"].(string)
	assert.NotEmpty(t, taskID)

	w, resp = doJSON(t, server, http.MethodGet, "/api/v1/tasks/"+taskID, nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, taskID, resp["task_id"])
	assert.NotEmpty(t, resp["log"])

	w, resp = doJSON(t, server, http.MethodGet, "/api/v1/tasks", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.EqualValues(t, 1, resp["count"])
	tasks, _ := resp["tasks"].([]interface{})
	require.Len(t, tasks, 1)
	first, _ := tasks[0].(map[string]interface{})
	assert.Equal(t, "echo hello", first["cmd"])
	assert.Equal(t, "QUEUED_NO_DEP", first["state"])
}

func TestTaskLifecycle_Delete(t *testing.T) {
	server, _ := newTestServer(t)

	_, resp := doJSON(t, server, http.MethodPost, "/api/v1/tasks", map[string]interface{}{"cmd": "echo bye"})
	taskID, _ := resp["id"].(string)
	require.NotEmpty(t, taskID)

	w, _ := doJSON(t, server, http.MethodDelete, "/api/v1/tasks/"+taskID, nil)
	assert.Equal(t, http.StatusOK, w.Code)

	w, resp = doJSON(t, server, http.MethodGet, "/api/v1/tasks", nil)
	require.Equal(t, http.StatusOK, w.Code)
	tasks, _ := resp["tasks"].([]interface{})
	require.Len(t, tasks, 1)
	first, _ := tasks[0].(map[string]interface{})
	assert.Equal(t, "DELETED", first["state"])
}

func TestTaskLifecycle_GetNotFound(t *testing.T) {
	server, _ := newTestServer(t)

	w, _ := doJSON(t, server, http.MethodGet, "/api/v1/tasks/nonexistent-id", nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestStoreEndpoints_StatusAndState(t *testing.T) {
	server, _ := newTestServer(t)

	w, resp := doJSON(t, server, http.MethodGet, "/api/v1/state", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "PAUSED", resp["state"])

	w, _ = doJSON(t, server, http.MethodPost, "/api/v1/state", map[string]interface{}{"state": "RUNNING"})
	assert.Equal(t, http.StatusOK, w.Code)

	_, resp = doJSON(t, server, http.MethodPost, "/api/v1/tasks", map[string]interface{}{"cmd": "true"})
	require.NotEmpty(t, resp["id"])

	w, resp = doJSON(t, server, http.MethodGet, "/api/v1/status", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.EqualValues(t, 1, resp["total_tasks"])
}

func TestAdminEndpoints_Health(t *testing.T) {
	server, _ := newTestServer(t)

	req := httptest.NewRequest(http.MethodGet, "/admin/health", nil)
	w := httptest.NewRecorder()
	server.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
}

func TestSerialWorker_DrainsQueuedTasks(t *testing.T) {
	_, s := newTestServer(t)
	ctx := context.Background()

	for _, cmd := range []string{"true", "true", "true"} {
		_, err := s.Add(ctx, cmd, "", 0)
		require.NoError(t, err)
	}
	require.NoError(t, s.Run(ctx))

	runner := worker.NewSerial(s, worker.Config{Silent: true})
	err := runner.Run(ctx, nil)
	require.NoError(t, err)

	tasks, err := s.List(ctx, nil)
	require.NoError(t, err)
	for _, task := range tasks {
		assert.Equal(t, store.StateSucceeded, task.State)
	}
}
