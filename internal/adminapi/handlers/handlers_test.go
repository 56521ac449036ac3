package handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cakehq/cake/internal/adminapi/websocket"
	"github.com/cakehq/cake/internal/logger"
	"github.com/cakehq/cake/internal/store"
)

func init() {
	logger.Init("error", false)
}

func newTestStore(t *testing.T) *store.Store {
	t.Helper()
	path := filepath.Join(t.TempDir(), "cake.db")
	s, err := store.Open(context.Background(), path, store.DefaultConfig())
	require.NoError(t, err)
	t.Cleanup(func() { _ = s.Close(context.Background()) })
	return s
}

func newTestHub() *websocket.Hub {
	hub := websocket.NewHub()
	go hub.Run(context.Background())
	return hub
}

func TestTaskHandler_AddAndList(t *testing.T) {
	s := newTestStore(t)
	h := NewTaskHandler(s, newTestHub())

	body, _ := json.Marshal(addTaskRequest{Cmd: "echo hi"})
	req := httptest.NewRequest(http.MethodPost, "/api/v1/tasks", bytes.NewReader(body))
	w := httptest.NewRecorder()
	h.Add(w, req)
	require.Equal(t, http.StatusCreated, w.Code)

	var added map[string]string
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &added))
	assert.NotEmpty(t, added["id"])

	req = httptest.NewRequest(http.MethodGet, "/api/v1/tasks", nil)
	w = httptest.NewRecorder()
	h.List(w, req)
	require.Equal(t, http.StatusOK, w.Code)

	var listed map[string]interface{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &listed))
	assert.Equal(t, float64(1), listed["count"])
}

func TestTaskHandler_Add_InvalidBody(t *testing.T) {
	s := newTestStore(t)
	h := NewTaskHandler(s, newTestHub())

	req := httptest.NewRequest(http.MethodPost, "/api/v1/tasks", bytes.NewBufferString("not json"))
	w := httptest.NewRecorder()
	h.Add(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestTaskHandler_Get_Unknown(t *testing.T) {
	s := newTestStore(t)
	h := NewTaskHandler(s, newTestHub())

	rctx := chi.NewRouteContext()
	rctx.URLParams.Add("taskID", "missing")
	req := httptest.NewRequest(http.MethodGet, "/api/v1/tasks/missing", nil)
	req = req.WithContext(context.WithValue(req.Context(), chi.RouteCtxKey, rctx))
	w := httptest.NewRecorder()
	h.Get(w, req)

	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestStoreHandler_StatusAndState(t *testing.T) {
	s := newTestStore(t)
	h := NewStoreHandler(s, newTestHub())

	_, err := s.Add(context.Background(), "echo hi", "", 0)
	require.NoError(t, err)

	req := httptest.NewRequest(http.MethodGet, "/api/v1/status", nil)
	w := httptest.NewRecorder()
	h.Status(w, req)
	require.Equal(t, http.StatusOK, w.Code)

	var status map[string]interface{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &status))
	assert.Equal(t, float64(1), status["total_tasks"])
	assert.Equal(t, "PAUSED", status["store_state"])

	body, _ := json.Marshal(setStateRequest{State: "RUNNING"})
	req = httptest.NewRequest(http.MethodPost, "/api/v1/state", bytes.NewReader(body))
	w = httptest.NewRecorder()
	h.SetState(w, req)
	require.Equal(t, http.StatusOK, w.Code)

	req = httptest.NewRequest(http.MethodGet, "/api/v1/state", nil)
	w = httptest.NewRecorder()
	h.GetState(w, req)
	var state map[string]string
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &state))
	assert.Equal(t, "RUNNING", state["state"])
}
