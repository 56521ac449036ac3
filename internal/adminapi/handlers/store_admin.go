package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/cakehq/cake/internal/adminapi/websocket"
	"github.com/cakehq/cake/internal/events"
	"github.com/cakehq/cake/internal/logger"
	"github.com/cakehq/cake/internal/store"
)

// StoreHandler handles the store-wide admin routes: status, runtime,
// run/pause state, reset, and cleanup.
type StoreHandler struct {
	store *store.Store
	hub   *websocket.Hub
}

// NewStoreHandler creates a new store handler.
func NewStoreHandler(s *store.Store, hub *websocket.Hub) *StoreHandler {
	return &StoreHandler{store: s, hub: hub}
}

// Status handles GET /api/v1/status.
func (h *StoreHandler) Status(w http.ResponseWriter, r *http.Request) {
	report, err := h.store.Status(r.Context())
	if err != nil {
		logger.Error().Err(err).Msg("failed to read status")
		respondError(w, storeErrorStatus(err), err.Error())
		return
	}

	byState := make(map[string]int, len(report.ByState))
	for state, count := range report.ByState {
		byState[state.String()] = count
	}

	respondJSON(w, http.StatusOK, map[string]interface{}{
		"store_state":  report.StoreState.String(),
		"client_count": report.ClientCount,
		"total_tasks":  report.TotalTasks,
		"by_state":     byState,
	})
}

// Runtime handles GET /api/v1/runtime.
func (h *StoreHandler) Runtime(w http.ResponseWriter, r *http.Request) {
	report, err := h.store.Runtime(r.Context())
	if err != nil {
		logger.Error().Err(err).Msg("failed to compute runtime report")
		respondError(w, storeErrorStatus(err), err.Error())
		return
	}
	respondJSON(w, http.StatusOK, report)
}

// GetState handles GET /api/v1/state.
func (h *StoreHandler) GetState(w http.ResponseWriter, r *http.Request) {
	state, err := h.store.State(r.Context())
	if err != nil {
		logger.Error().Err(err).Msg("failed to read store state")
		respondError(w, storeErrorStatus(err), err.Error())
		return
	}
	respondJSON(w, http.StatusOK, map[string]string{"state": state.String()})
}

type setStateRequest struct {
	State string `json:"state"`
}

// SetState handles POST /api/v1/state with {"state": "RUNNING"|"PAUSED"}.
func (h *StoreHandler) SetState(w http.ResponseWriter, r *http.Request) {
	var req setStateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	switch req.State {
	case "RUNNING":
		if err := h.store.Run(r.Context()); err != nil {
			respondError(w, storeErrorStatus(err), err.Error())
			return
		}
		h.hub.Broadcast(events.NewEvent(events.EventStoreResumed, nil))
	case "PAUSED":
		if err := h.store.Pause(r.Context()); err != nil {
			respondError(w, storeErrorStatus(err), err.Error())
			return
		}
		h.hub.Broadcast(events.NewEvent(events.EventStorePaused, nil))
	default:
		respondError(w, http.StatusBadRequest, "state must be RUNNING or PAUSED")
		return
	}

	respondJSON(w, http.StatusOK, map[string]string{"state": req.State})
}

// Reset handles POST /api/v1/reset.
func (h *StoreHandler) Reset(w http.ResponseWriter, r *http.Request) {
	if err := h.store.Reset(r.Context()); err != nil {
		logger.Error().Err(err).Msg("failed to reset store")
		respondError(w, storeErrorStatus(err), err.Error())
		return
	}
	h.hub.Broadcast(events.NewEvent(events.EventStoreReset, nil))
	respondJSON(w, http.StatusOK, map[string]string{"message": "reset"})
}

// Cleanup handles POST /api/v1/cleanup.
func (h *StoreHandler) Cleanup(w http.ResponseWriter, r *http.Request) {
	if err := h.store.Cleanup(r.Context()); err != nil {
		logger.Error().Err(err).Msg("failed to clean up store")
		respondError(w, storeErrorStatus(err), err.Error())
		return
	}
	respondJSON(w, http.StatusOK, map[string]string{"message": "cleaned"})
}

// HealthCheck handles GET /admin/health.
func (h *StoreHandler) HealthCheck(w http.ResponseWriter, r *http.Request) {
	if _, err := h.store.State(r.Context()); err != nil {
		respondJSON(w, http.StatusServiceUnavailable, map[string]string{
			"status": "unhealthy",
			"error":  err.Error(),
		})
		return
	}
	respondJSON(w, http.StatusOK, map[string]string{"status": "healthy"})
}
