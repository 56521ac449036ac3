package handlers

import (
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/cakehq/cake/internal/adminapi/websocket"
	"github.com/cakehq/cake/internal/events"
	"github.com/cakehq/cake/internal/logger"
	"github.com/cakehq/cake/internal/store"
)

// TaskHandler handles the /api/v1/tasks routes.
type TaskHandler struct {
	store *store.Store
	hub   *websocket.Hub
}

// NewTaskHandler creates a new task handler.
func NewTaskHandler(s *store.Store, hub *websocket.Hub) *TaskHandler {
	return &TaskHandler{store: s, hub: hub}
}

type taskView struct {
	ID       string  `json:"id"`
	Cmd      string  `json:"cmd"`
	State    string  `json:"state"`
	Priority float64 `json:"priority"`
}

func toTaskView(t store.Task) taskView {
	return taskView{ID: t.ID, Cmd: t.Cmd, State: t.State.String(), Priority: t.Priority}
}

// List handles GET /api/v1/tasks.
func (h *TaskHandler) List(w http.ResponseWriter, r *http.Request) {
	var state *store.State
	if s := r.URL.Query().Get("state"); s != "" {
		parsed, ok := store.ParseState(s)
		if !ok {
			respondError(w, http.StatusBadRequest, "unknown state: "+s)
			return
		}
		state = &parsed
	}

	tasks, err := h.store.List(r.Context(), state)
	if err != nil {
		logger.Error().Err(err).Msg("failed to list tasks")
		respondError(w, storeErrorStatus(err), err.Error())
		return
	}

	views := make([]taskView, len(tasks))
	for i, t := range tasks {
		views[i] = toTaskView(t)
	}

	respondJSON(w, http.StatusOK, map[string]interface{}{
		"tasks": views,
		"count": len(views),
	})
}

type addTaskRequest struct {
	Cmd      string  `json:"cmd"`
	TaskID   string  `json:"task_id,omitempty"`
	Priority float64 `json:"priority,omitempty"`
}

// Add handles POST /api/v1/tasks.
func (h *TaskHandler) Add(w http.ResponseWriter, r *http.Request) {
	var req addTaskRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if req.Cmd == "" {
		respondError(w, http.StatusBadRequest, "cmd is required")
		return
	}

	id, err := h.store.Add(r.Context(), req.Cmd, req.TaskID, req.Priority)
	if err != nil {
		logger.Error().Err(err).Msg("failed to add task")
		respondError(w, storeErrorStatus(err), err.Error())
		return
	}

	h.hub.Broadcast(events.NewEvent(events.EventTaskAdded, events.TaskEventData(id, store.StateQueuedNoDep.String(), nil)))
	respondJSON(w, http.StatusCreated, map[string]string{"id": id})
}

// Get handles GET /api/v1/tasks/{taskID}.
func (h *TaskHandler) Get(w http.ResponseWriter, r *http.Request) {
	taskID := chi.URLParam(r, "taskID")

	entries, err := h.store.Log(r.Context(), taskID)
	if err != nil {
		logger.WithTask(taskID).Error().Err(err).Msg("failed to read task log")
		respondError(w, storeErrorStatus(err), err.Error())
		return
	}
	if len(entries) == 0 {
		respondError(w, http.StatusNotFound, "no such task id: "+taskID)
		return
	}

	respondJSON(w, http.StatusOK, map[string]interface{}{
		"task_id": taskID,
		"log":     entries,
	})
}

// Delete handles DELETE /api/v1/tasks/{taskID}.
func (h *TaskHandler) Delete(w http.ResponseWriter, r *http.Request) {
	taskID := chi.URLParam(r, "taskID")
	remove, _ := strconv.ParseBool(r.URL.Query().Get("remove"))

	if err := h.store.Delete(r.Context(), taskID, remove); err != nil {
		logger.WithTask(taskID).Error().Err(err).Msg("failed to delete task")
		respondError(w, storeErrorStatus(err), err.Error())
		return
	}

	h.hub.Broadcast(events.NewEvent(events.EventTaskDeleted, events.TaskEventData(taskID, "", nil)))
	respondJSON(w, http.StatusOK, map[string]string{"message": "deleted", "task_id": taskID})
}

type updateTaskRequest struct {
	Task     *string  `json:"task,omitempty"`
	Priority *float64 `json:"priority,omitempty"`
	State    *string  `json:"state,omitempty"`
}

// Update handles PATCH /api/v1/tasks/{taskID}.
func (h *TaskHandler) Update(w http.ResponseWriter, r *http.Request) {
	taskID := chi.URLParam(r, "taskID")

	var req updateTaskRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	fields := store.UpdateFields{Task: req.Task, Priority: req.Priority}
	if req.State != nil {
		parsed, ok := store.ParseState(*req.State)
		if !ok {
			respondError(w, http.StatusBadRequest, "unknown state: "+*req.State)
			return
		}
		fields.State = &parsed
	}

	if err := h.store.Update(r.Context(), taskID, fields); err != nil {
		logger.WithTask(taskID).Error().Err(err).Msg("failed to update task")
		respondError(w, storeErrorStatus(err), err.Error())
		return
	}

	h.hub.Broadcast(events.NewEvent(events.EventTaskUpdated, events.TaskEventData(taskID, "", nil)))
	respondJSON(w, http.StatusOK, map[string]string{"message": "updated", "task_id": taskID})
}
