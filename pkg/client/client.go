package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
)

// Client is a hand-written SDK for the admin API (see internal/adminapi).
// There is no OpenAPI document in this repository to generate a client
// from, so unlike the teacher's pkg/client this wraps plain net/http
// calls directly rather than an oapi-codegen layer (see DESIGN.md).
type Client struct {
	baseURL string
	opts    *options
	ws      *WebSocketClient
}

// New creates a new Client against the admin API at baseURL.
func New(baseURL string, opts ...Option) (*Client, error) {
	baseURL = strings.TrimSuffix(baseURL, "/")

	o := defaultOptions()
	for _, opt := range opts {
		opt(o)
	}

	return &Client{baseURL: baseURL, opts: o}, nil
}

// Task mirrors the JSON shape returned by GET/POST /api/v1/tasks.
type Task struct {
	ID       string  `json:"id"`
	Cmd      string  `json:"cmd"`
	State    string  `json:"state"`
	Priority float64 `json:"priority"`
}

// LogEntry mirrors a single task log row.
type LogEntry struct {
	LogID  int64  `json:"LogID"`
	TaskID string `json:"TaskID"`
	Action string `json:"action"`
	Time   string `json:"time"`
	Info   string `json:"info"`
}

// StatusReport mirrors GET /api/v1/status.
type StatusReport struct {
	StoreState  string         `json:"store_state"`
	ClientCount int            `json:"client_count"`
	TotalTasks  int            `json:"total_tasks"`
	ByState     map[string]int `json:"by_state"`
}

// RuntimeReport mirrors GET /api/v1/runtime.
type RuntimeReport struct {
	Total float64 `json:"Total"`
	Count int     `json:"Count"`
	Mean  float64 `json:"Mean"`
}

func (c *Client) do(ctx context.Context, method, path string, query url.Values, body interface{}, out interface{}) error {
	var reader io.Reader
	if body != nil {
		encoded, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("client: encode request body: %w", err)
		}
		reader = bytes.NewReader(encoded)
	}

	u := c.baseURL + path
	if len(query) > 0 {
		u += "?" + query.Encode()
	}

	req, err := http.NewRequestWithContext(ctx, method, u, reader)
	if err != nil {
		return fmt.Errorf("client: build request: %w", err)
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	c.opts.applyHeaders(ctx, req)

	resp, err := c.opts.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("client: request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 400 {
		var apiErr struct {
			Error string `json:"error"`
		}
		_ = json.NewDecoder(resp.Body).Decode(&apiErr)
		if apiErr.Error == "" {
			apiErr.Error = resp.Status
		}
		return fmt.Errorf("client: %s %s: %s", method, path, apiErr.Error)
	}

	if out == nil {
		return nil
	}
	return json.NewDecoder(resp.Body).Decode(out)
}

// AddTask adds a task and returns its id.
func (c *Client) AddTask(ctx context.Context, cmd string, taskID string, priority float64) (string, error) {
	var resp struct {
		ID string `json:"id"`
	}
	body := map[string]interface{}{"cmd": cmd, "task_id": taskID, "priority": priority}
	if err := c.do(ctx, http.MethodPost, "/api/v1/tasks", nil, body, &resp); err != nil {
		return "", err
	}
	return resp.ID, nil
}

// ListTasks lists tasks, optionally filtered by state.
func (c *Client) ListTasks(ctx context.Context, state string) ([]Task, error) {
	var resp struct {
		Tasks []Task `json:"tasks"`
	}
	query := url.Values{}
	if state != "" {
		query.Set("state", state)
	}
	if err := c.do(ctx, http.MethodGet, "/api/v1/tasks", query, nil, &resp); err != nil {
		return nil, err
	}
	return resp.Tasks, nil
}

// GetTaskLog retrieves a task's log.
func (c *Client) GetTaskLog(ctx context.Context, taskID string) ([]LogEntry, error) {
	var resp struct {
		Log []LogEntry `json:"log"`
	}
	if err := c.do(ctx, http.MethodGet, "/api/v1/tasks/"+taskID, nil, nil, &resp); err != nil {
		return nil, err
	}
	return resp.Log, nil
}

// DeleteTask deletes a task, physically removing it when remove is true.
func (c *Client) DeleteTask(ctx context.Context, taskID string, remove bool) error {
	query := url.Values{}
	if remove {
		query.Set("remove", strconv.FormatBool(remove))
	}
	return c.do(ctx, http.MethodDelete, "/api/v1/tasks/"+taskID, query, nil, nil)
}

// UpdateTaskFields carries the optional fields accepted by UpdateTask.
type UpdateTaskFields struct {
	Task     *string  `json:"task,omitempty"`
	Priority *float64 `json:"priority,omitempty"`
	State    *string  `json:"state,omitempty"`
}

// UpdateTask applies the provided fields to a task.
func (c *Client) UpdateTask(ctx context.Context, taskID string, fields UpdateTaskFields) error {
	return c.do(ctx, http.MethodPatch, "/api/v1/tasks/"+taskID, nil, fields, nil)
}

// Status fetches the store's status report.
func (c *Client) Status(ctx context.Context) (*StatusReport, error) {
	var report StatusReport
	if err := c.do(ctx, http.MethodGet, "/api/v1/status", nil, nil, &report); err != nil {
		return nil, err
	}
	return &report, nil
}

// Runtime fetches the store's aggregated runtime report.
func (c *Client) Runtime(ctx context.Context) (*RuntimeReport, error) {
	var report RuntimeReport
	if err := c.do(ctx, http.MethodGet, "/api/v1/runtime", nil, nil, &report); err != nil {
		return nil, err
	}
	return &report, nil
}

// State fetches the store's run/pause flag.
func (c *Client) State(ctx context.Context) (string, error) {
	var resp struct {
		State string `json:"state"`
	}
	if err := c.do(ctx, http.MethodGet, "/api/v1/state", nil, nil, &resp); err != nil {
		return "", err
	}
	return resp.State, nil
}

// SetState sets the store's run/pause flag ("RUNNING" or "PAUSED").
func (c *Client) SetState(ctx context.Context, state string) error {
	return c.do(ctx, http.MethodPost, "/api/v1/state", nil, map[string]string{"state": state}, nil)
}

// Reset resets every non-DELETED task to QUEUED_NO_DEP, removes every
// other client handle, and pauses the store.
func (c *Client) Reset(ctx context.Context) error {
	return c.do(ctx, http.MethodPost, "/api/v1/reset", nil, nil, nil)
}

// Cleanup removes stale client handles and unsticks abandoned RUNNING tasks.
func (c *Client) Cleanup(ctx context.Context) error {
	return c.do(ctx, http.MethodPost, "/api/v1/cleanup", nil, nil, nil)
}

// ConnectWebSocket establishes a WebSocket connection for real-time events.
func (c *Client) ConnectWebSocket(ctx context.Context) error {
	if c.ws != nil && c.ws.IsConnected() {
		return nil
	}
	c.ws = newWebSocketClient(c.baseURL, c.opts.apiKey)
	return c.ws.Connect(ctx)
}

// Events returns a channel that receives WebSocket events. Must call
// ConnectWebSocket first.
func (c *Client) Events() <-chan *Event {
	if c.ws == nil {
		ch := make(chan *Event)
		close(ch)
		return ch
	}
	return c.ws.Events()
}

// CloseWebSocket closes the WebSocket connection.
func (c *Client) CloseWebSocket() error {
	if c.ws == nil {
		return nil
	}
	return c.ws.Close()
}
