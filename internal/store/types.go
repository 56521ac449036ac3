package store

import "time"

// Task is a single queued shell command and its lifecycle state.
type Task struct {
	ID       string
	Cmd      string
	State    State
	Priority float64
}

// LogEntry is one append-only record of a state-changing operation.
type LogEntry struct {
	LogID  int64
	TaskID string
	Action LogAction
	Time   time.Time
	Info   string
}

// Client is a live handle row; it disappears when the handle closes.
type Client struct {
	ClientID string
	OpenedAt time.Time
}

// UpdateFields carries the optional per-field updates accepted by Update.
// A nil pointer means "leave this field unchanged".
type UpdateFields struct {
	Task     *string
	Priority *float64
	State    *State
}

// StatusReport is the read-only aggregate returned by Status.
type StatusReport struct {
	StoreState  StoreState
	ClientCount int
	TotalTasks  int // excludes DELETED
	ByState     map[State]int
}

// RuntimeEntry describes the runtime of a single SUCCEEDED task.
type RuntimeEntry struct {
	TaskID  string
	Seconds float64
}

// RuntimeReport aggregates runtime over every SUCCEEDED task with a
// well-defined runtime (see the store invariant in SPEC_FULL.md §3).
type RuntimeReport struct {
	Total float64
	Count int
	Mean  float64
	Min   RuntimeEntry
	Max   RuntimeEntry
}
