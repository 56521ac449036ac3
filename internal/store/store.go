// Package store implements the durable, lock-coordinated task store: the
// single-file home of tasks, their append-only logs, global pause/run
// state, and connected client handles, as described in SPEC_FULL.md §3-4.
package store

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"time"

	"github.com/google/uuid"
	_ "modernc.org/sqlite"

	"github.com/cakehq/cake/internal/metrics"
)

const schema = `
CREATE TABLE IF NOT EXISTS tasks (
	task_id  TEXT PRIMARY KEY,
	cmd      TEXT NOT NULL,
	state    TEXT NOT NULL,
	priority REAL NOT NULL DEFAULT 0
);
CREATE TABLE IF NOT EXISTS logs (
	log_id  INTEGER PRIMARY KEY AUTOINCREMENT,
	task_id TEXT NOT NULL,
	action  TEXT NOT NULL,
	time    REAL NOT NULL,
	info    TEXT NOT NULL DEFAULT ''
);
CREATE INDEX IF NOT EXISTS logs_task_id_idx ON logs(task_id);
CREATE TABLE IF NOT EXISTS info (
	id     INTEGER PRIMARY KEY CHECK (id = 1),
	state  TEXT NOT NULL,
	config TEXT NOT NULL
);
CREATE TABLE IF NOT EXISTS clients (
	client_id TEXT PRIMARY KEY,
	opened_at REAL NOT NULL
);
`

// Store is a handle onto a single-file task store. One *Store may be
// shared by several goroutines: its *sql.DB is limited to a single open
// connection, so calls through the same handle run one at a time.
type Store struct {
	db       *sql.DB
	path     string
	cfg      Config
	clientID string
}

// IsStoreFile reports whether path names a file recognized as a store,
// i.e. one containing all four relations.
func IsStoreFile(path string) bool {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return false
	}
	defer db.Close()

	for _, table := range []string{"tasks", "logs", "info", "clients"} {
		var name string
		err := db.QueryRow(`SELECT name FROM sqlite_master WHERE type='table' AND name=?`, table).Scan(&name)
		if err != nil {
			return false
		}
	}
	return true
}

// Open creates the file at path if absent (initializing all four
// relations with StoreInfo.state=PAUSED and persisting cfg, with zero
// fields taken from DefaultConfig) or attaches to
// an existing file, loading its persisted config and merging cfg's
// session-scoped overrides on top. A new Client row is registered for this
// handle. Open fails with ErrLockFailure if the file cannot be locked
// within cfg.Timeout.
func Open(ctx context.Context, path string, cfg Config) (*Store, error) {
	if cfg.Timeout == 0 {
		cfg.Timeout = DefaultConfig().Timeout
	}

	_, statErr := os.Stat(path)
	fresh := os.IsNotExist(statErr)

	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("store: open %s: %w", path, err)
	}
	db.SetMaxOpenConns(1) // one exclusive-lock holder per process handle

	s := &Store{db: db, path: path, cfg: cfg, clientID: uuid.NewString()}

	if err := s.withLock(ctx, modeExclusive, func(ctx context.Context, conn *sql.Conn) error {
		if _, err := conn.ExecContext(ctx, schema); err != nil {
			return fmt.Errorf("store: init schema: %w", err)
		}

		if fresh {
			s.cfg = DefaultConfig().mergeOverrides(cfg)
			encoded, err := s.cfg.marshal()
			if err != nil {
				return err
			}
			if _, err := conn.ExecContext(ctx,
				`INSERT OR IGNORE INTO info (id, state, config) VALUES (1, ?, ?)`,
				StoreStatePaused.String(), encoded); err != nil {
				return fmt.Errorf("store: init info row: %w", err)
			}
		} else {
			var encoded string
			if err := conn.QueryRowContext(ctx, `SELECT config FROM info WHERE id=1`).Scan(&encoded); err != nil {
				return fmt.Errorf("store: load persisted config: %w", err)
			}
			persisted, err := unmarshalConfig(encoded)
			if err != nil {
				return fmt.Errorf("store: decode persisted config: %w", err)
			}
			s.cfg = persisted.mergeOverrides(cfg)
		}

		_, err := conn.ExecContext(ctx,
			`INSERT INTO clients (client_id, opened_at) VALUES (?, ?)`,
			s.clientID, toUnix(now()))
		return err
	}); err != nil {
		db.Close()
		return nil, err
	}

	return s, nil
}

// Close removes this client's row under an exclusive lock; if it was the
// last client, StoreInfo.state is forced to PAUSED. This is the only
// mechanism that transitions the store back to PAUSED on shutdown.
func (s *Store) Close(ctx context.Context) error {
	err := s.withLock(ctx, modeExclusive, func(ctx context.Context, conn *sql.Conn) error {
		if _, err := conn.ExecContext(ctx, `DELETE FROM clients WHERE client_id = ?`, s.clientID); err != nil {
			return err
		}
		var remaining int
		if err := conn.QueryRowContext(ctx, `SELECT COUNT(*) FROM clients`).Scan(&remaining); err != nil {
			return err
		}
		if remaining == 0 {
			if _, err := conn.ExecContext(ctx, `UPDATE info SET state = ? WHERE id = 1`, StoreStatePaused.String()); err != nil {
				return err
			}
		}
		return nil
	})
	if closeErr := s.db.Close(); err == nil {
		err = closeErr
	}
	return err
}

func (s *Store) appendLog(ctx context.Context, conn *sql.Conn, taskID string, action LogAction, info string) error {
	_, err := conn.ExecContext(ctx,
		`INSERT INTO logs (task_id, action, time, info) VALUES (?, ?, ?, ?)`,
		taskID, string(action), toUnix(now()), info)
	return err
}

func taskExists(ctx context.Context, conn *sql.Conn, id string) (bool, error) {
	var count int
	if err := conn.QueryRowContext(ctx, `SELECT COUNT(*) FROM tasks WHERE task_id = ?`, id).Scan(&count); err != nil {
		return false, err
	}
	return count > 0, nil
}

// Add inserts a single task in state QUEUED_NO_DEP and appends an ADDED
// log entry, under an exclusive lock. If id is empty a fresh id is
// generated; if id collides with an existing task, Add fails atomically.
func (s *Store) Add(ctx context.Context, cmd string, id string, priority float64) (string, error) {
	if id == "" {
		id = uuid.NewString()
	}
	err := s.withLock(ctx, modeExclusive, func(ctx context.Context, conn *sql.Conn) error {
		exists, err := taskExists(ctx, conn, id)
		if err != nil {
			return err
		}
		if exists {
			return errDuplicateID(id)
		}
		if _, err := conn.ExecContext(ctx,
			`INSERT INTO tasks (task_id, cmd, state, priority) VALUES (?, ?, ?, ?)`,
			id, cmd, StateQueuedNoDep.String(), priority); err != nil {
			return err
		}
		return s.appendLog(ctx, conn, id, ActionAdded, "")
	})
	if err != nil {
		return "", err
	}
	metrics.RecordAdd()
	return id, nil
}

// AddMultiple atomically adds a batch of tasks. priorities may be a
// single-element slice (applied to every task) or a slice the same length
// as cmds (applied per-task); any other length is an invalid argument.
// Any id collision fails the whole batch.
func (s *Store) AddMultiple(ctx context.Context, cmds []string, ids []string, priorities []float64) ([]string, error) {
	if ids == nil {
		ids = make([]string, len(cmds))
	}
	if len(ids) != len(cmds) {
		return nil, &storeError{category: ErrInvalidArgument, msg: "ids length must match cmds length"}
	}
	resolved := make([]string, len(cmds))
	for i, id := range ids {
		if id == "" {
			id = uuid.NewString()
		}
		resolved[i] = id
	}

	perTask, err := resolvePriorities(priorities, len(cmds))
	if err != nil {
		return nil, err
	}

	err = s.withLock(ctx, modeExclusive, func(ctx context.Context, conn *sql.Conn) error {
		for _, id := range resolved {
			exists, err := taskExists(ctx, conn, id)
			if err != nil {
				return err
			}
			if exists {
				return errDuplicateID(id)
			}
		}
		for i, cmd := range cmds {
			if _, err := conn.ExecContext(ctx,
				`INSERT INTO tasks (task_id, cmd, state, priority) VALUES (?, ?, ?, ?)`,
				resolved[i], cmd, StateQueuedNoDep.String(), perTask[i]); err != nil {
				return err
			}
			if err := s.appendLog(ctx, conn, resolved[i], ActionAdded, ""); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	for range resolved {
		metrics.RecordAdd()
	}
	return resolved, nil
}

func resolvePriorities(priorities []float64, n int) ([]float64, error) {
	switch {
	case len(priorities) == 0:
		out := make([]float64, n)
		return out, nil
	case len(priorities) == 1:
		out := make([]float64, n)
		for i := range out {
			out[i] = priorities[0]
		}
		return out, nil
	case len(priorities) == n:
		return priorities, nil
	default:
		return nil, &storeError{category: ErrInvalidArgument, msg: "priorities must have length 1 or match cmds length"}
	}
}

// Update applies the provided fields to task id, recording a human
// readable diff in a single UPDATED log entry.
func (s *Store) Update(ctx context.Context, id string, fields UpdateFields) error {
	return s.withLock(ctx, modeExclusive, func(ctx context.Context, conn *sql.Conn) error {
		var oldCmd, oldStateStr string
		var oldPriority float64
		if err := conn.QueryRowContext(ctx,
			`SELECT cmd, state, priority FROM tasks WHERE task_id = ?`, id,
		).Scan(&oldCmd, &oldStateStr, &oldPriority); err != nil {
			if err == sql.ErrNoRows {
				return errUnknownID(id)
			}
			return err
		}

		info := ""
		if fields.Task != nil {
			info += fmt.Sprintf("task: %q -> %q; ", oldCmd, *fields.Task)
			if _, err := conn.ExecContext(ctx, `UPDATE tasks SET cmd = ? WHERE task_id = ?`, *fields.Task, id); err != nil {
				return err
			}
		}
		if fields.Priority != nil {
			info += fmt.Sprintf("priority: %v -> %v; ", oldPriority, *fields.Priority)
			if _, err := conn.ExecContext(ctx, `UPDATE tasks SET priority = ? WHERE task_id = ?`, *fields.Priority, id); err != nil {
				return err
			}
		}
		if fields.State != nil {
			info += fmt.Sprintf("state: %s -> %s; ", oldStateStr, fields.State.String())
			if _, err := conn.ExecContext(ctx, `UPDATE tasks SET state = ? WHERE task_id = ?`, fields.State.String(), id); err != nil {
				return err
			}
		}

		return s.appendLog(ctx, conn, id, ActionUpdated, info)
	})
}

// Delete logically removes task id (state=DELETED) unless remove is true,
// in which case the row is physically removed. A DELETED log entry is
// always appended, even when the row itself is gone. An unknown id is an
// ErrIntegrity failure, or ErrInvalidArgument when remove is true.
func (s *Store) Delete(ctx context.Context, id string, remove bool) error {
	return s.withLock(ctx, modeExclusive, func(ctx context.Context, conn *sql.Conn) error {
		exists, err := taskExists(ctx, conn, id)
		if err != nil {
			return err
		}
		if !exists {
			if remove {
				return &storeError{category: ErrInvalidArgument, msg: "cannot remove nonexistent task: " + id}
			}
			return errUnknownID(id)
		}
		if remove {
			if _, err := conn.ExecContext(ctx, `DELETE FROM tasks WHERE task_id = ?`, id); err != nil {
				return err
			}
		} else {
			if _, err := conn.ExecContext(ctx, `UPDATE tasks SET state = ? WHERE task_id = ?`, StateDeleted.String(), id); err != nil {
				return err
			}
		}
		return s.appendLog(ctx, conn, id, ActionDeleted, "")
	})
}

// Reset reclaims every non-DELETED task back to QUEUED_NO_DEP, removes
// every client row but this one, and pauses the store.
func (s *Store) Reset(ctx context.Context) error {
	return s.withLock(ctx, modeExclusive, func(ctx context.Context, conn *sql.Conn) error {
		rows, err := conn.QueryContext(ctx, `SELECT task_id FROM tasks WHERE state != ?`, StateDeleted.String())
		if err != nil {
			return err
		}
		var ids []string
		for rows.Next() {
			var id string
			if err := rows.Scan(&id); err != nil {
				rows.Close()
				return err
			}
			ids = append(ids, id)
		}
		rows.Close()

		for _, id := range ids {
			if err := s.appendLog(ctx, conn, id, ActionReset, ""); err != nil {
				return err
			}
		}
		if _, err := conn.ExecContext(ctx, `UPDATE tasks SET state = ? WHERE state != ?`, StateQueuedNoDep.String(), StateDeleted.String()); err != nil {
			return err
		}
		if _, err := conn.ExecContext(ctx, `DELETE FROM clients WHERE client_id != ?`, s.clientID); err != nil {
			return err
		}
		_, err = conn.ExecContext(ctx, `UPDATE info SET state = ? WHERE id = 1`, StoreStatePaused.String())
		return err
	})
}

// Cleanup marks every RUNNING task KILLED, removes every client row but
// this one, and pauses the store. Intended to repair a store left with
// RUNNING tasks after an ungraceful exit.
func (s *Store) Cleanup(ctx context.Context) error {
	return s.withLock(ctx, modeExclusive, func(ctx context.Context, conn *sql.Conn) error {
		rows, err := conn.QueryContext(ctx, `SELECT task_id FROM tasks WHERE state = ?`, StateRunning.String())
		if err != nil {
			return err
		}
		var ids []string
		for rows.Next() {
			var id string
			if err := rows.Scan(&id); err != nil {
				rows.Close()
				return err
			}
			ids = append(ids, id)
		}
		rows.Close()

		for _, id := range ids {
			if err := s.appendLog(ctx, conn, id, ActionCleaned, ""); err != nil {
				return err
			}
		}
		if _, err := conn.ExecContext(ctx, `UPDATE tasks SET state = ? WHERE state = ?`, StateKilled.String(), StateRunning.String()); err != nil {
			return err
		}
		if _, err := conn.ExecContext(ctx, `DELETE FROM clients WHERE client_id != ?`, s.clientID); err != nil {
			return err
		}
		_, err = conn.ExecContext(ctx, `UPDATE info SET state = ? WHERE id = 1`, StoreStatePaused.String())
		return err
	})
}

// Checkout atomically claims the next eligible task. When state is nil,
// any task in {QUEUED_NO_DEP, CHECKPOINTED, KILLED} is eligible; otherwise
// only tasks in exactly the requested state are. Ties break on task_id for
// a stable, if arbitrary, order. On transient lock failure the whole call
// retries up to cfg.TaskCheckoutNumTries times with cfg.TaskCheckoutDelay
// between attempts; after exhausting retries it reports ok=false, err=nil.
func (s *Store) Checkout(ctx context.Context, state *State) (cmd, id string, ok bool, err error) {
	if state != nil {
		if _, legal := ParseState(state.String()); !legal {
			return "", "", false, errInvalidState(state.String())
		}
	}

	tries := s.cfg.TaskCheckoutNumTries
	if tries <= 0 {
		tries = 1
	}

	for attempt := 0; attempt < tries; attempt++ {
		cmd, id, ok, err = s.checkoutOnce(ctx, state)
		if err == nil {
			if ok {
				metrics.RecordCheckout()
			}
			return cmd, id, ok, nil
		}
		if ctxErr := ctx.Err(); ctxErr != nil {
			return "", "", false, nil
		}
		// lock failure is transient for Checkout: retry, then give up quietly.
		if attempt < tries-1 {
			select {
			case <-ctx.Done():
				return "", "", false, nil
			case <-time.After(s.cfg.TaskCheckoutDelay):
			}
		}
	}
	return "", "", false, nil
}

func (s *Store) checkoutOnce(ctx context.Context, state *State) (cmd, id string, ok bool, err error) {
	err = s.withLock(ctx, modeExclusive, func(ctx context.Context, conn *sql.Conn) error {
		var query string
		var args []any
		if state == nil {
			query = `SELECT task_id, cmd, state, priority FROM tasks
				WHERE state IN (?, ?, ?) ORDER BY priority DESC, task_id ASC LIMIT 1`
			args = []any{StateQueuedNoDep.String(), StateCheckpointed.String(), StateKilled.String()}
		} else {
			query = `SELECT task_id, cmd, state, priority FROM tasks
				WHERE state = ? ORDER BY priority DESC, task_id ASC LIMIT 1`
			args = []any{state.String()}
		}

		var taskID, taskCmd, taskStateStr string
		var priority float64
		switch scanErr := conn.QueryRowContext(ctx, query, args...).Scan(&taskID, &taskCmd, &taskStateStr, &priority); scanErr {
		case sql.ErrNoRows:
			ok = false
			return nil
		case nil:
			// fall through
		default:
			return scanErr
		}

		taskState, _ := ParseState(taskStateStr)
		action := ActionRan
		if taskState == StateCheckpointed {
			action = ActionRanFromCheckpoint
		}

		if _, err := conn.ExecContext(ctx, `UPDATE tasks SET state = ? WHERE task_id = ?`, StateRunning.String(), taskID); err != nil {
			return err
		}
		if err := s.appendLog(ctx, conn, taskID, action, ""); err != nil {
			return err
		}

		cmd, id, ok = taskCmd, taskID, true
		return nil
	})
	return cmd, id, ok, err
}

// Checkin transitions a RUNNING task to a terminal outcome, appending a
// matching log entry. outcome must be one of {FAILED, SUCCEEDED,
// CHECKPOINTED, KILLED}.
func (s *Store) Checkin(ctx context.Context, id string, outcome State, info string) error {
	action, legal := checkinOutcomes[outcome]
	if !legal {
		return errInvalidOutcome(outcome.String())
	}
	return s.withLock(ctx, modeExclusive, func(ctx context.Context, conn *sql.Conn) error {
		exists, err := taskExists(ctx, conn, id)
		if err != nil {
			return err
		}
		if !exists {
			return errUnknownID(id)
		}
		if _, err := conn.ExecContext(ctx, `UPDATE tasks SET state = ? WHERE task_id = ?`, outcome.String(), id); err != nil {
			return err
		}
		return s.appendLog(ctx, conn, id, action, info)
	})
}

// List returns tasks sorted by descending priority, optionally filtered to
// a single state. Reporting reads are not lock-protected; stale reads are
// acceptable for status/list commands per SPEC_FULL.md §4.1.
func (s *Store) List(ctx context.Context, state *State) ([]Task, error) {
	var rows *sql.Rows
	var err error
	if state == nil {
		rows, err = s.db.QueryContext(ctx, `SELECT task_id, cmd, state, priority FROM tasks ORDER BY priority DESC, task_id ASC`)
	} else {
		rows, err = s.db.QueryContext(ctx, `SELECT task_id, cmd, state, priority FROM tasks WHERE state = ? ORDER BY priority DESC, task_id ASC`, state.String())
	}
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []Task
	for rows.Next() {
		var t Task
		var stateStr string
		if err := rows.Scan(&t.ID, &t.Cmd, &stateStr, &t.Priority); err != nil {
			return nil, err
		}
		t.State, _ = ParseState(stateStr)
		out = append(out, t)
	}
	return out, rows.Err()
}

// Log returns the chronological log for task id.
func (s *Store) Log(ctx context.Context, id string) ([]LogEntry, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT log_id, task_id, action, time, info FROM logs WHERE task_id = ? ORDER BY log_id ASC`, id)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []LogEntry
	for rows.Next() {
		var e LogEntry
		var ts float64
		if err := rows.Scan(&e.LogID, &e.TaskID, &e.Action, &ts, &e.Info); err != nil {
			return nil, err
		}
		e.Time = fromUnix(ts)
		out = append(out, e)
	}
	return out, rows.Err()
}

// Status reports store state, client count, total non-DELETED task count,
// and per-state counts.
func (s *Store) Status(ctx context.Context) (StatusReport, error) {
	report := StatusReport{ByState: map[State]int{}}

	var stateStr string
	if err := s.db.QueryRowContext(ctx, `SELECT state FROM info WHERE id = 1`).Scan(&stateStr); err != nil {
		return report, err
	}
	if stateStr == StoreStateRunning.String() {
		report.StoreState = StoreStateRunning
	}

	if err := s.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM clients`).Scan(&report.ClientCount); err != nil {
		return report, err
	}

	rows, err := s.db.QueryContext(ctx, `SELECT state, COUNT(*) FROM tasks GROUP BY state`)
	if err != nil {
		return report, err
	}
	defer rows.Close()
	for rows.Next() {
		var st string
		var n int
		if err := rows.Scan(&st, &n); err != nil {
			return report, err
		}
		parsed, _ := ParseState(st)
		report.ByState[parsed] = n
		if parsed != StateDeleted {
			report.TotalTasks += n
		}
	}
	return report, rows.Err()
}

// Runtime aggregates per-task runtime over every SUCCEEDED task whose
// most recent RAN entry precedes its most recent SUCCEEDED entry with no
// intervening ADDED/RESET/DELETED/KILLED/UPDATED entry.
func (s *Store) Runtime(ctx context.Context) (RuntimeReport, error) {
	var report RuntimeReport

	rows, err := s.db.QueryContext(ctx, `SELECT task_id FROM tasks WHERE state = ?`, StateSucceeded.String())
	if err != nil {
		return report, err
	}
	var ids []string
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			rows.Close()
			return report, err
		}
		ids = append(ids, id)
	}
	rows.Close()

	first := true
	for _, id := range ids {
		entries, err := s.Log(ctx, id)
		if err != nil {
			return report, err
		}
		seconds, ok := taskRuntime(entries)
		if !ok {
			continue
		}
		report.Total += seconds
		report.Count++
		if first || seconds < report.Min.Seconds {
			report.Min = RuntimeEntry{TaskID: id, Seconds: seconds}
		}
		if first || seconds > report.Max.Seconds {
			report.Max = RuntimeEntry{TaskID: id, Seconds: seconds}
		}
		first = false
	}
	if report.Count > 0 {
		report.Mean = report.Total / float64(report.Count)
	}
	return report, nil
}

// RuntimeFor reports the runtime of a single task, using the same
// well-definedness predicate as Runtime (§3 invariant: most recent RAN
// precedes most recent SUCCEEDED with no intervening ADDED/RESET/
// DELETED/KILLED/UPDATED entry). ok is false if no such runtime exists.
func (s *Store) RuntimeFor(ctx context.Context, id string) (seconds float64, ok bool, err error) {
	entries, err := s.Log(ctx, id)
	if err != nil {
		return 0, false, err
	}
	seconds, ok = taskRuntime(entries)
	return seconds, ok, nil
}

// interruptingActions invalidate a RAN..SUCCEEDED pair if they occur
// between the two.
var interruptingActions = map[LogAction]bool{
	ActionAdded:   true,
	ActionReset:   true,
	ActionDeleted: true,
	ActionKilled:  true,
	ActionUpdated: true,
}

func taskRuntime(entries []LogEntry) (float64, bool) {
	var lastRan, lastSucceeded *LogEntry
	for i := range entries {
		e := &entries[i]
		switch e.Action {
		case ActionRan, ActionRanFromCheckpoint:
			lastRan = e
		case ActionSucceeded:
			lastSucceeded = e
		}
	}
	if lastRan == nil || lastSucceeded == nil || !lastRan.Time.Before(lastSucceeded.Time) {
		return 0, false
	}
	for i := range entries {
		e := &entries[i]
		if e.LogID <= lastRan.LogID || e.LogID >= lastSucceeded.LogID {
			continue
		}
		if interruptingActions[e.Action] {
			return 0, false
		}
	}
	return diffSeconds(lastRan.Time, lastSucceeded.Time), true
}

// State reads the global run/pause flag.
func (s *Store) State(ctx context.Context) (StoreState, error) {
	var stateStr string
	if err := s.db.QueryRowContext(ctx, `SELECT state FROM info WHERE id = 1`).Scan(&stateStr); err != nil {
		return StoreStatePaused, err
	}
	if stateStr == StoreStateRunning.String() {
		return StoreStateRunning, nil
	}
	return StoreStatePaused, nil
}

// Pause sets the global state to PAUSED.
func (s *Store) Pause(ctx context.Context) error {
	return s.withLock(ctx, modeTransactional, func(ctx context.Context, conn *sql.Conn) error {
		_, err := conn.ExecContext(ctx, `UPDATE info SET state = ? WHERE id = 1`, StoreStatePaused.String())
		return err
	})
}

// Run sets the global state to RUNNING.
func (s *Store) Run(ctx context.Context) error {
	return s.withLock(ctx, modeTransactional, func(ctx context.Context, conn *sql.Conn) error {
		_, err := conn.ExecContext(ctx, `UPDATE info SET state = ? WHERE id = 1`, StoreStateRunning.String())
		return err
	})
}
