package store

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	"github.com/cakehq/cake/internal/metrics"
)

// lockMode selects how a critical section begins its transaction.
type lockMode int

const (
	// modeExclusive blocks all other writers and readers-that-lock for
	// the duration of the section (BEGIN EXCLUSIVE).
	modeExclusive lockMode = iota
	// modeTransactional begins a write transaction without immediately
	// upgrading to exclusive (BEGIN, i.e. DEFERRED).
	modeTransactional
)

// lockPollInterval is the tight-poll interval used while retrying
// acquisition against a busy database.
const lockPollInterval = 20 * time.Millisecond

// withLock runs fn inside a single connection holding the requested lock
// mode, retrying acquisition until it succeeds or s.cfg.Timeout elapses.
// On any error returned by fn, the transaction is rolled back and the
// error propagates unchanged; a successful fn commits.
func (s *Store) withLock(ctx context.Context, mode lockMode, fn func(ctx context.Context, conn *sql.Conn) error) error {
	waitStart := now()
	deadline := waitStart.Add(s.cfg.Timeout)
	beginStmt := "BEGIN"
	modeLabel := "transactional"
	if mode == modeExclusive {
		beginStmt = "BEGIN EXCLUSIVE"
		modeLabel = "exclusive"
	}

	for {
		conn, err := s.db.Conn(ctx)
		if err != nil {
			return fmt.Errorf("%w: %v", ErrLockFailure, err)
		}

		if _, err := conn.ExecContext(ctx, beginStmt); err != nil {
			conn.Close()
			if isBusyErr(err) && now().Before(deadline) {
				metrics.RecordLockBusy(modeLabel)
				select {
				case <-ctx.Done():
					return fmt.Errorf("%w: %v", ErrLockFailure, ctx.Err())
				case <-time.After(lockPollInterval):
					continue
				}
			}
			return fmt.Errorf("%w: %v", ErrLockFailure, err)
		}
		metrics.RecordLockWait(modeLabel, now().Sub(waitStart).Seconds())

		fnErr := fn(ctx, conn)
		if fnErr != nil {
			_, _ = conn.ExecContext(ctx, "ROLLBACK")
			conn.Close()
			return fnErr
		}

		if _, err := conn.ExecContext(ctx, "COMMIT"); err != nil {
			conn.Close()
			return fmt.Errorf("%w: %v", ErrLockFailure, err)
		}
		conn.Close()
		return nil
	}
}

// isBusyErr reports whether err indicates a transient lock contention
// error from the SQLite driver, as opposed to a genuine integrity or
// syntax failure.
func isBusyErr(err error) bool {
	if err == nil {
		return false
	}
	msg := strings.ToLower(err.Error())
	return strings.Contains(msg, "busy") || strings.Contains(msg, "locked")
}
