package store

import "errors"

// Error taxonomy. Mutators wrap one of these sentinels with %w so callers
// can categorize a failure with errors.Is regardless of the underlying
// SQLite error text.
var (
	// ErrLockFailure means the store file could not be locked within the
	// configured timeout. Fatal for mutators; Checkout instead treats it
	// as a transient no-task result.
	ErrLockFailure = errors.New("store: could not acquire lock within timeout")

	// ErrIntegrity covers duplicate ids, unknown ids, and missing rows.
	ErrIntegrity = errors.New("store: integrity failure")

	// ErrInvalidArgument covers unknown state strings, illegal checkin
	// outcomes, mismatched AddMultiple argument lengths, and removing a
	// nonexistent task.
	ErrInvalidArgument = errors.New("store: invalid argument")

	// ErrInterrupt is not raised by the store itself, but is used by
	// workers to categorize signal-driven shutdown (see internal/worker).
	ErrInterrupt = errors.New("store: interrupted")
)

// errDuplicateID reports that a task id was already present.
func errDuplicateID(id string) error {
	return &storeError{category: ErrIntegrity, msg: "task id already exists: " + id}
}

// errUnknownID reports that a task id does not exist.
func errUnknownID(id string) error {
	return &storeError{category: ErrIntegrity, msg: "no such task id: " + id}
}

func errInvalidState(s string) error {
	return &storeError{category: ErrInvalidArgument, msg: "not a legal task state: " + s}
}

func errInvalidOutcome(s string) error {
	return &storeError{category: ErrInvalidArgument, msg: "not a legal checkin outcome: " + s}
}

type storeError struct {
	category error
	msg      string
}

func (e *storeError) Error() string { return e.msg }

func (e *storeError) Unwrap() error { return e.category }
