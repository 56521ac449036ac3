package store

import (
	"encoding/json"
	"time"
)

// Config carries the timeout and retry parameters persisted in the info
// row at store creation time. On Open against an existing store file, the
// persisted config is loaded and merged with any caller-supplied overrides;
// the caller's overrides win for session-scoped fields (Timeout,
// TaskCheckoutDelay, TaskCheckoutNumTries) per SPEC_FULL.md §4.2.
type Config struct {
	// Timeout bounds how long lock acquisition may block before a
	// mutator fails with ErrLockFailure.
	Timeout time.Duration `json:"timeout"`

	// TaskCheckoutDelay is the sleep between Checkout retry attempts.
	TaskCheckoutDelay time.Duration `json:"task_checkout_delay"`

	// TaskCheckoutNumTries bounds the number of Checkout attempts made
	// before it gives up and reports no task available.
	TaskCheckoutNumTries int `json:"task_checkout_num_tries"`
}

// DefaultConfig returns the defaults used when a store is created fresh.
func DefaultConfig() Config {
	return Config{
		Timeout:              30 * time.Second,
		TaskCheckoutDelay:     100 * time.Millisecond,
		TaskCheckoutNumTries: 3,
	}
}

// mergeOverrides returns persisted with the session-scoped fields of
// override applied whenever override specifies a non-zero value.
func (persisted Config) mergeOverrides(override Config) Config {
	merged := persisted
	if override.Timeout != 0 {
		merged.Timeout = override.Timeout
	}
	if override.TaskCheckoutDelay != 0 {
		merged.TaskCheckoutDelay = override.TaskCheckoutDelay
	}
	if override.TaskCheckoutNumTries != 0 {
		merged.TaskCheckoutNumTries = override.TaskCheckoutNumTries
	}
	return merged
}

func (c Config) marshal() (string, error) {
	b, err := json.Marshal(c)
	if err != nil {
		return "", err
	}
	return string(b), nil
}

func unmarshalConfig(s string) (Config, error) {
	var c Config
	if err := json.Unmarshal([]byte(s), &c); err != nil {
		return Config{}, err
	}
	return c, nil
}
