package main

import (
	"context"
	"time"

	"github.com/cakehq/cake/internal/store"
)

// openStore opens the store at path, applying CLI overrides for the lock
// timeout and checkout retry behavior. A zero value leaves the store's
// persisted default untouched (see store.Config.mergeOverrides).
func openStore(ctx context.Context, path string, timeout, checkoutDelay float64, checkoutNumTries int) (*store.Store, error) {
	overrides := store.Config{}
	if timeout > 0 {
		overrides.Timeout = time.Duration(timeout * float64(time.Second))
	}
	if checkoutDelay > 0 {
		overrides.TaskCheckoutDelay = time.Duration(checkoutDelay * float64(time.Second))
	}
	if checkoutNumTries > 0 {
		overrides.TaskCheckoutNumTries = checkoutNumTries
	}
	return store.Open(ctx, path, overrides)
}
