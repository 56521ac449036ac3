package worker

import (
	"os"
	"os/signal"
	"syscall"
)

// notifyInterrupt returns a channel that receives SIGINT/SIGTERM and a
// stop function that releases the registration. Unlike the original
// implementation's process-global signal state, each worker instance
// registers and tears down its own channel, so multiple worker instances
// can coexist in one process and tests can isolate signal delivery
// (SPEC_FULL.md §9, "global state").
func notifyInterrupt() (<-chan os.Signal, func()) {
	ch := make(chan os.Signal, 1)
	signal.Notify(ch, syscall.SIGINT, syscall.SIGTERM)
	return ch, func() { signal.Stop(ch) }
}
