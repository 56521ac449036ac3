package worker

import (
	"context"
	"os/exec"
	"runtime/debug"
	"time"

	"github.com/cakehq/cake/internal/logger"
)

// runShell passes cmd verbatim to a shell child process and waits for it,
// returning only the integer exit status (stdout/stderr are discarded,
// per the retained non-goal in SPEC_FULL.md §1). A panic inside the
// surrounding bookkeeping is recovered and reported as a non-zero status,
// mirroring the executor panic-recovery idiom used elsewhere in this
// codebase.
func runShell(ctx context.Context, taskID, cmd string) (status int, err error) {
	defer func() {
		if r := recover(); r != nil {
			logger.Error().
				Str("task_id", taskID).
				Interface("panic", r).
				Str("stack", string(debug.Stack())).
				Msg("shell execution panicked")
			status, err = -1, nil
		}
	}()

	start := time.Now()
	c := exec.CommandContext(ctx, "/bin/sh", "-c", cmd)
	runErr := c.Run()
	duration := time.Since(start)

	if runErr == nil {
		logger.WithTask(taskID).Debug().Dur("duration", duration).Msg("task exited 0")
		return 0, nil
	}

	var exitErr *exec.ExitError
	if ok := asExitError(runErr, &exitErr); ok {
		logger.WithTask(taskID).Debug().Int("status", exitErr.ExitCode()).Dur("duration", duration).Msg("task exited nonzero")
		return exitErr.ExitCode(), nil
	}

	// The shell itself could not be started/awaited: this is a system
	// failure, not a child-process exit status.
	return -1, runErr
}

func asExitError(err error, target **exec.ExitError) bool {
	ee, ok := err.(*exec.ExitError)
	if ok {
		*target = ee
	}
	return ok
}
