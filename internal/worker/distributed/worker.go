package distributed

import (
	"context"
	"fmt"
	"os"
	"os/exec"
	"os/signal"
	"syscall"
)

// Worker is a single distributed-worker rank: it asks the master for
// work, executes it as a shell child, and reports results.
type Worker struct {
	Rank       string
	MasterRank string
	Channel    Channel
}

// Run implements the worker algorithm of SPEC_FULL.md §4.6.
func (w *Worker) Run(ctx context.Context) error {
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	defer signal.Stop(sigCh)

	for {
		select {
		case <-sigCh:
			_ = w.Channel.Send(context.Background(), w.MasterRank, TagKilledWorker, nil)
			return nil
		case <-ctx.Done():
			_ = w.Channel.Send(context.Background(), w.MasterRank, TagKilledWorker, nil)
			return nil
		default:
		}

		if err := w.Channel.Send(ctx, w.MasterRank, TagReadyWorker, nil); err != nil {
			return fmt.Errorf("distributed worker: send ready: %w", err)
		}

		env, err := w.Channel.Recv(ctx)
		if err != nil {
			return fmt.Errorf("distributed worker: recv: %w", err)
		}

		switch env.Tag {
		case TagStopWork:
			return nil
		case TagRecvWork:
			work, err := decodeWork(env.Payload)
			if err != nil {
				return fmt.Errorf("distributed worker: malformed work payload: %w", err)
			}
			status := runShellStatus(ctx, work.Cmd)
			if err := w.Channel.Send(ctx, w.MasterRank, TagResultsWorker, encode(ResultPayload{Status: status, ID: work.ID})); err != nil {
				return fmt.Errorf("distributed worker: send result: %w", err)
			}
		}
	}
}

// runShellStatus passes cmd to a shell child and returns its exit status,
// discarding stdout/stderr per the retained non-goal in SPEC_FULL.md §1.
func runShellStatus(ctx context.Context, cmd string) int {
	c := exec.CommandContext(ctx, "/bin/sh", "-c", cmd)
	if err := c.Run(); err != nil {
		if exitErr, ok := err.(*exec.ExitError); ok {
			return exitErr.ExitCode()
		}
		return -1
	}
	return 0
}
