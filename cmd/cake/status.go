package main

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/cakehq/cake/internal/store"
)

var statusCmd = &cobra.Command{
	Use:   "status DBPATH",
	Short: "Print store state, client count, total task count, and per-state counts",
	Args:  cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		ctx := context.Background()
		s, err := openStore(ctx, args[0], 0, 0, 0)
		if err != nil {
			exitWithError("failed to open store", err)
		}
		defer s.Close(ctx)

		report, err := s.Status(ctx)
		if err != nil {
			exitWithError("failed to read status", err)
		}

		fmt.Printf("state: %s\n", report.StoreState)
		fmt.Printf("clients: %d\n", report.ClientCount)
		fmt.Printf("total: %d\n", report.TotalTasks)
		for _, st := range []store.State{
			store.StateQueuedNoDep, store.StateRunning, store.StateFailed,
			store.StateSucceeded, store.StateCheckpointed, store.StateKilled, store.StateDeleted,
		} {
			if n, ok := report.ByState[st]; ok {
				fmt.Printf("%s: %d\n", st, n)
			}
		}
	},
}
