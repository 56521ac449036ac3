package main

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"
)

var stateCmd = &cobra.Command{
	Use:   "state DBPATH",
	Short: "Print RUNNING or PAUSED",
	Args:  cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		ctx := context.Background()
		s, err := openStore(ctx, args[0], 0, 0, 0)
		if err != nil {
			exitWithError("failed to open store", err)
		}
		defer s.Close(ctx)

		st, err := s.State(ctx)
		if err != nil {
			exitWithError("failed to read store state", err)
		}
		fmt.Println(st)
	},
}

var pauseCmd = &cobra.Command{
	Use:   "pause DBPATH",
	Short: "Set the store state to PAUSED",
	Args:  cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		ctx := context.Background()
		s, err := openStore(ctx, args[0], 0, 0, 0)
		if err != nil {
			exitWithError("failed to open store", err)
		}
		defer s.Close(ctx)

		if err := s.Pause(ctx); err != nil {
			exitWithError("failed to pause store", err)
		}
	},
}

var cleanupCmd = &cobra.Command{
	Use:   "cleanup DBPATH",
	Short: "Mark every RUNNING task KILLED, drop other clients, and pause",
	Args:  cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		ctx := context.Background()
		s, err := openStore(ctx, args[0], 0, 0, 0)
		if err != nil {
			exitWithError("failed to open store", err)
		}
		defer s.Close(ctx)

		if err := s.Cleanup(ctx); err != nil {
			exitWithError("failed to clean up store", err)
		}
	},
}
