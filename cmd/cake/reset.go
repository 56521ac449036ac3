package main

import (
	"context"

	"github.com/spf13/cobra"
)

var resetCmd = &cobra.Command{
	Use:   "reset DBPATH",
	Short: "Reclaim every non-DELETED task to QUEUED_NO_DEP, drop other clients, and pause",
	Args:  cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		ctx := context.Background()
		s, err := openStore(ctx, args[0], 0, 0, 0)
		if err != nil {
			exitWithError("failed to open store", err)
		}
		defer s.Close(ctx)

		if err := s.Reset(ctx); err != nil {
			exitWithError("failed to reset store", err)
		}
	},
}
