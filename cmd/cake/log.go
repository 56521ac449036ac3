package main

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"
)

var logCmd = &cobra.Command{
	Use:   "log DBPATH TASKID",
	Short: "Dump a task's header and chronological log",
	Args:  cobra.ExactArgs(2),
	Run: func(cmd *cobra.Command, args []string) {
		ctx := context.Background()
		s, err := openStore(ctx, args[0], 0, 0, 0)
		if err != nil {
			exitWithError("failed to open store", err)
		}
		defer s.Close(ctx)

		taskID := args[1]
		entries, err := s.Log(ctx, taskID)
		if err != nil {
			exitWithError("failed to read task log", err)
		}
		if len(entries) == 0 {
			exitWithError("no such task id: "+taskID, nil)
		}

		fmt.Printf("task_id: %s\n", taskID)
		for _, e := range entries {
			fmt.Printf("%s  %-20s %s\n", e.Time.Format("2006-01-02T15:04:05.000Z07:00"), e.Action, e.Info)
		}
	},
}
