package main

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/cakehq/cake/internal/store"
)

var (
	updateTask     string
	updatePriority float64
	updateState    string
)

var updateCmd = &cobra.Command{
	Use:   "update DBPATH TASKID",
	Short: "Update a task's command, priority, and/or state",
	Args:  cobra.ExactArgs(2),
	Run: func(cmd *cobra.Command, args []string) {
		ctx := context.Background()
		s, err := openStore(ctx, args[0], 0, 0, 0)
		if err != nil {
			exitWithError("failed to open store", err)
		}
		defer s.Close(ctx)

		var fields store.UpdateFields
		if cmd.Flags().Changed("task") {
			fields.Task = &updateTask
		}
		if cmd.Flags().Changed("priority") {
			fields.Priority = &updatePriority
		}
		if cmd.Flags().Changed("state") {
			parsed, ok := store.ParseState(updateState)
			if !ok {
				exitWithError("invalid --state", fmt.Errorf("%q is not a legal task state", updateState))
			}
			fields.State = &parsed
		}

		if err := s.Update(ctx, args[1], fields); err != nil {
			exitWithError("failed to update task", err)
		}
		fmt.Println(args[1])
	},
}

func init() {
	updateCmd.Flags().StringVar(&updateTask, "task", "", "replace the task's shell command")
	updateCmd.Flags().Float64Var(&updatePriority, "priority", 0, "replace the task's priority")
	updateCmd.Flags().StringVar(&updateState, "state", "", "replace the task's state")
}
