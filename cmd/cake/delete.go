package main

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"
)

var deleteRemove bool

var deleteCmd = &cobra.Command{
	Use:   "delete DBPATH TASKID",
	Short: "Delete a task, logically by default or physically with --remove",
	Args:  cobra.ExactArgs(2),
	Run: func(cmd *cobra.Command, args []string) {
		ctx := context.Background()
		s, err := openStore(ctx, args[0], 0, 0, 0)
		if err != nil {
			exitWithError("failed to open store", err)
		}
		defer s.Close(ctx)

		if err := s.Delete(ctx, args[1], deleteRemove); err != nil {
			exitWithError("failed to delete task", err)
		}
		fmt.Println(args[1])
	},
}

func init() {
	deleteCmd.Flags().BoolVar(&deleteRemove, "remove", false, "physically remove the task row instead of marking it DELETED")
}
