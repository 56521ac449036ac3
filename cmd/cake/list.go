package main

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/cakehq/cake/internal/store"
)

var (
	listState       string
	listWithRuntime bool
)

var listCmd = &cobra.Command{
	Use:   "list DBPATH",
	Short: "Print tasks sorted by descending priority",
	Args:  cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		ctx := context.Background()
		s, err := openStore(ctx, args[0], 0, 0, 0)
		if err != nil {
			exitWithError("failed to open store", err)
		}
		defer s.Close(ctx)

		var state *store.State
		if listState != "" {
			parsed, ok := store.ParseState(listState)
			if !ok {
				exitWithError("invalid --state", fmt.Errorf("%q is not a legal task state", listState))
			}
			state = &parsed
		}

		tasks, err := s.List(ctx, state)
		if err != nil {
			exitWithError("failed to list tasks", err)
		}

		for _, t := range tasks {
			line := fmt.Sprintf("%s\t%.2f\t%s\t%s", t.ID, t.Priority, t.State, t.Cmd)
			if listWithRuntime {
				if seconds, ok, err := s.RuntimeFor(ctx, t.ID); err == nil && ok {
					line += fmt.Sprintf("\truntime=%.3fs", seconds)
				}
			}
			fmt.Println(line)
		}
	},
}

func init() {
	listCmd.Flags().StringVar(&listState, "state", "", "restrict the listing to this task state")
	listCmd.Flags().BoolVar(&listWithRuntime, "with-runtime", false, "include each SUCCEEDED task's runtime")
}
