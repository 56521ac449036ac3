package main

import (
	"bufio"
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"
)

var (
	addFile     string
	addTaskID   string
	addPriority float64
)

var addCmd = &cobra.Command{
	Use:   "add DBPATH [CMD...]",
	Short: "Add one or more tasks",
	Args:  cobra.MinimumNArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		ctx := context.Background()
		s, err := openStore(ctx, args[0], 0, 0, 0)
		if err != nil {
			exitWithError("failed to open store", err)
		}
		defer s.Close(ctx)

		// Exactly one insertion path per invocation: --file, then
		// positional args, then stdin, whichever is non-empty first
		// (SPEC_FULL.md §9 fixes the original CLI's double-insert bug).
		cmds, err := resolveAddSource(addFile, args[1:])
		if err != nil {
			exitWithError("failed to read task commands", err)
		}
		if len(cmds) == 0 {
			exitWithError("no command given: supply positional args, --file, or piped stdin", nil)
		}

		if len(cmds) == 1 {
			id, err := s.Add(ctx, cmds[0], addTaskID, addPriority)
			if err != nil {
				exitWithError("failed to add task", err)
			}
			fmt.Println(id)
			return
		}

		var ids []string
		if addTaskID != "" {
			exitWithError("--task-id cannot be used when adding multiple tasks", nil)
		}
		ids, err = s.AddMultiple(ctx, cmds, nil, []float64{addPriority})
		if err != nil {
			exitWithError("failed to add tasks", err)
		}
		for _, id := range ids {
			fmt.Println(id)
		}
	},
}

// resolveAddSource picks exactly one source of task commands: a --file
// (one command per line), then positional args (joined into a single
// command), then piped stdin (one command per line) if nothing was
// supplied and stdin is not a terminal.
func resolveAddSource(file string, positional []string) ([]string, error) {
	if file != "" {
		f, err := os.Open(file)
		if err != nil {
			return nil, err
		}
		defer f.Close()
		return readLines(f), nil
	}

	if len(positional) > 0 {
		return []string{strings.Join(positional, " ")}, nil
	}

	if stat, err := os.Stdin.Stat(); err == nil && (stat.Mode()&os.ModeCharDevice) == 0 {
		return readLines(os.Stdin), nil
	}

	return nil, nil
}

func readLines(r *os.File) []string {
	var out []string
	scanner := bufio.NewScanner(r)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line != "" {
			out = append(out, line)
		}
	}
	return out
}

func init() {
	addCmd.Flags().StringVar(&addFile, "file", "", "read task commands from this file, one per line")
	addCmd.Flags().StringVar(&addTaskID, "task-id", "", "explicit task id (single-task add only)")
	addCmd.Flags().Float64Var(&addPriority, "priority", 0, "task priority")
}
