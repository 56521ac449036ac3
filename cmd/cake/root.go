// Package main implements the cake command-line interface.
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/cakehq/cake/internal/logger"
)

var rootCmd = &cobra.Command{
	Use:   "cake",
	Short: "A lightweight file-backed task queue and shell-command worker runtime",
	Long: `cake stores shell-command tasks in a single SQLite-backed file and runs
them with one of three worker variants: serial, local process pool, or a
message-passing distributed mode.`,
}

func init() {
	logger.Init("info", os.Getenv("ENV") != "production")
	rootCmd.AddCommand(runCmd, retryCmd, listCmd, addCmd, deleteCmd, updateCmd,
		logCmd, statusCmd, resetCmd, runtimeCmd, stateCmd, pauseCmd, cleanupCmd, serveCmd)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func exitWithError(msg string, err error) {
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %s: %v\n", msg, err)
	} else {
		fmt.Fprintf(os.Stderr, "Error: %s\n", msg)
	}
	os.Exit(1)
}
