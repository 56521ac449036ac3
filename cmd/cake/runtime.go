package main

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"
)

var runtimeCmd = &cobra.Command{
	Use:   "runtime DBPATH",
	Short: "Print an aggregated runtime report over every SUCCEEDED task",
	Args:  cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		ctx := context.Background()
		s, err := openStore(ctx, args[0], 0, 0, 0)
		if err != nil {
			exitWithError("failed to open store", err)
		}
		defer s.Close(ctx)

		report, err := s.Runtime(ctx)
		if err != nil {
			exitWithError("failed to compute runtime report", err)
		}

		fmt.Printf("total: %.3fs\n", report.Total)
		fmt.Printf("count: %d\n", report.Count)
		fmt.Printf("mean: %.3fs\n", report.Mean)
		if report.Count > 0 {
			fmt.Printf("min: %.3fs (%s)\n", report.Min.Seconds, report.Min.TaskID)
			fmt.Printf("max: %.3fs (%s)\n", report.Max.Seconds, report.Max.TaskID)
		}
	},
}
