package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/ikwf-tools/seedline/internal/store"
)

var runsCmd = &cobra.Command{
	Use:   "runs",
	Short: "List recent pipeline stage runs",
	RunE: func(cmd *cobra.Command, args []string) error {
		limit, _ := cmd.Flags().GetInt("limit")

		runLog, err := store.Open(cfg.Paths.RunLog)
		if err != nil {
			return err
		}
		defer runLog.Close()

		if err := runLog.Migrate(cmd.Context()); err != nil {
			return err
		}

		runs, err := runLog.Recent(cmd.Context(), limit)
		if err != nil {
			return err
		}

		if len(runs) == 0 {
			fmt.Println("No runs recorded")
			return nil
		}
		for _, run := range runs {
			line := fmt.Sprintf("%s  %-16s %-8s in=%d out=%d unresolved=%d",
				run.StartedAt.Format("2006-01-02 15:04:05"),
				run.Stage, run.Status, run.RecordsIn, run.RecordsOut, run.Unresolved,
			)
			if run.Error != "" {
				line += "  error: " + run.Error
			}
			fmt.Println(line)
		}
		return nil
	},
}

func init() {
	runsCmd.Flags().Int("limit", 20, "maximum runs to list")
	rootCmd.AddCommand(runsCmd)
}
