package main

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/ikwf-tools/seedline/internal/config"
	"github.com/ikwf-tools/seedline/internal/store"
)

var cfg *config.Config

var rootCmd = &cobra.Command{
	Use:   "seedline",
	Short: "Wrestling tournament seeding pipeline",
	Long:  "Resolves scraped tournament match records against the canonical club rosters, projects competition weight classes, and builds per-weight-class seeding workbooks.",
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		c, err := config.Load()
		if err != nil {
			return fmt.Errorf("load config: %w", err)
		}
		cfg = c

		if err := config.InitLogger(cfg.Log); err != nil {
			return fmt.Errorf("init logger: %w", err)
		}

		return nil
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		_ = zap.L().Sync()
	},
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

// matchPath returns the tabular match file for the given record version.
func matchPath(version int) string {
	return filepath.Join(cfg.Paths.DataDir, fmt.Sprintf("all-matches-%02d.csv", version))
}

// recordStage runs one pipeline stage inside an audit-log entry. The stage's
// own error is always returned; run-log bookkeeping failures surface only
// when the stage itself succeeded.
func recordStage(ctx context.Context, stage string, fn func(context.Context) (store.Counts, error)) error {
	runLog, err := store.Open(cfg.Paths.RunLog)
	if err != nil {
		return err
	}
	defer runLog.Close()

	if err := runLog.Migrate(ctx); err != nil {
		return err
	}

	id, err := runLog.Begin(ctx, stage)
	if err != nil {
		return err
	}

	counts, stageErr := fn(ctx)
	if finishErr := runLog.Finish(ctx, id, counts, stageErr); finishErr != nil {
		if stageErr != nil {
			return stageErr
		}
		return finishErr
	}
	return stageErr
}
