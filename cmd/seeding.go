package main

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/ikwf-tools/seedline/internal/loader"
	"github.com/ikwf-tools/seedline/internal/project"
	"github.com/ikwf-tools/seedline/internal/seeding"
	"github.com/ikwf-tools/seedline/internal/store"
)

var seedingCmd = &cobra.Command{
	Use:   "seeding",
	Short: "Build the per-weight-class seeding workbook from V4 matches",
	RunE: func(cmd *cobra.Command, args []string) error {
		return recordStage(cmd.Context(), "seeding", func(ctx context.Context) (store.Counts, error) {
			log := zap.L().With(zap.String("command", "seeding"))

			t, err := loadTables()
			if err != nil {
				return store.Counts{}, err
			}

			projector, err := project.NewProjector(t.season.Ladders, project.Params{
				Decay:  cfg.Projection.Decay,
				MADK:   cfg.Projection.MADK,
				Buffer: cfg.Projection.Buffer,
			})
			if err != nil {
				return store.Counts{}, err
			}

			matches, err := loader.ReadMatchesV4(matchPath(4))
			if err != nil {
				return store.Counts{}, err
			}

			classes, err := seeding.BuildWeightClasses(t.clubs, matches, projector)
			if err != nil {
				return store.Counts{RecordsIn: len(matches)}, err
			}

			if err := seeding.WriteWorkbook(cfg.Paths.Workbook, classes); err != nil {
				return store.Counts{RecordsIn: len(matches)}, err
			}

			athletes := 0
			for _, class := range classes {
				athletes += class.Size()
			}
			log.Info("workbook written",
				zap.String("path", cfg.Paths.Workbook),
				zap.Int("weight_classes", len(classes)),
				zap.Int("athletes", athletes),
			)
			fmt.Printf("Wrote %d weight classes (%d athletes) to %s\n", len(classes), athletes, cfg.Paths.Workbook)
			return store.Counts{RecordsIn: len(matches), RecordsOut: athletes}, nil
		})
	},
}

func init() {
	rootCmd.AddCommand(seedingCmd)
}
