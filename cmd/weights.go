package main

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/ikwf-tools/seedline/internal/loader"
	"github.com/ikwf-tools/seedline/internal/pipeline"
	"github.com/ikwf-tools/seedline/internal/store"
)

var weightsCmd = &cobra.Command{
	Use:   "attach-weights",
	Short: "Attach per-event weigh-ins to resolved matches (V3 -> V4)",
	RunE: func(cmd *cobra.Command, args []string) error {
		return recordStage(cmd.Context(), "attach-weights", func(ctx context.Context) (store.Counts, error) {
			log := zap.L().With(zap.String("command", "attach-weights"))

			t, err := loadTables()
			if err != nil {
				return store.Counts{}, err
			}

			matches, err := loader.ReadMatchesV3(matchPath(3))
			if err != nil {
				return store.Counts{}, err
			}

			weighIns, err := loader.LoadWeighIns(ctx, cfg.Paths.WeighInDir)
			if err != nil {
				return store.Counts{}, err
			}
			log.Info("loaded weigh-ins", zap.Int("events", len(weighIns)))

			enriched, err := pipeline.AttachWeights(matches, weighIns, t.season.WeighInIgnores, t.teams)
			if err != nil {
				return store.Counts{RecordsIn: len(matches)}, err
			}

			weighted := 0
			for _, match := range enriched {
				if match.WinnerWeight != nil {
					weighted++
				}
				if match.LoserWeight != nil {
					weighted++
				}
			}

			if err := loader.WriteMatchesV4(matchPath(4), enriched); err != nil {
				return store.Counts{RecordsIn: len(matches)}, err
			}

			log.Info("weights attached",
				zap.Int("matches", len(enriched)),
				zap.Int("weighted_sides", weighted),
			)
			fmt.Printf("Attached weights for %d matches (%d weighted sides)\n", len(enriched), weighted)
			return store.Counts{RecordsIn: len(matches), RecordsOut: len(enriched)}, nil
		})
	},
}

func init() {
	rootCmd.AddCommand(weightsCmd)
}
