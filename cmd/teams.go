package main

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/ikwf-tools/seedline/internal/classify"
	"github.com/ikwf-tools/seedline/internal/loader"
	"github.com/ikwf-tools/seedline/internal/pipeline"
	"github.com/ikwf-tools/seedline/internal/store"
)

var teamsCmd = &cobra.Command{
	Use:   "resolve-teams",
	Short: "Resolve raw team strings to canonical clubs (V1 -> V2)",
	RunE: func(cmd *cobra.Command, args []string) error {
		return recordStage(cmd.Context(), "resolve-teams", func(ctx context.Context) (store.Counts, error) {
			log := zap.L().With(zap.String("command", "resolve-teams"))

			t, err := loadTables()
			if err != nil {
				return store.Counts{}, err
			}

			divisions, err := classify.NewDivisionClassifier(t.season.DivisionRules)
			if err != nil {
				return store.Counts{}, err
			}
			results, err := classify.NewResultTypeClassifier(t.season.ResultRules)
			if err != nil {
				return store.Counts{}, err
			}

			matches, err := loader.ReadMatchesV1(matchPath(1), results)
			if err != nil {
				return store.Counts{}, err
			}
			log.Info("loaded raw matches", zap.Int("count", len(matches)))

			resolved, err := pipeline.ResolveTeams(matches, t.teams, divisions)
			if err != nil {
				return store.Counts{RecordsIn: len(matches)}, err
			}

			if err := loader.WriteMatchesV2(matchPath(2), resolved); err != nil {
				return store.Counts{RecordsIn: len(matches)}, err
			}

			log.Info("teams resolved", zap.Int("matches", len(resolved)))
			fmt.Printf("Resolved teams for %d matches\n", len(resolved))
			return store.Counts{RecordsIn: len(matches), RecordsOut: len(resolved)}, nil
		})
	},
}

func init() {
	rootCmd.AddCommand(teamsCmd)
}
