package main

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/ikwf-tools/seedline/internal/loader"
	"github.com/ikwf-tools/seedline/internal/pipeline"
	"github.com/ikwf-tools/seedline/internal/resolve"
	"github.com/ikwf-tools/seedline/internal/store"
)

var athletesCmd = &cobra.Command{
	Use:   "resolve-athletes",
	Short: "Link match participants to roster athletes (V2 -> V3)",
	RunE: func(cmd *cobra.Command, args []string) error {
		return recordStage(cmd.Context(), "resolve-athletes", func(ctx context.Context) (store.Counts, error) {
			log := zap.L().With(zap.String("command", "resolve-athletes"))

			t, err := loadTables()
			if err != nil {
				return store.Counts{}, err
			}

			rosters, err := resolve.BuildRosterIndex(t.clubs, t.season.Denylist())
			if err != nil {
				return store.Counts{}, err
			}
			aliases, err := t.season.AliasTable()
			if err != nil {
				return store.Counts{}, err
			}
			athletes, err := resolve.NewAthleteResolver(rosters, aliases)
			if err != nil {
				return store.Counts{}, err
			}

			matches, err := loader.ReadMatchesV2(matchPath(2))
			if err != nil {
				return store.Counts{}, err
			}

			resolved, err := pipeline.ResolveAthletes(matches, athletes)
			if err != nil {
				return store.Counts{RecordsIn: len(matches)}, err
			}

			unresolved := 0
			for _, match := range resolved {
				if match.WinnerUSAWNumber == nil {
					unresolved++
				}
				if match.LoserUSAWNumber == nil {
					unresolved++
				}
			}

			if err := loader.WriteMatchesV3(matchPath(3), resolved); err != nil {
				return store.Counts{RecordsIn: len(matches)}, err
			}

			log.Info("athletes resolved",
				zap.Int("matches", len(resolved)),
				zap.Int("unresolved_sides", unresolved),
			)
			fmt.Printf("Resolved athletes for %d matches (%d unresolved sides)\n", len(resolved), unresolved)
			return store.Counts{RecordsIn: len(matches), RecordsOut: len(resolved), Unresolved: unresolved}, nil
		})
	},
}

func init() {
	rootCmd.AddCommand(athletesCmd)
}
