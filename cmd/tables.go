package main

import (
	"github.com/ikwf-tools/seedline/internal/loader"
	"github.com/ikwf-tools/seedline/internal/model"
	"github.com/ikwf-tools/seedline/internal/resolve"
)

// tables holds the immutable per-run lookup state shared by the stage
// commands: the season config, the roster snapshot, and the team resolver
// built from both.
type tables struct {
	season loader.Season
	clubs  []model.Club
	teams  *resolve.TeamResolver
}

func loadTables() (*tables, error) {
	season, err := loader.LoadSeason(cfg.Paths.Season)
	if err != nil {
		return nil, err
	}
	clubs, err := loader.LoadRosters(cfg.Paths.Rosters)
	if err != nil {
		return nil, err
	}
	index, err := resolve.BuildClubIndex(clubs)
	if err != nil {
		return nil, err
	}
	teams, err := resolve.NewTeamResolver(index, season.Teams)
	if err != nil {
		return nil, err
	}
	return &tables{season: season, clubs: clubs, teams: teams}, nil
}
