// Package loader reads and writes the pipeline's boundary artifacts: the
// season config (rule tables, ladders, curated maps), the roster snapshot,
// and the tabular match and weigh-in files.
package loader

import (
	"os"

	"github.com/rotisserie/eris"
	"gopkg.in/yaml.v3"

	"github.com/ikwf-tools/seedline/internal/classify"
	"github.com/ikwf-tools/seedline/internal/model"
	"github.com/ikwf-tools/seedline/internal/normalize"
	"github.com/ikwf-tools/seedline/internal/pipeline"
	"github.com/ikwf-tools/seedline/internal/resolve"
)

// Season bundles every curated, season-specific table the pipeline consumes.
// The heuristics grow every year, so all of it lives in one YAML file rather
// than in code.
type Season struct {
	Ladders        model.Ladders                 `yaml:"ladders"`
	DivisionRules  []classify.Rule               `yaml:"division_rules"`
	ResultRules    []classify.Rule               `yaml:"result_rules"`
	Teams          resolve.TeamTables            `yaml:"teams"`
	AthleteAliases map[string]map[string]*string `yaml:"athlete_aliases"`
	USAWDenylist   []string                      `yaml:"usaw_denylist"`
	WeighInIgnores []pipeline.WeighInIgnore      `yaml:"weigh_in_ignores"`
}

// LoadSeason reads the season config from a YAML file. An empty path returns
// the built-in defaults.
func LoadSeason(path string) (Season, error) {
	if path == "" {
		return DefaultSeason(), nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return Season{}, eris.Wrapf(err, "loader: read season config %s", path)
	}
	var season Season
	if err := yaml.Unmarshal(data, &season); err != nil {
		return Season{}, eris.Wrapf(err, "loader: parse season config %s", path)
	}
	return season, nil
}

// AliasTable converts the raw YAML alias map into its tagged form. Alias
// keys and same-team targets must already be normalized; that is checked
// here so table mistakes surface at startup, not mid-run.
func (s Season) AliasTable() (resolve.AliasTable, error) {
	table := make(resolve.AliasTable, len(s.AthleteAliases))
	for club, byName := range s.AthleteAliases {
		parsed := make(map[string]resolve.Alias, len(byName))
		for name, value := range byName {
			if err := checkNormalized(name); err != nil {
				return nil, eris.Wrapf(err, "loader: alias key %q for club %q", name, club)
			}
			alias, err := resolve.ParseAlias(value)
			if err != nil {
				return nil, eris.Wrapf(err, "loader: alias %q for club %q", name, club)
			}
			parsed[name] = alias
		}
		table[club] = parsed
	}
	return table, nil
}

func checkNormalized(name string) error {
	normalized, err := normalize.Normalize(name)
	if err != nil {
		return err
	}
	if normalized != name {
		return eris.Errorf("loader: %q is not in normalized form (want %q)", name, normalized)
	}
	return nil
}

// Denylist returns the known-bad USAW numbers as a set.
func (s Season) Denylist() map[string]struct{} {
	set := make(map[string]struct{}, len(s.USAWDenylist))
	for _, usaw := range s.USAWDenylist {
		set[usaw] = struct{}{}
	}
	return set
}

// DefaultSeason returns the built-in tables: the IKWF weight ladders and the
// bracket/result labels both sites have used so far. Curated maps start
// empty and come from the season file.
func DefaultSeason() Season {
	return Season{
		Ladders: model.Ladders{
			model.DivisionTot:          {37, 40, 43, 46, 50, 55, 62},
			model.DivisionBantam:       {40, 43, 46, 49, 52, 55, 58, 62, 66, 70, 75, 80, 85, 95, 110},
			model.DivisionIntermediate: {46, 49, 52, 55, 58, 62, 66, 70, 74, 79, 84, 90, 95, 103, 112, 125, 140},
			model.DivisionNovice:       {52, 56, 60, 64, 68, 72, 77, 82, 87, 92, 97, 102, 108, 115, 122, 130, 147, 166},
			model.DivisionSenior:       {63, 67, 71, 75, 79, 84, 89, 95, 101, 108, 115, 122, 130, 139, 148, 160, 175, 215},

			model.DivisionGirlsTot:          {37, 40, 43, 46, 50, 55, 62},
			model.DivisionGirlsBantam:       {40, 43, 46, 49, 52, 55, 58, 62, 66, 70, 75, 80, 85, 95, 110},
			model.DivisionGirlsIntermediate: {46, 49, 52, 55, 58, 62, 66, 70, 74, 79, 84, 90, 95, 103, 112, 125, 140},
			model.DivisionGirlsNovice:       {52, 56, 60, 64, 68, 72, 77, 82, 87, 92, 97, 102, 108, 115, 122, 130, 147, 166},
			model.DivisionGirlsSenior:       {63, 67, 71, 75, 79, 84, 89, 95, 101, 108, 115, 122, 130, 139, 148, 160, 175, 215},
		},
		DivisionRules: []classify.Rule{
			{Contains: "girls tot", Value: "girls_tot"},
			{Contains: "girls bantam", Value: "girls_bantam"},
			{Contains: "girls intermediate", Value: "girls_intermediate"},
			{Contains: "girls novice", Value: "girls_novice"},
			{Contains: "girls senior", Value: "girls_senior"},
			{Contains: "girls cadet", Value: "girls_senior"},
			{Contains: "tot", Value: "tot"},
			{Contains: "bantam", Value: "bantam"},
			{Contains: "intermediate", Value: "intermediate"},
			{Contains: "novice", Value: "novice"},
			{Contains: "senior", Value: "senior"},
			{Regex: `^\d+[A-Z]?$`, Value: classify.DivisionUnknown},
			{Contains: "open", Value: classify.DivisionUnknown},
		},
		ResultRules: []classify.Rule{
			{Contains: "fall", Value: "pin"},
			{Contains: "pin", Value: "pin"},
			{Regex: `\bTF\b`, Value: "tech"},
			{Contains: "tech", Value: "tech"},
			{Regex: `\bMD\b`, Value: "major"},
			{Contains: "maj", Value: "major"},
			{Regex: `\bSV\b`, Value: "overtime"},
			{Regex: `\bOT\b`, Value: "overtime"},
			{Regex: `\bUTB\b`, Value: "overtime"},
			{Regex: `\bTB-?\d\b`, Value: "overtime"},
			{Regex: `\bDec\b`, Value: "decision"},
			{Regex: `\bD \d`, Value: "decision"},
		},
	}
}
