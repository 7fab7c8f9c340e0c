// Package pipeline drives the match-enrichment stages: V1 raw records gain
// canonical teams (V2), athlete identity (V3), and weigh-in weights (V4).
// Every stage is a pure function over immutable pre-built lookup tables;
// enrichment is strictly additive and never drops a match.
package pipeline

import (
	"github.com/rotisserie/eris"
	"go.uber.org/zap"

	"github.com/ikwf-tools/seedline/internal/classify"
	"github.com/ikwf-tools/seedline/internal/model"
	"github.com/ikwf-tools/seedline/internal/normalize"
	"github.com/ikwf-tools/seedline/internal/resolve"
)

// ResolveTeams produces V2 records: both team strings resolved to canonical
// club names, and missing divisions backfilled from the bracket label via
// the season rule table.
func ResolveTeams(matches []model.MatchV1, teams *resolve.TeamResolver, divisions *classify.DivisionClassifier) ([]model.MatchV2, error) {
	out := make([]model.MatchV2, 0, len(matches))
	for _, match := range matches {
		winnerTeam, err := teams.Resolve(match.WinnerTeam, match.EventName)
		if err != nil {
			return nil, err
		}
		loserTeam, err := teams.Resolve(match.LoserTeam, match.EventName)
		if err != nil {
			return nil, err
		}

		if match.Division == nil && match.Bracket != "" {
			division, err := divisions.Classify(match.Bracket)
			if err != nil {
				return nil, eris.Wrapf(err, "pipeline: event %q", match.EventName)
			}
			match.Division = division
		}

		out = append(out, model.MatchV2{
			MatchV1:              match,
			WinnerTeamNormalized: winnerTeam,
			LoserTeamNormalized:  loserTeam,
		})
	}
	return out, nil
}

// ResolveAthletes produces V3 records: each side linked to a roster athlete
// where possible. Unresolved athletes leave nil identity fields; the match
// is kept for auditability. The age-vs-division check is advisory only and
// logs a warning, since tournaments grant legitimate age exceptions.
func ResolveAthletes(matches []model.MatchV2, athletes *resolve.AthleteResolver) ([]model.MatchV3, error) {
	log := zap.L().With(zap.String("component", "pipeline"))

	out := make([]model.MatchV3, 0, len(matches))
	for _, match := range matches {
		enriched := model.MatchV3{MatchV2: match}

		winner, err := athletes.Resolve(match.Winner, match.WinnerTeamNormalized)
		if err != nil {
			return nil, eris.Wrapf(err, "pipeline: winner at event %q", match.EventName)
		}
		if winner != nil {
			enriched.WinnerNormalized = ptr(winner.NormalizedName)
			enriched.WinnerUSAWNumber = ptr(winner.Athlete.USAWNumber)
			enriched.WinnerIKWFAge = ptr(winner.Athlete.IKWFAge)
			warnAgeMismatch(log, winner.Athlete, match.Division, match.EventName)
		}

		loser, err := athletes.Resolve(match.Loser, match.LoserTeamNormalized)
		if err != nil {
			return nil, eris.Wrapf(err, "pipeline: loser at event %q", match.EventName)
		}
		if loser != nil {
			enriched.LoserNormalized = ptr(loser.NormalizedName)
			enriched.LoserUSAWNumber = ptr(loser.Athlete.USAWNumber)
			enriched.LoserIKWFAge = ptr(loser.Athlete.IKWFAge)
			warnAgeMismatch(log, loser.Athlete, match.Division, match.EventName)
		}

		out = append(out, enriched)
	}
	return out, nil
}

func warnAgeMismatch(log *zap.Logger, athlete model.Athlete, division *model.Division, event string) {
	if division == nil {
		return
	}
	ceiling, err := division.AgeCeiling()
	if err != nil {
		return
	}
	if athlete.IKWFAge > ceiling {
		log.Warn("athlete age exceeds division ceiling",
			zap.String("usaw_number", athlete.USAWNumber),
			zap.String("name", athlete.Name),
			zap.Int("ikwf_age", athlete.IKWFAge),
			zap.String("division", string(*division)),
			zap.Int("ceiling", ceiling),
			zap.String("event", event),
		)
	}
}

// EventWeighIns is one event's raw weight-results records.
type EventWeighIns struct {
	Event   string
	Records []model.AthleteWeight
}

// WeighInIgnore documents one weigh-in observation to exclude: a known
// duplicate or cross-bracket artifact, matched exactly against the raw
// record fields.
type WeighInIgnore struct {
	Event string `yaml:"event"`
	Name  string `yaml:"name"`
	Group string `yaml:"group"`
	Team  string `yaml:"team"`
}

// weightKey addresses one athlete's weigh-in within an event after team and
// name normalization.
type weightKey struct {
	team string
	name string
}

// AttachWeights produces V4 records: each resolved side gains the weight the
// athlete weighed in at for that event, when the weight-results pages
// recorded one. Conflicting observations for the same athlete at one event
// are fatal; curated ignore entries exclude known artifacts first.
func AttachWeights(matches []model.MatchV3, events []EventWeighIns, ignores []WeighInIgnore, teams *resolve.TeamResolver) ([]model.MatchV4, error) {
	ignored := make(map[WeighInIgnore]struct{}, len(ignores))
	for _, entry := range ignores {
		ignored[entry] = struct{}{}
	}

	byEvent := make(map[string]map[weightKey]float64, len(events))
	for _, event := range events {
		set := model.NewWeighInSet(event.Event)
		for _, record := range event.Records {
			key := WeighInIgnore{Event: event.Event, Name: record.Name, Group: record.Group, Team: record.Team}
			if _, skip := ignored[key]; skip {
				continue
			}
			if err := set.Add(record); err != nil {
				return nil, err
			}
		}

		index := make(map[weightKey]float64)
		for _, record := range set.All() {
			if record.Weight == nil {
				continue
			}
			team, err := teams.Resolve(record.Team, event.Event)
			if err != nil {
				return nil, eris.Wrapf(err, "pipeline: weigh-in at event %q", event.Event)
			}
			name, err := normalize.Normalize(record.Name)
			if err != nil {
				return nil, eris.Wrapf(err, "pipeline: weigh-in at event %q", event.Event)
			}
			key := weightKey{team: team, name: name}
			if existing, ok := index[key]; ok && existing != *record.Weight {
				return nil, eris.Errorf(
					"pipeline: conflicting weigh-ins at %q for %q (%s): %v vs %v; add an ignore entry",
					event.Event, record.Name, team, existing, *record.Weight,
				)
			}
			index[key] = *record.Weight
		}
		byEvent[event.Event] = index
	}

	out := make([]model.MatchV4, 0, len(matches))
	for _, match := range matches {
		enriched := model.MatchV4{MatchV3: match}
		index := byEvent[match.EventName]
		if index != nil {
			enriched.WinnerWeight = lookupWeight(index, match.WinnerTeamNormalized, match.WinnerNormalized, match.Winner)
			enriched.LoserWeight = lookupWeight(index, match.LoserTeamNormalized, match.LoserNormalized, match.Loser)
		}
		out = append(out, enriched)
	}
	return out, nil
}

// lookupWeight finds the side's weigh-in by canonical team and normalized
// name, preferring the resolved roster name and falling back to the
// normalized raw name for unresolved athletes.
func lookupWeight(index map[weightKey]float64, team string, resolvedName *string, rawName string) *float64 {
	name := ""
	if resolvedName != nil {
		name = *resolvedName
	} else {
		normalized, err := normalize.Normalize(rawName)
		if err != nil {
			// Unclassifiable raw name on an unrostered team; there is no
			// observation to match it against.
			return nil
		}
		name = normalized
	}
	if weight, ok := index[weightKey{team: team, name: name}]; ok {
		return ptr(weight)
	}
	return nil
}

func ptr[T any](v T) *T {
	return &v
}
