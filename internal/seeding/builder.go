package seeding

import (
	"sort"

	"go.uber.org/zap"

	"github.com/ikwf-tools/seedline/internal/model"
	"github.com/ikwf-tools/seedline/internal/project"
)

// MapByTeam groups matches first by resolved club and then by USAW number.
// Only sides that resolved to a rostered club and athlete contribute; each
// match appears under both participants when both resolved.
func MapByTeam(matches []model.MatchV4, teamNames map[string]struct{}) map[string]map[string][]model.MatchV4 {
	grouped := make(map[string]map[string][]model.MatchV4)

	add := func(team string, usaw *string, match model.MatchV4) {
		if usaw == nil {
			return
		}
		if _, ok := teamNames[team]; !ok {
			return
		}
		byAthlete, ok := grouped[team]
		if !ok {
			byAthlete = make(map[string][]model.MatchV4)
			grouped[team] = byAthlete
		}
		byAthlete[*usaw] = append(byAthlete[*usaw], match)
	}

	for _, match := range matches {
		add(match.WinnerTeamNormalized, match.WinnerUSAWNumber, match)
		add(match.LoserTeamNormalized, match.LoserUSAWNumber, match)
	}
	return grouped
}

// BuildWeightClasses projects every rostered athlete with match history and
// assembles them into weight classes. Athletes the projector declines to
// place (no weigh-ins, out-of-range age, too heavy) are logged and skipped;
// their matches still count for opponents' records.
func BuildWeightClasses(clubs []model.Club, matches []model.MatchV4, projector *project.Projector) ([]*WeightClass, error) {
	log := zap.L().With(zap.String("component", "seeding"))

	teamNames := make(map[string]struct{}, len(clubs))
	for _, club := range clubs {
		teamNames[club.ClubName] = struct{}{}
	}
	grouped := MapByTeam(matches, teamNames)

	classes := make(map[model.WeightClassKey]*WeightClass)
	for _, club := range clubs {
		byAthlete := grouped[club.ClubName]
		for _, athlete := range club.Athletes {
			athleteMatches := byAthlete[athlete.USAWNumber]
			if len(athleteMatches) == 0 {
				continue
			}

			projection, err := projector.Project(athlete.USAWNumber, athlete.IKWFAge, athleteMatches)
			if err != nil {
				return nil, err
			}
			if projection == nil {
				log.Debug("athlete not placed",
					zap.String("usaw_number", athlete.USAWNumber),
					zap.String("club", club.ClubName),
					zap.Int("matches", len(athleteMatches)),
				)
				continue
			}

			class, ok := classes[projection.Key]
			if !ok {
				class = NewWeightClass(projection.Key)
				classes[projection.Key] = class
			}
			if err := class.AddAthlete(club.ClubName, athlete, athleteMatches, projection); err != nil {
				return nil, err
			}
		}
	}

	out := make([]*WeightClass, 0, len(classes))
	for _, class := range classes {
		out = append(out, class)
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Key.Division != out[j].Key.Division {
			return divisionOrder[out[i].Key.Division] < divisionOrder[out[j].Key.Division]
		}
		return out[i].Key.Weight < out[j].Key.Weight
	})
	return out, nil
}
