// Package seeding groups resolved athletes into weight classes, tallies
// records and head-to-head results, and orders athletes for seeding.
package seeding

import (
	"sort"

	"github.com/rotisserie/eris"

	"github.com/ikwf-tools/seedline/internal/model"
	"github.com/ikwf-tools/seedline/internal/project"
)

// Entry is one athlete's row in a weight class.
type Entry struct {
	Athlete model.Athlete
	Club    string
	Wins    int
	Losses  int
	// Projection is nil when no weigh-in data was available for display;
	// membership in the class was still decided upstream.
	Projection *project.Projection
}

// AdjustedScore is the seeding score: a win rate shrunk toward 0.5 so small
// samples do not outrank long records (1-0 must not beat 16-2).
func (e *Entry) AdjustedScore() float64 {
	return (float64(e.Wins) + 5) / (float64(e.Wins+e.Losses) + 10)
}

// WeightClass collects the athletes assigned to one (division, weight) key
// together with the matches wrestled between them.
type WeightClass struct {
	Key        model.WeightClassKey
	entries    []*Entry
	byUSAW     map[string]*Entry
	HeadToHead []model.MatchV4
}

// NewWeightClass creates an empty weight class.
func NewWeightClass(key model.WeightClassKey) *WeightClass {
	return &WeightClass{Key: key, byUSAW: make(map[string]*Entry)}
}

// AddAthlete tallies the athlete's record from their matches and records any
// match against an athlete already in the class as a head-to-head. matches
// were filtered upstream to this athlete only; a match with neither side
// matching is a fatal upstream bug.
func (wc *WeightClass) AddAthlete(club string, athlete model.Athlete, matches []model.MatchV4, projection *project.Projection) error {
	if _, ok := wc.byUSAW[athlete.USAWNumber]; ok {
		return eris.Errorf("seeding: athlete %s added twice to %s %d", athlete.USAWNumber, wc.Key.Division, wc.Key.Weight)
	}

	entry := &Entry{Athlete: athlete, Club: club, Projection: projection}
	for _, match := range matches {
		var opponent *string
		switch {
		case match.WinnerUSAWNumber != nil && *match.WinnerUSAWNumber == athlete.USAWNumber:
			entry.Wins++
			opponent = match.LoserUSAWNumber
		case match.LoserUSAWNumber != nil && *match.LoserUSAWNumber == athlete.USAWNumber:
			entry.Losses++
			opponent = match.WinnerUSAWNumber
		default:
			return eris.Errorf(
				"seeding: match at %q (%s vs %s) does not belong to athlete %s",
				match.EventName, match.Winner, match.Loser, athlete.USAWNumber,
			)
		}
		if opponent != nil {
			if _, ok := wc.byUSAW[*opponent]; ok {
				wc.HeadToHead = append(wc.HeadToHead, match)
			}
		}
	}

	wc.byUSAW[athlete.USAWNumber] = entry
	wc.entries = append(wc.entries, entry)
	return nil
}

// Seeded returns the entries in seeding order: adjusted score descending,
// with deterministic tie-breaks on wins, then name, then USAW number.
func (wc *WeightClass) Seeded() []*Entry {
	seeded := make([]*Entry, len(wc.entries))
	copy(seeded, wc.entries)
	sort.SliceStable(seeded, func(i, j int) bool {
		si, sj := seeded[i].AdjustedScore(), seeded[j].AdjustedScore()
		if si != sj {
			return si > sj
		}
		if seeded[i].Wins != seeded[j].Wins {
			return seeded[i].Wins > seeded[j].Wins
		}
		if seeded[i].Athlete.Name != seeded[j].Athlete.Name {
			return seeded[i].Athlete.Name < seeded[j].Athlete.Name
		}
		return seeded[i].Athlete.USAWNumber < seeded[j].Athlete.USAWNumber
	})
	return seeded
}

// Size returns the number of athletes in the class.
func (wc *WeightClass) Size() int {
	return len(wc.entries)
}
