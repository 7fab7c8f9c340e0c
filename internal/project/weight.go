// Package project estimates an athlete's current competition weight from
// noisy historical weigh-ins and slots it into the division's weight-class
// ladder. Best-effort estimator: robust to outliers, biased toward recent
// observations, and silent (nil) rather than wrong when it cannot commit.
package project

import (
	"math"
	"sort"

	"github.com/rotisserie/eris"

	"github.com/ikwf-tools/seedline/internal/model"
)

// Params tunes the projection heuristics.
type Params struct {
	// Decay is the geometric recency factor: the most recent weigh-in gets
	// weight 1, each older one Decay times the next newer one.
	Decay float64
	// MADK scales the Median Absolute Deviation band outside which weigh-ins
	// are discarded as outliers.
	MADK float64
	// Buffer shrinks each weight-class breakpoint: an athlete slots into the
	// lightest class w with projected <= w - Buffer.
	Buffer float64
}

// DefaultParams returns the tuned season defaults.
func DefaultParams() Params {
	return Params{Decay: 0.85, MADK: 2.5, Buffer: 0.5}
}

// Projection is the weight-class estimate for one athlete. The most recent
// observed weigh-in is surfaced alongside the computed projection so a
// reviewer can sanity-check the slotting.
type Projection struct {
	Key              model.WeightClassKey
	MostRecentDate   model.Date
	MostRecentWeight float64
	ProjectedWeight  float64
}

// Projector computes weight-class projections against a fixed set of
// division ladders.
type Projector struct {
	ladders model.Ladders
	params  Params
}

// NewProjector validates the ladders and params.
func NewProjector(ladders model.Ladders, params Params) (*Projector, error) {
	if err := ladders.Validate(); err != nil {
		return nil, err
	}
	if params.Decay <= 0 || params.Decay > 1 {
		return nil, eris.Errorf("project: decay %v out of range (0, 1]", params.Decay)
	}
	if params.MADK <= 0 {
		return nil, eris.Errorf("project: MAD multiplier %v must be positive", params.MADK)
	}
	if params.Buffer < 0 {
		return nil, eris.Errorf("project: buffer %v must be non-negative", params.Buffer)
	}
	return &Projector{ladders: ladders, params: params}, nil
}

type weighIn struct {
	date   model.Date
	weight float64
}

// Project estimates the athlete's weight class from their matches. matches
// must all belong to the athlete (as winner or loser); anything else is a
// fatal upstream filtering bug. Returns nil when the athlete's age is out of
// the supported range, no weigh-ins exist, or the projection lands above the
// heaviest class.
func (p *Projector) Project(usawNumber string, ikwfAge int, matches []model.MatchV4) (*Projection, error) {
	if ikwfAge <= 6 || ikwfAge > 14 {
		return nil, nil
	}

	observations, err := collectWeighIns(usawNumber, matches)
	if err != nil {
		return nil, err
	}
	if len(observations) == 0 {
		return nil, nil
	}

	mostRecent := observations[len(observations)-1]

	weights := make([]float64, len(observations))
	for i, obs := range observations {
		weights[i] = obs.weight
	}
	projected := projectedWeight(weights, p.params.Decay, p.params.MADK)

	division, err := athleteDivision(ikwfAge, matches)
	if err != nil {
		return nil, err
	}
	ladder := p.ladders[division]

	weightClass, ok := slotWeightClass(projected, ladder, p.params.Buffer)
	if !ok {
		// Too heavy for the division's heaviest class; do not guess.
		return nil, nil
	}

	return &Projection{
		Key:              model.WeightClassKey{Division: division, Weight: weightClass},
		MostRecentDate:   mostRecent.date,
		MostRecentWeight: mostRecent.weight,
		ProjectedWeight:  projected,
	}, nil
}

// collectWeighIns gathers the athlete's per-event weigh-ins from their
// matches, de-duplicated by event. The same event reporting two different
// (date, weight) observations for one athlete is a data-consistency error.
// Returns observations in chronological order.
func collectWeighIns(usawNumber string, matches []model.MatchV4) ([]weighIn, error) {
	byEvent := make(map[string]weighIn)
	for _, match := range matches {
		var weight *float64
		switch {
		case match.WinnerUSAWNumber != nil && *match.WinnerUSAWNumber == usawNumber:
			weight = match.WinnerWeight
		case match.LoserUSAWNumber != nil && *match.LoserUSAWNumber == usawNumber:
			weight = match.LoserWeight
		default:
			return nil, eris.Errorf(
				"project: match at %q (%s vs %s) does not belong to athlete %s",
				match.EventName, match.Winner, match.Loser, usawNumber,
			)
		}
		if weight == nil {
			continue
		}

		obs := weighIn{date: match.EventDate, weight: *weight}
		if existing, ok := byEvent[match.EventName]; ok {
			if existing.weight != obs.weight || !existing.date.Equal(obs.date.Time) {
				return nil, eris.Errorf(
					"project: mismatched weigh-in for athlete %s at %q (%v vs %v)",
					usawNumber, match.EventName, existing.weight, obs.weight,
				)
			}
			continue
		}
		byEvent[match.EventName] = obs
	}

	observations := make([]weighIn, 0, len(byEvent))
	for _, obs := range byEvent {
		observations = append(observations, obs)
	}
	sort.Slice(observations, func(i, j int) bool {
		if !observations[i].date.Equal(observations[j].date.Time) {
			return observations[i].date.Before(observations[j].date.Time)
		}
		return observations[i].weight < observations[j].weight
	})
	return observations, nil
}

// projectedWeight applies MAD outlier filtering then a recency-weighted
// average over the chronologically-ordered weights.
func projectedWeight(weights []float64, decay, madK float64) float64 {
	median := upperMedian(weights)
	absDevs := make([]float64, len(weights))
	for i, w := range weights {
		absDevs[i] = math.Abs(w - median)
	}
	mad := upperMedian(absDevs)

	filtered := weights
	if mad > 0 {
		filtered = make([]float64, 0, len(weights))
		for _, w := range weights {
			if math.Abs(w-median) <= madK*mad {
				filtered = append(filtered, w)
			}
		}
	}

	n := len(filtered)
	var weightedSum, total float64
	for i, w := range filtered {
		recency := math.Pow(decay, float64(n-i-1))
		weightedSum += w * recency
		total += recency
	}
	return weightedSum / total
}

// upperMedian returns the element at index n/2 of the sorted values, the
// same convention the projection has always used.
func upperMedian(values []float64) float64 {
	sorted := make([]float64, len(values))
	copy(sorted, values)
	sort.Float64s(sorted)
	return sorted[len(sorted)/2]
}

// athleteDivision derives the division from age, taking the girls variant
// when any of the athlete's recorded match divisions is a girls division.
func athleteDivision(ikwfAge int, matches []model.MatchV4) (model.Division, error) {
	isGirl := false
	for _, match := range matches {
		if match.Division != nil && match.Division.IsGirls() {
			isGirl = true
			break
		}
	}
	return model.DivisionForAge(ikwfAge, isGirl)
}

// slotWeightClass finds the lightest breakpoint the projected weight fits
// under, honoring the buffer. ok is false when the athlete is too heavy for
// the ladder.
func slotWeightClass(projected float64, ladder model.WeightLadder, buffer float64) (int, bool) {
	for _, weightClass := range ladder {
		if projected <= float64(weightClass)-buffer {
			return weightClass, true
		}
	}
	return 0, false
}
