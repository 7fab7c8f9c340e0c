package model

import "github.com/rotisserie/eris"

// AthleteWeight is a single weigh-in observation scraped from a
// weight-results page. Weight is nil when the page listed the athlete
// without a recorded weight.
type AthleteWeight struct {
	Name   string   `csv:"Name"`
	Group  string   `csv:"Group"`
	Team   string   `csv:"Team"`
	Weight *float64 `csv:"Weight"`
}

// WeighInKey identifies one weigh-in observation for de-duplication.
type WeighInKey struct {
	Name  string
	Group string
	Team  string
}

// Key returns the de-duplication key for the observation.
func (w AthleteWeight) Key() WeighInKey {
	return WeighInKey{Name: w.Name, Group: w.Group, Team: w.Team}
}

// WeighInSet collects weigh-in observations for one event, rejecting
// conflicting re-observations of the same key. Re-observing an identical
// record is tolerated; a different weight for the same key indicates an
// upstream extraction bug and is fatal.
type WeighInSet struct {
	event   string
	byKey   map[WeighInKey]AthleteWeight
	ordered []AthleteWeight
}

// NewWeighInSet creates an empty set for the named event.
func NewWeighInSet(event string) *WeighInSet {
	return &WeighInSet{
		event: event,
		byKey: make(map[WeighInKey]AthleteWeight),
	}
}

// Event returns the event the set belongs to.
func (s *WeighInSet) Event() string {
	return s.event
}

// Add inserts an observation, failing on a conflicting duplicate.
func (s *WeighInSet) Add(w AthleteWeight) error {
	key := w.Key()
	existing, ok := s.byKey[key]
	if !ok {
		s.byKey[key] = w
		s.ordered = append(s.ordered, w)
		return nil
	}
	if !weightsEqual(existing.Weight, w.Weight) {
		return eris.Errorf(
			"model: conflicting weigh-in at %q for name=%q group=%q team=%q",
			s.event, w.Name, w.Group, w.Team,
		)
	}
	return nil
}

// All returns the observations in insertion order.
func (s *WeighInSet) All() []AthleteWeight {
	return s.ordered
}

func weightsEqual(a, b *float64) bool {
	if a == nil || b == nil {
		return a == b
	}
	return *a == *b
}
