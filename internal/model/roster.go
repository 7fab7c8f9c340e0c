package model

import "github.com/rotisserie/eris"

// Sectional is the geographic grouping a club qualifies through.
type Sectional string

const (
	SectionalCentral        Sectional = "Central"
	SectionalNorth          Sectional = "North"
	SectionalSouth          Sectional = "South"
	SectionalWest           Sectional = "West"
	SectionalCentralChicago Sectional = "Central Chicago"
	SectionalNorthChicago   Sectional = "North Chicago"
	SectionalSouthChicago   Sectional = "South Chicago"
	SectionalWestChicago    Sectional = "West Chicago"
)

// Valid reports whether s is one of the eight sectionals.
func (s Sectional) Valid() bool {
	switch s {
	case SectionalCentral, SectionalNorth, SectionalSouth, SectionalWest,
		SectionalCentralChicago, SectionalNorthChicago, SectionalSouthChicago, SectionalWestChicago:
		return true
	}
	return false
}

// Athlete is one roster entry, immutable once loaded. USAWNumber is the
// stable external identifier and the join key after resolution succeeds.
type Athlete struct {
	USAWNumber string `json:"usaw_number"`
	Name       string `json:"name"`
	IKWFAge    int    `json:"ikwf_age"`
}

// Club is one team's roster snapshot. ClubName is the canonical identifying
// key across the whole system.
type Club struct {
	ClubName  string    `json:"club_name"`
	Sectional Sectional `json:"sectional"`
	Athletes  []Athlete `json:"athletes"`
}

// Validate checks the club's sectional and rejects duplicate USAW numbers
// within the club.
func (c Club) Validate() error {
	if !c.Sectional.Valid() {
		return eris.Errorf("model: club %q has unknown sectional %q", c.ClubName, string(c.Sectional))
	}
	seen := make(map[string]struct{}, len(c.Athletes))
	for _, athlete := range c.Athletes {
		if _, ok := seen[athlete.USAWNumber]; ok {
			return eris.Errorf("model: club %q has duplicate USAW number %s", c.ClubName, athlete.USAWNumber)
		}
		seen[athlete.USAWNumber] = struct{}{}
	}
	return nil
}
