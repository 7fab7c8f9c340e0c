package model

import (
	"sort"
	"strconv"
	"strings"

	"github.com/rotisserie/eris"
)

// Division identifies one of the ten age/skill/gender tiers, each with its
// own weight-class ladder.
type Division string

const (
	DivisionTot          Division = "tot"
	DivisionBantam       Division = "bantam"
	DivisionIntermediate Division = "intermediate"
	DivisionNovice       Division = "novice"
	DivisionSenior       Division = "senior"

	DivisionGirlsTot          Division = "girls_tot"
	DivisionGirlsBantam       Division = "girls_bantam"
	DivisionGirlsIntermediate Division = "girls_intermediate"
	DivisionGirlsNovice       Division = "girls_novice"
	DivisionGirlsSenior       Division = "girls_senior"
)

const girlsPrefix = "girls_"

// AllDivisions lists every legal division value.
var AllDivisions = []Division{
	DivisionTot, DivisionBantam, DivisionIntermediate, DivisionNovice, DivisionSenior,
	DivisionGirlsTot, DivisionGirlsBantam, DivisionGirlsIntermediate, DivisionGirlsNovice, DivisionGirlsSenior,
}

// displayNames maps divisions to their human-readable form, used for report
// sheet names and round-tripped when reading report-derived data back in.
var displayNames = map[Division]string{
	DivisionTot:               "Tot",
	DivisionBantam:            "Bantam",
	DivisionIntermediate:      "Intermediate",
	DivisionNovice:            "Novice",
	DivisionSenior:            "Senior",
	DivisionGirlsTot:          "Girls Tot",
	DivisionGirlsBantam:       "Girls Bantam",
	DivisionGirlsIntermediate: "Girls Intermediate",
	DivisionGirlsNovice:       "Girls Novice",
	DivisionGirlsSenior:       "Girls Senior",
}

// Valid reports whether d is one of the ten known divisions.
func (d Division) Valid() bool {
	_, ok := displayNames[d]
	return ok
}

// IsGirls reports whether d is a girls division.
func (d Division) IsGirls() bool {
	return strings.HasPrefix(string(d), girlsPrefix)
}

// Display returns the human-readable division name.
func (d Division) Display() (string, error) {
	name, ok := displayNames[d]
	if !ok {
		return "", eris.Errorf("model: unsupported division %q", string(d))
	}
	return name, nil
}

// ParseDisplayDivision converts a human-readable division name back to its
// Division value.
func ParseDisplayDivision(s string) (Division, error) {
	for division, name := range displayNames {
		if name == s {
			return division, nil
		}
	}
	return "", eris.Errorf("model: unsupported division display name %q", s)
}

// AgeCeiling returns the expected maximum IKWF age for the division. Used by
// the advisory age check; tournament data can legitimately exceed it.
func (d Division) AgeCeiling() (int, error) {
	switch d {
	case DivisionTot, DivisionGirlsTot:
		return 6, nil
	case DivisionBantam, DivisionGirlsBantam:
		return 8, nil
	case DivisionIntermediate, DivisionGirlsIntermediate:
		return 10, nil
	case DivisionNovice, DivisionGirlsNovice:
		return 12, nil
	case DivisionSenior, DivisionGirlsSenior:
		return 14, nil
	}
	return 0, eris.Errorf("model: unsupported division %q", string(d))
}

// DivisionForAge maps an IKWF age to a division, choosing the girls variant
// when isGirl is set. Ages of 6 and under or over 14 are out of range for
// projection and return an error.
func DivisionForAge(ikwfAge int, isGirl bool) (Division, error) {
	if ikwfAge <= 6 || ikwfAge > 14 {
		return "", eris.Errorf("model: unsupported age %d", ikwfAge)
	}
	var boys, girls Division
	switch {
	case ikwfAge <= 8:
		boys, girls = DivisionBantam, DivisionGirlsBantam
	case ikwfAge <= 10:
		boys, girls = DivisionIntermediate, DivisionGirlsIntermediate
	case ikwfAge <= 12:
		boys, girls = DivisionNovice, DivisionGirlsNovice
	default:
		boys, girls = DivisionSenior, DivisionGirlsSenior
	}
	if isGirl {
		return girls, nil
	}
	return boys, nil
}

// WeightLadder is the ascending tuple of legal weight-class breakpoints for
// one division.
type WeightLadder []int

// Ladders maps each division to its weight-class ladder. Season config data,
// validated at load time.
type Ladders map[Division]WeightLadder

// Validate checks that every division has a non-empty, strictly ascending
// ladder and that no unknown divisions are present.
func (l Ladders) Validate() error {
	for division, ladder := range l {
		if !division.Valid() {
			return eris.Errorf("model: ladder for unknown division %q", string(division))
		}
		if len(ladder) == 0 {
			return eris.Errorf("model: empty ladder for division %q", string(division))
		}
		if !sort.IntsAreSorted(ladder) {
			return eris.Errorf("model: ladder for division %q is not ascending", string(division))
		}
		for i := 1; i < len(ladder); i++ {
			if ladder[i] == ladder[i-1] {
				return eris.Errorf("model: ladder for division %q has duplicate weight %d", string(division), ladder[i])
			}
		}
	}
	for _, division := range AllDivisions {
		if _, ok := l[division]; !ok {
			return eris.Errorf("model: missing ladder for division %q", string(division))
		}
	}
	return nil
}

// WeightClassKey identifies one (division, weight-class) grouping.
type WeightClassKey struct {
	Division Division
	Weight   int
}

// Display renders the key in the "{Division} {weight}" report form.
func (k WeightClassKey) Display() (string, error) {
	name, err := k.Division.Display()
	if err != nil {
		return "", err
	}
	return name + " " + strconv.Itoa(k.Weight), nil
}
