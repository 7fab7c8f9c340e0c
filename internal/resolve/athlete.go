package resolve

import (
	"strings"

	"github.com/rotisserie/eris"

	"github.com/ikwf-tools/seedline/internal/model"
	"github.com/ikwf-tools/seedline/internal/normalize"
)

// RedirectDelimiter separates the club qualifier from the corrected name in
// a cross-team alias value. Safe because normalized club names never contain
// it.
const RedirectDelimiter = "|"

// AliasKind tags the three shapes an athlete alias can take.
type AliasKind int

const (
	// AliasSameTeam corrects a misspelled name within the same club.
	AliasSameTeam AliasKind = iota
	// AliasRedirect resolves the name within another club's roster (a
	// transfer). Single hop only: redirect targets must be real roster names,
	// never further aliases.
	AliasRedirect
	// AliasUnresolvable documents a name as known-unmatchable; it resolves to
	// no athlete without error.
	AliasUnresolvable
)

// Alias is one curated athlete-name correction.
type Alias struct {
	Kind AliasKind
	Team string // redirect target club, canonical name
	Name string // corrected normalized name
}

// ParseAlias converts the raw table value into its tagged form. A nil value
// is the explicit "known unmatchable" marker; a value containing the
// redirect delimiter is a cross-team transfer.
func ParseAlias(value *string) (Alias, error) {
	if value == nil {
		return Alias{Kind: AliasUnresolvable}, nil
	}
	if !strings.Contains(*value, RedirectDelimiter) {
		return Alias{Kind: AliasSameTeam, Name: *value}, nil
	}
	parts := strings.SplitN(*value, RedirectDelimiter, 2)
	if parts[0] == "" || parts[1] == "" {
		return Alias{}, eris.Errorf("resolve: malformed alias redirect %q", *value)
	}
	if strings.Contains(parts[1], RedirectDelimiter) {
		return Alias{}, eris.Errorf("resolve: alias redirect %q has multiple delimiters", *value)
	}
	return Alias{Kind: AliasRedirect, Team: parts[0], Name: parts[1]}, nil
}

// RosterIndex maps (canonical club, normalized athlete name) to the roster
// athlete. Built once per run and read-only afterwards.
type RosterIndex struct {
	byClub map[string]map[string]model.Athlete
}

// BuildRosterIndex indexes every club's athletes by normalized name,
// dropping entries on the known-bad USAW denylist. Two rostered athletes in
// one club sharing a normalized name is a hard error.
func BuildRosterIndex(clubs []model.Club, denylist map[string]struct{}) (*RosterIndex, error) {
	index := &RosterIndex{byClub: make(map[string]map[string]model.Athlete, len(clubs))}
	for _, club := range clubs {
		if err := club.Validate(); err != nil {
			return nil, err
		}
		byName := make(map[string]model.Athlete, len(club.Athletes))
		for _, athlete := range club.Athletes {
			if _, bad := denylist[athlete.USAWNumber]; bad {
				continue
			}
			key, err := normalize.Normalize(athlete.Name)
			if err != nil {
				return nil, eris.Wrapf(err, "resolve: normalize athlete %q in club %q", athlete.Name, club.ClubName)
			}
			if existing, ok := byName[key]; ok {
				return nil, eris.Errorf(
					"resolve: club %q has two athletes with normalized name %q (USAW %s and %s)",
					club.ClubName, key, existing.USAWNumber, athlete.USAWNumber,
				)
			}
			byName[key] = athlete
		}
		index.byClub[club.ClubName] = byName
	}
	return index, nil
}

// Clubs returns the canonical club names present in the index.
func (x *RosterIndex) Clubs() []string {
	clubs := make([]string, 0, len(x.byClub))
	for club := range x.byClub {
		clubs = append(clubs, club)
	}
	return clubs
}

// AliasTable is the residual curated athlete-name map:
// club -> normalized raw name -> alias.
type AliasTable map[string]map[string]Alias

// Resolution is a successful athlete link: the roster athlete plus the
// normalized roster name it was found under (written to the enriched match).
type Resolution struct {
	Athlete        model.Athlete
	NormalizedName string
}

// AthleteResolver maps (raw name, resolved club) to a roster athlete.
type AthleteResolver struct {
	rosters *RosterIndex
	aliases AliasTable
}

// NewAthleteResolver validates alias redirect targets against the roster:
// the alias table must be internally consistent with the rosters it
// references.
func NewAthleteResolver(rosters *RosterIndex, aliases AliasTable) (*AthleteResolver, error) {
	for club, byName := range aliases {
		for raw, alias := range byName {
			if alias.Kind != AliasRedirect {
				continue
			}
			target, ok := rosters.byClub[alias.Team]
			if !ok {
				return nil, eris.Errorf(
					"resolve: alias %q/%q redirects to unknown club %q", club, raw, alias.Team,
				)
			}
			if _, ok := target[alias.Name]; !ok {
				return nil, eris.Errorf(
					"resolve: alias %q/%q redirects to %q/%q which is not on that roster",
					club, raw, alias.Team, alias.Name,
				)
			}
		}
	}
	return &AthleteResolver{rosters: rosters, aliases: aliases}, nil
}

// Resolve links a raw athlete name within a resolved club. A nil Resolution
// with nil error means the athlete is legitimately unmatchable: either the
// club has no roster on file, or the name carries an explicit unresolvable
// alias. A name that misses the roster without an alias entry is a hard
// error - every unmatched name must be explicitly audited.
func (r *AthleteResolver) Resolve(rawName, club string) (*Resolution, error) {
	roster, ok := r.rosters.byClub[club]
	if !ok {
		// Out-of-league club with no roster on file; tolerated.
		return nil, nil
	}

	normalized, err := normalize.Normalize(rawName)
	if err != nil {
		return nil, eris.Wrapf(err, "resolve: athlete %q in club %q", rawName, club)
	}

	if athlete, ok := roster[normalized]; ok {
		return &Resolution{Athlete: athlete, NormalizedName: normalized}, nil
	}

	alias, ok := r.aliases[club][normalized]
	if !ok {
		return nil, eris.Errorf(
			"resolve: athlete %q (normalized %q) not on roster of %q and has no alias entry",
			rawName, normalized, club,
		)
	}

	switch alias.Kind {
	case AliasUnresolvable:
		return nil, nil
	case AliasRedirect:
		athlete, ok := r.rosters.byClub[alias.Team][alias.Name]
		if !ok {
			return nil, eris.Errorf(
				"resolve: alias for %q/%q redirects to %q/%q which is missing",
				club, normalized, alias.Team, alias.Name,
			)
		}
		return &Resolution{Athlete: athlete, NormalizedName: alias.Name}, nil
	case AliasSameTeam:
		athlete, ok := roster[alias.Name]
		if !ok {
			return nil, eris.Errorf(
				"resolve: alias for %q/%q names %q which is not on the roster",
				club, normalized, alias.Name,
			)
		}
		return &Resolution{Athlete: athlete, NormalizedName: alias.Name}, nil
	}
	return nil, eris.Errorf("resolve: unknown alias kind %d", int(alias.Kind))
}
