// Package resolve links raw match-record strings to canonical roster
// entities. Matching is table-driven and deterministic: every pass is either
// an exact lookup or a uniquely-disambiguated one, and anything ambiguous
// fails loudly so a human adds an explicit mapping instead of the code
// guessing.
package resolve

import (
	"sort"
	"strings"

	"github.com/lithammer/fuzzysearch/fuzzy"
	"github.com/rotisserie/eris"

	"github.com/ikwf-tools/seedline/internal/model"
	"github.com/ikwf-tools/seedline/internal/normalize"
)

// ClubIndex maps normalized lookup keys (including synonym expansions) to
// canonical club names. Built once per run from the roster snapshot and
// read-only afterwards.
type ClubIndex struct {
	byKey     map[string]string
	canonical map[string]struct{}
}

// BuildClubIndex normalizes every club name and adds the synonym expansions
// ("wrestling club" <-> "wc" suffixes, "jr" <-> "junior" tokens). Two
// distinct clubs landing on the same key is a hard error: the roster itself
// is ambiguous and needs manual attention.
func BuildClubIndex(clubs []model.Club) (*ClubIndex, error) {
	index := &ClubIndex{
		byKey:     make(map[string]string, len(clubs)*2),
		canonical: make(map[string]struct{}, len(clubs)),
	}

	for _, club := range clubs {
		key, err := normalize.Normalize(club.ClubName)
		if err != nil {
			return nil, eris.Wrapf(err, "resolve: normalize club %q", club.ClubName)
		}
		if key == "" {
			return nil, eris.Errorf("resolve: club %q normalizes to empty", club.ClubName)
		}
		if _, ok := index.canonical[club.ClubName]; ok {
			return nil, eris.Errorf("resolve: duplicate club %q in roster", club.ClubName)
		}
		index.canonical[club.ClubName] = struct{}{}
		if err := index.add(key, club.ClubName); err != nil {
			return nil, err
		}
	}

	// Synonym keys are expanded after every base key exists so a collision
	// with a real distinct club is always detected.
	for key, canonical := range index.baseSnapshot() {
		for _, synonym := range synonymKeys(key) {
			if err := index.add(synonym, canonical); err != nil {
				return nil, err
			}
		}
	}

	return index, nil
}

func (x *ClubIndex) baseSnapshot() map[string]string {
	snapshot := make(map[string]string, len(x.byKey))
	for key, canonical := range x.byKey {
		snapshot[key] = canonical
	}
	return snapshot
}

func (x *ClubIndex) add(key, canonical string) error {
	if existing, ok := x.byKey[key]; ok {
		if existing != canonical {
			return eris.Errorf(
				"resolve: ambiguous club key %q maps to both %q and %q",
				key, existing, canonical,
			)
		}
		return nil
	}
	x.byKey[key] = canonical
	return nil
}

// Lookup returns the canonical club for an exact normalized key.
func (x *ClubIndex) Lookup(key string) (string, bool) {
	canonical, ok := x.byKey[key]
	return canonical, ok
}

// HasCanonical reports whether name is a canonical club name.
func (x *ClubIndex) HasCanonical(name string) bool {
	_, ok := x.canonical[name]
	return ok
}

// Keys returns all lookup keys, sorted. Used for candidate suggestions in
// error messages.
func (x *ClubIndex) Keys() []string {
	keys := make([]string, 0, len(x.byKey))
	for key := range x.byKey {
		keys = append(keys, key)
	}
	sort.Strings(keys)
	return keys
}

// synonymKeys returns the extra lookup keys implied by a base key: the
// "wrestling club"/"wc" suffix rewrite and the "jr"/"junior" token rewrite.
func synonymKeys(key string) []string {
	var out []string

	if strings.HasSuffix(key, " wrestling club") {
		out = append(out, strings.TrimSuffix(key, " wrestling club")+" wc")
	} else if strings.HasSuffix(key, " wc") {
		out = append(out, strings.TrimSuffix(key, " wc")+" wrestling club")
	}

	tokens := strings.Split(key, " ")
	for i, token := range tokens {
		var swapped string
		switch token {
		case "jr":
			swapped = "junior"
		case "junior":
			swapped = "jr"
		default:
			continue
		}
		rewritten := make([]string, len(tokens))
		copy(rewritten, tokens)
		rewritten[i] = swapped
		out = append(out, strings.Join(rewritten, " "))
	}

	return out
}

// FalseDuplicate documents a known pair of clubs with near-identical names
// whose substring matches collide; Choose is the club the pair resolves to.
type FalseDuplicate struct {
	Candidates [2]string `yaml:"candidates"`
	Choose     string    `yaml:"choose"`
}

// TeamResolver maps raw team strings from match records to canonical club
// names. All tables are immutable after construction.
type TeamResolver struct {
	index         *ClubIndex
	overrides     map[string]map[string]string // event -> raw string -> canonical
	eventAcronyms map[string]map[string]string // event -> normalized -> canonical
	falsePairs    []FalseDuplicate
	custom        map[string]string // normalized -> canonical
}

// TeamTables bundles the curated mapping tables consumed by the resolver.
type TeamTables struct {
	// Overrides fixes known-wrong historical mappings per (event, raw team);
	// exact raw-string match, highest priority. Targets may name unrostered
	// out-of-state teams.
	Overrides map[string]map[string]string `yaml:"overrides"`
	// EventAcronyms resolves recurring ambiguous acronyms per event, keyed by
	// normalized raw string.
	EventAcronyms map[string]map[string]string `yaml:"event_acronyms"`
	// FalseDuplicates lists documented near-identical club pairs.
	FalseDuplicates []FalseDuplicate `yaml:"false_duplicates"`
	// Custom is the residual normalized-string -> canonical-club catch-all.
	Custom map[string]string `yaml:"custom"`
}

// NewTeamResolver validates the curated tables against the club index.
// Residual custom entries must target canonical roster clubs; per-event
// overrides are exempt because they can legitimately point at out-of-state
// teams with no roster on file.
func NewTeamResolver(index *ClubIndex, tables TeamTables) (*TeamResolver, error) {
	for key, canonical := range tables.Custom {
		if !index.HasCanonical(canonical) {
			return nil, eris.Errorf("resolve: custom team map %q targets unknown club %q", key, canonical)
		}
	}
	for _, pair := range tables.FalseDuplicates {
		if pair.Choose != pair.Candidates[0] && pair.Choose != pair.Candidates[1] {
			return nil, eris.Errorf(
				"resolve: false-duplicate choice %q is not one of its candidates %q / %q",
				pair.Choose, pair.Candidates[0], pair.Candidates[1],
			)
		}
		if !index.HasCanonical(pair.Choose) {
			return nil, eris.Errorf("resolve: false-duplicate choice %q is not a canonical club", pair.Choose)
		}
	}
	return &TeamResolver{
		index:         index,
		overrides:     tables.Overrides,
		eventAcronyms: tables.EventAcronyms,
		falsePairs:    tables.FalseDuplicates,
		custom:        tables.Custom,
	}, nil
}

// Resolve maps a raw team string appearing at the named event to exactly one
// canonical club name. An empty raw string means unattached and resolves to
// the empty string. Resolution failure and ambiguity are both fatal.
func (r *TeamResolver) Resolve(rawTeam, eventName string) (string, error) {
	if strings.TrimSpace(rawTeam) == "" {
		return "", nil
	}

	// Pass 1: explicit per-event override, exact raw string.
	if byRaw, ok := r.overrides[eventName]; ok {
		if canonical, ok := byRaw[rawTeam]; ok {
			return canonical, nil
		}
	}

	normalized, err := normalize.Normalize(rawTeam)
	if err != nil {
		return "", eris.Wrapf(err, "resolve: team %q at event %q", rawTeam, eventName)
	}

	// Pass 2: event-scoped acronym table.
	if byKey, ok := r.eventAcronyms[eventName]; ok {
		if canonical, ok := byKey[normalized]; ok {
			return canonical, nil
		}
	}

	// Pass 3: exact index hit.
	if canonical, ok := r.index.Lookup(normalized); ok {
		return canonical, nil
	}

	// Pass 4-6: substring disambiguation.
	candidates := r.substringCandidates(normalized)
	switch len(candidates) {
	case 0:
		// fall through to the residual table
	case 1:
		return candidates[0], nil
	case 2:
		if chosen, ok := r.resolveFalsePair(candidates); ok {
			return chosen, nil
		}
		fallthrough
	default:
		return "", eris.Errorf(
			"resolve: ambiguous team %q at event %q matches clubs %s",
			rawTeam, eventName, strings.Join(candidates, ", "),
		)
	}

	// Pass 7: residual custom mapping.
	if canonical, ok := r.custom[normalized]; ok {
		return canonical, nil
	}

	return "", eris.Errorf(
		"resolve: unresolved team %q (normalized %q) at event %q; closest known keys: %s",
		rawTeam, normalized, eventName, strings.Join(r.suggest(normalized), ", "),
	)
}

// substringCandidates returns the distinct canonical clubs whose lookup keys
// are substrings of the normalized raw team, sorted for determinism.
func (r *TeamResolver) substringCandidates(normalized string) []string {
	seen := make(map[string]struct{})
	for key, canonical := range r.index.byKey {
		if strings.Contains(normalized, key) {
			seen[canonical] = struct{}{}
		}
	}
	candidates := make([]string, 0, len(seen))
	for canonical := range seen {
		candidates = append(candidates, canonical)
	}
	sort.Strings(candidates)
	return candidates
}

func (r *TeamResolver) resolveFalsePair(candidates []string) (string, bool) {
	for _, pair := range r.falsePairs {
		a, b := pair.Candidates[0], pair.Candidates[1]
		if (candidates[0] == a && candidates[1] == b) || (candidates[0] == b && candidates[1] == a) {
			return pair.Choose, true
		}
	}
	return "", false
}

// suggest ranks index keys by fuzzy similarity to the unresolved string so
// the operator can spot the missing table entry quickly.
func (r *TeamResolver) suggest(normalized string) []string {
	ranks := fuzzy.RankFindNormalizedFold(normalized, r.index.Keys())
	sort.Sort(ranks)
	out := make([]string, 0, 3)
	for _, rank := range ranks {
		out = append(out, rank.Target)
		if len(out) == 3 {
			break
		}
	}
	if len(out) == 0 {
		return []string{"(none)"}
	}
	return out
}
