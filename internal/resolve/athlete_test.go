package resolve

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ikwf-tools/seedline/internal/model"
)

func rosteredClub(name string, athletes ...model.Athlete) model.Club {
	return model.Club{ClubName: name, Sectional: model.SectionalNorth, Athletes: athletes}
}

func strptr(s string) *string { return &s }

func TestParseAlias(t *testing.T) {
	alias, err := ParseAlias(nil)
	require.NoError(t, err)
	assert.Equal(t, AliasUnresolvable, alias.Kind)

	alias, err = ParseAlias(strptr("doe jane"))
	require.NoError(t, err)
	assert.Equal(t, AliasSameTeam, alias.Kind)
	assert.Equal(t, "doe jane", alias.Name)

	alias, err = ParseAlias(strptr("Vikings|doe jane"))
	require.NoError(t, err)
	assert.Equal(t, AliasRedirect, alias.Kind)
	assert.Equal(t, "Vikings", alias.Team)
	assert.Equal(t, "doe jane", alias.Name)

	for _, bad := range []string{"|doe jane", "Vikings|", "a|b|c"} {
		_, err := ParseAlias(strptr(bad))
		assert.Error(t, err, "value %q", bad)
	}
}

func TestBuildRosterIndexDenylistAndDuplicates(t *testing.T) {
	clubs := []model.Club{
		rosteredClub("Vikings",
			model.Athlete{USAWNumber: "100", Name: "Doe, Jane", IKWFAge: 10},
			model.Athlete{USAWNumber: "200", Name: "Roe, Rick", IKWFAge: 9},
		),
	}

	index, err := BuildRosterIndex(clubs, map[string]struct{}{"200": {}})
	require.NoError(t, err)
	resolver, err := NewAthleteResolver(index, nil)
	require.NoError(t, err)

	got, err := resolver.Resolve("Doe, Jane", "Vikings")
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, "100", got.Athlete.USAWNumber)

	// Denylisted entries are invisible; the miss has no alias and is fatal.
	_, err = resolver.Resolve("Roe, Rick", "Vikings")
	assert.Error(t, err)

	// Two athletes collapsing to the same normalized name is a roster bug.
	_, err = BuildRosterIndex([]model.Club{
		rosteredClub("Vikings",
			model.Athlete{USAWNumber: "100", Name: "Doe, Jane"},
			model.Athlete{USAWNumber: "300", Name: "doe   jane"},
		),
	}, nil)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "doe jane")
}

func TestResolveAthleteExactHit(t *testing.T) {
	index, err := BuildRosterIndex([]model.Club{
		rosteredClub("Vikings", model.Athlete{USAWNumber: "100", Name: "Peña, José", IKWFAge: 11}),
	}, nil)
	require.NoError(t, err)
	resolver, err := NewAthleteResolver(index, nil)
	require.NoError(t, err)

	got, err := resolver.Resolve("Pena Jose", "Vikings")
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, "100", got.Athlete.USAWNumber)
	assert.Equal(t, "pena jose", got.NormalizedName)
}

func TestResolveAthleteUnknownClubIsTolerated(t *testing.T) {
	index, err := BuildRosterIndex(nil, nil)
	require.NoError(t, err)
	resolver, err := NewAthleteResolver(index, nil)
	require.NoError(t, err)

	got, err := resolver.Resolve("Doe, Jane", "Out Of State Team")
	require.NoError(t, err)
	assert.Nil(t, got)
}

func TestResolveAthleteMissWithoutAliasIsFatal(t *testing.T) {
	index, err := BuildRosterIndex([]model.Club{
		rosteredClub("Vikings", model.Athlete{USAWNumber: "100", Name: "Doe, Jane"}),
	}, nil)
	require.NoError(t, err)
	resolver, err := NewAthleteResolver(index, nil)
	require.NoError(t, err)

	_, err = resolver.Resolve("Smith, Alex", "Vikings")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "smith alex")
	assert.Contains(t, err.Error(), "Vikings")
}

func TestResolveAthleteAliases(t *testing.T) {
	index, err := BuildRosterIndex([]model.Club{
		rosteredClub("Vikings", model.Athlete{USAWNumber: "100", Name: "Doe, Jane", IKWFAge: 10}),
		rosteredClub("Storm", model.Athlete{USAWNumber: "500", Name: "Smith, Alex", IKWFAge: 12}),
	}, nil)
	require.NoError(t, err)

	resolver, err := NewAthleteResolver(index, AliasTable{
		"Vikings": {
			"doee jane":  {Kind: AliasSameTeam, Name: "doe jane"},
			"smith alex": {Kind: AliasRedirect, Team: "Storm", Name: "smith alex"},
			"ghost name": {Kind: AliasUnresolvable},
		},
	})
	require.NoError(t, err)

	got, err := resolver.Resolve("Doee, Jane", "Vikings")
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, "100", got.Athlete.USAWNumber)
	assert.Equal(t, "doe jane", got.NormalizedName)

	got, err = resolver.Resolve("Smith, Alex", "Vikings")
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, "500", got.Athlete.USAWNumber)

	got, err = resolver.Resolve("Ghost Name", "Vikings")
	require.NoError(t, err)
	assert.Nil(t, got)
}

func TestNewAthleteResolverValidatesRedirects(t *testing.T) {
	index, err := BuildRosterIndex([]model.Club{
		rosteredClub("Vikings", model.Athlete{USAWNumber: "100", Name: "Doe, Jane"}),
	}, nil)
	require.NoError(t, err)

	_, err = NewAthleteResolver(index, AliasTable{
		"Vikings": {"x y": {Kind: AliasRedirect, Team: "Nowhere", Name: "doe jane"}},
	})
	assert.Error(t, err)

	_, err = NewAthleteResolver(index, AliasTable{
		"Vikings": {"x y": {Kind: AliasRedirect, Team: "Vikings", Name: "not rostered"}},
	})
	assert.Error(t, err)
}

func TestResolveAthleteSameTeamAliasToMissingNameIsFatal(t *testing.T) {
	index, err := BuildRosterIndex([]model.Club{
		rosteredClub("Vikings", model.Athlete{USAWNumber: "100", Name: "Doe, Jane"}),
	}, nil)
	require.NoError(t, err)
	resolver, err := NewAthleteResolver(index, AliasTable{
		"Vikings": {"x y": {Kind: AliasSameTeam, Name: "not rostered"}},
	})
	require.NoError(t, err)

	_, err = resolver.Resolve("X Y", "Vikings")
	assert.Error(t, err)
}
