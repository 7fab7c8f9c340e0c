package pipeline

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ikwf-tools/seedline/internal/classify"
	"github.com/ikwf-tools/seedline/internal/model"
	"github.com/ikwf-tools/seedline/internal/resolve"
)

func fptr(v float64) *float64 { return &v }

func testClubs() []model.Club {
	return []model.Club{
		{
			ClubName:  "Example WC",
			Sectional: model.SectionalCentral,
			Athletes: []model.Athlete{
				{USAWNumber: "123", Name: "Doe, Jane", IKWFAge: 10},
			},
		},
		{
			ClubName:  "Vikings",
			Sectional: model.SectionalNorth,
			Athletes: []model.Athlete{
				{USAWNumber: "456", Name: "Roe, Rick", IKWFAge: 9},
			},
		},
	}
}

func testTeamResolver(t *testing.T) *resolve.TeamResolver {
	t.Helper()
	index, err := resolve.BuildClubIndex(testClubs())
	require.NoError(t, err)
	teams, err := resolve.NewTeamResolver(index, resolve.TeamTables{})
	require.NoError(t, err)
	return teams
}

func testDivisionClassifier(t *testing.T) *classify.DivisionClassifier {
	t.Helper()
	c, err := classify.NewDivisionClassifier([]classify.Rule{
		{Contains: "intermediate", Value: "intermediate"},
		{Regex: `^\d+[A-Z]?$`, Value: classify.DivisionUnknown},
	})
	require.NoError(t, err)
	return c
}

func rawMatch() model.MatchV1 {
	return model.MatchV1{
		EventName:  "Winter Open",
		EventDate:  model.NewDate(2026, time.January, 10),
		Bracket:    "Intermediate 55",
		Round:      "Championship",
		Winner:     "doe, jane",
		WinnerTeam: "Example Wrestling Club",
		Loser:      "Roe, Rick",
		LoserTeam:  "Vikings Youth",
		Result:     "Dec 5-2",
		ResultType: model.ResultDecision,
		Source:     model.SourceTrackWrestling,
	}
}

func TestResolveTeams(t *testing.T) {
	resolved, err := ResolveTeams([]model.MatchV1{rawMatch()}, testTeamResolver(t), testDivisionClassifier(t))
	require.NoError(t, err)
	require.Len(t, resolved, 1)

	// "Example Wrestling Club" reaches the roster's "Example WC" through the
	// suffix synonym; "Vikings Youth" matches by embedded club key.
	assert.Equal(t, "Example WC", resolved[0].WinnerTeamNormalized)
	assert.Equal(t, "Vikings", resolved[0].LoserTeamNormalized)

	// Division was backfilled from the bracket label.
	require.NotNil(t, resolved[0].Division)
	assert.Equal(t, model.DivisionIntermediate, *resolved[0].Division)

	// Raw fields pass through untouched.
	assert.Equal(t, "Example Wrestling Club", resolved[0].WinnerTeam)
	assert.Equal(t, "Winter Open", resolved[0].EventName)
}

func TestResolveTeamsKeepsUnknownDivisionNil(t *testing.T) {
	match := rawMatch()
	match.Bracket = "112A"

	resolved, err := ResolveTeams([]model.MatchV1{match}, testTeamResolver(t), testDivisionClassifier(t))
	require.NoError(t, err)
	assert.Nil(t, resolved[0].Division)
}

func TestResolveTeamsUnresolvedIsFatal(t *testing.T) {
	match := rawMatch()
	match.LoserTeam = "Completely Unknown Team"

	_, err := ResolveTeams([]model.MatchV1{match}, testTeamResolver(t), testDivisionClassifier(t))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "Completely Unknown Team")
}

func resolveThroughV3(t *testing.T, raw model.MatchV1) model.MatchV3 {
	t.Helper()
	v2, err := ResolveTeams([]model.MatchV1{raw}, testTeamResolver(t), testDivisionClassifier(t))
	require.NoError(t, err)

	rosters, err := resolve.BuildRosterIndex(testClubs(), nil)
	require.NoError(t, err)
	athletes, err := resolve.NewAthleteResolver(rosters, nil)
	require.NoError(t, err)

	v3, err := ResolveAthletes(v2, athletes)
	require.NoError(t, err)
	require.Len(t, v3, 1)
	return v3[0]
}

func TestResolveAthletes(t *testing.T) {
	match := resolveThroughV3(t, rawMatch())

	require.NotNil(t, match.WinnerUSAWNumber)
	assert.Equal(t, "123", *match.WinnerUSAWNumber)
	require.NotNil(t, match.WinnerNormalized)
	assert.Equal(t, "doe jane", *match.WinnerNormalized)
	require.NotNil(t, match.WinnerIKWFAge)
	assert.Equal(t, 10, *match.WinnerIKWFAge)

	require.NotNil(t, match.LoserUSAWNumber)
	assert.Equal(t, "456", *match.LoserUSAWNumber)
}

func TestResolveAthletesUnattachedStaysNil(t *testing.T) {
	raw := rawMatch()
	raw.LoserTeam = ""

	match := resolveThroughV3(t, raw)
	assert.Nil(t, match.LoserUSAWNumber)
	assert.Nil(t, match.LoserNormalized)
	assert.Nil(t, match.LoserIKWFAge)
	require.NotNil(t, match.WinnerUSAWNumber)
}

func TestAttachWeights(t *testing.T) {
	match := resolveThroughV3(t, rawMatch())

	events := []EventWeighIns{
		{
			Event: "Winter Open",
			Records: []model.AthleteWeight{
				{Name: "Doe, Jane", Group: "Intermediate 55", Team: "Example Wrestling Club", Weight: fptr(52.4)},
				{Name: "Someone, Else", Group: "Intermediate 55", Team: "Vikings", Weight: fptr(54.0)},
			},
		},
	}

	enriched, err := AttachWeights([]model.MatchV3{match}, events, nil, testTeamResolver(t))
	require.NoError(t, err)
	require.Len(t, enriched, 1)

	require.NotNil(t, enriched[0].WinnerWeight)
	assert.Equal(t, 52.4, *enriched[0].WinnerWeight)
	// The loser weighed in nowhere; the field stays null.
	assert.Nil(t, enriched[0].LoserWeight)

	// V1 fields survive the whole chain.
	assert.Equal(t, "Dec 5-2", enriched[0].Result)
	assert.Equal(t, model.SourceTrackWrestling, enriched[0].Source)
}

func TestAttachWeightsConflictNeedsIgnore(t *testing.T) {
	match := resolveThroughV3(t, rawMatch())

	events := []EventWeighIns{
		{
			Event: "Winter Open",
			Records: []model.AthleteWeight{
				{Name: "Doe, Jane", Group: "Intermediate 55", Team: "Example WC", Weight: fptr(52.4)},
				{Name: "Doe, Jane", Group: "Intermediate 62", Team: "Example WC", Weight: fptr(60.0)},
			},
		},
	}

	_, err := AttachWeights([]model.MatchV3{match}, events, nil, testTeamResolver(t))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "add an ignore entry")

	ignores := []WeighInIgnore{
		{Event: "Winter Open", Name: "Doe, Jane", Group: "Intermediate 62", Team: "Example WC"},
	}
	enriched, err := AttachWeights([]model.MatchV3{match}, events, ignores, testTeamResolver(t))
	require.NoError(t, err)
	require.NotNil(t, enriched[0].WinnerWeight)
	assert.Equal(t, 52.4, *enriched[0].WinnerWeight)
}

func TestAttachWeightsNoEventData(t *testing.T) {
	match := resolveThroughV3(t, rawMatch())

	enriched, err := AttachWeights([]model.MatchV3{match}, nil, nil, testTeamResolver(t))
	require.NoError(t, err)
	assert.Nil(t, enriched[0].WinnerWeight)
	assert.Nil(t, enriched[0].LoserWeight)
}
