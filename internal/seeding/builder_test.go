package seeding

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ikwf-tools/seedline/internal/model"
	"github.com/ikwf-tools/seedline/internal/project"
)

func fptr(v float64) *float64 { return &v }

func testProjector(t *testing.T) *project.Projector {
	t.Helper()
	ladders := make(model.Ladders, len(model.AllDivisions))
	for _, division := range model.AllDivisions {
		ladders[division] = model.WeightLadder{45, 50, 55, 62, 70, 85, 110}
	}
	p, err := project.NewProjector(ladders, project.DefaultParams())
	require.NoError(t, err)
	return p
}

func TestMapByTeam(t *testing.T) {
	teamNames := map[string]struct{}{"Vikings": {}, "Storm": {}}

	match := bout("Winter Open", 5, "1", "2")
	match.WinnerTeamNormalized = "Vikings"
	match.LoserTeamNormalized = "Storm"

	unrostered := bout("Winter Open", 5, "9", "1")
	unrostered.WinnerTeamNormalized = "Out Of State"
	unrostered.LoserTeamNormalized = "Vikings"

	unresolved := bout("Winter Open", 5, "", "2")
	unresolved.WinnerTeamNormalized = "Vikings"
	unresolved.LoserTeamNormalized = "Storm"

	grouped := MapByTeam([]model.MatchV4{match, unrostered, unresolved}, teamNames)

	require.Contains(t, grouped, "Vikings")
	require.Contains(t, grouped, "Storm")
	assert.NotContains(t, grouped, "Out Of State")

	// Athlete 1 appears as winner of the first match and loser of the second.
	assert.Len(t, grouped["Vikings"]["1"], 2)
	// Athlete 2 loses twice but the unresolved winner contributes nothing.
	assert.Len(t, grouped["Storm"]["2"], 2)
}

func TestBuildWeightClasses(t *testing.T) {
	division := model.DivisionIntermediate
	clubs := []model.Club{
		{
			ClubName:  "Vikings",
			Sectional: model.SectionalNorth,
			Athletes: []model.Athlete{
				{USAWNumber: "1", Name: "Doe, Jane", IKWFAge: 10},
				{USAWNumber: "3", Name: "NoMatches, Ned", IKWFAge: 10},
			},
		},
		{
			ClubName:  "Storm",
			Sectional: model.SectionalSouth,
			Athletes: []model.Athlete{
				{USAWNumber: "2", Name: "Roe, Rick", IKWFAge: 10},
			},
		},
	}

	match := bout("Winter Open", 5, "1", "2")
	match.Division = &division
	match.WinnerTeamNormalized = "Vikings"
	match.LoserTeamNormalized = "Storm"
	match.WinnerWeight = fptr(48)
	match.LoserWeight = fptr(53)

	classes, err := BuildWeightClasses(clubs, []model.MatchV4{match}, testProjector(t))
	require.NoError(t, err)
	require.Len(t, classes, 2)

	assert.Equal(t, model.WeightClassKey{Division: division, Weight: 50}, classes[0].Key)
	assert.Equal(t, model.WeightClassKey{Division: division, Weight: 55}, classes[1].Key)
	assert.Equal(t, 1, classes[0].Size())
	assert.Equal(t, 1, classes[1].Size())

	winner := classes[0].Seeded()[0]
	assert.Equal(t, "1", winner.Athlete.USAWNumber)
	assert.Equal(t, 1, winner.Wins)
	assert.Equal(t, 0, winner.Losses)
	require.NotNil(t, winner.Projection)
	assert.Equal(t, 48.0, winner.Projection.ProjectedWeight)
}

func TestBuildWeightClassesSkipsUnplaceable(t *testing.T) {
	clubs := []model.Club{
		{
			ClubName:  "Vikings",
			Sectional: model.SectionalNorth,
			Athletes: []model.Athlete{
				// Too old for projection; matches still exist.
				{USAWNumber: "1", Name: "Older, Otto", IKWFAge: 16},
			},
		},
	}

	match := bout("Winter Open", 5, "1", "2")
	match.WinnerTeamNormalized = "Vikings"
	match.WinnerWeight = fptr(60)

	classes, err := BuildWeightClasses(clubs, []model.MatchV4{match}, testProjector(t))
	require.NoError(t, err)
	assert.Empty(t, classes)
}
