package model

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDateTextRoundTrip(t *testing.T) {
	date := NewDate(2026, time.January, 10)

	text, err := date.MarshalText()
	require.NoError(t, err)
	assert.Equal(t, "2026-01-10", string(text))

	var parsed Date
	require.NoError(t, parsed.UnmarshalText(text))
	assert.True(t, parsed.Equal(date.Time))

	var bad Date
	err = bad.UnmarshalText([]byte("01/10/2026"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "01/10/2026")
}

func TestSourceValid(t *testing.T) {
	for _, source := range []Source{
		SourceTrackWrestling, SourceTrackWrestlingDuals,
		SourceUSABracketing, SourceUSABracketingDuals,
	} {
		assert.True(t, source.Valid(), string(source))
	}
	assert.False(t, Source("floportal").Valid())
	assert.False(t, Source("").Valid())
}

func TestClubValidate(t *testing.T) {
	valid := Club{
		ClubName:  "Vikings",
		Sectional: SectionalWestChicago,
		Athletes: []Athlete{
			{USAWNumber: "100", Name: "Doe, Jane", IKWFAge: 10},
			{USAWNumber: "200", Name: "Roe, Rick", IKWFAge: 9},
		},
	}
	require.NoError(t, valid.Validate())

	badSectional := valid
	badSectional.Sectional = "East"
	assert.Error(t, badSectional.Validate())

	duplicate := valid
	duplicate.Athletes = []Athlete{
		{USAWNumber: "100", Name: "Doe, Jane"},
		{USAWNumber: "100", Name: "Doe, Janet"},
	}
	err := duplicate.Validate()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "100")
}
