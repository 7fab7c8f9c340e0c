package model

import (
	"time"

	"github.com/rotisserie/eris"
)

// Source names the bracketing site (and format) a match record was scraped
// from.
type Source string

const (
	SourceTrackWrestling      Source = "trackwrestling"
	SourceTrackWrestlingDuals Source = "trackwrestling_duals"
	SourceUSABracketing       Source = "usabracketing"
	SourceUSABracketingDuals  Source = "usabracketing_duals"
)

// Valid reports whether s is a known source.
func (s Source) Valid() bool {
	switch s {
	case SourceTrackWrestling, SourceTrackWrestlingDuals, SourceUSABracketing, SourceUSABracketingDuals:
		return true
	}
	return false
}

// ResultType classifies how a bout ended.
type ResultType string

const (
	ResultDecision ResultType = "decision"
	ResultMajor    ResultType = "major"
	ResultTech     ResultType = "tech"
	ResultPin      ResultType = "pin"
	ResultOvertime ResultType = "overtime"
)

// Date is a calendar date carried on match records. It marshals as
// YYYY-MM-DD in CSV columns.
type Date struct {
	time.Time
}

const dateLayout = "2006-01-02"

// NewDate builds a Date from year, month, day.
func NewDate(year int, month time.Month, day int) Date {
	return Date{Time: time.Date(year, month, day, 0, 0, 0, 0, time.UTC)}
}

// MarshalText implements encoding.TextMarshaler.
func (d Date) MarshalText() ([]byte, error) {
	return []byte(d.Format(dateLayout)), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (d *Date) UnmarshalText(text []byte) error {
	parsed, err := time.Parse(dateLayout, string(text))
	if err != nil {
		return eris.Wrapf(err, "model: parse date %q", string(text))
	}
	d.Time = parsed
	return nil
}

// MatchV1 is a raw match record as produced by the HTML extraction
// collaborator. Division is nil when it could not be inferred from the
// bracket text at extraction time.
type MatchV1 struct {
	EventName  string     `csv:"Event Name"`
	EventDate  Date       `csv:"Event Date"`
	Bracket    string     `csv:"Bracket"`
	Round      string     `csv:"Round"`
	Division   *Division  `csv:"Division"`
	Winner     string     `csv:"Winner"`
	WinnerTeam string     `csv:"Winner Team"`
	Loser      string     `csv:"Loser"`
	LoserTeam  string     `csv:"Loser Team"`
	Result     string     `csv:"Result"`
	ResultType ResultType `csv:"Result Type"`
	Source     Source     `csv:"Source"`
}

// MatchV2 adds resolved canonical team names. An empty normalized team means
// the athlete competed unattached.
type MatchV2 struct {
	MatchV1
	WinnerTeamNormalized string `csv:"Winner Team (normalized)"`
	LoserTeamNormalized  string `csv:"Loser Team (normalized)"`
}

// MatchV3 adds resolved athlete identity. All six fields are nil when the
// corresponding athlete could not be linked to a roster entry; the match is
// retained either way.
type MatchV3 struct {
	MatchV2
	WinnerNormalized *string `csv:"Winner (normalized)"`
	WinnerUSAWNumber *string `csv:"Winner USAW Number"`
	WinnerIKWFAge    *int    `csv:"Winner IKWF Age"`
	LoserNormalized  *string `csv:"Loser (normalized)"`
	LoserUSAWNumber  *string `csv:"Loser USAW Number"`
	LoserIKWFAge     *int    `csv:"Loser IKWF Age"`
}

// MatchV4 adds the measured weigh-in weight for each side at this event, when
// one was recorded.
type MatchV4 struct {
	MatchV3
	WinnerWeight *float64 `csv:"Winner weight"`
	LoserWeight  *float64 `csv:"Loser weight"`
}
