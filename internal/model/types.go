package model

// Sex is the competition category of a climber.
type Sex string

const (
	SexMan   Sex = "MAN"
	SexWoman Sex = "WOMAN"
)

// Valid reports whether s is a known category.
func (s Sex) Valid() bool {
	return s == SexMan || s == SexWoman
}

// Code returns the single-letter code used in climber ids ("M" or "W").
func (s Sex) Code() string {
	switch s {
	case SexMan:
		return "M"
	case SexWoman:
		return "W"
	default:
		return ""
	}
}

// RecordType tells federation-sourced climbers apart from user-entered ones.
type RecordType string

const (
	// RecordOfficial entries come from the federation and are read-only
	// except for profile extras (image, date of birth).
	RecordOfficial RecordType = "OFFICIAL"
	// RecordUnofficial entries are user-entered and fully editable.
	RecordUnofficial RecordType = "UNOFFICIAL"
)

// Valid reports whether t is a known record type.
func (t RecordType) Valid() bool {
	return t == RecordOfficial || t == RecordUnofficial
}

// Record is implemented by every stored record kind.
type Record interface {
	// RecordID returns the identity used for deduplication and lookup.
	RecordID() string
	// ClimberRef returns the climber the record belongs to.
	ClimberRef() string
}

// Climber is an athlete profile.
type Climber struct {
	ClimberID   string     `json:"climberId"` // "<sequence>-<sexCode>", e.g. "42-M"
	Name        string     `json:"name"`
	ImageURL    *string    `json:"imageUrl"`
	Sex         *Sex       `json:"sex"`
	DateOfBirth *string    `json:"dateOfBirth"` // yyyy, yyyy-MM or yyyy-MM-dd
	Country     string     `json:"country"`
	Federation  string     `json:"federation"`
	RecordType  RecordType `json:"recordType"`
}

func (c Climber) RecordID() string   { return c.ClimberID }
func (c Climber) ClimberRef() string { return c.ClimberID }

// RoundResult is the shape shared by lead and boulder results: a
// qualification score followed by optional semi-final and final scores.
type RoundResult struct {
	ID               string  `json:"id"` // "<competitionId>-<climberId>"
	ClimberID        string  `json:"climberId"`
	Date             string  `json:"date"`
	CompetitionID    string  `json:"competitionId"`
	CompetitionTitle string  `json:"competitionTitle"`
	CompetitionCity  string  `json:"competitionCity"`
	Rank             *int    `json:"rank"`
	Qualification    string  `json:"qualification"`
	SemiFinal        *string `json:"semiFinal"`
	Final            *string `json:"final"`
}

// LeadResult is one climber's result in a lead competition.
type LeadResult RoundResult

func (r LeadResult) RecordID() string   { return r.ID }
func (r LeadResult) ClimberRef() string { return r.ClimberID }

// BoulderResult is one climber's result in a boulder competition.
type BoulderResult RoundResult

func (r BoulderResult) RecordID() string   { return r.ID }
func (r BoulderResult) ClimberRef() string { return r.ClimberID }

// SpeedResult is one climber's result in a speed competition. LaneA and
// LaneB are the qualification runs; the rest are elimination heats.
type SpeedResult struct {
	ID               string  `json:"id"`
	ClimberID        string  `json:"climberId"`
	Date             string  `json:"date"`
	CompetitionID    string  `json:"competitionId"`
	CompetitionTitle string  `json:"competitionTitle"`
	CompetitionCity  string  `json:"competitionCity"`
	Rank             *int    `json:"rank"`
	LaneA            *string `json:"laneA"`
	LaneB            *string `json:"laneB"`
	OneEighth        *string `json:"oneEighth"`
	Quarter          *string `json:"quarter"`
	SemiFinal        *string `json:"semiFinal"`
	SmallFinal       *string `json:"smallFinal"` // bronze match; excludes Final
	Final            *string `json:"final"`
}

func (r SpeedResult) RecordID() string   { return r.ID }
func (r SpeedResult) ClimberRef() string { return r.ClimberID }

// Ptr returns a pointer to v. Handy for building optional fields.
func Ptr[T any](v T) *T {
	return &v
}
