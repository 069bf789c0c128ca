package model

import (
	"strconv"
	"strings"
)

// OutcomeKind discriminates the variants of Outcome.
type OutcomeKind int

const (
	OutcomeAbsent     OutcomeKind = iota // no value recorded
	OutcomeNumeric                       // a time or score
	OutcomeNonNumeric                    // a sentinel such as "fall" or "DNS"
)

func (k OutcomeKind) String() string {
	switch k {
	case OutcomeNumeric:
		return "numeric"
	case OutcomeNonNumeric:
		return "non-numeric"
	default:
		return "absent"
	}
}

// Outcome is the parsed form of a time or score field.
//
// Raw always holds the stored string so that converting back never changes
// the persisted representation ("7.10" stays "7.10").
type Outcome struct {
	Kind  OutcomeKind
	Raw   string
	Value float64 // set only for OutcomeNumeric
}

// ParseOutcome classifies an optional time or score field. A value that does
// not parse as a number is a non-numeric outcome, not an error.
func ParseOutcome(v *string) Outcome {
	if v == nil {
		return Outcome{Kind: OutcomeAbsent}
	}
	f, err := strconv.ParseFloat(strings.TrimSpace(*v), 64)
	if err != nil {
		return Outcome{Kind: OutcomeNonNumeric, Raw: *v}
	}
	return Outcome{Kind: OutcomeNumeric, Raw: *v, Value: f}
}

// Present reports whether a value was recorded.
func (o Outcome) Present() bool {
	return o.Kind != OutcomeAbsent
}

func (o Outcome) String() string {
	if o.Kind == OutcomeAbsent {
		return "-"
	}
	return o.Raw
}

// Stage is a named, parsed result field.
type Stage struct {
	Name    string
	Outcome Outcome
}

// Stages returns the qualification, semi-final and final scores in order.
func (r RoundResult) Stages() []Stage {
	q := r.Qualification
	return []Stage{
		{Name: "qualification", Outcome: ParseOutcome(&q)},
		{Name: "semiFinal", Outcome: ParseOutcome(r.SemiFinal)},
		{Name: "final", Outcome: ParseOutcome(r.Final)},
	}
}

// Stages returns the qualification lanes followed by the elimination heats.
func (r SpeedResult) Stages() []Stage {
	return []Stage{
		{Name: "laneA", Outcome: ParseOutcome(r.LaneA)},
		{Name: "laneB", Outcome: ParseOutcome(r.LaneB)},
		{Name: "oneEighth", Outcome: ParseOutcome(r.OneEighth)},
		{Name: "quarter", Outcome: ParseOutcome(r.Quarter)},
		{Name: "semiFinal", Outcome: ParseOutcome(r.SemiFinal)},
		{Name: "smallFinal", Outcome: ParseOutcome(r.SmallFinal)},
		{Name: "final", Outcome: ParseOutcome(r.Final)},
	}
}
