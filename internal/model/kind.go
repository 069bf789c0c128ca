package model

import "fmt"

// Kind identifies one of the four record collections.
type Kind string

const (
	KindClimber Kind = "climber"
	KindLead    Kind = "lead"
	KindSpeed   Kind = "speed"
	KindBoulder Kind = "boulder"
)

// Kinds lists every record kind in export order.
var Kinds = []Kind{KindClimber, KindLead, KindSpeed, KindBoulder}

// FileName returns the conventional snapshot file name for the kind.
func (k Kind) FileName() string {
	switch k {
	case KindClimber:
		return "climbers.csv"
	case KindLead:
		return "leads.csv"
	case KindSpeed:
		return "speeds.csv"
	case KindBoulder:
		return "boulders.csv"
	default:
		return ""
	}
}

// ParseKind converts a user-supplied name into a Kind.
func ParseKind(s string) (Kind, error) {
	for _, k := range Kinds {
		if string(k) == s {
			return k, nil
		}
	}
	return "", fmt.Errorf("unknown record kind %q: must be one of %v", s, Kinds)
}
