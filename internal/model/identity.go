package model

import (
	"fmt"
	"strconv"
	"strings"
)

// NewClimberID builds a climber identity from a sequence number and sex.
func NewClimberID(seq int, sex Sex) (string, error) {
	code := sex.Code()
	if code == "" {
		return "", fmt.Errorf("climber id: unknown sex %q", sex)
	}
	if seq < 1 {
		return "", fmt.Errorf("climber id: sequence must be positive, got %d", seq)
	}
	return fmt.Sprintf("%d-%s", seq, code), nil
}

// ParseClimberID splits a climber identity into its sequence and sex code.
func ParseClimberID(id string) (seq int, code string, err error) {
	head, tail, ok := strings.Cut(id, "-")
	if !ok || tail == "" {
		return 0, "", fmt.Errorf("climber id %q: want <sequence>-<sexCode>", id)
	}
	seq, err = strconv.Atoi(head)
	if err != nil || seq < 1 {
		return 0, "", fmt.Errorf("climber id %q: invalid sequence", id)
	}
	return seq, tail, nil
}

// ResultID builds the identity of a result row from its competition and
// climber.
func ResultID(competitionID, climberID string) string {
	return competitionID + "-" + climberID
}
