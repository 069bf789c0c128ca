// Package schema validates records against the constraints producers must
// honour before handing records to the store: delimiter-free field values,
// identity formats, partial dates and stage progression.
//
// The constraints live in an embedded CUE schema (schema.cue).
package schema

import (
	_ "embed"
	"fmt"
	"strings"
	"sync"

	"cuelang.org/go/cue"
	"cuelang.org/go/cue/cuecontext"
	"cuelang.org/go/cue/errors"

	"github.com/roach88/ascent/internal/model"
)

//go:embed schema.cue
var schemaCUE string

var definitions = map[model.Kind]string{
	model.KindClimber: "#Climber",
	model.KindLead:    "#Round",
	model.KindBoulder: "#Round",
	model.KindSpeed:   "#Speed",
}

// Problem is one violated constraint.
type Problem struct {
	Path    string `json:"path"`
	Message string `json:"message"`
}

// ValidationError lists every problem found in one record.
type ValidationError struct {
	Kind     model.Kind `json:"kind"`
	ID       string     `json:"id"`
	Problems []Problem  `json:"problems"`
}

func (e *ValidationError) Error() string {
	msgs := make([]string, len(e.Problems))
	for i, p := range e.Problems {
		if p.Path != "" {
			msgs[i] = p.Path + ": " + p.Message
		} else {
			msgs[i] = p.Message
		}
	}
	return fmt.Sprintf("invalid %s %q: %s", e.Kind, e.ID, strings.Join(msgs, "; "))
}

// Validator checks records against the embedded schema.
//
// Thread-safety: Validate is safe for concurrent use; calls are serialized
// because a cue.Context is not.
type Validator struct {
	mu   sync.Mutex
	ctx  *cue.Context
	defs map[model.Kind]cue.Value
}

// New compiles the embedded schema.
func New() (*Validator, error) {
	ctx := cuecontext.New()
	root := ctx.CompileString(schemaCUE, cue.Filename("schema.cue"))
	if err := root.Err(); err != nil {
		return nil, fmt.Errorf("compile schema: %w", err)
	}

	defs := make(map[model.Kind]cue.Value, len(definitions))
	for kind, name := range definitions {
		def := root.LookupPath(cue.ParsePath(name))
		if !def.Exists() {
			return nil, fmt.Errorf("compile schema: definition %s not found", name)
		}
		defs[kind] = def
	}

	return &Validator{ctx: ctx, defs: defs}, nil
}

// Validate returns nil when rec satisfies its kind's constraints, or a
// *ValidationError describing every violation.
func (v *Validator) Validate(rec model.Record) error {
	kind, err := kindOf(rec)
	if err != nil {
		return err
	}

	v.mu.Lock()
	defer v.mu.Unlock()

	val := v.ctx.Encode(rec)
	if err := val.Err(); err != nil {
		return fmt.Errorf("encode %s %q: %w", kind, rec.RecordID(), err)
	}

	var probs []Problem
	unified := v.defs[kind].Unify(val)
	if err := unified.Validate(cue.Concrete(true)); err != nil {
		probs = problems(err)
	}
	probs = append(probs, identityProblems(rec)...)
	if len(probs) > 0 {
		return &ValidationError{
			Kind:     kind,
			ID:       rec.RecordID(),
			Problems: probs,
		}
	}
	return nil
}

// identityProblems checks that a result id is "<competitionId>-<climberId>".
// Empty fields are left to the schema.
func identityProblems(rec model.Record) []Problem {
	var id, competitionID string
	switch r := rec.(type) {
	case model.LeadResult:
		id, competitionID = r.ID, r.CompetitionID
	case model.BoulderResult:
		id, competitionID = r.ID, r.CompetitionID
	case model.SpeedResult:
		id, competitionID = r.ID, r.CompetitionID
	default:
		return nil
	}
	climberID := rec.ClimberRef()
	if id == "" || competitionID == "" || climberID == "" {
		return nil
	}
	if want := model.ResultID(competitionID, climberID); id != want {
		return []Problem{{Path: "id", Message: fmt.Sprintf("must be %q (competitionId-climberId)", want)}}
	}
	return nil
}

// ValidateAll validates every record and returns the failures in input
// order. The returned error is only set when validation itself could not run.
func ValidateAll[T model.Record](v *Validator, recs []T) ([]*ValidationError, error) {
	var failures []*ValidationError
	for _, rec := range recs {
		err := v.Validate(rec)
		if err == nil {
			continue
		}
		verr, ok := err.(*ValidationError)
		if !ok {
			return nil, err
		}
		failures = append(failures, verr)
	}
	return failures, nil
}

func kindOf(rec model.Record) (model.Kind, error) {
	switch rec.(type) {
	case model.Climber:
		return model.KindClimber, nil
	case model.LeadResult:
		return model.KindLead, nil
	case model.BoulderResult:
		return model.KindBoulder, nil
	case model.SpeedResult:
		return model.KindSpeed, nil
	default:
		return "", fmt.Errorf("validate: unsupported record type %T", rec)
	}
}

// problems flattens a CUE error list, dropping duplicate messages.
func problems(err error) []Problem {
	var out []Problem
	seen := make(map[string]bool)
	for _, e := range errors.Errors(err) {
		path := strings.Join(e.Path(), ".")
		format, args := e.Msg()
		msg := fmt.Sprintf(format, args...)
		key := path + "\x00" + msg
		if seen[key] {
			continue
		}
		seen[key] = true
		out = append(out, Problem{Path: path, Message: msg})
	}
	if len(out) == 0 {
		out = append(out, Problem{Message: err.Error()})
	}
	return out
}
