package codec

import (
	"fmt"

	"github.com/roach88/ascent/internal/model"
)

// Climbers encodes climber profiles.
var Climbers = Codec[model.Climber]{
	Kind: model.KindClimber,
	Columns: []string{
		"climberId", "name", "imageUrl", "sex", "dateOfBirth",
		"country", "federation", "recordType",
	},
	encode: func(w *rowWriter, c model.Climber) {
		w.str("climberId", c.ClimberID)
		w.str("name", c.Name)
		w.opt("imageUrl", c.ImageURL)
		if c.Sex != nil && !c.Sex.Valid() {
			w.fail(fmt.Errorf("%w: field sex: unknown value %q", ErrUnencodable, *c.Sex))
		}
		w.opt("sex", (*string)(c.Sex))
		w.opt("dateOfBirth", c.DateOfBirth)
		w.str("country", c.Country)
		w.str("federation", c.Federation)
		if !c.RecordType.Valid() {
			w.fail(fmt.Errorf("%w: field recordType: unknown value %q", ErrUnencodable, c.RecordType))
		}
		w.str("recordType", string(c.RecordType))
	},
	decode: func(r *rowReader) model.Climber {
		c := model.Climber{
			ClimberID:   r.str("climberId"),
			Name:        r.str("name"),
			ImageURL:    r.opt("imageUrl"),
			Sex:         (*model.Sex)(r.opt("sex")),
			DateOfBirth: r.opt("dateOfBirth"),
			Country:     r.str("country"),
			Federation:  r.str("federation"),
			RecordType:  model.RecordType(r.str("recordType")),
		}
		if c.Sex != nil && !c.Sex.Valid() {
			r.fail(fmt.Errorf("field sex: unknown value %q", *c.Sex))
		}
		if r.err == nil && !c.RecordType.Valid() {
			r.fail(fmt.Errorf("field recordType: unknown value %q", c.RecordType))
		}
		return c
	},
}

var roundColumns = []string{
	"id", "climberId", "date", "competitionId", "competitionTitle",
	"competitionCity", "rank", "qualification", "semiFinal", "final",
}

func encodeRound(w *rowWriter, r model.RoundResult) {
	w.str("id", r.ID)
	w.str("climberId", r.ClimberID)
	w.str("date", r.Date)
	w.str("competitionId", r.CompetitionID)
	w.str("competitionTitle", r.CompetitionTitle)
	w.str("competitionCity", r.CompetitionCity)
	w.integer("rank", r.Rank)
	w.str("qualification", r.Qualification)
	w.opt("semiFinal", r.SemiFinal)
	w.opt("final", r.Final)
}

func decodeRound(r *rowReader) model.RoundResult {
	return model.RoundResult{
		ID:               r.str("id"),
		ClimberID:        r.str("climberId"),
		Date:             r.str("date"),
		CompetitionID:    r.str("competitionId"),
		CompetitionTitle: r.str("competitionTitle"),
		CompetitionCity:  r.str("competitionCity"),
		Rank:             r.integer("rank"),
		Qualification:    r.str("qualification"),
		SemiFinal:        r.opt("semiFinal"),
		Final:            r.opt("final"),
	}
}

// Leads encodes lead results.
var Leads = Codec[model.LeadResult]{
	Kind:    model.KindLead,
	Columns: roundColumns,
	encode: func(w *rowWriter, r model.LeadResult) {
		encodeRound(w, model.RoundResult(r))
	},
	decode: func(r *rowReader) model.LeadResult {
		return model.LeadResult(decodeRound(r))
	},
}

// Boulders encodes boulder results.
var Boulders = Codec[model.BoulderResult]{
	Kind:    model.KindBoulder,
	Columns: roundColumns,
	encode: func(w *rowWriter, r model.BoulderResult) {
		encodeRound(w, model.RoundResult(r))
	},
	decode: func(r *rowReader) model.BoulderResult {
		return model.BoulderResult(decodeRound(r))
	},
}

// Speeds encodes speed results.
var Speeds = Codec[model.SpeedResult]{
	Kind: model.KindSpeed,
	Columns: []string{
		"id", "climberId", "date", "competitionId", "competitionTitle",
		"competitionCity", "rank", "laneA", "laneB", "oneEighth",
		"quarter", "semiFinal", "smallFinal", "final",
	},
	encode: func(w *rowWriter, r model.SpeedResult) {
		w.str("id", r.ID)
		w.str("climberId", r.ClimberID)
		w.str("date", r.Date)
		w.str("competitionId", r.CompetitionID)
		w.str("competitionTitle", r.CompetitionTitle)
		w.str("competitionCity", r.CompetitionCity)
		w.integer("rank", r.Rank)
		w.opt("laneA", r.LaneA)
		w.opt("laneB", r.LaneB)
		w.opt("oneEighth", r.OneEighth)
		w.opt("quarter", r.Quarter)
		w.opt("semiFinal", r.SemiFinal)
		w.opt("smallFinal", r.SmallFinal)
		w.opt("final", r.Final)
	},
	decode: func(r *rowReader) model.SpeedResult {
		return model.SpeedResult{
			ID:               r.str("id"),
			ClimberID:        r.str("climberId"),
			Date:             r.str("date"),
			CompetitionID:    r.str("competitionId"),
			CompetitionTitle: r.str("competitionTitle"),
			CompetitionCity:  r.str("competitionCity"),
			Rank:             r.integer("rank"),
			LaneA:            r.opt("laneA"),
			LaneB:            r.opt("laneB"),
			OneEighth:        r.opt("oneEighth"),
			Quarter:          r.opt("quarter"),
			SemiFinal:        r.opt("semiFinal"),
			SmallFinal:       r.opt("smallFinal"),
			Final:            r.opt("final"),
		}
	},
}

// WriteClimbers writes a climber snapshot to dir/filename and returns the
// absolute path written.
func WriteClimbers(recs []model.Climber, dir, filename string) (string, error) {
	return Climbers.WriteFile(recs, dir, filename)
}

// ReadClimbers parses a climber snapshot.
func ReadClimbers(path string) ([]model.Climber, error) {
	return Climbers.ReadFile(path)
}

// WriteLeads writes a lead result snapshot to dir/filename.
func WriteLeads(recs []model.LeadResult, dir, filename string) (string, error) {
	return Leads.WriteFile(recs, dir, filename)
}

// ReadLeads parses a lead result snapshot.
func ReadLeads(path string) ([]model.LeadResult, error) {
	return Leads.ReadFile(path)
}

// WriteSpeeds writes a speed result snapshot to dir/filename.
func WriteSpeeds(recs []model.SpeedResult, dir, filename string) (string, error) {
	return Speeds.WriteFile(recs, dir, filename)
}

// ReadSpeeds parses a speed result snapshot.
func ReadSpeeds(path string) ([]model.SpeedResult, error) {
	return Speeds.ReadFile(path)
}

// WriteBoulders writes a boulder result snapshot to dir/filename.
func WriteBoulders(recs []model.BoulderResult, dir, filename string) (string, error) {
	return Boulders.WriteFile(recs, dir, filename)
}

// ReadBoulders parses a boulder result snapshot.
func ReadBoulders(path string) ([]model.BoulderResult, error) {
	return Boulders.ReadFile(path)
}
