package store

import (
	"database/sql"

	"github.com/roach88/ascent/internal/model"
)

var climberTable = table[model.Climber]{
	kind: model.KindClimber,
	name: "climbers",
	key:  "climber_id",
	writable: []string{
		"climber_id", "name", "search_name", "image_url", "sex",
		"date_of_birth", "country", "federation", "record_type",
	},
	readable: []string{
		"climber_id", "name", "image_url", "sex",
		"date_of_birth", "country", "federation", "record_type",
	},
	values: func(c model.Climber) []any {
		return []any{
			c.ClimberID,
			c.Name,
			foldName(c.Name),
			nullString(c.ImageURL),
			nullString((*string)(c.Sex)),
			nullString(c.DateOfBirth),
			c.Country,
			c.Federation,
			string(c.RecordType),
		}
	},
	scan: func(row rowScanner) (model.Climber, error) {
		var c model.Climber
		var imageURL, sex, dob sql.NullString
		var recordType string
		if err := row.Scan(
			&c.ClimberID, &c.Name, &imageURL, &sex,
			&dob, &c.Country, &c.Federation, &recordType,
		); err != nil {
			return model.Climber{}, err
		}
		c.ImageURL = stringPtr(imageURL)
		c.Sex = (*model.Sex)(stringPtr(sex))
		c.DateOfBirth = stringPtr(dob)
		c.RecordType = model.RecordType(recordType)
		return c, nil
	},
}

var roundColumns = []string{
	"id", "climber_id", "date", "competition_id", "competition_title",
	"competition_city", "rank", "qualification", "semi_final", "final",
}

func roundValues(r model.RoundResult) []any {
	return []any{
		r.ID,
		r.ClimberID,
		r.Date,
		r.CompetitionID,
		r.CompetitionTitle,
		r.CompetitionCity,
		nullInt(r.Rank),
		r.Qualification,
		nullString(r.SemiFinal),
		nullString(r.Final),
	}
}

func scanRound(row rowScanner) (model.RoundResult, error) {
	var r model.RoundResult
	var rank sql.NullInt64
	var semiFinal, final sql.NullString
	if err := row.Scan(
		&r.ID, &r.ClimberID, &r.Date, &r.CompetitionID, &r.CompetitionTitle,
		&r.CompetitionCity, &rank, &r.Qualification, &semiFinal, &final,
	); err != nil {
		return model.RoundResult{}, err
	}
	r.Rank = intPtr(rank)
	r.SemiFinal = stringPtr(semiFinal)
	r.Final = stringPtr(final)
	return r, nil
}

var leadTable = table[model.LeadResult]{
	kind:     model.KindLead,
	name:     "lead_results",
	key:      "id",
	writable: roundColumns,
	readable: roundColumns,
	values: func(r model.LeadResult) []any {
		return roundValues(model.RoundResult(r))
	},
	scan: func(row rowScanner) (model.LeadResult, error) {
		r, err := scanRound(row)
		return model.LeadResult(r), err
	},
}

var boulderTable = table[model.BoulderResult]{
	kind:     model.KindBoulder,
	name:     "boulder_results",
	key:      "id",
	writable: roundColumns,
	readable: roundColumns,
	values: func(r model.BoulderResult) []any {
		return roundValues(model.RoundResult(r))
	},
	scan: func(row rowScanner) (model.BoulderResult, error) {
		r, err := scanRound(row)
		return model.BoulderResult(r), err
	},
}

var speedColumns = []string{
	"id", "climber_id", "date", "competition_id", "competition_title",
	"competition_city", "rank", "lane_a", "lane_b", "one_eighth",
	"quarter", "semi_final", "small_final", "final",
}

var speedTable = table[model.SpeedResult]{
	kind:     model.KindSpeed,
	name:     "speed_results",
	key:      "id",
	writable: speedColumns,
	readable: speedColumns,
	values: func(r model.SpeedResult) []any {
		return []any{
			r.ID,
			r.ClimberID,
			r.Date,
			r.CompetitionID,
			r.CompetitionTitle,
			r.CompetitionCity,
			nullInt(r.Rank),
			nullString(r.LaneA),
			nullString(r.LaneB),
			nullString(r.OneEighth),
			nullString(r.Quarter),
			nullString(r.SemiFinal),
			nullString(r.SmallFinal),
			nullString(r.Final),
		}
	},
	scan: func(row rowScanner) (model.SpeedResult, error) {
		var r model.SpeedResult
		var rank sql.NullInt64
		var laneA, laneB, oneEighth, quarter, semiFinal, smallFinal, final sql.NullString
		if err := row.Scan(
			&r.ID, &r.ClimberID, &r.Date, &r.CompetitionID, &r.CompetitionTitle,
			&r.CompetitionCity, &rank, &laneA, &laneB, &oneEighth,
			&quarter, &semiFinal, &smallFinal, &final,
		); err != nil {
			return model.SpeedResult{}, err
		}
		r.Rank = intPtr(rank)
		r.LaneA = stringPtr(laneA)
		r.LaneB = stringPtr(laneB)
		r.OneEighth = stringPtr(oneEighth)
		r.Quarter = stringPtr(quarter)
		r.SemiFinal = stringPtr(semiFinal)
		r.SmallFinal = stringPtr(smallFinal)
		r.Final = stringPtr(final)
		return r, nil
	},
}

// nullString maps an absent optional to SQL NULL.
func nullString(v *string) any {
	if v == nil {
		return nil
	}
	return *v
}

func nullInt(v *int) any {
	if v == nil {
		return nil
	}
	return int64(*v)
}

func stringPtr(ns sql.NullString) *string {
	if !ns.Valid {
		return nil
	}
	s := ns.String
	return &s
}

func intPtr(ni sql.NullInt64) *int {
	if !ni.Valid {
		return nil
	}
	n := int(ni.Int64)
	return &n
}
