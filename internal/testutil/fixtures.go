package testutil

import "github.com/roach88/ascent/internal/model"

// Sample records shared by codec, store, transfer and CLI tests. They cover
// absent optionals, present empty strings and non-numeric outcomes. The
// codec golden files under internal/codec/testdata/golden are the exact
// encoding of these slices; change both together.

// SampleClimbers returns three climbers in identity order.
func SampleClimbers() []model.Climber {
	return []model.Climber{
		{
			ClimberID:  "123-M",
			Name:       "John Doe",
			Country:    "USA",
			Federation: "USAC",
			RecordType: model.RecordUnofficial,
		},
		{
			ClimberID:   "42-M",
			Name:        "Adam Ondra",
			ImageURL:    model.Ptr("https://example.org/ondra.jpg"),
			Sex:         model.Ptr(model.SexMan),
			DateOfBirth: model.Ptr("1993-02-05"),
			Country:     "CZE",
			Federation:  "IFSC",
			RecordType:  model.RecordOfficial,
		},
		{
			ClimberID:   "7-W",
			Name:        "Janja Garnbret",
			Sex:         model.Ptr(model.SexWoman),
			DateOfBirth: model.Ptr("1999"),
			Country:     "SLO",
			Federation:  "",
			RecordType:  model.RecordUnofficial,
		},
	}
}

// SampleLeads returns two lead results from one competition.
func SampleLeads() []model.LeadResult {
	return []model.LeadResult{
		{
			ID:               "1301-123-M",
			ClimberID:        "123-M",
			Date:             "2023-08-05",
			CompetitionID:    "1301",
			CompetitionTitle: "IFSC World Championships Bern 2023",
			CompetitionCity:  "Bern",
			Qualification:    "12",
		},
		{
			ID:               "1301-42-M",
			ClimberID:        "42-M",
			Date:             "2023-08-05",
			CompetitionID:    "1301",
			CompetitionTitle: "IFSC World Championships Bern 2023",
			CompetitionCity:  "Bern",
			Rank:             model.Ptr(1),
			Qualification:    "TOP",
			SemiFinal:        model.Ptr("40+"),
			Final:            model.Ptr("TOP"),
		},
	}
}

// SampleSpeeds returns two speed results from one competition.
func SampleSpeeds() []model.SpeedResult {
	return []model.SpeedResult{
		{
			ID:               "1290-11-W",
			ClimberID:        "11-W",
			Date:             "2023-04-28",
			CompetitionID:    "1290",
			CompetitionTitle: "IFSC World Cup Seoul 2023",
			CompetitionCity:  "Seoul",
			Rank:             model.Ptr(40),
			LaneA:            model.Ptr("10.5"),
		},
		{
			ID:               "1290-9-M",
			ClimberID:        "9-M",
			Date:             "2023-04-28",
			CompetitionID:    "1290",
			CompetitionTitle: "IFSC World Cup Seoul 2023",
			CompetitionCity:  "Seoul",
			Rank:             model.Ptr(3),
			LaneA:            model.Ptr("5.12"),
			LaneB:            model.Ptr("5.08"),
			OneEighth:        model.Ptr("5.01"),
			Quarter:          model.Ptr("4.98"),
			SemiFinal:        model.Ptr("fall"),
			SmallFinal:       model.Ptr("5.03"),
		},
	}
}

// SampleBoulders returns two boulder results from one competition.
func SampleBoulders() []model.BoulderResult {
	return []model.BoulderResult{
		{
			ID:               "1288-123-M",
			ClimberID:        "123-M",
			Date:             "2023-04-21",
			CompetitionID:    "1288",
			CompetitionTitle: "IFSC World Cup Hachioji 2023",
			CompetitionCity:  "Hachioji",
			Qualification:    "",
		},
		{
			ID:               "1288-7-W",
			ClimberID:        "7-W",
			Date:             "2023-04-21",
			CompetitionID:    "1288",
			CompetitionTitle: "IFSC World Cup Hachioji 2023",
			CompetitionCity:  "Hachioji",
			Rank:             model.Ptr(1),
			Qualification:    "5T5z 6 5",
			SemiFinal:        model.Ptr("4T4z 5 4"),
			Final:            model.Ptr("4T4z 4 4"),
		},
	}
}

// Lead builds a minimal lead result for competitionID and climberID.
func Lead(competitionID, climberID string) model.LeadResult {
	return model.LeadResult{
		ID:               model.ResultID(competitionID, climberID),
		ClimberID:        climberID,
		Date:             "2024-06-01",
		CompetitionID:    competitionID,
		CompetitionTitle: "Competition " + competitionID,
		CompetitionCity:  "Innsbruck",
		Qualification:    "20+",
	}
}

// Speed builds a minimal speed result for competitionID and climberID.
func Speed(competitionID, climberID string) model.SpeedResult {
	return model.SpeedResult{
		ID:               model.ResultID(competitionID, climberID),
		ClimberID:        climberID,
		Date:             "2024-06-01",
		CompetitionID:    competitionID,
		CompetitionTitle: "Competition " + competitionID,
		CompetitionCity:  "Innsbruck",
		LaneA:            model.Ptr("6.40"),
	}
}

// Boulder builds a minimal boulder result for competitionID and climberID.
func Boulder(competitionID, climberID string) model.BoulderResult {
	return model.BoulderResult{
		ID:               model.ResultID(competitionID, climberID),
		ClimberID:        climberID,
		Date:             "2024-06-01",
		CompetitionID:    competitionID,
		CompetitionTitle: "Competition " + competitionID,
		CompetitionCity:  "Innsbruck",
		Qualification:    "2T3z 4 5",
	}
}
