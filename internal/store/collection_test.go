package store

import (
	"bytes"
	"context"
	"fmt"
	"log/slog"
	"path/filepath"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roach88/ascent/internal/model"
	"github.com/roach88/ascent/internal/testutil"
)

func TestInsert_DuplicateIsSkipped(t *testing.T) {
	s := createTestStore(t)
	ctx := context.Background()

	first := model.Climber{
		ClimberID:  "123-M",
		Name:       "John Doe",
		Country:    "USA",
		RecordType: model.RecordUnofficial,
	}
	outcome, err := s.Climbers().Insert(ctx, first)
	require.NoError(t, err)
	assert.Equal(t, Inserted, outcome)

	second := first
	second.Name = "Jane Doe"
	outcome, err = s.Climbers().Insert(ctx, second)
	require.NoError(t, err)
	assert.Equal(t, DuplicateSkipped, outcome)

	got, ok, err := s.Climbers().Get(ctx, "123-M")
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, "John Doe", got.Name, "second insert must not alter the stored record")

	n, err := s.Climbers().Count(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, n)
}

func TestInsert_DuplicateIsLogged(t *testing.T) {
	var buf bytes.Buffer
	logger := slog.New(slog.NewTextHandler(&buf, &slog.HandlerOptions{Level: slog.LevelDebug}))

	s, err := Open(filepath.Join(t.TempDir(), "test.db"), WithLogger(logger))
	require.NoError(t, err)
	defer s.Close()
	ctx := context.Background()

	lead := testutil.Lead("900", "1-M")
	_, err = s.Leads().Insert(ctx, lead)
	require.NoError(t, err)
	_, err = s.Leads().Insert(ctx, lead)
	require.NoError(t, err)

	assert.Contains(t, buf.String(), "duplicate insert skipped")
	assert.Contains(t, buf.String(), "900-1-M")
}

func TestGet_Absent(t *testing.T) {
	s := createTestStore(t)
	ctx := context.Background()

	c, ok, err := s.Climbers().Get(ctx, "999-W")
	require.NoError(t, err)
	assert.False(t, ok)
	assert.Equal(t, model.Climber{}, c)

	sp, ok, err := s.Speeds().Get(ctx, "nope")
	require.NoError(t, err)
	assert.False(t, ok)
	assert.Equal(t, model.SpeedResult{}, sp)
}

func TestAll_RoundTripsEveryKind(t *testing.T) {
	s := createTestStore(t)
	ctx := context.Background()

	_, err := s.Climbers().InsertBatch(ctx, testutil.SampleClimbers())
	require.NoError(t, err)
	_, err = s.Leads().InsertBatch(ctx, testutil.SampleLeads())
	require.NoError(t, err)
	_, err = s.Speeds().InsertBatch(ctx, testutil.SampleSpeeds())
	require.NoError(t, err)
	_, err = s.Boulders().InsertBatch(ctx, testutil.SampleBoulders())
	require.NoError(t, err)

	climbers, err := s.Climbers().All(ctx)
	require.NoError(t, err)
	assert.Equal(t, testutil.SampleClimbers(), climbers)

	leads, err := s.Leads().All(ctx)
	require.NoError(t, err)
	assert.Equal(t, testutil.SampleLeads(), leads)

	speeds, err := s.Speeds().All(ctx)
	require.NoError(t, err)
	assert.Equal(t, testutil.SampleSpeeds(), speeds)

	boulders, err := s.Boulders().All(ctx)
	require.NoError(t, err)
	assert.Equal(t, testutil.SampleBoulders(), boulders)
}

func TestAll_EmptyIsNotNil(t *testing.T) {
	s := createTestStore(t)

	leads, err := s.Leads().All(context.Background())
	require.NoError(t, err)
	assert.NotNil(t, leads)
	assert.Empty(t, leads)
}

func TestGet_PreservesNullVersusEmpty(t *testing.T) {
	s := createTestStore(t)
	ctx := context.Background()

	withEmpty := model.Climber{
		ClimberID:  "5-W",
		Name:       "",
		ImageURL:   model.Ptr(""),
		RecordType: model.RecordUnofficial,
	}
	_, err := s.Climbers().Insert(ctx, withEmpty)
	require.NoError(t, err)

	got, ok, err := s.Climbers().Get(ctx, "5-W")
	require.NoError(t, err)
	require.True(t, ok)
	require.NotNil(t, got.ImageURL)
	assert.Equal(t, "", *got.ImageURL)
	assert.Nil(t, got.DateOfBirth)
}

func TestByClimberID_ExactSubset(t *testing.T) {
	s := createTestStore(t)
	ctx := context.Background()

	var all []model.SpeedResult
	for comp := 1; comp <= 4; comp++ {
		for _, climber := range []string{"1-M", "2-M", "12-M"} {
			all = append(all, testutil.Speed(fmt.Sprint(comp), climber))
		}
	}
	_, err := s.Speeds().InsertBatch(ctx, all)
	require.NoError(t, err)

	got, err := s.Speeds().ByClimberID(ctx, "1-M")
	require.NoError(t, err)

	var want []model.SpeedResult
	for _, r := range all {
		if r.ClimberID == "1-M" {
			want = append(want, r)
		}
	}
	assert.ElementsMatch(t, want, got)

	none, err := s.Speeds().ByClimberID(ctx, "3-W")
	require.NoError(t, err)
	assert.Empty(t, none)
}

func TestByClimberID_Climbers(t *testing.T) {
	s := createTestStore(t)
	ctx := context.Background()
	_, err := s.Climbers().InsertBatch(ctx, testutil.SampleClimbers())
	require.NoError(t, err)

	got, err := s.Climbers().ByClimberID(ctx, "42-M")
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, "Adam Ondra", got[0].Name)
}

func TestByCompetitionID(t *testing.T) {
	s := createTestStore(t)
	ctx := context.Background()

	_, err := s.Boulders().InsertBatch(ctx, []model.BoulderResult{
		testutil.Boulder("10", "1-M"),
		testutil.Boulder("10", "2-W"),
		testutil.Boulder("11", "1-M"),
	})
	require.NoError(t, err)

	got, err := s.Boulders().ByCompetitionID(ctx, "10")
	require.NoError(t, err)
	require.Len(t, got, 2)
	for _, r := range got {
		assert.Equal(t, "10", r.CompetitionID)
	}
}

func TestUpdate_PreservesIdentity(t *testing.T) {
	s := createTestStore(t)
	ctx := context.Background()

	orig := testutil.Lead("77", "3-W")
	_, err := s.Leads().Insert(ctx, orig)
	require.NoError(t, err)

	changed := orig
	changed.ID = "something-else"
	changed.Rank = model.Ptr(2)
	changed.SemiFinal = model.Ptr("35+")
	changed.CompetitionCity = "Chamonix"

	ok, err := s.Leads().Update(ctx, orig.ID, changed)
	require.NoError(t, err)
	require.True(t, ok)

	got, ok, err := s.Leads().Get(ctx, orig.ID)
	require.NoError(t, err)
	require.True(t, ok)

	want := changed
	want.ID = orig.ID
	assert.Equal(t, want, got)

	_, ok, err = s.Leads().Get(ctx, "something-else")
	require.NoError(t, err)
	assert.False(t, ok, "update must not create a record under the new id")
}

func TestUpdate_ClearsOptionalFields(t *testing.T) {
	s := createTestStore(t)
	ctx := context.Background()

	sample := testutil.SampleSpeeds()[1]
	_, err := s.Speeds().Insert(ctx, sample)
	require.NoError(t, err)

	cleared := sample
	cleared.SmallFinal = nil
	cleared.SemiFinal = nil
	ok, err := s.Speeds().Update(ctx, sample.ID, cleared)
	require.NoError(t, err)
	require.True(t, ok)

	got, _, err := s.Speeds().Get(ctx, sample.ID)
	require.NoError(t, err)
	assert.Nil(t, got.SmallFinal)
	assert.Nil(t, got.SemiFinal)
	assert.Equal(t, sample.Quarter, got.Quarter)
}

func TestUpdate_NotFound(t *testing.T) {
	s := createTestStore(t)
	ctx := context.Background()

	ok, err := s.Climbers().Update(ctx, "404-M", testutil.SampleClimbers()[0])
	require.NoError(t, err)
	assert.False(t, ok)

	n, err := s.Climbers().Count(ctx)
	require.NoError(t, err)
	assert.Zero(t, n)
}

func TestDelete(t *testing.T) {
	s := createTestStore(t)
	ctx := context.Background()

	b := testutil.Boulder("5", "5-M")
	_, err := s.Boulders().Insert(ctx, b)
	require.NoError(t, err)

	ok, err := s.Boulders().Delete(ctx, b.ID)
	require.NoError(t, err)
	assert.True(t, ok)

	_, found, err := s.Boulders().Get(ctx, b.ID)
	require.NoError(t, err)
	assert.False(t, found)

	ok, err = s.Boulders().Delete(ctx, b.ID)
	require.NoError(t, err)
	assert.False(t, ok, "second delete finds nothing")

	// A deleted identity can be inserted again.
	outcome, err := s.Boulders().Insert(ctx, b)
	require.NoError(t, err)
	assert.Equal(t, Inserted, outcome)
}

func TestInsertBatch_BestEffort(t *testing.T) {
	s := createTestStore(t)
	ctx := context.Background()

	existing := testutil.Lead("1", "1-M")
	_, err := s.Leads().Insert(ctx, existing)
	require.NoError(t, err)

	batch := []model.LeadResult{
		testutil.Lead("1", "2-M"),
		existing,
		testutil.Lead("1", "3-M"),
		testutil.Lead("1", "2-M"),
	}
	res, err := s.Leads().InsertBatch(ctx, batch)
	require.NoError(t, err)
	assert.Equal(t, BatchResult{Inserted: 2, Skipped: 2}, res)

	n, err := s.Leads().Count(ctx)
	require.NoError(t, err)
	assert.Equal(t, 3, n)
}

func TestDanglingClimberReferenceIsTolerated(t *testing.T) {
	s := createTestStore(t)

	outcome, err := s.Speeds().Insert(context.Background(), testutil.Speed("1", "does-not-exist"))
	require.NoError(t, err)
	assert.Equal(t, Inserted, outcome)
}

func TestConcurrentInsertSameIdentity(t *testing.T) {
	s := createTestStore(t)
	ctx := context.Background()

	const workers = 16
	outcomes := make([]InsertOutcome, workers)
	errs := make([]error, workers)

	var wg sync.WaitGroup
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			c := model.Climber{
				ClimberID:  "1-M",
				Name:       fmt.Sprintf("writer %d", i),
				RecordType: model.RecordUnofficial,
			}
			outcomes[i], errs[i] = s.Climbers().Insert(ctx, c)
		}(i)
	}
	wg.Wait()

	inserted := 0
	for i := range outcomes {
		require.NoError(t, errs[i])
		if outcomes[i] == Inserted {
			inserted++
		}
	}
	assert.Equal(t, 1, inserted)

	n, err := s.Climbers().Count(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, n)
}

func TestConcurrentReadersSeeWholeRecords(t *testing.T) {
	s := createTestStore(t)
	ctx := context.Background()

	base := testutil.SampleSpeeds()[1]
	_, err := s.Speeds().Insert(ctx, base)
	require.NoError(t, err)

	var wg sync.WaitGroup
	wg.Add(2)
	go func() {
		defer wg.Done()
		for i := 0; i < 50; i++ {
			upd := base
			v := fmt.Sprintf("%d", i)
			upd.LaneA, upd.LaneB, upd.Final = &v, &v, &v
			upd.SmallFinal = nil
			if _, err := s.Speeds().Update(ctx, base.ID, upd); err != nil {
				t.Errorf("Update() failed: %v", err)
				return
			}
		}
	}()
	go func() {
		defer wg.Done()
		for i := 0; i < 50; i++ {
			got, ok, err := s.Speeds().Get(ctx, base.ID)
			if err != nil || !ok {
				t.Errorf("Get() = ok %v, err %v", ok, err)
				return
			}
			if got.Final != nil {
				// Every update writes the same value to all three fields.
				assert.Equal(t, *got.Final, *got.LaneA)
				assert.Equal(t, *got.Final, *got.LaneB)
				assert.Nil(t, got.SmallFinal)
			}
		}
	}()
	wg.Wait()
}

func TestInsertOutcomeString(t *testing.T) {
	assert.Equal(t, "inserted", Inserted.String())
	assert.Equal(t, "duplicate_skipped", DuplicateSkipped.String())
}
