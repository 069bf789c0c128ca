package cli

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roach88/ascent/internal/model"
)

func TestResults_LeadByClimber(t *testing.T) {
	opts := newTestOptions(t, "text")
	seedStore(t, opts)

	out, err := execute(NewResultsCommand(opts), "--kind", "lead", "--climber", "42-M")
	require.NoError(t, err)
	assert.Contains(t, out, "1301-42-M")
	assert.Contains(t, out, "rank 1")
	assert.Contains(t, out, "qualification=TOP semiFinal=40+ final=TOP")
	assert.NotContains(t, out, "1301-123-M")
}

func TestResults_SpeedByCompetitionJSON(t *testing.T) {
	opts := newTestOptions(t, "json")
	seedStore(t, opts)

	out, err := execute(NewResultsCommand(opts), "--kind", "speed", "--competition", "1290")
	require.NoError(t, err)

	var speeds []model.SpeedResult
	decodeResponse(t, out, &speeds)
	require.Len(t, speeds, 2)
	assert.Equal(t, "1290-11-W", speeds[0].ID)
	assert.Nil(t, speeds[0].LaneB)
	assert.Equal(t, "fall", *speeds[1].SemiFinal)
}

func TestResults_BoulderAbsentStagesHidden(t *testing.T) {
	opts := newTestOptions(t, "text")
	seedStore(t, opts)

	out, err := execute(NewResultsCommand(opts), "--kind", "boulder", "--climber", "123-M")
	require.NoError(t, err)
	assert.Contains(t, out, "1288-123-M")
	assert.Contains(t, out, "qualification=")
	assert.NotContains(t, out, "final=")
}

func TestResults_NoMatches(t *testing.T) {
	opts := newTestOptions(t, "text")
	seedStore(t, opts)

	out, err := execute(NewResultsCommand(opts), "--kind", "lead", "--competition", "nope")
	require.NoError(t, err)
	assert.Contains(t, out, "No results found")
}

func TestResults_InvalidKind(t *testing.T) {
	for _, kind := range []string{"climber", "trad"} {
		t.Run(kind, func(t *testing.T) {
			opts := newTestOptions(t, "text")
			out, err := execute(NewResultsCommand(opts), "--kind", kind, "--climber", "42-M")
			require.Error(t, err)
			assert.Equal(t, ExitCommandError, GetExitCode(err))
			assert.Contains(t, out, "Error [E002]")
		})
	}
}

func TestResults_FilterFlags(t *testing.T) {
	opts := newTestOptions(t, "text")

	_, err := execute(NewResultsCommand(opts), "--kind", "lead")
	require.Error(t, err)

	_, err = execute(NewResultsCommand(opts), "--kind", "lead", "--climber", "1-M", "--competition", "1")
	require.Error(t, err)
}

func TestResults_VerboseNamesKind(t *testing.T) {
	opts := newTestOptions(t, "json")
	opts.Verbose = true
	seedStore(t, opts)

	cmd := NewResultsCommand(opts)
	out, errOut := &bytes.Buffer{}, &bytes.Buffer{}
	cmd.SetOut(out)
	cmd.SetErr(errOut)
	cmd.SetArgs([]string{"--kind", "boulder", "--competition", "1288"})
	require.NoError(t, cmd.Execute())

	assert.Contains(t, errOut.String(), "Listing boulder results for competition 1288")
	var boulders []model.BoulderResult
	decodeResponse(t, out.String(), &boulders)
	assert.Len(t, boulders, 2)
}
