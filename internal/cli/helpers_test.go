package cli

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"path/filepath"
	"testing"

	"github.com/spf13/cobra"
	"github.com/stretchr/testify/require"

	"github.com/roach88/ascent/internal/store"
	"github.com/roach88/ascent/internal/testutil"
)

// newTestOptions returns root options pointing at a fresh database file.
func newTestOptions(t *testing.T, format string) *RootOptions {
	t.Helper()
	return &RootOptions{
		Format:   format,
		Database: filepath.Join(t.TempDir(), "ascent.db"),
	}
}

// seedStore fills the database at opts.Database with the sample records.
func seedStore(t *testing.T, opts *RootOptions) {
	t.Helper()
	st, err := store.Open(opts.Database)
	require.NoError(t, err)
	defer st.Close()

	ctx := context.Background()
	_, err = st.Climbers().InsertBatch(ctx, testutil.SampleClimbers())
	require.NoError(t, err)
	_, err = st.Leads().InsertBatch(ctx, testutil.SampleLeads())
	require.NoError(t, err)
	_, err = st.Speeds().InsertBatch(ctx, testutil.SampleSpeeds())
	require.NoError(t, err)
	_, err = st.Boulders().InsertBatch(ctx, testutil.SampleBoulders())
	require.NoError(t, err)
}

// openTestStore reopens the database at opts.Database for assertions.
func openTestStore(t *testing.T, opts *RootOptions) *store.Store {
	t.Helper()
	st, err := store.Open(opts.Database)
	require.NoError(t, err)
	t.Cleanup(func() { st.Close() })
	return st
}

// execute runs cmd with args and returns its stdout.
func execute(cmd *cobra.Command, args ...string) (string, error) {
	buf := &bytes.Buffer{}
	cmd.SetOut(buf)
	cmd.SetErr(io.Discard)
	cmd.SetArgs(args)
	err := cmd.Execute()
	return buf.String(), err
}

// decodeResponse parses a JSON CLIResponse, decoding Data into data when
// data is non-nil.
func decodeResponse(t *testing.T, out string, data any) CLIResponse {
	t.Helper()
	var raw struct {
		CLIResponse
		Data json.RawMessage `json:"data"`
	}
	require.NoError(t, json.Unmarshal([]byte(out), &raw))
	if data != nil {
		require.NoError(t, json.Unmarshal(raw.Data, data))
	}
	return raw.CLIResponse
}
