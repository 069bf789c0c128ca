package testutil

// FixedRunIDGenerator returns the same run id every time.
//
// This keeps transfer summaries and log output stable across test runs.
//
// Thread-safety: FixedRunIDGenerator is stateless and safe for concurrent use.
type FixedRunIDGenerator struct {
	id string
}

// NewFixedRunIDGenerator creates a generator that always returns id.
//
// If id is empty, Generate() returns "test-run-default".
func NewFixedRunIDGenerator(id string) *FixedRunIDGenerator {
	if id == "" {
		id = "test-run-default"
	}
	return &FixedRunIDGenerator{id: id}
}

// Generate returns the fixed run id.
//
// Implements transfer.RunIDGenerator.
func (g *FixedRunIDGenerator) Generate() string {
	return g.id
}
