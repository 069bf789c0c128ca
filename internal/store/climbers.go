package store

import (
	"context"
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"

	"github.com/roach88/ascent/internal/model"
)

// ClimberCollection is the stored set of climber profiles.
type ClimberCollection struct {
	*Collection[model.Climber]
}

// Search returns climbers whose name contains query, ignoring case and
// diacritics ("simon" matches "Šimon"). An empty query returns every
// climber.
func (c *ClimberCollection) Search(ctx context.Context, query string) ([]model.Climber, error) {
	key := foldName(query)
	if key == "" {
		return c.All(ctx)
	}
	return c.list(ctx, "search climbers", "instr(search_name, ?) > 0", key)
}

// NextSequence returns one past the largest numeric sequence used in a
// climber id, so that a new UNOFFICIAL climber gets a fresh identity.
// Ids that do not start with a number are ignored.
func (c *ClimberCollection) NextSequence(ctx context.Context) (int, error) {
	var highest int
	err := c.db.QueryRowContext(ctx, `
		SELECT COALESCE(MAX(CAST(substr(climber_id, 1, instr(climber_id, '-') - 1) AS INTEGER)), 0)
		FROM climbers
		WHERE instr(climber_id, '-') > 1
	`).Scan(&highest)
	if err != nil {
		return 0, storageErr("next climber sequence", err)
	}
	return highest + 1, nil
}

// foldName reduces a name to its search key: NFC-normalized, lower case and
// stripped of combining marks.
func foldName(name string) string {
	t := transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)
	folded, _, err := transform.String(t, name)
	if err != nil {
		folded = norm.NFC.String(name)
	}
	return strings.ToLower(strings.TrimSpace(folded))
}
