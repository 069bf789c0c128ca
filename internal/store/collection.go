package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/roach88/ascent/internal/model"
)

// InsertOutcome reports what an insert did.
type InsertOutcome int

const (
	// Inserted means the record was new and has been persisted.
	Inserted InsertOutcome = iota
	// DuplicateSkipped means a record with the same identity already
	// existed; nothing was written.
	DuplicateSkipped
)

func (o InsertOutcome) String() string {
	if o == DuplicateSkipped {
		return "duplicate_skipped"
	}
	return "inserted"
}

// BatchResult counts the outcomes of a best-effort batch insert.
type BatchResult struct {
	Inserted int `json:"inserted"`
	Skipped  int `json:"skipped"`
}

// rowScanner is satisfied by *sql.Row and *sql.Rows.
type rowScanner interface {
	Scan(dest ...any) error
}

// table describes how one record kind maps onto its SQL table.
type table[T model.Record] struct {
	kind     model.Kind
	name     string
	key      string   // identity column
	writable []string // columns written on insert, key first
	readable []string // columns selected, key first

	// values returns one argument per writable column.
	values func(T) []any
	// scan reads one row of readable columns.
	scan func(rowScanner) (T, error)
}

// Collection is the stored set of one record kind.
//
// Thread-safety: all methods are safe for concurrent use.
type Collection[T model.Record] struct {
	db     *sql.DB
	logger *slog.Logger
	t      table[T]

	insertSQL string
	selectSQL string
	updateSQL string
	deleteSQL string
}

func newCollection[T model.Record](s *Store, t table[T]) *Collection[T] {
	placeholders := strings.TrimSuffix(strings.Repeat("?, ", len(t.writable)), ", ")

	sets := make([]string, 0, len(t.writable)-1)
	for _, col := range t.writable[1:] {
		sets = append(sets, col+" = ?")
	}

	return &Collection[T]{
		db:     s.db,
		logger: s.logger,
		t:      t,
		insertSQL: fmt.Sprintf(
			"INSERT INTO %s (%s) VALUES (%s) ON CONFLICT(%s) DO NOTHING",
			t.name, strings.Join(t.writable, ", "), placeholders, t.key,
		),
		selectSQL: fmt.Sprintf("SELECT %s FROM %s", strings.Join(t.readable, ", "), t.name),
		updateSQL: fmt.Sprintf("UPDATE %s SET %s WHERE %s = ?", t.name, strings.Join(sets, ", "), t.key),
		deleteSQL: fmt.Sprintf("DELETE FROM %s WHERE %s = ?", t.name, t.key),
	}
}

// Kind returns the record kind held by the collection.
func (c *Collection[T]) Kind() model.Kind {
	return c.t.kind
}

// Insert persists rec unless a record with the same identity exists.
// A duplicate is not an error: it is logged and reported as
// DuplicateSkipped, and the stored record keeps its fields.
func (c *Collection[T]) Insert(ctx context.Context, rec T) (InsertOutcome, error) {
	result, err := c.db.ExecContext(ctx, c.insertSQL, c.t.values(rec)...)
	if err != nil {
		return 0, storageErr(fmt.Sprintf("insert %s %q", c.t.kind, rec.RecordID()), err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return 0, storageErr(fmt.Sprintf("insert %s %q: rows affected", c.t.kind, rec.RecordID()), err)
	}

	if rowsAffected == 0 {
		c.logger.Debug("duplicate insert skipped",
			"kind", c.t.kind,
			"id", rec.RecordID(),
		)
		return DuplicateSkipped, nil
	}
	return Inserted, nil
}

// InsertBatch inserts each record independently. Duplicates are counted and
// skipped. A storage failure stops the batch; the counts so far are
// returned with the error.
func (c *Collection[T]) InsertBatch(ctx context.Context, recs []T) (BatchResult, error) {
	var res BatchResult
	for _, rec := range recs {
		outcome, err := c.Insert(ctx, rec)
		if err != nil {
			return res, err
		}
		if outcome == DuplicateSkipped {
			res.Skipped++
		} else {
			res.Inserted++
		}
	}
	return res, nil
}

// Get returns the record with the given identity. ok is false when no such
// record exists.
func (c *Collection[T]) Get(ctx context.Context, id string) (rec T, ok bool, err error) {
	row := c.db.QueryRowContext(ctx, c.selectSQL+" WHERE "+c.t.key+" = ?", id)
	rec, err = c.t.scan(row)
	if errors.Is(err, sql.ErrNoRows) {
		var zero T
		return zero, false, nil
	}
	if err != nil {
		var zero T
		return zero, false, storageErr(fmt.Sprintf("get %s %q", c.t.kind, id), err)
	}
	return rec, true, nil
}

// All returns every record ordered by identity.
// Returns an empty slice (not nil) when the collection is empty.
func (c *Collection[T]) All(ctx context.Context) ([]T, error) {
	return c.list(ctx, "list "+string(c.t.kind), "")
}

// ByClimberID returns every record whose climber reference equals
// climberID, ordered by identity.
func (c *Collection[T]) ByClimberID(ctx context.Context, climberID string) ([]T, error) {
	return c.list(ctx, "list "+string(c.t.kind)+" by climber", "climber_id = ?", climberID)
}

// Update replaces every non-identity field of the record stored under id
// with the fields of rec. The identity is never changed: rec's own identity
// is ignored. ok is false when no record has that identity.
func (c *Collection[T]) Update(ctx context.Context, id string, rec T) (ok bool, err error) {
	args := c.t.values(rec)[1:]
	args = append(args, id)

	result, err := c.db.ExecContext(ctx, c.updateSQL, args...)
	if err != nil {
		return false, storageErr(fmt.Sprintf("update %s %q", c.t.kind, id), err)
	}
	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return false, storageErr(fmt.Sprintf("update %s %q: rows affected", c.t.kind, id), err)
	}
	return rowsAffected > 0, nil
}

// Delete removes the record with the given identity. ok is false when
// nothing was removed.
func (c *Collection[T]) Delete(ctx context.Context, id string) (ok bool, err error) {
	result, err := c.db.ExecContext(ctx, c.deleteSQL, id)
	if err != nil {
		return false, storageErr(fmt.Sprintf("delete %s %q", c.t.kind, id), err)
	}
	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return false, storageErr(fmt.Sprintf("delete %s %q: rows affected", c.t.kind, id), err)
	}
	return rowsAffected > 0, nil
}

// Count returns the number of stored records.
func (c *Collection[T]) Count(ctx context.Context) (int, error) {
	var n int
	if err := c.db.QueryRowContext(ctx, "SELECT COUNT(*) FROM "+c.t.name).Scan(&n); err != nil {
		return 0, storageErr("count "+string(c.t.kind), err)
	}
	return n, nil
}

// list runs the select with an optional WHERE clause and deterministic
// ordering.
func (c *Collection[T]) list(ctx context.Context, op, where string, args ...any) ([]T, error) {
	query := c.selectSQL
	if where != "" {
		query += " WHERE " + where
	}
	query += " ORDER BY " + c.t.key + " COLLATE BINARY ASC"

	rows, err := c.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, storageErr(op, err)
	}
	defer rows.Close()

	recs := []T{}
	for rows.Next() {
		rec, err := c.t.scan(rows)
		if err != nil {
			return nil, storageErr(op+": scan", err)
		}
		recs = append(recs, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, storageErr(op+": iterate", err)
	}
	return recs, nil
}

// ResultCollection is a collection of competition results, which can also
// be listed by competition.
type ResultCollection[T model.Record] struct {
	*Collection[T]
}

// ByCompetitionID returns every result of one competition, ordered by
// identity.
func (c *ResultCollection[T]) ByCompetitionID(ctx context.Context, competitionID string) ([]T, error) {
	return c.list(ctx, "list "+string(c.t.kind)+" by competition", "competition_id = ?", competitionID)
}
