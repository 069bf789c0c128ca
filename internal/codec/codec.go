package codec

import (
	"fmt"
	"strings"

	"github.com/roach88/ascent/internal/model"
)

// Codec maps one record kind to and from rows.
type Codec[T model.Record] struct {
	Kind    model.Kind
	Columns []string // field order on disk

	encode func(w *rowWriter, rec T)
	decode func(r *rowReader) T
}

// EncodeRow returns the ordered fields of rec.
func (c Codec[T]) EncodeRow(rec T) ([]string, error) {
	w := &rowWriter{fields: make([]string, 0, len(c.Columns))}
	c.encode(w, rec)
	if w.err != nil {
		return nil, fmt.Errorf("encode %s %q: %w", c.Kind, rec.RecordID(), w.err)
	}
	return w.fields, nil
}

// DecodeRow parses fields positionally into a record. The returned error
// describes the problem without position information; callers that know the
// line number wrap it in a *MalformedRowError.
func (c Codec[T]) DecodeRow(fields []string) (T, error) {
	var zero T
	if len(fields) != len(c.Columns) {
		return zero, fmt.Errorf("expected %d fields, got %d", len(c.Columns), len(fields))
	}
	r := &rowReader{fields: fields}
	rec := c.decode(r)
	if r.err != nil {
		return zero, r.err
	}
	return rec, nil
}

// Marshal renders records as snapshot text, one terminated line each.
func (c Codec[T]) Marshal(recs []T) ([]byte, error) {
	var b strings.Builder
	for _, rec := range recs {
		fields, err := c.EncodeRow(rec)
		if err != nil {
			return nil, err
		}
		joinRow(&b, fields)
	}
	return []byte(b.String()), nil
}

// unmarshal parses snapshot text; path only labels errors. Any bad row
// fails the whole input.
func (c Codec[T]) unmarshal(data []byte, path string) ([]T, error) {
	recs := []T{}
	if len(data) == 0 {
		return recs, nil
	}

	lines := strings.Split(string(data), "\n")
	if lines[len(lines)-1] == "" {
		lines = lines[:len(lines)-1]
	}

	for i, line := range lines {
		rec, err := c.DecodeRow(splitRow(line))
		if err != nil {
			return nil, &MalformedRowError{
				Kind:   c.Kind,
				Path:   path,
				Line:   i + 1,
				Reason: err.Error(),
			}
		}
		recs = append(recs, rec)
	}
	return recs, nil
}
