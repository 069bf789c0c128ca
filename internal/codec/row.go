package codec

import (
	"fmt"
	"strconv"
	"strings"
)

const (
	// Delimiter separates fields within a row.
	Delimiter = ","
	// NullToken marks an absent optional value.
	NullToken = "null"
)

// rowWriter accumulates encoded fields and keeps the first error.
type rowWriter struct {
	fields []string
	err    error
}

func (w *rowWriter) fail(err error) {
	if w.err == nil {
		w.err = err
	}
}

func (w *rowWriter) str(name, v string) {
	if w.err != nil {
		return
	}
	if v == NullToken {
		w.err = fmt.Errorf("%w: field %s holds the reserved token %q", ErrUnencodable, name, NullToken)
		return
	}
	if strings.ContainsAny(v, ",\r\n") {
		w.err = fmt.Errorf("%w: field %s contains a delimiter or line break: %q", ErrUnencodable, name, v)
		return
	}
	w.fields = append(w.fields, v)
}

func (w *rowWriter) opt(name string, v *string) {
	if w.err != nil {
		return
	}
	if v == nil {
		w.fields = append(w.fields, NullToken)
		return
	}
	w.str(name, *v)
}

func (w *rowWriter) integer(name string, v *int) {
	if v == nil {
		w.opt(name, nil)
		return
	}
	w.str(name, strconv.Itoa(*v))
}

// rowReader consumes decoded fields positionally and keeps the first error.
type rowReader struct {
	fields []string
	pos    int
	err    error
}

func (r *rowReader) fail(err error) {
	if r.err == nil {
		r.err = err
	}
}

func (r *rowReader) next() string {
	v := r.fields[r.pos]
	r.pos++
	return v
}

func (r *rowReader) str(name string) string {
	if r.err != nil {
		return ""
	}
	v := r.next()
	if v == NullToken {
		r.err = fmt.Errorf("field %s: null in required field", name)
		return ""
	}
	return v
}

func (r *rowReader) opt(name string) *string {
	if r.err != nil {
		return nil
	}
	v := r.next()
	if v == NullToken {
		return nil
	}
	return &v
}

func (r *rowReader) integer(name string) *int {
	s := r.opt(name)
	if s == nil {
		return nil
	}
	n, err := strconv.Atoi(*s)
	if err != nil {
		r.err = fmt.Errorf("field %s: not an integer: %q", name, *s)
		return nil
	}
	return &n
}

// splitRow splits a line into fields. Lines may end in "\r\n".
func splitRow(line string) []string {
	line = strings.TrimSuffix(line, "\r")
	return strings.Split(line, Delimiter)
}

// joinRow renders fields as one terminated line.
func joinRow(b *strings.Builder, fields []string) {
	b.WriteString(strings.Join(fields, Delimiter))
	b.WriteByte('\n')
}
