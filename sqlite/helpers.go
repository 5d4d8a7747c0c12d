package sqlite

import (
	"fmt"
	"strings"
	"time"
)

// timestamp formats t for storage. The zero time is stored as "".
func timestamp(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return t.UTC().Format(time.RFC3339)
}

// parseTimestamp reverses timestamp. field names the column in errors.
func parseTimestamp(value, field string) (time.Time, error) {
	if value == "" {
		return time.Time{}, nil
	}
	t, err := time.Parse(time.RFC3339, value)
	if err != nil {
		return time.Time{}, fmt.Errorf("failed to parse %s: %w", field, err)
	}
	return t, nil
}

// where collects AND-ed conditions and their arguments.
type where struct {
	conds []string
	args  []any
}

func (w *where) add(cond string, arg any) {
	w.conds = append(w.conds, cond)
	w.args = append(w.args, arg)
}

func (w *where) writeTo(query *strings.Builder) {
	if len(w.conds) > 0 {
		query.WriteString(" WHERE ")
		query.WriteString(strings.Join(w.conds, " AND "))
	}
}

// appendPagination adds LIMIT and OFFSET when they are positive.
// SQLite needs a LIMIT before OFFSET, and -1 means unbounded.
func appendPagination(query *strings.Builder, args *[]any, limit, offset int) {
	switch {
	case limit > 0:
		query.WriteString(" LIMIT ?")
		*args = append(*args, limit)
	case offset > 0:
		query.WriteString(" LIMIT -1")
	}
	if offset > 0 {
		query.WriteString(" OFFSET ?")
		*args = append(*args, offset)
	}
}
