package store

import (
	"context"
	"database/sql"
)

// UnsafeQuerier gates the raw-query escape hatch behind an explicit
// capability, per SPEC_FULL.md §9: ordinary callers of *Store cannot reach
// raw SQL by accident, only by constructing one of these.
type UnsafeQuerier struct {
	s *Store
}

// Unsafe wraps s with access to its raw query escape hatch. Intended for
// tests.
func Unsafe(s *Store) UnsafeQuerier {
	return UnsafeQuerier{s: s}
}

// Query runs a raw query under an exclusive lock and returns each row as a
// column-name-to-value map. Rows are materialized before the lock is
// released, since the holding connection is closed on return.
func (u UnsafeQuerier) Query(ctx context.Context, query string, args ...any) ([]map[string]any, error) {
	var out []map[string]any
	err := u.s.withLock(ctx, modeExclusive, func(ctx context.Context, conn *sql.Conn) error {
		rows, err := conn.QueryContext(ctx, query, args...)
		if err != nil {
			return err
		}
		defer rows.Close()

		cols, err := rows.Columns()
		if err != nil {
			return err
		}
		for rows.Next() {
			vals := make([]any, len(cols))
			ptrs := make([]any, len(cols))
			for i := range vals {
				ptrs[i] = &vals[i]
			}
			if err := rows.Scan(ptrs...); err != nil {
				return err
			}
			row := make(map[string]any, len(cols))
			for i, c := range cols {
				row[c] = vals[i]
			}
			out = append(out, row)
		}
		return rows.Err()
	})
	return out, err
}
