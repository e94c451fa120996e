package repository

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"
)

// pagedRelation is the one generic paginator shared by every listing
// relation: an ordered key column, optionally narrowed by a filter clause.
// Markers follow the cursor contract: a marker names the last item of the
// previous page, items are returned in key order strictly after it.
type pagedRelation struct {
	pool   *pgxpool.Pool
	table  string
	keyCol string
	filter string // optional WHERE fragment using $1..$n
	args   []any
}

func (p pagedRelation) where() string {
	if p.filter == "" {
		return "1=1"
	}
	return p.filter
}

// pageKeys returns up to limit keys strictly after marker. An empty marker
// starts from the beginning.
func (p pagedRelation) pageKeys(ctx context.Context, marker string, limit int) ([]string, error) {
	n := len(p.args)
	query := fmt.Sprintf(
		`SELECT %s FROM %s WHERE %s AND ($%d = '' OR %s > $%d) ORDER BY %s LIMIT $%d`,
		p.keyCol, p.table, p.where(), n+1, p.keyCol, n+1, p.keyCol, n+2)

	args := append(append([]any{}, p.args...), marker, limit)
	rows, err := p.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var keys []string
	for rows.Next() {
		var key string
		if err := rows.Scan(&key); err != nil {
			return nil, err
		}
		keys = append(keys, key)
	}
	return keys, rows.Err()
}

// markers derives the prev/next cursors for the same (marker, limit) input.
// next is the last key of the current page when a later item exists. prev is
// the key immediately before the previous page's first item; an empty-string
// prev points at the start of the collection; nil means no earlier page.
func (p pagedRelation) markers(ctx context.Context, marker string, limit int) (prev, next *string, err error) {
	keys, err := p.pageKeys(ctx, marker, limit)
	if err != nil {
		return nil, nil, err
	}

	n := len(p.args)
	if len(keys) > 0 {
		last := keys[len(keys)-1]
		query := fmt.Sprintf(
			`SELECT EXISTS(SELECT 1 FROM %s WHERE %s AND %s > $%d)`,
			p.table, p.where(), p.keyCol, n+1)
		var more bool
		if err := p.pool.QueryRow(ctx, query, append(append([]any{}, p.args...), last)...).Scan(&more); err != nil {
			return nil, nil, err
		}
		if more {
			next = &last
		}
	}

	if marker == "" {
		return nil, next, nil
	}

	var pageStart int
	query := fmt.Sprintf(
		`SELECT COUNT(*) FROM %s WHERE %s AND %s <= $%d`,
		p.table, p.where(), p.keyCol, n+1)
	if err := p.pool.QueryRow(ctx, query, append(append([]any{}, p.args...), marker)...).Scan(&pageStart); err != nil {
		return nil, nil, err
	}
	if pageStart == 0 {
		// Marker precedes the whole collection; the page is the first page.
		return nil, next, nil
	}

	prevIdx := pageStart - limit - 1
	if prevIdx < 0 {
		empty := ""
		return &empty, next, nil
	}
	query = fmt.Sprintf(
		`SELECT %s FROM %s WHERE %s ORDER BY %s LIMIT 1 OFFSET $%d`,
		p.keyCol, p.table, p.where(), p.keyCol, n+1)
	var key string
	if err := p.pool.QueryRow(ctx, query, append(append([]any{}, p.args...), prevIdx)...).Scan(&key); err != nil {
		return nil, nil, err
	}
	return &key, next, nil
}
