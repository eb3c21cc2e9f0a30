package storage

import (
	"context"
	"fmt"
)

// TableCount is the number of rows in one store table.
type TableCount struct {
	Table string
	Rows  int
}

// overviewTables lists the tables reported by Overview, in display order.
var overviewTables = []string{
	"account", "archer", "club_competition", "yearly_club_championship", "round",
	"category", "event_context", "participating", "category_rating_percentile",
}

// Overview returns row counts for every store table.
func (db *DB) Overview(ctx context.Context) ([]TableCount, error) {
	out := make([]TableCount, 0, len(overviewTables))
	for _, t := range overviewTables {
		var n int
		if err := db.conn.QueryRowContext(ctx, "SELECT COUNT(1) FROM "+t).Scan(&n); err != nil {
			return nil, fmt.Errorf("count %s: %w", t, err)
		}
		out = append(out, TableCount{Table: t, Rows: n})
	}
	return out, nil
}

// QueryRaw runs an arbitrary read query and returns the column names and
// every row rendered as strings. NULL renders as "NULL".
func (db *DB) QueryRaw(ctx context.Context, query string) ([]string, [][]string, error) {
	rows, err := db.conn.QueryContext(ctx, query)
	if err != nil {
		return nil, nil, fmt.Errorf("query: %w", err)
	}
	defer rows.Close()

	cols, err := rows.Columns()
	if err != nil {
		return nil, nil, err
	}
	var out [][]string
	for rows.Next() {
		vals := make([]any, len(cols))
		ptrs := make([]any, len(cols))
		for i := range vals {
			ptrs[i] = &vals[i]
		}
		if err := rows.Scan(ptrs...); err != nil {
			return nil, nil, err
		}
		row := make([]string, len(cols))
		for i, v := range vals {
			switch x := v.(type) {
			case nil:
				row[i] = "NULL"
			case []byte:
				row[i] = string(x)
			default:
				row[i] = fmt.Sprint(x)
			}
		}
		out = append(out, row)
	}
	return cols, out, rows.Err()
}
