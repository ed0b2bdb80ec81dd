package warehouse

import (
	"context"
	"strings"

	"github.com/google/uuid"

	"github.com/ndolage/macroquery/internal/table"
)

// Execute runs one statement and materializes every row.
//
// The rows handle is scoped to this call and released on every path.
// Any driver fault (bad SQL, dropped connection, permission error,
// context cancellation) comes back as *QueryError alongside an empty
// table; callers never see a raw driver error.
//
// Column names are normalized to upper case so results look the same
// from every backend (Postgres folds unquoted identifiers to lower
// case, SQLite preserves whatever the statement wrote).
func Execute(ctx context.Context, q Querier, sqlText string, params []any) (table.Table, error) {
	queryID := uuid.NewString()

	rows, err := q.QueryContext(ctx, sqlText, params...)
	if err != nil {
		return table.Table{}, &QueryError{QueryID: queryID, Err: err}
	}
	defer rows.Close()

	cols, err := rows.Columns()
	if err != nil {
		return table.Table{}, &QueryError{QueryID: queryID, Err: err}
	}
	for i, c := range cols {
		cols[i] = strings.ToUpper(c)
	}

	result := table.Table{Columns: cols}
	for rows.Next() {
		values := make([]any, len(cols))
		ptrs := make([]any, len(cols))
		for i := range values {
			ptrs[i] = &values[i]
		}
		if err := rows.Scan(ptrs...); err != nil {
			return table.Table{Columns: cols}, &QueryError{QueryID: queryID, Err: err}
		}
		for i, v := range values {
			if b, ok := v.([]byte); ok {
				values[i] = string(b)
			}
		}
		result.Rows = append(result.Rows, values)
	}
	if err := rows.Err(); err != nil {
		return table.Table{Columns: cols}, &QueryError{QueryID: queryID, Err: err}
	}

	return result, nil
}
