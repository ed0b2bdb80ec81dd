package querysql

import "fmt"

// Dialect abstracts the placeholder and cast syntax differences between
// the supported warehouse engines. Everything else in the emitted SQL is
// common to both.
type Dialect int

const (
	// Postgres uses $1, $2, ... placeholders and ::text casts.
	Postgres Dialect = iota

	// SQLite uses ? placeholders and CAST(... AS TEXT).
	SQLite
)

// String returns the dialect name as used in configuration files.
func (d Dialect) String() string {
	switch d {
	case Postgres:
		return "postgres"
	case SQLite:
		return "sqlite"
	default:
		return fmt.Sprintf("Dialect(%d)", int(d))
	}
}

// ParseDialect maps a configuration string to a Dialect.
func ParseDialect(s string) (Dialect, error) {
	switch s {
	case "postgres":
		return Postgres, nil
	case "sqlite", "sqlite3":
		return SQLite, nil
	default:
		return 0, fmt.Errorf("unknown dialect %q: must be postgres or sqlite", s)
	}
}

// DriverName returns the database/sql driver name for the dialect.
func (d Dialect) DriverName() string {
	if d == SQLite {
		return "sqlite3"
	}
	return "postgres"
}

// Placeholder returns the n-th bind placeholder (1-based).
func (d Dialect) Placeholder(n int) string {
	if d == Postgres {
		return fmt.Sprintf("$%d", n)
	}
	return "?"
}

// CastText wraps expr in the dialect's text cast, for synthesizing
// string TIME_PERIOD labels out of numeric year/quarter columns.
func (d Dialect) CastText(expr string) string {
	if d == Postgres {
		return "(" + expr + ")::text"
	}
	return "CAST(" + expr + " AS TEXT)"
}

// NowQuery returns the trivial current-timestamp statement used by the
// connection health check.
func (d Dialect) NowQuery() string {
	if d == SQLite {
		return "SELECT datetime('now')"
	}
	return "SELECT NOW()"
}
