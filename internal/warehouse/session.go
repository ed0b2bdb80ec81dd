package warehouse

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	_ "github.com/lib/pq"
	_ "github.com/mattn/go-sqlite3"

	"github.com/ndolage/macroquery/internal/query"
	"github.com/ndolage/macroquery/internal/querysql"
	"github.com/ndolage/macroquery/internal/table"
)

// Querier is the slice of database/sql the executor needs. *sql.DB,
// *sql.Conn and *sql.Tx all satisfy it.
type Querier interface {
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
}

// Session is one analyst's open warehouse connection plus its dialect.
// It is not shared across sessions; close it when the session ends.
type Session struct {
	db       *sql.DB
	dialect  querysql.Dialect
	compiler *querysql.Compiler
}

// Open connects to the warehouse described by cfg and verifies the
// connection with a ping. Failures return *ConnectionError with the
// driver's message.
func Open(cfg Config) (*Session, error) {
	dialect, err := cfg.Dialect()
	if err != nil {
		return nil, &ConnectionError{DSN: cfg.RedactedDSN(), Err: err}
	}

	db, err := sql.Open(dialect.DriverName(), cfg.DSN())
	if err != nil {
		return nil, &ConnectionError{DSN: cfg.RedactedDSN(), Err: err}
	}

	// One session, one connection. The warehouse handle is never shared.
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, &ConnectionError{DSN: cfg.RedactedDSN(), Err: err}
	}

	return NewSession(db, dialect), nil
}

// NewSession wraps an already-open handle. Tests use this with an
// in-memory SQLite database.
func NewSession(db *sql.DB, dialect querysql.Dialect) *Session {
	return &Session{
		db:       db,
		dialect:  dialect,
		compiler: querysql.NewCompiler(dialect),
	}
}

// Close releases the underlying handle.
func (s *Session) Close() error {
	if s.db == nil {
		return nil
	}
	return s.db.Close()
}

// DB exposes the raw handle for the catalog and exporters.
func (s *Session) DB() *sql.DB {
	return s.db
}

// Dialect returns the session's SQL dialect.
func (s *Session) Dialect() querysql.Dialect {
	return s.dialect
}

// PingResult is the outcome of a connection health check.
type PingResult struct {
	OK         bool   `json:"ok"`
	Message    string `json:"message"`
	ServerTime string `json:"server_time,omitempty"`
}

// Ping issues the dialect's trivial current-time query. It never
// returns an error; the failure is reported inside the result so the
// presentation layer can show it verbatim.
func (s *Session) Ping(ctx context.Context) PingResult {
	var raw any
	err := s.db.QueryRowContext(ctx, s.dialect.NowQuery()).Scan(&raw)
	if err != nil {
		return PingResult{OK: false, Message: fmt.Sprintf("connection failed: %v", err)}
	}

	var ts string
	switch v := raw.(type) {
	case time.Time:
		ts = v.Format(time.RFC3339)
	case []byte:
		ts = string(v)
	case string:
		ts = v
	default:
		ts = fmt.Sprint(v)
	}
	return PingResult{OK: true, Message: "connection active", ServerTime: ts}
}

// Run executes the whole pipeline for one request: compile, execute,
// and pivot when wide format was asked for. Errors are either
// *query.InvalidArgumentError (nothing was executed) or *QueryError
// (the result is the empty table).
func (s *Session) Run(ctx context.Context, r query.Request) (table.Table, error) {
	sqlText, params, err := s.compiler.Compile(r)
	if err != nil {
		return table.Table{}, err
	}

	result, err := Execute(ctx, s.db, sqlText, params)
	if err != nil {
		return result, err
	}

	if r.WideFormat {
		result = table.ToWide(result)
	}
	return result, nil
}
