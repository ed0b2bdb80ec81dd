package warehouse

import (
	"errors"
	"fmt"
)

// ConnectionError reports an authentication or network failure while
// acquiring the warehouse connection. It always carries the driver's
// message; connection failures are never silently swallowed.
type ConnectionError struct {
	// DSN is the target, with the password elided.
	DSN string

	// Err is the underlying driver error.
	Err error
}

func (e *ConnectionError) Error() string {
	return fmt.Sprintf("connect %s: %v", e.DSN, e.Err)
}

func (e *ConnectionError) Unwrap() error {
	return e.Err
}

// IsConnectionError reports whether err is a *ConnectionError.
func IsConnectionError(err error) bool {
	var ce *ConnectionError
	return errors.As(err, &ce)
}

// QueryError reports an execution-time SQL failure. The executor
// converts any driver fault into one of these plus an empty table, so
// callers only ever see a QueryError or a valid result.
type QueryError struct {
	// QueryID correlates the failure with verbose logs.
	QueryID string

	// Err is the underlying driver error.
	Err error
}

func (e *QueryError) Error() string {
	return fmt.Sprintf("query %s: %v", e.QueryID, e.Err)
}

func (e *QueryError) Unwrap() error {
	return e.Err
}

// IsQueryError reports whether err is a *QueryError.
func IsQueryError(err error) bool {
	var qe *QueryError
	return errors.As(err, &qe)
}
