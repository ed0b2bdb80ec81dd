// Package warehouse owns the connection to the star-schema warehouse
// and the query executor.
//
// A Session wraps one open database handle plus its SQL dialect. The
// handle is exclusively owned by the session for its lifetime and is
// never shared across sessions; reference caches (package catalog) are
// the only cross-call state anywhere in the pipeline, and they live
// outside this package.
//
// Failure boundaries:
//   - Opening a connection fails with *ConnectionError carrying the
//     driver's message.
//   - Executing a statement fails with *QueryError and an empty table;
//     raw driver faults never cross the executor boundary.
package warehouse
