// Package querysql compiles a validated query.Request into parameterized
// SQL for the star-schema warehouse.
//
// The compiler is a tagged-variant builder: one branch per aggregation
// level, each producing a (sql, params) pair. User-supplied values are
// never interpolated into the SQL text; only structural fragments are,
// and the fact table is chosen from a fixed two-entry allow-list keyed
// by data group.
//
// Two dialects are supported: Postgres ($n placeholders) for the
// production warehouse and SQLite (? placeholders) for local and test
// databases. The dialects differ only in placeholder style and text
// casts; the emitted query shape is identical.
package querysql
