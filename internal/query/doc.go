// Package query defines the request descriptor consumed by the query
// pipeline and its validation rules.
//
// A Request describes what an analyst wants to see: which data group
// (CPI or BOP), which years and months, which location, which indicators
// and units, and at what aggregation level. Requests are plain data;
// compilation to SQL lives in package querysql.
//
// Validation is strict about structurally impossible requests (unknown
// data group, inverted year range, out-of-range months) and rejects them
// with *InvalidArgumentError before any SQL is built. Filters that merely
// match nothing (unknown indicator names, unknown units) are not errors;
// they yield empty results downstream.
package query
