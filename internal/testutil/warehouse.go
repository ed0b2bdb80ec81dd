// Package testutil seeds throwaway SQLite warehouses with the star
// schema the pipeline queries, for executor, catalog and pipeline
// tests.
package testutil

import (
	"database/sql"
	"fmt"
	"testing"

	_ "github.com/mattn/go-sqlite3"
	"github.com/stretchr/testify/require"
)

// Schema is the synthetic star schema: one time dimension, location,
// indicator and unit dimensions, and the two parallel fact tables.
const Schema = `
CREATE TABLE DIM_TIME (
    TIME_ID        INTEGER PRIMARY KEY,
    TIME_PERIOD    TEXT NOT NULL,
    YEAR           INTEGER NOT NULL,
    MONTH          INTEGER NOT NULL,
    QUARTER        INTEGER NOT NULL,
    IS_MONTH_END   INTEGER NOT NULL DEFAULT 1,
    IS_QUARTER_END INTEGER NOT NULL DEFAULT 0,
    UNIQUE (YEAR, MONTH)
);

CREATE TABLE DIM_LOCATION (
    LOCATION_ID   INTEGER PRIMARY KEY AUTOINCREMENT,
    LOCATION_NAME TEXT NOT NULL UNIQUE
);

CREATE TABLE DIM_INDICATOR (
    INDICATOR_ID   INTEGER PRIMARY KEY AUTOINCREMENT,
    INDICATOR_NAME TEXT NOT NULL UNIQUE,
    DESCRIPTION    TEXT,
    INDICATOR_TYPE TEXT NOT NULL,
    SECTION        TEXT,
    SOURCE         TEXT
);

CREATE TABLE DIM_UNITS (
    UNIT_ID INTEGER PRIMARY KEY AUTOINCREMENT,
    UNIT    TEXT NOT NULL UNIQUE
);

CREATE TABLE FACT_CPI (
    TIME_ID      INTEGER NOT NULL REFERENCES DIM_TIME,
    LOCATION_ID  INTEGER NOT NULL REFERENCES DIM_LOCATION,
    INDICATOR_ID INTEGER NOT NULL REFERENCES DIM_INDICATOR,
    UNIT_ID      INTEGER REFERENCES DIM_UNITS,
    VALUE        REAL
);

CREATE TABLE FACT_BOP (
    TIME_ID      INTEGER NOT NULL REFERENCES DIM_TIME,
    LOCATION_ID  INTEGER NOT NULL REFERENCES DIM_LOCATION,
    INDICATOR_ID INTEGER NOT NULL REFERENCES DIM_INDICATOR,
    UNIT_ID      INTEGER REFERENCES DIM_UNITS,
    VALUE        REAL
);
`

// OpenWarehouse opens an in-memory SQLite database with the star schema
// applied. The handle closes with the test.
func OpenWarehouse(t *testing.T) *sql.DB {
	t.Helper()

	db, err := sql.Open("sqlite3", ":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	// :memory: databases vanish per connection; a single connection
	// keeps every statement on the same database.
	db.SetMaxOpenConns(1)

	_, err = db.Exec(Schema)
	require.NoError(t, err)
	return db
}

// AddMonth inserts one monthly time row and returns its TIME_ID
// (year*100+month, so tests can reference it without a lookup).
// TIME_PERIOD is labeled "YYYY-MM"; the quarter-end flag is set for
// March, June, September and December.
func AddMonth(t *testing.T, db *sql.DB, year, month int) int64 {
	t.Helper()

	id := int64(year*100 + month)
	quarter := (month-1)/3 + 1
	quarterEnd := 0
	if month%3 == 0 {
		quarterEnd = 1
	}
	_, err := db.Exec(
		`INSERT INTO DIM_TIME (TIME_ID, TIME_PERIOD, YEAR, MONTH, QUARTER, IS_QUARTER_END) VALUES (?, ?, ?, ?, ?, ?)`,
		id, fmt.Sprintf("%04d-%02d", year, month), year, month, quarter, quarterEnd)
	require.NoError(t, err)
	return id
}

// AddLocation inserts a location and returns its id.
func AddLocation(t *testing.T, db *sql.DB, name string) int64 {
	t.Helper()
	return insertReturningID(t, db, `INSERT INTO DIM_LOCATION (LOCATION_NAME) VALUES (?)`, name)
}

// AddIndicator inserts an indicator. Empty description, section or
// source insert as NULL.
func AddIndicator(t *testing.T, db *sql.DB, name, indicatorType, description, section, source string) int64 {
	t.Helper()
	return insertReturningID(t, db,
		`INSERT INTO DIM_INDICATOR (INDICATOR_NAME, INDICATOR_TYPE, DESCRIPTION, SECTION, SOURCE) VALUES (?, ?, ?, ?, ?)`,
		name, indicatorType, nullable(description), nullable(section), nullable(source))
}

// AddUnit inserts a measurement unit and returns its id.
func AddUnit(t *testing.T, db *sql.DB, unit string) int64 {
	t.Helper()
	return insertReturningID(t, db, `INSERT INTO DIM_UNITS (UNIT) VALUES (?)`, unit)
}

// AddFact inserts one observation into the named fact table. Pass a
// unitID of 0 for a fact without a unit.
func AddFact(t *testing.T, db *sql.DB, factTable string, timeID, locationID, indicatorID, unitID int64, value float64) {
	t.Helper()

	if factTable != "FACT_CPI" && factTable != "FACT_BOP" {
		t.Fatalf("unknown fact table %q", factTable)
	}
	var unit any
	if unitID != 0 {
		unit = unitID
	}
	_, err := db.Exec(
		`INSERT INTO `+factTable+` (TIME_ID, LOCATION_ID, INDICATOR_ID, UNIT_ID, VALUE) VALUES (?, ?, ?, ?, ?)`,
		timeID, locationID, indicatorID, unit, value)
	require.NoError(t, err)
}

func insertReturningID(t *testing.T, db *sql.DB, sqlText string, args ...any) int64 {
	t.Helper()
	res, err := db.Exec(sqlText, args...)
	require.NoError(t, err)
	id, err := res.LastInsertId()
	require.NoError(t, err)
	return id
}

func nullable(s string) any {
	if s == "" {
		return nil
	}
	return s
}
