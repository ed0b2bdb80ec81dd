package harness

import (
	"context"
	"database/sql"
	"fmt"
	"slices"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ndolage/macroquery/internal/querysql"
	"github.com/ndolage/macroquery/internal/table"
	"github.com/ndolage/macroquery/internal/testutil"
	"github.com/ndolage/macroquery/internal/warehouse"
)

// Run seeds an in-memory warehouse from the scenario, executes its
// request through the full pipeline and applies the expect clause.
// The resulting table is returned for golden comparison.
func Run(t *testing.T, s *Scenario) table.Table {
	t.Helper()

	db := testutil.OpenWarehouse(t)
	seed(t, s, db)

	sess := warehouse.NewSession(db, querysql.SQLite)
	result, err := sess.Run(context.Background(), s.Request)
	require.NoError(t, err, "pipeline failed for scenario %s", s.Name)

	if s.Expect != nil {
		assertExpect(t, s, result)
	}
	return result
}

// seed loads the scenario's dimension and fact rows. Time rows are
// derived from the facts, one per distinct (year, month).
func seed(t *testing.T, s *Scenario, db *sql.DB) {
	t.Helper()

	locations := map[string]int64{}
	for _, name := range s.Seed.Locations {
		locations[name] = testutil.AddLocation(t, db, name)
	}
	units := map[string]int64{}
	for _, name := range s.Seed.Units {
		units[name] = testutil.AddUnit(t, db, name)
	}
	indicators := map[string]int64{}
	for _, ind := range s.Seed.Indicators {
		indicators[ind.Name] = testutil.AddIndicator(t, db, ind.Name, ind.Type, ind.Description, ind.Section, ind.Source)
	}

	months := map[int]int64{}
	for _, f := range s.Seed.Facts {
		key := f.Year*100 + f.Month
		timeID, ok := months[key]
		if !ok {
			timeID = testutil.AddMonth(t, db, f.Year, f.Month)
			months[key] = timeID
		}
		testutil.AddFact(t, db, "FACT_"+f.Group,
			timeID, locations[f.Location], indicators[f.Indicator], units[f.Unit], f.Value)
	}
}

func assertExpect(t *testing.T, s *Scenario, result table.Table) {
	t.Helper()
	e := s.Expect

	if e.Rows != nil {
		assert.Len(t, result.Rows, *e.Rows, "scenario %s: row count", s.Name)
	}
	if len(e.Columns) > 0 {
		assert.Equal(t, e.Columns, result.Columns, "scenario %s: columns", s.Name)
	}
	for _, c := range e.Cells {
		got := cellValue(result, c.Row, c.Column)
		assert.Equal(t, c.Value, got,
			"scenario %s: cell row=%d column=%s", s.Name, c.Row, c.Column)
	}
}

func cellValue(tbl table.Table, row int, column string) string {
	col := slices.Index(tbl.Columns, column)
	if col < 0 || row >= len(tbl.Rows) {
		return fmt.Sprintf("<no cell row=%d column=%s>", row, column)
	}
	return table.FormatCell(tbl.Rows[row][col])
}
