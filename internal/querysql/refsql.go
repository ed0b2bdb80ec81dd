package querysql

import (
	"strings"

	"github.com/ndolage/macroquery/internal/query"
)

// FactTable resolves the allow-listed fact table for a data group.
func FactTable(group query.DataGroup) (string, bool) {
	t, ok := factTables[group]
	return t, ok
}

// UnitsForSQL builds the lookup behind the units-for-indicators
// resolver: the distinct units actually attached to non-null facts for
// the given indicators.
//
// Callers must handle the empty-indicators case themselves (it means an
// empty result, not "all units"); passing no names here is a programmer
// error and returns *query.InvalidArgumentError.
func UnitsForSQL(d Dialect, group query.DataGroup, indicatorNames []string) (string, []any, error) {
	fact, ok := factTables[group]
	if !ok {
		return "", nil, &query.InvalidArgumentError{
			Field:   "dataGroup",
			Message: string(group) + ": must be CPI or BOP",
		}
	}
	if len(indicatorNames) == 0 {
		return "", nil, &query.InvalidArgumentError{
			Field:   "indicatorNames",
			Message: "empty list resolves to no units without a query",
		}
	}

	b := &binder{dialect: d}
	lines := []string{
		"SELECT DISTINCT u.UNIT",
		"FROM " + fact + " f",
		"JOIN DIM_INDICATOR i ON f.INDICATOR_ID = i.INDICATOR_ID",
		"JOIN DIM_UNITS u ON f.UNIT_ID = u.UNIT_ID",
		"WHERE i.INDICATOR_NAME IN (" + b.bindList(indicatorNames) + ")",
		"AND f.VALUE IS NOT NULL",
		"ORDER BY u.UNIT",
	}
	return strings.Join(lines, "\n"), b.values, nil
}

// MetadataSQL builds the export metadata lookup: one row per distinct
// indicator, unit, location and source combination present in the fact
// data. Same join shape as UnitsForSQL plus the location dimension and
// the indicator's SOURCE attribute. The indicator filter is optional.
func MetadataSQL(d Dialect, group query.DataGroup, indicatorNames []string) (string, []any, error) {
	fact, ok := factTables[group]
	if !ok {
		return "", nil, &query.InvalidArgumentError{
			Field:   "dataGroup",
			Message: string(group) + ": must be CPI or BOP",
		}
	}

	b := &binder{dialect: d}
	lines := []string{
		"SELECT DISTINCT i.INDICATOR_NAME, u.UNIT, l.LOCATION_NAME, i.SOURCE",
		"FROM " + fact + " f",
		"JOIN DIM_INDICATOR i ON f.INDICATOR_ID = i.INDICATOR_ID",
		"JOIN DIM_UNITS u ON f.UNIT_ID = u.UNIT_ID",
		"JOIN DIM_LOCATION l ON f.LOCATION_ID = l.LOCATION_ID",
		"WHERE f.VALUE IS NOT NULL",
	}
	if len(indicatorNames) > 0 {
		lines = append(lines, "AND i.INDICATOR_NAME IN ("+b.bindList(indicatorNames)+")")
	}
	lines = append(lines, "ORDER BY i.INDICATOR_NAME, u.UNIT, l.LOCATION_NAME")
	return strings.Join(lines, "\n"), b.values, nil
}
