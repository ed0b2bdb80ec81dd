package table

import "fmt"

// The four columns a long result must carry, and the only four, for the
// pivot to apply.
const (
	ColTimePeriod    = "TIME_PERIOD"
	ColLocationName  = "LOCATION_NAME"
	ColIndicatorName = "INDICATOR_NAME"
	ColValue         = "VALUE"
)

// ToWide pivots a long result (one row per time, location and
// indicator) into a wide one (one row per time and location, one column
// per indicator).
//
// The pivot applies only when the input carries exactly the four
// columns TIME_PERIOD, LOCATION_NAME, INDICATOR_NAME and VALUE. Any
// extra column (DESCRIPTION, UNIT, ...) disqualifies it and the input
// is returned unchanged; extras would force either dropping data or
// guessing an aggregation, and neither is this function's call.
//
// Rows group by (TIME_PERIOD, LOCATION_NAME) in first-appearance order,
// which is the order the query builder declared. When a group sees the
// same indicator twice, the first value wins and later duplicates are
// dropped. Indicators absent for a group leave a nil cell, not zero.
//
// Output shape: one row per distinct (time, location) pair, and
// 2 + number-of-distinct-indicators columns.
func ToWide(t Table) Table {
	if len(t.Columns) != 4 || !t.HasColumns(ColTimePeriod, ColLocationName, ColIndicatorName, ColValue) {
		return t
	}

	ti := t.ColumnIndex(ColTimePeriod)
	li := t.ColumnIndex(ColLocationName)
	ii := t.ColumnIndex(ColIndicatorName)
	vi := t.ColumnIndex(ColValue)

	type groupKey struct{ time, loc string }

	var (
		groupOrder []groupKey
		groupCells = map[groupKey]map[string]any{}
		groupTime  = map[groupKey]any{}
		groupLoc   = map[groupKey]any{}
		indOrder   []string
		indSeen    = map[string]bool{}
	)

	for _, row := range t.Rows {
		key := groupKey{time: fmt.Sprint(row[ti]), loc: fmt.Sprint(row[li])}
		cells, ok := groupCells[key]
		if !ok {
			cells = map[string]any{}
			groupCells[key] = cells
			groupTime[key] = row[ti]
			groupLoc[key] = row[li]
			groupOrder = append(groupOrder, key)
		}

		ind := fmt.Sprint(row[ii])
		if !indSeen[ind] {
			indSeen[ind] = true
			indOrder = append(indOrder, ind)
		}
		if _, dup := cells[ind]; dup {
			continue // first value wins
		}
		cells[ind] = row[vi]
	}

	out := Table{Columns: append([]string{ColTimePeriod, ColLocationName}, indOrder...)}
	for _, key := range groupOrder {
		row := make([]any, 0, len(out.Columns))
		row = append(row, groupTime[key], groupLoc[key])
		for _, ind := range indOrder {
			row = append(row, groupCells[key][ind]) // nil when absent
		}
		out.Rows = append(out.Rows, row)
	}
	return out
}
