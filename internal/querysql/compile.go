package querysql

import (
	"strings"

	"github.com/ndolage/macroquery/internal/query"
)

// factTables is the fixed allow-list of fact tables. The data group is
// the only request field that ever selects a structural SQL fragment;
// everything else binds as a parameter.
var factTables = map[query.DataGroup]string{
	query.GroupCPI: "FACT_CPI",
	query.GroupBOP: "FACT_BOP",
}

// Compiler compiles query.Request values into SQL for one dialect.
type Compiler struct {
	Dialect Dialect
}

// NewCompiler creates a Compiler for the given dialect.
func NewCompiler(d Dialect) *Compiler {
	return &Compiler{Dialect: d}
}

// binder accumulates bound parameters and hands out placeholders in
// bind order. Values are appended exactly once per placeholder, so
// len(values) always equals the number of placeholders emitted.
type binder struct {
	dialect Dialect
	values  []any
}

func (b *binder) bind(v any) string {
	b.values = append(b.values, v)
	return b.dialect.Placeholder(len(b.values))
}

func (b *binder) bindList(vals []string) string {
	ph := make([]string, len(vals))
	for i, v := range vals {
		ph[i] = b.bind(v)
	}
	return strings.Join(ph, ", ")
}

// periodSpec is one aggregation variant: how to label the period, which
// columns identify it, and which month holds the period-end observation
// for STOCK indicators.
type periodSpec struct {
	label     func(d Dialect) string // TIME_PERIOD expression
	extraCols func(d Dialect) string // period columns after TIME_PERIOD in long form
	groupBy   func(d Dialect) string // period part of GROUP BY
	orderBy   func(d Dialect) string // period part of ORDER BY
	stockWhen string                 // predicate selecting the period-end month
}

const (
	fiscalYearExpr     = "CASE WHEN t.MONTH >= 7 THEN t.YEAR ELSE t.YEAR - 1 END"
	fiscalYearNextExpr = "CASE WHEN t.MONTH >= 7 THEN t.YEAR + 1 ELSE t.YEAR END"
)

var periodSpecs = map[query.Aggregation]periodSpec{
	query.Quarterly: {
		label: func(d Dialect) string {
			return d.CastText("t.YEAR") + " || 'Q' || " + d.CastText("t.QUARTER")
		},
		extraCols: func(Dialect) string { return "t.YEAR, t.QUARTER" },
		groupBy:   func(Dialect) string { return "t.YEAR, t.QUARTER" },
		orderBy:   func(Dialect) string { return "t.YEAR, t.QUARTER" },
		stockWhen: "t.IS_QUARTER_END = 1",
	},
	query.Annual: {
		label:     func(d Dialect) string { return d.CastText("t.YEAR") },
		extraCols: func(Dialect) string { return "t.YEAR" },
		groupBy:   func(Dialect) string { return "t.YEAR" },
		orderBy:   func(Dialect) string { return "t.YEAR" },
		stockWhen: "t.MONTH = 12",
	},
	query.FiscalYear: {
		label: func(d Dialect) string {
			return "'FY' || " + d.CastText(fiscalYearExpr) + " || '/' || " + d.CastText(fiscalYearNextExpr)
		},
		extraCols: func(Dialect) string { return fiscalYearExpr + " AS FISCAL_YEAR" },
		groupBy:   func(Dialect) string { return fiscalYearExpr + ", " + fiscalYearNextExpr },
		orderBy:   func(Dialect) string { return fiscalYearExpr },
		stockWhen: "t.MONTH = 6",
	},
}

// Compile converts a request into (sql, params).
//
// The request is validated first: a malformed data group or year range
// returns *query.InvalidArgumentError and no SQL is built. Filters that
// reference unknown names compile fine and match zero rows.
//
// Parameter order is fixed: start year, end year, location, month bounds
// when present, indicator names, unit names. Each value binds exactly
// once, including the fiscal window, which is expressed on a linear
// month index so the two year bounds stay two parameters.
func (c *Compiler) Compile(r query.Request) (string, []any, error) {
	if err := query.Validate(r); err != nil {
		return "", nil, err
	}

	b := &binder{dialect: c.Dialect}

	var lines []string
	if r.Aggregation == query.Monthly {
		lines = c.compileMonthly(r, b)
	} else {
		lines = c.compileGrouped(r, b, periodSpecs[r.Aggregation])
	}

	return strings.Join(lines, "\n"), b.values, nil
}

// compileMonthly emits the raw fact scan: no grouping, the stored
// TIME_PERIOD label used as-is.
func (c *Compiler) compileMonthly(r query.Request, b *binder) []string {
	sel := "SELECT t.TIME_PERIOD, t.YEAR, t.MONTH, t.QUARTER, l.LOCATION_NAME, i.INDICATOR_NAME, i.INDICATOR_TYPE, i.DESCRIPTION, f.VALUE, u.UNIT"
	if r.WideFormat {
		sel = "SELECT t.TIME_PERIOD, l.LOCATION_NAME, i.INDICATOR_NAME, f.VALUE"
	}

	lines := []string{sel}
	lines = append(lines, fromLines(factTables[r.DataGroup])...)
	lines = append(lines, c.whereLines(r, b)...)
	lines = append(lines, "ORDER BY t.TIME_PERIOD, l.LOCATION_NAME, i.INDICATOR_NAME")
	return lines
}

// compileGrouped emits one of the aggregated variants. FLOW indicators
// aggregate across the period (SUM for BOP, AVG for CPI); STOCK
// indicators take the period-end observation, NULL when that exact row
// is absent. Unknown indicator types aggregate like flows.
func (c *Compiler) compileGrouped(r query.Request, b *binder, spec periodSpec) []string {
	flowAgg := "SUM"
	if r.DataGroup == query.GroupCPI {
		flowAgg = "AVG"
	}

	valueExpr := "CASE WHEN UPPER(i.INDICATOR_TYPE) = 'STOCK'" +
		" THEN MAX(CASE WHEN " + spec.stockWhen + " THEN f.VALUE END)" +
		" ELSE " + flowAgg + "(f.VALUE) END AS VALUE"

	var sel string
	if r.WideFormat {
		sel = "SELECT " + spec.label(c.Dialect) + " AS TIME_PERIOD, l.LOCATION_NAME, i.INDICATOR_NAME, " + valueExpr
	} else {
		sel = "SELECT " + spec.label(c.Dialect) + " AS TIME_PERIOD, " + spec.extraCols(c.Dialect) +
			", l.LOCATION_NAME, i.INDICATOR_NAME, i.INDICATOR_TYPE, i.DESCRIPTION, " + valueExpr + ", u.UNIT"
	}

	lines := []string{sel}
	lines = append(lines, fromLines(factTables[r.DataGroup])...)
	lines = append(lines, c.whereLines(r, b)...)
	lines = append(lines,
		"GROUP BY "+spec.groupBy(c.Dialect)+", l.LOCATION_NAME, i.INDICATOR_NAME, i.INDICATOR_TYPE, i.DESCRIPTION, u.UNIT",
		"ORDER BY "+spec.orderBy(c.Dialect)+", i.INDICATOR_NAME",
	)
	return lines
}

// fromLines is the shared star join. Units are LEFT-joined because fact
// rows may carry no unit.
func fromLines(factTable string) []string {
	return []string{
		"FROM " + factTable + " f",
		"JOIN DIM_TIME t ON f.TIME_ID = t.TIME_ID",
		"JOIN DIM_LOCATION l ON f.LOCATION_ID = l.LOCATION_ID",
		"JOIN DIM_INDICATOR i ON f.INDICATOR_ID = i.INDICATOR_ID",
		"LEFT JOIN DIM_UNITS u ON f.UNIT_ID = u.UNIT_ID",
	}
}

// whereLines emits the filter block in fixed bind order.
func (c *Compiler) whereLines(r query.Request, b *binder) []string {
	var lines []string

	if r.Aggregation == query.FiscalYear {
		// Widen to July of StartYear-1 through June of EndYear+1 so the
		// boundary fiscal years are complete. On the linear month index
		// those endpoints are StartYear*12-5 and EndYear*12+18, which
		// lets each year bound bind once.
		lines = append(lines, "WHERE t.YEAR * 12 + t.MONTH BETWEEN "+
			b.bind(r.StartYear)+" * 12 - 5 AND "+b.bind(r.EndYear)+" * 12 + 18")
	} else {
		lines = append(lines, "WHERE t.YEAR BETWEEN "+b.bind(r.StartYear)+" AND "+b.bind(r.EndYear))
	}

	lines = append(lines, "AND l.LOCATION_NAME = "+b.bind(r.Location))

	if r.HasMonthFilter() {
		lines = append(lines, "AND t.MONTH BETWEEN "+b.bind(r.StartMonth)+" AND "+b.bind(r.EndMonth))
	}
	if len(r.IndicatorNames) > 0 {
		lines = append(lines, "AND i.INDICATOR_NAME IN ("+b.bindList(r.IndicatorNames)+")")
	}
	if len(r.UnitNames) > 0 {
		lines = append(lines, "AND u.UNIT IN ("+b.bindList(r.UnitNames)+")")
	}
	return lines
}
