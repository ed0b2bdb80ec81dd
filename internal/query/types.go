package query

// DataGroup selects which fact table a request reads from.
//
// The warehouse keeps CPI and BOP observations in two parallel fact
// tables with identical shape. The data group also decides how FLOW
// indicators aggregate: BOP flows are summed across a period, CPI flows
// are averaged. See querysql for the exact rules.
type DataGroup string

const (
	// GroupCPI reads consumer price index facts (FACT_CPI).
	GroupCPI DataGroup = "CPI"

	// GroupBOP reads balance-of-payments facts (FACT_BOP).
	GroupBOP DataGroup = "BOP"
)

// Aggregation selects the time granularity of a request.
type Aggregation string

const (
	// Monthly returns raw fact rows, one per observed month.
	Monthly Aggregation = "monthly"

	// Quarterly groups by calendar quarter. FLOW indicators aggregate
	// across the quarter; STOCK indicators sample the quarter-end month.
	Quarterly Aggregation = "quarterly"

	// Annual groups by calendar year. STOCK indicators sample December.
	Annual Aggregation = "annual"

	// FiscalYear groups by the July–June fiscal year, labeled by its
	// starting calendar year ("FY2021/2022"). STOCK indicators sample
	// June. The year bounds widen to capture full fiscal years at both
	// ends of the range.
	FiscalYear Aggregation = "fiscal_year"
)

// Request describes one data retrieval.
//
// Zero-valued optional fields mean "not supplied": StartMonth/EndMonth
// of 0 disable the month-of-year filter, and nil or empty IndicatorNames/
// UnitNames disable the respective IN-clause. An empty slice and a nil
// slice are deliberately equivalent; both mean "no filter", never
// "match nothing".
type Request struct {
	DataGroup DataGroup `json:"dataGroup" yaml:"dataGroup"`

	// StartYear and EndYear bound the inclusive calendar year range.
	// Under FiscalYear aggregation they bound fiscal years instead, and
	// the underlying scan widens to the trailing July–December of
	// StartYear-1 and the leading January–June of EndYear+1.
	StartYear int `json:"startYear" yaml:"startYear"`
	EndYear   int `json:"endYear" yaml:"endYear"`

	// StartMonth and EndMonth optionally restrict results to a
	// month-of-year range (1–12). Only meaningful together, and never
	// under FiscalYear aggregation.
	StartMonth int `json:"startMonth,omitempty" yaml:"startMonth,omitempty"`
	EndMonth   int `json:"endMonth,omitempty" yaml:"endMonth,omitempty"`

	// Location is an exact-match filter on the location name.
	Location string `json:"location" yaml:"location"`

	IndicatorNames []string `json:"indicatorNames,omitempty" yaml:"indicatorNames,omitempty"`
	UnitNames      []string `json:"unitNames,omitempty" yaml:"unitNames,omitempty"`

	Aggregation Aggregation `json:"aggregation" yaml:"aggregation"`

	// WideFormat pivots the result to one row per (time, location) with
	// one column per indicator. The query then projects only the four
	// pivot columns; the full dimension projection is kept for long
	// results.
	WideFormat bool `json:"wideFormat,omitempty" yaml:"wideFormat,omitempty"`
}

// HasMonthFilter reports whether both month bounds are supplied.
// A single bound is ignored, matching the warehouse's original contract.
func (r Request) HasMonthFilter() bool {
	return r.StartMonth != 0 && r.EndMonth != 0
}
