package query

// Validate checks a Request for structural validity.
//
// Rules:
//  1. DataGroup must be CPI or BOP (decides the fact table; anything
//     else would require interpolating an unknown table name).
//  2. StartYear must not exceed EndYear.
//  3. Aggregation must be one of the four known levels.
//  4. Month bounds, when supplied, must both be present, lie in 1–12,
//     and be ordered.
//  5. Month filters and fiscal-year aggregation are mutually exclusive:
//     a month-of-year slice has no meaning inside a July–June window.
//
// Validate is a pure function with no side effects. It returns nil or
// an *InvalidArgumentError; unknown indicator or unit names are not
// checked here, they simply match zero rows at execution time.
func Validate(r Request) error {
	switch r.DataGroup {
	case GroupCPI, GroupBOP:
	default:
		return invalidf("dataGroup", "%q: must be %q or %q", string(r.DataGroup), GroupCPI, GroupBOP)
	}

	if r.StartYear > r.EndYear {
		return invalidf("startYear", "%d exceeds endYear %d", r.StartYear, r.EndYear)
	}

	switch r.Aggregation {
	case Monthly, Quarterly, Annual, FiscalYear:
	default:
		return invalidf("aggregation", "%q: must be one of %q, %q, %q, %q",
			string(r.Aggregation), Monthly, Quarterly, Annual, FiscalYear)
	}

	if (r.StartMonth != 0) != (r.EndMonth != 0) {
		return invalidf("startMonth", "month bounds must be supplied together")
	}

	if r.HasMonthFilter() {
		if r.StartMonth < 1 || r.StartMonth > 12 {
			return invalidf("startMonth", "%d: must be 1–12", r.StartMonth)
		}
		if r.EndMonth < 1 || r.EndMonth > 12 {
			return invalidf("endMonth", "%d: must be 1–12", r.EndMonth)
		}
		if r.StartMonth > r.EndMonth {
			return invalidf("startMonth", "%d exceeds endMonth %d", r.StartMonth, r.EndMonth)
		}
		if r.Aggregation == FiscalYear {
			return invalidf("startMonth", "month filters cannot combine with fiscal_year aggregation")
		}
	}

	return nil
}
