package catalog

import (
	"context"
	"database/sql"
	"fmt"
	"slices"

	"golang.org/x/text/collate"
	"golang.org/x/text/language"

	"github.com/ndolage/macroquery/internal/query"
	"github.com/ndolage/macroquery/internal/querysql"
	"github.com/ndolage/macroquery/internal/warehouse"
)

// Indicator is one row of the indicator dimension as shown to the
// analyst. Section falls back to the indicator type when the warehouse
// carries no explicit section.
type Indicator struct {
	Name        string `json:"name"`
	Description string `json:"description,omitempty"`
	Section     string `json:"section,omitempty"`
}

// FactCounts are the quick sidebar statistics: total rows per fact
// table. Lookup failures leave the counts at zero.
type FactCounts struct {
	CPI int64 `json:"cpi"`
	BOP int64 `json:"bop"`
}

// Service answers reference lookups for one warehouse session.
type Service struct {
	q       warehouse.Querier
	dialect querysql.Dialect

	names      *ttlCache[[]string]
	indicators *ttlCache[[]Indicator]
	unitsFor   *ttlCache[[]string]

	collator *collate.Collator
}

// New builds a catalog service over an open warehouse handle. The
// caches belong to this service; share the service, not the handle, if
// two views want the same snapshots.
func New(q warehouse.Querier, dialect querysql.Dialect) *Service {
	return &Service{
		q:          q,
		dialect:    dialect,
		names:      newTTLCache[[]string](refTTL),
		indicators: newTTLCache[[]Indicator](refTTL),
		unitsFor:   newTTLCache[[]string](unitsTTL),
		// Warehouse collation differs per backend; sorting client-side
		// keeps list ordering stable for the UI.
		collator: collate.New(language.English),
	}
}

// Locations lists the known location names, ordered.
func (s *Service) Locations(ctx context.Context) Lookup[[]string] {
	return s.nameList(ctx, "locations",
		"SELECT DISTINCT LOCATION_NAME FROM DIM_LOCATION ORDER BY LOCATION_NAME")
}

// Units lists the known measurement unit labels, ordered.
func (s *Service) Units(ctx context.Context) Lookup[[]string] {
	return s.nameList(ctx, "units",
		"SELECT DISTINCT UNIT FROM DIM_UNITS ORDER BY UNIT")
}

func (s *Service) nameList(ctx context.Context, key, sqlText string) Lookup[[]string] {
	if cached, ok := s.names.get(key); ok {
		return Ok(slices.Clone(cached))
	}

	result, err := warehouse.Execute(ctx, s.q, sqlText, nil)
	if err != nil {
		return Degraded([]string{}, err.Error())
	}

	list := make([]string, 0, len(result.Rows))
	for _, row := range result.Rows {
		if row[0] != nil {
			list = append(list, fmt.Sprint(row[0]))
		}
	}
	s.collator.SortStrings(list)

	s.names.put(key, list)
	return Ok(slices.Clone(list))
}

// Indicators lists indicators, optionally restricted to a section
// ("CPI", "BOP"). Resolution ladder:
//
//  1. Match the explicit SECTION attribute, case-insensitively; rows
//     without a SECTION match on INDICATOR_TYPE instead.
//  2. If that query fails (older schemas have no SECTION column at
//     all), retry with a description-only query and no section filter,
//     returning every indicator.
//  3. If that fails too, degrade to an empty list.
func (s *Service) Indicators(ctx context.Context, section string) Lookup[[]Indicator] {
	cacheKey := "indicators\x00" + section
	if cached, ok := s.indicators.get(cacheKey); ok {
		return Ok(slices.Clone(cached))
	}

	list, err := s.queryIndicators(ctx, section)
	if err != nil {
		list, err = s.queryIndicatorsBare(ctx)
		if err != nil {
			return Degraded([]Indicator{}, err.Error())
		}
	}

	s.indicators.put(cacheKey, list)
	return Ok(slices.Clone(list))
}

func (s *Service) queryIndicators(ctx context.Context, section string) ([]Indicator, error) {
	sqlText := "SELECT INDICATOR_NAME, DESCRIPTION, COALESCE(SECTION, INDICATOR_TYPE) AS SECTION FROM DIM_INDICATOR"
	var params []any
	if section != "" {
		sqlText += " WHERE (UPPER(SECTION) = UPPER(" + s.dialect.Placeholder(1) + ")" +
			" OR (SECTION IS NULL AND UPPER(INDICATOR_TYPE) = UPPER(" + s.dialect.Placeholder(2) + ")))"
		params = []any{section, section}
	}
	sqlText += " ORDER BY INDICATOR_NAME"

	return s.scanIndicators(ctx, sqlText, params)
}

// queryIndicatorsBare is the schema-drift fallback: names and
// descriptions only, no section filter.
func (s *Service) queryIndicatorsBare(ctx context.Context) ([]Indicator, error) {
	return s.scanIndicators(ctx,
		"SELECT INDICATOR_NAME, DESCRIPTION FROM DIM_INDICATOR ORDER BY INDICATOR_NAME", nil)
}

func (s *Service) scanIndicators(ctx context.Context, sqlText string, params []any) ([]Indicator, error) {
	result, err := warehouse.Execute(ctx, s.q, sqlText, params)
	if err != nil {
		return nil, err
	}

	list := make([]Indicator, 0, len(result.Rows))
	for _, row := range result.Rows {
		ind := Indicator{Name: fmt.Sprint(row[0])}
		if len(row) > 1 && row[1] != nil {
			ind.Description = fmt.Sprint(row[1])
		}
		if len(row) > 2 && row[2] != nil {
			ind.Section = fmt.Sprint(row[2])
		}
		list = append(list, ind)
	}
	return list, nil
}

// IndicatorOptions resolves the indicator names offered for a data
// group, trying three strategies in order: the section-filtered
// dimension lookup, the distinct names present in the group's fact
// table, and finally every indicator in the dimension.
func (s *Service) IndicatorOptions(ctx context.Context, group query.DataGroup) Lookup[[]string] {
	if ind := s.Indicators(ctx, string(group)); !ind.Degraded && len(ind.Data) > 0 {
		names := make([]string, len(ind.Data))
		for i, d := range ind.Data {
			names[i] = d.Name
		}
		s.collator.SortStrings(names)
		return Ok(names)
	}

	if fact, ok := querysql.FactTable(group); ok {
		fromFact := s.nameList(ctx, "options\x00"+string(group),
			"SELECT DISTINCT i.INDICATOR_NAME FROM "+fact+" f"+
				" JOIN DIM_INDICATOR i ON f.INDICATOR_ID = i.INDICATOR_ID"+
				" ORDER BY i.INDICATOR_NAME")
		if !fromFact.Degraded && len(fromFact.Data) > 0 {
			return fromFact
		}
	}

	all := s.nameList(ctx, "options\x00all",
		"SELECT DISTINCT INDICATOR_NAME FROM DIM_INDICATOR ORDER BY INDICATOR_NAME")
	if all.Degraded {
		return Degraded([]string{}, all.Reason)
	}
	return all
}

// IndicatorDescription fetches one indicator's description. The second
// return is false when the indicator is unknown, has no description, or
// the lookup failed.
func (s *Service) IndicatorDescription(ctx context.Context, name string) (string, bool) {
	sqlText := "SELECT DESCRIPTION FROM DIM_INDICATOR WHERE INDICATOR_NAME = " + s.dialect.Placeholder(1)
	result, err := warehouse.Execute(ctx, s.q, sqlText, []any{name})
	if err != nil || result.Empty() || result.Rows[0][0] == nil {
		return "", false
	}
	desc := fmt.Sprint(result.Rows[0][0])
	return desc, desc != ""
}

// Counts returns the fact table row counts, zero on any failure.
func (s *Service) Counts(ctx context.Context) FactCounts {
	var counts FactCounts
	counts.CPI = s.countFacts(ctx, query.GroupCPI)
	counts.BOP = s.countFacts(ctx, query.GroupBOP)
	return counts
}

func (s *Service) countFacts(ctx context.Context, group query.DataGroup) int64 {
	fact, ok := querysql.FactTable(group)
	if !ok {
		return 0
	}
	result, err := warehouse.Execute(ctx, s.q, "SELECT COUNT(*) FROM "+fact, nil)
	if err != nil || result.Empty() {
		return 0
	}
	switch v := result.Rows[0][0].(type) {
	case int64:
		return v
	case sql.NullInt64:
		return v.Int64
	default:
		return 0
	}
}
