package catalog

import (
	"context"
	"fmt"
	"slices"
	"strings"

	"github.com/ndolage/macroquery/internal/query"
	"github.com/ndolage/macroquery/internal/querysql"
	"github.com/ndolage/macroquery/internal/warehouse"
)

// UnitsFor resolves the distinct measurement units actually attached to
// non-null facts for the given indicators.
//
// An empty indicator list is an empty result, never "all units"; that
// case short-circuits without touching the warehouse. Failures degrade
// to an empty list. Hits cache for the short units interval, keyed by
// group and name set (order-insensitive).
func (s *Service) UnitsFor(ctx context.Context, group query.DataGroup, indicatorNames []string) Lookup[[]string] {
	if len(indicatorNames) == 0 {
		return Ok([]string{})
	}

	key := unitsForKey(group, indicatorNames)
	if cached, ok := s.unitsFor.get(key); ok {
		return Ok(slices.Clone(cached))
	}

	sqlText, params, err := querysql.UnitsForSQL(s.dialect, group, indicatorNames)
	if err != nil {
		return Degraded([]string{}, err.Error())
	}

	result, err := warehouse.Execute(ctx, s.q, sqlText, params)
	if err != nil {
		return Degraded([]string{}, err.Error())
	}

	units := make([]string, 0, len(result.Rows))
	for _, row := range result.Rows {
		if row[0] != nil {
			units = append(units, fmt.Sprint(row[0]))
		}
	}
	s.collator.SortStrings(units)

	s.unitsFor.put(key, units)
	return Ok(slices.Clone(units))
}

func unitsForKey(group query.DataGroup, names []string) string {
	sorted := slices.Clone(names)
	slices.Sort(sorted)
	return string(group) + "\x00" + strings.Join(sorted, "\x00")
}
