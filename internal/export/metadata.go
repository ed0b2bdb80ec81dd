package export

import (
	"context"

	"github.com/ndolage/macroquery/internal/query"
	"github.com/ndolage/macroquery/internal/querysql"
	"github.com/ndolage/macroquery/internal/table"
	"github.com/ndolage/macroquery/internal/warehouse"
)

// Metadata fetches the workbook's "Metadata" sheet content: one row per
// distinct indicator, unit, location and source combination backing the
// exported data. Pass the indicators the export was filtered to, or nil
// for all of them.
func Metadata(ctx context.Context, q warehouse.Querier, d querysql.Dialect, group query.DataGroup, indicatorNames []string) (table.Table, error) {
	sqlText, params, err := querysql.MetadataSQL(d, group, indicatorNames)
	if err != nil {
		return table.Table{}, err
	}
	return warehouse.Execute(ctx, q, sqlText, params)
}
