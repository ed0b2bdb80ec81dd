package export

import (
	"encoding/csv"
	"io"

	"github.com/ndolage/macroquery/internal/table"
)

// WriteCSV writes the table as comma-delimited UTF-8 with a header row
// and no index column. Nil cells become empty fields.
func WriteCSV(w io.Writer, t table.Table) error {
	cw := csv.NewWriter(w)

	if err := cw.Write(t.Columns); err != nil {
		return err
	}
	record := make([]string, len(t.Columns))
	for _, row := range t.Rows {
		for i, v := range row {
			record[i] = table.FormatCell(v)
		}
		if err := cw.Write(record); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}
