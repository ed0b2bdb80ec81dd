package export

import (
	"fmt"
	"io"

	"github.com/xuri/excelize/v2"

	"github.com/ndolage/macroquery/internal/table"
)

const (
	dataSheet     = "Data"
	metadataSheet = "Metadata"
)

// WriteXLSX writes a workbook with the result on a "Data" sheet and,
// when meta is non-nil, the indicator/unit/location/source inventory on
// a "Metadata" sheet.
func WriteXLSX(w io.Writer, data table.Table, meta *table.Table) error {
	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName("Sheet1", dataSheet); err != nil {
		return fmt.Errorf("rename data sheet: %w", err)
	}
	if err := writeSheet(f, dataSheet, data); err != nil {
		return err
	}

	if meta != nil {
		if _, err := f.NewSheet(metadataSheet); err != nil {
			return fmt.Errorf("add metadata sheet: %w", err)
		}
		if err := writeSheet(f, metadataSheet, *meta); err != nil {
			return err
		}
	}

	if _, err := f.WriteTo(w); err != nil {
		return fmt.Errorf("write workbook: %w", err)
	}
	return nil
}

func writeSheet(f *excelize.File, sheet string, t table.Table) error {
	header := make([]any, len(t.Columns))
	for i, c := range t.Columns {
		header[i] = c
	}
	if err := f.SetSheetRow(sheet, "A1", &header); err != nil {
		return fmt.Errorf("write %s header: %w", sheet, err)
	}

	for r, row := range t.Rows {
		cell, err := excelize.CoordinatesToCellName(1, r+2)
		if err != nil {
			return err
		}
		if err := f.SetSheetRow(sheet, cell, &row); err != nil {
			return fmt.Errorf("write %s row %d: %w", sheet, r+1, err)
		}
	}
	return nil
}
