package table

import (
	"fmt"
	"io"
	"strconv"
	"strings"
	"text/tabwriter"
)

// FormatCell renders a single cell the way the text renderer and the
// CSV exporter both show it: nil as empty, floats in plain decimal
// without trailing zeros (never scientific notation), everything
// else via fmt.
func FormatCell(v any) string {
	switch val := v.(type) {
	case nil:
		return ""
	case float64:
		return strconv.FormatFloat(val, 'f', -1, 64)
	case float32:
		return strconv.FormatFloat(float64(val), 'f', -1, 32)
	case string:
		return val
	default:
		return fmt.Sprint(val)
	}
}

// RenderText writes the table as aligned columns. The layout is
// deterministic for a given table, which the golden tests rely on.
func RenderText(w io.Writer, t Table) error {
	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)

	if _, err := fmt.Fprintln(tw, strings.Join(t.Columns, "\t")); err != nil {
		return err
	}
	for _, row := range t.Rows {
		cells := make([]string, len(row))
		for i, v := range row {
			cells[i] = FormatCell(v)
		}
		if _, err := fmt.Fprintln(tw, strings.Join(cells, "\t")); err != nil {
			return err
		}
	}
	return tw.Flush()
}

// RenderString is RenderText into a string, for tests and golden files.
func RenderString(t Table) string {
	var sb strings.Builder
	_ = RenderText(&sb, t)
	return sb.String()
}
