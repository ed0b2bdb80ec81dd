// Package table holds the tabular result type shared by the executor,
// the pivot, the exporters and the CLI renderers, plus the long-to-wide
// pivot itself.
package table

// Table is a column-named grid of values. Every row has the same arity
// as Columns. Cell values are whatever the database driver produced,
// with []byte already normalized to string by the executor; nil marks
// an absent value.
type Table struct {
	Columns []string
	Rows    [][]any
}

// Empty reports whether the table has no rows.
func (t Table) Empty() bool {
	return len(t.Rows) == 0
}

// ColumnIndex returns the position of the named column, or -1.
func (t Table) ColumnIndex(name string) int {
	for i, c := range t.Columns {
		if c == name {
			return i
		}
	}
	return -1
}

// HasColumns reports whether every named column is present.
func (t Table) HasColumns(names ...string) bool {
	for _, n := range names {
		if t.ColumnIndex(n) < 0 {
			return false
		}
	}
	return true
}
