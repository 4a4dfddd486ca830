package screen

// DetailItem is one labelled value of a detail view.
type DetailItem struct {
	Label string
	Cell  Cell
}

// BuildDetail formats rec for a detail view using columns.
func BuildDetail(columns []Column, rec Record) []DetailItem {
	out := make([]DetailItem, 0, len(columns))
	for _, col := range columns {
		out = append(out, DetailItem{Label: col.Label, Cell: formatCell(col, rec)})
	}
	return out
}
