package screen

import (
	"strings"
)

// Cell is one formatted table cell.
type Cell struct {
	Text string
	Kind ColumnKind
	Tone Tone
	// Badge marks cells rendered as a pill.
	Badge bool
}

// RowAction is a link or button rendered in the actions column.
type RowAction struct {
	Name    string
	Label   string
	Href    string
	Method  string
	Param   string
	Options []Option
	Current string
	Danger  bool
}

// Row is one table row. A placeholder row spans ColSpan columns.
type Row struct {
	ID          string
	Cells       []Cell
	Actions     []RowAction
	Placeholder bool
	ColSpan     int
}

// PageLink is one pagination control.
type PageLink struct {
	Number int
	Active bool
	Query  string
}

// FilterView is a filter control with its current value.
type FilterView struct {
	Filter
	Value string
}

// TableView is the render-ready model of a list screen.
type TableView struct {
	Name       string
	Title      string
	Headers    []string
	HasActions bool
	Rows       []Row
	Pagination []PageLink
	Filters    []FilterView
	CanCreate  bool
	Phase      Phase
	Page       int
	PageCount  int
	TotalCount int
}

// BuildView maps items to a TableView. It has no side effects.
func BuildView(def Definition, state State, items []Record, phase Phase) TableView {
	view := TableView{
		Name:       def.Name,
		Title:      def.Title,
		HasActions: def.HasRowActions(),
		CanCreate:  def.CanCreate,
		Phase:      phase,
		Page:       state.Query.Page,
		TotalCount: state.TotalCount,
	}
	for _, col := range def.Columns {
		view.Headers = append(view.Headers, col.Label)
	}
	for _, f := range def.Filters {
		view.Filters = append(view.Filters, FilterView{Filter: f, Value: state.Query.Filter(f.Name)})
	}

	if len(items) == 0 {
		span := len(def.Columns)
		if view.HasActions {
			span++
		}
		empty := def.EmptyText
		if empty == "" {
			empty = "Sin registros"
		}
		view.Rows = []Row{{Placeholder: true, ColSpan: span, Cells: []Cell{{Text: empty, Kind: KindText}}}}
	} else {
		view.Rows = make([]Row, 0, len(items))
		for _, item := range items {
			view.Rows = append(view.Rows, buildRow(def, item))
		}
	}

	view.PageCount = PageCount(state.TotalCount, state.Query.PageSize)
	if view.PageCount > 1 {
		view.Pagination = make([]PageLink, 0, view.PageCount)
		for n := 1; n <= view.PageCount; n++ {
			q := state.Query
			q.Page = n
			view.Pagination = append(view.Pagination, PageLink{
				Number: n,
				Active: n == state.Query.Page,
				Query:  q.Values().Encode(),
			})
		}
	}
	return view
}

func buildRow(def Definition, item Record) Row {
	row := Row{ID: item.ID(), Cells: make([]Cell, 0, len(def.Columns))}
	for _, col := range def.Columns {
		row.Cells = append(row.Cells, formatCell(col, item))
	}
	base := "/" + def.Name + "/" + row.ID
	if def.CanView {
		row.Actions = append(row.Actions, RowAction{Name: "view", Label: "Ver", Href: base, Method: "get"})
	}
	if def.CanEdit {
		row.Actions = append(row.Actions, RowAction{Name: "edit", Label: "Editar", Href: base + "/edit", Method: "get"})
	}
	for _, a := range def.Actions {
		ra := RowAction{Name: a.Name, Label: a.Label, Href: base + "/actions/" + a.Name, Method: "post", Param: a.Param, Options: a.Options}
		if a.Form != "" {
			ra.Method = "get"
		}
		if a.Param != "" {
			ra.Current = item.String(a.Param)
		}
		row.Actions = append(row.Actions, ra)
	}
	if def.CanDelete {
		row.Actions = append(row.Actions, RowAction{Name: "delete", Label: "Eliminar", Href: base + "/delete", Method: "get", Danger: true})
	}
	return row
}

func formatCell(col Column, item Record) Cell {
	cell := Cell{Kind: col.Kind}
	raw := item[col.Key]

	switch col.Kind {
	case KindCurrency:
		v, _ := toFloat(raw)
		cell.Text = FormatCurrency(v)
	case KindNumber:
		if v, ok := toFloat(raw); ok {
			cell.Text = FormatNumber(v)
		}
	case KindDate:
		cell.Text = FormatDate(stringify(raw))
	case KindDateTime:
		cell.Text = FormatDateTime(stringify(raw))
	case KindBool:
		on, _ := raw.(bool)
		cell.Badge = true
		if b, ok := col.Badges[boolKey(on)]; ok {
			cell.Text, cell.Tone = b.Label, b.Tone
		} else if on {
			cell.Text, cell.Tone = "Activo", ToneSuccess
		} else {
			cell.Text, cell.Tone = "Inactivo", ToneDanger
		}
	case KindBadge:
		value := stringify(raw)
		cell.Badge = true
		if b, ok := col.Badges[value]; ok {
			cell.Text, cell.Tone = b.Label, b.Tone
		} else {
			cell.Text = value
		}
	case KindStock, KindStockStatus:
		stock, _ := toFloat(raw)
		threshold := col.Threshold
		if col.ThresholdKey != "" {
			if v, ok := item.Float(col.ThresholdKey); ok {
				threshold = v
			}
		}
		cell.Badge = true
		if col.Kind == KindStockStatus {
			status := StockStatus(stock, threshold)
			cell.Text, cell.Tone = status.Label, status.Tone
			break
		}
		cell.Tone = StockTone(stock, threshold)
		cell.Text = FormatNumber(stock) + col.Suffix
	default:
		if len(col.Keys) > 0 {
			parts := make([]string, 0, len(col.Keys))
			for _, k := range col.Keys {
				if s := item.String(k); s != "" {
					parts = append(parts, s)
				}
			}
			cell.Text = strings.Join(parts, " ")
		} else {
			cell.Text = stringify(raw)
		}
	}
	if cell.Text == "" {
		cell.Text = col.Fallback
	}
	return cell
}

func boolKey(b bool) string {
	if b {
		return "true"
	}
	return "false"
}
