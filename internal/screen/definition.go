// Package screen drives the list side of an entity screen: query state,
// loading through the API, row actions and the table view model.
package screen

import "strings"

// ColumnKind selects how a cell value is formatted.
type ColumnKind string

const (
	KindText     ColumnKind = "text"
	KindNumber   ColumnKind = "number"
	KindCurrency ColumnKind = "currency"
	KindDate     ColumnKind = "date"
	KindDateTime ColumnKind = "datetime"
	KindBadge    ColumnKind = "badge"
	KindBool     ColumnKind = "bool"
	KindStock    ColumnKind = "stock"
	// KindStockStatus labels the stock in Key as Agotado, Stock Bajo or Normal.
	KindStockStatus ColumnKind = "stock_status"
	KindCode        ColumnKind = "code"
)

// Tone is the visual emphasis of a badge.
type Tone string

const (
	ToneNeutral Tone = ""
	ToneSuccess Tone = "success"
	ToneWarning Tone = "warning"
	ToneDanger  Tone = "danger"
	ToneInfo    Tone = "info"
)

// Badge maps a raw value to a label and tone.
type Badge struct {
	Label string
	Tone  Tone
}

// Column describes one table column.
type Column struct {
	Key   string
	Label string
	Kind  ColumnKind
	// Keys are concatenated with a space when the column shows several fields.
	Keys     []string
	Fallback string
	Badges   map[string]Badge
	// ThresholdKey names the record field a stock value is compared against.
	// Threshold is used when the record has no such field.
	ThresholdKey string
	Threshold    float64
	Suffix       string
}

// Option is a value/label pair for selects.
type Option struct {
	Value string
	Label string
}

// FilterKind selects the filter control.
type FilterKind string

const (
	FilterSearch FilterKind = "search"
	FilterSelect FilterKind = "select"
)

// Filter is a list query parameter exposed to the user.
type Filter struct {
	Name        string
	Label       string
	Kind        FilterKind
	Placeholder string
	Options     []Option
}

// Action is a custom row operation posted to Endpoint/{id}/{Path}.
type Action struct {
	Name  string
	Label string
	// Path defaults to Name + "/".
	Path string
	// Prompt is shown before the call; an empty prompt still asks for confirmation.
	Prompt string
	// Param is the posted field forwarded in the body, with its choices.
	Param   string
	Options []Option
	// Form names a form schema that replaces the direct call.
	Form string
	// Target is the form field that receives the row id.
	Target  string
	Success string
}

// Messages are the notifications a screen emits.
type Messages struct {
	LoadFailed    string
	Deleted       string
	DeleteFailed  string
	DeletePrompt  string
	FetchFailed   string
	ActionFailed  string
	ActionSuccess string
}

// Definition describes one entity screen.
type Definition struct {
	Name      string
	Title     string
	Endpoint  string
	PageSize  int
	Columns   []Column
	Filters   []Filter
	Actions   []Action
	CanCreate bool
	CanEdit   bool
	CanDelete bool
	CanView   bool
	EmptyText string
	Messages  Messages
}

// DefaultPageSize applies when a definition does not set one.
const DefaultPageSize = 20

// ItemPath returns the detail endpoint of the record with id.
func (d Definition) ItemPath(id string) string {
	return strings.TrimSuffix(d.Endpoint, "/") + "/" + id + "/"
}

// Action looks up a row action by name.
func (d Definition) Action(name string) (Action, bool) {
	for _, a := range d.Actions {
		if a.Name == name {
			return a, true
		}
	}
	return Action{}, false
}

// Filter looks up a filter by name.
func (d Definition) Filter(name string) (Filter, bool) {
	for _, f := range d.Filters {
		if f.Name == name {
			return f, true
		}
	}
	return Filter{}, false
}

// HasRowActions reports whether rows carry an actions column.
func (d Definition) HasRowActions() bool {
	return d.CanView || d.CanEdit || d.CanDelete || len(d.Actions) > 0
}

func (d Definition) pageSize() int {
	if d.PageSize > 0 {
		return d.PageSize
	}
	return DefaultPageSize
}

// Text returns Messages with defaults filled in.
func (d Definition) Text() Messages { return d.messages() }

func (d Definition) messages() Messages {
	m := d.Messages
	if m.LoadFailed == "" {
		m.LoadFailed = "Error al cargar " + strings.ToLower(d.Title)
	}
	if m.Deleted == "" {
		m.Deleted = "Registro eliminado correctamente"
	}
	if m.DeleteFailed == "" {
		m.DeleteFailed = "Error al eliminar"
	}
	if m.DeletePrompt == "" {
		m.DeletePrompt = "¿Está seguro de que desea eliminar este registro? Esta acción no se puede deshacer."
	}
	if m.FetchFailed == "" {
		m.FetchFailed = "Error al cargar el registro"
	}
	if m.ActionFailed == "" {
		m.ActionFailed = "Error al ejecutar la acción"
	}
	if m.ActionSuccess == "" {
		m.ActionSuccess = "Acción realizada correctamente"
	}
	return m
}

// Question is the confirmation prompt of the action.
func (a Action) Question() string {
	if a.Prompt != "" {
		return a.Prompt
	}
	return a.Label + "?"
}

func (a Action) path() string {
	if a.Path != "" {
		return a.Path
	}
	return a.Name + "/"
}
