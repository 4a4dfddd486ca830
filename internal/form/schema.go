// Package form drives entity create and edit dialogs: field schema,
// local validation, coercion to API types and submission.
package form

// Kind is the input type of a field.
type Kind string

const (
	KindText     Kind = "text"
	KindTextarea Kind = "textarea"
	KindEmail    Kind = "email"
	KindPassword Kind = "password"
	KindNumber   Kind = "number"
	KindInteger  Kind = "integer"
	KindSelect   Kind = "select"
	KindCheckbox Kind = "checkbox"
	KindHidden   Kind = "hidden"
)

// Option is a select choice.
type Option struct {
	Value string
	Label string
}

// OptionSource fills a select from an API list, e.g. users with role gerente.
type OptionSource struct {
	Path      string
	ValueKey  string
	LabelKeys []string
	Failed    string
}

// Field describes one form input.
type Field struct {
	Name  string
	Label string
	Kind  Kind
	// Required rejects blank values.
	Required bool
	// Rule is a validator tag checked against the typed value, e.g. "gt=0" or "email".
	Rule string
	// Message replaces the generic text when Rule fails.
	Message string
	// Immutable fields are read-only once the record exists.
	Immutable bool
	// CreateOnly fields are hidden when editing and never sent on update.
	CreateOnly bool
	// EqualTo names a field this one must match.
	EqualTo      string
	EqualMessage string
	Options      []Option
	Source       *OptionSource
	// Nullable sends null for a blank value.
	Nullable bool
	// Integer sends a select or hidden value as a number.
	Integer     bool
	Default     string
	Placeholder string
	Help        string
	Step        string
}

// Schema is the field set of one entity form.
type Schema struct {
	Entity   string
	Title    string
	Endpoint string
	Fields   []Field
	// CreateOnly schemas always POST, e.g. stock movements.
	CreateOnly bool
	Created    string
	Updated    string
	Failed     string
}

// Field looks up a field by name.
func (s Schema) Field(name string) (Field, bool) {
	for _, f := range s.Fields {
		if f.Name == name {
			return f, true
		}
	}
	return Field{}, false
}

func (s Schema) createdMessage() string {
	if s.Created != "" {
		return s.Created
	}
	return "Registro creado correctamente"
}

func (s Schema) updatedMessage() string {
	if s.Updated != "" {
		return s.Updated
	}
	return "Registro actualizado correctamente"
}

func (s Schema) failedMessage() string {
	if s.Failed != "" {
		return s.Failed
	}
	return "Error al guardar"
}

// Mode tells whether the form creates or edits.
type Mode string

const (
	ModeCreate Mode = "create"
	ModeEdit   Mode = "edit"
)

func (f Field) visibleIn(mode Mode) bool {
	return !(f.CreateOnly && mode == ModeEdit)
}
