package form

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/url"
	"strconv"
	"strings"

	"github.com/catalyst-admin/catalyst-admin/internal/notify"
)

// API is the subset of the HTTP client a form uses.
type API interface {
	Get(ctx context.Context, path string) (json.RawMessage, error)
	Post(ctx context.Context, path string, body any) (json.RawMessage, error)
	Put(ctx context.Context, path string, body any) (json.RawMessage, error)
}

// Reloader is told to refresh the owning list after a successful save.
type Reloader interface {
	Reload(ctx context.Context)
}

// ReloadFunc adapts a function to Reloader.
type ReloadFunc func(ctx context.Context)

// Reload implements Reloader.
func (f ReloadFunc) Reload(ctx context.Context) { f(ctx) }

// FieldView is a field with its current value and state.
type FieldView struct {
	Field
	Value    string
	Checked  bool
	ReadOnly bool
	Error    string
}

// View is the render model of an open or closed form dialog.
type View struct {
	Title  string
	Entity string
	Mode   Mode
	ID     string
	Fields []FieldView
	Open   bool
	Error  string
	// Result is the API response of a successful save.
	Result json.RawMessage
}

// Controller opens, validates and saves one entity form.
type Controller struct {
	schema   Schema
	api      API
	notifier notify.Notifier
	reloader Reloader
	logger   *slog.Logger
}

// NewController constructs a Controller.
func NewController(schema Schema, api API, notifier notify.Notifier, reloader Reloader, logger *slog.Logger) *Controller {
	if logger == nil {
		logger = slog.Default()
	}
	return &Controller{schema: schema, api: api, notifier: notifier, reloader: reloader, logger: logger}
}

// Schema returns the form schema, including any options loaded so far.
func (c *Controller) Schema() Schema { return c.schema }

// LoadOptions fills selects backed by an OptionSource. A failed source keeps
// its static options and notifies the user.
func (c *Controller) LoadOptions(ctx context.Context) {
	fields := make([]Field, len(c.schema.Fields))
	copy(fields, c.schema.Fields)
	for i, f := range fields {
		if f.Source == nil {
			continue
		}
		opts, err := c.fetchOptions(ctx, *f.Source)
		if err != nil {
			c.logger.Warn("load form options", slog.String("field", f.Name), slog.Any("error", err))
			msg := f.Source.Failed
			if msg == "" {
				msg = "Error al cargar opciones de " + strings.ToLower(f.Label)
			}
			notify.Error(ctx, c.notifier, msg)
			continue
		}
		fields[i].Options = append(append([]Option(nil), f.Options...), opts...)
	}
	c.schema.Fields = fields
}

func (c *Controller) fetchOptions(ctx context.Context, src OptionSource) ([]Option, error) {
	raw, err := c.api.Get(ctx, src.Path)
	if err != nil {
		return nil, err
	}
	var items []map[string]any
	var env struct {
		Results []map[string]any `json:"results"`
	}
	if err := json.Unmarshal(raw, &items); err != nil {
		if err := json.Unmarshal(raw, &env); err != nil {
			return nil, fmt.Errorf("form: decode options: %w", err)
		}
		items = env.Results
	}
	valueKey := src.ValueKey
	if valueKey == "" {
		valueKey = "id"
	}
	opts := make([]Option, 0, len(items))
	for _, item := range items {
		parts := make([]string, 0, len(src.LabelKeys))
		for _, k := range src.LabelKeys {
			if s := text(item[k]); s != "" {
				parts = append(parts, s)
			}
		}
		opts = append(opts, Option{Value: text(item[valueKey]), Label: strings.Join(parts, " ")})
	}
	return opts, nil
}

// Open renders the form for record, or empty defaults when record is nil.
func (c *Controller) Open(record map[string]any) View {
	mode := ModeCreate
	id := ""
	if record != nil {
		mode = ModeEdit
		id = text(record["id"])
	}
	values := url.Values{}
	for _, f := range c.schema.Fields {
		switch {
		case record == nil && f.Kind == KindCheckbox:
			if f.Default != "false" {
				values.Set(f.Name, "on")
			}
		case record == nil:
			if f.Default != "" {
				values.Set(f.Name, f.Default)
			}
		case f.Kind == KindCheckbox:
			if b, ok := record[f.Name].(bool); !ok || b {
				values.Set(f.Name, "on")
			}
		default:
			if v := text(record[f.Name]); v != "" {
				values.Set(f.Name, v)
			}
		}
	}
	return c.view(mode, id, values, nil)
}

// Reopen renders the form again with submitted values, e.g. after a failure.
func (c *Controller) Reopen(values url.Values, existingID string, errs []FieldError) View {
	return c.view(c.mode(existingID), existingID, values, errs)
}

// Save validates, submits and on success closes the form and reloads the owner
// once. Failures notify the user and return the form still open with values intact.
func (c *Controller) Save(ctx context.Context, values url.Values, existingID string) (View, error) {
	mode := c.mode(existingID)
	if errs := c.Validate(values, mode); len(errs) > 0 {
		notify.Error(ctx, c.notifier, errs[0].Message)
		return c.view(mode, existingID, values, errs), fmt.Errorf("%w: %w", ErrValidation, errs[0])
	}

	payload := Coerce(c.schema, values, mode)
	var (
		raw json.RawMessage
		err error
	)
	if mode == ModeEdit {
		raw, err = c.api.Put(ctx, itemPath(c.schema.Endpoint, existingID), payload)
	} else {
		raw, err = c.api.Post(ctx, c.schema.Endpoint, payload)
	}
	if err != nil {
		msg := ErrorMessage(err, c.schema.failedMessage())
		c.logger.Warn("form save failed", slog.String("entity", c.schema.Entity), slog.String("mode", string(mode)), slog.Any("error", err))
		notify.Error(ctx, c.notifier, msg)
		view := c.view(mode, existingID, values, nil)
		view.Error = msg
		return view, fmt.Errorf("form: save %s: %w", c.schema.Entity, err)
	}

	if mode == ModeEdit {
		notify.Success(ctx, c.notifier, c.schema.updatedMessage())
	} else {
		notify.Success(ctx, c.notifier, c.schema.createdMessage())
	}
	view := c.view(mode, existingID, values, nil)
	view.Open = false
	view.Result = raw
	if c.reloader != nil {
		c.reloader.Reload(ctx)
	}
	return view, nil
}

func (c *Controller) mode(existingID string) Mode {
	if existingID != "" && !c.schema.CreateOnly {
		return ModeEdit
	}
	return ModeCreate
}

func (c *Controller) view(mode Mode, id string, values url.Values, errs []FieldError) View {
	byField := make(map[string]string, len(errs))
	for _, e := range errs {
		if _, seen := byField[e.Field]; !seen {
			byField[e.Field] = e.Message
		}
	}
	v := View{Title: c.schema.Title, Entity: c.schema.Entity, Mode: mode, ID: id, Open: true}
	for _, f := range c.schema.Fields {
		if !f.visibleIn(mode) {
			continue
		}
		fv := FieldView{
			Field:    f,
			Value:    values.Get(f.Name),
			ReadOnly: f.Immutable && mode == ModeEdit,
			Error:    byField[f.Name],
		}
		if f.Kind == KindCheckbox {
			fv.Checked = checked(values, f.Name)
		}
		v.Fields = append(v.Fields, fv)
	}
	if len(errs) > 0 {
		v.Error = errs[0].Message
	}
	return v
}

func itemPath(endpoint, id string) string {
	return strings.TrimSuffix(endpoint, "/") + "/" + id + "/"
}

func text(v any) string {
	switch t := v.(type) {
	case nil:
		return ""
	case string:
		return t
	case json.Number:
		return t.String()
	case float64:
		return strconv.FormatFloat(t, 'f', -1, 64)
	case int:
		return strconv.Itoa(t)
	case int64:
		return strconv.FormatInt(t, 10)
	case bool:
		return strconv.FormatBool(t)
	}
	return fmt.Sprint(v)
}
