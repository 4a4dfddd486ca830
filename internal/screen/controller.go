package screen

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/url"
	"strconv"
	"strings"

	"github.com/catalyst-admin/catalyst-admin/internal/form"
	"github.com/catalyst-admin/catalyst-admin/internal/notify"
)

var (
	// ErrPageOutOfRange is returned by GoToPage for pages outside 1..PageCount.
	ErrPageOutOfRange = errors.New("screen: page out of range")
	// ErrCancelled is returned when the user declines a confirmation.
	ErrCancelled = errors.New("screen: cancelled by user")
	// ErrUnknownAction is returned for actions the definition does not declare.
	ErrUnknownAction = errors.New("screen: unknown action")
)

// Phase is the load lifecycle of a Controller.
type Phase int

const (
	Idle Phase = iota
	Loading
	Loaded
	LoadError
)

func (p Phase) String() string {
	switch p {
	case Loading:
		return "loading"
	case Loaded:
		return "loaded"
	case LoadError:
		return "load_error"
	}
	return "idle"
}

// API is the subset of the HTTP client a screen uses.
type API interface {
	Get(ctx context.Context, path string) (json.RawMessage, error)
	Post(ctx context.Context, path string, body any) (json.RawMessage, error)
	Delete(ctx context.Context, path string) (json.RawMessage, error)
}

// Confirmer asks the user to approve a destructive step.
type Confirmer interface {
	Confirm(ctx context.Context, prompt string) bool
}

// ConfirmFunc adapts a function to Confirmer.
type ConfirmFunc func(ctx context.Context, prompt string) bool

// Confirm implements Confirmer.
func (f ConfirmFunc) Confirm(ctx context.Context, prompt string) bool { return f(ctx, prompt) }

// Confirmed is a Confirmer with a fixed answer.
type Confirmed bool

// Confirm implements Confirmer.
func (c Confirmed) Confirm(context.Context, string) bool { return bool(c) }

// Controller owns the list state of one screen for one request.
type Controller struct {
	def      Definition
	api      API
	notifier notify.Notifier
	logger   *slog.Logger

	state  *State
	phase  Phase
	items  []Record
	reload func(ctx context.Context)
}

// NewController binds def to state. A nil state starts fresh.
func NewController(def Definition, api API, notifier notify.Notifier, state *State, logger *slog.Logger) *Controller {
	if state == nil {
		state = NewState(def)
	}
	if state.Query.PageSize <= 0 {
		state.Query.PageSize = def.pageSize()
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Controller{def: def, api: api, notifier: notifier, logger: logger, state: state}
}

// Definition returns the screen definition.
func (c *Controller) Definition() Definition { return c.def }

// State returns the owned state.
func (c *Controller) State() *State { return c.state }

// Phase returns the current lifecycle phase.
func (c *Controller) Phase() Phase { return c.phase }

// Items returns the rows of the last load.
func (c *Controller) Items() []Record { return c.items }

// PageCount returns ceil(total/pageSize) of the last load.
func (c *Controller) PageCount() int { return c.state.PageCount() }

// Load fetches the current page. Failures are reported to the user, leave the
// list empty and are not returned.
func (c *Controller) Load(ctx context.Context) {
	c.phase = Loading
	path := c.def.Endpoint + "?" + c.state.Query.Values().Encode()
	raw, err := c.api.Get(ctx, path)
	if err == nil {
		var res ListResult
		res, err = DecodeListResult(raw)
		if err == nil {
			c.items = res.Items
			c.state.TotalCount = res.TotalCount
			c.phase = Loaded
			return
		}
	}
	c.logger.Warn("list load failed", slog.String("screen", c.def.Name), slog.String("path", path), slog.Any("error", err))
	c.items = []Record{}
	c.state.TotalCount = 0
	c.phase = LoadError
	notify.Error(ctx, c.notifier, c.def.messages().LoadFailed)
}

// Refresh reloads the current page.
func (c *Controller) Refresh(ctx context.Context) { c.Load(ctx) }

// Reload reloads the current page after a mutation, or hands over to the
// function set with DeferReload.
func (c *Controller) Reload(ctx context.Context) {
	if c.reload != nil {
		c.reload(ctx)
		return
	}
	c.Load(ctx)
}

// DeferReload replaces the in-place reload after a mutation with fn, e.g. a
// redirect whose target performs the load.
func (c *Controller) DeferReload(fn func(ctx context.Context)) { c.reload = fn }

// Apply merges filters and a page number from an incoming query, then loads
// once. Only filters present in values are touched. A changed filter returns
// to page 1 and the page in values is ignored. An out-of-range page keeps the
// current page and is reported after the load.
func (c *Controller) Apply(ctx context.Context, values url.Values) error {
	changed := false
	for _, f := range c.def.Filters {
		if _, ok := values[f.Name]; !ok {
			continue
		}
		v := strings.TrimSpace(values.Get(f.Name))
		if v != c.state.Query.Filter(f.Name) {
			c.state.Query.SetFilter(f.Name, v)
			changed = true
		}
	}
	var pageErr error
	if raw := values.Get("page"); raw != "" && !changed {
		n, err := strconv.Atoi(raw)
		if err != nil {
			n = 0
		}
		pageErr = c.setPage(n)
	}
	c.Refresh(ctx)
	return pageErr
}

// SetFilter changes one filter, returns to page 1 and loads.
func (c *Controller) SetFilter(ctx context.Context, name, value string) {
	c.state.Query.SetFilter(name, value)
	c.Load(ctx)
}

// GoToPage loads page n. Pages beyond the last load's page count are rejected
// without touching the state. Page 1 is always reachable.
func (c *Controller) GoToPage(ctx context.Context, n int) error {
	if err := c.setPage(n); err != nil {
		return err
	}
	c.Load(ctx)
	return nil
}

func (c *Controller) setPage(n int) error {
	last := max(c.PageCount(), 1)
	if n < 1 || n > last {
		return fmt.Errorf("%w: %d of %d", ErrPageOutOfRange, n, last)
	}
	c.state.Query.Page = n
	return nil
}

// Fetch reads a single record.
func (c *Controller) Fetch(ctx context.Context, id string) (Record, error) {
	raw, err := c.api.Get(ctx, c.def.ItemPath(id))
	if err != nil {
		notify.Error(ctx, c.notifier, c.def.messages().FetchFailed)
		return nil, fmt.Errorf("screen: fetch %s/%s: %w", c.def.Name, id, err)
	}
	return DecodeRecord(raw)
}

// Delete removes a record after confirmation and reloads. A declined
// confirmation issues no request and leaves the state as it was.
func (c *Controller) Delete(ctx context.Context, id string, confirm Confirmer) error {
	msgs := c.def.messages()
	if confirm == nil || !confirm.Confirm(ctx, msgs.DeletePrompt) {
		return ErrCancelled
	}
	if _, err := c.api.Delete(ctx, c.def.ItemPath(id)); err != nil {
		c.logger.Warn("delete failed", slog.String("screen", c.def.Name), slog.String("id", id), slog.Any("error", err))
		notify.Error(ctx, c.notifier, form.ErrorMessage(err, msgs.DeleteFailed))
		return fmt.Errorf("screen: delete %s/%s: %w", c.def.Name, id, err)
	}
	notify.Success(ctx, c.notifier, msgs.Deleted)
	c.Reload(ctx)
	return nil
}

// Action posts a declared row action after confirmation and reloads.
func (c *Controller) Action(ctx context.Context, id, name string, body any, confirm Confirmer) error {
	action, ok := c.def.Action(name)
	if !ok {
		return fmt.Errorf("%w: %s", ErrUnknownAction, name)
	}
	msgs := c.def.messages()
	if confirm == nil || !confirm.Confirm(ctx, action.Question()) {
		return ErrCancelled
	}
	if body == nil {
		body = map[string]any{}
	}
	if _, err := c.api.Post(ctx, c.def.ItemPath(id)+action.path(), body); err != nil {
		c.logger.Warn("row action failed", slog.String("screen", c.def.Name), slog.String("action", name), slog.Any("error", err))
		notify.Error(ctx, c.notifier, form.ErrorMessage(err, msgs.ActionFailed))
		return fmt.Errorf("screen: action %s on %s/%s: %w", name, c.def.Name, id, err)
	}
	success := action.Success
	if success == "" {
		success = msgs.ActionSuccess
	}
	notify.Success(ctx, c.notifier, success)
	c.Reload(ctx)
	return nil
}

// View builds the table model of the last load.
func (c *Controller) View() TableView {
	return BuildView(c.def, *c.state, c.items, c.phase)
}
