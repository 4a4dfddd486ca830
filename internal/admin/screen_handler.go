package admin

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"net/url"

	"github.com/go-chi/chi/v5"

	"github.com/catalyst-admin/catalyst-admin/internal/entities"
	"github.com/catalyst-admin/catalyst-admin/internal/form"
	"github.com/catalyst-admin/catalyst-admin/internal/notify"
	"github.com/catalyst-admin/catalyst-admin/internal/screen"
)

// ListPage is the render model of pages/list.html. At most one of Form and
// Confirm is set; each renders as a dialog over the table.
type ListPage struct {
	Table   screen.TableView
	BaseURL string
	Form    *FormDialog
	Confirm *ConfirmDialog
}

// FormDialog is an open form with the URL it posts to.
type FormDialog struct {
	form.View
	Action    string
	CancelURL string
}

// ConfirmDialog asks before a delete or a row action.
type ConfirmDialog struct {
	Title     string
	Prompt    string
	Action    string
	CancelURL string
	Param     string
	Options   []screen.Option
	Value     string
	Danger    bool
}

// DetailPage is the render model of pages/detail.html.
type DetailPage struct {
	Title     string
	Items     []screen.DetailItem
	BaseURL   string
	EditURL   string
	DeleteURL string
}

// ScreenHandler serves one entity under /<name>.
type ScreenHandler struct {
	deps   *Deps
	entity entities.Entity
}

// NewScreenHandler constructs a ScreenHandler.
func NewScreenHandler(deps *Deps, entity entities.Entity) *ScreenHandler {
	return &ScreenHandler{deps: deps, entity: entity}
}

// MountRoutes registers the entity routes on r.
func (h *ScreenHandler) MountRoutes(r chi.Router) {
	r.Get("/", h.list)
	r.Post("/", h.create)
	r.Get("/new", h.newForm)
	r.Get("/{id}", h.detail)
	r.Post("/{id}", h.update)
	r.Get("/{id}/edit", h.editForm)
	r.Get("/{id}/delete", h.confirmDelete)
	r.Post("/{id}/delete", h.delete)
	r.Get("/{id}/actions/{action}", h.showAction)
	r.Post("/{id}/actions/{action}", h.runAction)
}

func (h *ScreenHandler) def() screen.Definition { return h.entity.Screen }

func (h *ScreenHandler) base() string { return "/" + h.entity.Name() }

func (h *ScreenHandler) itemURL(id string) string { return h.base() + "/" + url.PathEscape(id) }

func (h *ScreenHandler) controller(r *http.Request) (*screen.Controller, *Scope) {
	sc := ScopeFrom(r.Context())
	state := screen.LoadState(sc.Session, h.def())
	return screen.NewController(h.def(), sc.API, h.deps.Notifier, state, h.deps.Logger), sc
}

func (h *ScreenHandler) formController(r *http.Request, w http.ResponseWriter, schema form.Schema) *form.Controller {
	sc := ScopeFrom(r.Context())
	reload := form.ReloadFunc(func(context.Context) {
		http.Redirect(w, r, h.base(), http.StatusSeeOther)
	})
	return form.NewController(schema, sc.API, h.deps.Notifier, reload, h.deps.Logger)
}

// redirectReload makes a mutation's reload a redirect to the list, whose GET
// performs the single load with the stored state.
func (h *ScreenHandler) redirectReload(w http.ResponseWriter, r *http.Request, ctrl *screen.Controller) {
	ctrl.DeferReload(func(context.Context) {
		http.Redirect(w, r, h.base(), http.StatusSeeOther)
	})
}

func (h *ScreenHandler) renderList(w http.ResponseWriter, r *http.Request, status int, ctrl *screen.Controller, sc *Scope, page ListPage) {
	if err := screen.SaveState(sc.Session, h.def(), ctrl.State()); err != nil {
		h.deps.Logger.Warn("save list state", slog.String("screen", h.def().Name), slog.Any("error", err))
	}
	page.Table = ctrl.View()
	page.BaseURL = h.base()
	h.deps.Render(w, r, status, "pages/list.html", h.def().Title, page)
}

func (h *ScreenHandler) list(w http.ResponseWriter, r *http.Request) {
	ctrl, sc := h.controller(r)
	if err := ctrl.Apply(r.Context(), r.URL.Query()); err != nil {
		h.deps.Logger.Debug("ignored page request", slog.String("screen", h.def().Name), slog.Any("error", err))
	}
	h.renderList(w, r, http.StatusOK, ctrl, sc, ListPage{})
}

func (h *ScreenHandler) canCreate() bool { return h.def().CanCreate && h.entity.Form != nil }

func (h *ScreenHandler) canEdit() bool { return h.def().CanEdit && h.entity.Form != nil }

func (h *ScreenHandler) newForm(w http.ResponseWriter, r *http.Request) {
	if !h.canCreate() {
		http.NotFound(w, r)
		return
	}
	ctrl, sc := h.controller(r)
	fc := h.formController(r, w, *h.entity.Form)
	fc.LoadOptions(r.Context())
	ctrl.Refresh(r.Context())
	dialog := &FormDialog{View: fc.Open(nil), Action: h.base(), CancelURL: h.base()}
	h.renderList(w, r, http.StatusOK, ctrl, sc, ListPage{Form: dialog})
}

func (h *ScreenHandler) editForm(w http.ResponseWriter, r *http.Request) {
	if !h.canEdit() {
		http.NotFound(w, r)
		return
	}
	id := chi.URLParam(r, "id")
	ctrl, sc := h.controller(r)
	rec, err := ctrl.Fetch(r.Context(), id)
	if err != nil {
		h.deps.Logger.Warn("fetch for edit", slog.String("screen", h.def().Name), slog.String("id", id), slog.Any("error", err))
		h.deps.Redirect(w, r, h.base())
		return
	}
	fc := h.formController(r, w, *h.entity.Form)
	fc.LoadOptions(r.Context())
	ctrl.Refresh(r.Context())
	dialog := &FormDialog{View: fc.Open(rec), Action: h.itemURL(id), CancelURL: h.base()}
	h.renderList(w, r, http.StatusOK, ctrl, sc, ListPage{Form: dialog})
}

func (h *ScreenHandler) create(w http.ResponseWriter, r *http.Request) {
	if !h.canCreate() {
		http.NotFound(w, r)
		return
	}
	h.submit(w, r, *h.entity.Form, "", h.base())
}

func (h *ScreenHandler) update(w http.ResponseWriter, r *http.Request) {
	if !h.canEdit() {
		http.NotFound(w, r)
		return
	}
	id := chi.URLParam(r, "id")
	h.submit(w, r, *h.entity.Form, id, h.itemURL(id))
}

// submit saves values through a form controller. Success redirects to the
// list; failure re-renders the dialog with the entered values and a 422.
func (h *ScreenHandler) submit(w http.ResponseWriter, r *http.Request, schema form.Schema, id, action string) {
	if err := r.ParseForm(); err != nil {
		http.Error(w, http.StatusText(http.StatusBadRequest), http.StatusBadRequest)
		return
	}
	h.save(w, r, schema, r.PostForm, id, action)
}

func (h *ScreenHandler) save(w http.ResponseWriter, r *http.Request, schema form.Schema, values url.Values, id, action string) {
	fc := h.formController(r, w, schema)
	if hasSources(schema) {
		fc.LoadOptions(r.Context())
	}
	view, err := fc.Save(r.Context(), values, id)
	if err == nil {
		return
	}
	if !errors.Is(err, form.ErrValidation) {
		h.deps.Logger.Info("save rejected", slog.String("screen", h.def().Name), slog.Any("error", err))
	}
	ctrl, sc := h.controller(r)
	ctrl.Refresh(r.Context())
	dialog := &FormDialog{View: view, Action: action, CancelURL: h.base()}
	h.renderList(w, r, http.StatusUnprocessableEntity, ctrl, sc, ListPage{Form: dialog})
}

func (h *ScreenHandler) detail(w http.ResponseWriter, r *http.Request) {
	if !h.def().CanView {
		http.NotFound(w, r)
		return
	}
	id := chi.URLParam(r, "id")
	ctrl, _ := h.controller(r)
	rec, err := ctrl.Fetch(r.Context(), id)
	if err != nil {
		h.deps.Logger.Warn("fetch detail", slog.String("screen", h.def().Name), slog.String("id", id), slog.Any("error", err))
		h.deps.Redirect(w, r, h.base())
		return
	}
	page := DetailPage{
		Title:   h.def().Title,
		Items:   screen.BuildDetail(h.entity.DetailColumns(), rec),
		BaseURL: h.base(),
	}
	if h.canEdit() {
		page.EditURL = h.itemURL(id) + "/edit"
	}
	if h.def().CanDelete {
		page.DeleteURL = h.itemURL(id) + "/delete"
	}
	h.deps.Render(w, r, http.StatusOK, "pages/detail.html", h.def().Title, page)
}

func (h *ScreenHandler) confirmDelete(w http.ResponseWriter, r *http.Request) {
	if !h.def().CanDelete {
		http.NotFound(w, r)
		return
	}
	id := chi.URLParam(r, "id")
	ctrl, sc := h.controller(r)
	ctrl.Refresh(r.Context())
	dialog := &ConfirmDialog{
		Title:     "Confirmar eliminación",
		Prompt:    h.def().Text().DeletePrompt,
		Action:    h.itemURL(id) + "/delete",
		CancelURL: h.base(),
		Danger:    true,
	}
	h.renderList(w, r, http.StatusOK, ctrl, sc, ListPage{Confirm: dialog})
}

// delete runs only with confirm=yes. Any other answer is a declined
// confirmation and sends nothing to the API.
func (h *ScreenHandler) delete(w http.ResponseWriter, r *http.Request) {
	if !h.def().CanDelete {
		http.NotFound(w, r)
		return
	}
	id := chi.URLParam(r, "id")
	ctrl, _ := h.controller(r)
	h.redirectReload(w, r, ctrl)
	err := ctrl.Delete(r.Context(), id, screen.Confirmed(r.PostFormValue("confirm") == "yes"))
	if err == nil {
		return
	}
	if !errors.Is(err, screen.ErrCancelled) {
		h.deps.Logger.Info("delete rejected", slog.String("screen", h.def().Name), slog.String("id", id), slog.Any("error", err))
	}
	h.deps.Redirect(w, r, h.base())
}

func (h *ScreenHandler) lookupAction(r *http.Request) (screen.Action, bool) {
	return h.def().Action(chi.URLParam(r, "action"))
}

func (h *ScreenHandler) showAction(w http.ResponseWriter, r *http.Request) {
	action, ok := h.lookupAction(r)
	if !ok {
		http.NotFound(w, r)
		return
	}
	id := chi.URLParam(r, "id")
	target := h.itemURL(id) + "/actions/" + action.Name
	ctrl, sc := h.controller(r)

	if action.Form != "" {
		schema, ok := h.entity.ActionForms[action.Name]
		if !ok {
			http.NotFound(w, r)
			return
		}
		fc := h.formController(r, w, schema)
		fc.LoadOptions(r.Context())
		ctrl.Refresh(r.Context())
		preset := url.Values{}
		if action.Target != "" {
			preset.Set(action.Target, id)
		}
		dialog := &FormDialog{View: fc.Reopen(preset, "", nil), Action: target, CancelURL: h.base()}
		h.renderList(w, r, http.StatusOK, ctrl, sc, ListPage{Form: dialog})
		return
	}

	ctrl.Refresh(r.Context())
	h.renderList(w, r, http.StatusOK, ctrl, sc, ListPage{Confirm: h.actionDialog(action, target, r.URL.Query().Get(action.Param))})
}

func (h *ScreenHandler) actionDialog(action screen.Action, target, value string) *ConfirmDialog {
	return &ConfirmDialog{
		Title:     action.Label,
		Prompt:    action.Question(),
		Action:    target,
		CancelURL: h.base(),
		Param:     action.Param,
		Options:   action.Options,
		Value:     value,
	}
}

// runAction submits an action form, or posts a direct action. A direct action
// without a confirm answer renders the confirmation first.
func (h *ScreenHandler) runAction(w http.ResponseWriter, r *http.Request) {
	action, ok := h.lookupAction(r)
	if !ok {
		http.NotFound(w, r)
		return
	}
	if err := r.ParseForm(); err != nil {
		http.Error(w, http.StatusText(http.StatusBadRequest), http.StatusBadRequest)
		return
	}
	id := chi.URLParam(r, "id")
	target := h.itemURL(id) + "/actions/" + action.Name

	if action.Form != "" {
		schema, ok := h.entity.ActionForms[action.Name]
		if !ok {
			http.NotFound(w, r)
			return
		}
		values := cloneValues(r.PostForm)
		if action.Target != "" {
			values.Set(action.Target, id)
		}
		h.save(w, r, schema, values, "", target)
		return
	}

	answer := r.PostFormValue("confirm")
	value := r.PostFormValue(action.Param)
	if answer == "" {
		ctrl, sc := h.controller(r)
		ctrl.Refresh(r.Context())
		h.renderList(w, r, http.StatusOK, ctrl, sc, ListPage{Confirm: h.actionDialog(action, target, value)})
		return
	}

	var body any
	if action.Param != "" {
		if !hasOption(action.Options, value) {
			notify.Error(r.Context(), h.deps.Notifier, "Opción no válida")
			h.deps.Redirect(w, r, h.base())
			return
		}
		body = map[string]any{action.Param: value}
	}
	ctrl, _ := h.controller(r)
	h.redirectReload(w, r, ctrl)
	err := ctrl.Action(r.Context(), id, action.Name, body, screen.Confirmed(answer == "yes"))
	if err == nil {
		return
	}
	if !errors.Is(err, screen.ErrCancelled) {
		h.deps.Logger.Info("action rejected", slog.String("screen", h.def().Name), slog.String("action", action.Name), slog.Any("error", err))
	}
	h.deps.Redirect(w, r, h.base())
}

func hasSources(schema form.Schema) bool {
	for _, f := range schema.Fields {
		if f.Source != nil {
			return true
		}
	}
	return false
}

func hasOption(opts []screen.Option, value string) bool {
	if len(opts) == 0 {
		return value != ""
	}
	for _, o := range opts {
		if o.Value == value {
			return true
		}
	}
	return false
}

func cloneValues(v url.Values) url.Values {
	out := make(url.Values, len(v))
	for k, vs := range v {
		out[k] = append([]string(nil), vs...)
	}
	return out
}
