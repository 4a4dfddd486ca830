// Package admin serves the entity screens and the sign-in flow as
// server-rendered pages over the remote API.
package admin

import (
	"context"
	"log/slog"
	"net/http"
	"strings"

	"github.com/catalyst-admin/catalyst-admin/internal/apiclient"
	"github.com/catalyst-admin/catalyst-admin/internal/credentials"
	"github.com/catalyst-admin/catalyst-admin/internal/entities"
	"github.com/catalyst-admin/catalyst-admin/internal/notify"
	"github.com/catalyst-admin/catalyst-admin/internal/shared"
	"github.com/catalyst-admin/catalyst-admin/internal/view"
)

const (
	// LoginPath is where unauthenticated requests are sent.
	LoginPath = "/login"
	// HomePath is the landing page after sign-in.
	HomePath = "/dashboard"

	expiredMessage = "Su sesión ha expirado. Inicie sesión nuevamente."
)

// Deps aggregates what every admin handler needs.
type Deps struct {
	Logger      *slog.Logger
	Templates   *view.Engine
	Client      *apiclient.Client
	Credentials *credentials.Service
	Sessions    *shared.SessionManager
	CSRF        *shared.CSRFManager
	Notifier    notify.Notifier
	Entities    []entities.Entity
}

// Scope is the per-request view of the signed-in user: the session, its
// credential store and an API session bound to it.
type Scope struct {
	Session *shared.Session
	Store   *credentials.Store
	API     *apiclient.Session
}

type scopeContextKey struct{}

// ScopeFrom returns the scope installed by RequireSession, or nil.
func ScopeFrom(ctx context.Context) *Scope {
	sc, _ := ctx.Value(scopeContextKey{}).(*Scope)
	return sc
}

// RequireSession sends requests without credentials to the login page and
// installs the Scope and user for the rest.
func (d *Deps) RequireSession(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		sess := shared.SessionFromContext(r.Context())
		if sess == nil {
			d.Logger.Error("session middleware missing", slog.String("path", r.URL.Path))
			http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
			return
		}
		store := d.Credentials.Open(sess)
		if !store.Authenticated() {
			http.Redirect(w, r, LoginPath, http.StatusSeeOther)
			return
		}
		sc := &Scope{Session: sess, Store: store, API: d.Client.Bind(store)}
		ctx := context.WithValue(r.Context(), scopeContextKey{}, sc)
		ctx = credentials.ContextWithUser(ctx, store.User())
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// Expired redirects to the login page when a token refresh failed during the
// request. Handlers call it before writing any response.
func (d *Deps) Expired(w http.ResponseWriter, r *http.Request) bool {
	sc := ScopeFrom(r.Context())
	if sc == nil || !sc.Store.Expired() {
		return false
	}
	notify.Warning(r.Context(), d.Notifier, expiredMessage)
	http.Redirect(w, r, LoginPath, http.StatusSeeOther)
	return true
}

// Page assembles TemplateData. Pending notifications are drained here, which
// must happen before the response header is written.
func (d *Deps) Page(r *http.Request, title string, data any) view.TemplateData {
	ctx := r.Context()
	sess := shared.SessionFromContext(ctx)
	csrfToken, _ := d.CSRF.EnsureToken(ctx, sess)
	td := view.TemplateData{
		Title:       title,
		CSRFToken:   csrfToken,
		CurrentPath: r.URL.Path,
		Data:        data,
	}
	if sess != nil {
		td.Notifications = notify.FromFlashes(sess.PopFlashes())
	}
	if user, ok := credentials.UserFromContext(ctx); ok {
		td.User = &user
		td.Nav = d.nav(user.Role, r.URL.Path)
	}
	return td
}

// Render writes a full page with status, or the login redirect when the
// session expired while serving the request.
func (d *Deps) Render(w http.ResponseWriter, r *http.Request, status int, name, title string, data any) {
	if d.Expired(w, r) {
		return
	}
	if err := d.Templates.RenderStatus(w, status, name, d.Page(r, title, data)); err != nil {
		d.Logger.Error("render page", slog.String("template", name), slog.Any("error", err))
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
	}
}

// Redirect is a 303 to target unless the session expired, in which case it
// goes to the login page.
func (d *Deps) Redirect(w http.ResponseWriter, r *http.Request, target string) {
	if d.Expired(w, r) {
		return
	}
	http.Redirect(w, r, target, http.StatusSeeOther)
}

func (d *Deps) nav(role credentials.Role, current string) []view.NavItem {
	items := []view.NavItem{{Label: "Dashboard", Href: HomePath, Active: strings.HasPrefix(current, HomePath)}}
	for _, e := range d.Entities {
		if !e.Allows(role) {
			continue
		}
		href := "/" + e.Name()
		items = append(items, view.NavItem{
			Label:  e.Screen.Title,
			Href:   href,
			Active: current == href || strings.HasPrefix(current, href+"/"),
		})
	}
	return items
}
