package app

import (
	"io/fs"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"

	"github.com/catalyst-admin/catalyst-admin/internal/admin"
	"github.com/catalyst-admin/catalyst-admin/internal/dashboard"
	"github.com/catalyst-admin/catalyst-admin/internal/observability"
	"github.com/catalyst-admin/catalyst-admin/internal/rbac"
	"github.com/catalyst-admin/catalyst-admin/web"
)

// RouterParams groups dependencies for building the HTTP router.
type RouterParams struct {
	Logger           *slog.Logger
	Config           *Config
	Deps             *admin.Deps
	AuthHandler      *admin.AuthHandler
	DashboardHandler *dashboard.Handler
	RBACMiddleware   rbac.Middleware
	Metrics          *observability.Metrics
}

// NewRouter constructs the chi.Router with the panel defaults. Health, metrics
// and static assets bypass the session stack.
func NewRouter(params RouterParams) http.Handler {
	r := chi.NewRouter()
	if params.Metrics != nil {
		r.Use(params.Metrics.Middleware)
	}

	r.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte(`{"status":"ok"}`))
	})
	if params.Metrics != nil {
		r.Method(http.MethodGet, "/metrics", params.Metrics.Handler())
	}

	staticFS, err := fs.Sub(web.Static, "static")
	if err != nil {
		params.Logger.Error("create static sub filesystem", slog.Any("error", err))
	} else {
		fileServer := http.StripPrefix("/static/", http.FileServer(http.FS(staticFS)))
		r.Handle("/static/*", staticCacheHandler(fileServer))
	}

	r.Group(func(r chi.Router) {
		for _, mw := range MiddlewareStack(MiddlewareConfig{
			Logger:         params.Logger,
			Config:         params.Config,
			SessionManager: params.Deps.Sessions,
			CSRFManager:    params.Deps.CSRF,
		}) {
			r.Use(mw)
		}
		r.Use(chimw.Logger)

		r.Get("/", func(w http.ResponseWriter, r *http.Request) {
			http.Redirect(w, r, admin.HomePath, http.StatusSeeOther)
		})
		params.AuthHandler.MountRoutes(r)

		r.Group(func(r chi.Router) {
			r.Use(params.Deps.RequireSession)
			if params.DashboardHandler != nil {
				params.DashboardHandler.MountRoutes(r)
			}
			for _, entity := range params.Deps.Entities {
				h := admin.NewScreenHandler(params.Deps, entity)
				r.With(params.RBACMiddleware.RequireRole(entity.Roles...)).Route("/"+entity.Name(), h.MountRoutes)
			}
		})
	})

	return r
}

// staticCacheHandler wraps a file server with Cache-Control headers.
func staticCacheHandler(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Cache-Control", "public, max-age=3600")
		next.ServeHTTP(w, r)
	})
}
