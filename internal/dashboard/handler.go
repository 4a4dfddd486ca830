package dashboard

import (
	"errors"
	"html/template"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/catalyst-admin/catalyst-admin/internal/admin"
	"github.com/catalyst-admin/catalyst-admin/internal/credentials"
	"github.com/catalyst-admin/catalyst-admin/internal/dashboard/svg"
	"github.com/catalyst-admin/catalyst-admin/internal/notify"
)

const (
	loadFailedMessage = "Error al cargar los datos del dashboard"
	refreshedMessage  = "Dashboard actualizado"
)

// Chart is one rendered chart of the page.
type Chart struct {
	Title string
	SVG   template.HTML
	Empty bool
}

// Page is the render model of pages/dashboard.html.
type Page struct {
	Dashboard
	Charts []Chart
}

// Handler serves the dashboard pages.
type Handler struct {
	deps    *admin.Deps
	service *Service
	logger  *slog.Logger
}

// NewHandler builds a Handler.
func NewHandler(deps *admin.Deps, service *Service) *Handler {
	logger := deps.Logger
	if logger == nil {
		logger = slog.Default()
	}
	return &Handler{deps: deps, service: service, logger: logger}
}

// MountRoutes registers the dashboard routes. The router must already
// require a session.
func (h *Handler) MountRoutes(r chi.Router) {
	r.Get(admin.HomePath, h.show)
	r.Post(admin.HomePath+"/refresh", h.refresh)
}

func (h *Handler) show(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	sc := admin.ScopeFrom(ctx)
	user, ok := credentials.UserFromContext(ctx)
	if sc == nil || !ok {
		http.Redirect(w, r, admin.LoginPath, http.StatusSeeOther)
		return
	}

	d, err := h.service.Load(ctx, sc.API, user)
	if err != nil {
		if h.deps.Expired(w, r) {
			return
		}
		h.logger.Error("load dashboard", slog.String("role", string(user.Role)), slog.Any("error", err))
		notify.Error(ctx, h.deps.Notifier, loadFailedMessage)
		d = Empty(KindFor(user.Role))
	}
	h.deps.Render(w, r, http.StatusOK, "pages/dashboard.html", "Dashboard", Page{Dashboard: d, Charts: h.charts(d)})
}

func (h *Handler) refresh(w http.ResponseWriter, r *http.Request) {
	if err := h.service.Invalidate(r.Context()); err != nil {
		h.logger.Warn("invalidate dashboard cache", slog.Any("error", err))
	}
	notify.Info(r.Context(), h.deps.Notifier, refreshedMessage)
	h.deps.Redirect(w, r, admin.HomePath)
}

func (h *Handler) charts(d Dashboard) []Chart {
	switch {
	case d.Manager != nil:
		return []Chart{
			h.line("Desempeño semanal", "Ventas del equipo en los últimos 7 días", d.Manager.WeeklyPerformance, 0),
			h.bars("Ventas por vendedor", "Vendedores con más ventas este mes", d.Manager.SellerSales),
		}
	case d.Vendor != nil:
		return []Chart{
			h.line("Ventas diarias", "Ventas de los últimos 30 días", d.Vendor.DailySales, 10),
			h.bars("Métodos de pago", "Transacciones por método de pago", d.Vendor.PaymentMethods),
		}
	}
	return nil
}

func (h *Handler) line(title, desc string, s Series, maxLabels int) Chart {
	out, err := svg.Line(svg.DefaultWidth, svg.DefaultHeight, s.Values, s.Labels, svg.LineOpts{
		Title:       title,
		Description: desc,
		ShowDots:    true,
		MaxLabels:   maxLabels,
	})
	return h.chart(title, out, err)
}

func (h *Handler) bars(title, desc string, s Series) Chart {
	out, err := svg.Bars(svg.DefaultWidth, svg.DefaultHeight, s.Values, s.Labels, svg.BarOpts{
		Title:       title,
		Description: desc,
	})
	return h.chart(title, out, err)
}

func (h *Handler) chart(title string, out template.HTML, err error) Chart {
	if err != nil {
		if !errors.Is(err, svg.ErrEmptySeries) {
			h.logger.Warn("render chart", slog.String("chart", title), slog.Any("error", err))
		}
		return Chart{Title: title, Empty: true}
	}
	return Chart{Title: title, SVG: out}
}
