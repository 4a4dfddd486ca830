package view

import (
	"bytes"
	"fmt"
	"html/template"
	"net/http"
	"strings"

	"github.com/catalyst-admin/catalyst-admin/internal/credentials"
	"github.com/catalyst-admin/catalyst-admin/internal/notify"
	"github.com/catalyst-admin/catalyst-admin/internal/screen"
	"github.com/catalyst-admin/catalyst-admin/web"
)

// Engine renders HTML templates.
type Engine struct {
	templates *template.Template
}

// NavItem is one sidebar entry.
type NavItem struct {
	Label  string
	Href   string
	Active bool
}

// TemplateData contains values shared across templates.
type TemplateData struct {
	Title         string
	CSRFToken     string
	Notifications []notify.Notification
	CurrentPath   string
	User          *credentials.User
	Nav           []NavItem
	Data          any
}

// NewEngine parses templates at build-time.
func NewEngine() (*Engine, error) {
	funcMap := template.FuncMap{
		"currency":       screen.FormatCurrency,
		"number":         screen.FormatNumber,
		"formatDate":     screen.FormatDate,
		"formatDateTime": screen.FormatDateTime,
		"toneClass":      toneClass,
		"roleLabel":      func(r credentials.Role) string { return r.Label() },
		"lower":          strings.ToLower,
		"withQuery":      withQuery,
		"transactions":   transactions,
	}
	tpl, err := template.New("root").Funcs(funcMap).ParseFS(web.Templates, "templates/layouts/*.html", "templates/partials/*.html", "templates/pages/*.html")
	if err != nil {
		return nil, err
	}
	return &Engine{templates: tpl}, nil
}

// Render executes a named template with TemplateData and a 200 status.
func (e *Engine) Render(w http.ResponseWriter, name string, data TemplateData) error {
	return e.RenderStatus(w, http.StatusOK, name, data)
}

// RenderStatus executes a named template into a buffer and writes it with status.
// Nothing is written when execution fails.
func (e *Engine) RenderStatus(w http.ResponseWriter, status int, name string, data TemplateData) error {
	if e == nil {
		return fmt.Errorf("template engine not initialised")
	}
	var buf bytes.Buffer
	if err := e.templates.ExecuteTemplate(&buf, name, data); err != nil {
		return err
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	_, err := buf.WriteTo(w)
	return err
}

// withQuery joins a path and an encoded query into a URL safe for href.
func withQuery(path, query string) template.URL {
	if query == "" {
		return template.URL(path)
	}
	return template.URL(path + "?" + query)
}

// TransactionTable feeds the shared sales table of the dashboards.
type TransactionTable struct {
	Rows   any
	Seller bool
}

func transactions(rows any, withSeller bool) TransactionTable {
	return TransactionTable{Rows: rows, Seller: withSeller}
}

func toneClass(t screen.Tone) string {
	if t == screen.ToneNeutral {
		return "badge"
	}
	return "badge badge-" + string(t)
}
