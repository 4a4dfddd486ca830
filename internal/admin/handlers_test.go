package admin

import (
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/go-chi/chi/v5"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/catalyst-admin/catalyst-admin/internal/apiclient"
	"github.com/catalyst-admin/catalyst-admin/internal/credentials"
	"github.com/catalyst-admin/catalyst-admin/internal/entities"
	"github.com/catalyst-admin/catalyst-admin/internal/notify"
	"github.com/catalyst-admin/catalyst-admin/internal/rbac"
	"github.com/catalyst-admin/catalyst-admin/internal/shared"
	"github.com/catalyst-admin/catalyst-admin/internal/view"
)

// fakeAPI is a minimal remote API: login, refresh and the product endpoints.
type fakeAPI struct {
	mu      sync.Mutex
	role    credentials.Role
	expired bool
	calls   map[string]int
	bodies  map[string]map[string]any
	queries map[string][]string
}

func (f *fakeAPI) queriesFor(key string) []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]string(nil), f.queries[key]...)
}

func (f *fakeAPI) count(key string) int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.calls[key]
}

func (f *fakeAPI) expire() {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.expired = true
}

func (f *fakeAPI) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	key := r.Method + " " + r.URL.Path
	var body map[string]any
	_ = json.NewDecoder(r.Body).Decode(&body)

	f.mu.Lock()
	f.calls[key]++
	f.bodies[key] = body
	f.queries[key] = append(f.queries[key], r.URL.RawQuery)
	expired, role := f.expired, f.role
	f.mu.Unlock()

	w.Header().Set("Content-Type", "application/json")
	reply := func(status int, payload string) {
		w.WriteHeader(status)
		_, _ = io.WriteString(w, payload)
	}

	switch {
	case key == "POST /api/users/login/":
		if body["password"] != "secret" {
			reply(http.StatusUnauthorized, `{"detail":"No active account found with the given credentials"}`)
			return
		}
		reply(http.StatusOK, `{"access":"access-1","refresh":"refresh-1","user":{"id":1,"username":"ana","first_name":"Ana","role":"`+string(role)+`","is_active":true}}`)
	case key == "POST /api/token/refresh/":
		if expired {
			reply(http.StatusUnauthorized, `{"detail":"Token is invalid or expired"}`)
			return
		}
		reply(http.StatusOK, `{"access":"access-2"}`)
	case r.Header.Get("Authorization") == "" || expired:
		reply(http.StatusUnauthorized, `{"detail":"Given token not valid for any token type"}`)
	case key == "GET /api/products/":
		reply(http.StatusOK, `{"count":1,"results":[{"id":5,"sku":"CAF-001","name":"Café de grano","price":"1990.00","stock":3,"is_active":true}]}`)
	case key == "GET /api/products/5/":
		reply(http.StatusOK, `{"id":5,"sku":"CAF-001","name":"Café de grano","category":"Accesorios","price":"1990.00","cost":"900.00","stock":3,"is_active":true}`)
	case key == "POST /api/products/":
		if body["sku"] == "DUP-001" {
			reply(http.StatusBadRequest, `{"sku":["Ya existe un producto con este SKU."]}`)
			return
		}
		reply(http.StatusCreated, `{"id":6}`)
	case key == "DELETE /api/products/5/":
		w.WriteHeader(http.StatusNoContent)
	case key == "GET /api/users/":
		reply(http.StatusOK, `{"count":0,"results":[]}`)
	default:
		reply(http.StatusNotFound, `{"detail":"No encontrado."}`)
	}
}

// browser replays cookies between requests against the router.
type browser struct {
	t       *testing.T
	handler http.Handler
	cookies map[string]*http.Cookie
}

func (b *browser) do(method, target string, form url.Values) *httptest.ResponseRecorder {
	b.t.Helper()
	var body io.Reader
	if form != nil {
		body = strings.NewReader(form.Encode())
	}
	req := httptest.NewRequest(method, target, body)
	if form != nil {
		req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	}
	for _, c := range b.cookies {
		req.AddCookie(c)
	}
	rec := httptest.NewRecorder()
	b.handler.ServeHTTP(rec, req)
	for _, c := range rec.Result().Cookies() {
		if c.MaxAge < 0 {
			delete(b.cookies, c.Name)
			continue
		}
		b.cookies[c.Name] = c
	}
	return rec
}

func (b *browser) login() {
	b.t.Helper()
	rec := b.do(http.MethodPost, LoginPath, url.Values{"username": {"ana"}, "password": {"secret"}})
	require.Equal(b.t, http.StatusSeeOther, rec.Code)
	require.Equal(b.t, HomePath, rec.Header().Get("Location"))
}

func newTestBrowser(t *testing.T, role credentials.Role) (*browser, *fakeAPI) {
	t.Helper()
	api := &fakeAPI{role: role, calls: map[string]int{}, bodies: map[string]map[string]any{}, queries: map[string][]string{}}
	srv := httptest.NewServer(api)
	t.Cleanup(srv.Close)

	mr := miniredis.RunT(t)
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = rdb.Close() })

	engine, err := view.NewEngine()
	require.NoError(t, err)

	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	client := apiclient.New(apiclient.Options{BaseURL: srv.URL + "/api", Timeout: 5 * time.Second, Logger: logger})
	deps := &Deps{
		Logger:      logger,
		Templates:   engine,
		Client:      client,
		Credentials: credentials.NewService(client, logger),
		Sessions:    shared.NewSessionManager(rdb, "test_session", "secret", time.Hour, false),
		CSRF:        shared.NewCSRFManager("csrf-secret"),
		Notifier:    notify.NewSessionNotifier(time.Second),
		Entities:    entities.Catalog(20),
	}

	r := chi.NewRouter()
	r.Use(shared.SessionMiddleware(deps.Sessions, logger))
	NewAuthHandler(deps, 0).MountRoutes(r)
	r.Group(func(r chi.Router) {
		r.Use(deps.RequireSession)
		gate := rbac.Middleware{Logger: logger}
		for _, e := range deps.Entities {
			r.With(gate.RequireRole(e.Roles...)).Route("/"+e.Name(), NewScreenHandler(deps, e).MountRoutes)
		}
	})

	return &browser{t: t, handler: r, cookies: map[string]*http.Cookie{}}, api
}

func TestUnauthenticatedRequestRedirectsToLogin(t *testing.T) {
	b, api := newTestBrowser(t, credentials.RoleAdminCliente)

	rec := b.do(http.MethodGet, "/products", nil)

	assert.Equal(t, http.StatusSeeOther, rec.Code)
	assert.Equal(t, LoginPath, rec.Header().Get("Location"))
	assert.Zero(t, api.count("GET /api/products/"))
}

func TestLoginRejectsBadCredentials(t *testing.T) {
	b, _ := newTestBrowser(t, credentials.RoleAdminCliente)

	rec := b.do(http.MethodPost, LoginPath, url.Values{"username": {"ana"}, "password": {"wrong"}})

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.Contains(t, rec.Body.String(), "Usuario o contraseña incorrectos")
}

func TestLoginRequiresFields(t *testing.T) {
	b, api := newTestBrowser(t, credentials.RoleAdminCliente)

	rec := b.do(http.MethodPost, LoginPath, url.Values{"username": {""}, "password": {""}})

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, rec.Body.String(), "Usuario es requerido")
	assert.Zero(t, api.count("POST /api/users/login/"))
}

func TestLoginThenListShowsRowsAndWelcome(t *testing.T) {
	b, api := newTestBrowser(t, credentials.RoleAdminCliente)
	b.login()

	rec := b.do(http.MethodGet, "/products", nil)

	require.Equal(t, http.StatusOK, rec.Code)
	body := rec.Body.String()
	assert.Contains(t, body, "Café de grano")
	assert.Contains(t, body, "Bienvenido, Ana")
	assert.Equal(t, 1, api.count("GET /api/products/"))
}

func TestDeclinedDeleteMakesNoCall(t *testing.T) {
	b, api := newTestBrowser(t, credentials.RoleAdminCliente)
	b.login()

	rec := b.do(http.MethodPost, "/products/5/delete", url.Values{"confirm": {"no"}})

	assert.Equal(t, http.StatusSeeOther, rec.Code)
	assert.Equal(t, "/products", rec.Header().Get("Location"))
	assert.Zero(t, api.count("DELETE /api/products/5/"))
}

func TestConfirmedDeleteCallsOnceAndRedirects(t *testing.T) {
	b, api := newTestBrowser(t, credentials.RoleAdminCliente)
	b.login()

	rec := b.do(http.MethodPost, "/products/5/delete", url.Values{"confirm": {"yes"}})

	assert.Equal(t, http.StatusSeeOther, rec.Code)
	assert.Equal(t, "/products", rec.Header().Get("Location"))
	assert.Equal(t, 1, api.count("DELETE /api/products/5/"))
	assert.Zero(t, api.count("GET /api/products/"), "the reload happens on the redirected GET")

	next := b.do(http.MethodGet, "/products", nil)
	assert.Contains(t, next.Body.String(), "Producto eliminado correctamente")
}

func TestDeleteConfirmationRendersDialog(t *testing.T) {
	b, _ := newTestBrowser(t, credentials.RoleAdminCliente)
	b.login()

	rec := b.do(http.MethodGet, "/products/5/delete", nil)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "¿Está seguro de que desea eliminar este producto?")
	assert.Contains(t, rec.Body.String(), `action="/products/5/delete"`)
}

func TestInvalidSaveRerendersWith422(t *testing.T) {
	b, api := newTestBrowser(t, credentials.RoleAdminCliente)
	b.login()

	rec := b.do(http.MethodPost, "/products", url.Values{
		"sku": {"CAF-002"}, "name": {"Café molido"}, "category": {"Accesorios"}, "price": {"-5"}, "cost": {"100"},
	})

	assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)
	assert.Contains(t, rec.Body.String(), "Precio debe ser mayor a 0")
	assert.Contains(t, rec.Body.String(), `value="Café molido"`)
	assert.Zero(t, api.count("POST /api/products/"))
}

func TestRejectedSaveShowsServerMessage(t *testing.T) {
	b, api := newTestBrowser(t, credentials.RoleAdminCliente)
	b.login()

	rec := b.do(http.MethodPost, "/products", url.Values{
		"sku": {"DUP-001"}, "name": {"Duplicado"}, "category": {"Accesorios"}, "price": {"10"}, "cost": {"1"},
	})

	assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)
	assert.Contains(t, rec.Body.String(), "Ya existe un producto con este SKU.")
	assert.Equal(t, 1, api.count("POST /api/products/"))
}

func TestValidSaveRedirectsToList(t *testing.T) {
	b, api := newTestBrowser(t, credentials.RoleAdminCliente)
	b.login()

	rec := b.do(http.MethodPost, "/products", url.Values{
		"sku": {"CAF-002"}, "name": {"Café molido"}, "category": {"Accesorios"}, "price": {"2490"}, "cost": {"1200"}, "is_active": {"true"},
	})

	assert.Equal(t, http.StatusSeeOther, rec.Code)
	assert.Equal(t, "/products", rec.Header().Get("Location"))
	require.Equal(t, 1, api.count("POST /api/products/"))
	api.mu.Lock()
	sent := api.bodies["POST /api/products/"]
	api.mu.Unlock()
	assert.Equal(t, 2490.0, sent["price"])
	assert.Equal(t, true, sent["is_active"])
}

func TestSaveReloadKeepsFiltersFromBeforeTheDialog(t *testing.T) {
	b, api := newTestBrowser(t, credentials.RoleAdminCliente)
	b.login()

	require.Equal(t, http.StatusOK, b.do(http.MethodGet, "/products?search=caf&is_active=true", nil).Code)
	require.Equal(t, http.StatusOK, b.do(http.MethodGet, "/products/new", nil).Code)

	rec := b.do(http.MethodPost, "/products", url.Values{
		"sku": {"CAF-002"}, "name": {"Café molido"}, "category": {"Accesorios"}, "price": {"2490"}, "cost": {"1200"}, "is_active": {"true"},
	})
	require.Equal(t, http.StatusSeeOther, rec.Code)
	require.Equal(t, "/products", rec.Header().Get("Location"))
	before := len(api.queriesFor("GET /api/products/"))

	page := b.do(http.MethodGet, rec.Header().Get("Location"), nil)

	assert.Equal(t, http.StatusOK, page.Code)
	loads := api.queriesFor("GET /api/products/")[before:]
	assert.Equal(t, []string{"is_active=true&page=1&search=caf"}, loads)
	assert.Contains(t, page.Body.String(), `value="caf"`)
}

func TestDetailShowsFormattedFields(t *testing.T) {
	b, _ := newTestBrowser(t, credentials.RoleAdminCliente)
	b.login()

	rec := b.do(http.MethodGet, "/products/5", nil)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "3 unidades")
	assert.Contains(t, rec.Body.String(), `href="/products/5/edit"`)
}

func TestExpiredSessionRedirectsToLogin(t *testing.T) {
	b, api := newTestBrowser(t, credentials.RoleAdminCliente)
	b.login()
	api.expire()

	rec := b.do(http.MethodGet, "/products", nil)
	assert.Equal(t, http.StatusSeeOther, rec.Code)
	assert.Equal(t, LoginPath, rec.Header().Get("Location"))
	assert.Equal(t, 1, api.count("POST /api/token/refresh/"))
	assert.Equal(t, 1, api.count("GET /api/products/"), "no retry after a failed refresh")

	login := b.do(http.MethodGet, LoginPath, nil)
	assert.Contains(t, login.Body.String(), "Su sesión ha expirado")

	again := b.do(http.MethodGet, "/products", nil)
	assert.Equal(t, LoginPath, again.Header().Get("Location"))
}

func TestRoleGateForbidsVendorOnUsers(t *testing.T) {
	b, api := newTestBrowser(t, credentials.RoleVendedor)
	b.login()

	rec := b.do(http.MethodGet, "/users", nil)

	assert.Equal(t, http.StatusForbidden, rec.Code)
	assert.Zero(t, api.count("GET /api/users/"))
}

func TestLogoutClearsSession(t *testing.T) {
	b, _ := newTestBrowser(t, credentials.RoleAdminCliente)
	b.login()

	rec := b.do(http.MethodPost, "/logout", url.Values{})
	assert.Equal(t, http.StatusSeeOther, rec.Code)
	assert.Equal(t, LoginPath, rec.Header().Get("Location"))

	again := b.do(http.MethodGet, "/products", nil)
	assert.Equal(t, LoginPath, again.Header().Get("Location"))
}
