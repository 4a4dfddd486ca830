package admin

import (
	"errors"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/httprate"
	"github.com/go-playground/validator/v10"

	"github.com/catalyst-admin/catalyst-admin/internal/form"
	"github.com/catalyst-admin/catalyst-admin/internal/notify"
	"github.com/catalyst-admin/catalyst-admin/internal/shared"
)

// AuthHandler wires the sign-in and sign-out endpoints.
type AuthHandler struct {
	deps       *Deps
	validator  *validator.Validate
	loginLimit int
}

// NewAuthHandler constructs an AuthHandler. loginLimit caps login attempts per
// IP and minute; zero disables the cap.
func NewAuthHandler(deps *Deps, loginLimit int) *AuthHandler {
	return &AuthHandler{deps: deps, validator: validator.New(), loginLimit: loginLimit}
}

// MountRoutes registers auth routes on provided router.
func (h *AuthHandler) MountRoutes(r chi.Router) {
	r.Get(LoginPath, h.showLogin)
	if h.loginLimit > 0 {
		r.With(httprate.LimitByIP(h.loginLimit, time.Minute)).Post(LoginPath, h.handleLogin)
	} else {
		r.Post(LoginPath, h.handleLogin)
	}
	r.Post("/logout", h.handleLogout)
}

type loginForm struct {
	Username string `validate:"required"`
	Password string `validate:"required"`
}

// LoginPage is the render model of pages/login.html.
type LoginPage struct {
	Username string
	Errors   map[string]string
}

var loginMessages = map[string]string{
	"Username": "Usuario es requerido",
	"Password": "Contraseña es requerida",
}

func (h *AuthHandler) showLogin(w http.ResponseWriter, r *http.Request) {
	if sess := shared.SessionFromContext(r.Context()); sess != nil && h.deps.Credentials.Open(sess).Authenticated() {
		http.Redirect(w, r, HomePath, http.StatusSeeOther)
		return
	}
	h.deps.Render(w, r, http.StatusOK, "pages/login.html", "Iniciar sesión", LoginPage{})
}

func (h *AuthHandler) handleLogin(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		http.Error(w, http.StatusText(http.StatusBadRequest), http.StatusBadRequest)
		return
	}
	sess := shared.SessionFromContext(r.Context())
	if sess == nil {
		h.deps.Logger.Error("session missing during login")
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}

	input := loginForm{
		Username: strings.TrimSpace(r.PostFormValue("username")),
		Password: r.PostFormValue("password"),
	}
	errs := make(map[string]string)
	if err := h.validator.Struct(input); err != nil {
		var fieldErrs validator.ValidationErrors
		if errors.As(err, &fieldErrs) {
			for _, fe := range fieldErrs {
				errs[fe.Field()] = loginMessages[fe.Field()]
			}
		}
	}

	status := http.StatusBadRequest
	if len(errs) == 0 {
		store := h.deps.Credentials.Open(sess)
		resp, err := h.deps.Credentials.Login(r.Context(), store, input.Username, input.Password)
		if err == nil {
			if _, err := h.deps.CSRF.Rotate(r.Context(), sess); err != nil {
				h.deps.Logger.Warn("rotate csrf", slog.Any("error", err))
			}
			notify.Success(r.Context(), h.deps.Notifier, "Bienvenido, "+resp.User.DisplayName())
			http.Redirect(w, r, HomePath, http.StatusSeeOther)
			return
		}
		if errors.Is(err, shared.ErrInvalidCredentials) {
			status = http.StatusUnauthorized
			errs["general"] = "Usuario o contraseña incorrectos"
		} else {
			h.deps.Logger.Warn("login failed", slog.String("username", input.Username), slog.Any("error", err))
			status = http.StatusBadGateway
			errs["general"] = form.ErrorMessage(err, "Error al iniciar sesión")
		}
	}

	h.deps.Render(w, r, status, "pages/login.html", "Iniciar sesión", LoginPage{Username: input.Username, Errors: errs})
}

func (h *AuthHandler) handleLogout(w http.ResponseWriter, r *http.Request) {
	if sess := shared.SessionFromContext(r.Context()); sess != nil {
		h.deps.Credentials.Logout(h.deps.Credentials.Open(sess))
		h.deps.Sessions.Destroy(sess)
	}
	http.Redirect(w, r, LoginPath, http.StatusSeeOther)
}
