// Package rbac gates routes by the role of the signed-in user.
package rbac

import (
	"log/slog"
	"net/http"

	"github.com/catalyst-admin/catalyst-admin/internal/credentials"
)

// Middleware wires role checks for HTTP handlers. It expects the session
// middleware to have placed the user in the request context.
type Middleware struct {
	Logger *slog.Logger
}

// RequireRole ensures the current user holds one of roles. No roles means any
// signed-in user.
func (m Middleware) RequireRole(roles ...credentials.Role) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			user, ok := credentials.UserFromContext(r.Context())
			if !ok {
				http.Error(w, http.StatusText(http.StatusForbidden), http.StatusForbidden)
				return
			}
			if Allowed(user.Role, roles) {
				next.ServeHTTP(w, r)
				return
			}
			if m.Logger != nil {
				m.Logger.Warn("rbac denied", slog.String("user", user.Username), slog.String("role", string(user.Role)), slog.String("path", r.URL.Path))
			}
			http.Error(w, http.StatusText(http.StatusForbidden), http.StatusForbidden)
		})
	}
}

// Allowed reports whether role is one of roles.
func Allowed(role credentials.Role, roles []credentials.Role) bool {
	if len(roles) == 0 {
		return true
	}
	for _, r := range roles {
		if r == role {
			return true
		}
	}
	return false
}
