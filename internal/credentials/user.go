package credentials

import "encoding/json"

// Role is the account role assigned by the API.
type Role string

const (
	RoleSuperAdmin   Role = "super_admin"
	RoleAdminCliente Role = "admin_cliente"
	RoleGerente      Role = "gerente"
	RoleVendedor     Role = "vendedor"
)

// Roles lists every known role in display order.
var Roles = []Role{RoleSuperAdmin, RoleAdminCliente, RoleGerente, RoleVendedor}

// Label returns the Spanish display name used across the panel.
func (r Role) Label() string {
	switch r {
	case RoleSuperAdmin:
		return "Super Administrador"
	case RoleAdminCliente:
		return "Administrador"
	case RoleGerente:
		return "Gerente"
	case RoleVendedor:
		return "Vendedor"
	}
	return string(r)
}

// User is the profile returned alongside the login tokens.
type User struct {
	ID          int64           `json:"id"`
	Username    string          `json:"username"`
	Email       string          `json:"email"`
	FirstName   string          `json:"first_name"`
	LastName    string          `json:"last_name"`
	Role        Role            `json:"role"`
	RoleDisplay string          `json:"role_display,omitempty"`
	Company     json.RawMessage `json:"company,omitempty"`
	CompanyName string          `json:"company_name,omitempty"`
	IsActive    bool            `json:"is_active"`
}

// DisplayName prefers the full name and falls back to the username.
func (u User) DisplayName() string {
	name := u.FirstName
	if u.LastName != "" {
		if name != "" {
			name += " "
		}
		name += u.LastName
	}
	if name == "" {
		return u.Username
	}
	return name
}
