package entities

import (
	"github.com/catalyst-admin/catalyst-admin/internal/credentials"
	"github.com/catalyst-admin/catalyst-admin/internal/form"
	"github.com/catalyst-admin/catalyst-admin/internal/screen"
)

// ChangeRoleAction posts a new role for one user.
const ChangeRoleAction = "change-role"

// assignableRoles excludes super_admin, which is never granted from the panel.
var assignableRoles = []credentials.Role{credentials.RoleAdminCliente, credentials.RoleGerente, credentials.RoleVendedor}

func roleBadges() map[string]screen.Badge {
	tones := map[credentials.Role]screen.Tone{
		credentials.RoleSuperAdmin:   screen.ToneDanger,
		credentials.RoleAdminCliente: screen.ToneWarning,
		credentials.RoleGerente:      screen.ToneInfo,
		credentials.RoleVendedor:     screen.ToneSuccess,
	}
	out := make(map[string]screen.Badge, len(credentials.Roles))
	for _, r := range credentials.Roles {
		out[string(r)] = screen.Badge{Label: r.Label(), Tone: tones[r]}
	}
	return out
}

func roleOptions() []screen.Option {
	out := make([]screen.Option, 0, len(assignableRoles))
	for _, r := range assignableRoles {
		out = append(out, screen.Option{Value: string(r), Label: r.Label()})
	}
	return out
}

func roleFormOptions() []form.Option {
	out := make([]form.Option, 0, len(assignableRoles))
	for _, r := range assignableRoles {
		out = append(out, form.Option{Value: string(r), Label: r.Label()})
	}
	return out
}

// Users manages panel and point-of-sale accounts.
func Users() Entity {
	return Entity{
		Roles: adminRoles,
		Screen: screen.Definition{
			Name:      "users",
			Title:     "Usuarios",
			Endpoint:  "/users/",
			CanCreate: true,
			CanEdit:   true,
			CanDelete: true,
			CanView:   true,
			EmptyText: "Sin usuarios",
			Columns: []screen.Column{
				{Key: "username", Label: "Usuario"},
				{Key: "email", Label: "Email"},
				{Label: "Nombre", Keys: []string{"first_name", "last_name"}, Fallback: "-"},
				{Key: "role", Label: "Rol", Kind: screen.KindBadge, Badges: roleBadges()},
				{Key: "is_active", Label: "Estado", Kind: screen.KindBool, Badges: activeBadges},
			},
			Filters: []screen.Filter{
				searchFilter("Buscar por usuario o email"),
				{Name: "role", Label: "Rol", Kind: screen.FilterSelect, Options: append([]screen.Option{{Value: "", Label: "Todos"}}, roleOptions()...)},
			},
			Actions: []screen.Action{
				{
					Name:    ChangeRoleAction,
					Label:   "Cambiar rol",
					Prompt:  "¿Cambiar rol de este usuario?",
					Param:   "role",
					Options: roleOptions(),
					Success: "Rol actualizado correctamente",
				},
			},
			Messages: screen.Messages{
				Deleted:      "Usuario eliminado correctamente",
				DeleteFailed: "Error al eliminar usuario",
				DeletePrompt: "¿Está seguro de que desea eliminar este usuario?",
				FetchFailed:  "Error al cargar el usuario",
				ActionFailed: "Error al cambiar rol",
			},
		},
		Form: &form.Schema{
			Entity:   "users",
			Title:    "Usuario",
			Endpoint: "/users/",
			Created:  "Usuario creado correctamente",
			Updated:  "Usuario actualizado correctamente",
			Failed:   "Error al guardar usuario",
			Fields: []form.Field{
				{Name: "username", Label: "Usuario", Kind: form.KindText, Required: true, Immutable: true},
				{Name: "email", Label: "Email", Kind: form.KindEmail, Required: true, Rule: "email", Message: "Email no es válido"},
				{Name: "first_name", Label: "Nombre", Kind: form.KindText, Required: true},
				{Name: "last_name", Label: "Apellido", Kind: form.KindText},
				{Name: "password", Label: "Contraseña", Kind: form.KindPassword, Required: true, CreateOnly: true, Rule: "min=8", Message: "La contraseña debe tener al menos 8 caracteres"},
				{Name: "password_confirm", Label: "Confirmar contraseña", Kind: form.KindPassword, Required: true, CreateOnly: true, EqualTo: "password", EqualMessage: "Las contraseñas no coinciden"},
				{Name: "role", Label: "Rol", Kind: form.KindSelect, Required: true, Options: roleFormOptions()},
				{Name: "is_active", Label: "Activo", Kind: form.KindCheckbox, Default: "true"},
			},
		},
	}
}
