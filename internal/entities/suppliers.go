package entities

import (
	"github.com/catalyst-admin/catalyst-admin/internal/form"
	"github.com/catalyst-admin/catalyst-admin/internal/screen"
)

// Suppliers manages the supplier registry.
func Suppliers() Entity {
	return Entity{
		Roles: adminRoles,
		Screen: screen.Definition{
			Name:      "suppliers",
			Title:     "Proveedores",
			Endpoint:  "/suppliers/",
			CanCreate: true,
			CanEdit:   true,
			CanDelete: true,
			CanView:   true,
			EmptyText: "Sin proveedores",
			Columns: []screen.Column{
				{Key: "name", Label: "Nombre"},
				{Key: "rut", Label: "RUT", Kind: screen.KindCode},
				{Key: "contact_person", Label: "Contacto", Fallback: "-"},
				{Key: "phone", Label: "Teléfono", Fallback: "-"},
				{Key: "email", Label: "Email"},
				{Key: "is_active", Label: "Estado", Kind: screen.KindBool, Badges: activeBadges},
			},
			Filters: []screen.Filter{searchFilter("Buscar por nombre o RUT"), activeFilter},
			Messages: screen.Messages{
				Deleted:      "Proveedor eliminado correctamente",
				DeleteFailed: "Error al eliminar proveedor",
				DeletePrompt: "¿Está seguro de que desea eliminar este proveedor?",
				FetchFailed:  "Error al cargar el proveedor",
			},
		},
		Form: &form.Schema{
			Entity:   "suppliers",
			Title:    "Proveedor",
			Endpoint: "/suppliers/",
			Created:  "Proveedor creado correctamente",
			Updated:  "Proveedor actualizado correctamente",
			Failed:   "Error al guardar proveedor",
			Fields: []form.Field{
				{Name: "name", Label: "Nombre", Kind: form.KindText, Required: true},
				{Name: "rut", Label: "RUT", Kind: form.KindText, Required: true, Rule: "rut", Message: "RUT no es válido", Placeholder: "76.086.428-4"},
				{Name: "email", Label: "Email", Kind: form.KindEmail, Required: true, Rule: "email", Message: "Email no es válido"},
				{Name: "phone", Label: "Teléfono", Kind: form.KindText},
				{Name: "address", Label: "Dirección", Kind: form.KindText},
				{Name: "contact_person", Label: "Persona de contacto", Kind: form.KindText},
				{Name: "payment_terms", Label: "Condiciones de pago", Kind: form.KindText, Placeholder: "30 días"},
				{Name: "is_active", Label: "Activo", Kind: form.KindCheckbox, Default: "true"},
			},
		},
	}
}
