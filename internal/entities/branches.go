package entities

import (
	"github.com/catalyst-admin/catalyst-admin/internal/form"
	"github.com/catalyst-admin/catalyst-admin/internal/screen"
)

// Branches manages the company's stores.
func Branches() Entity {
	branchBadges := map[string]screen.Badge{
		"true":  {Label: "Activa", Tone: screen.ToneSuccess},
		"false": {Label: "Inactiva", Tone: screen.ToneDanger},
	}
	return Entity{
		Roles: adminRoles,
		Screen: screen.Definition{
			Name:      "branches",
			Title:     "Sucursales",
			Endpoint:  "/branches/",
			CanCreate: true,
			CanEdit:   true,
			CanDelete: true,
			CanView:   true,
			EmptyText: "Sin sucursales",
			Columns: []screen.Column{
				{Key: "name", Label: "Nombre"},
				{Key: "address", Label: "Dirección"},
				{Key: "phone", Label: "Teléfono", Fallback: "-"},
				{Key: "manager_name", Label: "Gerente", Fallback: "Sin asignar"},
				{Key: "is_active", Label: "Estado", Kind: screen.KindBool, Badges: branchBadges},
			},
			Filters: []screen.Filter{searchFilter("Buscar sucursal"), activeFilter},
			Messages: screen.Messages{
				Deleted:      "Sucursal eliminada correctamente",
				DeleteFailed: "Error al eliminar sucursal",
				DeletePrompt: "¿Está seguro de que desea eliminar esta sucursal?",
				FetchFailed:  "Error al cargar la sucursal",
			},
		},
		Form: &form.Schema{
			Entity:   "branches",
			Title:    "Sucursal",
			Endpoint: "/branches/",
			Created:  "Sucursal creada correctamente",
			Updated:  "Sucursal actualizada correctamente",
			Failed:   "Error al guardar sucursal",
			Fields: []form.Field{
				{Name: "name", Label: "Nombre", Kind: form.KindText, Required: true},
				{Name: "address", Label: "Dirección", Kind: form.KindText, Required: true},
				{Name: "phone", Label: "Teléfono", Kind: form.KindText, Placeholder: "+56 9 1234 5678"},
				{Name: "email", Label: "Email", Kind: form.KindEmail, Rule: "omitempty,email", Message: "Email no es válido"},
				{
					Name:     "manager",
					Label:    "Gerente",
					Kind:     form.KindSelect,
					Nullable: true,
					Integer:  true,
					Options:  []form.Option{{Value: "", Label: "Sin gerente asignado"}},
					Source: &form.OptionSource{
						Path:      "/users/?role=gerente",
						ValueKey:  "id",
						LabelKeys: []string{"first_name", "last_name"},
						Failed:    "Error al cargar gerentes",
					},
				},
				{Name: "is_active", Label: "Activa", Kind: form.KindCheckbox, Default: "true"},
			},
		},
	}
}
