// Package entities declares every entity screen of the panel: list columns,
// filters, row actions, form schemas and role restrictions.
package entities

import (
	"github.com/catalyst-admin/catalyst-admin/internal/credentials"
	"github.com/catalyst-admin/catalyst-admin/internal/form"
	"github.com/catalyst-admin/catalyst-admin/internal/rbac"
	"github.com/catalyst-admin/catalyst-admin/internal/screen"
)

// Entity bundles the list and form descriptors of one resource.
type Entity struct {
	Screen screen.Definition
	// Form is nil for read-only screens.
	Form *form.Schema
	// ActionForms back row actions that open a dialog instead of posting directly.
	ActionForms map[string]form.Schema
	// Detail lists the fields of the detail view; Screen columns are used when empty.
	Detail []screen.Column
	// Roles restricts access; empty means any signed-in user.
	Roles []credentials.Role
}

// Name returns the URL segment of the entity.
func (e Entity) Name() string { return e.Screen.Name }

// Allows reports whether role may open the screen.
func (e Entity) Allows(role credentials.Role) bool {
	return rbac.Allowed(role, e.Roles)
}

// DetailColumns returns the columns shown on the detail view.
func (e Entity) DetailColumns() []screen.Column {
	if len(e.Detail) > 0 {
		return e.Detail
	}
	return e.Screen.Columns
}

var adminRoles = []credentials.Role{credentials.RoleSuperAdmin, credentials.RoleAdminCliente}

var activeBadges = map[string]screen.Badge{
	"true":  {Label: "Activo", Tone: screen.ToneSuccess},
	"false": {Label: "Inactivo", Tone: screen.ToneDanger},
}

var activeFilter = screen.Filter{
	Name:  "is_active",
	Label: "Estado",
	Kind:  screen.FilterSelect,
	Options: []screen.Option{
		{Value: "", Label: "Todos"},
		{Value: "true", Label: "Activos"},
		{Value: "false", Label: "Inactivos"},
	},
}

func searchFilter(placeholder string) screen.Filter {
	return screen.Filter{Name: "search", Label: "Buscar", Kind: screen.FilterSearch, Placeholder: placeholder}
}

// Catalog returns every entity with pageSize applied to each screen.
func Catalog(pageSize int) []Entity {
	all := []Entity{
		Products(),
		Inventory(),
		Sales(),
		Orders(),
		Purchases(),
		Branches(),
		Suppliers(),
		Users(),
	}
	for i := range all {
		if pageSize > 0 {
			all[i].Screen.PageSize = pageSize
		}
	}
	return all
}

// Lookup finds an entity by name in entities.
func Lookup(entities []Entity, name string) (Entity, bool) {
	for _, e := range entities {
		if e.Name() == name {
			return e, true
		}
	}
	return Entity{}, false
}
