package entities

import (
	"net/url"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/catalyst-admin/catalyst-admin/internal/credentials"
	"github.com/catalyst-admin/catalyst-admin/internal/form"
	"github.com/catalyst-admin/catalyst-admin/internal/notify"
	"github.com/catalyst-admin/catalyst-admin/internal/screen"
)

func TestCatalogNamesAreUniqueAndPageSizeApplies(t *testing.T) {
	all := Catalog(15)
	require.Len(t, all, 8)
	seen := map[string]bool{}
	for _, e := range all {
		assert.False(t, seen[e.Name()], "duplicate %s", e.Name())
		seen[e.Name()] = true
		assert.Equal(t, 15, e.Screen.PageSize)
		assert.NotEmpty(t, e.Screen.Endpoint)
		assert.NotEmpty(t, e.DetailColumns())
		if e.Screen.CanCreate || e.Screen.CanEdit {
			assert.NotNil(t, e.Form, e.Name())
		}
	}
	_, ok := Lookup(all, "inventory")
	assert.True(t, ok)
	_, ok = Lookup(all, "ledger")
	assert.False(t, ok)
}

func TestRoleRestrictions(t *testing.T) {
	assert.True(t, Products().Allows(credentials.RoleVendedor))
	assert.False(t, Users().Allows(credentials.RoleVendedor))
	assert.False(t, Suppliers().Allows(credentials.RoleGerente))
	assert.True(t, Branches().Allows(credentials.RoleAdminCliente))
}

func TestProductPriceMustBePositive(t *testing.T) {
	ctrl := form.NewController(*Products().Form, nil, &notify.Recorder{}, nil, nil)
	values := url.Values{
		"sku":      {"SKU-1"},
		"name":     {"Mouse"},
		"category": {"Accesorios"},
		"price":    {"0"},
		"cost":     {"100"},
	}
	errs := ctrl.Validate(values, form.ModeCreate)
	require.Len(t, errs, 1)
	assert.Equal(t, "price", errs[0].Field)
	assert.Equal(t, "Precio debe ser mayor a 0", errs[0].Message)
}

func TestUserPasswordRulesOnlyOnCreate(t *testing.T) {
	ctrl := form.NewController(*Users().Form, nil, &notify.Recorder{}, nil, nil)
	values := url.Values{
		"username":         {"ana"},
		"email":            {"ana@example.com"},
		"first_name":       {"Ana"},
		"role":             {"vendedor"},
		"password":         {"short"},
		"password_confirm": {"other"},
	}
	errs := ctrl.Validate(values, form.ModeCreate)
	require.Len(t, errs, 2)
	assert.Equal(t, "La contraseña debe tener al menos 8 caracteres", errs[0].Message)
	assert.Equal(t, "password_confirm", errs[1].Field)

	assert.Empty(t, ctrl.Validate(values, form.ModeEdit))
}

func TestSupplierRUTIsChecked(t *testing.T) {
	ctrl := form.NewController(*Suppliers().Form, nil, &notify.Recorder{}, nil, nil)
	values := url.Values{"name": {"Acme"}, "rut": {"12345678-5"}, "email": {"a@b.cl"}}
	errs := ctrl.Validate(values, form.ModeCreate)
	require.Len(t, errs, 1)
	assert.Equal(t, "rut", errs[0].Field)

	values.Set("rut", "76.086.428-4")
	assert.Empty(t, ctrl.Validate(values, form.ModeCreate))
}

func TestInventoryIsAdjustedThroughMovements(t *testing.T) {
	inv := Inventory()
	assert.False(t, inv.Screen.CanCreate)
	assert.False(t, inv.Screen.CanDelete)
	action, ok := inv.Screen.Action(AdjustAction)
	require.True(t, ok)
	schema, ok := inv.ActionForms[action.Name]
	require.True(t, ok)
	assert.True(t, schema.CreateOnly)

	ctrl := form.NewController(schema, nil, &notify.Recorder{}, nil, nil)
	errs := ctrl.Validate(url.Values{"inventory": {"3"}, "movement_type": {"salida"}, "quantity": {"0"}}, form.ModeCreate)
	require.Len(t, errs, 1)
	assert.Equal(t, "quantity", errs[0].Field)
}

func TestInventoryRowsShowStockAgainstReorderPoint(t *testing.T) {
	def := Inventory().Screen
	state := screen.NewState(def)
	items := []screen.Record{{"id": float64(1), "product_name": "Mouse", "product_code": "M-1", "stock": float64(3), "reorder_point": float64(5)}}
	view := screen.BuildView(def, *state, items, screen.Loaded)
	require.Len(t, view.Rows, 1)
	cells := view.Rows[0].Cells
	assert.Equal(t, "3 unidades", cells[3].Text)
	assert.Equal(t, screen.ToneWarning, cells[3].Tone)
	assert.Equal(t, "Stock Bajo", cells[5].Text)
	assert.Equal(t, "-", cells[2].Text)
}
