package form

import (
	"context"
	"encoding/json"
	"errors"
	"net/url"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/catalyst-admin/catalyst-admin/internal/apiclient"
	"github.com/catalyst-admin/catalyst-admin/internal/notify"
)

type call struct {
	method string
	path   string
	body   any
}

type fakeAPI struct {
	calls []call
	resp  json.RawMessage
	err   error
}

func (f *fakeAPI) Get(_ context.Context, path string) (json.RawMessage, error) {
	f.calls = append(f.calls, call{method: "GET", path: path})
	return f.resp, f.err
}

func (f *fakeAPI) Post(_ context.Context, path string, body any) (json.RawMessage, error) {
	f.calls = append(f.calls, call{method: "POST", path: path, body: body})
	return f.resp, f.err
}

func (f *fakeAPI) Put(_ context.Context, path string, body any) (json.RawMessage, error) {
	f.calls = append(f.calls, call{method: "PUT", path: path, body: body})
	return f.resp, f.err
}

type countingReloader struct{ n int }

func (r *countingReloader) Reload(context.Context) { r.n++ }

func productSchema() Schema {
	return Schema{
		Entity:   "products",
		Title:    "Producto",
		Endpoint: "/products/",
		Created:  "Producto creado correctamente",
		Updated:  "Producto actualizado correctamente",
		Fields: []Field{
			{Name: "sku", Label: "SKU", Kind: KindText, Required: true, Immutable: true},
			{Name: "name", Label: "Nombre", Kind: KindText, Required: true},
			{Name: "category", Label: "Categoría", Kind: KindSelect, Required: true, Options: []Option{{Value: "Accesorios", Label: "Accesorios"}}},
			{Name: "price", Label: "Precio", Kind: KindNumber, Required: true, Rule: "gt=0", Message: "Precio debe ser mayor a 0"},
			{Name: "cost", Label: "Costo", Kind: KindNumber, Required: true, Rule: "gte=0", Message: "Costo no puede ser negativo"},
			{Name: "is_active", Label: "Activo", Kind: KindCheckbox},
		},
	}
}

func userSchema() Schema {
	return Schema{
		Entity:   "users",
		Endpoint: "/users/",
		Fields: []Field{
			{Name: "username", Label: "Usuario", Kind: KindText, Required: true, Immutable: true},
			{Name: "email", Label: "Email", Kind: KindEmail, Required: true, Rule: "email", Message: "Email no es válido"},
			{Name: "password", Label: "Contraseña", Kind: KindPassword, Required: true, CreateOnly: true, Rule: "min=8", Message: "La contraseña debe tener al menos 8 caracteres"},
			{Name: "password_confirm", Label: "Confirmar contraseña", Kind: KindPassword, Required: true, CreateOnly: true, EqualTo: "password", EqualMessage: "Las contraseñas no coinciden"},
			{Name: "manager", Label: "Gerente", Kind: KindSelect, Nullable: true, Integer: true},
		},
	}
}

func validProduct() url.Values {
	return url.Values{
		"sku":       {"SKU-1"},
		"name":      {"Mouse"},
		"category":  {"Accesorios"},
		"price":     {"12990"},
		"cost":      {"8000"},
		"is_active": {"on"},
	}
}

func TestShortPasswordFailsLocally(t *testing.T) {
	api := &fakeAPI{}
	rec := &notify.Recorder{}
	reload := &countingReloader{}
	c := NewController(userSchema(), api, rec, reload, nil)

	view, err := c.Save(context.Background(), url.Values{
		"username":         {"ana"},
		"email":            {"ana@example.cl"},
		"password":         {"abc"},
		"password_confirm": {"abc"},
	}, "")

	require.ErrorIs(t, err, ErrValidation)
	assert.Empty(t, api.calls)
	assert.Zero(t, reload.n)
	assert.True(t, view.Open)
	assert.Equal(t, "La contraseña debe tener al menos 8 caracteres", view.Error)
	last, ok := rec.Last()
	require.True(t, ok)
	assert.Equal(t, notify.SeverityError, last.Severity)
}

func TestNegativePriceFailsLocally(t *testing.T) {
	api := &fakeAPI{}
	rec := &notify.Recorder{}
	c := NewController(productSchema(), api, rec, &countingReloader{}, nil)

	values := validProduct()
	values.Set("price", "-5")
	view, err := c.Save(context.Background(), values, "9")

	require.ErrorIs(t, err, ErrValidation)
	var fe FieldError
	require.ErrorAs(t, err, &fe)
	assert.Equal(t, "price", fe.Field)
	assert.Equal(t, "Precio debe ser mayor a 0", fe.Message)
	assert.Empty(t, api.calls)
	assert.Equal(t, ModeEdit, view.Mode)
	assert.Equal(t, "-5", fieldValue(view, "price"))
}

func TestValidationOrder(t *testing.T) {
	c := NewController(userSchema(), &fakeAPI{}, &notify.Recorder{}, nil, nil)

	errs := c.Validate(url.Values{"username": {"ana"}, "email": {"bad"}, "password": {"longenough"}, "password_confirm": {"different"}}, ModeCreate)
	require.Len(t, errs, 2)
	assert.Equal(t, "email", errs[0].Field)
	assert.Equal(t, FieldError{Field: "password_confirm", Message: "Las contraseñas no coinciden"}, errs[1])

	assert.Empty(t, c.Validate(url.Values{"username": {"ana"}, "email": {"ana@x.cl"}}, ModeEdit), "create-only fields are skipped when editing")

	errs = NewController(productSchema(), &fakeAPI{}, nil, nil, nil).Validate(url.Values{"sku": {"A"}, "name": {"B"}, "category": {"Accesorios"}, "price": {"abc"}, "cost": {"0"}}, ModeCreate)
	require.Len(t, errs, 1)
	assert.Equal(t, "Precio debe ser un número", errs[0].Message)
}

func TestSaveCreatePostsCoercedPayloadAndReloadsOnce(t *testing.T) {
	api := &fakeAPI{resp: json.RawMessage(`{"id":5}`)}
	rec := &notify.Recorder{}
	reload := &countingReloader{}
	c := NewController(productSchema(), api, rec, reload, nil)

	view, err := c.Save(context.Background(), validProduct(), "")
	require.NoError(t, err)
	assert.False(t, view.Open)
	assert.Equal(t, 1, reload.n)

	require.Len(t, api.calls, 1)
	assert.Equal(t, "POST", api.calls[0].method)
	assert.Equal(t, "/products/", api.calls[0].path)
	payload := api.calls[0].body.(map[string]any)
	assert.Equal(t, 12990.0, payload["price"])
	assert.Equal(t, true, payload["is_active"])

	last, _ := rec.Last()
	assert.Equal(t, notify.Notification{Message: "Producto creado correctamente", Severity: notify.SeveritySuccess, DurationMs: 5000}, last)
}

func TestSaveUpdatePutsAndDropsCreateOnlyFields(t *testing.T) {
	api := &fakeAPI{resp: json.RawMessage(`{}`)}
	reload := &countingReloader{}
	c := NewController(userSchema(), api, &notify.Recorder{}, reload, nil)

	_, err := c.Save(context.Background(), url.Values{"username": {"ana"}, "email": {"ana@x.cl"}, "password": {"ignored1"}, "manager": {""}}, "3")
	require.NoError(t, err)
	require.Len(t, api.calls, 1)
	assert.Equal(t, "PUT", api.calls[0].method)
	assert.Equal(t, "/users/3/", api.calls[0].path)
	payload := api.calls[0].body.(map[string]any)
	assert.NotContains(t, payload, "password")
	assert.NotContains(t, payload, "password_confirm")
	assert.Contains(t, payload, "manager")
	assert.Nil(t, payload["manager"])
	assert.Equal(t, 1, reload.n)
}

func TestSaveFailureKeepsFormOpen(t *testing.T) {
	api := &fakeAPI{err: &apiclient.HTTPError{StatusCode: 400, Body: json.RawMessage(`{"sku":["product with this sku already exists."]}`)}}
	rec := &notify.Recorder{}
	reload := &countingReloader{}
	c := NewController(productSchema(), api, rec, reload, nil)

	view, err := c.Save(context.Background(), validProduct(), "")
	require.Error(t, err)
	assert.False(t, errors.Is(err, ErrValidation))
	assert.True(t, view.Open)
	assert.Equal(t, ModeCreate, view.Mode)
	assert.Equal(t, "SKU-1", fieldValue(view, "sku"))
	assert.Equal(t, "sku: product with this sku already exists.", view.Error)
	assert.Zero(t, reload.n)
	last, _ := rec.Last()
	assert.Equal(t, notify.SeverityError, last.Severity)
}

func TestOpenModes(t *testing.T) {
	c := NewController(userSchema(), &fakeAPI{}, nil, nil, nil)

	create := c.Open(nil)
	assert.Equal(t, ModeCreate, create.Mode)
	require.Len(t, create.Fields, 5)
	assert.False(t, create.Fields[0].ReadOnly)

	edit := c.Open(map[string]any{"id": json.Number("3"), "username": "ana", "email": "ana@x.cl", "manager": json.Number("8")})
	assert.Equal(t, ModeEdit, edit.Mode)
	assert.Equal(t, "3", edit.ID)
	require.Len(t, edit.Fields, 3, "password fields are hidden when editing")
	assert.True(t, edit.Fields[0].ReadOnly)
	assert.Equal(t, "ana", edit.Fields[0].Value)
	assert.Equal(t, "8", edit.Fields[2].Value)

	p := NewController(productSchema(), &fakeAPI{}, nil, nil, nil)
	assert.True(t, p.Open(nil).Fields[5].Checked, "new records start active")
	assert.False(t, p.Open(map[string]any{"id": 1.0, "is_active": false}).Fields[5].Checked)
}

func TestLoadOptionsFromSource(t *testing.T) {
	schema := userSchema()
	schema.Fields[4].Options = []Option{{Value: "", Label: "Sin gerente asignado"}}
	schema.Fields[4].Source = &OptionSource{Path: "/users/?role=gerente", LabelKeys: []string{"first_name", "last_name"}}
	api := &fakeAPI{resp: json.RawMessage(`{"results":[{"id":8,"first_name":"Ana","last_name":"Pérez"}],"count":1}`)}
	c := NewController(schema, api, &notify.Recorder{}, nil, nil)

	c.LoadOptions(context.Background())
	f, ok := c.Schema().Field("manager")
	require.True(t, ok)
	assert.Equal(t, []Option{{Value: "", Label: "Sin gerente asignado"}, {Value: "8", Label: "Ana Pérez"}}, f.Options)
	assert.Len(t, schema.Fields[4].Options, 1, "the caller's schema is not mutated")

	failing := NewController(schema, &fakeAPI{err: apiclient.ErrTransport}, &notify.Recorder{}, nil, nil)
	failing.LoadOptions(context.Background())
	f, _ = failing.Schema().Field("manager")
	assert.Len(t, f.Options, 1)
}

func TestCreateOnlySchemaAlwaysPosts(t *testing.T) {
	api := &fakeAPI{resp: json.RawMessage(`{}`)}
	schema := Schema{Entity: "inventory-movements", Endpoint: "/inventory-movements/", CreateOnly: true, Fields: []Field{
		{Name: "inventory", Label: "Inventario", Kind: KindHidden, Required: true, Integer: true},
		{Name: "quantity", Label: "Cantidad", Kind: KindInteger, Required: true, Rule: "gte=1"},
	}}
	c := NewController(schema, api, &notify.Recorder{}, nil, nil)

	_, err := c.Save(context.Background(), url.Values{"inventory": {"4"}, "quantity": {"3"}}, "4")
	require.NoError(t, err)
	assert.Equal(t, "POST", api.calls[0].method)
	assert.Equal(t, map[string]any{"inventory": int64(4), "quantity": int64(3)}, api.calls[0].body)
}

func fieldValue(v View, name string) string {
	for _, f := range v.Fields {
		if f.Name == name {
			return f.Value
		}
	}
	return ""
}
