package entities

import (
	"github.com/catalyst-admin/catalyst-admin/internal/form"
	"github.com/catalyst-admin/catalyst-admin/internal/screen"
)

// MovementTypes are the stock movement kinds accepted by the API.
var MovementTypes = []form.Option{
	{Value: "entrada", Label: "Entrada (Compra/Reabastecimiento)"},
	{Value: "salida", Label: "Salida (Venta/Descuento)"},
	{Value: "ajuste", Label: "Ajuste de Inventario"},
	{Value: "devolucion", Label: "Devolución"},
}

// AdjustAction opens the stock movement dialog for one inventory row.
const AdjustAction = "adjust"

// Inventory lists stock per product and branch. Stock changes go through movements.
func Inventory() Entity {
	return Entity{
		Screen: screen.Definition{
			Name:      "inventory",
			Title:     "Inventario",
			Endpoint:  "/inventory/",
			CanView:   true,
			EmptyText: "Sin inventario",
			Columns: []screen.Column{
				{Key: "product_name", Label: "Producto"},
				{Key: "product_code", Label: "Código", Kind: screen.KindCode},
				{Key: "branch_name", Label: "Sucursal", Fallback: "-"},
				{Key: "stock", Label: "Stock", Kind: screen.KindStock, ThresholdKey: "reorder_point", Suffix: " unidades"},
				{Key: "reorder_point", Label: "Punto de reorden", Kind: screen.KindNumber},
				{Key: "stock", Label: "Estado", Kind: screen.KindStockStatus, ThresholdKey: "reorder_point"},
				{Key: "updated_at", Label: "Actualizado", Kind: screen.KindDate},
			},
			Filters: []screen.Filter{
				searchFilter("Buscar producto"),
				{Name: "branch", Label: "Sucursal", Kind: screen.FilterSearch, Placeholder: "ID de sucursal"},
			},
			Actions: []screen.Action{
				{Name: AdjustAction, Label: "Ajustar", Form: "inventory-movements", Target: "inventory"},
			},
		},
		ActionForms: map[string]form.Schema{
			AdjustAction: {
				Entity:     "inventory-movements",
				Title:      "Ajustar stock",
				Endpoint:   "/inventory-movements/",
				CreateOnly: true,
				Created:    "Movimiento registrado correctamente",
				Failed:     "Error al registrar movimiento",
				Fields: []form.Field{
					{Name: "inventory", Label: "Inventario", Kind: form.KindHidden, Required: true, Integer: true},
					{Name: "movement_type", Label: "Tipo de movimiento", Kind: form.KindSelect, Required: true, Options: MovementTypes},
					{Name: "quantity", Label: "Cantidad", Kind: form.KindInteger, Required: true, Rule: "gte=1", Message: "Cantidad debe ser al menos 1", Placeholder: "Cantidad a registrar"},
					{Name: "reference", Label: "Referencia", Kind: form.KindText, Placeholder: "Nº de compra, venta, etc. (opcional)"},
					{Name: "notes", Label: "Notas", Kind: form.KindTextarea},
				},
			},
		},
	}
}
