package entities

import (
	"github.com/catalyst-admin/catalyst-admin/internal/form"
	"github.com/catalyst-admin/catalyst-admin/internal/screen"
)

// ProductCategories are the categories offered on the product form.
var ProductCategories = []form.Option{
	{Value: "Electrónica", Label: "Electrónica"},
	{Value: "Accesorios", Label: "Accesorios"},
	{Value: "Periféricos", Label: "Periféricos"},
}

// LowStockThreshold marks product stock as low on the product list.
const LowStockThreshold = 10

// Products is the product catalog screen.
func Products() Entity {
	return Entity{
		Screen: screen.Definition{
			Name:      "products",
			Title:     "Productos",
			Endpoint:  "/products/",
			CanCreate: true,
			CanEdit:   true,
			CanDelete: true,
			CanView:   true,
			EmptyText: "Sin productos",
			Columns: []screen.Column{
				{Key: "sku", Label: "SKU", Kind: screen.KindCode, Fallback: "N/A"},
				{Key: "name", Label: "Nombre"},
				{Key: "price", Label: "Precio", Kind: screen.KindCurrency},
				{Key: "stock", Label: "Stock", Kind: screen.KindStock, Threshold: LowStockThreshold},
				{Key: "is_active", Label: "Estado", Kind: screen.KindBool, Badges: activeBadges},
			},
			Filters: []screen.Filter{searchFilter("Buscar por nombre o SKU"), activeFilter},
			Messages: screen.Messages{
				Deleted:      "Producto eliminado correctamente",
				DeleteFailed: "Error al eliminar producto",
				DeletePrompt: "¿Está seguro de que desea eliminar este producto? Esta acción no se puede deshacer.",
				FetchFailed:  "Error al cargar el producto",
			},
		},
		Form: &form.Schema{
			Entity:   "products",
			Title:    "Producto",
			Endpoint: "/products/",
			Created:  "Producto creado correctamente",
			Updated:  "Producto actualizado correctamente",
			Failed:   "Error al guardar producto",
			Fields: []form.Field{
				{Name: "sku", Label: "SKU", Kind: form.KindText, Required: true, Immutable: true, Placeholder: "Ej: PROD-001"},
				{Name: "name", Label: "Nombre", Kind: form.KindText, Required: true},
				{Name: "description", Label: "Descripción", Kind: form.KindTextarea},
				{Name: "category", Label: "Categoría", Kind: form.KindSelect, Required: true, Options: ProductCategories, Message: "Categoría no es válida"},
				{Name: "price", Label: "Precio", Kind: form.KindNumber, Required: true, Rule: "gt=0", Message: "Precio debe ser mayor a 0", Step: "0.01"},
				{Name: "cost", Label: "Costo", Kind: form.KindNumber, Required: true, Rule: "gte=0", Message: "Costo no puede ser negativo", Step: "0.01"},
				{Name: "is_active", Label: "Activo", Kind: form.KindCheckbox},
			},
		},
		Detail: []screen.Column{
			{Key: "sku", Label: "SKU", Kind: screen.KindCode, Fallback: "N/A"},
			{Key: "name", Label: "Nombre"},
			{Key: "description", Label: "Descripción", Fallback: "-"},
			{Key: "category", Label: "Categoría", Fallback: "-"},
			{Key: "price", Label: "Precio", Kind: screen.KindCurrency},
			{Key: "cost", Label: "Costo", Kind: screen.KindCurrency},
			{Key: "stock", Label: "Stock", Kind: screen.KindStock, Threshold: LowStockThreshold, Suffix: " unidades"},
			{Key: "is_active", Label: "Estado", Kind: screen.KindBool, Badges: activeBadges},
			{Key: "created_at", Label: "Creado", Kind: screen.KindDateTime},
		},
	}
}
