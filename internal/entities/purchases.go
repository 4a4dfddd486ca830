package entities

import "github.com/catalyst-admin/catalyst-admin/internal/screen"

// Purchases lists supplier invoices, read only.
func Purchases() Entity {
	return Entity{
		Screen: screen.Definition{
			Name:      "purchases",
			Title:     "Compras",
			Endpoint:  "/purchases/",
			CanView:   true,
			EmptyText: "Sin compras",
			Columns: []screen.Column{
				{Key: "invoice_number", Label: "Factura", Kind: screen.KindCode},
				{Key: "supplier_name", Label: "Proveedor"},
				{Key: "branch_name", Label: "Sucursal", Fallback: "-"},
				{Key: "purchase_date", Label: "Fecha", Kind: screen.KindDate},
				{Key: "total_amount", Label: "Total", Kind: screen.KindCurrency},
			},
			Filters: []screen.Filter{searchFilter("Buscar por factura o proveedor")},
			Messages: screen.Messages{FetchFailed: "Error al cargar la compra"},
		},
		Detail: []screen.Column{
			{Key: "invoice_number", Label: "Factura", Kind: screen.KindCode},
			{Key: "supplier_name", Label: "Proveedor"},
			{Key: "branch_name", Label: "Sucursal", Fallback: "-"},
			{Key: "purchase_date", Label: "Fecha", Kind: screen.KindDate},
			{Key: "delivery_date", Label: "Entrega", Kind: screen.KindDate, Fallback: "-"},
			{Key: "payment_status_display", Label: "Estado de pago", Fallback: "-"},
			{Key: "total_amount", Label: "Total", Kind: screen.KindCurrency},
			{Key: "notes", Label: "Notas", Fallback: "-"},
		},
	}
}
