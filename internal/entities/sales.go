package entities

import "github.com/catalyst-admin/catalyst-admin/internal/screen"

// PaymentMethods mirror the payment methods accepted by the API.
var PaymentMethods = []screen.Option{
	{Value: "efectivo", Label: "Efectivo"},
	{Value: "tarjeta_debito", Label: "Tarjeta Débito"},
	{Value: "tarjeta_credito", Label: "Tarjeta Crédito"},
	{Value: "transferencia", Label: "Transferencia"},
	{Value: "cheque", Label: "Cheque"},
	{Value: "otro", Label: "Otro"},
}

func paymentBadges() map[string]screen.Badge {
	out := make(map[string]screen.Badge, len(PaymentMethods))
	for _, m := range PaymentMethods {
		out[m.Value] = screen.Badge{Label: m.Label, Tone: screen.ToneInfo}
	}
	return out
}

// Sales lists point-of-sale receipts. Sales are created at the register, not here.
func Sales() Entity {
	return Entity{
		Screen: screen.Definition{
			Name:      "sales",
			Title:     "Ventas",
			Endpoint:  "/sales/",
			CanView:   true,
			CanDelete: true,
			EmptyText: "Sin ventas",
			Columns: []screen.Column{
				{Key: "receipt_number", Label: "Boleta", Kind: screen.KindCode},
				{Key: "created_at", Label: "Fecha", Kind: screen.KindDate},
				{Key: "customer_name", Label: "Cliente", Fallback: "N/A"},
				{Key: "total", Label: "Total", Kind: screen.KindCurrency},
				{Key: "payment_method", Label: "Método de pago", Kind: screen.KindBadge, Badges: paymentBadges()},
				{Key: "seller_name", Label: "Vendedor", Fallback: "N/A"},
			},
			Filters: []screen.Filter{
				searchFilter("Buscar por boleta o cliente"),
				{Name: "payment_method", Label: "Método de pago", Kind: screen.FilterSelect, Options: append([]screen.Option{{Value: "", Label: "Todos"}}, PaymentMethods...)},
			},
			Messages: screen.Messages{
				Deleted:      "Venta eliminada correctamente",
				DeleteFailed: "Error al eliminar venta",
				DeletePrompt: "¿Está seguro de que desea eliminar esta venta?",
				FetchFailed:  "Error al cargar la venta",
			},
		},
		Detail: []screen.Column{
			{Key: "receipt_number", Label: "Boleta", Kind: screen.KindCode},
			{Key: "created_at", Label: "Fecha", Kind: screen.KindDateTime},
			{Key: "branch_name", Label: "Sucursal", Fallback: "-"},
			{Key: "seller_name", Label: "Vendedor", Fallback: "N/A"},
			{Key: "customer_name", Label: "Cliente", Fallback: "N/A"},
			{Key: "customer_rut", Label: "RUT cliente", Fallback: "-"},
			{Key: "payment_method", Label: "Método de pago", Kind: screen.KindBadge, Badges: paymentBadges()},
			{Key: "subtotal", Label: "Subtotal", Kind: screen.KindCurrency},
			{Key: "tax", Label: "IVA", Kind: screen.KindCurrency},
			{Key: "discount", Label: "Descuento", Kind: screen.KindCurrency},
			{Key: "total", Label: "Total", Kind: screen.KindCurrency},
		},
	}
}
