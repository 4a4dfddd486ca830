package entities

import "github.com/catalyst-admin/catalyst-admin/internal/screen"

// OrderStatuses are the order states with their badge tones.
var OrderStatuses = map[string]screen.Badge{
	"pendiente":  {Label: "Pendiente", Tone: screen.ToneWarning},
	"confirmada": {Label: "Confirmada", Tone: screen.ToneInfo},
	"preparando": {Label: "Preparando", Tone: screen.ToneInfo},
	"procesando": {Label: "Procesando", Tone: screen.ToneInfo},
	"enviada":    {Label: "Enviada", Tone: screen.ToneInfo},
	"entregada":  {Label: "Entregada", Tone: screen.ToneSuccess},
	"cancelada":  {Label: "Cancelada", Tone: screen.ToneDanger},
}

// Orders lists online orders.
func Orders() Entity {
	return Entity{
		Screen: screen.Definition{
			Name:      "orders",
			Title:     "Órdenes",
			Endpoint:  "/orders/",
			CanView:   true,
			CanDelete: true,
			EmptyText: "Sin órdenes",
			Columns: []screen.Column{
				{Key: "order_number", Label: "Número", Kind: screen.KindCode},
				{Key: "created_at", Label: "Fecha", Kind: screen.KindDate},
				{Key: "customer_name", Label: "Cliente", Fallback: "N/A"},
				{Key: "total", Label: "Total", Kind: screen.KindCurrency},
				{Key: "status", Label: "Estado", Kind: screen.KindBadge, Badges: OrderStatuses},
				{Key: "delivery_date", Label: "Entrega", Kind: screen.KindDate, Fallback: "Pendiente"},
			},
			Filters: []screen.Filter{
				searchFilter("Buscar por número o cliente"),
				{Name: "status", Label: "Estado", Kind: screen.FilterSelect, Options: []screen.Option{
					{Value: "", Label: "Todos"},
					{Value: "pendiente", Label: "Pendiente"},
					{Value: "confirmada", Label: "Confirmada"},
					{Value: "preparando", Label: "Preparando"},
					{Value: "enviada", Label: "Enviada"},
					{Value: "entregada", Label: "Entregada"},
					{Value: "cancelada", Label: "Cancelada"},
				}},
			},
			Messages: screen.Messages{
				Deleted:      "Orden eliminada correctamente",
				DeleteFailed: "Error al eliminar orden",
				DeletePrompt: "¿Está seguro de que desea eliminar esta orden?",
				FetchFailed:  "Error al cargar la orden",
			},
		},
		Detail: []screen.Column{
			{Key: "order_number", Label: "Número", Kind: screen.KindCode},
			{Key: "created_at", Label: "Fecha", Kind: screen.KindDateTime},
			{Key: "customer_name", Label: "Cliente", Fallback: "N/A"},
			{Key: "customer_email", Label: "Email", Fallback: "-"},
			{Key: "customer_phone", Label: "Teléfono", Fallback: "-"},
			{Key: "delivery_address", Label: "Dirección de entrega", Fallback: "-"},
			{Key: "status", Label: "Estado", Kind: screen.KindBadge, Badges: OrderStatuses},
			{Key: "payment_status", Label: "Pago", Fallback: "-"},
			{Key: "delivery_date", Label: "Entrega", Kind: screen.KindDate, Fallback: "Pendiente"},
			{Key: "total", Label: "Total", Kind: screen.KindCurrency},
		},
	}
}
