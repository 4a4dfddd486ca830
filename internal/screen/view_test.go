package screen

import (
	"context"
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEmptyEnvelopeRendersOnePlaceholderAndNoPagination(t *testing.T) {
	c, _ := newController(&fakeAPI{list: json.RawMessage(`{"results":[],"count":0}`)})
	c.Load(context.Background())

	view := c.View()
	require.Len(t, view.Rows, 1)
	assert.True(t, view.Rows[0].Placeholder)
	assert.Equal(t, 6, view.Rows[0].ColSpan, "five data columns plus actions")
	assert.Equal(t, "Sin productos", view.Rows[0].Cells[0].Text)
	assert.Empty(t, view.Pagination)
}

func TestPaginationLinkCount(t *testing.T) {
	cases := []struct {
		total int
		links int
	}{
		{0, 0}, {1, 0}, {20, 0}, {21, 2}, {40, 2}, {41, 3}, {200, 10},
	}
	for _, tc := range cases {
		state := State{Query: NewListQuery(20), TotalCount: tc.total}
		view := BuildView(productsDef(), state, nil, Loaded)
		assert.Len(t, view.Pagination, tc.links, "total %d", tc.total)
	}
}

func TestPaginationCarriesFilters(t *testing.T) {
	state := State{Query: NewListQuery(20), TotalCount: 45}
	state.Query.SetFilter("search", "mouse")
	state.Query.Page = 2

	view := BuildView(productsDef(), state, nil, Loaded)
	require.Len(t, view.Pagination, 3)
	assert.True(t, view.Pagination[1].Active)
	assert.Equal(t, "page=3&search=mouse", view.Pagination[2].Query)
	assert.Equal(t, "mouse", view.Filters[0].Value)
}

func TestBuildViewIsIdempotent(t *testing.T) {
	items := []Record{{"id": json.Number("1"), "sku": "A-1", "name": "Mouse", "price": "12990.00", "stock": json.Number("4"), "is_active": true}}
	state := State{Query: NewListQuery(20), TotalCount: 1}

	first := BuildView(productsDef(), state, items, Loaded)
	second := BuildView(productsDef(), state, items, Loaded)
	assert.Equal(t, first, second)

	row := first.Rows[0]
	assert.Equal(t, "1", row.ID)
	assert.Equal(t, "A-1", row.Cells[0].Text)
	assert.Equal(t, "$12.990", row.Cells[2].Text)
	assert.Equal(t, ToneWarning, row.Cells[3].Tone)
	assert.Equal(t, "Activo", row.Cells[4].Text)
	assert.Equal(t, []string{"edit", "change-role", "delete"}, actionNames(row))
}

func TestCellFallback(t *testing.T) {
	view := BuildView(productsDef(), State{Query: NewListQuery(20)}, []Record{{"id": 1.0, "name": "X"}}, Loaded)
	assert.Equal(t, "N/A", view.Rows[0].Cells[0].Text)
	assert.Equal(t, "Inactivo", view.Rows[0].Cells[4].Text)
}

func TestStockTone(t *testing.T) {
	assert.Equal(t, ToneDanger, StockTone(0, 5))
	assert.Equal(t, ToneWarning, StockTone(4, 5))
	assert.Equal(t, ToneSuccess, StockTone(5, 5))
	assert.Equal(t, "Stock Bajo", StockStatus(1, 5).Label)
}

func TestFormatting(t *testing.T) {
	assert.Equal(t, "$1.234.567", FormatCurrency(1234567))
	assert.Equal(t, "-$15.000", FormatCurrency(-15000))
	assert.Equal(t, "$0", FormatCurrency(0))
	assert.Equal(t, "15 de marzo de 2024", FormatDate("2024-03-15T10:30:00Z"))
	assert.Equal(t, "15 de marzo de 2024, 10:30", FormatDateTime("2024-03-15T10:30:00Z"))
	assert.Equal(t, "ayer", FormatDate("ayer"))
}

func TestDecodeListResultRejectsScalars(t *testing.T) {
	_, err := DecodeListResult(json.RawMessage(`42`))
	assert.ErrorIs(t, err, ErrUnexpectedShape)
	res, err := DecodeListResult(json.RawMessage(`null`))
	assert.ErrorIs(t, err, ErrUnexpectedShape)
	assert.Nil(t, res.Items)
}

func actionNames(r Row) []string {
	names := make([]string, 0, len(r.Actions))
	for _, a := range r.Actions {
		names = append(names, a.Name)
	}
	return names
}

func TestBuildDetailUsesColumnFormatting(t *testing.T) {
	items := BuildDetail([]Column{
		{Key: "name", Label: "Nombre"},
		{Key: "price", Label: "Precio", Kind: KindCurrency},
		{Key: "notes", Label: "Notas", Fallback: "-"},
	}, Record{"name": "Mouse", "price": float64(15990)})

	require.Len(t, items, 3)
	assert.Equal(t, "Nombre", items[0].Label)
	assert.Equal(t, "$15.990", items[1].Cell.Text)
	assert.Equal(t, "-", items[2].Cell.Text)
}
