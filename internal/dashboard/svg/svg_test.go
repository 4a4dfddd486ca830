package svg

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLineProducesSVG(t *testing.T) {
	html, err := Line(400, 200, []float64{100, 200, 150}, []string{"lun", "mar", "mié"}, LineOpts{
		Title:    "Ventas semanales",
		ShowDots: true,
	})
	require.NoError(t, err)
	out := string(html)
	assert.True(t, strings.HasPrefix(out, "<svg"))
	assert.Contains(t, out, "<path")
	assert.Contains(t, out, `aria-labelledby="ventas-semanales-line-title ventas-semanales-line-desc"`)
	assert.Equal(t, 3, strings.Count(out, "<circle"))
}

func TestLineThinsLabels(t *testing.T) {
	series := make([]float64, 30)
	labels := make([]string, 30)
	for i := range labels {
		labels[i] = "d" + string(rune('a'+i%26))
	}
	html, err := Line(0, 0, series, labels, LineOpts{MaxLabels: 10})
	require.NoError(t, err)
	assert.LessOrEqual(t, strings.Count(string(html), `text-anchor="middle"`), 11)
}

func TestBarsProducesOneRectPerValue(t *testing.T) {
	html, err := Bars(420, 220, []float64{500, 600, 0}, []string{"Ana", "Luis", "Eva"}, BarOpts{Title: "Ventas por vendedor"})
	require.NoError(t, err)
	out := string(html)
	assert.Equal(t, 3, strings.Count(out, "<rect"))
	assert.Contains(t, out, "Luis")
}

func TestChartsRejectBadInput(t *testing.T) {
	_, err := Line(400, 200, nil, nil, LineOpts{})
	assert.ErrorIs(t, err, ErrEmptySeries)
	_, err = Bars(400, 200, []float64{1}, []string{"a", "b"}, BarOpts{})
	assert.ErrorIs(t, err, ErrLabelMismatch)
	_, err = Line(40, 40, []float64{1}, []string{"a"}, LineOpts{Padding: 30})
	assert.Error(t, err)
}

func TestFormatTick(t *testing.T) {
	assert.Equal(t, "1.5M", formatTick(1_500_000))
	assert.Equal(t, "12k", formatTick(12_000))
	assert.Equal(t, "0", formatTick(0))
}
