package svg

import (
	"fmt"
	"html/template"
	"strings"
)

// Bars renders one bar per label.
func Bars(width, height int, series []float64, labels []string, opts BarOpts) (template.HTML, error) {
	if len(series) == 0 {
		return "", ErrEmptySeries
	}
	if len(series) != len(labels) {
		return "", ErrLabelMismatch
	}
	f, err := newFrame(width, height, opts.Padding, series)
	if err != nil {
		return "", err
	}
	color := fallback(opts.Color, "#0ea5e9")

	var b strings.Builder
	f.open(&b, fallback(opts.Title, "Gráfico de barras"), fallback(opts.Description, "Comparación"), "bar")
	f.grid(&b, opts.TickCount)

	slot := f.plotW / float64(len(series))
	barW := slot * 0.6
	zero := f.y(0)
	for i, v := range series {
		x := f.padding + float64(i)*slot + (slot-barW)/2
		top, h := f.y(v), zero-f.y(v)
		if v < 0 {
			top, h = zero, f.y(v)-zero
		}
		fmt.Fprintf(&b, `<rect x="%.2f" y="%.2f" width="%.2f" height="%.2f" fill="%s" aria-label="%s: %s"></rect>`, x, top, barW, h, color, template.HTMLEscapeString(labels[i]), formatTick(v))
		f.label(&b, x+barW/2, labels[i])
	}
	b.WriteString("</svg>")
	return template.HTML(b.String()), nil
}
