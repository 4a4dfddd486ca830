package svg

import (
	"fmt"
	"html/template"
	"strings"
)

// Line renders a line chart with a shaded area for series over labels.
func Line(width, height int, series []float64, labels []string, opts LineOpts) (template.HTML, error) {
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
	stroke := fallback(opts.StrokeColor, "#2563eb")
	fill := fallback(opts.FillColor, "rgba(37,99,235,0.12)")

	xs := make([]float64, len(series))
	for i := range series {
		if len(series) == 1 {
			xs[i] = f.padding + f.plotW/2
			continue
		}
		xs[i] = f.padding + float64(i)*f.plotW/float64(len(series)-1)
	}

	var path strings.Builder
	for i, v := range series {
		cmd := "L"
		if i == 0 {
			cmd = "M"
		}
		fmt.Fprintf(&path, "%s%.2f %.2f ", cmd, xs[i], f.y(v))
	}
	line := strings.TrimSpace(path.String())

	var b strings.Builder
	f.open(&b, fallback(opts.Title, "Gráfico de línea"), fallback(opts.Description, "Tendencia"), "line")
	f.grid(&b, opts.TickCount)
	area := fmt.Sprintf("%s L%.2f %.2f L%.2f %.2f Z", line, xs[len(xs)-1], f.bottom(), xs[0], f.bottom())
	fmt.Fprintf(&b, `<path d="%s" fill="%s" stroke="none" aria-hidden="true"></path>`, area, fill)
	fmt.Fprintf(&b, `<path d="%s" fill="none" stroke="%s" stroke-width="2" stroke-linejoin="round" stroke-linecap="round"></path>`, line, stroke)
	if opts.ShowDots {
		for i, v := range series {
			fmt.Fprintf(&b, `<circle cx="%.2f" cy="%.2f" r="3" fill="%s"></circle>`, xs[i], f.y(v), stroke)
		}
	}
	every := labelStep(len(labels), opts.MaxLabels)
	for i, l := range labels {
		if i%every == 0 || i == len(labels)-1 {
			f.label(&b, xs[i], l)
		}
	}
	b.WriteString("</svg>")
	return template.HTML(b.String()), nil
}

func labelStep(n, maxLabels int) int {
	if maxLabels <= 0 || n <= maxLabels {
		return 1
	}
	return (n + maxLabels - 1) / maxLabels
}
