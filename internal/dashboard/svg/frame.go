package svg

import (
	"errors"
	"fmt"
	"html/template"
	"math"
	"strings"
)

var (
	// ErrEmptySeries is returned when there is nothing to plot.
	ErrEmptySeries = errors.New("svg: series required")
	// ErrLabelMismatch is returned when labels and values differ in length.
	ErrLabelMismatch = errors.New("svg: labels length must match series")
)

// frame is the plotting area shared by both chart kinds.
type frame struct {
	width, height  int
	padding        float64
	plotW, plotH   float64
	minVal, maxVal float64
}

func newFrame(width, height int, padding float64, series []float64) (frame, error) {
	if width <= 0 {
		width = DefaultWidth
	}
	if height <= 0 {
		height = DefaultHeight
	}
	if padding <= 0 {
		padding = DefaultPadding
	}
	f := frame{width: width, height: height, padding: padding}
	f.plotW = float64(width) - 2*padding
	f.plotH = float64(height) - 2*padding
	if f.plotW <= 0 || f.plotH <= 0 {
		return frame{}, fmt.Errorf("svg: viewport %dx%d too small", width, height)
	}
	f.minVal, f.maxVal = math.Min(0, minOf(series)), math.Max(0, maxOf(series))
	if math.Abs(f.maxVal-f.minVal) < 1e-9 {
		f.maxVal = f.minVal + 1
	}
	return f, nil
}

// y maps a value to its vertical pixel position.
func (f frame) y(v float64) float64 {
	return f.padding + f.plotH - (v-f.minVal)*f.plotH/(f.maxVal-f.minVal)
}

func (f frame) bottom() float64 { return f.padding + f.plotH }

func (f frame) open(b *strings.Builder, title, desc, kind string) {
	titleID := makeID(title, kind+"-title")
	descID := makeID(title, kind+"-desc")
	fmt.Fprintf(b, `<svg xmlns="http://www.w3.org/2000/svg" viewBox="0 0 %d %d" role="img" aria-labelledby="%s %s" class="chart chart-%s">`, f.width, f.height, titleID, descID, kind)
	fmt.Fprintf(b, `<title id="%s">%s</title>`, titleID, template.HTMLEscapeString(title))
	fmt.Fprintf(b, `<desc id="%s">%s</desc>`, descID, template.HTMLEscapeString(desc))
}

func (f frame) grid(b *strings.Builder, ticks int) {
	if ticks <= 0 {
		ticks = DefaultTicks
	}
	for i := 0; i <= ticks; i++ {
		v := f.minVal + (f.maxVal-f.minVal)*float64(i)/float64(ticks)
		y := f.y(v)
		fmt.Fprintf(b, `<line x1="%.2f" y1="%.2f" x2="%.2f" y2="%.2f" stroke="%s" stroke-width="0.5" stroke-dasharray="2,4" aria-hidden="true"></line>`, f.padding, y, f.padding+f.plotW, y, gridColor)
		fmt.Fprintf(b, `<text x="%.2f" y="%.2f" fill="%s" font-size="10" text-anchor="end">%s</text>`, f.padding-6, y+4, axisColor, formatTick(v))
	}
	fmt.Fprintf(b, `<g stroke="%s" aria-hidden="true">`, axisColor)
	fmt.Fprintf(b, `<line x1="%.2f" y1="%.2f" x2="%.2f" y2="%.2f" stroke-width="1"></line>`, f.padding, f.padding, f.padding, f.bottom())
	fmt.Fprintf(b, `<line x1="%.2f" y1="%.2f" x2="%.2f" y2="%.2f" stroke-width="1"></line>`, f.padding, f.y(0), f.padding+f.plotW, f.y(0))
	b.WriteString("</g>")
}

func (f frame) label(b *strings.Builder, x float64, text string) {
	fmt.Fprintf(b, `<text x="%.2f" y="%.2f" fill="%s" font-size="10" text-anchor="middle">%s</text>`, x, f.bottom()+14, axisColor, template.HTMLEscapeString(text))
}

func minOf(series []float64) float64 {
	m := series[0]
	for _, v := range series[1:] {
		m = math.Min(m, v)
	}
	return m
}

func maxOf(series []float64) float64 {
	m := series[0]
	for _, v := range series[1:] {
		m = math.Max(m, v)
	}
	return m
}

func fallback(value, defaultValue string) string {
	if strings.TrimSpace(value) == "" {
		return defaultValue
	}
	return value
}

func makeID(base, suffix string) string {
	cleaned := strings.Map(func(r rune) rune {
		switch {
		case r >= 'a' && r <= 'z', r >= '0' && r <= '9', r == '-', r == '_':
			return r
		}
		return '-'
	}, strings.ToLower(strings.TrimSpace(base)))
	cleaned = strings.Trim(cleaned, "-")
	if cleaned == "" {
		cleaned = "chart"
	}
	return cleaned + "-" + suffix
}

func formatTick(v float64) string {
	abs := math.Abs(v)
	switch {
	case abs >= 1_000_000:
		return trimZero(fmt.Sprintf("%.1f", v/1_000_000)) + "M"
	case abs >= 1_000:
		return trimZero(fmt.Sprintf("%.1f", v/1_000)) + "k"
	default:
		return trimZero(fmt.Sprintf("%.1f", v))
	}
}

func trimZero(s string) string { return strings.TrimSuffix(s, ".0") }
