// Package svg renders the dashboard charts as inline SVG so pages need no
// charting script.
package svg

// LineOpts customises the line chart renderer.
type LineOpts struct {
	Title       string
	Description string
	StrokeColor string
	FillColor   string
	Padding     float64
	ShowDots    bool
	TickCount   int
	// MaxLabels thins x-axis labels on long series; zero shows all.
	MaxLabels int
}

// BarOpts customises the bar chart renderer.
type BarOpts struct {
	Title       string
	Description string
	Color       string
	Padding     float64
	TickCount   int
}

// Defaults for the dashboard charts.
const (
	DefaultWidth   = 640
	DefaultHeight  = 240
	DefaultPadding = 32.0
	DefaultTicks   = 4

	axisColor = "#475569"
	gridColor = "#cbd5e1"
)
