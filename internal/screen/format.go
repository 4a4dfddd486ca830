package screen

import (
	"fmt"
	"math"
	"strings"
	"time"

	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

var clPrinter = message.NewPrinter(language.MustParse("es-CL"))

// FormatCurrency renders an amount in Chilean pesos, e.g. $12.990.
func FormatCurrency(amount float64) string {
	n := int64(math.Round(amount))
	if n < 0 {
		return "-$" + clPrinter.Sprintf("%d", -n)
	}
	return "$" + clPrinter.Sprintf("%d", n)
}

// FormatNumber renders an integer with es-CL grouping.
func FormatNumber(v float64) string {
	return clPrinter.Sprintf("%d", int64(math.Round(v)))
}

var timeLayouts = []string{time.RFC3339Nano, time.RFC3339, "2006-01-02T15:04:05", "2006-01-02"}

func parseTime(s string) (time.Time, bool) {
	s = strings.TrimSpace(s)
	for _, layout := range timeLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t, true
		}
	}
	return time.Time{}, false
}

var monthNames = [...]string{"enero", "febrero", "marzo", "abril", "mayo", "junio", "julio", "agosto", "septiembre", "octubre", "noviembre", "diciembre"}

func longDate(t time.Time) string {
	return fmt.Sprintf("%d de %s de %d", t.Day(), monthNames[t.Month()-1], t.Year())
}

// FormatDate renders an API timestamp as "15 de marzo de 2024". Unparseable
// input is returned as is.
func FormatDate(s string) string {
	if t, ok := parseTime(s); ok {
		return longDate(t)
	}
	return s
}

// FormatDateTime is FormatDate followed by the time of day.
func FormatDateTime(s string) string {
	if t, ok := parseTime(s); ok {
		return longDate(t) + ", " + t.Format("15:04")
	}
	return s
}

// StockTone classifies a stock level: empty is danger, under the reorder point is warning.
func StockTone(stock, reorderPoint float64) Tone {
	switch {
	case stock <= 0:
		return ToneDanger
	case stock < reorderPoint:
		return ToneWarning
	}
	return ToneSuccess
}

// StockStatus labels a stock level in the same buckets as StockTone.
func StockStatus(stock, reorderPoint float64) Badge {
	switch tone := StockTone(stock, reorderPoint); tone {
	case ToneDanger:
		return Badge{Label: "Agotado", Tone: tone}
	case ToneWarning:
		return Badge{Label: "Stock Bajo", Tone: tone}
	default:
		return Badge{Label: "Normal", Tone: tone}
	}
}
