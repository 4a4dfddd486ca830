package form

import (
	"net/url"
	"strconv"
	"strings"
)

// Coerce turns submitted text into the JSON payload: checkboxes by presence,
// numbers parsed, blank nullable values as null. Create-only fields are
// dropped when editing. Values must already be valid.
func Coerce(schema Schema, values url.Values, mode Mode) map[string]any {
	payload := make(map[string]any, len(schema.Fields))
	for _, f := range schema.Fields {
		if !f.visibleIn(mode) {
			continue
		}
		if f.Kind == KindCheckbox {
			payload[f.Name] = checked(values, f.Name)
			continue
		}
		raw := strings.TrimSpace(values.Get(f.Name))
		if raw == "" {
			if f.Nullable {
				payload[f.Name] = nil
			} else if !isNumeric(f) {
				payload[f.Name] = ""
			}
			continue
		}
		switch {
		case f.Kind == KindNumber:
			if n, err := strconv.ParseFloat(raw, 64); err == nil {
				payload[f.Name] = n
			}
		case f.Kind == KindInteger || f.Integer:
			if n, err := strconv.ParseInt(raw, 10, 64); err == nil {
				payload[f.Name] = n
			}
		default:
			payload[f.Name] = raw
		}
	}
	return payload
}

func isNumeric(f Field) bool {
	return f.Kind == KindNumber || f.Kind == KindInteger || f.Integer
}

func checked(values url.Values, name string) bool {
	if !values.Has(name) {
		return false
	}
	switch strings.ToLower(values.Get(name)) {
	case "", "0", "false", "off":
		return false
	}
	return true
}
