package form

import (
	"errors"
	"fmt"
	"net/url"
	"strconv"
	"strings"
	"sync"
	"unicode"

	"github.com/go-playground/validator/v10"
)

// ErrValidation is returned by Save when local validation rejects the values.
var ErrValidation = errors.New("form: validation failed")

// FieldError is a validation failure on one field.
type FieldError struct {
	Field   string
	Message string
}

func (e FieldError) Error() string {
	return e.Field + ": " + e.Message
}

var (
	validateOnce sync.Once
	validate     *validator.Validate
)

// Validator returns the shared validator with the panel's custom tags registered.
func Validator() *validator.Validate {
	validateOnce.Do(func() {
		validate = validator.New()
		_ = validate.RegisterValidation("rut", func(fl validator.FieldLevel) bool {
			return ValidRUT(fl.Field().String())
		})
	})
	return validate
}

// ValidRUT checks a Chilean RUT check digit. Dots and the dash are optional.
func ValidRUT(rut string) bool {
	var cleaned []rune
	for _, r := range strings.ToUpper(rut) {
		if unicode.IsDigit(r) || r == 'K' {
			cleaned = append(cleaned, r)
		}
	}
	if len(cleaned) < 8 || len(cleaned) > 9 {
		return false
	}
	body, check := cleaned[:len(cleaned)-1], cleaned[len(cleaned)-1]
	sum, multiplier := 0, 2
	for i := len(body) - 1; i >= 0; i-- {
		if body[i] == 'K' {
			return false
		}
		sum += int(body[i]-'0') * multiplier
		if multiplier == 9 {
			multiplier = 2
		} else {
			multiplier++
		}
	}
	var want rune
	switch digit := 11 - sum%11; digit {
	case 11:
		want = '0'
	case 10:
		want = 'K'
	default:
		want = rune('0' + digit)
	}
	return check == want
}

// Validate checks values field by field in declaration order: required, then
// numeric parse, then rule, then cross-field equality.
func (c *Controller) Validate(values url.Values, mode Mode) []FieldError {
	return validateSchema(c.schema, values, mode)
}

func validateSchema(schema Schema, values url.Values, mode Mode) []FieldError {
	v := Validator()
	var errs []FieldError
	for _, f := range schema.Fields {
		if !f.visibleIn(mode) || f.Kind == KindCheckbox {
			continue
		}
		raw := strings.TrimSpace(values.Get(f.Name))
		if raw == "" {
			if f.Required {
				errs = append(errs, FieldError{Field: f.Name, Message: requiredMessage(f)})
			}
			continue
		}

		var typed any = raw
		switch f.Kind {
		case KindNumber:
			n, err := strconv.ParseFloat(raw, 64)
			if err != nil {
				errs = append(errs, FieldError{Field: f.Name, Message: f.Label + " debe ser un número"})
				continue
			}
			typed = n
		case KindInteger:
			n, err := strconv.ParseInt(raw, 10, 64)
			if err != nil {
				errs = append(errs, FieldError{Field: f.Name, Message: f.Label + " debe ser un número entero"})
				continue
			}
			typed = n
		}

		if f.Rule != "" {
			if err := v.Var(typed, f.Rule); err != nil {
				errs = append(errs, FieldError{Field: f.Name, Message: ruleMessage(f)})
				continue
			}
		}
		if len(f.Options) > 0 && f.Source == nil && !hasOption(f.Options, raw) {
			errs = append(errs, FieldError{Field: f.Name, Message: ruleMessage(f)})
			continue
		}
		if f.EqualTo != "" {
			other := strings.TrimSpace(values.Get(f.EqualTo))
			if err := v.VarWithValue(raw, other, "eqfield"); err != nil {
				msg := f.EqualMessage
				if msg == "" {
					msg = fmt.Sprintf("%s no coincide", f.Label)
				}
				errs = append(errs, FieldError{Field: f.Name, Message: msg})
			}
		}
	}
	return errs
}

func requiredMessage(f Field) string {
	return f.Label + " es requerido"
}

func ruleMessage(f Field) string {
	if f.Message != "" {
		return f.Message
	}
	return f.Label + " no es válido"
}

func hasOption(opts []Option, value string) bool {
	for _, o := range opts {
		if o.Value == value {
			return true
		}
	}
	return false
}
