package form

import (
	"errors"

	"github.com/tidwall/gjson"

	"github.com/catalyst-admin/catalyst-admin/internal/apiclient"
)

// TransportMessage is shown when the API could not be reached.
const TransportMessage = "No se pudo conectar con el servidor"

// ErrorMessage extracts the most specific message from an API failure:
// detail, then the head of non_field_errors, then error or message, then
// the first field error as "field: message". Anything else yields fallback.
func ErrorMessage(err error, fallback string) string {
	var httpErr *apiclient.HTTPError
	if !errors.As(err, &httpErr) {
		if errors.Is(err, apiclient.ErrTransport) {
			return TransportMessage
		}
		var fe FieldError
		if errors.As(err, &fe) {
			return fe.Message
		}
		return fallback
	}
	body := gjson.ParseBytes(httpErr.Body)
	if !body.IsObject() {
		return fallback
	}
	for _, path := range []string{"detail", "non_field_errors.0", "error", "message"} {
		if v := body.Get(path); v.Type == gjson.String && v.String() != "" {
			return v.String()
		}
	}

	msg := ""
	body.ForEach(func(key, value gjson.Result) bool {
		switch {
		case value.IsArray():
			value = value.Get("0")
		case value.IsObject():
			return true
		}
		if value.Type == gjson.String && value.String() != "" {
			msg = key.String() + ": " + value.String()
			return false
		}
		return true
	})
	if msg != "" {
		return msg
	}
	return fallback
}
