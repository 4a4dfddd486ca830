package apiclient

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
)

var (
	// ErrTransport wraps failures that never produced an HTTP response.
	ErrTransport = errors.New("apiclient: transport failure")
	// ErrInvalidResponse is returned when a successful response is not JSON.
	ErrInvalidResponse = errors.New("apiclient: invalid response body")
)

// HTTPError is returned for every non-success status the client does not recover from.
type HTTPError struct {
	StatusCode int
	// Body is the parsed error document, or {} when the body was not JSON.
	Body json.RawMessage
}

func (e *HTTPError) Error() string {
	return fmt.Sprintf("HTTP Error: %d - %s", e.StatusCode, string(e.Body))
}

// Unauthorized reports whether the error is a 401.
func (e *HTTPError) Unauthorized() bool {
	return e.StatusCode == http.StatusUnauthorized
}

// StatusCode extracts the HTTP status from err, or 0 when err is not an HTTPError.
func StatusCode(err error) int {
	var httpErr *HTTPError
	if errors.As(err, &httpErr) {
		return httpErr.StatusCode
	}
	return 0
}

func newHTTPError(status int, body []byte) *HTTPError {
	return &HTTPError{StatusCode: status, Body: jsonOrEmpty(body)}
}

var emptyObject = json.RawMessage(`{}`)

func jsonOrEmpty(body []byte) json.RawMessage {
	if len(body) == 0 || !json.Valid(body) {
		return append(json.RawMessage(nil), emptyObject...)
	}
	return append(json.RawMessage(nil), body...)
}
