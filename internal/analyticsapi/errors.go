package analyticsapi

import (
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"strings"

	"github.com/goccy/go-json"
)

// APIError is the single error type returned by every Client method.
//
// Status is the HTTP status code, or 0 when no response was received (dial
// failure, cancelled context, unreadable body). Body holds the raw response
// text for diagnostics.
type APIError struct {
	Operation string
	Status    int
	Body      string
	Message   string
	cause     error
}

func (e *APIError) Error() string {
	return e.Message
}

// Unwrap exposes the transport error behind a network failure.
func (e *APIError) Unwrap() error {
	return e.cause
}

// AsAPIError returns err as an *APIError when it is (or wraps) one.
func AsAPIError(err error) (*APIError, bool) {
	var apiErr *APIError
	if errors.As(err, &apiErr) {
		return apiErr, true
	}
	return nil, false
}

// StatusCode returns the HTTP status carried by err, or 0.
func StatusCode(err error) int {
	if apiErr, ok := AsAPIError(err); ok {
		return apiErr.Status
	}
	return 0
}

// newStatusError builds the error for a non-2xx response. The message is the
// body's "detail" or "message" field when the body is JSON, otherwise
// "HTTP {status}: {statusText}".
func newStatusError(op string, resp *http.Response, body []byte) *APIError {
	return &APIError{
		Operation: op,
		Status:    resp.StatusCode,
		Body:      string(body),
		Message:   errorMessage(resp, body),
	}
}

func errorMessage(resp *http.Response, body []byte) string {
	var payload map[string]json.RawMessage
	if err := json.Unmarshal(body, &payload); err == nil {
		if msg := messageField(payload["detail"]); msg != "" {
			return msg
		}
		if msg := messageField(payload["message"]); msg != "" {
			return msg
		}
	}
	return fmt.Sprintf("HTTP %d: %s", resp.StatusCode, statusText(resp))
}

// messageField renders a detail/message value. Strings are used as-is;
// structured values (FastAPI validation lists) are kept as compact JSON.
func messageField(raw json.RawMessage) string {
	if len(raw) == 0 || string(raw) == "null" {
		return ""
	}
	var s string
	if err := json.Unmarshal(raw, &s); err == nil {
		return s
	}
	return string(raw)
}

// statusText returns the reason phrase the server sent, falling back to the
// canonical text for the code.
func statusText(resp *http.Response) string {
	if text := strings.TrimPrefix(resp.Status, strconv.Itoa(resp.StatusCode)+" "); text != "" && text != resp.Status {
		return text
	}
	return http.StatusText(resp.StatusCode)
}

// wrapError converts any failure that is not already an *APIError into one
// with the message "Failed to {op}: {cause}".
func wrapError(op string, err error) error {
	if err == nil {
		return nil
	}
	if apiErr, ok := AsAPIError(err); ok {
		return apiErr
	}
	msg := err.Error()
	if msg == "" {
		msg = "Network error"
	}
	return &APIError{
		Operation: op,
		Message:   fmt.Sprintf("Failed to %s: %s", op, msg),
		cause:     err,
	}
}
