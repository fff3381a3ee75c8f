package catalog

import (
	"encoding/json"
	"fmt"
	"io"
	"net/http"

	"github.com/go-faster/errors"
)

// Error is the normalized failure descriptor for catalog operations. It
// covers transport failures (no status, message only), remote-reported error
// payloads (status + structured message + raw body), and anything in between.
type Error struct {
	// Status is the HTTP status code, or 0 for transport-level failures.
	Status int `json:"status,omitempty"`
	// Message is always set to the best available human-readable description.
	Message string `json:"message"`
	// Body holds the raw response payload when the catalog returned one.
	Body json.RawMessage `json:"data,omitempty"`
}

func (e *Error) Error() string {
	if e.Status != 0 {
		return fmt.Sprintf("catalog: %s (status %d)", e.Message, e.Status)
	}
	return "catalog: " + e.Message
}

// AsError normalizes any error into an *Error. An *Error passes through
// unchanged; everything else is wrapped with its message.
func AsError(err error) *Error {
	if err == nil {
		return nil
	}
	var ce *Error
	if errors.As(err, &ce) {
		return ce
	}
	msg := err.Error()
	if msg == "" {
		msg = "unexpected error"
	}
	return &Error{Message: msg}
}

// errorFromResponse builds an *Error from a non-2xx catalog response. The
// catalog reports errors as {"message": "..."}; when the body carries no
// usable message the HTTP status text is used instead.
func errorFromResponse(resp *http.Response) *Error {
	body, _ := io.ReadAll(io.LimitReader(resp.Body, 1<<20))

	e := &Error{Status: resp.StatusCode}
	var payload struct {
		Message string `json:"message"`
	}
	if err := json.Unmarshal(body, &payload); err == nil && payload.Message != "" {
		e.Message = payload.Message
	} else {
		e.Message = http.StatusText(resp.StatusCode)
	}
	if len(body) > 0 {
		e.Body = json.RawMessage(body)
	}
	return e
}
