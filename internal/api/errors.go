package api

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"
)

// ErrTransport marks failures where no response was received.
var ErrTransport = errors.New("request failed")

// Error is returned for any non-2xx response.
type Error struct {
	Status  int
	Message string
	Body    string
}

func (e *Error) Error() string {
	return e.Message
}

// Unauthorized reports whether the backend rejected the credentials.
func (e *Error) Unauthorized() bool {
	return e.Status == http.StatusUnauthorized || e.Status == http.StatusForbidden
}

// newError builds an *Error from a failed response. The message prefers the
// body's "message" field, then "error", then the serialized body itself.
func newError(status int, parsed, raw []byte) *Error {
	e := &Error{Status: status, Body: string(raw)}

	if len(parsed) > 0 {
		var fields struct {
			Message string `json:"message"`
			Error   string `json:"error"`
		}
		if err := json.Unmarshal(parsed, &fields); err == nil {
			switch {
			case fields.Message != "":
				e.Message = fields.Message
			case fields.Error != "":
				e.Message = fields.Error
			}
		}
		if e.Message == "" {
			e.Message = string(parsed)
		}
		return e
	}

	if body := strings.TrimSpace(string(raw)); body != "" {
		e.Message = body
	} else {
		e.Message = fmt.Sprintf("%d %s", status, http.StatusText(status))
	}
	return e
}

// IsUnauthorized reports whether err is a 401/403 from the backend.
func IsUnauthorized(err error) bool {
	var apiErr *Error
	return errors.As(err, &apiErr) && apiErr.Unauthorized()
}

// IsTransport reports whether err means the backend was never reached.
func IsTransport(err error) bool {
	return errors.Is(err, ErrTransport)
}
