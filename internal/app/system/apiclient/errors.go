package apiclient

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"
)

// User-facing fallback messages.
const (
	GenericMessage   = "Request failed"
	TransportMessage = "Server error"
	DecodeMessage    = "Unexpected response from server"
)

// Error is the failure half of every Client call.
//
// Status is the HTTP status code, or 0 when no response arrived.
// Message is safe to show to the admin: the API's "detail" text when the
// response carried one, otherwise one of the generic messages above.
type Error struct {
	Status  int
	Message string
	Err     error
}

func (e *Error) Error() string {
	if e.Status == 0 {
		if e.Err != nil {
			return fmt.Sprintf("api: %s: %v", e.Message, e.Err)
		}
		return "api: " + e.Message
	}
	return fmt.Sprintf("api: status %d: %s", e.Status, e.Message)
}

func (e *Error) Unwrap() error { return e.Err }

// IsTransport reports whether the request never produced a response.
func (e *Error) IsTransport() bool { return e.Status == 0 }

// Message returns the user-facing message of err when it is an *Error,
// and fallback otherwise.
func Message(err error, fallback string) string {
	var apiErr *Error
	if errors.As(err, &apiErr) && apiErr.Message != "" {
		return apiErr.Message
	}
	return fallback
}

// StatusOf returns the HTTP status carried by err, or 0.
func StatusOf(err error) int {
	var apiErr *Error
	if errors.As(err, &apiErr) {
		return apiErr.Status
	}
	return 0
}

// IsUnauthorized reports whether the API rejected the credential.
func IsUnauthorized(err error) bool { return StatusOf(err) == http.StatusUnauthorized }

// IsForbidden reports whether the API refused the action for this role.
func IsForbidden(err error) bool { return StatusOf(err) == http.StatusForbidden }

// IsNotFound reports whether the API has no such record.
func IsNotFound(err error) bool { return StatusOf(err) == http.StatusNotFound }

// errorFromResponse builds an *Error from a non-2xx response body.
func errorFromResponse(status int, body []byte) *Error {
	msg := detailMessage(body)
	if msg == "" {
		msg = GenericMessage
	}
	return &Error{Status: status, Message: msg}
}

// detailMessage extracts the "detail" field of an error body. The API sends
// either a string or, for request validation failures, a list of objects
// with a "msg" field.
func detailMessage(body []byte) string {
	var envelope struct {
		Detail json.RawMessage `json:"detail"`
	}
	if err := json.Unmarshal(body, &envelope); err != nil || len(envelope.Detail) == 0 {
		return ""
	}

	var s string
	if err := json.Unmarshal(envelope.Detail, &s); err == nil {
		return strings.TrimSpace(s)
	}

	var items []struct {
		Msg string `json:"msg"`
	}
	if err := json.Unmarshal(envelope.Detail, &items); err == nil {
		msgs := make([]string, 0, len(items))
		for _, it := range items {
			if m := strings.TrimSpace(it.Msg); m != "" {
				msgs = append(msgs, m)
			}
		}
		return strings.Join(msgs, "; ")
	}
	return ""
}
