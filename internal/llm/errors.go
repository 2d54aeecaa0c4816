package llm

import (
	"errors"
	"fmt"
)

// Kind classifies why a task or completion call failed.
type Kind string

const (
	KindInvalidInput      Kind = "invalid_input"
	KindMissingCredential Kind = "missing_credential"
	KindTransport         Kind = "transport"
	KindAPI               Kind = "api"
	KindMalformedResponse Kind = "malformed_response"
)

// Sentinels for errors.Is; any *Error of the same kind matches.
var (
	ErrInvalidInput      = &Error{Kind: KindInvalidInput}
	ErrMissingCredential = &Error{Kind: KindMissingCredential}
	ErrTransport         = &Error{Kind: KindTransport}
	ErrAPI               = &Error{Kind: KindAPI}
	ErrMalformedResponse = &Error{Kind: KindMalformedResponse}
)

// Error is the single error type surfaced by the completion layer.
type Error struct {
	Kind Kind
	// StatusCode is set for KindAPI.
	StatusCode int
	Message    string
	Err        error
}

func newError(kind Kind, message string) *Error {
	return &Error{Kind: kind, Message: message}
}

// MissingCredential reports that no API key is configured for the caller.
func MissingCredential() *Error {
	return newError(KindMissingCredential, "OpenAI API key is required")
}

// InvalidInput reports an empty required field.
func InvalidInput(field string) *Error {
	return newError(KindInvalidInput, field+" is required")
}

func (e *Error) Error() string {
	if e == nil {
		return "<nil>"
	}
	msg := e.Message
	if msg == "" && e.Err != nil {
		msg = e.Err.Error()
	}
	if msg == "" {
		return "llm: " + string(e.Kind)
	}
	return fmt.Sprintf("llm: %s: %s", e.Kind, msg)
}

func (e *Error) Unwrap() error { return e.Err }

// Is matches sentinels by kind.
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	if !ok || e == nil || t == nil {
		return false
	}
	return t.Kind == e.Kind && t.Message == "" && t.Err == nil && t.StatusCode == 0
}

// KindOf returns the kind of err, or "" when err is not an *Error.
func KindOf(err error) Kind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return ""
}

// UserActionable reports configuration problems the user can fix themselves,
// as opposed to transient or service-side failures.
func UserActionable(err error) bool {
	switch KindOf(err) {
	case KindInvalidInput, KindMissingCredential:
		return true
	default:
		return false
	}
}
