// internal/game/errors.go
package game

import (
	"errors"
	"fmt"

	"github.com/jason-s-yu/thirtyseconds/internal/words"
)

// Error codes sent to clients in "error" events.
const (
	CodeValidation    = "validation_error"
	CodeNotFound      = "not_found"
	CodeIllegalState  = "illegal_state"
	CodePoolExhausted = "pool_exhausted"
	CodeInternal      = "internal_error"
)

// ValidationError reports a malformed or out-of-range config or payload.
// Nothing is mutated when it is returned.
type ValidationError struct {
	Field string
	Msg   string
}

func (e *ValidationError) Error() string {
	if e.Field == "" {
		return "invalid request: " + e.Msg
	}
	return fmt.Sprintf("invalid %s: %s", e.Field, e.Msg)
}

// NotFoundError reports an unknown session code.
type NotFoundError struct {
	SessionID string
}

func (e *NotFoundError) Error() string {
	if e.SessionID == "" {
		return "session not found"
	}
	return fmt.Sprintf("session %s not found", e.SessionID)
}

// IllegalStateError reports an event that is well formed but not allowed in the
// current session or round state.
type IllegalStateError struct {
	Op  string
	Msg string
}

func (e *IllegalStateError) Error() string {
	return fmt.Sprintf("%s: %s", e.Op, e.Msg)
}

func invalid(field, format string, args ...interface{}) error {
	return &ValidationError{Field: field, Msg: fmt.Sprintf(format, args...)}
}

func illegal(op, format string, args ...interface{}) error {
	return &IllegalStateError{Op: op, Msg: fmt.Sprintf(format, args...)}
}

// ErrorCode classifies err into one of the client-facing error codes.
func ErrorCode(err error) string {
	var ve *ValidationError
	var nf *NotFoundError
	var is *IllegalStateError
	switch {
	case errors.As(err, &ve):
		return CodeValidation
	case errors.As(err, &nf):
		return CodeNotFound
	case errors.As(err, &is):
		return CodeIllegalState
	case errors.Is(err, words.ErrPoolExhausted):
		return CodePoolExhausted
	default:
		return CodeInternal
	}
}
