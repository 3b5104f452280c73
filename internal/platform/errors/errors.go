package apperrors

import (
	"errors"
	"fmt"
	"strings"
)

var (
	ErrInvalidInput    = errors.New("invalid input")
	ErrNotFound        = errors.New("not found")
	ErrNotFoundInCache = errors.New("not found in cache")
	ErrRemote          = errors.New("remote request failed")
)

// RemoteError is returned for transport failures and non-2xx responses from
// the record service. Status is zero when no response was received.
type RemoteError struct {
	Method  string
	Path    string
	Status  int
	Message string
}

func (e *RemoteError) Error() string {
	return e.Message
}

func (e *RemoteError) Unwrap() error {
	return ErrRemote
}

// ValidationError reports caller-side input problems. It is produced before
// any container or remote call is made.
type ValidationError struct {
	Fields []FieldError
}

type FieldError struct {
	Field string
	Rule  string
}

func (e *ValidationError) Error() string {
	parts := make([]string, 0, len(e.Fields))
	for _, f := range e.Fields {
		parts = append(parts, fmt.Sprintf("%s: %s", f.Field, f.Rule))
	}
	return fmt.Sprintf("%s: %s", ErrInvalidInput, strings.Join(parts, ", "))
}

func (e *ValidationError) Unwrap() error {
	return ErrInvalidInput
}

// Invalid builds a single-field validation error.
func Invalid(field, rule string) error {
	return &ValidationError{Fields: []FieldError{{Field: field, Rule: rule}}}
}

// Message extracts the user-facing text of err, or fallback when err is nil
// or carries no message.
func Message(err error, fallback string) string {
	if err == nil {
		return fallback
	}
	var remote *RemoteError
	if errors.As(err, &remote) {
		if strings.TrimSpace(remote.Message) == "" {
			return fallback
		}
		return remote.Message
	}
	if msg := err.Error(); strings.TrimSpace(msg) != "" {
		return msg
	}
	return fallback
}
