package forum

import (
	"errors"
	"strings"
)

var (
	// ErrNotFound is returned when a referenced room, message, topic or user does not exist.
	ErrNotFound = errors.New("not found")
	// ErrForbidden is returned when the actor does not own the object.
	ErrForbidden = errors.New("not allowed")
	// ErrAuthFailed is returned for an unknown username or a wrong password.
	ErrAuthFailed = errors.New("invalid credentials")
	// ErrLoginRequired is returned when an operation needs an authenticated actor.
	ErrLoginRequired = errors.New("login required")
)

// User-visible texts.
const (
	ForbiddenMessage    = "You are not allowed here"
	AuthFailedMessage   = "Username OR password doesnt exist"
	RegisterFailMessage = "An error occurred during registration"
)

// FieldError is one validation message bound to a form field.
type FieldError struct {
	Field   string
	Message string
}

// ValidationError lists every problem found in a submitted form.
// Nothing is persisted when it is returned.
type ValidationError struct {
	Errors []FieldError
}

func (e *ValidationError) Error() string {
	parts := make([]string, 0, len(e.Errors))
	for _, fe := range e.Errors {
		parts = append(parts, fe.Field+": "+fe.Message)
	}
	return "validation failed: " + strings.Join(parts, "; ")
}

func (e *ValidationError) Add(field, msg string) {
	e.Errors = append(e.Errors, FieldError{Field: field, Message: msg})
}

// For returns the messages attached to field.
func (e *ValidationError) For(field string) []string {
	var out []string
	for _, fe := range e.Errors {
		if fe.Field == field {
			out = append(out, fe.Message)
		}
	}
	return out
}

// ByField groups messages by field name, for templates.
func (e *ValidationError) ByField() map[string][]string {
	out := make(map[string][]string, len(e.Errors))
	for _, fe := range e.Errors {
		out[fe.Field] = append(out[fe.Field], fe.Message)
	}
	return out
}

func (e *ValidationError) orNil() error {
	if e == nil || len(e.Errors) == 0 {
		return nil
	}
	return e
}

// AsValidation unwraps err into a *ValidationError.
func AsValidation(err error) (*ValidationError, bool) {
	var ve *ValidationError
	ok := errors.As(err, &ve)
	return ve, ok
}
