package models

import "errors"

// Domain errors surfaced by the repository and service layers. Handlers map
// these onto HTTP status codes.
var (
	// ErrNotFound covers both a missing row and a row owned by someone
	// else; callers cannot tell the two apart.
	ErrNotFound = errors.New("not found")

	ErrEmailTaken         = errors.New("email already registered")
	ErrNameTaken          = errors.New("name already in use")
	ErrInvalidCredentials = errors.New("invalid credentials")
)

// ValidationError marks malformed or missing input. Handlers translate it
// to a 400 response; anything else non-sentinel is a 500.
type ValidationError struct {
	Msg string
}

func (e *ValidationError) Error() string { return e.Msg }

func Invalid(msg string) error { return &ValidationError{Msg: msg} }

func IsValidation(err error) bool {
	var ve *ValidationError
	return errors.As(err, &ve)
}
