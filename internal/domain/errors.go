package domain

import "errors"

// ErrInvalidInput marks client-correctable validation failures. Usecases
// wrap it with the specific reason; handlers match it with errors.Is.
var ErrInvalidInput = errors.New("invalid input")
