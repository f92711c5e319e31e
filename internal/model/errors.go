package model

import (
	"errors"
	"fmt"
)

// Domain errors shared by the server services and the catalog client.
var (
	ErrNotFound        = errors.New("recipe not found")
	ErrDuplicateTitle  = errors.New("a recipe with this title already exists")
	ErrInvalidCategory = errors.New("invalid category id")
	ErrForbidden       = errors.New("not the recipe owner")
)

// ValidationError reports a rejected input field.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

// IsValidation reports whether err is a ValidationError.
func IsValidation(err error) bool {
	var ve *ValidationError
	return errors.As(err, &ve)
}
