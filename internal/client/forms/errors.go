package forms

import (
	"errors"

	"github.com/dmitrijs2005/homepoint/internal/common"
)

var ErrBusy = errors.New("submit already in progress")

// ValidationError is returned by Submit when a client-side check fails.
// Nothing is sent to the API in that case.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string { return e.Message }

func (e *ValidationError) Is(target error) bool { return target == common.ErrValidation }

func invalid(field, msg string) error {
	return &ValidationError{Field: field, Message: msg}
}

// required returns a ValidationError for the first empty value. Each entry
// is {field, label, value}.
func required(fields ...[3]string) error {
	for _, f := range fields {
		if f[2] == "" {
			return invalid(f[0], f[1]+" is required")
		}
	}
	return nil
}
