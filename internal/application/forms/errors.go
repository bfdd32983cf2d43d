package forms

import (
	apperrors "github.com/zatekoja/doctordirectory/pkg/errors"
)

// ValidationErrors maps a form field to the reason it was rejected
type ValidationErrors map[string]string

// Add records the first failure for field
func (v ValidationErrors) Add(field, message string) {
	if _, exists := v[field]; !exists {
		v[field] = message
	}
}

// Has reports whether field failed validation
func (v ValidationErrors) Has(field string) bool {
	_, ok := v[field]
	return ok
}

// Get returns the failure message for field, or an empty string
func (v ValidationErrors) Get(field string) string {
	return v[field]
}

// Err returns nil when nothing failed, otherwise a validation AppError
// carrying every field failure
func (v ValidationErrors) Err() error {
	if len(v) == 0 {
		return nil
	}
	return apperrors.NewFieldValidationError(v)
}
