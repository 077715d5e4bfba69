package validation

import (
	validatorv10 "github.com/go-playground/validator/v10"
)

// New returns the validator used for all entity schemas. Field rules live on
// the struct tags in internal/models; the cross-field order rule
// (total >= subtotal) is checked by the handler after schema validation.
func New() *validatorv10.Validate {
	return validatorv10.New()
}
