// Package validator wires the request-form validation rules used by the
// HTTP handlers. Rules are registered per form so the streaming endpoint
// can reject a bad request before any byte hits the wire.
package validator

import (
	"github.com/go-playground/validator/v10"
)

// ValidationRule registers one custom tag on the underlying validator.
type ValidationRule struct {
	Rule func(v *validator.Validate)
}

// Validator pairs go-playground's struct validator with the custom rules a
// handler needs for its form.
type Validator struct {
	validator *validator.Validate
	rules     []ValidationRule
}

func NewValidator() *Validator {
	v := validator.New()
	return &Validator{validator: v}
}

func (v *Validator) Register(rules ...ValidationRule) {
	for _, validationRule := range rules {
		validationRule.Rule(v.validator)
	}
	v.rules = rules
}

func (v *Validator) Struct(s any) error {
	return v.validator.Struct(s)
}
