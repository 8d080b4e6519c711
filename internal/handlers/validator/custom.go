package validator

import (
	"strings"

	"github.com/go-playground/validator/v10"
)

// absoluteMaxArticles is the sanity bound on the requested candidate count.
// The pipeline clamps harder later; requests beyond this are rejected
// outright as malformed.
const absoluteMaxArticles = 500

func diseaseValidator(fl validator.FieldLevel) bool {
	val, ok := fl.Field().Interface().(string)
	if !ok {
		return false
	}

	return strings.TrimSpace(val) != ""
}

func numArticlesValidator(fl validator.FieldLevel) bool {
	val, ok := fl.Field().Interface().(int)
	if !ok {
		return false
	}

	return val >= 0 && val <= absoluteMaxArticles
}
