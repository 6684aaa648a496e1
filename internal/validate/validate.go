// Package validate holds the shared go-playground validator instance.
package validate

import (
	"errors"
	"strings"
	"sync"

	"github.com/go-playground/validator/v10"
)

var (
	validate *validator.Validate
	once     sync.Once
)

// Get returns the process-wide validator.
func Get() *validator.Validate {
	once.Do(func() {
		validate = validator.New()
	})
	return validate
}

// Email reports whether s is a syntactically valid address with a dotted domain.
// The validator's email rule accepts bare hosts such as "user@localhost", which
// Sendy rejects, so a '.' after the '@' is required as well.
func Email(s string) bool {
	if err := Get().Var(s, "required,email"); err != nil {
		return false
	}
	at := strings.LastIndexByte(s, '@')
	return at > 0 && strings.Contains(s[at+1:], ".")
}

// Struct validates v against its validate tags.
func Struct(v any) error {
	return Get().Struct(v)
}

// Message converts a validation error to a single readable sentence.
// Only the first failing field is reported.
func Message(err error) string {
	if err == nil {
		return ""
	}

	var validationErrors validator.ValidationErrors
	if errors.As(err, &validationErrors) && len(validationErrors) > 0 {
		e := validationErrors[0]
		return "Field validation for '" + e.Field() + "' failed on the '" + e.Tag() + "' tag"
	}

	return err.Error()
}
