// Package validation provides small declarative request-validation schemas.
// Each endpoint declares a Schema of per-field rules; validating an input
// yields a structured list of field-level errors rather than a single
// pass/fail verdict.
package validation

import (
	"regexp"
	"strings"

	"github.com/spec-kit/auth-service/pkg/util"
)

var emailPattern = regexp.MustCompile(`^[a-zA-Z0-9._%+\-]+@[a-zA-Z0-9.\-]+\.[a-zA-Z]{2,}$`)

// Rule checks a single (already trimmed) field value.
type Rule struct {
	Check   func(value string) bool
	Message string
}

// Field binds a named input field to an ordered list of rules. Rules after
// the first failing one are skipped so the caller gets one message per field.
type Field struct {
	Name  string
	Rules []Rule
}

// Schema is the validation declaration for one endpoint.
type Schema []Field

// Validate runs the schema against the input values and returns every field
// failure found. Values are trimmed before checking, mirroring the trimmed
// storage format of the fields themselves.
func (s Schema) Validate(values map[string]string) []util.FieldError {
	var errs []util.FieldError
	for _, field := range s {
		value := strings.TrimSpace(values[field.Name])
		for _, rule := range field.Rules {
			if !rule.Check(value) {
				errs = append(errs, util.FieldError{Field: field.Name, Message: rule.Message})
				break
			}
		}
	}
	return errs
}

// Required fails on empty values.
func Required(message string) Rule {
	return Rule{
		Check:   func(value string) bool { return value != "" },
		Message: message,
	}
}

// Email fails on values not matching a conventional address shape. Empty
// values pass; combine with Required to enforce presence.
func Email(message string) Rule {
	return Rule{
		Check:   func(value string) bool { return value == "" || emailPattern.MatchString(value) },
		Message: message,
	}
}

// MinLength fails on non-empty values shorter than n.
func MinLength(n int, message string) Rule {
	return Rule{
		Check:   func(value string) bool { return value == "" || len(value) >= n },
		Message: message,
	}
}
