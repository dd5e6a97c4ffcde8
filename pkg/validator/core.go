package validator

import (
	"errors"
	"fmt"
	"maps"
	"strings"
)

type Numeric interface {
	~int | ~int8 | ~int16 | ~int32 | ~int64 |
		~uint | ~uint8 | ~uint16 | ~uint32 | ~uint64 |
		~float32 | ~float64
}

// ValidationError represents a single validation error with translation support.
type ValidationError struct {
	Field             string
	Message           string
	TranslationKey    string
	TranslationValues map[string]any
}

// ValidationErrors represents a collection of validation errors.
// Order is the order in which rules were applied.
type ValidationErrors []ValidationError

func (ve ValidationErrors) Error() string {
	if len(ve) == 0 {
		return "validation failed"
	}

	parts := make([]string, 0, len(ve))
	for _, err := range ve {
		parts = append(parts, fmt.Sprintf("%s: %s", err.Field, err.Message))
	}
	return "validation failed: " + strings.Join(parts, "; ")
}

func (ve *ValidationErrors) Add(err ValidationError) {
	*ve = append(*ve, err)
}

func (ve ValidationErrors) Has(field string) bool {
	for _, err := range ve {
		if err.Field == field {
			return true
		}
	}
	return false
}

func (ve ValidationErrors) Get(field string) []string {
	var messages []string
	for _, err := range ve {
		if err.Field == field {
			messages = append(messages, err.Message)
		}
	}
	return messages
}

// Messages returns every message in application order.
func (ve ValidationErrors) Messages() []string {
	messages := make([]string, 0, len(ve))
	for _, err := range ve {
		messages = append(messages, err.Message)
	}
	return messages
}

func (ve ValidationErrors) Fields() []string {
	var fields []string
	seen := make(map[string]bool)
	for _, err := range ve {
		if !seen[err.Field] {
			fields = append(fields, err.Field)
			seen[err.Field] = true
		}
	}
	return fields
}

func (ve ValidationErrors) IsEmpty() bool {
	return len(ve) == 0
}

// Rule represents a single validation rule.
type Rule struct {
	Check func() bool
	Error ValidationError

	// failure resolves the reported error after Check ran; set by Chain.
	failure func() ValidationError
}

// WithMessage replaces the message and translation key of the rule error,
// keeping the field and translation values.
func (r Rule) WithMessage(key, message string) Rule {
	r.Error.TranslationKey = key
	r.Error.Message = message
	r.failure = nil
	return r
}

// WithValues adds translation values to the rule error.
func (r Rule) WithValues(values map[string]any) Rule {
	merged := make(map[string]any, len(r.Error.TranslationValues)+len(values))
	maps.Copy(merged, r.Error.TranslationValues)
	maps.Copy(merged, values)
	r.Error.TranslationValues = merged
	return r
}

func (r Rule) err() ValidationError {
	if r.failure != nil {
		return r.failure()
	}
	return r.Error
}

// Chain combines rules for one field. Rules are checked in order and the
// first failing rule is reported; later rules are not evaluated.
func Chain(rules ...Rule) Rule {
	failed := -1
	chain := Rule{
		Check: func() bool {
			failed = -1
			for i, rule := range rules {
				if !rule.Check() {
					failed = i
					return false
				}
			}
			return true
		},
	}
	if len(rules) > 0 {
		chain.Error = rules[0].Error
	}
	chain.failure = func() ValidationError {
		if failed < 0 {
			return chain.Error
		}
		return rules[failed].err()
	}
	return chain
}

// Apply executes multiple validation rules and returns any validation errors.
func Apply(rules ...Rule) error {
	var errs ValidationErrors

	for _, rule := range rules {
		if !rule.Check() {
			errs = append(errs, rule.err())
		}
	}

	if errs.IsEmpty() {
		return nil
	}

	return errs
}

// Parsed reports a conversion failure of a raw value as a validation error.
func Parsed(field string, parseErr error) Rule {
	return Rule{
		Check: func() bool {
			return parseErr == nil
		},
		Error: ValidationError{
			Field:          field,
			Message:        "invalid value",
			TranslationKey: "validation.invalid",
			TranslationValues: map[string]any{
				"field": field,
			},
		},
	}
}

// ExtractValidationErrors extracts ValidationErrors from an error.
func ExtractValidationErrors(err error) ValidationErrors {
	if err == nil {
		return nil
	}

	var validationErr ValidationErrors
	if errors.As(err, &validationErr) {
		return validationErr
	}

	return nil
}

func IsValidationError(err error) bool {
	if err == nil {
		return false
	}

	var validationErr ValidationErrors
	return errors.As(err, &validationErr)
}
