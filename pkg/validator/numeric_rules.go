package validator

import (
	"fmt"
	"strconv"
	"strings"
)

// MaxNum validates that a numeric value is less than or equal to the maximum.
func MaxNum[T Numeric](field string, value T, max T) Rule {
	return Rule{
		Check: func() bool {
			return value <= max
		},
		Error: ValidationError{
			Field:          field,
			Message:        fmt.Sprintf("must be at most %v", max),
			TranslationKey: "validation.max",
			TranslationValues: map[string]any{
				"field": field,
				"max":   max,
			},
		},
	}
}

// RangeNum validates that min <= value <= max.
func RangeNum[T Numeric](field string, value T, min T, max T) Rule {
	return Rule{
		Check: func() bool {
			return value >= min && value <= max
		},
		Error: ValidationError{
			Field:          field,
			Message:        fmt.Sprintf("must be between %v and %v", min, max),
			TranslationKey: "validation.range",
			TranslationValues: map[string]any{
				"field": field,
				"min":   min,
				"max":   max,
			},
		},
	}
}

// ParseWholeNumber parses a non-negative integer written with ASCII digits
// only. Signs, spaces inside the number and decimal points are rejected.
func ParseWholeNumber(raw string) (int, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return 0, ErrEmptyValue
	}
	for _, r := range raw {
		if r < '0' || r > '9' {
			return 0, ErrInvalidNumber
		}
	}
	n, err := strconv.Atoi(raw)
	if err != nil {
		return 0, ErrInvalidNumber
	}
	return n, nil
}
