package validator

import (
	"regexp"
	"strings"

	"github.com/shopspring/decimal"
)

func PositiveDecimal(field string, value decimal.Decimal) Rule {
	return Rule{
		Check: func() bool {
			return value.IsPositive()
		},
		Error: ValidationError{
			Field:          field,
			Message:        "amount must be positive",
			TranslationKey: "validation.positive_amount",
			TranslationValues: map[string]any{
				"field": field,
			},
		},
	}
}

func MaxDecimal(field string, value, max decimal.Decimal) Rule {
	return Rule{
		Check: func() bool {
			return value.LessThanOrEqual(max)
		},
		Error: ValidationError{
			Field:          field,
			Message:        "amount must be at most " + max.StringFixed(2),
			TranslationKey: "validation.max_amount",
			TranslationValues: map[string]any{
				"field": field,
				"max":   max.StringFixed(2),
			},
		},
	}
}

func DecimalRange(field string, value, min, max decimal.Decimal) Rule {
	return Rule{
		Check: func() bool {
			return value.GreaterThanOrEqual(min) && value.LessThanOrEqual(max)
		},
		Error: ValidationError{
			Field:          field,
			Message:        "amount must be between " + min.String() + " and " + max.String(),
			TranslationKey: "validation.amount_range",
			TranslationValues: map[string]any{
				"field": field,
				"min":   min.String(),
				"max":   max.String(),
			},
		},
	}
}

var (
	// 1234.56, .5, 1e3 (JSON numbers reach the binder as written)
	dotDecimal = regexp.MustCompile(`^[+-]?(\d+(\.\d*)?|\.\d+)([eE][+-]?\d+)?$`)
	// 1234,56 or 1.234,56: dots only as thousands groups of three digits
	commaDecimal = regexp.MustCompile(`^[+-]?(\d{1,3}(\.\d{3})+|\d+),\d+$`)
)

// ParseDecimal parses a decimal written with either "." or "," as the
// decimal separator. With a comma separator dots are only accepted as
// thousands groups ("1.234,56"); anything else, such as "5,000.00", is
// ErrInvalidNumber.
func ParseDecimal(raw string) (decimal.Decimal, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return decimal.Zero, ErrEmptyValue
	}
	switch {
	case dotDecimal.MatchString(raw):
	case commaDecimal.MatchString(raw):
		raw = strings.ReplaceAll(raw, ".", "")
		raw = strings.Replace(raw, ",", ".", 1)
	default:
		return decimal.Zero, ErrInvalidNumber
	}
	d, err := decimal.NewFromString(raw)
	if err != nil {
		return decimal.Zero, ErrInvalidNumber
	}
	return d, nil
}
