package validator

import "strings"

// ValidCPF validates a Brazilian individual taxpayer number (CPF) by shape:
// after dropping every non-digit it must have exactly 11 digits that are not
// all the same. Check digits are not verified.
func ValidCPF(field, value string) Rule {
	return Rule{
		Check: func() bool {
			digits := OnlyDigits(value)
			if len(digits) != 11 {
				return false
			}
			return strings.Count(digits, digits[:1]) != len(digits)
		},
		Error: ValidationError{
			Field:          field,
			Message:        "invalid CPF",
			TranslationKey: "validation.cpf",
			TranslationValues: map[string]any{
				"field": field,
			},
		},
	}
}

// OnlyDigits drops every character that is not an ASCII digit.
func OnlyDigits(value string) string {
	var b strings.Builder
	b.Grow(len(value))
	for _, r := range value {
		if r >= '0' && r <= '9' {
			b.WriteRune(r)
		}
	}
	return b.String()
}
