package sanitizer

import "strings"

// MaxInputLength caps a single user-supplied value.
const MaxInputLength = 10000

// RemoveNullBytes removes null bytes.
func RemoveNullBytes(s string) string {
	return strings.ReplaceAll(s, "\x00", "")
}

// RemoveControlSequences removes ANSI escape sequences and other control characters.
func RemoveControlSequences(s string) string {
	return RemoveControlChars(ansiEscapeRegex.ReplaceAllString(s, ""))
}

// SanitizeUserInput applies the baseline cleanup for any user-supplied value.
func SanitizeUserInput(s string) string {
	result := s
	result = RemoveNullBytes(result)
	result = RemoveControlSequences(result)
	result = strings.TrimSpace(result)
	result = LimitLength(result, MaxInputLength)
	return result
}

// PreventCSVInjection prefixes values a spreadsheet would run as a formula
// with a single quote.
func PreventCSVInjection(s string) string {
	if csvFormulaPrefix.MatchString(s) {
		return "'" + s
	}
	return s
}
