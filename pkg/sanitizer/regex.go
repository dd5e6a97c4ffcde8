package sanitizer

import "regexp"

// Pre-compiled regular expressions for performance
var (
	whitespaceRegex  = regexp.MustCompile(`\s+`)
	ansiEscapeRegex  = regexp.MustCompile(`\x1b\[[0-9;]*[a-zA-Z]`)
	csvFormulaPrefix = regexp.MustCompile(`^[=+\-@\t\r]`)
)
