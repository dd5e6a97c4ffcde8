// Package sanitizer provides small, composable helpers that clean user input
// before it is validated, logged or exported.
//
// Every helper is a func(string) string, so pipelines can be assembled with
// Apply and Compose:
//
//	clean := sanitizer.Compose(
//	    sanitizer.SanitizeUserInput,
//	    sanitizer.SingleLine,
//	)
//	name := clean(form.FullName)
//
// MaskString hides sensitive identifiers in logs and PreventCSVInjection
// neutralizes spreadsheet formulas in exported files.
package sanitizer
