// Package validator provides declarative validation rules with
// translation-friendly error metadata.
//
// A Rule pairs a Check function with the ValidationError reported when the
// check fails. Apply evaluates every rule and aggregates failures into a
// ValidationErrors slice that satisfies the error interface, so all field
// problems are reported in a single return. Chain groups the rules of one
// field so that only its first failure is reported.
//
// Raw form values are converted with ParseWholeNumber and ParseDecimal; a
// conversion failure is folded into the same error list through Parsed.
//
// # Usage
//
//	age, ageErr := validator.ParseWholeNumber(raw.Age)
//	err := validator.Apply(
//	    validator.MinLenString("full_name", raw.FullName, 3),
//	    validator.ValidCPF("national_id", raw.NationalID),
//	    validator.Chain(
//	        validator.Parsed("age", ageErr),
//	        validator.RangeNum("age", age, 18, 120),
//	    ).WithMessage("validation.age", "age must be between 18 and 120"),
//	)
//	if verrs := validator.ExtractValidationErrors(err); verrs != nil {
//	    // iterate over field-level messages or translate them
//	}
//
// Rules are plain values with no shared state and are safe to build
// concurrently.
package validator
