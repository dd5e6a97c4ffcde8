package portability

import "errors"

var (
	ErrInvalidRules   = errors.New("portability: invalid rules")
	ErrEmptyCatalog   = errors.New("portability: institution catalog is empty")
	ErrPolicyName     = errors.New("portability: policy name is required")
	ErrPolicyValue    = errors.New("portability: policy value out of range")
	ErrThresholdValue = errors.New("portability: threshold value out of range")

	ErrLoadRules  = errors.New("portability: failed to load rules")
	ErrMissingKey = errors.New("portability: required key is missing")
	ErrNilSource  = errors.New("portability: policy source is nil")
)
