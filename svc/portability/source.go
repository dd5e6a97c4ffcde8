package portability

import (
	"context"
	_ "embed"
	"errors"
	"os"
)

//go:embed rules.yaml
var defaultRulesYAML []byte

// PolicySource loads a complete rules table.
type PolicySource interface {
	Load(ctx context.Context) (Rules, error)
}

// PolicySourceFunc adapts a function to PolicySource.
type PolicySourceFunc func(ctx context.Context) (Rules, error)

func (f PolicySourceFunc) Load(ctx context.Context) (Rules, error) {
	return f(ctx)
}

// DefaultSource returns the rules compiled into the binary.
func DefaultSource() PolicySource {
	return PolicySourceFunc(func(context.Context) (Rules, error) {
		return ParseRulesYAML(defaultRulesYAML)
	})
}

// FileSource reads rules from a YAML file on every Load.
func FileSource(path string) PolicySource {
	return PolicySourceFunc(func(ctx context.Context) (Rules, error) {
		if err := ctx.Err(); err != nil {
			return Rules{}, err
		}
		data, err := os.ReadFile(path)
		if err != nil {
			return Rules{}, errors.Join(ErrLoadRules, err)
		}
		return ParseRulesYAML(data)
	})
}

// StaticSource serves a detached copy of the given rules.
func StaticSource(r Rules) PolicySource {
	r = r.Clone()
	return PolicySourceFunc(func(context.Context) (Rules, error) {
		return r.Clone(), nil
	})
}

// ParseRulesYAML decodes and validates a rules document. Every key is
// required and unknown keys are rejected.
func ParseRulesYAML(data []byte) (Rules, error) {
	r, err := decodeRules(data)
	if err != nil {
		return Rules{}, errors.Join(ErrLoadRules, err)
	}
	if err := r.Validate(); err != nil {
		return Rules{}, err
	}
	return r, nil
}

// MustDefaultRules returns the embedded rules and panics if they are invalid.
func MustDefaultRules() Rules {
	r, err := DefaultSource().Load(context.Background())
	if err != nil {
		panic(err)
	}
	return r
}
