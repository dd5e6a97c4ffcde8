package portability

import (
	"errors"
	"fmt"
	"slices"
	"strings"

	"github.com/shopspring/decimal"
)

// Policy is the lending policy of one catalog entry.
// Every field is explicit; there is no fallback record.
type Policy struct {
	Name                     string          `yaml:"name" json:"name"`
	MaxAge                   int             `yaml:"max_age" json:"max_age"`
	MinInstallmentsPaid      int             `yaml:"min_installments_paid" json:"min_installments_paid"`
	AcceptsDisabilityBenefit bool            `yaml:"accepts_disability_benefit" json:"accepts_disability_benefit"`
	StandardRatePercent      decimal.Decimal `yaml:"standard_rate_percent" json:"standard_rate_percent"`
}

// Thresholds apply to every institution on top of its own policy.
type Thresholds struct {
	MinOutstandingBalance     decimal.Decimal `yaml:"min_outstanding_balance" json:"min_outstanding_balance"`
	MinChange                 decimal.Decimal `yaml:"min_change" json:"min_change"`
	DisabilityMinInstallments int             `yaml:"disability_min_installments" json:"disability_min_installments"`
	RateImprovementCap        decimal.Decimal `yaml:"rate_improvement_cap" json:"rate_improvement_cap"`
	PositiveHistoryMargin     int             `yaml:"positive_history_margin" json:"positive_history_margin"`
}

// DefaultThresholds returns the thresholds in force for INSS payroll loans.
func DefaultThresholds() Thresholds {
	return Thresholds{
		MinOutstandingBalance:     decimal.NewFromInt(500),
		MinChange:                 decimal.NewFromInt(100),
		DisabilityMinInstallments: 6,
		RateImprovementCap:        decimal.RequireFromString("0.5"),
		PositiveHistoryMargin:     5,
	}
}

// Rules is the immutable configuration consumed by Evaluate.
// Catalog order is significant and names may repeat.
type Rules struct {
	Catalog    []Policy   `yaml:"catalog" json:"catalog"`
	Blocklist  []string   `yaml:"blocklist" json:"blocklist"`
	Thresholds Thresholds `yaml:"thresholds" json:"thresholds"`
}

// NewRules builds a validated, detached copy of the given tables.
func NewRules(catalog []Policy, blocklist []string, thresholds Thresholds) (Rules, error) {
	r := Rules{
		Catalog:    slices.Clone(catalog),
		Blocklist:  slices.Clone(blocklist),
		Thresholds: thresholds,
	}
	if err := r.Validate(); err != nil {
		return Rules{}, err
	}
	return r, nil
}

// Blocked reports whether the institution is globally excluded.
func (r Rules) Blocked(name string) bool {
	return slices.Contains(r.Blocklist, name)
}

// Names returns catalog names in declaration order, duplicates included.
func (r Rules) Names() []string {
	names := make([]string, 0, len(r.Catalog))
	for _, p := range r.Catalog {
		names = append(names, p.Name)
	}
	return names
}

// Clone returns a deep copy so callers cannot mutate a shared snapshot.
func (r Rules) Clone() Rules {
	return Rules{
		Catalog:    slices.Clone(r.Catalog),
		Blocklist:  slices.Clone(r.Blocklist),
		Thresholds: r.Thresholds,
	}
}

// Validate checks the tables for values that would make evaluation meaningless.
func (r Rules) Validate() error {
	var errs []error

	if len(r.Catalog) == 0 {
		errs = append(errs, ErrEmptyCatalog)
	}
	for i, p := range r.Catalog {
		if strings.TrimSpace(p.Name) == "" {
			errs = append(errs, fmt.Errorf("catalog[%d]: %w", i, ErrPolicyName))
			continue
		}
		if p.MaxAge <= 0 {
			errs = append(errs, fmt.Errorf("catalog[%d] %q: max_age %d: %w", i, p.Name, p.MaxAge, ErrPolicyValue))
		}
		if p.MinInstallmentsPaid < 0 {
			errs = append(errs, fmt.Errorf("catalog[%d] %q: min_installments_paid %d: %w", i, p.Name, p.MinInstallmentsPaid, ErrPolicyValue))
		}
		// A zero rate is what an omitted standard_rate_percent decodes to.
		if !p.StandardRatePercent.IsPositive() {
			errs = append(errs, fmt.Errorf("catalog[%d] %q: standard_rate_percent %s: %w", i, p.Name, p.StandardRatePercent, ErrPolicyValue))
		}
	}

	t := r.Thresholds
	if t.MinOutstandingBalance.IsNegative() {
		errs = append(errs, fmt.Errorf("min_outstanding_balance %s: %w", t.MinOutstandingBalance, ErrThresholdValue))
	}
	if t.DisabilityMinInstallments < 0 {
		errs = append(errs, fmt.Errorf("disability_min_installments %d: %w", t.DisabilityMinInstallments, ErrThresholdValue))
	}
	if t.RateImprovementCap.IsNegative() {
		errs = append(errs, fmt.Errorf("rate_improvement_cap %s: %w", t.RateImprovementCap, ErrThresholdValue))
	}
	if t.PositiveHistoryMargin < 0 {
		errs = append(errs, fmt.Errorf("positive_history_margin %d: %w", t.PositiveHistoryMargin, ErrThresholdValue))
	}

	if len(errs) > 0 {
		return errors.Join(ErrInvalidRules, errors.Join(errs...))
	}
	return nil
}
