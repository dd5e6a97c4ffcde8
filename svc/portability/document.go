package portability

import (
	"bytes"
	"errors"
	"fmt"
	"io"

	"github.com/shopspring/decimal"
	"gopkg.in/yaml.v3"
)

// Rules documents are decoded into pointer fields first so an omitted key is
// an error instead of a zero value.

type policyDocument struct {
	Name                     *string          `yaml:"name"`
	MaxAge                   *int             `yaml:"max_age"`
	MinInstallmentsPaid      *int             `yaml:"min_installments_paid"`
	AcceptsDisabilityBenefit *bool            `yaml:"accepts_disability_benefit"`
	StandardRatePercent      *decimal.Decimal `yaml:"standard_rate_percent"`
}

type thresholdsDocument struct {
	MinOutstandingBalance     *decimal.Decimal `yaml:"min_outstanding_balance"`
	MinChange                 *decimal.Decimal `yaml:"min_change"`
	DisabilityMinInstallments *int             `yaml:"disability_min_installments"`
	RateImprovementCap        *decimal.Decimal `yaml:"rate_improvement_cap"`
	PositiveHistoryMargin     *int             `yaml:"positive_history_margin"`
}

type rulesDocument struct {
	Thresholds *thresholdsDocument `yaml:"thresholds"`
	Blocklist  *[]string           `yaml:"blocklist"`
	Catalog    []policyDocument    `yaml:"catalog"`
}

// decodeRules decodes a YAML rules document, rejecting unknown and missing
// keys.
func decodeRules(data []byte) (Rules, error) {
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)

	var doc rulesDocument
	if err := dec.Decode(&doc); err != nil {
		if errors.Is(err, io.EOF) {
			err = errors.New("empty document")
		}
		return Rules{}, fmt.Errorf("decode yaml: %w", err)
	}
	return doc.rules()
}

func (doc rulesDocument) rules() (Rules, error) {
	var missing []error
	need := func(present bool, key string) {
		if !present {
			missing = append(missing, fmt.Errorf("%s: %w", key, ErrMissingKey))
		}
	}

	var r Rules
	need(doc.Thresholds != nil, "thresholds")
	if t := doc.Thresholds; t != nil {
		need(t.MinOutstandingBalance != nil, "thresholds.min_outstanding_balance")
		need(t.MinChange != nil, "thresholds.min_change")
		need(t.DisabilityMinInstallments != nil, "thresholds.disability_min_installments")
		need(t.RateImprovementCap != nil, "thresholds.rate_improvement_cap")
		need(t.PositiveHistoryMargin != nil, "thresholds.positive_history_margin")
		r.Thresholds = Thresholds{
			MinOutstandingBalance:     deref(t.MinOutstandingBalance),
			MinChange:                 deref(t.MinChange),
			DisabilityMinInstallments: deref(t.DisabilityMinInstallments),
			RateImprovementCap:        deref(t.RateImprovementCap),
			PositiveHistoryMargin:     deref(t.PositiveHistoryMargin),
		}
	}

	need(doc.Blocklist != nil, "blocklist")
	r.Blocklist = deref(doc.Blocklist)

	for i, p := range doc.Catalog {
		prefix := fmt.Sprintf("catalog[%d].", i)
		need(p.Name != nil, prefix+"name")
		need(p.MaxAge != nil, prefix+"max_age")
		need(p.MinInstallmentsPaid != nil, prefix+"min_installments_paid")
		need(p.AcceptsDisabilityBenefit != nil, prefix+"accepts_disability_benefit")
		need(p.StandardRatePercent != nil, prefix+"standard_rate_percent")
		r.Catalog = append(r.Catalog, Policy{
			Name:                     deref(p.Name),
			MaxAge:                   deref(p.MaxAge),
			MinInstallmentsPaid:      deref(p.MinInstallmentsPaid),
			AcceptsDisabilityBenefit: deref(p.AcceptsDisabilityBenefit),
			StandardRatePercent:      deref(p.StandardRatePercent),
		})
	}

	if len(missing) > 0 {
		return Rules{}, errors.Join(missing...)
	}
	return r, nil
}

func deref[T any](p *T) T {
	var zero T
	if p == nil {
		return zero
	}
	return *p
}
