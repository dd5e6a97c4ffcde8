package portability

import (
	"strconv"
	"strings"

	"github.com/shopspring/decimal"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"github.com/dmitrymomot/portability/pkg/sanitizer"
)

// Form keys of a consultation submission.
const (
	FieldFullName           = "full_name"
	FieldNationalID         = "national_id"
	FieldAge                = "age"
	FieldBenefitCode        = "benefit_code"
	FieldInstallmentsPaid   = "installments_paid"
	FieldCurrentInstitution = "current_institution"
	FieldInstallmentAmount  = "installment_amount"
	FieldOutstandingBalance = "outstanding_balance"
	FieldTotalValue         = "total_value"
	FieldRatePercent        = "rate_percent"
)

// disabilityMarker identifies disability benefits inside a benefit code.
const disabilityMarker = "invalidez"

// Submission is the raw applicant data as typed by the user.
type Submission struct {
	FullName           string `form:"full_name" json:"full_name"`
	NationalID         string `form:"national_id" json:"national_id"`
	Age                string `form:"age" json:"age"`
	BenefitCode        string `form:"benefit_code" json:"benefit_code"`
	InstallmentsPaid   string `form:"installments_paid" json:"installments_paid"`
	CurrentInstitution string `form:"current_institution" json:"current_institution"`
	InstallmentAmount  string `form:"installment_amount" json:"installment_amount"`
	OutstandingBalance string `form:"outstanding_balance" json:"outstanding_balance"`
	TotalValue         string `form:"total_value" json:"total_value"`
	RatePercent        string `form:"rate_percent" json:"rate_percent"`
}

var cleanInput = sanitizer.Compose(sanitizer.SanitizeUserInput, sanitizer.SingleLine)

// Sanitize strips control characters and collapses whitespace in every field.
func (s Submission) Sanitize() Submission {
	return Submission{
		FullName:           cleanInput(s.FullName),
		NationalID:         cleanInput(s.NationalID),
		Age:                cleanInput(s.Age),
		BenefitCode:        cleanInput(s.BenefitCode),
		InstallmentsPaid:   cleanInput(s.InstallmentsPaid),
		CurrentInstitution: cleanInput(s.CurrentInstitution),
		InstallmentAmount:  cleanInput(s.InstallmentAmount),
		OutstandingBalance: cleanInput(s.OutstandingBalance),
		TotalValue:         cleanInput(s.TotalValue),
		RatePercent:        cleanInput(s.RatePercent),
	}
}

// Benefit classifies the applicant social-security benefit.
type Benefit uint8

const (
	BenefitGeneral Benefit = iota
	BenefitDisability
)

func (b Benefit) String() string {
	if b == BenefitDisability {
		return "disability"
	}
	return "general"
}

// ClassifyBenefit reports BenefitDisability when the lowercased code
// contains "invalidez".
func ClassifyBenefit(code string) Benefit {
	if strings.Contains(cases.Lower(language.BrazilianPortuguese).String(code), disabilityMarker) {
		return BenefitDisability
	}
	return BenefitGeneral
}

// Applicant is a validated submission. Build it with Parse.
type Applicant struct {
	Name               string
	NationalID         string
	Age                int
	BenefitCode        string
	Benefit            Benefit
	InstallmentsPaid   int
	CurrentInstitution string
	InstallmentAmount  decimal.Decimal
	OutstandingBalance decimal.Decimal
	TotalValue         decimal.Decimal
	RatePercent        decimal.Decimal
}

// Change is the amount above the outstanding balance that can be refinanced.
// It is negative when the total value is below the balance.
func (a Applicant) Change() decimal.Decimal {
	return a.TotalValue.Sub(a.OutstandingBalance)
}

func (a Applicant) IsDisability() bool {
	return a.Benefit == BenefitDisability
}

// MaskedNationalID hides the middle digits, for logs.
func (a Applicant) MaskedNationalID() string {
	return sanitizer.MaskString(a.NationalID, 3)
}

// fingerprint identifies the inputs that influence evaluation.
func (a Applicant) fingerprint() string {
	var b strings.Builder
	b.WriteString(a.Benefit.String())
	for _, v := range []string{
		strconv.Itoa(a.Age),
		strconv.Itoa(a.InstallmentsPaid),
		a.OutstandingBalance.String(),
		a.TotalValue.String(),
		a.RatePercent.String(),
	} {
		b.WriteByte('|')
		b.WriteString(v)
	}
	return b.String()
}
