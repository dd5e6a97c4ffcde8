package portability

import (
	"fmt"

	"github.com/shopspring/decimal"

	"github.com/dmitrymomot/portability/pkg/validator"
)

// Translation keys of validation failures.
const (
	KeyFullNameTooShort    = "portability.full_name.min_length"
	KeyFullNameTooLong     = "portability.full_name.max_length"
	KeyNationalIDInvalid   = "portability.national_id.invalid"
	KeyAgeRange            = "portability.age.range"
	KeyBenefitCodeRequired = "portability.benefit_code.required"
	KeyBenefitCodeTooLong  = "portability.benefit_code.max_length"
	KeyInstallmentsInvalid = "portability.installments_paid.invalid"
	KeyInstallmentsTooMany = "portability.installments_paid.max"
	KeyInstitutionRequired = "portability.current_institution.required"
	KeyInstallmentAmount   = "portability.installment_amount"
	KeyOutstandingBalance  = "portability.outstanding_balance"
	KeyTotalValue          = "portability.total_value"
	KeyRatePercentInvalid  = "portability.rate_percent.invalid"
	KeyRatePercentRange    = "portability.rate_percent.range"
)

// Amount keys are built as <field key><suffix>.
const (
	amountKeyInvalidSuffix     = ".invalid"
	amountKeyNotPositiveSuffix = ".positive"
	amountKeyTooLargeSuffix    = ".max"
)

// Limits bounds the accepted submission values.
type Limits struct {
	MinNameLength        int
	MaxNameLength        int
	MaxBenefitCodeLength int
	MinAge               int
	MaxAge               int
	MaxInstallments      int
	MaxAmount            decimal.Decimal
	MaxRatePercent       decimal.Decimal
}

func DefaultLimits() Limits {
	return Limits{
		MinNameLength:        3,
		MaxNameLength:        100,
		MaxBenefitCodeLength: 50,
		MinAge:               18,
		MaxAge:               120,
		MaxInstallments:      999,
		MaxAmount:            decimal.RequireFromString("999999.99"),
		MaxRatePercent:       decimal.NewFromInt(100),
	}
}

type parseOptions struct {
	limits Limits
}

// ParseOption configures Parse.
type ParseOption func(*parseOptions)

// WithLimits overrides the default submission limits.
func WithLimits(l Limits) ParseOption {
	return func(o *parseOptions) {
		o.limits = l
	}
}

// Parse validates a raw submission. Every field is checked independently and
// all failures are returned together as validator.ValidationErrors, in field
// order. Malformed numbers are reported like any other invalid value.
func Parse(s Submission, opts ...ParseOption) (Applicant, error) {
	o := parseOptions{limits: DefaultLimits()}
	for _, opt := range opts {
		opt(&o)
	}
	l := o.limits
	s = s.Sanitize()

	age, ageErr := validator.ParseWholeNumber(s.Age)
	installments, installmentsErr := validator.ParseWholeNumber(s.InstallmentsPaid)
	installmentAmount, installmentAmountErr := validator.ParseDecimal(s.InstallmentAmount)
	balance, balanceErr := validator.ParseDecimal(s.OutstandingBalance)
	total, totalErr := validator.ParseDecimal(s.TotalValue)
	rate, rateErr := validator.ParseDecimal(s.RatePercent)

	err := validator.Apply(
		validator.Chain(
			validator.MinLenString(FieldFullName, s.FullName, l.MinNameLength).
				WithMessage(KeyFullNameTooShort, fmt.Sprintf("Nome deve ter pelo menos %d caracteres", l.MinNameLength)),
			validator.MaxLenString(FieldFullName, s.FullName, l.MaxNameLength).
				WithMessage(KeyFullNameTooLong, fmt.Sprintf("Nome deve ter no máximo %d caracteres", l.MaxNameLength)),
		),
		validator.ValidCPF(FieldNationalID, s.NationalID).
			WithMessage(KeyNationalIDInvalid, "CPF inválido"),
		validator.Chain(
			validator.Parsed(FieldAge, ageErr),
			validator.RangeNum(FieldAge, age, l.MinAge, l.MaxAge),
		).
			WithMessage(KeyAgeRange, fmt.Sprintf("Idade deve ser entre %d e %d anos", l.MinAge, l.MaxAge)).
			WithValues(map[string]any{"min": l.MinAge, "max": l.MaxAge}),
		validator.Chain(
			validator.RequiredString(FieldBenefitCode, s.BenefitCode).
				WithMessage(KeyBenefitCodeRequired, "Código do benefício é obrigatório"),
			validator.MaxLenString(FieldBenefitCode, s.BenefitCode, l.MaxBenefitCodeLength).
				WithMessage(KeyBenefitCodeTooLong, fmt.Sprintf("Código do benefício deve ter no máximo %d caracteres", l.MaxBenefitCodeLength)),
		),
		validator.Chain(
			validator.Parsed(FieldInstallmentsPaid, installmentsErr).
				WithMessage(KeyInstallmentsInvalid, "Quantidade de parcelas pagas deve ser um número positivo"),
			validator.MaxNum(FieldInstallmentsPaid, installments, l.MaxInstallments).
				WithMessage(KeyInstallmentsTooMany, fmt.Sprintf("Quantidade de parcelas pagas deve ser no máximo %d", l.MaxInstallments)),
		),
		validator.RequiredString(FieldCurrentInstitution, s.CurrentInstitution).
			WithMessage(KeyInstitutionRequired, "Banco atual é obrigatório"),
		amountRule(FieldInstallmentAmount, KeyInstallmentAmount, "Valor da parcela", installmentAmount, installmentAmountErr, l.MaxAmount),
		amountRule(FieldOutstandingBalance, KeyOutstandingBalance, "Saldo devedor", balance, balanceErr, l.MaxAmount),
		amountRule(FieldTotalValue, KeyTotalValue, "Valor total", total, totalErr, l.MaxAmount),
		validator.Chain(
			validator.Parsed(FieldRatePercent, rateErr).
				WithMessage(KeyRatePercentInvalid, "Taxa inválida"),
			validator.DecimalRange(FieldRatePercent, rate, decimal.Zero, l.MaxRatePercent).
				WithMessage(KeyRatePercentRange, fmt.Sprintf("Taxa deve ser entre 0 e %s%%", l.MaxRatePercent)),
		),
	)
	if err != nil {
		return Applicant{}, err
	}

	return Applicant{
		Name:               s.FullName,
		NationalID:         validator.OnlyDigits(s.NationalID),
		Age:                age,
		BenefitCode:        s.BenefitCode,
		Benefit:            ClassifyBenefit(s.BenefitCode),
		InstallmentsPaid:   installments,
		CurrentInstitution: s.CurrentInstitution,
		InstallmentAmount:  installmentAmount,
		OutstandingBalance: balance,
		TotalValue:         total,
		RatePercent:        rate,
	}, nil
}

func amountRule(field, key, label string, value decimal.Decimal, parseErr error, max decimal.Decimal) validator.Rule {
	return validator.Chain(
		validator.Parsed(field, parseErr).
			WithMessage(key+amountKeyInvalidSuffix, label+" inválido"),
		validator.PositiveDecimal(field, value).
			WithMessage(key+amountKeyNotPositiveSuffix, label+" deve ser maior que zero"),
		validator.MaxDecimal(field, value, max).
			WithMessage(key+amountKeyTooLargeSuffix, fmt.Sprintf("%s deve ser no máximo %s", label, max.StringFixed(2))),
	)
}
