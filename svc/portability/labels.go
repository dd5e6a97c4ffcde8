package portability

// Portuguese labels shown to applicants when no translator is configured.

func (o Operation) String() string {
	if o == OperationPortabilityRefinance {
		return "Port+Refin"
	}
	return "Portabilidade"
}

func (n Note) String() string {
	switch n.Kind {
	case NoteDisability:
		return "Benefício por invalidez"
	case NoteRefinance:
		return "Refinanciamento de R$ " + n.FormattedAmount()
	case NotePositiveHistory:
		return "Cliente com histórico positivo"
	default:
		return "Regras atendidas"
	}
}

// FormattedAmount renders the note amount with two decimals, rounding half to even.
func (n Note) FormattedAmount() string {
	return n.Amount.StringFixedBank(2)
}
