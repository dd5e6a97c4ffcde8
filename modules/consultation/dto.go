package consultation

import (
	"github.com/dmitrymomot/portability/pkg/i18n"
	"github.com/dmitrymomot/portability/pkg/validator"
	"github.com/dmitrymomot/portability/svc/portability"
)

// Result is one eligible institution as presented to clients.
type Result struct {
	Institution    string  `json:"institution"`
	OperationType  string  `json:"operation_type"`
	ApplicableRate float64 `json:"applicable_rate"`
	Notes          string  `json:"notes"`
}

// Success is the body of an evaluated consultation.
type Success struct {
	Error             bool     `json:"error"`
	Results           []Result `json:"results"`
	TotalInstitutions int      `json:"total_institutions"`
}

// Failure is the body of a rejected submission.
type Failure struct {
	Error    bool     `json:"error"`
	Messages []string `json:"messages"`
}

// RulesSummary is the body of GET /regras.
type RulesSummary struct {
	Revision uint64            `json:"revision"`
	Rules    portability.Rules `json:"rules"`
}

// presenter renders core values in one language.
type presenter struct {
	tr   *i18n.Translator
	lang string
}

func (p presenter) note(n portability.Note) string {
	if n.Kind == portability.NoteRefinance {
		return p.tr.T(p.lang, "note."+string(n.Kind), "amount", n.FormattedAmount())
	}
	return p.tr.T(p.lang, "note."+string(n.Kind))
}

func (p presenter) operation(o portability.Operation) string {
	return p.tr.T(p.lang, "operation."+string(o))
}

func (p presenter) results(rs []portability.Result) []Result {
	out := make([]Result, 0, len(rs))
	for _, r := range rs {
		out = append(out, Result{
			Institution:    r.Institution,
			OperationType:  p.operation(r.Operation),
			ApplicableRate: r.ApplicableRate.RoundBank(2).InexactFloat64(), // half to even, like note amounts
			Notes:          r.NotesText(p.note),
		})
	}
	return out
}

func (p presenter) success(c portability.Consultation) Success {
	return Success{
		Error:             false,
		Results:           p.results(c.Results),
		TotalInstitutions: c.Count(),
	}
}

// messages translates validation errors in order. Keys missing from the
// catalog keep the message produced by the validator.
func (p presenter) messages(errs validator.ValidationErrors) []string {
	out := make([]string, 0, len(errs))
	for _, e := range errs {
		msg := p.tr.Tm(p.lang, e.TranslationKey, e.TranslationValues)
		if e.TranslationKey == "" || msg == e.TranslationKey {
			msg = e.Message
		}
		out = append(out, msg)
	}
	return out
}
