package portability

import (
	"strings"

	"github.com/shopspring/decimal"
)

// Operation is the kind of deal an institution can offer.
type Operation string

const (
	OperationPortability          Operation = "portability"
	OperationPortabilityRefinance Operation = "portability_refinance"
)

// NoteKind tags an annotation attached to a result.
type NoteKind string

const (
	NoteDisability      NoteKind = "disability_benefit"
	NoteRefinance       NoteKind = "refinance_amount"
	NotePositiveHistory NoteKind = "positive_payment_history"
	NoteRequirementsMet NoteKind = "requirements_met"
)

// Note is a typed annotation. Amount is set for NoteRefinance only.
type Note struct {
	Kind   NoteKind
	Amount decimal.Decimal
}

// Result describes one eligible catalog entry.
type Result struct {
	Institution    string
	Operation      Operation
	ApplicableRate decimal.Decimal
	Change         decimal.Decimal
	Notes          []Note
}

// NoteFormatter renders a single note.
type NoteFormatter func(Note) string

// NotesText joins the rendered notes with "; ".
func (r Result) NotesText(format NoteFormatter) string {
	parts := make([]string, 0, len(r.Notes))
	for _, n := range r.Notes {
		parts = append(parts, format(n))
	}
	return strings.Join(parts, "; ")
}

// Evaluate lists the catalog entries the applicant is eligible for, in
// catalog order. Gates run in order and the first failing gate drops the
// entry silently: blocklist, age, minimum installments, disability
// acceptance, minimum balance, minimum change.
func Evaluate(a Applicant, r Rules) []Result {
	t := r.Thresholds
	change := a.Change()
	disability := a.IsDisability()

	results := make([]Result, 0, len(r.Catalog))
	for _, p := range r.Catalog {
		if r.Blocked(p.Name) {
			continue
		}
		if a.Age > p.MaxAge {
			continue
		}

		minInstallments := p.MinInstallmentsPaid
		if disability {
			minInstallments = t.DisabilityMinInstallments
		}
		if a.InstallmentsPaid < minInstallments {
			continue
		}

		if disability && !p.AcceptsDisabilityBenefit {
			continue
		}
		if a.OutstandingBalance.LessThan(t.MinOutstandingBalance) {
			continue
		}
		if change.LessThan(t.MinChange) {
			continue
		}

		results = append(results, Result{
			Institution:    p.Name,
			Operation:      operationFor(change),
			ApplicableRate: decimal.Min(p.StandardRatePercent, a.RatePercent.Add(t.RateImprovementCap)),
			Change:         change,
			Notes:          notesFor(a, change, minInstallments, t),
		})
	}

	return results
}

// operationFor never yields OperationPortability while MinChange is
// positive; the branch is kept for thresholds that allow it.
func operationFor(change decimal.Decimal) Operation {
	if change.IsPositive() {
		return OperationPortabilityRefinance
	}
	return OperationPortability
}

func notesFor(a Applicant, change decimal.Decimal, minInstallments int, t Thresholds) []Note {
	var notes []Note
	if a.IsDisability() {
		notes = append(notes, Note{Kind: NoteDisability})
	}
	if change.IsPositive() {
		notes = append(notes, Note{Kind: NoteRefinance, Amount: change})
	}
	if a.InstallmentsPaid >= minInstallments+t.PositiveHistoryMargin {
		notes = append(notes, Note{Kind: NotePositiveHistory})
	}
	if len(notes) == 0 {
		notes = append(notes, Note{Kind: NoteRequirementsMet})
	}
	return notes
}
