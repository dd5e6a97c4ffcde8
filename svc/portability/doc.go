// Package portability decides which lending institutions can take over an
// INSS payroll-deducted loan ("portabilidade de consignado").
//
// The package has two pure building blocks and a service around them:
//
//   - Parse turns a raw Submission (form values as typed by the user) into a
//     typed Applicant, or returns validator.ValidationErrors listing every
//     invalid field.
//   - Evaluate runs an Applicant through the Rules and returns the eligible
//     institutions in catalog order, each with the operation type, the
//     applicable rate and annotations.
//   - Service combines both behind an atomically swappable Rules snapshot,
//     with an optional result cache, structured logging and metrics.
//
// # Rules
//
// Rules hold the institution catalog (one explicit Policy per entry; names
// may repeat and are evaluated once per occurrence), a blocklist and global
// Thresholds. The default table is embedded as YAML and can be replaced at
// runtime with a FileSource:
//
//	svc, err := portability.NewService(portability.MustDefaultRules(),
//	    portability.WithLogger(log),
//	    portability.WithResultCache(1000, 5*time.Minute),
//	)
//	...
//	err = svc.Reload(ctx, portability.FileSource("/etc/portability/rules.yaml"))
//
// # Evaluation gates
//
// For every catalog entry, in order: blocklist, maximum age, minimum paid
// installments (6 for disability benefits regardless of the institution),
// disability acceptance, minimum outstanding balance, minimum change. The
// first failing gate drops the entry without reporting a reason.
//
// The applicable rate is the lower of the institution standard rate and the
// applicant current rate plus Thresholds.RateImprovementCap.
package portability
