package portability

import (
	"context"
	"errors"
	"log/slog"
	"slices"
	"strconv"
	"sync/atomic"
	"time"

	"github.com/dmitrymomot/portability/pkg/cache"
	"github.com/dmitrymomot/portability/pkg/logger"
	"github.com/dmitrymomot/portability/pkg/validator"
)

// Outcome classifies a finished consultation for metrics.
type Outcome string

const (
	OutcomeInvalid    Outcome = "invalid"
	OutcomeEligible   Outcome = "eligible"
	OutcomeIneligible Outcome = "ineligible"
)

// Recorder receives consultation and reload measurements.
type Recorder interface {
	ObserveConsultation(outcome Outcome, eligible int, d time.Duration)
	ObserveReload(err error)
}

type noopRecorder struct{}

func (noopRecorder) ObserveConsultation(Outcome, int, time.Duration) {}
func (noopRecorder) ObserveReload(error)                             {}

// Consultation is the outcome of a valid submission.
type Consultation struct {
	Applicant Applicant
	Results   []Result
	Revision  uint64
	Cached    bool
}

// Count is the number of eligible institutions.
func (c Consultation) Count() int {
	return len(c.Results)
}

type snapshot struct {
	rules    Rules
	revision uint64
}

// Service evaluates submissions against the active rules.
// Rules are swapped atomically on Reload; a consultation always sees a
// single complete snapshot.
type Service struct {
	state     atomic.Pointer[snapshot]
	results   *cache.LRUCache[string, []Result]
	recorder  Recorder
	logger    *slog.Logger
	parseOpts []ParseOption
}

// ServiceOption configures the Service.
type ServiceOption func(*Service)

func WithLogger(l *slog.Logger) ServiceOption {
	return func(s *Service) {
		if l != nil {
			s.logger = l
		}
	}
}

// WithResultCache memoizes evaluation results per applicant profile.
// A non-positive size disables the cache.
func WithResultCache(size int, ttl time.Duration) ServiceOption {
	return func(s *Service) {
		if size <= 0 {
			s.results = nil
			return
		}
		s.results = cache.NewLRUCache[string, []Result](size, cache.WithTTL(ttl))
	}
}

func WithRecorder(r Recorder) ServiceOption {
	return func(s *Service) {
		if r != nil {
			s.recorder = r
		}
	}
}

func WithParseOptions(opts ...ParseOption) ServiceOption {
	return func(s *Service) {
		s.parseOpts = append(s.parseOpts, opts...)
	}
}

// NewService validates the rules and returns a ready Service.
func NewService(rules Rules, opts ...ServiceOption) (*Service, error) {
	if err := rules.Validate(); err != nil {
		return nil, err
	}

	s := &Service{
		recorder: noopRecorder{},
		logger:   slog.New(slog.DiscardHandler),
	}
	for _, opt := range opts {
		opt(s)
	}
	s.logger = s.logger.With(logger.Component("portability"))
	s.state.Store(&snapshot{rules: rules.Clone(), revision: 1})

	return s, nil
}

// Rules returns a copy of the active rules.
func (s *Service) Rules() Rules {
	return s.state.Load().rules.Clone()
}

// Revision increases by one on every successful reload.
func (s *Service) Revision() uint64 {
	return s.state.Load().revision
}

// Consult parses the submission and evaluates it against the active rules.
// Invalid input yields validator.ValidationErrors.
func (s *Service) Consult(ctx context.Context, sub Submission) (Consultation, error) {
	start := time.Now()

	applicant, err := Parse(sub, s.parseOpts...)
	if err != nil {
		s.recorder.ObserveConsultation(OutcomeInvalid, 0, time.Since(start))
		if errs := validator.ExtractValidationErrors(err); errs != nil {
			s.logger.DebugContext(ctx, "submission rejected",
				logger.Event("consultation.invalid"),
				slog.Any("fields", errs.Fields()),
			)
		}
		return Consultation{}, err
	}

	snap := s.state.Load()
	results, cached := s.evaluate(applicant, snap)

	outcome := OutcomeEligible
	if len(results) == 0 {
		outcome = OutcomeIneligible
	}
	d := time.Since(start)
	s.recorder.ObserveConsultation(outcome, len(results), d)
	s.logger.InfoContext(ctx, "consultation evaluated",
		logger.Event("consultation.evaluated"),
		slog.String("national_id", applicant.MaskedNationalID()),
		slog.String("benefit", applicant.Benefit.String()),
		slog.Int("eligible", len(results)),
		slog.Bool("cached", cached),
		slog.Uint64("rules_revision", snap.revision),
		logger.Duration(d),
	)

	return Consultation{
		Applicant: applicant,
		Results:   results,
		Revision:  snap.revision,
		Cached:    cached,
	}, nil
}

func (s *Service) evaluate(a Applicant, snap *snapshot) ([]Result, bool) {
	if s.results == nil {
		return Evaluate(a, snap.rules), false
	}

	key := strconv.FormatUint(snap.revision, 10) + "|" + a.fingerprint()
	if results, ok := s.results.Get(key); ok {
		return slices.Clone(results), true
	}

	results := Evaluate(a, snap.rules)
	s.results.Put(key, slices.Clone(results))
	return results, false
}

// Reload loads rules from src and swaps them in. On failure the active rules
// are kept.
func (s *Service) Reload(ctx context.Context, src PolicySource) error {
	if src == nil {
		return ErrNilSource
	}

	rules, err := src.Load(ctx)
	if err == nil {
		err = rules.Validate()
	}
	s.recorder.ObserveReload(err)
	if err != nil {
		s.logger.ErrorContext(ctx, "rules reload failed",
			logger.Event("rules.reload_failed"),
			logger.Error(err),
		)
		return errors.Join(ErrLoadRules, err)
	}

	for {
		cur := s.state.Load()
		next := &snapshot{rules: rules.Clone(), revision: cur.revision + 1}
		if s.state.CompareAndSwap(cur, next) {
			if s.results != nil {
				s.results.Clear()
			}
			s.logger.InfoContext(ctx, "rules reloaded",
				logger.Event("rules.reloaded"),
				slog.Uint64("rules_revision", next.revision),
				slog.Int("catalog_size", len(rules.Catalog)),
			)
			return nil
		}
	}
}
