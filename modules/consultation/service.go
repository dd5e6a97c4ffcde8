package consultation

import (
	"context"
	"log/slog"
	"net/http"
	"slices"
	"strings"
	"time"

	"github.com/a-h/templ"
	"github.com/go-chi/chi/v5"

	"github.com/dmitrymomot/portability/handler"
	"github.com/dmitrymomot/portability/pkg/binder"
	"github.com/dmitrymomot/portability/pkg/i18n"
	"github.com/dmitrymomot/portability/pkg/logger"
	"github.com/dmitrymomot/portability/pkg/sanitizer"
	"github.com/dmitrymomot/portability/pkg/validator"
	"github.com/dmitrymomot/portability/svc/portability"
)

// ExportPrefix starts every CSV export file name.
const ExportPrefix = "portabilidade_inss_"

// ExportHeader is the first row of every CSV export.
var ExportHeader = []string{"institution", "operation_type", "applicable_rate", "notes"}

// Service serves the consultation pages and API.
type Service struct {
	core         *portability.Service
	tr           *i18n.Translator
	views        *Views
	errorHandler handler.ErrorHandler
	log          *slog.Logger
	now          func() time.Time
}

// Option configures Service.
type Option func(*Service)

// WithViews replaces the embedded HTML views.
func WithViews(v *Views) Option {
	return func(s *Service) {
		s.views = v.withDefaults()
	}
}

// WithErrorHandler sets the handler for bind and render failures.
func WithErrorHandler(h handler.ErrorHandler) Option {
	return func(s *Service) {
		if h != nil {
			s.errorHandler = h
		}
	}
}

func WithLogger(l *slog.Logger) Option {
	return func(s *Service) {
		if l != nil {
			s.log = l
		}
	}
}

// WithClock sets the clock used for export file names.
func WithClock(now func() time.Time) Option {
	return func(s *Service) {
		if now != nil {
			s.now = now
		}
	}
}

func NewService(core *portability.Service, tr *i18n.Translator, opts ...Option) *Service {
	s := &Service{
		core:  core,
		tr:    tr,
		views: DefaultViews(),
		log:   slog.New(slog.DiscardHandler),
		now:   time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	if s.errorHandler == nil {
		s.errorHandler = handler.NewErrorHandler(s.log, handler.ErrorHandlerConfig{
			ErrorPage:  ErrorPage(tr),
			ErrorToast: ErrorToast,
			Translate:  TranslateError(tr),
		})
	}
	s.log = s.log.With(logger.Component("consultation"))
	return s
}

// Handle mounts the module routes:
//
//	GET  /                 consultation page
//	POST /consultar        evaluate a submission (JSON, HTML or DataStar patch)
//	POST /consultar/export evaluate a submission and download the results as CSV
//	GET  /regras           active rules
func (s *Service) Handle() http.Handler {
	r := chi.NewRouter()

	r.Get("/", handler.Wrap(s.index,
		handler.WithErrorHandler(s.errorHandler),
	))
	r.Post("/consultar", handler.Wrap(s.consult,
		handler.WithBinders(binder.Body()),
		handler.WithErrorHandler(s.errorHandler),
	))
	r.Post("/consultar/export", handler.Wrap(s.export,
		handler.WithBinders(binder.Body()),
		handler.WithErrorHandler(s.errorHandler),
	))
	r.Get("/regras", handler.Wrap(s.rules,
		handler.WithErrorHandler(s.errorHandler),
	))

	r.NotFound(handler.Wrap(func(handler.Context, struct{}) handler.Response {
		return handler.Fail(handler.ErrNotFound)
	}, handler.WithErrorHandler(s.errorHandler)))
	r.MethodNotAllowed(handler.Wrap(func(handler.Context, struct{}) handler.Response {
		return handler.Fail(handler.ErrMethodNotAllowed)
	}, handler.WithErrorHandler(s.errorHandler)))

	return r
}

func (s *Service) presenter(ctx handler.Context) presenter {
	return presenter{tr: s.tr, lang: i18n.Locale(ctx)}
}

func (s *Service) index(ctx handler.Context, _ struct{}) handler.Response {
	return handler.Templ(s.page(ctx, portability.Submission{}, ResultsParams{}))
}

func (s *Service) consult(ctx handler.Context, req portability.Submission) handler.Response {
	p := s.presenter(ctx)

	c, err := s.core.Consult(ctx, req)
	if err != nil {
		return s.rejected(ctx, p, req, err)
	}

	success := p.success(c)
	if !wantsHTML(ctx.Request()) {
		return handler.JSON(success, handler.WithJSONMeta(map[string]any{
			"rules_revision": c.Revision,
		}))
	}
	return s.fragment(ctx, req, ResultsParams{
		T:         p.t(),
		Submitted: true,
		Results:   success.Results,
		Total:     success.TotalInstitutions,
	})
}

// rejected answers a failed consultation: 422 with translated messages for
// invalid input, the error handler for anything else.
func (s *Service) rejected(ctx handler.Context, p presenter, req portability.Submission, err error) handler.Response {
	if !validator.IsValidationError(err) {
		return handler.Fail(err)
	}

	failure := Failure{Error: true, Messages: p.messages(validator.ExtractValidationErrors(err))}
	if !wantsHTML(ctx.Request()) {
		return handler.JSON(failure, handler.WithJSONStatus(http.StatusUnprocessableEntity))
	}
	return s.fragment(ctx, req, ResultsParams{T: p.t(), Messages: failure.Messages}).
		WithStatus(http.StatusUnprocessableEntity)
}

func (s *Service) export(ctx handler.Context, req portability.Submission) handler.Response {
	p := s.presenter(ctx)

	c, err := s.core.Consult(ctx, req)
	if err != nil {
		return s.rejected(ctx, p, req, err)
	}

	results := p.results(c.Results)
	rows := make([][]string, 0, len(results))
	for i, r := range results {
		rows = append(rows, []string{
			sanitizer.PreventCSVInjection(r.Institution),
			sanitizer.PreventCSVInjection(r.OperationType),
			c.Results[i].ApplicableRate.StringFixedBank(2),
			sanitizer.PreventCSVInjection(r.Notes),
		})
	}

	filename := ExportPrefix + s.now().Format("20060102_150405") + ".csv"
	s.log.InfoContext(ctx, "consultation exported",
		logger.Event("consultation.exported"),
		slog.String("filename", filename),
		slog.Int("rows", len(rows)),
	)
	return handler.CSV(filename, ExportHeader, rows)
}

func (s *Service) rules(ctx handler.Context, _ struct{}) handler.Response {
	return handler.JSON(RulesSummary{
		Revision: s.core.Revision(),
		Rules:    s.core.Rules(),
	})
}

// fragment patches #results for DataStar and renders the whole page otherwise.
func (s *Service) fragment(ctx handler.Context, form portability.Submission, results ResultsParams) handler.TemplResponse {
	return handler.TemplPartial(
		s.views.Results(results),
		s.page(ctx, form, results),
		handler.WithTarget("#results"),
	)
}

func (s *Service) page(ctx handler.Context, form portability.Submission, results ResultsParams) templ.Component {
	p := s.presenter(ctx)
	if results.T == nil {
		results.T = p.t()
	}
	return s.views.Page(PageParams{
		Lang:         p.lang,
		T:            p.t(),
		Institutions: institutions(s.core.Rules()),
		Form:         form.Sanitize(),
		Results:      results,
	})
}

// institutions lists catalog names once each, in catalog order.
func institutions(r portability.Rules) []string {
	var out []string
	for _, name := range r.Names() {
		if !slices.Contains(out, name) {
			out = append(out, name)
		}
	}
	return out
}

// wantsHTML reports whether the client expects markup instead of the JSON
// envelope: DataStar requests and browser form posts.
func wantsHTML(r *http.Request) bool {
	if handler.IsDataStar(r) {
		return true
	}
	return strings.Contains(r.Header.Get("Accept"), "text/html")
}

func (p presenter) t() Translate {
	return translateFunc(p.tr, p.lang)
}

// TranslateError resolves HTTPError keys under the "errors." prefix.
func TranslateError(tr *i18n.Translator) func(ctx context.Context, key string) string {
	return func(ctx context.Context, key string) string {
		return tr.Tc(ctx, "errors."+key)
	}
}
