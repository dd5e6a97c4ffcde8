package consultation

import (
	"context"
	"embed"
	"html/template"
	"io"

	"github.com/a-h/templ"

	"github.com/dmitrymomot/portability/handler"
	"github.com/dmitrymomot/portability/pkg/i18n"
	"github.com/dmitrymomot/portability/svc/portability"
)

//go:embed templates/*.html
var templatesFS embed.FS

var templates = template.Must(template.ParseFS(templatesFS, "templates/*.html"))

// Translate resolves a message key for the current request language.
type Translate func(key string, args ...any) string

// PageParams contains data for rendering the consultation page.
type PageParams struct {
	Lang         string
	T            Translate
	Institutions []string
	Form         portability.Submission
	Results      ResultsParams
}

// ResultsParams contains data for rendering the #results fragment.
type ResultsParams struct {
	T         Translate
	Submitted bool
	Messages  []string
	Results   []Result
	Total     int
}

// Views renders the module pages. Any nil view falls back to the default.
type Views struct {
	Page    func(PageParams) templ.Component
	Results func(ResultsParams) templ.Component
}

// DefaultViews renders the embedded HTML templates.
func DefaultViews() *Views {
	return &Views{
		Page: func(p PageParams) templ.Component {
			return view("page", p)
		},
		Results: func(p ResultsParams) templ.Component {
			return view("results", p)
		},
	}
}

func (v *Views) withDefaults() *Views {
	d := DefaultViews()
	if v == nil {
		return d
	}
	out := *v
	if out.Page == nil {
		out.Page = d.Page
	}
	if out.Results == nil {
		out.Results = d.Results
	}
	return &out
}

func view(name string, data any) templ.Component {
	return templ.FromGoHTML(templates.Lookup(name), data)
}

type errorPageData struct {
	handler.ErrorPageParams
	Lang string
	T    Translate
}

// ErrorPage renders the full error page in the request language.
func ErrorPage(tr *i18n.Translator) func(handler.ErrorPageParams) templ.Component {
	return func(p handler.ErrorPageParams) templ.Component {
		return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
			lang := i18n.Locale(ctx)
			return view("error", errorPageData{
				ErrorPageParams: p,
				Lang:            lang,
				T:               translateFunc(tr, lang),
			}).Render(ctx, w)
		})
	}
}

// ErrorToast renders the DataStar error toast.
func ErrorToast(p handler.ErrorToastParams) templ.Component {
	return view("toast", p)
}

func translateFunc(tr *i18n.Translator, lang string) Translate {
	return func(key string, args ...any) string {
		return tr.T(lang, key, args...)
	}
}
