package handler

import (
	"net/http"

	"github.com/a-h/templ"
	"github.com/starfederation/datastar-go/datastar"
)

// TemplOption is an alias for datastar's PatchElementOption.
type TemplOption = datastar.PatchElementOption

// WithTarget sets the selector the fragment is patched into.
func WithTarget(selector string) TemplOption {
	return datastar.WithSelector(selector)
}

// WithPatchMode sets how the fragment is merged into the DOM.
func WithPatchMode(mode datastar.ElementPatchMode) TemplOption {
	return datastar.WithMode(mode)
}

// TemplResponse renders a templ component as a DataStar element patch or
// as a plain HTML document.
type TemplResponse struct {
	partial templ.Component
	full    templ.Component
	status  int
	options []datastar.PatchElementOption
}

// Templ renders the same component for DataStar and regular requests.
//
//	return handler.Templ(views.Results(results), handler.WithTarget("#results"))
func Templ(component templ.Component, opts ...TemplOption) TemplResponse {
	return TemplResponse{partial: component, full: component, options: opts}
}

// TemplPartial renders partial for DataStar requests and full otherwise.
//
//	return handler.TemplPartial(
//		views.Results(results),
//		views.Page(form, results),
//		handler.WithTarget("#results"),
//	)
func TemplPartial(partial, full templ.Component, opts ...TemplOption) TemplResponse {
	return TemplResponse{partial: partial, full: full, options: opts}
}

// WithStatus sets the status code of the HTML response.
// DataStar patches are always sent with 200.
func (t TemplResponse) WithStatus(status int) TemplResponse {
	t.status = status
	return t
}

func (t TemplResponse) Render(w http.ResponseWriter, r *http.Request) error {
	if IsDataStar(r) {
		sse := datastar.NewSSE(w, r)
		return sse.PatchElementTempl(t.partial, t.options...)
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if t.status != 0 {
		w.WriteHeader(t.status)
	}
	return t.full.Render(r.Context(), w)
}
