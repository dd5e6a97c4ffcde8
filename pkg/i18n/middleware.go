package i18n

import (
	"context"
	"net/http"
)

// QueryParam overrides Accept-Language when present.
const QueryParam = "lang"

// maxHeaderLength bounds the Accept-Language header we are willing to parse.
const maxHeaderLength = 1024

type localeKey struct{}

func WithLocale(ctx context.Context, lang string) context.Context {
	return context.WithValue(ctx, localeKey{}, lang)
}

// Locale returns the request language, or DefaultLanguage outside the
// middleware.
func Locale(ctx context.Context) string {
	if lang, ok := ctx.Value(localeKey{}).(string); ok && lang != "" {
		return lang
	}
	return DefaultLanguage
}

// Middleware negotiates the request language from ?lang= and then the
// Accept-Language header and stores it in the context. It also sets
// Content-Language on the response.
func Middleware(t *Translator) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			accept := r.Header.Get("Accept-Language")
			if len(accept) > maxHeaderLength {
				accept = ""
			}
			lang := t.Match(r.URL.Query().Get(QueryParam), accept)
			w.Header().Set("Content-Language", lang)
			next.ServeHTTP(w, r.WithContext(WithLocale(r.Context(), lang)))
		})
	}
}

// Tc translates using the locale stored in ctx.
func (t *Translator) Tc(ctx context.Context, key string, args ...any) string {
	return t.T(Locale(ctx), key, args...)
}
