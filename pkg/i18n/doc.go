// Package i18n loads YAML message catalogs and negotiates the request
// language.
//
// Catalog files have language codes as top-level keys and nested message
// maps below them; keys are addressed with dots. Messages may contain named
// placeholders written as %{name}.
//
//	cat, err := i18n.LoadFS(ctx, translations, "translations")
//	tr, err := i18n.NewTranslator(cat, i18n.DefaultLanguage)
//	r.Use(i18n.Middleware(tr))
//	...
//	msg := tr.Tc(r.Context(), "portability.age.range", "min", 18, "max", 120)
//
// Language negotiation uses golang.org/x/text/language, so "pt", "pt-PT"
// and "pt-br" all resolve to the pt-BR catalog.
package i18n
