// Package consultation is the web front of the portability engine.
//
// Service mounts the consultation page, the consultation API, the CSV
// export and the rules summary on a chi router:
//
//	tr, _ := consultation.NewTranslator(ctx, i18n.DefaultLanguage)
//	svc := consultation.NewService(core, tr, consultation.WithLogger(log))
//	r.Mount("/", svc.Handle())
//
// POST /consultar answers JSON clients with the handler envelope
// ({"data": {"error": false, "results": [...], "total_institutions": n}}),
// browser form posts with the full page and DataStar requests with a patch
// of the #results fragment. Invalid submissions get 422 and the validation
// messages in the request language (pt-BR by default, en).
//
// Views default to the embedded HTML templates and can be replaced with
// WithViews.
package consultation
