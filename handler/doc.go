// Package handler provides typed HTTP handlers and the responses they return.
//
// A HandlerFunc receives a Context and a request value already bound by the
// configured binders, and returns a Response:
//
//	func consult(ctx handler.Context, req portability.Submission) handler.Response {
//		c, err := svc.Consult(ctx, req)
//		if err != nil {
//			return handler.JSONError(err)
//		}
//		return handler.JSON(c)
//	}
//
//	r.Post("/consultar", handler.Wrap(consult,
//		handler.WithBinders(binder.Body()),
//		handler.WithErrorHandler(errorHandler),
//	))
//
// # Responses
//
//   - JSON and JSONError write the {"data", "meta", "error"} envelope.
//   - Templ and TemplPartial render templ components. DataStar requests get
//     an SSE element patch; other requests get the full HTML document.
//   - CSV writes a CSV attachment.
//
// # Errors
//
// Binder, handler and render errors go to the ErrorHandler. NewErrorHandler
// classifies them (validation errors as 422, HTTPError by its code, binder
// errors as 400 or 415, anything else as 500), logs them with the request ID
// and picks the representation that fits the client.
package handler
