// Package requestid attaches a correlation id to every HTTP request.
//
// Middleware honours a client supplied X-Request-ID when it is made of
// letters, digits, '-' and '_' (at most 128 characters) and otherwise
// generates a UUIDv7. The id is echoed in the response header and stored in
// the request context; LoggerExtractor makes it appear on every log record:
//
//	log := logger.New(logger.WithContextExtractors(requestid.LoggerExtractor()))
package requestid
