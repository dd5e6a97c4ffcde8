// Package logger builds log/slog loggers for the service and provides a few
// attribute helpers so field names stay consistent across packages.
//
// Loggers are usually created from environment configuration:
//
//	var cfg logger.Config
//	opts, err := cfg.Options()
//	log := logger.New(append(opts,
//	    logger.WithContextExtractors(requestid.LoggerExtractor()),
//	)...)
//
// Context extractors run on every *Context call (InfoContext, ErrorContext,
// LogAttrs) and attach request-scoped values such as the request id.
//
// Middleware writes one record per HTTP request with method, path, status,
// response size and duration.
package logger
