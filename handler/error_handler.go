package handler

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"strings"

	"github.com/a-h/templ"
	"github.com/starfederation/datastar-go/datastar"

	"github.com/dmitrymomot/portability/pkg/binder"
	"github.com/dmitrymomot/portability/pkg/environment"
	"github.com/dmitrymomot/portability/pkg/logger"
	"github.com/dmitrymomot/portability/pkg/requestid"
	"github.com/dmitrymomot/portability/pkg/validator"
)

// ErrorPageParams contains data for rendering error pages.
type ErrorPageParams struct {
	Error      string
	StatusCode int
	RequestID  string
	RetryURL   string
}

// ErrorToastParams contains data for rendering error toasts.
type ErrorToastParams struct {
	Message   string
	Type      string // "error", "warning"
	RequestID string
}

// ErrorHandlerConfig configures NewErrorHandler.
type ErrorHandlerConfig struct {
	// ErrorPage renders the full page for regular HTML requests.
	ErrorPage func(ErrorPageParams) templ.Component

	// ErrorToast renders the toast for DataStar requests.
	ErrorToast func(ErrorToastParams) templ.Component

	// ToastTarget defaults to "#toast-container".
	ToastTarget string

	// ToastMode defaults to PatchPrepend.
	ToastMode datastar.ElementPatchMode

	// Translate resolves HTTPError keys for the request locale.
	// Without it the key is shown as is.
	Translate func(ctx context.Context, key string) string
}

// ErrorInfo is the classified form of an error.
type ErrorInfo struct {
	StatusCode int
	Key        string
	Message    string
	Type       string
	LogLevel   slog.Level
}

// AsHTTPError maps err to an HTTPError. Binder failures become 400 or 415,
// oversized bodies 413. The boolean is false for unclassified errors.
func AsHTTPError(err error) (HTTPError, bool) {
	var httpErr HTTPError
	if errors.As(err, &httpErr) {
		return httpErr, true
	}

	var maxBytes *http.MaxBytesError
	switch {
	case errors.As(err, &maxBytes):
		return ErrRequestTooLarge.Wrap(err), true
	case errors.Is(err, binder.ErrUnsupportedMediaType), errors.Is(err, binder.ErrMissingContentType):
		return ErrUnsupportedMediaType.Wrap(err), true
	case errors.Is(err, binder.ErrInvalidForm), errors.Is(err, binder.ErrInvalidJSON):
		return ErrBadRequest.Wrap(err), true
	}
	return HTTPError{}, false
}

func classifyError(err error) ErrorInfo {
	info := ErrorInfo{
		StatusCode: http.StatusInternalServerError,
		Key:        ErrInternalServerError.Key,
		Message:    ErrInternalServerError.Key,
	}

	if errs := validator.ExtractValidationErrors(err); errs != nil {
		info.StatusCode = http.StatusUnprocessableEntity
		info.Key = ErrUnprocessableEntity.Key
		info.Message = strings.Join(errs.Messages(), "; ")
	} else if httpErr, ok := AsHTTPError(err); ok {
		info.StatusCode = httpErr.Code
		info.Key = httpErr.Key
		info.Message = httpErr.Key
	}

	if info.StatusCode >= http.StatusInternalServerError {
		info.Type = "error"
		info.LogLevel = slog.LevelError
	} else {
		info.Type = "warning"
		info.LogLevel = slog.LevelWarn
	}
	return info
}

// NewErrorHandler returns an ErrorHandler that logs the error with the
// request ID and answers with a toast patch for DataStar, the JSON envelope
// for JSON clients, or an HTML error page.
// Internal error details are only rendered in development.
func NewErrorHandler(log *slog.Logger, cfg ErrorHandlerConfig) ErrorHandler {
	if log == nil {
		log = slog.Default()
	}
	if cfg.ToastTarget == "" {
		cfg.ToastTarget = "#toast-container"
	}
	if cfg.ToastMode == "" {
		cfg.ToastMode = PatchPrepend
	}

	return func(ctx Context, err error) {
		r := ctx.Request()
		rid := requestid.FromContext(r.Context())
		info := classifyError(err)

		if info.Message == info.Key && cfg.Translate != nil {
			info.Message = cfg.Translate(r.Context(), info.Key)
		}
		if info.StatusCode >= http.StatusInternalServerError && environment.FromContext(r.Context()).IsDevelopment() {
			info.Message = err.Error()
		}

		log.LogAttrs(r.Context(), info.LogLevel, "request error",
			logger.RequestID(rid),
			logger.Error(err),
			logger.HTTPStatus(info.StatusCode),
			slog.String("method", r.Method),
			slog.String("path", r.URL.Path),
			slog.Bool("datastar", IsDataStar(r)),
			logger.Component("error_handler"),
		)

		var resp Response
		switch {
		case IsDataStar(r) && cfg.ErrorToast != nil:
			resp = Templ(cfg.ErrorToast(ErrorToastParams{
				Message:   info.Message,
				Type:      info.Type,
				RequestID: rid,
			}), WithTarget(cfg.ToastTarget), WithPatchMode(cfg.ToastMode))
		case WantsJSON(r):
			resp = jsonResponse{
				status: info.StatusCode,
				body: JSONResponse{Error: &ErrorDetail{
					Code:    info.Key,
					Message: info.Message,
					Details: validationDetails(err),
				}},
			}
		case cfg.ErrorPage != nil:
			resp = Templ(cfg.ErrorPage(ErrorPageParams{
				Error:      info.Message,
				StatusCode: info.StatusCode,
				RequestID:  rid,
				RetryURL:   r.URL.Path,
			})).WithStatus(info.StatusCode)
		default:
			http.Error(ctx.ResponseWriter(), info.Message, info.StatusCode)
			return
		}

		if renderErr := resp.Render(ctx.ResponseWriter(), r); renderErr != nil {
			log.Error("failed to render error response",
				logger.RequestID(rid),
				logger.Error(renderErr),
				logger.Event("render_error"),
			)
		}
	}
}

func validationDetails(err error) map[string][]string {
	errs := validator.ExtractValidationErrors(err)
	if len(errs) == 0 {
		return nil
	}
	details := make(map[string][]string, len(errs))
	for _, e := range errs {
		details[e.Field] = append(details[e.Field], e.Message)
	}
	return details
}
