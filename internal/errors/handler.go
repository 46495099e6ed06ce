package errors

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"runtime"
	"runtime/debug"
	"strings"
)

// Problem type URIs
const (
	TypeValidation       = "/errors/validation"
	TypeNotFound         = "/errors/not-found"
	TypeRateLimit        = "/errors/rate-limit"
	TypeInternal         = "/errors/internal"
	TypeServiceDown      = "/errors/service-unavailable"
	TypeTimeout          = "/errors/timeout"
	TypePayloadTooLarge  = "/errors/payload-too-large"
	TypeUnsupportedMedia = "/errors/unsupported-media-type"
	TypeMethodNotAllowed = "/errors/method-not-allowed"

	TypeNoData         = "/errors/data/not-available"
	TypeParsing        = "/errors/document/unreadable"
	TypeExport         = "/errors/export/failed"
	TypeSource         = "/errors/source/unavailable"
	TypeConfig         = "/errors/config"
	TypeStorage        = "/errors/storage"
	TypeAppValidation  = "/errors/validation/document"
	TypeAppNotFound    = "/errors/data/not-found"
	TypeUnknownAppType = "/errors/application"
)

const genericDetail = "An unexpected error occurred while processing your request"

// codeProblemTypes maps APIError codes to problem types; unlisted codes are
// TypeInternal.
var codeProblemTypes = map[string]string{
	CodeValidationFailed: TypeValidation,
	CodeInvalidRequest:   TypeValidation,
	CodeMissingFiles:     TypeValidation,
	CodePayloadTooLarge:  TypePayloadTooLarge,
	CodeUnsupportedMedia: TypeUnsupportedMedia,
	CodeNoData:           TypeNoData,
	CodeExportFailed:     TypeExport,
	CodeUnavailable:      TypeServiceDown,
}

// ErrorHandler renders every handler error as an RFC 7807 problem and logs
// it once. 5xx responses never echo internal messages.
type ErrorHandler struct {
	logger       *slog.Logger
	includeStack bool
}

func NewErrorHandler(logger *slog.Logger, includeStack bool) *ErrorHandler {
	if logger == nil {
		logger = slog.Default()
	}
	return &ErrorHandler{
		logger:       logger.With(slog.String("component", "error_handler")),
		includeStack: includeStack,
	}
}

// HandleError logs err (WARN for 4xx, ERROR for 5xx) and writes its problem
func (h *ErrorHandler) HandleError(w http.ResponseWriter, r *http.Request, err error) {
	if err == nil {
		return
	}

	problem := h.ErrorToProblem(err, r)

	level := slog.LevelWarn
	if problem.Status >= http.StatusInternalServerError {
		level = slog.LevelError
	}
	h.logger.Log(r.Context(), level, "request failed",
		slog.String("error", err.Error()),
		slog.Int("status", problem.Status),
		slog.String("method", r.Method),
		slog.String("path", r.URL.Path),
		slog.String("remote_addr", r.RemoteAddr),
	)

	if h.includeStack {
		problem.WithExtension("stack", stackTrace())
	}
	WriteProblem(w, r, problem)
}

// ErrorToProblem classifies err. Order matters: cancellation first, then
// APIError, body limits and AppError, then a text fallback.
func (h *ErrorHandler) ErrorToProblem(err error, r *http.Request) *ProblemDetails {
	if errors.Is(err, context.DeadlineExceeded) || errors.Is(err, context.Canceled) {
		return NewProblem(r, http.StatusGatewayTimeout, TypeTimeout,
			"The request took too long to process and was cancelled")
	}

	var apiErr *APIError
	if errors.As(err, &apiErr) {
		problemType, ok := codeProblemTypes[apiErr.ErrorCode]
		if !ok {
			problemType = TypeInternal
		}
		problem := NewProblem(r, apiErr.StatusCode, problemType, apiErr.Message).
			WithExtension("error_code", apiErr.ErrorCode)
		if apiErr.Details != nil {
			problem.WithExtension("details", apiErr.Details)
		}
		return problem
	}

	var maxBytesErr *http.MaxBytesError
	if errors.As(err, &maxBytesErr) {
		return NewProblem(r, http.StatusRequestEntityTooLarge, TypePayloadTooLarge,
			fmt.Sprintf("The request body exceeds the maximum allowed size of %d bytes", maxBytesErr.Limit)).
			WithExtension("limit", maxBytesErr.Limit)
	}

	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErrorToProblem(appErr, r)
	}

	if strings.Contains(err.Error(), "not found") {
		return NewProblem(r, http.StatusNotFound, TypeNotFound, err.Error())
	}
	return NewProblem(r, http.StatusInternalServerError, TypeInternal, genericDetail)
}

func appErrorToProblem(appErr *AppError, r *http.Request) *ProblemDetails {
	status := appErr.HTTPStatus()
	if status >= http.StatusInternalServerError {
		return NewProblem(r, status, appErr.problemType(), genericDetail).
			WithExtension("error_type", string(appErr.Type))
	}

	detail := appErr.Message
	if appErr.Cause != nil {
		detail = fmt.Sprintf("%s: %v", appErr.Message, appErr.Cause)
	}
	problem := NewProblem(r, status, appErr.problemType(), detail).
		WithExtension("error_type", string(appErr.Type))
	if len(appErr.Context) > 0 {
		problem.WithExtension("context", appErr.Context)
	}
	return problem
}

// RecoveryMiddleware turns panics into 500 problems. http.ErrAbortHandler
// is re-raised.
func (h *ErrorHandler) RecoveryMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		defer func() {
			rec := recover()
			if rec == nil {
				return
			}
			if rec == http.ErrAbortHandler {
				panic(rec)
			}
			h.logger.ErrorContext(r.Context(), "panic recovered",
				slog.Any("panic", rec),
				slog.String("method", r.Method),
				slog.String("path", r.URL.Path),
				slog.String("stack", string(debug.Stack())),
			)
			problem := NewProblem(r, http.StatusInternalServerError, TypeInternal, "An unexpected error occurred")
			if h.includeStack {
				problem.WithExtension("panic", fmt.Sprintf("%v", rec))
				problem.WithExtension("stack", stackTrace())
			}
			WriteProblem(w, r, problem)
		}()
		next.ServeHTTP(w, r)
	})
}

// NotFound is the router's 404 handler
func (h *ErrorHandler) NotFound(w http.ResponseWriter, r *http.Request) {
	WriteProblem(w, r, NewProblem(r, http.StatusNotFound, TypeNotFound, "The requested resource was not found"))
}

// MethodNotAllowed is the router's 405 handler
func (h *ErrorHandler) MethodNotAllowed(w http.ResponseWriter, r *http.Request) {
	WriteProblem(w, r, NewProblem(r, http.StatusMethodNotAllowed, TypeMethodNotAllowed,
		fmt.Sprintf("Method %s is not allowed for this endpoint", r.Method)))
}

func stackTrace() string {
	buf := make([]byte, 8<<10)
	return string(buf[:runtime.Stack(buf, false)])
}
