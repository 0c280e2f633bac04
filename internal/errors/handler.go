package errors

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"runtime/debug"

	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/render"
)

// Problem type URIs
const (
	TypeValidation      = "/errors/validation"
	TypeNotFound        = "/errors/not-found"
	TypeUnauthorized    = "/errors/unauthorized"
	TypeForbidden       = "/errors/forbidden"
	TypeRateLimit       = "/errors/rate-limit"
	TypeInternal        = "/errors/internal"
	TypeServiceDown     = "/errors/service-unavailable"
	TypeTimeout         = "/errors/timeout"
	TypeConflict        = "/errors/conflict"
	TypePayloadTooLarge = "/errors/payload-too-large"
	TypeMethod          = "/errors/method-not-allowed"

	TypeEmptyInput        = "/errors/report/empty-input"
	TypeMissingColumn     = "/errors/report/missing-required-column"
	TypeUnsupportedFormat = "/errors/report/unsupported-format"
	TypeParseFailure      = "/errors/report/parse-failure"
	TypeExportUnavailable = "/errors/export/unavailable"
	TypeInvalidRange      = "/errors/filter/invalid-range"
	TypeNoDataLoaded      = "/errors/session/no-data"
	TypeUserExists        = "/errors/users/exists"
)

// credentialsDetail is shown for every authentication failure
const credentialsDetail = "Usuário ou senha inválidos"

type problemKind struct {
	status int
	ptype  string
	title  string
}

// sentinelKinds is checked in order with errors.Is
var sentinelKinds = []struct {
	target error
	kind   problemKind
}{
	{ErrEmptyInput, problemKind{http.StatusUnprocessableEntity, TypeEmptyInput, "Empty Input"}},
	{ErrMissingRequiredColumn, problemKind{http.StatusUnprocessableEntity, TypeMissingColumn, "Missing Required Column"}},
	{ErrParseFailure, problemKind{http.StatusUnprocessableEntity, TypeParseFailure, "Parse Failure"}},
	{ErrUnsupportedFormat, problemKind{http.StatusUnsupportedMediaType, TypeUnsupportedFormat, "Unsupported Format"}},
	{ErrExportUnavailable, problemKind{http.StatusServiceUnavailable, TypeExportUnavailable, "Export Unavailable"}},
	{ErrInvalidRange, problemKind{http.StatusBadRequest, TypeInvalidRange, "Invalid Range"}},
	{ErrNoDataLoaded, problemKind{http.StatusConflict, TypeNoDataLoaded, "No Data Loaded"}},
	{ErrForbidden, problemKind{http.StatusForbidden, TypeForbidden, "Forbidden"}},
	{ErrUserExists, problemKind{http.StatusConflict, TypeUserExists, "User Exists"}},
	{ErrUserNotFound, problemKind{http.StatusNotFound, TypeNotFound, "Resource Not Found"}},
}

// apiCodeTypes maps APIError codes to problem types; unknown codes are internal
var apiCodeTypes = map[string]string{
	codeInvalidRequest:    TypeValidation,
	codeValidationFailed:  TypeValidation,
	codeUnauthorized:      TypeUnauthorized,
	codePayloadTooLarge:   TypePayloadTooLarge,
	codeRateLimited:       TypeRateLimit,
	"FORBIDDEN":           TypeForbidden,
	"NOT_FOUND":           TypeNotFound,
	"CONFLICT":            TypeConflict,
	"SERVICE_UNAVAILABLE": TypeServiceDown,
}

// appTypeKinds covers AppErrors that wrap no known sentinel
var appTypeKinds = map[ErrorType]problemKind{
	ErrTypeValidation: {http.StatusBadRequest, TypeValidation, "Validation Failed"},
	ErrTypeNotFound:   {http.StatusNotFound, TypeNotFound, "Resource Not Found"},
	ErrTypePermission: {http.StatusForbidden, TypeForbidden, "Forbidden"},
}

// ErrorHandler renders every API failure as an RFC 7807 problem and logs it
type ErrorHandler struct {
	logger       *slog.Logger
	includeStack bool
}

// NewErrorHandler creates the handler. includeStack adds goroutine stacks
// to problem bodies and is meant for development only.
func NewErrorHandler(logger *slog.Logger, includeStack bool) *ErrorHandler {
	return &ErrorHandler{
		logger:       logger.With(slog.String("component", "error_handler")),
		includeStack: includeStack,
	}
}

// HandleError writes err as a problem response. A nil err writes nothing.
func (h *ErrorHandler) HandleError(w http.ResponseWriter, r *http.Request, err error) {
	if err == nil {
		return
	}

	reqID := middleware.GetReqID(r.Context())
	problem := h.ErrorToProblem(err, r).With("trace_id", reqID)
	if h.includeStack {
		problem.With("stack", string(debug.Stack()))
	}

	level := slog.LevelWarn
	if problem.Status >= http.StatusInternalServerError {
		level = slog.LevelError
	}
	h.logger.LogAttrs(r.Context(), level, "request failed",
		slog.String("error", err.Error()),
		slog.Int("status", problem.Status),
		slog.String("request_id", reqID),
		slog.String("method", r.Method),
		slog.String("path", r.URL.Path),
		slog.String("remote_addr", r.RemoteAddr),
	)

	render.Render(w, r, problem)
}

// ErrorToProblem maps err to a problem document without writing it
func (h *ErrorHandler) ErrorToProblem(err error, r *http.Request) *ProblemDetails {
	path := r.URL.Path

	if errors.Is(err, context.DeadlineExceeded) || errors.Is(err, context.Canceled) {
		return newProblem(http.StatusGatewayTimeout, TypeTimeout, "Request Timeout",
			"The request took too long to process and was cancelled", path)
	}

	var apiErr *APIError
	if errors.As(err, &apiErr) {
		ptype, ok := apiCodeTypes[apiErr.ErrorCode]
		if !ok {
			ptype = TypeInternal
		}
		p := newProblem(apiErr.StatusCode, ptype, http.StatusText(apiErr.StatusCode), apiErr.Message, path).
			With("error_code", apiErr.ErrorCode)
		if apiErr.Details != nil {
			p.With("details", apiErr.Details)
		}
		return p
	}

	// Authentication failures share one detail whatever went wrong
	if errors.Is(err, ErrInvalidCredentials) || errors.Is(err, ErrSessionNotFound) {
		return newProblem(http.StatusUnauthorized, TypeUnauthorized, "Unauthorized", credentialsDetail, path)
	}

	var appErr *AppError
	isApp := errors.As(err, &appErr)

	for _, s := range sentinelKinds {
		if errors.Is(err, s.target) {
			p := newProblem(s.kind.status, s.kind.ptype, s.kind.title, UserMessage(err), path)
			if isApp && len(appErr.Context) > 0 {
				p.With("context", appErr.Context)
			}
			return p
		}
	}

	if isApp {
		if k, ok := appTypeKinds[appErr.Type]; ok {
			return newProblem(k.status, k.ptype, k.title, appErr.Message, path)
		}
	}

	return newProblem(http.StatusInternalServerError, TypeInternal, "Internal Server Error",
		"An unexpected error occurred while processing your request", path)
}

// HandlePanic logs a recovered panic with its stack and answers 500
func (h *ErrorHandler) HandlePanic(w http.ResponseWriter, r *http.Request, recovered interface{}) {
	reqID := middleware.GetReqID(r.Context())
	stack := string(debug.Stack())

	h.logger.ErrorContext(r.Context(), "panic recovered",
		slog.Any("panic", recovered),
		slog.String("request_id", reqID),
		slog.String("method", r.Method),
		slog.String("path", r.URL.Path),
		slog.String("stack", stack),
	)

	problem := newProblem(http.StatusInternalServerError, TypeInternal, "Internal Server Error",
		"An unexpected error occurred", r.URL.Path).With("trace_id", reqID)
	if h.includeStack {
		problem.With("panic", fmt.Sprint(recovered)).With("stack", stack)
	}
	render.Render(w, r, problem)
}

// NotFound answers unknown routes
func (h *ErrorHandler) NotFound(w http.ResponseWriter, r *http.Request) {
	render.Render(w, r, newProblem(http.StatusNotFound, TypeNotFound, "Not Found",
		"The requested resource was not found", r.URL.Path).
		With("trace_id", middleware.GetReqID(r.Context())))
}

// MethodNotAllowed answers known routes called with the wrong method
func (h *ErrorHandler) MethodNotAllowed(w http.ResponseWriter, r *http.Request) {
	render.Render(w, r, newProblem(http.StatusMethodNotAllowed, TypeMethod, "Method Not Allowed",
		fmt.Sprintf("Method %s is not allowed for this endpoint", r.Method), r.URL.Path).
		With("trace_id", middleware.GetReqID(r.Context())))
}

// JSON writes v with the given status. Used for bodies that are not
// problems but must carry an error status, such as failed uploads.
func (h *ErrorHandler) JSON(w http.ResponseWriter, r *http.Request, status int, v interface{}) {
	render.Status(r, status)
	render.JSON(w, r, v)
}
