package errors

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"runtime"
)

// ErrorType classifies an error for handling and HTTP status mapping.
type ErrorType string

const (
	ErrorTypeValidation ErrorType = "validation"
	ErrorTypeConflict   ErrorType = "conflict"
	ErrorTypeNotFound   ErrorType = "not_found"
	ErrorTypePermission ErrorType = "permission"
	ErrorTypeDatabase   ErrorType = "database"
	ErrorTypeExternal   ErrorType = "external_api"
	ErrorTypeRateLimit  ErrorType = "rate_limit"
	ErrorTypeTimeout    ErrorType = "timeout"
	ErrorTypeInternal   ErrorType = "internal"
)

// AppError is an application error with classification and context.
type AppError struct {
	Type     ErrorType
	Code     string
	Message  string
	Internal error
	Context  map[string]interface{}
	Source   string
}

func (e *AppError) Error() string {
	if e.Internal != nil {
		return fmt.Sprintf("%s: %s (internal: %v)", e.Type, e.Message, e.Internal)
	}
	return fmt.Sprintf("%s: %s", e.Type, e.Message)
}

// Unwrap returns the wrapped internal error.
func (e *AppError) Unwrap() error {
	return e.Internal
}

// Is matches on Type and Code so sentinel comparisons with errors.Is work.
func (e *AppError) Is(target error) bool {
	if t, ok := target.(*AppError); ok {
		return e.Type == t.Type && e.Code == t.Code
	}
	return errors.Is(e.Internal, target)
}

// WithContext attaches a key/value pair for logging.
func (e *AppError) WithContext(key string, value interface{}) *AppError {
	if e.Context == nil {
		e.Context = make(map[string]interface{})
	}
	e.Context[key] = value
	return e
}

// LogFields returns the error as structured logging fields.
func (e *AppError) LogFields() []interface{} {
	fields := []interface{}{
		"error_type", e.Type,
		"error_code", e.Code,
		"error_message", e.Message,
		"source", e.Source,
	}
	if e.Internal != nil {
		fields = append(fields, "internal_error", e.Internal.Error())
	}
	for k, v := range e.Context {
		fields = append(fields, k, v)
	}
	return fields
}

// New creates an AppError recording its call site.
func New(errorType ErrorType, code, message string) *AppError {
	_, file, line, _ := runtime.Caller(1)
	return &AppError{
		Type:    errorType,
		Code:    code,
		Message: message,
		Source:  fmt.Sprintf("%s:%d", file, line),
		Context: make(map[string]interface{}),
	}
}

// Wrap wraps an existing error into an AppError.
func Wrap(err error, errorType ErrorType, code, message string) *AppError {
	_, file, line, _ := runtime.Caller(1)
	return &AppError{
		Type:     errorType,
		Code:     code,
		Message:  message,
		Internal: err,
		Source:   fmt.Sprintf("%s:%d", file, line),
		Context:  make(map[string]interface{}),
	}
}

// TypeOf returns the classification of err, or ErrorTypeInternal for
// errors that are not AppErrors.
func TypeOf(err error) ErrorType {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr.Type
	}
	return ErrorTypeInternal
}

// Handler logs errors according to their classification.
type Handler struct {
	logger *slog.Logger
}

func NewHandler(logger *slog.Logger) *Handler {
	return &Handler{logger: logger}
}

// Handle logs err at a severity matching its type. Expected request-level
// failures (validation, conflict, not found, rate limit) log as warnings;
// everything else is an error.
func (h *Handler) Handle(ctx context.Context, err error) {
	if err == nil {
		return
	}
	var appErr *AppError
	if !errors.As(err, &appErr) {
		h.logger.ErrorContext(ctx, "Unhandled error", "error", err.Error())
		return
	}
	switch appErr.Type {
	case ErrorTypeValidation, ErrorTypeConflict, ErrorTypeNotFound,
		ErrorTypePermission, ErrorTypeRateLimit:
		h.logger.WarnContext(ctx, "Request error", appErr.LogFields()...)
	default:
		h.logger.ErrorContext(ctx, "Critical error", appErr.LogFields()...)
	}
}

// Predefined errors
var (
	ErrInvalidInput      = New(ErrorTypeValidation, "INVALID_INPUT", "Invalid input provided")
	ErrRecordNotFound    = New(ErrorTypeNotFound, "NOT_FOUND", "Record not found")
	ErrDuplicateFavorite = New(ErrorTypeConflict, "FAVORITE_EXISTS", "Favorite already exists")
	ErrUnauthorized      = New(ErrorTypePermission, "UNAUTHORIZED", "Unauthorized access")
	ErrRateLimitExceeded = New(ErrorTypeRateLimit, "RATE_LIMIT", "Rate limit exceeded")
)

// Convenience constructors for common cases
func NewValidationError(message string) *AppError {
	return New(ErrorTypeValidation, "VALIDATION", message)
}

func NewConflictError(message string) *AppError {
	return New(ErrorTypeConflict, "CONFLICT", message)
}

func NewNotFoundError(message string) *AppError {
	return New(ErrorTypeNotFound, "NOT_FOUND", message)
}

func NewDatabaseError(err error) *AppError {
	return Wrap(err, ErrorTypeDatabase, "DB_ERROR", "Database operation failed")
}

func NewAnalysisError(err error, provider string) *AppError {
	return Wrap(err, ErrorTypeExternal, "ANALYSIS_FAILED", fmt.Sprintf("%s analysis failed", provider)).
		WithContext("provider", provider)
}

func NewTimeoutError(operation string) *AppError {
	return New(ErrorTypeTimeout, "TIMEOUT", fmt.Sprintf("%s operation timed out", operation)).
		WithContext("operation", operation)
}

func NewInternalError(err error) *AppError {
	return Wrap(err, ErrorTypeInternal, "INTERNAL", "Internal server error")
}
