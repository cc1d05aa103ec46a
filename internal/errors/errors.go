package errors

import (
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/ZanzyTHEbar/errbuilder-go"
	validator "github.com/go-playground/validator/v10"

	"github.com/clinsight/bleedrisk/internal/assessment"
	"github.com/clinsight/bleedrisk/internal/model"
)

// ErrorCategory classifies an error for logging and HTTP mapping.
type ErrorCategory string

const (
	// CategoryInputDomain covers values outside a feature's declared domain.
	// Always a client problem, caught at the request boundary.
	CategoryInputDomain ErrorCategory = "input_domain"
	// CategorySchemaMismatch covers model/assembler feature-set drift. A
	// developer-time inconsistency, never caused by operator input.
	CategorySchemaMismatch ErrorCategory = "schema_mismatch"
	// CategoryInference covers scoring or explanation failures. Recoverable
	// per request; the session stays usable.
	CategoryInference ErrorCategory = "inference"
	// CategoryRateLimit covers throttled requests.
	CategoryRateLimit ErrorCategory = "rate_limit"
	// CategoryInternal covers everything else.
	CategoryInternal ErrorCategory = "internal"
)

// AppError wraps an errbuilder error with the category and HTTP status the
// request layer needs. Message is safe to show an operator; the wrapped
// cause is for logs only.
type AppError struct {
	*errbuilder.ErrBuilder
	Category   ErrorCategory `json:"category"`
	Message    string        `json:"message"`
	HTTPStatus int           `json:"http_status"`
	Timestamp  time.Time     `json:"timestamp"`
	RequestID  string        `json:"request_id,omitempty"`
}

// Error implements the error interface.
func (e *AppError) Error() string {
	return fmt.Sprintf("[%s] %s", e.Category, e.ErrBuilder.Msg)
}

// Unwrap returns the underlying cause.
func (e *AppError) Unwrap() error {
	return e.ErrBuilder.Unwrap()
}

func newAppError(builder *errbuilder.ErrBuilder, category ErrorCategory, message string, status int) *AppError {
	return &AppError{
		ErrBuilder: builder,
		Category:   category,
		Message:    message,
		HTTPStatus: status,
		Timestamp:  time.Now(),
	}
}

// NewInputDomainError reports a request value outside its feature domain.
func NewInputDomainError(message string, cause error) *AppError {
	builder := errbuilder.New().
		WithCode(errbuilder.CodeInvalidArgument).
		WithMsg(message)
	if cause != nil {
		builder = builder.WithCause(cause)
	}
	return newAppError(builder, CategoryInputDomain,
		"One or more inputs are outside their allowed range. Please correct the highlighted values and try again.",
		http.StatusBadRequest)
}

// NewSchemaMismatchError reports model/assembler feature drift. It maps to
// 500: the operator cannot fix it, and it should have been caught by tests.
func NewSchemaMismatchError(cause error) *AppError {
	builder := errbuilder.New().
		WithCode(errbuilder.CodeFailedPrecondition).
		WithMsg("model feature schema mismatch")
	if cause != nil {
		builder = builder.WithCause(cause)
	}
	return newAppError(builder, CategorySchemaMismatch,
		"The prediction service is misconfigured. Please contact support.",
		http.StatusInternalServerError)
}

// NewInferenceError reports a scoring or explanation failure. Recoverable:
// the form stays intact and the operator can correct inputs and retry.
func NewInferenceError(cause error) *AppError {
	builder := errbuilder.New().
		WithCode(errbuilder.CodeInternal).
		WithMsg("inference failed")
	if cause != nil {
		builder = builder.WithCause(cause)
	}
	return newAppError(builder, CategoryInference,
		"The risk prediction could not be computed. Please review the entered values and try again.",
		http.StatusUnprocessableEntity)
}

// NewRateLimitError reports a throttled request.
func NewRateLimitError(retryAfter time.Duration) *AppError {
	errorMap := errbuilder.ErrorMap{}
	errorMap.Set("retry_after", errors.New(retryAfter.String()))
	builder := errbuilder.New().
		WithCode(errbuilder.CodeResourceExhausted).
		WithMsg("rate limit exceeded").
		WithDetails(errbuilder.NewErrDetails(errorMap))
	return newAppError(builder, CategoryRateLimit,
		"Too many prediction requests. Please wait a moment and try again.",
		http.StatusTooManyRequests)
}

// NewInternalError reports an unexpected failure.
func NewInternalError(message string, cause error) *AppError {
	builder := errbuilder.New().
		WithCode(errbuilder.CodeInternal).
		WithMsg(message)
	if cause != nil {
		builder = builder.WithCause(cause)
	}
	return newAppError(builder, CategoryInternal,
		"An unexpected error occurred. Please try again.",
		http.StatusInternalServerError)
}

// ToAppError converts any pipeline error into an AppError, classifying the
// known failure modes of the assessment pipeline.
func ToAppError(err error) *AppError {
	if err == nil {
		return nil
	}

	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr
	}

	// Binding/validation failures from the request boundary.
	var verrs validator.ValidationErrors
	if errors.As(err, &verrs) {
		return NewInputDomainError(describeValidation(verrs), err)
	}

	if errors.Is(err, assessment.ErrSchemaMismatch) {
		return NewSchemaMismatchError(err)
	}
	if errors.Is(err, assessment.ErrInference) || errors.Is(err, model.ErrVectorShape) {
		return NewInferenceError(err)
	}

	return NewInternalError("unexpected error", err)
}

// describeValidation renders binding failures as one readable line per
// offending field, without leaking struct internals.
func describeValidation(verrs validator.ValidationErrors) string {
	if len(verrs) == 0 {
		return "invalid input"
	}
	msg := ""
	for i, fe := range verrs {
		if i > 0 {
			msg += "; "
		}
		switch fe.Tag() {
		case "min":
			msg += fmt.Sprintf("%s below minimum %s", fe.Field(), fe.Param())
		case "max":
			msg += fmt.Sprintf("%s above maximum %s", fe.Field(), fe.Param())
		case "oneof":
			msg += fmt.Sprintf("%s must be one of: %s", fe.Field(), fe.Param())
		case "required":
			msg += fmt.Sprintf("%s is required", fe.Field())
		default:
			msg += fmt.Sprintf("%s is invalid", fe.Field())
		}
	}
	return msg
}
