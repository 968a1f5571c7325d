package errx

import (
	"errors"
	"fmt"
	"net/http"
)

// User-facing messages. These are the only strings that ever reach an
// untrusted client; raw upstream error text stays in the logs.
const (
	// SystemErrorMessage is the fallback when an internal error occurs.
	SystemErrorMessage = "internal server error"
	// RedisErrorMessage describes Redis related failures.
	RedisErrorMessage = "storage operation failed"
	// RedisNotFoundMessage is returned when a key does not exist.
	RedisNotFoundMessage = "not found"
	// BusyMessage is returned once the model retry budget is exhausted.
	BusyMessage = "Our AI service is currently busy. Please try again in a few minutes."
	// MalformedCallMessage is returned when the model issues a tool call we
	// cannot fulfil.
	MalformedCallMessage = "Unable to create an itinerary with the current parameters. Please try different dates or destination."
	// MalformedOutputMessage is returned when no structured itinerary could be
	// recovered from the model reply.
	MalformedOutputMessage = "An error occurred while creating your itinerary. Please try again."
	// UnauthorizedMessage is returned on failed authentication.
	UnauthorizedMessage = "unauthorized"
)

// Kind classifies an error for the retry controller and the HTTP layer.
type Kind int

const (
	KindGeneric Kind = iota
	// KindRateLimited marks upstream quota exhaustion; the only retryable kind.
	KindRateLimited
	// KindMalformedCall marks a tool call the orchestrator cannot fulfil.
	KindMalformedCall
	// KindMalformedOutput marks a reply with no recoverable structured result.
	KindMalformedOutput
	KindUnauthorized
	KindNotFound
)

// AppError wraps an underlying error with a classification, an HTTP status
// and a safe user-facing message.
type AppError struct {
	Err     error
	Kind    Kind
	Status  int
	Message string
}

// Error implements the error interface.
func (e *AppError) Error() string {
	if e.Err == nil {
		return e.Message
	}
	return fmt.Sprintf("%s: %v", e.Message, e.Err)
}

// Unwrap exposes the underlying error for errors.Is / errors.As support.
func (e *AppError) Unwrap() error {
	return e.Err
}

// New creates a new AppError with the provided information.
func New(err error, status int, message string) *AppError {
	return &AppError{
		Err:     err,
		Status:  status,
		Message: message,
	}
}

// RateLimited marks an upstream quota failure as retryable.
func RateLimited(err error) *AppError {
	return &AppError{
		Err:     err,
		Kind:    KindRateLimited,
		Status:  http.StatusServiceUnavailable,
		Message: BusyMessage,
	}
}

// MalformedCall marks a tool call the orchestrator cannot dispatch. Terminal.
func MalformedCall(err error) *AppError {
	return &AppError{
		Err:     err,
		Kind:    KindMalformedCall,
		Status:  http.StatusUnprocessableEntity,
		Message: MalformedCallMessage,
	}
}

// MalformedOutput marks a reply from which no structured document could be
// extracted. The offending text travels in err for diagnostics only.
func MalformedOutput(err error) *AppError {
	return &AppError{
		Err:     err,
		Kind:    KindMalformedOutput,
		Status:  http.StatusBadGateway,
		Message: MalformedOutputMessage,
	}
}

// Unauthorized marks a failed authentication attempt.
func Unauthorized(err error) *AppError {
	return &AppError{
		Err:     err,
		Kind:    KindUnauthorized,
		Status:  http.StatusUnauthorized,
		Message: UnauthorizedMessage,
	}
}

// NotFound marks a missing resource.
func NotFound(err error, message string) *AppError {
	return &AppError{
		Err:     err,
		Kind:    KindNotFound,
		Status:  http.StatusNotFound,
		Message: message,
	}
}

// KindOf returns the classification of err, or KindGeneric when err carries
// no AppError in its chain.
func KindOf(err error) Kind {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr.Kind
	}
	return KindGeneric
}

// Is reports whether the target matches the underlying error or the AppError itself.
func (e *AppError) Is(target error) bool {
	return errors.Is(e.Err, target)
}

// As allows casting to AppError or the wrapped error in a chain.
func (e *AppError) As(target any) bool {
	if errors.As(e.Err, target) {
		return true
	}
	if t, ok := target.(**AppError); ok {
		*t = e
		return true
	}
	return false
}
