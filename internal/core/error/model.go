package errx

import (
	"errors"
	"net/http"
	"strings"

	"google.golang.org/genai"
)

// WrapModel classifies a model-provider failure. Quota exhaustion (HTTP 429 /
// RESOURCE_EXHAUSTED) becomes a retryable RateLimited error. Everything else
// is terminal and classified by message content, matching how the upstream
// SDK surfaces failures: malformed function calls get a parameter hint, the
// rest collapses into a generic sanitized message.
func WrapModel(err error) *AppError {
	if err == nil {
		return nil
	}

	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr
	}

	if isRateLimited(err) {
		return RateLimited(err)
	}

	msg := err.Error()
	switch {
	case strings.Contains(msg, "Malformed function call"):
		return MalformedCall(err)
	case strings.Contains(msg, "Resource has been exhausted"), strings.Contains(msg, "429"):
		// Some transports report quota failures as plain errors without a
		// typed status. Terminal here; the typed path above is the retryable one.
		return New(err, http.StatusServiceUnavailable, BusyMessage)
	default:
		return New(err, http.StatusBadGateway, MalformedOutputMessage)
	}
}

func isRateLimited(err error) bool {
	var apiErr genai.APIError
	if errors.As(err, &apiErr) {
		return apiErr.Code == http.StatusTooManyRequests || apiErr.Status == "RESOURCE_EXHAUSTED"
	}
	return false
}
