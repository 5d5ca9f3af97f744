package theoddsapi

import (
	"errors"
	"fmt"
	"regexp"
)

// ErrUnavailable is surfaced once the retry ceiling is spent on network
// failures, timeouts, or retryable upstream statuses. Distinct from
// credentials.ErrExhausted, which means every key is quarantined.
var ErrUnavailable = errors.New("theoddsapi: upstream unavailable")

// ErrMalformedResponse means a 200 response whose top-level payload could not
// be decoded, typically an intercepting proxy serving HTML. Surfaced as an
// error so callers never mistake it for an empty match window.
var ErrMalformedResponse = errors.New("theoddsapi: unparseable response payload")

// StatusError is a non-200 response from the provider.
type StatusError struct {
	StatusCode int
	Body       string
}

func (e *StatusError) Error() string {
	return sanitize(fmt.Sprintf("HTTP %d: %s", e.StatusCode, e.Body))
}

var apiKeyPattern = regexp.MustCompile(`apiKey=[A-Za-z0-9._-]+`)

// sanitize scrubs access keys from messages so they never reach logs or
// callers through error strings.
func sanitize(message string) string {
	return apiKeyPattern.ReplaceAllString(message, "apiKey=***")
}
