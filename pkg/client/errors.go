package client

import (
	"context"
	"errors"
	"fmt"
	"net/http"
)

// Kind classifies an API error into the failure taxonomy. Each kind maps
// to a distinct, stable process exit code so scripts can branch on
// specific failure classes.
type Kind string

const (
	// KindNotFound corresponds to HTTP 404.
	KindNotFound Kind = "not_found"

	// KindInvalidCredentials corresponds to HTTP 401 and 403.
	KindInvalidCredentials Kind = "invalid_credentials"

	// KindInvalidResponse indicates a response body that could not be parsed.
	KindInvalidResponse Kind = "invalid_response"

	// KindTimeout indicates a connect or read timeout.
	KindTimeout Kind = "timeout"

	// KindRequestError is the generic kind for unclassified HTTP statuses
	// and transport failures.
	KindRequestError Kind = "request_error"

	// KindMethodNotAllowed corresponds to HTTP 405.
	KindMethodNotAllowed Kind = "method_not_allowed"

	// KindTooManyRequests corresponds to HTTP 429.
	KindTooManyRequests Kind = "too_many_requests"

	// KindProxyError indicates a failure reaching the configured proxy.
	KindProxyError Kind = "proxy_error"

	// KindBadRequest corresponds to HTTP 400.
	KindBadRequest Kind = "bad_request"

	// KindMaxAttempts indicates the polling attempt budget was exhausted.
	KindMaxAttempts Kind = "max_attempts_exceeded"

	// KindInvalidSection indicates the credentials file section is missing.
	KindInvalidSection Kind = "invalid_edgerc_section"
)

// Process exit codes by error kind.
const (
	ExitOK                 = 0
	ExitNotFound           = 11
	ExitInvalidCredentials = 12
	ExitInvalidResponse    = 13
	ExitTimeout            = 14
	ExitRequestError       = 15
	ExitMethodNotAllowed   = 16
	ExitTooManyRequests    = 17
	ExitProxyError         = 18
	ExitBadRequest         = 19
	ExitMaxAttempts        = 20
	ExitInvalidSection     = 70
	ExitUnexpected         = 99
	ExitInterrupt          = 130
)

var exitCodes = map[Kind]int{
	KindNotFound:           ExitNotFound,
	KindInvalidCredentials: ExitInvalidCredentials,
	KindInvalidResponse:    ExitInvalidResponse,
	KindTimeout:            ExitTimeout,
	KindRequestError:       ExitRequestError,
	KindMethodNotAllowed:   ExitMethodNotAllowed,
	KindTooManyRequests:    ExitTooManyRequests,
	KindProxyError:         ExitProxyError,
	KindBadRequest:         ExitBadRequest,
	KindMaxAttempts:        ExitMaxAttempts,
	KindInvalidSection:     ExitInvalidSection,
}

// APIError is a classified request pipeline failure.
type APIError struct {
	Kind       Kind
	StatusCode int
	Message    string
	Body       string
	Err        error
}

// Error implements the error interface.
func (e *APIError) Error() string {
	switch {
	case e.StatusCode != 0:
		return fmt.Sprintf("%s (status %d): %s", e.Kind, e.StatusCode, e.Message)
	case e.Err != nil:
		return fmt.Sprintf("%s: %s: %v", e.Kind, e.Message, e.Err)
	default:
		return fmt.Sprintf("%s: %s", e.Kind, e.Message)
	}
}

// Unwrap implements error unwrapping for errors.Is/As.
func (e *APIError) Unwrap() error {
	return e.Err
}

// KindOf returns the error's kind, or the empty string for errors outside
// the taxonomy.
func KindOf(err error) Kind {
	var apiErr *APIError
	if errors.As(err, &apiErr) {
		return apiErr.Kind
	}
	return ""
}

// ExitCode maps an error to its process exit code. Cancellation maps to
// the conventional interrupt code; anything outside the taxonomy maps to
// the generic unexpected code.
func ExitCode(err error) int {
	if err == nil {
		return ExitOK
	}
	if errors.Is(err, context.Canceled) {
		return ExitInterrupt
	}
	if code, ok := exitCodes[KindOf(err)]; ok {
		return code
	}
	return ExitUnexpected
}

// classifyStatus maps an HTTP failure status into the taxonomy. Statuses
// not explicitly enumerated become the generic request error carrying the
// response body.
func classifyStatus(status int, method, endpoint string, body []byte) *APIError {
	switch status {
	case http.StatusBadRequest:
		return &APIError{
			Kind:       KindBadRequest,
			StatusCode: status,
			Message:    fmt.Sprintf("the API rejected the request:\n\n%s", body),
			Body:       string(body),
		}
	case http.StatusUnauthorized, http.StatusForbidden:
		return &APIError{
			Kind:       KindInvalidCredentials,
			StatusCode: status,
			Message:    "unable to authenticate with the API; check your EdgeGrid credentials",
			Body:       string(body),
		}
	case http.StatusNotFound:
		return &APIError{
			Kind:       KindNotFound,
			StatusCode: status,
			Message:    fmt.Sprintf("the endpoint %q was not found on the server", endpoint),
			Body:       string(body),
		}
	case http.StatusMethodNotAllowed:
		return &APIError{
			Kind:       KindMethodNotAllowed,
			StatusCode: status,
			Message:    fmt.Sprintf("the method %q is not allowed for the endpoint %q", method, endpoint),
			Body:       string(body),
		}
	case http.StatusTooManyRequests:
		return &APIError{
			Kind:       KindTooManyRequests,
			StatusCode: status,
			Message:    "too many requests: you have been rate limited by the API",
			Body:       string(body),
		}
	default:
		return &APIError{
			Kind:       KindRequestError,
			StatusCode: status,
			Message:    fmt.Sprintf("request failed with status %d: %s", status, body),
			Body:       string(body),
		}
	}
}
