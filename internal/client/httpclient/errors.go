package httpclient

import (
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/dmitrijs2005/homepoint/internal/common"
	"github.com/tidwall/gjson"
)

// ErrTimeout is matched by every *TimeoutError.
var ErrTimeout = common.ErrTimeout

// HTTPStatusError is returned for any non-2xx response.
type HTTPStatusError struct {
	StatusCode int
	Message    string
	Body       []byte
}

func (e *HTTPStatusError) Error() string {
	return fmt.Sprintf("%s (status %d)", e.Message, e.StatusCode)
}

// Is lets callers match auth and not-found failures with the common
// sentinels.
func (e *HTTPStatusError) Is(target error) bool {
	switch target {
	case common.ErrUnauthorized:
		return e.StatusCode == http.StatusUnauthorized || e.StatusCode == http.StatusForbidden
	case common.ErrNotFound:
		return e.StatusCode == http.StatusNotFound
	}
	return false
}

// ParseError means a 2xx response carried a body that is not valid JSON.
type ParseError struct {
	Body []byte
	Err  error
}

func (e *ParseError) Error() string { return "invalid response body: " + e.Err.Error() }
func (e *ParseError) Unwrap() error { return e.Err }

// TransportError wraps network-level failures (DNS, refused connection,
// cancelled context).
type TransportError struct {
	Method string
	URL    string
	Err    error
}

func (e *TransportError) Error() string {
	return fmt.Sprintf("%s %s: %v", e.Method, e.URL, e.Err)
}

func (e *TransportError) Unwrap() error { return e.Err }

// TimeoutError is returned when the request deadline elapses.
type TimeoutError struct {
	Method  string
	URL     string
	Timeout time.Duration
}

func (e *TimeoutError) Error() string {
	if e.Timeout > 0 {
		return fmt.Sprintf("%s %s: request timed out after %s", e.Method, e.URL, e.Timeout)
	}
	return fmt.Sprintf("%s %s: request timed out", e.Method, e.URL)
}

func (e *TimeoutError) Is(target error) bool { return target == ErrTimeout }

// extractMessage reads the server-provided message from a JSON error body,
// trying "message" and then "error".
func extractMessage(body []byte) string {
	if gjson.ValidBytes(body) {
		for _, field := range []string{"message", "error"} {
			if v := gjson.GetBytes(body, field); v.Exists() && v.String() != "" {
				return v.String()
			}
		}
	}
	return common.DefaultErrorMessage
}

// UserMessage returns the text shown to the operator for a failed action.
// Status errors surface the server's message; network and decoding failures
// collapse to the generic message.
func UserMessage(err error) string {
	if err == nil {
		return ""
	}

	var statusErr *HTTPStatusError
	var transportErr *TransportError
	var parseErr *ParseError
	switch {
	case errors.As(err, &statusErr):
		return statusErr.Message
	case errors.Is(err, ErrTimeout):
		return "Request timed out"
	case errors.As(err, &transportErr), errors.As(err, &parseErr):
		return common.DefaultErrorMessage
	}
	return err.Error()
}
