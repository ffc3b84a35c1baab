package api

import (
	"context"
	"errors"
	"fmt"
	"net"
	"strings"
	"unicode/utf8"

	"github.com/tidwall/gjson"
)

var (
	// ErrNetwork matches every NetworkError
	ErrNetwork = errors.New("network error")
	// ErrHTTP matches every HTTPError
	ErrHTTP = errors.New("http error")
	// ErrNotFound matches an HTTPError with status 404
	ErrNotFound = errors.New("not found")
	// ErrParse matches every ParseError
	ErrParse = errors.New("parse error")
	// ErrGroupNotFound is returned when the schedule endpoint has no such group
	ErrGroupNotFound = errors.New("group not found")
	// ErrMissingID is returned when an update or delete is issued without an identifier
	ErrMissingID = errors.New("record identifier is required")
)

// NetworkError reports a request that could not be sent or whose response
// could not be received.
type NetworkError struct {
	Method  string
	Path    string
	Timeout bool
	Cause   error
}

func (e *NetworkError) Error() string {
	if e.Timeout {
		return fmt.Sprintf("network error: %s %s timed out: %v", e.Method, e.Path, e.Cause)
	}
	return fmt.Sprintf("network error: %s %s: %v", e.Method, e.Path, e.Cause)
}

func (e *NetworkError) Is(target error) bool {
	return target == ErrNetwork
}

func (e *NetworkError) Unwrap() error {
	return e.Cause
}

// HTTPError reports a non-2xx response.
type HTTPError struct {
	Method  string
	Path    string
	Status  int
	Message string
}

func (e *HTTPError) Error() string {
	if e.Message != "" {
		return fmt.Sprintf("%s %s: status %d: %s", e.Method, e.Path, e.Status, e.Message)
	}
	return fmt.Sprintf("%s %s: status %d", e.Method, e.Path, e.Status)
}

func (e *HTTPError) Is(target error) bool {
	switch target {
	case ErrHTTP:
		return true
	case ErrNotFound:
		return e.Status == 404
	default:
		return false
	}
}

// ParseError reports a response body that is not JSON of the expected shape.
type ParseError struct {
	Method string
	Path   string
	Cause  error
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("parse error: %s %s: %v", e.Method, e.Path, e.Cause)
}

func (e *ParseError) Is(target error) bool {
	return target == ErrParse
}

func (e *ParseError) Unwrap() error {
	return e.Cause
}

// IsFetchError reports whether err is a network, HTTP or parse failure.
func IsFetchError(err error) bool {
	return errors.Is(err, ErrNetwork) || errors.Is(err, ErrHTTP) || errors.Is(err, ErrParse)
}

// StatusCode returns the HTTP status carried by err, or 0.
func StatusCode(err error) int {
	var httpErr *HTTPError
	if errors.As(err, &httpErr) {
		return httpErr.Status
	}
	return 0
}

// parseAPIError extracts a human readable message from an error body.
// Both {"error": "...", "details": "..."} and {"message": "..."} are understood.
func parseAPIError(body []byte) string {
	if len(body) == 0 || !gjson.ValidBytes(body) {
		return strings.TrimSpace(truncateBody(body))
	}
	doc := gjson.ParseBytes(body)
	if !doc.IsObject() {
		return ""
	}
	message := strings.TrimSpace(doc.Get("error").String())
	if message == "" {
		message = strings.TrimSpace(doc.Get("message").String())
	}
	if message == "" {
		return ""
	}
	details := doc.Get("details")
	if details.Type == gjson.String {
		if d := strings.TrimSpace(details.String()); d != "" {
			return fmt.Sprintf("%s: %s", message, d)
		}
	}
	return message
}

// maxErrorBody is counted in runes.
const maxErrorBody = 200

func truncateBody(body []byte) string {
	text := strings.ToValidUTF8(string(body), "\uFFFD")
	if utf8.RuneCountInString(text) <= maxErrorBody {
		return text
	}
	return string([]rune(text)[:maxErrorBody]) + "..."
}

func isTimeout(err error) bool {
	if errors.Is(err, context.DeadlineExceeded) {
		return true
	}
	var netErr net.Error
	return errors.As(err, &netErr) && netErr.Timeout()
}
