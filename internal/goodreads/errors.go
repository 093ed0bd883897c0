package goodreads

import (
	"fmt"
	"net/http"
)

// HTTPError is returned when Goodreads answers with a non-success status.
type HTTPError struct {
	Method     string
	URL        string
	StatusCode int
}

func (e *HTTPError) Error() string {
	return fmt.Sprintf("%s %s: unexpected status %d %s", e.Method, e.URL, e.StatusCode, http.StatusText(e.StatusCode))
}

// retryable reports whether the status may succeed on a later attempt.
func (e *HTTPError) retryable() bool {
	return e.StatusCode == http.StatusTooManyRequests || e.StatusCode >= http.StatusInternalServerError
}

// MalformedRecordError means an upstream record lacks something every well-formed
// record carries. It signals a change in the upstream format.
type MalformedRecordError struct {
	Record string
	Tag    string
	Reason string
}

func (e *MalformedRecordError) Error() string {
	if e.Reason != "" {
		return fmt.Sprintf("malformed upstream record <%s>: <%s> %s", e.Record, e.Tag, e.Reason)
	}
	return fmt.Sprintf("malformed upstream record <%s>: missing <%s>", e.Record, e.Tag)
}

// UnresolvableUserError is returned when a username or profile URL does not lead to a numeric user id.
type UnresolvableUserError struct {
	Input string
	URL   string
}

func (e *UnresolvableUserError) Error() string {
	return fmt.Sprintf("cannot find user ID for %s (resolved to %s)", e.Input, e.URL)
}
