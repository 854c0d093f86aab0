package zia

import (
	"fmt"
	"net/http"
	"strconv"
	"time"
)

// ErrorKind classifies a failed API call for the retry decision.
type ErrorKind string

const (
	// KindTransient marks server-side failures worth retrying: 5xx and
	// explicit throttling (429).
	KindTransient ErrorKind = "transient"
	// KindFatal marks client-side rejections (4xx other than 429) that
	// retrying will not fix, auth failures included.
	KindFatal ErrorKind = "fatal"
	// KindNetwork marks transport-level failures: timeouts, connection
	// resets, DNS lookups.
	KindNetwork ErrorKind = "network"
	// KindMalformed marks a successful HTTP exchange whose body could not
	// be parsed.
	KindMalformed ErrorKind = "malformed"
)

// APIError describes one failed ZIA API call.
type APIError struct {
	Op         string        // API operation, e.g. "urlLookup"
	Kind       ErrorKind     // retry classification
	Status     int           // HTTP status, 0 for network-level failures
	RetryAfter time.Duration // server throttling hint, 0 when absent
	Err        error         // underlying cause, may be nil
}

func (e *APIError) Error() string {
	msg := fmt.Sprintf("zia %s: %s error", e.Op, e.Kind)
	if e.Status != 0 {
		msg += fmt.Sprintf(" (status %d)", e.Status)
	}
	if e.Err != nil {
		msg += ": " + e.Err.Error()
	}
	return msg
}

func (e *APIError) Unwrap() error { return e.Err }

// Retryable reports whether another attempt at the same call could
// plausibly succeed.
func (e *APIError) Retryable() bool { return e.Kind != KindFatal }

// RetryAfterHint returns the server's throttling hint, if the failed
// response carried one.
func (e *APIError) RetryAfterHint() time.Duration { return e.RetryAfter }

// statusError builds the APIError for a non-2xx response.
// 429 and 5xx are transient; every other 4xx is fatal.
func statusError(op string, resp *http.Response, body string) *APIError {
	kind := KindFatal
	if resp.StatusCode == http.StatusTooManyRequests || resp.StatusCode >= 500 {
		kind = KindTransient
	}
	apiErr := &APIError{
		Op:         op,
		Kind:       kind,
		Status:     resp.StatusCode,
		RetryAfter: parseRetryAfter(resp.Header.Get("Retry-After")),
	}
	if body != "" {
		apiErr.Err = fmt.Errorf("%s", body)
	}
	return apiErr
}

// parseRetryAfter reads a Retry-After header value in seconds.
// Malformed or absent values yield 0; the HTTP-date form is not used by
// the ZIA gateway.
func parseRetryAfter(value string) time.Duration {
	if value == "" {
		return 0
	}
	seconds, err := strconv.Atoi(value)
	if err != nil || seconds < 0 {
		return 0
	}
	return time.Duration(seconds) * time.Second
}
