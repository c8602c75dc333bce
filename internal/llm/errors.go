package llm

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"time"
)

// Failure kinds. Match them with errors.Is; an *Error carries the detail.
var (
	ErrRateLimited   = errors.New("rate limited")
	ErrUnavailable   = errors.New("provider unavailable")
	ErrInvalidOutput = errors.New("invalid output")
	ErrTruncated     = errors.New("reply truncated at max tokens")
	ErrRejected      = errors.New("request rejected")
)

// Error is a classified provider failure.
type Error struct {
	Kind     error
	Provider string

	// Status is the HTTP status, when there was one.
	Status int

	// RetryAfter is the server's requested wait on a rate limit.
	RetryAfter time.Duration

	// Content is the output that failed validation or was cut short.
	Content json.RawMessage

	Err error
}

func (e *Error) Error() string {
	msg := "llm"
	if e.Provider != "" {
		msg += " " + e.Provider
	}
	msg += ": " + e.Kind.Error()
	if e.Status != 0 {
		msg += fmt.Sprintf(" (status %d)", e.Status)
	}
	if e.Err != nil {
		msg += ": " + e.Err.Error()
	}
	return msg
}

func (e *Error) Unwrap() []error {
	if e.Err == nil {
		return []error{e.Kind}
	}
	return []error{e.Kind, e.Err}
}

// statusError classifies an HTTP failure. 429 is a rate limit, 5xx and
// transport failures (status 0) mean the provider is unavailable, and
// other 4xx are rejected requests that will fail again.
func statusError(provider string, status int, header http.Header, err error) error {
	e := &Error{Provider: provider, Status: status, Err: err}
	switch {
	case status == http.StatusTooManyRequests:
		e.Kind = ErrRateLimited
		e.RetryAfter = retryAfter(header)
	case status == 0 || status >= 500:
		e.Kind = ErrUnavailable
	case status == http.StatusRequestTimeout:
		e.Kind = ErrUnavailable
	default:
		e.Kind = ErrRejected
	}
	return e
}

func invalidOutput(provider string, content json.RawMessage, err error) error {
	return &Error{Kind: ErrInvalidOutput, Provider: provider, Content: content, Err: err}
}

func truncated(provider string, content json.RawMessage) error {
	return &Error{Kind: ErrTruncated, Provider: provider, Content: content}
}

// retryAfter reads a Retry-After header given in seconds.
func retryAfter(h http.Header) time.Duration {
	if h == nil {
		return 0
	}
	secs, err := strconv.Atoi(h.Get("Retry-After"))
	if err != nil || secs <= 0 {
		return 0
	}
	return time.Duration(secs) * time.Second
}
