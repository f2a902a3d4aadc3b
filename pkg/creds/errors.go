package creds

import (
	"errors"
	"fmt"
)

var (
	// ErrUnavailable is returned when no container credentials endpoint is
	// configured. It is not a failure: the process is running somewhere that
	// doesn't issue container credentials.
	ErrUnavailable = errors.New("container credentials endpoint not configured")
	// ErrTimeout is returned when the endpoint didn't answer within the fetch timeout.
	ErrTimeout = errors.New("timed out fetching credentials")
	// ErrRequestFailed covers transport failures other than timeouts.
	ErrRequestFailed = errors.New("error requesting credentials")
	// ErrBadResponse is returned for a non-200 status or an unparseable body.
	ErrBadResponse = errors.New("bad response from credentials endpoint")
	// ErrIncomplete is returned when a 200 response lacks a required secret.
	ErrIncomplete = errors.New("incomplete credentials")
)

// FetchError describes a failed fetch. Reason is one of the sentinel errors
// above and can be matched with errors.Is.
type FetchError struct {
	Reason     error
	StatusCode int
	Body       string
	Err        error
}

func (e *FetchError) Error() string {
	msg := e.Reason.Error()
	if e.StatusCode != 0 {
		msg = fmt.Sprintf("%s: status %d", msg, e.StatusCode)
	}
	if e.Body != "" {
		msg = fmt.Sprintf("%s: %s", msg, e.Body)
	}
	if e.Err != nil {
		msg = fmt.Sprintf("%s: %s", msg, e.Err.Error())
	}
	return msg
}

func (e *FetchError) Is(target error) bool {
	return target == e.Reason
}

func (e *FetchError) Unwrap() error {
	return e.Err
}

// reasonLabel maps an error to the label used on the fetch error metrics.
func reasonLabel(err error) string {
	switch {
	case errors.Is(err, ErrTimeout):
		return "timeout"
	case errors.Is(err, ErrRequestFailed):
		return "request_failed"
	case errors.Is(err, ErrBadResponse):
		return "bad_response"
	case errors.Is(err, ErrIncomplete):
		return "incomplete"
	default:
		return "unknown"
	}
}
