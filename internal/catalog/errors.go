package catalog

import (
	"errors"
	"fmt"
)

// Sentinel errors for catalog API operations.
var (
	ErrRateLimited      = errors.New("catalog: rate limited by server")
	ErrBadRequest       = errors.New("catalog: bad request")
	ErrServer           = errors.New("catalog: server error")
	ErrUnexpectedStatus = errors.New("catalog: unexpected status")
)

// Error carries the HTTP status and response body of a failed call.
// Status is zero for failures that never produced a response.
type Error struct {
	Status int
	Body   string
	Err    error
}

func (e *Error) Error() string {
	if e.Status == 0 {
		return fmt.Sprintf("catalog API error: %v", e.Err)
	}
	if e.Body == "" {
		return fmt.Sprintf("catalog API error (%d): %v", e.Status, e.Err)
	}
	return fmt.Sprintf("catalog API error (%d): %s", e.Status, e.Body)
}

func (e *Error) Unwrap() error {
	return e.Err
}

func statusError(status int, body []byte) error {
	var sentinel error
	switch {
	case status == 429:
		sentinel = ErrRateLimited
	case status == 400:
		sentinel = ErrBadRequest
	case status >= 500:
		sentinel = ErrServer
	default:
		sentinel = ErrUnexpectedStatus
	}
	return &Error{Status: status, Body: truncateBody(body), Err: sentinel}
}

func truncateBody(body []byte) string {
	const limit = 512
	if len(body) > limit {
		return string(body[:limit]) + "..."
	}
	return string(body)
}
