package gateway

import (
	"errors"
	"fmt"
)

// ErrNotConfigured is returned before any network I/O when the gateway secret
// key is absent from configuration.
var ErrNotConfigured = errors.New("chapa secret key is not configured")

// UnavailableError covers transport failures and non-2xx HTTP responses from
// the gateway.
type UnavailableError struct {
	Op  string
	Err error
}

func (e *UnavailableError) Error() string {
	return fmt.Sprintf("chapa %s request failed: %v", e.Op, e.Err)
}

func (e *UnavailableError) Unwrap() error {
	return e.Err
}

// RejectedError means the gateway answered with HTTP 2xx but reported a
// business-level failure in the response body.
type RejectedError struct {
	Message string
}

func (e *RejectedError) Error() string {
	return e.Message
}
