package services

import "errors"

// ErrNotFound covers lookup misses and ownership mismatches. For payment
// verification it also covers already-finalized payments, which keeps a
// terminal payment from being processed twice.
var ErrNotFound = errors.New("not found")

type ValidationError struct {
	Message string
}

func (e *ValidationError) Error() string {
	return e.Message
}
