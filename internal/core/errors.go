package core

import (
	"errors"
	"fmt"
)

// ErrNotFound reports that a referenced record does not exist at mutation
// time. Callers should treat it as stale state and refresh.
var ErrNotFound = errors.New("record not found")

// ValidationError reports malformed input, such as an amount whose sign
// disagrees with the transaction type. It is never retried.
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	if e.Field == "" {
		return e.Reason
	}
	return fmt.Sprintf("invalid %s: %s", e.Field, e.Reason)
}

// IsValidation reports whether err is (or wraps) a ValidationError.
func IsValidation(err error) bool {
	var ve *ValidationError
	return errors.As(err, &ve)
}

// MutationError wraps any failure raised inside an atomic unit. By the time
// it is returned the unit has been rolled back, so no partial write survives.
type MutationError struct {
	Op  string
	Err error
}

func (e *MutationError) Error() string {
	return fmt.Sprintf("%s: %v", e.Op, e.Err)
}

func (e *MutationError) Unwrap() error {
	return e.Err
}
