package adventure

import (
	"errors"
	"fmt"
)

// Sentinel errors for common failure scenarios
var (
	// ErrRequestConsumed is returned when a one-shot request is sent twice
	ErrRequestConsumed = errors.New("adventure: request already consumed")
)

// RetryError is returned by the retry adapter when its backoff policy gave up
// before the underlying request succeeded. It wraps the last error observed
// and records how many sends were issued.
type RetryError struct {
	// Err is the error from the final attempt.
	Err error
	// Attempts is the total number of sends issued, including the first.
	Attempts int
}

// Error implements the error interface.
func (e *RetryError) Error() string {
	if e == nil {
		return "<nil>"
	}
	return fmt.Sprintf("adventure: giving up after %d attempts: %v", e.Attempts, e.Err)
}

// Unwrap returns the error from the final attempt.
func (e *RetryError) Unwrap() error {
	if e == nil {
		return nil
	}
	return e.Err
}
