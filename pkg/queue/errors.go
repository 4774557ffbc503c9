package queue

import (
	"errors"
	"fmt"
)

var (
	// ErrInvalidConfig is returned by New when the configuration is unusable.
	ErrInvalidConfig = errors.New("bulkqueue: invalid configuration")

	// ErrClosed is returned by Add and Flush after Close.
	ErrClosed = errors.New("bulkqueue: queue closed")
)

// SubmissionError reports a failed bulk submission. The batch it describes
// has already left the buffer and is not retried.
type SubmissionError struct {
	Trigger   Trigger
	Documents int
	Err       error
}

func (e *SubmissionError) Error() string {
	return fmt.Sprintf("bulkqueue: %s flush of %d documents failed: %v", e.Trigger, e.Documents, e.Err)
}

// Unwrap returns the backend error.
func (e *SubmissionError) Unwrap() error {
	return e.Err
}
