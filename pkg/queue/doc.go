// Package queue implements the bulk flush controller at the heart of bulkqueue.
//
// A Queue buffers documents and submits them to a backend in one bulk call
// when either of two triggers fires:
//
//   - Threshold: Add appends a document and, once the buffer holds Threshold
//     documents, drains and submits it before returning to the caller.
//   - Timer: after StartTimer, a background goroutine drains and submits
//     whatever is pending every FlushTime. An empty buffer is not submitted.
//
// Both triggers share one codepath (drain everything, submit as one unit), so
// a document is submitted at most once and never silently dropped, provided
// the backend call itself does not partially fail.
//
// # Concurrency
//
// One mutex guards the buffer and is held across the backend call. An Add
// that arrives during a flush waits for that flush to finish, and Size
// reporting zero means the last batch has been answered by the backend.
//
// # Errors
//
// Invalid configuration is rejected by New with an error wrapping
// ErrInvalidConfig. Backend failures are reported as *SubmissionError: to the
// caller of Add for threshold flushes, and to the error handler and logger
// for timer flushes. Failed batches are neither retried nor re-buffered.
//
// # Lifecycle
//
// Close stops the timer and submits whatever is still buffered. A Queue that
// is dropped without Close keeps its timer goroutine alive and loses any
// pending documents.
package queue
