// Package bulkqueue buffers documents for bulk submission to a search
// backend and flushes them by count or by time, whichever comes first.
//
// Example usage:
//
//	backend := sender.NewHTTPSender(&http.Client{Timeout: 15 * time.Second}, nil,
//	    sender.Endpoint{ServiceURL: "http://localhost:9200"})
//	q, err := bulkqueue.New(backend, bulkqueue.DefaultConfig())
//	if err != nil {
//	    log.Fatal(err)
//	}
//	q.StartTimer()
//	defer q.Close(context.Background())
//
//	if err := q.Add(ctx, "events", "_doc", map[string]any{"msg": "hello"}); err != nil {
//	    log.Printf("bulk submit failed: %v", err)
//	}
package bulkqueue

import (
	"github.com/bft-labs/bulkqueue/pkg/document"
	"github.com/bft-labs/bulkqueue/pkg/queue"
	"github.com/bft-labs/bulkqueue/pkg/sender"
)

// Queue accumulates documents and submits them to a backend in batches.
type Queue = queue.Queue

// Config holds the flush triggers for a Queue.
// Use DefaultConfig() to get a Config with sensible defaults.
type Config = queue.Config

// Document is a single item destined for the backend.
type Document = document.Document

// Submitter delivers one batch to the backend.
type Submitter = sender.Submitter

// Option configures optional behavior of a Queue.
type Option = queue.Option

// SubmissionError reports a failed flush.
type SubmissionError = queue.SubmissionError

var (
	// ErrInvalidConfig is returned by New for a non-positive threshold or
	// flush time, or a nil backend.
	ErrInvalidConfig = queue.ErrInvalidConfig

	// ErrClosed is returned by Add and Flush after Close.
	ErrClosed = queue.ErrClosed
)

// New creates a Queue bound to backend. The timer is not started.
func New(backend Submitter, cfg Config, opts ...Option) (*Queue, error) {
	return queue.New(backend, cfg, opts...)
}

// DefaultConfig returns a threshold of 10 documents and a 30 second flush time.
func DefaultConfig() Config {
	return queue.DefaultConfig()
}
