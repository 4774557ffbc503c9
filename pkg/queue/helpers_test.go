package queue

import (
	"context"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/bft-labs/bulkqueue/pkg/document"
)

// recordingBackend records every batch it is asked to submit.
type recordingBackend struct {
	mu       sync.Mutex
	batches  []document.Batch
	attempts int
	err      error

	// gate, when set, blocks Submit until it is closed; entered is signalled
	// on each Submit call before blocking.
	gate    chan struct{}
	entered chan struct{}
}

func (r *recordingBackend) Submit(ctx context.Context, b document.Batch) error {
	if r.entered != nil {
		r.entered <- struct{}{}
	}
	if r.gate != nil {
		<-r.gate
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	r.attempts++
	if r.err != nil {
		return r.err
	}
	cp := make(document.Batch, len(b))
	copy(cp, b)
	r.batches = append(r.batches, cp)
	return nil
}

func (r *recordingBackend) Batches() []document.Batch {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]document.Batch(nil), r.batches...)
}

func (r *recordingBackend) Submitted() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	n := 0
	for _, b := range r.batches {
		n += len(b)
	}
	return n
}

func (r *recordingBackend) Attempts() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.attempts
}

func newTestQueue(t *testing.T, backend *recordingBackend, threshold int, flushTime time.Duration, opts ...Option) *Queue {
	t.Helper()
	q, err := New(backend, Config{Threshold: threshold, FlushTime: flushTime}, opts...)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	t.Cleanup(q.StopTimer)
	return q
}

func addN(t *testing.T, q *Queue, n int) {
	t.Helper()
	for i := 0; i < n; i++ {
		if err := q.Add(context.Background(), "events", "event", map[string]any{"keyname": fmt.Sprintf("value%d", i)}); err != nil {
			t.Fatalf("Add(%d): %v", i, err)
		}
	}
}

// waitFor polls cond until it holds or timeout elapses.
func waitFor(t *testing.T, timeout time.Duration, cond func() bool) bool {
	t.Helper()
	deadline := time.Now().Add(timeout)
	for time.Now().Before(deadline) {
		if cond() {
			return true
		}
		time.Sleep(5 * time.Millisecond)
	}
	return cond()
}
