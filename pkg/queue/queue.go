package queue

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/bft-labs/bulkqueue/pkg/document"
	"github.com/bft-labs/bulkqueue/pkg/log"
	"github.com/bft-labs/bulkqueue/pkg/sender"
)

// Queue buffers documents and flushes them to a backend by count or by time.
// Use New to create one. All methods are safe for concurrent use.
type Queue struct {
	threshold int
	flushTime time.Duration
	backend   sender.Submitter
	logger    log.Logger
	events    EventHandler
	onError   func(error)

	// mu guards buf, seq and closed, and is held across backend submission.
	mu     sync.Mutex
	buf    buffer
	seq    uint64
	closed bool

	// timerMu guards the timer goroutine's lifecycle. Lock order: timerMu, then mu.
	timerMu sync.Mutex
	running bool
	stop    chan struct{}
	done    chan struct{}
}

// flushResult captures one drain-and-submit so it can be reported after the
// buffer lock is released.
type flushResult struct {
	trigger  Trigger
	batch    document.Batch
	duration time.Duration
	err      error
	pending  int
	seq      uint64
}

// New creates a Queue bound to backend. The queue starts empty with its
// timer stopped. Returns an error wrapping ErrInvalidConfig if backend is nil
// or cfg is invalid.
func New(backend sender.Submitter, cfg Config, opts ...Option) (*Queue, error) {
	if backend == nil {
		return nil, fmt.Errorf("%w: backend is required", ErrInvalidConfig)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	o := defaultOptions()
	for _, opt := range opts {
		opt(&o)
	}

	return &Queue{
		threshold: cfg.Threshold,
		flushTime: cfg.FlushTime,
		backend:   backend,
		logger:    log.With(o.logger, log.String("component", "bulkqueue")),
		events:    o.eventHandler,
		onError:   o.errorHandler,
		buf:       newBuffer(cfg.Threshold),
	}, nil
}

// Threshold returns the document count that triggers an immediate flush.
func (q *Queue) Threshold() int {
	return q.threshold
}

// FlushTime returns the timer interval.
func (q *Queue) FlushTime() time.Duration {
	return q.flushTime
}

// Add buffers one document. When the buffer reaches the threshold the whole
// buffer is submitted before Add returns; a backend failure is returned as a
// *SubmissionError and the batch is not re-buffered.
func (q *Queue) Add(ctx context.Context, index, docType string, body map[string]any) error {
	return q.AddDocument(ctx, document.New(index, docType, body))
}

// AddDocument is Add for an already constructed document.
func (q *Queue) AddDocument(ctx context.Context, doc document.Document) error {
	q.mu.Lock()
	if q.closed {
		q.mu.Unlock()
		return ErrClosed
	}

	q.buf.append(doc)
	q.seq++
	if q.buf.size() < q.threshold {
		added := AddEvent{Pending: q.buf.size(), Seq: q.seq}
		q.mu.Unlock()
		q.events.OnDocumentAdded(added)
		return nil
	}

	res := q.flushLocked(ctx, TriggerThreshold)
	added := AddEvent{Pending: q.buf.size(), Seq: q.seq}
	q.mu.Unlock()

	q.events.OnDocumentAdded(added)
	return q.report(res)
}

// Size returns the number of pending documents.
func (q *Queue) Size() int {
	q.mu.Lock()
	defer q.mu.Unlock()
	return q.buf.size()
}

// Flush submits whatever is buffered now, regardless of the threshold.
// An empty buffer makes no backend call.
func (q *Queue) Flush(ctx context.Context) error {
	q.mu.Lock()
	if q.closed {
		q.mu.Unlock()
		return ErrClosed
	}
	res := q.flushLocked(ctx, TriggerManual)
	q.mu.Unlock()

	return q.report(res)
}

// Close stops the timer, submits any pending documents, and rejects further
// adds with ErrClosed. Calling Close again is a no-op.
func (q *Queue) Close(ctx context.Context) error {
	q.mu.Lock()
	if q.closed {
		q.mu.Unlock()
		return nil
	}
	q.closed = true
	q.mu.Unlock()

	// closed is set first so a concurrent StartTimer cannot start a timer
	// that outlives Close.
	q.StopTimer()

	q.mu.Lock()
	res := q.flushLocked(ctx, TriggerClose)
	q.mu.Unlock()

	q.logger.Info("queue closed")
	return q.report(res)
}

// flushLocked drains the buffer and submits it. Caller holds q.mu.
// An empty buffer yields a zero result and no backend call.
func (q *Queue) flushLocked(ctx context.Context, trigger Trigger) flushResult {
	if q.buf.size() == 0 {
		return flushResult{trigger: trigger}
	}

	batch := q.buf.drain()
	q.seq++
	q.logger.Debug("flushing",
		log.String("trigger", trigger.String()),
		log.Int("documents", batch.Len()),
	)

	start := time.Now()
	err := q.backend.Submit(ctx, batch)
	return flushResult{
		trigger:  trigger,
		batch:    batch,
		duration: time.Since(start),
		err:      err,
		pending:  q.buf.size(),
		seq:      q.seq,
	}
}

// report logs a flush result, notifies the event handler, and converts a
// backend failure into a *SubmissionError. Must be called without q.mu held.
func (q *Queue) report(res flushResult) error {
	if res.batch.Empty() {
		return nil
	}

	if res.err == nil {
		q.logger.Info("batch submitted",
			log.String("trigger", res.trigger.String()),
			log.Int("documents", res.batch.Len()),
			log.Duration("duration", res.duration),
		)
		q.events.OnFlushSuccess(FlushEvent{
			Trigger:   res.trigger,
			Documents: res.batch.Len(),
			Duration:  res.duration,
			Pending:   res.pending,
			Seq:       res.seq,
		})
		return nil
	}

	q.logger.Error("batch submission failed",
		log.Err(res.err),
		log.String("trigger", res.trigger.String()),
		log.Int("documents", res.batch.Len()),
		log.Duration("duration", res.duration),
	)
	q.events.OnFlushError(FlushErrorEvent{
		Trigger:  res.trigger,
		Batch:    res.batch,
		Duration: res.duration,
		Err:      res.err,
		Pending:  res.pending,
		Seq:      res.seq,
	})
	return &SubmissionError{
		Trigger:   res.trigger,
		Documents: res.batch.Len(),
		Err:       res.err,
	}
}
