package queue

import (
	"context"
	"time"

	"github.com/bft-labs/bulkqueue/pkg/log"
)

// StartTimer starts the periodic flush goroutine. It is a no-op if the timer
// is already running or the queue is closed.
func (q *Queue) StartTimer() {
	q.timerMu.Lock()
	defer q.timerMu.Unlock()

	if q.running {
		return
	}

	q.mu.Lock()
	closed := q.closed
	q.mu.Unlock()
	if closed {
		return
	}

	q.stop = make(chan struct{})
	q.done = make(chan struct{})
	q.running = true
	go q.timerLoop(q.stop, q.done)

	q.logger.Info("flush timer started", log.Duration("flush_time", q.flushTime))
}

// StopTimer stops the periodic flush goroutine. A flush already in progress
// finishes first; once StopTimer returns no further timer flush runs.
// It is a no-op if the timer is not running.
func (q *Queue) StopTimer() {
	q.timerMu.Lock()
	defer q.timerMu.Unlock()

	if !q.running {
		return
	}

	close(q.stop)
	<-q.done
	q.running = false
	q.stop = nil
	q.done = nil

	q.logger.Info("flush timer stopped")
}

// Started reports whether the periodic flush goroutine is running.
func (q *Queue) Started() bool {
	q.timerMu.Lock()
	defer q.timerMu.Unlock()
	return q.running
}

func (q *Queue) timerLoop(stop <-chan struct{}, done chan<- struct{}) {
	defer close(done)

	ticker := time.NewTicker(q.flushTime)
	defer ticker.Stop()

	for {
		select {
		case <-stop:
			return
		case <-ticker.C:
		}

		// A tick and a stop can be ready together; stop wins.
		select {
		case <-stop:
			return
		default:
		}

		q.timerFlush()
	}
}

func (q *Queue) timerFlush() {
	q.mu.Lock()
	res := q.flushLocked(context.Background(), TriggerTimer)
	q.mu.Unlock()

	if err := q.report(res); err != nil && q.onError != nil {
		q.onError(err)
	}
}
