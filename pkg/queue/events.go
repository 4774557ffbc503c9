package queue

import (
	"time"

	"github.com/bft-labs/bulkqueue/pkg/document"
)

// Trigger identifies what caused a flush.
type Trigger int

const (
	// TriggerThreshold is a flush performed by Add when the buffer fills.
	TriggerThreshold Trigger = iota
	// TriggerTimer is a flush performed by the periodic timer.
	TriggerTimer
	// TriggerManual is a flush requested through Flush.
	TriggerManual
	// TriggerClose is the final flush performed by Close.
	TriggerClose
)

// String returns a human-readable representation of the trigger.
func (t Trigger) String() string {
	switch t {
	case TriggerThreshold:
		return "threshold"
	case TriggerTimer:
		return "timer"
	case TriggerManual:
		return "manual"
	case TriggerClose:
		return "close"
	default:
		return "unknown"
	}
}

// Every event carries the buffer state it was taken from. Seq increases with
// each change to the buffer, so a handler that receives events out of order
// can discard a Pending value older than one it already applied.

// AddEvent describes an accepted document.
type AddEvent struct {
	Pending int
	Seq     uint64
}

// FlushEvent describes a successful flush.
type FlushEvent struct {
	Trigger   Trigger
	Documents int
	Duration  time.Duration
	Pending   int
	Seq       uint64
}

// FlushErrorEvent describes a failed flush. Batch is the drained batch that
// the backend rejected; handlers may persist it but must not modify it.
type FlushErrorEvent struct {
	Trigger  Trigger
	Batch    document.Batch
	Duration time.Duration
	Err      error
	Pending  int
	Seq      uint64
}

// EventHandler receives queue notifications. Methods are called synchronously
// after the queue lock is released, from the goroutine that caused the event.
// Handlers must not call StopTimer or Close.
type EventHandler interface {
	// OnDocumentAdded is called after every Add with the pending count
	// observed right after the append (and any resulting flush).
	OnDocumentAdded(event AddEvent)

	// OnFlushSuccess is called when the backend accepted a batch.
	OnFlushSuccess(event FlushEvent)

	// OnFlushError is called when the backend rejected a batch.
	OnFlushError(event FlushErrorEvent)
}

// BaseEventHandler provides no-op implementations of all EventHandler methods.
// Embed it to implement only the methods you need.
type BaseEventHandler struct{}

func (BaseEventHandler) OnDocumentAdded(event AddEvent)     {}
func (BaseEventHandler) OnFlushSuccess(event FlushEvent)    {}
func (BaseEventHandler) OnFlushError(event FlushErrorEvent) {}

// Handlers fans every event out to each handler in order. Nil handlers are skipped.
func Handlers(handlers ...EventHandler) EventHandler {
	var hs multiHandler
	for _, h := range handlers {
		if h != nil {
			hs = append(hs, h)
		}
	}
	return hs
}

type multiHandler []EventHandler

func (m multiHandler) OnDocumentAdded(event AddEvent) {
	for _, h := range m {
		h.OnDocumentAdded(event)
	}
}

func (m multiHandler) OnFlushSuccess(event FlushEvent) {
	for _, h := range m {
		h.OnFlushSuccess(event)
	}
}

func (m multiHandler) OnFlushError(event FlushErrorEvent) {
	for _, h := range m {
		h.OnFlushError(event)
	}
}
