package queue

import "github.com/bft-labs/bulkqueue/pkg/log"

// Option configures optional behavior of a Queue.
type Option func(*options)

type options struct {
	logger       log.Logger
	eventHandler EventHandler
	errorHandler func(error)
}

func defaultOptions() options {
	return options{
		logger:       log.NoopLogger{},
		eventHandler: BaseEventHandler{},
	}
}

// WithLogger sets a logger for flush diagnostics.
// If not provided, a no-op logger is used.
func WithLogger(logger log.Logger) Option {
	return func(o *options) {
		if logger != nil {
			o.logger = logger
		}
	}
}

// WithEventHandler sets a handler for queue events.
func WithEventHandler(handler EventHandler) Option {
	return func(o *options) {
		if handler != nil {
			o.eventHandler = handler
		}
	}
}

// WithErrorHandler sets a callback for submission errors that have no
// synchronous caller, i.e. timer flushes. It runs on the timer goroutine
// and must not call StopTimer or Close.
func WithErrorHandler(fn func(error)) Option {
	return func(o *options) {
		o.errorHandler = fn
	}
}
