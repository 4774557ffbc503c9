// Package log provides the structured logging abstraction used by bulkqueue.
//
// The queue, the HTTP sender and the CLI all log through the Logger
// interface so that embedding applications can route queue diagnostics into
// their own logging pipeline. A zerolog adapter and a no-op logger are
// provided.
//
// # Usage
//
// Console output for interactive use:
//
//	logger := log.NewZerologAdapter()
//
// JSON output at a configurable level:
//
//	logger, err := log.NewZerologAdapterFromConfig(os.Stderr, "info", "json")
//
// Component loggers carry fixed fields on every entry:
//
//	qlog := log.With(logger, log.String("component", "queue"))
//
// The no-op logger is the default for library users:
//
//	logger := log.NewNoopLogger()
package log
