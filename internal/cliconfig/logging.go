package cliconfig

import (
	"os"
	"time"

	"github.com/rs/zerolog"

	"github.com/bft-labs/bulkqueue/pkg/log"
)

var logger = zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.RFC3339}).
	With().Timestamp().Logger()

// Logger returns the bootstrap logger used before configuration is loaded.
func Logger() zerolog.Logger {
	return logger
}

// NewLogger builds the structured logger selected by cfg.
func NewLogger(cfg Config) (*log.ZerologAdapter, error) {
	return log.NewZerologAdapterFromConfig(os.Stderr, cfg.LogLevel, cfg.LogFormat)
}
