package queue

import (
	"fmt"
	"time"
)

// Defaults applied by DefaultConfig.
const (
	DefaultThreshold = 10
	DefaultFlushTime = 30 * time.Second
)

// Config holds the flush triggers of a Queue. Both fields are fixed once the
// Queue is built. Start from DefaultConfig; zero values are rejected, not
// replaced with defaults.
type Config struct {
	// Threshold is the document count that triggers an immediate flush.
	Threshold int

	// FlushTime is the interval between timer-driven flushes.
	FlushTime time.Duration
}

// DefaultConfig returns a Config with Threshold 10 and FlushTime 30s.
func DefaultConfig() Config {
	return Config{
		Threshold: DefaultThreshold,
		FlushTime: DefaultFlushTime,
	}
}

// Validate checks that both triggers are positive.
func (c Config) Validate() error {
	if c.Threshold <= 0 {
		return fmt.Errorf("%w: threshold must be positive, got %d", ErrInvalidConfig, c.Threshold)
	}
	if c.FlushTime <= 0 {
		return fmt.Errorf("%w: flush time must be positive, got %s", ErrInvalidConfig, c.FlushTime)
	}
	return nil
}
