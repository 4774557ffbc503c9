package cliconfig

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/bft-labs/bulkqueue/pkg/queue"
)

// DefaultServiceURL is the default bulk API endpoint.
const DefaultServiceURL = "http://localhost:9200"

// Config holds CLI configuration for bulkq.
type Config struct {
	ServiceURL  string
	AuthKey     string
	HTTPTimeout time.Duration

	Threshold int
	FlushTime time.Duration

	Input          string
	SpoolDir       string
	DefaultIndex   string
	DefaultDocType string

	DeadLetterDir string
	MetricsAddr   string

	LogLevel  string
	LogFormat string
	Once      bool
}

// DefaultConfig returns a Config with default values.
func DefaultConfig() Config {
	q := queue.DefaultConfig()
	return Config{
		ServiceURL:     DefaultServiceURL,
		HTTPTimeout:    15 * time.Second,
		Threshold:      q.Threshold,
		FlushTime:      q.FlushTime,
		DefaultDocType: "_doc",
		LogLevel:       "info",
		LogFormat:      "console",
		AuthKey:        os.Getenv("BULKQ_AUTH_KEY"),
	}
}

// QueueConfig returns the queue triggers.
func (c Config) QueueConfig() queue.Config {
	return queue.Config{Threshold: c.Threshold, FlushTime: c.FlushTime}
}

// Validate checks the configuration for errors and normalizes derived values.
func (c *Config) Validate() error {
	if c.Input == "" && c.SpoolDir == "" {
		return fmt.Errorf("nothing to ingest: set --input or --spool-dir")
	}
	if c.Once && c.SpoolDir != "" {
		return fmt.Errorf("--once cannot be combined with --spool-dir")
	}

	if c.ServiceURL == "" {
		c.ServiceURL = DefaultServiceURL
	}
	c.ServiceURL = strings.TrimRight(c.ServiceURL, "/")

	if err := c.QueueConfig().Validate(); err != nil {
		return err
	}
	if c.HTTPTimeout <= 0 {
		return fmt.Errorf("http timeout must be positive")
	}

	return nil
}

// configSetter helps apply configuration values while respecting flag precedence.
// It only applies values if the corresponding flag hasn't been explicitly set.
type configSetter struct {
	changed map[string]bool
}

func newConfigSetter(changed map[string]bool) *configSetter {
	return &configSetter{changed: changed}
}

// setString sets a string value if not empty and flag not changed.
func (s *configSetter) setString(flag, value string, dst *string) {
	if value == "" || s.changed[flag] {
		return
	}
	*dst = value
}

// setInt sets an int value if flag not changed. Zero means unset; negative
// values are kept so Validate can reject them.
func (s *configSetter) setInt(flag string, value int, dst *int) {
	if value == 0 || s.changed[flag] {
		return
	}
	*dst = value
}

// setDuration parses and sets a duration from string if valid and flag not changed.
func (s *configSetter) setDuration(flag, value string, dst *time.Duration) error {
	if value == "" || s.changed[flag] {
		return nil
	}
	d, err := time.ParseDuration(value)
	if err != nil {
		return fmt.Errorf("parse %s: %w", flag, err)
	}
	*dst = d
	return nil
}

// setBool sets a bool value from a pointer if not nil and flag not changed.
func (s *configSetter) setBool(flag string, value *bool, dst *bool) {
	if value == nil || s.changed[flag] {
		return
	}
	*dst = *value
}

// setIntFromString parses a string to int and sets the destination.
func (s *configSetter) setIntFromString(flag, value string, dst *int) error {
	if value == "" || s.changed[flag] {
		return nil
	}
	i, err := strconv.Atoi(value)
	if err != nil {
		return fmt.Errorf("parse %s: %w", flag, err)
	}
	*dst = i
	return nil
}

// setBoolFromString accepts "true" and "1" as true, anything else as false.
func (s *configSetter) setBoolFromString(flag, value string, dst *bool) {
	if value == "" || s.changed[flag] {
		return
	}
	*dst = value == "true" || value == "1"
}
