package cliconfig

import "os"

// ApplyEnvConfig applies configuration from environment variables (BULKQ_*).
// It respects flags that have been explicitly set (changed map).
// Returns error if any environment variable has an invalid format.
func ApplyEnvConfig(cfg *Config, changed map[string]bool) error {
	s := newConfigSetter(changed)

	s.setString("service-url", os.Getenv("BULKQ_SERVICE_URL"), &cfg.ServiceURL)
	s.setString("auth-key", os.Getenv("BULKQ_AUTH_KEY"), &cfg.AuthKey)
	s.setString("input", os.Getenv("BULKQ_INPUT"), &cfg.Input)
	s.setString("spool-dir", os.Getenv("BULKQ_SPOOL_DIR"), &cfg.SpoolDir)
	s.setString("default-index", os.Getenv("BULKQ_DEFAULT_INDEX"), &cfg.DefaultIndex)
	s.setString("default-doc-type", os.Getenv("BULKQ_DEFAULT_DOC_TYPE"), &cfg.DefaultDocType)
	s.setString("dead-letter-dir", os.Getenv("BULKQ_DEAD_LETTER_DIR"), &cfg.DeadLetterDir)
	s.setString("metrics-addr", os.Getenv("BULKQ_METRICS_ADDR"), &cfg.MetricsAddr)
	s.setString("log-level", os.Getenv("BULKQ_LOG_LEVEL"), &cfg.LogLevel)
	s.setString("log-format", os.Getenv("BULKQ_LOG_FORMAT"), &cfg.LogFormat)

	if err := s.setDuration("timeout", os.Getenv("BULKQ_HTTP_TIMEOUT"), &cfg.HTTPTimeout); err != nil {
		return err
	}
	if err := s.setDuration("flush-time", os.Getenv("BULKQ_FLUSH_TIME"), &cfg.FlushTime); err != nil {
		return err
	}
	if err := s.setIntFromString("threshold", os.Getenv("BULKQ_THRESHOLD"), &cfg.Threshold); err != nil {
		return err
	}

	s.setBoolFromString("once", os.Getenv("BULKQ_ONCE"), &cfg.Once)

	return nil
}
