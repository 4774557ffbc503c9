package cliconfig

import (
	"os"
	"path/filepath"

	toml "github.com/pelletier/go-toml/v2"
)

// FileConfig mirrors Config but uses strings for durations to make TOML friendly.
type FileConfig struct {
	ServiceURL     string `toml:"service_url"`
	AuthKey        string `toml:"auth_key"`
	HTTPTimeout    string `toml:"http_timeout"`
	Threshold      int    `toml:"threshold"`
	FlushTime      string `toml:"flush_time"`
	Input          string `toml:"input"`
	SpoolDir       string `toml:"spool_dir"`
	DefaultIndex   string `toml:"default_index"`
	DefaultDocType string `toml:"default_doc_type"`
	DeadLetterDir  string `toml:"dead_letter_dir"`
	MetricsAddr    string `toml:"metrics_addr"`
	LogLevel       string `toml:"log_level"`
	LogFormat      string `toml:"log_format"`
	Once           *bool  `toml:"once"`
}

// LoadFileConfig reads and parses a TOML config file from the given path.
func LoadFileConfig(path string) (FileConfig, error) {
	var fc FileConfig
	b, err := os.ReadFile(path)
	if err != nil {
		return fc, err
	}
	if err := toml.Unmarshal(b, &fc); err != nil {
		return fc, err
	}
	return fc, nil
}

// DefaultConfigPath returns ~/.bulkq/config.toml, or "" if the home
// directory is unknown.
func DefaultConfigPath() string {
	if h, err := os.UserHomeDir(); err == nil {
		return filepath.Join(h, ".bulkq", "config.toml")
	}
	return ""
}

// ApplyFileConfig applies configuration from a file to the Config struct.
// It respects flags that have been explicitly set (changed map).
func ApplyFileConfig(cfg *Config, fc FileConfig, changed map[string]bool) error {
	s := newConfigSetter(changed)

	s.setString("service-url", fc.ServiceURL, &cfg.ServiceURL)
	s.setString("auth-key", fc.AuthKey, &cfg.AuthKey)
	s.setString("input", fc.Input, &cfg.Input)
	s.setString("spool-dir", fc.SpoolDir, &cfg.SpoolDir)
	s.setString("default-index", fc.DefaultIndex, &cfg.DefaultIndex)
	s.setString("default-doc-type", fc.DefaultDocType, &cfg.DefaultDocType)
	s.setString("dead-letter-dir", fc.DeadLetterDir, &cfg.DeadLetterDir)
	s.setString("metrics-addr", fc.MetricsAddr, &cfg.MetricsAddr)
	s.setString("log-level", fc.LogLevel, &cfg.LogLevel)
	s.setString("log-format", fc.LogFormat, &cfg.LogFormat)

	if err := s.setDuration("timeout", fc.HTTPTimeout, &cfg.HTTPTimeout); err != nil {
		return err
	}
	if err := s.setDuration("flush-time", fc.FlushTime, &cfg.FlushTime); err != nil {
		return err
	}

	s.setInt("threshold", fc.Threshold, &cfg.Threshold)
	s.setBool("once", fc.Once, &cfg.Once)

	return nil
}

// FileExists checks if a file exists at the given path.
func FileExists(p string) bool {
	_, err := os.Stat(p)
	return err == nil
}
