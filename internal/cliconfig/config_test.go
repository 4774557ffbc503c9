package cliconfig

import (
	"errors"
	"testing"
	"time"

	"github.com/bft-labs/bulkqueue/pkg/queue"
)

func TestDefaultConfig(t *testing.T) {
	t.Setenv("BULKQ_AUTH_KEY", "from-env")
	cfg := DefaultConfig()

	if cfg.Threshold != 10 {
		t.Errorf("Threshold = %d, want 10", cfg.Threshold)
	}
	if cfg.FlushTime != 30*time.Second {
		t.Errorf("FlushTime = %v, want 30s", cfg.FlushTime)
	}
	if cfg.ServiceURL != DefaultServiceURL {
		t.Errorf("ServiceURL = %s, want %s", cfg.ServiceURL, DefaultServiceURL)
	}
	if cfg.AuthKey != "from-env" {
		t.Errorf("AuthKey = %s, want from-env", cfg.AuthKey)
	}
}

func TestConfig_Validate(t *testing.T) {
	tests := []struct {
		name        string
		modify      func(*Config)
		wantErr     bool
		wantInvalid bool
		wantURL     string
	}{
		{
			name:    "valid with input",
			modify:  func(c *Config) { c.Input = "-" },
			wantURL: DefaultServiceURL,
		},
		{
			name:    "no input or spool dir",
			modify:  func(c *Config) {},
			wantErr: true,
		},
		{
			name: "once with spool dir",
			modify: func(c *Config) {
				c.SpoolDir = "/spool"
				c.Once = true
			},
			wantErr: true,
		},
		{
			name: "trailing slash trimmed",
			modify: func(c *Config) {
				c.Input = "-"
				c.ServiceURL = "http://es:9200/"
			},
			wantURL: "http://es:9200",
		},
		{
			name: "empty service url defaulted",
			modify: func(c *Config) {
				c.Input = "-"
				c.ServiceURL = ""
			},
			wantURL: DefaultServiceURL,
		},
		{
			name: "zero threshold",
			modify: func(c *Config) {
				c.Input = "-"
				c.Threshold = 0
			},
			wantErr:     true,
			wantInvalid: true,
		},
		{
			name: "negative flush time",
			modify: func(c *Config) {
				c.Input = "-"
				c.FlushTime = -time.Second
			},
			wantErr:     true,
			wantInvalid: true,
		},
		{
			name: "zero http timeout",
			modify: func(c *Config) {
				c.Input = "-"
				c.HTTPTimeout = 0
			},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := DefaultConfig()
			tt.modify(&cfg)
			err := cfg.Validate()

			if tt.wantErr {
				if err == nil {
					t.Fatal("expected error, got nil")
				}
				if tt.wantInvalid && !errors.Is(err, queue.ErrInvalidConfig) {
					t.Errorf("err = %v, want ErrInvalidConfig", err)
				}
				return
			}
			if err != nil {
				t.Fatalf("Validate: %v", err)
			}
			if cfg.ServiceURL != tt.wantURL {
				t.Errorf("ServiceURL = %s, want %s", cfg.ServiceURL, tt.wantURL)
			}
		})
	}
}

func TestQueueConfig(t *testing.T) {
	cfg := Config{Threshold: 20, FlushTime: 3 * time.Second}
	qc := cfg.QueueConfig()
	if qc.Threshold != 20 || qc.FlushTime != 3*time.Second {
		t.Errorf("QueueConfig = %+v", qc)
	}
}
