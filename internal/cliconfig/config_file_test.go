package cliconfig

import (
	"os"
	"path/filepath"
	"reflect"
	"strings"
	"testing"
	"time"
)

func TestApplyFileConfig(t *testing.T) {
	trueVal := true

	tests := []struct {
		name       string
		fileConfig FileConfig
		changed    map[string]bool
		initial    Config
		expected   Config
		wantErr    bool
	}{
		{
			name: "applies all valid config values",
			fileConfig: FileConfig{
				ServiceURL:    "http://es:9200",
				Threshold:     50,
				FlushTime:     "5s",
				HTTPTimeout:   "1m",
				SpoolDir:      "/var/spool/bulkq",
				DeadLetterDir: "/var/lib/bulkq/dead",
				Once:          &trueVal,
			},
			changed: map[string]bool{},
			initial: Config{},
			expected: Config{
				ServiceURL:    "http://es:9200",
				Threshold:     50,
				FlushTime:     5 * time.Second,
				HTTPTimeout:   time.Minute,
				SpoolDir:      "/var/spool/bulkq",
				DeadLetterDir: "/var/lib/bulkq/dead",
				Once:          true,
			},
		},
		{
			name: "respects changed flags",
			fileConfig: FileConfig{
				Threshold: 50,
				FlushTime: "5s",
			},
			changed: map[string]bool{"threshold": true},
			initial: Config{Threshold: 20},
			expected: Config{
				Threshold: 20, // unchanged because flag was set
				FlushTime: 5 * time.Second,
			},
		},
		{
			name: "keeps negative threshold for validation",
			fileConfig: FileConfig{
				Threshold: -1,
			},
			changed:  map[string]bool{},
			initial:  Config{Threshold: 10},
			expected: Config{Threshold: -1},
		},
		{
			name: "returns error for invalid flush time",
			fileConfig: FileConfig{
				FlushTime: "soon",
			},
			changed: map[string]bool{},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := tt.initial
			err := ApplyFileConfig(&cfg, tt.fileConfig, tt.changed)

			if tt.wantErr {
				if err == nil {
					t.Fatal("expected error, got nil")
				}
				return
			}
			if err != nil {
				t.Fatalf("ApplyFileConfig: %v", err)
			}
			if !reflect.DeepEqual(cfg, tt.expected) {
				t.Errorf("got %+v, want %+v", cfg, tt.expected)
			}
		})
	}
}

func TestLoadFileConfig(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.toml")
	content := `
service_url = "http://search:9200"
threshold = 20
flush_time = "3s"
default_index = "events"
once = true
`
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}

	fc, err := LoadFileConfig(path)
	if err != nil {
		t.Fatalf("LoadFileConfig: %v", err)
	}
	if fc.ServiceURL != "http://search:9200" || fc.Threshold != 20 || fc.FlushTime != "3s" {
		t.Errorf("FileConfig = %+v", fc)
	}
	if fc.DefaultIndex != "events" {
		t.Errorf("DefaultIndex = %s, want events", fc.DefaultIndex)
	}
	if fc.Once == nil || !*fc.Once {
		t.Errorf("Once = %v, want true", fc.Once)
	}
}

func TestLoadFileConfig_Errors(t *testing.T) {
	dir := t.TempDir()

	if _, err := LoadFileConfig(filepath.Join(dir, "missing.toml")); err == nil {
		t.Error("expected error for missing file")
	}

	bad := filepath.Join(dir, "bad.toml")
	if err := os.WriteFile(bad, []byte("threshold = [unclosed"), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}
	if _, err := LoadFileConfig(bad); err == nil {
		t.Error("expected error for malformed TOML")
	}
}

func TestDefaultConfigPath(t *testing.T) {
	p := DefaultConfigPath()
	if p != "" && !strings.HasSuffix(p, filepath.Join(".bulkq", "config.toml")) {
		t.Errorf("DefaultConfigPath = %s", p)
	}
}

func TestFileExists(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "x")
	if FileExists(path) {
		t.Error("FileExists = true before create")
	}
	if err := os.WriteFile(path, nil, 0o644); err != nil {
		t.Fatal(err)
	}
	if !FileExists(path) {
		t.Error("FileExists = false after create")
	}
}
