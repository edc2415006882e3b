package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load("")
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.Port != "8080" || cfg.DBPath != "grocerymate.db" {
		t.Errorf("cfg = %+v", cfg)
	}
	if cfg.RemoteURL != "" || cfg.RemoteFailureRate != 0.1 || cfg.RemoteMinDelay != 300*time.Millisecond {
		t.Errorf("remote defaults = %+v", cfg)
	}
	if cfg.Backup.Keep != 14 || cfg.Backup.Interval != 0 {
		t.Errorf("backup defaults = %+v", cfg.Backup)
	}
}

func TestLoadFromEnv(t *testing.T) {
	t.Setenv("GROCERY_PORT", "9090")
	t.Setenv("GROCERY_REMOTE_FAILURE_RATE", "0")
	t.Setenv("GROCERY_REMOTE_RETRIES", "3")
	t.Setenv("GROCERY_BACKUP_INTERVAL", "24h")

	cfg, err := Load("")
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.Port != "9090" || cfg.RemoteFailureRate != 0 || cfg.RemoteRetries != 3 {
		t.Errorf("cfg = %+v", cfg)
	}
	if cfg.Backup.Interval != 24*time.Hour {
		t.Errorf("interval = %v", cfg.Backup.Interval)
	}
}

func TestLoadDotEnv(t *testing.T) {
	path := filepath.Join(t.TempDir(), ".env")
	if err := os.WriteFile(path, []byte("GROCERY_COMPLETION_MODEL=test-model\nGROCERY_LOG_LEVEL=debug\n"), 0o600); err != nil {
		t.Fatal(err)
	}
	// Already-set variables win over the file.
	t.Setenv("GROCERY_LOG_LEVEL", "warn")
	t.Setenv("GROCERY_COMPLETION_MODEL", "")
	os.Unsetenv("GROCERY_COMPLETION_MODEL")

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.CompletionModel != "test-model" {
		t.Errorf("model = %q", cfg.CompletionModel)
	}
	if cfg.LogLevel != "warn" {
		t.Errorf("log level = %q", cfg.LogLevel)
	}
}

func TestLoadMissingDotEnv(t *testing.T) {
	if _, err := Load(filepath.Join(t.TempDir(), "absent.env")); err != nil {
		t.Errorf("missing file should be ignored: %v", err)
	}
}

func TestLoadInvalid(t *testing.T) {
	tests := []struct {
		key, value string
	}{
		{"GROCERY_PORT", "http"},
		{"GROCERY_REMOTE_FAILURE_RATE", "lots"},
		{"GROCERY_REMOTE_FAILURE_RATE", "1.5"},
		{"GROCERY_REMOTE_RETRIES", "-1"},
		{"GROCERY_BACKUP_INTERVAL", "daily"},
		{"GROCERY_REMOTE_MAX_DELAY", "1ms"},
	}
	for _, tt := range tests {
		t.Run(tt.key+"="+tt.value, func(t *testing.T) {
			t.Setenv(tt.key, tt.value)
			if _, err := Load(""); err == nil {
				t.Errorf("expected error for %s=%q", tt.key, tt.value)
			}
		})
	}
}
