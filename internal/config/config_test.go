package config

import (
	"log/slog"
	"testing"
	"time"
)

func TestLoad_Defaults(t *testing.T) {
	for _, k := range []string{"PORT", "CODEDOC_API_KEY", "WORKER_COUNT", "MAX_QUEUE_SIZE",
		"MAX_CONCURRENT_SCAN", "MAX_UPLOAD_BYTES", "MAX_NESTING_DEPTH", "JOB_TTL", "LOG_LEVEL"} {
		t.Setenv(k, "")
	}

	cfg := Load()
	if cfg.Port != "8091" {
		t.Errorf("expected port %q, got %q", "8091", cfg.Port)
	}
	if cfg.WorkerCount != 4 || cfg.MaxQueueSize != 100 || cfg.MaxConcurrentScan != 8 {
		t.Errorf("unexpected pool defaults: %+v", cfg)
	}
	if cfg.MaxNestingDepth != 256 {
		t.Errorf("expected depth 256, got %d", cfg.MaxNestingDepth)
	}
	if cfg.JobTTL != time.Hour {
		t.Errorf("expected 1h TTL, got %v", cfg.JobTTL)
	}
	if cfg.LogLevel != slog.LevelInfo {
		t.Errorf("expected info level, got %v", cfg.LogLevel)
	}
}

func TestLoad_Overrides(t *testing.T) {
	t.Setenv("PORT", "9000")
	t.Setenv("WORKER_COUNT", "2")
	t.Setenv("MAX_CONCURRENT_SCAN", "-1")
	t.Setenv("MAX_UPLOAD_BYTES", "1024")
	t.Setenv("MAX_NESTING_DEPTH", "abc")
	t.Setenv("JOB_TTL", "90s")
	t.Setenv("LOG_LEVEL", "debug")

	cfg := Load()
	if cfg.Port != "9000" {
		t.Errorf("expected port %q, got %q", "9000", cfg.Port)
	}
	if cfg.WorkerCount != 2 {
		t.Errorf("expected 2 workers, got %d", cfg.WorkerCount)
	}
	if cfg.MaxConcurrentScan != 8 {
		t.Errorf("expected invalid value to fall back to 8, got %d", cfg.MaxConcurrentScan)
	}
	if cfg.MaxUploadBytes != 1024 {
		t.Errorf("expected 1024 bytes, got %d", cfg.MaxUploadBytes)
	}
	if cfg.MaxNestingDepth != 256 {
		t.Errorf("expected unparsable depth to fall back to 256, got %d", cfg.MaxNestingDepth)
	}
	if cfg.JobTTL != 90*time.Second {
		t.Errorf("expected 90s TTL, got %v", cfg.JobTTL)
	}
	if cfg.LogLevel != slog.LevelDebug {
		t.Errorf("expected debug level, got %v", cfg.LogLevel)
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		cfg     Config
		wantErr bool
	}{
		{"ok", Config{Port: "8091", CodedocAPIKey: "k"}, false},
		{"missing key", Config{Port: "8091"}, true},
		{"bad port", Config{Port: "http", CodedocAPIKey: "k"}, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.cfg.Validate()
			if (err != nil) != tt.wantErr {
				t.Errorf("expected error %v, got %v", tt.wantErr, err)
			}
		})
	}
}
