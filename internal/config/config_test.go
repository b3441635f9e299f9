package config

import (
	"testing"
	"time"
)

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load()
	if err != nil {
		t.Fatalf("load config: %v", err)
	}

	if cfg.AppEnv != EnvDev {
		t.Fatalf("AppEnv = %q, want %q", cfg.AppEnv, EnvDev)
	}
	if cfg.MaxMatchesPerCycle != 12 {
		t.Fatalf("MaxMatchesPerCycle = %d, want 12", cfg.MaxMatchesPerCycle)
	}
	if cfg.ExportEveryCycles != 3 {
		t.Fatalf("ExportEveryCycles = %d, want 3", cfg.ExportEveryCycles)
	}
	if cfg.CycleInterval != 5*time.Minute {
		t.Fatalf("CycleInterval = %s, want 5m", cfg.CycleInterval)
	}
	if cfg.FeedTimeout != 15*time.Second {
		t.Fatalf("FeedTimeout = %s, want 15s", cfg.FeedTimeout)
	}
	if cfg.FeedMaxRetries != 1 {
		t.Fatalf("FeedMaxRetries = %d, want 1", cfg.FeedMaxRetries)
	}
}

func TestLoadAppEnvValidation(t *testing.T) {
	t.Setenv("APP_ENV", "production-ish")
	if _, err := Load(); err == nil {
		t.Fatal("expected error for invalid APP_ENV")
	}
}

func TestLoadUptraceRequiresDSNWhenEnabled(t *testing.T) {
	t.Setenv("APP_ENV", EnvDev)
	t.Setenv("UPTRACE_ENABLED", "true")
	t.Setenv("UPTRACE_DSN", "")

	if _, err := Load(); err == nil {
		t.Fatal("expected error when UPTRACE_ENABLED=true without UPTRACE_DSN")
	}
}

func TestLoadRejectsNonPositiveCycleSettings(t *testing.T) {
	t.Setenv("EXPORT_EVERY_CYCLES", "0")
	if _, err := Load(); err == nil {
		t.Fatal("expected error for EXPORT_EVERY_CYCLES=0")
	}
}

func TestLoadFeedOverrides(t *testing.T) {
	t.Setenv("FEED_BASE_URL", "http://localhost:9999/api/v1/")
	t.Setenv("FEED_REQUEST_INTERVAL", "250ms")
	t.Setenv("FEED_CIRCUIT_ENABLED", "false")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("load config: %v", err)
	}
	if cfg.FeedBaseURL != "http://localhost:9999/api/v1" {
		t.Fatalf("FeedBaseURL = %q, trailing slash not trimmed", cfg.FeedBaseURL)
	}
	if cfg.FeedRequestInterval != 250*time.Millisecond {
		t.Fatalf("FeedRequestInterval = %s, want 250ms", cfg.FeedRequestInterval)
	}
	if cfg.FeedCircuitEnabled {
		t.Fatal("FeedCircuitEnabled = true, want false")
	}
}
