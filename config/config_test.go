package config

import (
	"testing"
	"time"
)

func TestNew(t *testing.T) {
	cfg := New()

	if cfg.Port != "8080" {
		t.Errorf("expected default port 8080, got %s", cfg.Port)
	}
	if cfg.ReadTimeout != 30*time.Second {
		t.Errorf("expected default read timeout 30s, got %v", cfg.ReadTimeout)
	}
	if cfg.WriteTimeout != 30*time.Second {
		t.Errorf("expected default write timeout 30s, got %v", cfg.WriteTimeout)
	}
	if cfg.MaxBodySize != 100*1024 {
		t.Errorf("expected default max body size 102400, got %d", cfg.MaxBodySize)
	}
	if cfg.SnapshotPath != "roster.json" {
		t.Errorf("expected default snapshot path roster.json, got %s", cfg.SnapshotPath)
	}
	if cfg.APIKey != "" {
		t.Errorf("expected no default API key, got %s", cfg.APIKey)
	}
	if cfg.UpstreamTimeout != 15*time.Second {
		t.Errorf("expected default upstream timeout 15s, got %v", cfg.UpstreamTimeout)
	}
	if cfg.VerifyTimeout != 15*time.Second {
		t.Errorf("expected default verify timeout 15s, got %v", cfg.VerifyTimeout)
	}
	if cfg.BulkDelay != time.Second {
		t.Errorf("expected default bulk delay 1s, got %v", cfg.BulkDelay)
	}
	if cfg.ValidateRPS != 5 {
		t.Errorf("expected default validate rps 5, got %v", cfg.ValidateRPS)
	}
}

func TestNewWithEnvVars(t *testing.T) {
	t.Setenv("ROSTER_PORT", "9090")
	t.Setenv("ROSTER_READ_TIMEOUT", "45s")
	t.Setenv("ROSTER_MAX_BODY_SIZE", "2048")
	t.Setenv("ROSTER_SNAPSHOT_PATH", "/var/lib/roster/users.json")
	t.Setenv("ROSTER_API_KEY", "test-key")
	t.Setenv("ROSTER_UPSTREAM_TIMEOUT", "5s")
	t.Setenv("ROSTER_BULK_DELAY", "250ms")
	t.Setenv("ROSTER_VALIDATE_RPS", "2.5")

	cfg := New()

	if cfg.Port != "9090" {
		t.Errorf("expected port 9090, got %s", cfg.Port)
	}
	if cfg.ReadTimeout != 45*time.Second {
		t.Errorf("expected read timeout 45s, got %v", cfg.ReadTimeout)
	}
	if cfg.MaxBodySize != 2048 {
		t.Errorf("expected max body size 2048, got %d", cfg.MaxBodySize)
	}
	if cfg.SnapshotPath != "/var/lib/roster/users.json" {
		t.Errorf("expected snapshot path /var/lib/roster/users.json, got %s", cfg.SnapshotPath)
	}
	if cfg.APIKey != "test-key" {
		t.Errorf("expected API key test-key, got %s", cfg.APIKey)
	}
	if cfg.UpstreamTimeout != 5*time.Second {
		t.Errorf("expected upstream timeout 5s, got %v", cfg.UpstreamTimeout)
	}
	if cfg.BulkDelay != 250*time.Millisecond {
		t.Errorf("expected bulk delay 250ms, got %v", cfg.BulkDelay)
	}
	if cfg.ValidateRPS != 2.5 {
		t.Errorf("expected validate rps 2.5, got %v", cfg.ValidateRPS)
	}
}

func TestNewWithInvalidEnvVars(t *testing.T) {
	t.Setenv("ROSTER_READ_TIMEOUT", "not-a-duration")
	t.Setenv("ROSTER_MAX_BODY_SIZE", "not-a-number")
	t.Setenv("ROSTER_VALIDATE_RPS", "not-a-float")

	cfg := New()

	if cfg.ReadTimeout != 30*time.Second {
		t.Errorf("expected fallback read timeout 30s, got %v", cfg.ReadTimeout)
	}
	if cfg.MaxBodySize != 100*1024 {
		t.Errorf("expected fallback max body size 102400, got %d", cfg.MaxBodySize)
	}
	if cfg.ValidateRPS != 5 {
		t.Errorf("expected fallback validate rps 5, got %v", cfg.ValidateRPS)
	}
}
