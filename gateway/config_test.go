package gateway_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/wadash/wadash/gateway"
)

func TestDefaultConfig(t *testing.T) {
	cfg := gateway.DefaultConfig()

	if cfg.Dialer != "loopback" {
		t.Errorf("got dialer %q, want loopback", cfg.Dialer)
	}
	if cfg.Observer != "slog" {
		t.Errorf("got observer %q, want slog", cfg.Observer)
	}
	if cfg.FeedBuffer != 100 {
		t.Errorf("got feed buffer %d, want 100", cfg.FeedBuffer)
	}
	if cfg.Web.Addr != ":3000" {
		t.Errorf("got web addr %q, want :3000", cfg.Web.Addr)
	}
	if cfg.NumberPlan.CountryCode != "62" {
		t.Errorf("got country code %q, want 62", cfg.NumberPlan.CountryCode)
	}
	if cfg.Supervisor.InitialBackoffMS != 1000 {
		t.Errorf("got initial backoff %d, want 1000", cfg.Supervisor.InitialBackoffMS)
	}
}

func TestConfig_Merge(t *testing.T) {
	cfg := gateway.DefaultConfig()
	cfg.Merge(&gateway.Config{
		Dialer: "custom",
		Web:    gateway.WebConfig{APIKey: "secret"},
	})

	if cfg.Dialer != "custom" {
		t.Errorf("got dialer %q, want custom", cfg.Dialer)
	}
	if cfg.Web.APIKey != "secret" {
		t.Errorf("got api key %q, want secret", cfg.Web.APIKey)
	}
	if cfg.Web.Addr != ":3000" {
		t.Errorf("merge clobbered web addr: %q", cfg.Web.Addr)
	}
	if cfg.Observer != "slog" {
		t.Errorf("merge clobbered observer: %q", cfg.Observer)
	}
}

func TestLoadConfig(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.json")
	content := `{
		"dialer": "loopback",
		"web": {"addr": ":8080", "api_key": "secret"},
		"supervisor": {"max_retries": 5},
		"auto_reply": {"trigger": "ping", "reply": "pong"}
	}`
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		t.Fatalf("write config: %v", err)
	}

	cfg, err := gateway.LoadConfig(path)
	if err != nil {
		t.Fatalf("load config: %v", err)
	}

	if cfg.Web.Addr != ":8080" {
		t.Errorf("got web addr %q, want :8080", cfg.Web.Addr)
	}
	if cfg.Supervisor.MaxRetries != 5 {
		t.Errorf("got max retries %d, want 5", cfg.Supervisor.MaxRetries)
	}
	if cfg.Supervisor.InitialBackoffMS != 1000 {
		t.Errorf("defaults lost on merge: backoff %d", cfg.Supervisor.InitialBackoffMS)
	}
	if cfg.AutoReply.Trigger != "ping" || cfg.AutoReply.Reply != "pong" {
		t.Errorf("got auto reply %+v", cfg.AutoReply)
	}
}

func TestLoadConfig_MissingFile(t *testing.T) {
	if _, err := gateway.LoadConfig(filepath.Join(t.TempDir(), "missing.json")); err == nil {
		t.Error("expected error for missing file")
	}
}
