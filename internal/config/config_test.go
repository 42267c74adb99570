package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestLoadConfigDefaults(t *testing.T) {
	cfg, err := LoadConfig("")
	if err != nil {
		t.Fatalf("LoadConfig() error: %v", err)
	}

	if cfg.Server.Port != 8080 {
		t.Errorf("Server.Port = %d, want 8080", cfg.Server.Port)
	}
	if cfg.Pipeline.Concurrency != 4 {
		t.Errorf("Pipeline.Concurrency = %d, want 4", cfg.Pipeline.Concurrency)
	}
	if cfg.LLM.Provider != "claude" {
		t.Errorf("LLM.Provider = %q, want claude", cfg.LLM.Provider)
	}
	if cfg.Fetcher.MaxRetries != 3 {
		t.Errorf("Fetcher.MaxRetries = %d, want 3", cfg.Fetcher.MaxRetries)
	}
	if cfg.Scheduler.Enabled {
		t.Error("scheduler must be disabled by default")
	}
	if cfg.Redis.Enabled {
		t.Error("redis cache must be disabled by default")
	}
}

func TestLoadConfigEnvOverrides(t *testing.T) {
	t.Setenv("PORT", "9090")
	t.Setenv("LLM_API_KEY", "test-key")
	t.Setenv("SCHEDULER_SPEC", "@every 1h")
	t.Setenv("REDIS_URL", "redis://cache.internal:6379")

	cfg, err := LoadConfig("")
	if err != nil {
		t.Fatalf("LoadConfig() error: %v", err)
	}

	if cfg.Server.Port != 9090 {
		t.Errorf("Server.Port = %d, want 9090", cfg.Server.Port)
	}
	if cfg.LLM.APIKey != "test-key" {
		t.Errorf("LLM.APIKey = %q", cfg.LLM.APIKey)
	}
	if !cfg.Scheduler.Enabled || cfg.Scheduler.Spec != "@every 1h" {
		t.Errorf("scheduler override not applied: %+v", cfg.Scheduler)
	}
	if !cfg.Redis.Enabled || cfg.Redis.URL != "redis://cache.internal:6379" {
		t.Errorf("redis override not applied: %+v", cfg.Redis)
	}
}

func TestLoadConfigYAMLWithEnvExpansion(t *testing.T) {
	t.Setenv("TEST_WEBHOOK", "https://hooks.example.com/T123")

	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	content := `
server:
  port: 7070
pipeline:
  run_timeout: 5m
notifications:
  slack:
    webhook_url: "${TEST_WEBHOOK}"
`
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}

	cfg, err := LoadConfig(path)
	if err != nil {
		t.Fatalf("LoadConfig() error: %v", err)
	}

	if cfg.Server.Port != 7070 {
		t.Errorf("Server.Port = %d, want 7070", cfg.Server.Port)
	}
	if cfg.Pipeline.RunTimeout != 5*time.Minute {
		t.Errorf("Pipeline.RunTimeout = %v, want 5m", cfg.Pipeline.RunTimeout)
	}
	if cfg.Notifications.Slack.WebhookURL != "https://hooks.example.com/T123" {
		t.Errorf("env expansion failed: %q", cfg.Notifications.Slack.WebhookURL)
	}
	// Sections absent from the file keep their defaults
	if cfg.LLM.Model != "claude-3-5-haiku-latest" {
		t.Errorf("LLM.Model default lost: %q", cfg.LLM.Model)
	}
}
