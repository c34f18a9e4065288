package config

import "testing"

func TestLoadRequiresDSN(t *testing.T) {
	t.Setenv("DB_DSN", "")
	if _, err := Load(); err == nil {
		t.Fatal("expected error when DB_DSN is missing")
	}
}

func TestLoadDefaults(t *testing.T) {
	t.Setenv("DB_DSN", "postgres://localhost/orbit")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.DB.MaxConns != 10 {
		t.Errorf("expected default DB.MaxConns 10, got %d", cfg.DB.MaxConns)
	}
	if cfg.API.Port != ":8080" {
		t.Errorf("expected default API.Port :8080, got %q", cfg.API.Port)
	}
	if cfg.API.BasePath != "/api/v1" {
		t.Errorf("expected default API.BasePath /api/v1, got %q", cfg.API.BasePath)
	}
	if cfg.Notification.QueueSize != 500 || cfg.Notification.MaxWorkers != 10 {
		t.Errorf("unexpected dispatch defaults: queue %d, workers %d",
			cfg.Notification.QueueSize, cfg.Notification.MaxWorkers)
	}
	if cfg.Logging.Level != "info" {
		t.Errorf("expected default log level info, got %q", cfg.Logging.Level)
	}
}

func TestLoadOverrides(t *testing.T) {
	t.Setenv("DB_DSN", "postgres://localhost/orbit")
	t.Setenv("DB_MAX_CONNS", "25")
	t.Setenv("API_PORT", ":9000")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.DB.MaxConns != 25 {
		t.Errorf("expected DB.MaxConns 25, got %d", cfg.DB.MaxConns)
	}
	if cfg.API.Port != ":9000" {
		t.Errorf("expected API.Port :9000, got %q", cfg.API.Port)
	}
}
