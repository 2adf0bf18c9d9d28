package config

import (
	"context"
	"testing"

	"github.com/sethvargo/go-envconfig"
)

func TestLoadDefaults(t *testing.T) {
	cfg, err := load(context.Background(), envconfig.MapLookuper(map[string]string{}))
	if err != nil {
		t.Fatalf("load: %v", err)
	}

	if cfg.Addr != ":8080" || cfg.DBPath != "devicetrack.sqlite3" {
		t.Errorf("unexpected defaults: %+v", cfg)
	}
	if cfg.SystemActor != "Admin" {
		t.Errorf("expected default actor Admin, got %q", cfg.SystemActor)
	}
	if len(cfg.AllowedOrigins) != 1 || cfg.AllowedOrigins[0] != "*" || cfg.RateLimit != 300 {
		t.Errorf("unexpected http defaults: %+v", cfg)
	}
	if cfg.DigestSchedule != "0 7 * * 1" {
		t.Errorf("unexpected digest schedule %q", cfg.DigestSchedule)
	}
}

func TestLoadOverrides(t *testing.T) {
	cfg, err := load(context.Background(), envconfig.MapLookuper(map[string]string{
		"ADDR":                 ":9000",
		"SYSTEM_ACTOR":         "field-team",
		"LOG_LEVEL":            "debug",
		"CORS_ALLOWED_ORIGINS": "https://a.example,https://b.example",
	}))
	if err != nil {
		t.Fatalf("load: %v", err)
	}

	if cfg.Addr != ":9000" || cfg.SystemActor != "field-team" || cfg.LogLevel != "debug" {
		t.Errorf("overrides not applied: %+v", cfg)
	}
	if len(cfg.AllowedOrigins) != 2 {
		t.Errorf("expected 2 origins, got %v", cfg.AllowedOrigins)
	}
}
