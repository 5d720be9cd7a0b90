package config

import (
	"context"
	"testing"
	"time"

	"github.com/sethvargo/go-envconfig"
)

func TestLoadFrom_Defaults(t *testing.T) {
	cfg, err := LoadFrom(context.Background(), envconfig.MapLookuper(map[string]string{}))
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.Port != "3000" {
		t.Fatalf("expected default port 3000, got %q", cfg.Port)
	}
	if cfg.Storage.Driver != DriverSQLite {
		t.Fatalf("expected sqlite driver, got %q", cfg.Storage.Driver)
	}
	if cfg.API.Timeout != 15*time.Second {
		t.Fatalf("expected 15s timeout, got %v", cfg.API.Timeout)
	}
	if !cfg.IsDevelopment() {
		t.Fatalf("expected development env by default")
	}
}

func TestLoadFrom_Overrides(t *testing.T) {
	cfg, err := LoadFrom(context.Background(), envconfig.MapLookuper(map[string]string{
		"API_BASE_URL":   "https://kanban.example.com",
		"API_PREFIX":     "/api",
		"STORAGE_DRIVER": "redis",
		"REDIS_DB":       "2",
		"REDIS_PASSWORD": "s3cret",
	}))
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.API.BaseURL != "https://kanban.example.com" || cfg.API.Prefix != "/api" {
		t.Fatalf("unexpected api config: %+v", cfg.API)
	}
	if cfg.Storage.Driver != DriverRedis || cfg.Redis.DB != 2 || cfg.Redis.Password != "s3cret" {
		t.Fatalf("unexpected storage config: %+v %+v", cfg.Storage, cfg.Redis)
	}
}

func TestLoadFrom_UnknownDriver(t *testing.T) {
	_, err := LoadFrom(context.Background(), envconfig.MapLookuper(map[string]string{
		"STORAGE_DRIVER": "etcd",
	}))
	if err == nil {
		t.Fatalf("expected error for unknown driver")
	}
}
