package config

import (
	"strings"
	"testing"
)

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}

	if cfg.HTTP.Port != defaultHTTPPort {
		t.Errorf("expected port %d, got %d", defaultHTTPPort, cfg.HTTP.Port)
	}
	if cfg.Storage.Backend != BackendPostgres {
		t.Errorf("expected postgres backend, got %s", cfg.Storage.Backend)
	}
	if cfg.Service.Name != defaultServiceName {
		t.Errorf("expected service name %s, got %s", defaultServiceName, cfg.Service.Name)
	}
	if !strings.Contains(cfg.Database.URL, "products") {
		t.Errorf("expected default database name in URL, got %s", cfg.Database.URL)
	}
}

func TestStorageBackendOverride(t *testing.T) {
	t.Setenv("STORAGE_BACKEND", BackendMemory)

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if cfg.Storage.Backend != BackendMemory {
		t.Errorf("expected memory backend, got %s", cfg.Storage.Backend)
	}
}

func TestStorageBackendInvalid(t *testing.T) {
	t.Setenv("STORAGE_BACKEND", "redis")

	if _, err := Load(); err == nil {
		t.Fatal("expected error for invalid storage backend")
	}
}

func TestHTTPPortInvalid(t *testing.T) {
	t.Setenv("API_HTTP_PORT", "not-a-number")

	if _, err := Load(); err == nil {
		t.Fatal("expected error for invalid port")
	}
}

func TestKafkaBrokers(t *testing.T) {
	t.Setenv("KAFKA_BROKERS", "broker-1:9092,broker-2:9092")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if len(cfg.Kafka.Brokers) != 2 {
		t.Errorf("expected 2 brokers, got %v", cfg.Kafka.Brokers)
	}
}

func TestDatabaseURLOverride(t *testing.T) {
	t.Setenv("DATABASE_URL", "postgres://app:secret@db:5432/products?sslmode=disable")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if cfg.Database.URL != "postgres://app:secret@db:5432/products?sslmode=disable" {
		t.Errorf("unexpected database URL: %s", cfg.Database.URL)
	}
}
