package config

import (
	"os"
	"testing"
	"time"

	"github.com/Ptchwir3/Aetharia/internal/zone"
)

func TestDefaultMatchesSpecDefaults(t *testing.T) {
	cfg := Default()
	if cfg.Port != 8080 {
		t.Errorf("default port = %d, want 8080", cfg.Port)
	}
	if cfg.WorldSeed != 12345 {
		t.Errorf("default world seed = %d, want 12345", cfg.WorldSeed)
	}
	if cfg.Heartbeat != 30*time.Second {
		t.Errorf("default heartbeat = %v, want 30s", cfg.Heartbeat)
	}
	if cfg.Debug {
		t.Errorf("default debug = true, want false")
	}
}

func TestLoadAppliesEnvironmentOverrides(t *testing.T) {
	for k, v := range map[string]string{
		"PORT":                "9090",
		"AETHARIA_WORLD_SEED": "42",
		"AETHARIA_HEARTBEAT":  "5000",
		"AETHARIA_DEBUG":      "true",
	} {
		t.Setenv(k, v)
	}

	cfg := Load("")
	if cfg.Port != 9090 {
		t.Errorf("Port = %d, want 9090", cfg.Port)
	}
	if cfg.WorldSeed != 42 {
		t.Errorf("WorldSeed = %d, want 42", cfg.WorldSeed)
	}
	if cfg.Heartbeat != 5*time.Second {
		t.Errorf("Heartbeat = %v, want 5s", cfg.Heartbeat)
	}
	if !cfg.Debug {
		t.Errorf("Debug = false, want true")
	}
}

func TestLoadIgnoresMalformedValues(t *testing.T) {
	t.Setenv("PORT", "not-a-number")
	cfg := Load("")
	if cfg.Port != 8080 {
		t.Errorf("Port = %d, want default 8080 when PORT is malformed", cfg.Port)
	}
}

func TestLoadReadsZonesFile(t *testing.T) {
	dir := t.TempDir()
	path := dir + "/zones.yaml"
	doc := []byte("zones:\n  - id: arena\n    min_x: 0\n    max_x: 1\n    min_y: 0\n    max_y: 1\n")
	if err := os.WriteFile(path, doc, 0o644); err != nil {
		t.Fatalf("write zones file: %v", err)
	}

	cfg := Load(path)
	if len(cfg.Zones.Zones) != 1 || cfg.Zones.Zones[0].ID != "arena" {
		t.Errorf("expected zones file to be loaded, got %+v", cfg.Zones)
	}
}

func TestLoadFallsBackToDefaultZonesWhenFileAbsent(t *testing.T) {
	cfg := Load("/nonexistent/zones.yaml")
	want := zone.DefaultTable()
	if len(cfg.Zones.Zones) != len(want.Zones) {
		t.Errorf("expected default zone table when file absent, got %+v", cfg.Zones)
	}
}
