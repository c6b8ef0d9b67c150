package config

import (
	"path/filepath"
	"testing"
)

func TestDefaultConfigValidates(t *testing.T) {
	if err := Validate(DefaultConfig()); err != nil {
		t.Fatalf("DefaultConfig should validate, got %v", err)
	}
}

func TestValidateRejectsBadFraming(t *testing.T) {
	cfg := DefaultConfig()
	cfg.TCP.Framing = "bogus"
	if err := Validate(cfg); err == nil {
		t.Fatal("expected validation error for unknown framing mode")
	}
}

func TestValidateRejectsOutOfRangePort(t *testing.T) {
	cfg := DefaultConfig()
	cfg.TCP.Port = 70000
	if err := Validate(cfg); err == nil {
		t.Fatal("expected validation error for out-of-range port")
	}
}

func TestLoadExplicitMissingPathErrors(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "does-not-exist.yaml"))
	if err == nil {
		t.Fatalf("expected error loading an explicit missing path, got cfg=%+v", cfg)
	}
}

func TestSaveAndLoadRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	want := DefaultConfig()
	want.TCP.Port = 9999

	if err := Save(path, want); err != nil {
		t.Fatalf("Save: %v", err)
	}

	got, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if got.TCP.Port != want.TCP.Port {
		t.Fatalf("got port %d, want %d", got.TCP.Port, want.TCP.Port)
	}
}
