package config

import (
	"os"
	"path/filepath"
	"testing"
)

func TestLoadMissingFileReturnsDefaults(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "nope.toml"))
	if err != nil {
		t.Fatalf("load missing file: %v", err)
	}
	if cfg != Default() {
		t.Errorf("config = %+v, want defaults", cfg)
	}
}

func TestLoadOverlaysDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.toml")
	content := `
[session]
signature = "6/8"
auto_play = false

[tempo]
start = 96
`
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatal(err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.Session.Signature != "6/8" || cfg.Session.AutoPlay {
		t.Errorf("session = %+v, want 6/8 without autoplay", cfg.Session)
	}
	if cfg.Tempo.Start != 96 {
		t.Errorf("tempo start = %d, want 96", cfg.Tempo.Start)
	}
	// Untouched sections keep their defaults.
	if cfg.Advance.CorrectMs != 1500 || cfg.Reward.Base != 10 {
		t.Errorf("defaults lost: %+v", cfg)
	}
}

func TestLoadRejectsMalformedFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.toml")
	if err := os.WriteFile(path, []byte("not [valid toml"), 0644); err != nil {
		t.Fatal(err)
	}
	if _, err := Load(path); err == nil {
		t.Error("expected decode error")
	}
}
