package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestLoadConfigMissingFile(t *testing.T) {
	cfg, err := LoadConfig(filepath.Join(t.TempDir(), "missing.toml"))
	if err != nil {
		t.Fatalf("expected missing file to be ignored, got %v", err)
	}
	if cfg.Pull.Resistance != nil || cfg.Feed.Target != nil {
		t.Fatalf("expected empty config, got %+v", cfg)
	}
}

func TestLoadConfigSections(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.toml")
	data := `
[pull]
resistance = 3.0
dist-threshold = 60
refresh-duration = 1500
disabled = true

[feed]
target = "feed"
cell-height = 12

[indicator]
fade = false
color = "#FF0000"
`
	if err := os.WriteFile(path, []byte(data), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}
	cfg, err := LoadConfig(path)
	if err != nil {
		t.Fatalf("load config: %v", err)
	}
	if cfg.Pull.Resistance == nil || *cfg.Pull.Resistance != 3.0 {
		t.Fatalf("unexpected resistance: %v", cfg.Pull.Resistance)
	}
	if cfg.Pull.DistThreshold == nil || *cfg.Pull.DistThreshold != 60 {
		t.Fatalf("unexpected threshold: %v", cfg.Pull.DistThreshold)
	}
	if cfg.Pull.RefreshDuration == nil || *cfg.Pull.RefreshDuration != 1500 {
		t.Fatalf("unexpected refresh duration: %v", cfg.Pull.RefreshDuration)
	}
	if cfg.Pull.ResetDuration != nil {
		t.Fatalf("expected unset reset duration")
	}
	if cfg.Pull.Disabled == nil || !*cfg.Pull.Disabled {
		t.Fatalf("expected disabled")
	}
	if cfg.Feed.Target == nil || *cfg.Feed.Target != "feed" {
		t.Fatalf("unexpected target: %v", cfg.Feed.Target)
	}
	if cfg.Indicator.Fade == nil || *cfg.Indicator.Fade {
		t.Fatalf("expected fade=false")
	}
	if cfg.Indicator.Color == nil || *cfg.Indicator.Color != "#FF0000" {
		t.Fatalf("unexpected color: %v", cfg.Indicator.Color)
	}
}

func TestLoadConfigRejectsUnknownKeys(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.toml")
	if err := os.WriteFile(path, []byte("[pull]\nresistence = 2\n"), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}
	_, err := LoadConfig(path)
	if err == nil || !strings.Contains(err.Error(), "resistence") {
		t.Fatalf("expected unknown key error, got %v", err)
	}
}

func TestDefaultPathsUseXDG(t *testing.T) {
	t.Setenv("XDG_CONFIG_HOME", "/tmp/cfg")
	t.Setenv("XDG_DATA_HOME", "/tmp/data")
	if got := DefaultConfigPath(); got != filepath.Join("/tmp/cfg", "pullfeed", "config.toml") {
		t.Fatalf("unexpected config path %s", got)
	}
	if got := DefaultDBPath(); got != filepath.Join("/tmp/data", "pullfeed", "pullfeed.db") {
		t.Fatalf("unexpected db path %s", got)
	}
	if got := DefaultCaptionsPath(); got != filepath.Join("/tmp/cfg", "pullfeed", "captions.txt") {
		t.Fatalf("unexpected captions path %s", got)
	}
}
