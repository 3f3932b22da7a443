package pull

import (
	"errors"
	"math"
	"testing"
	"time"
)

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig(func() {})
	if cfg.Resistance != 2.5 || cfg.DistThreshold != 72 {
		t.Fatalf("unexpected distance defaults: %+v", cfg)
	}
	if cfg.RefreshDuration != time.Second || cfg.ResetDuration != 400*time.Millisecond {
		t.Fatalf("unexpected duration defaults: %+v", cfg)
	}
	if cfg.Disabled {
		t.Fatalf("expected controller to be enabled by default")
	}
	if err := cfg.Validate(); err != nil {
		t.Fatalf("expected defaults to validate, got %v", err)
	}
}

func TestValidateRejectsInvalidConfig(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
		want   error
	}{
		{"zero resistance", func(c *Config) { c.Resistance = 0 }, ErrInvalidResistance},
		{"negative resistance", func(c *Config) { c.Resistance = -1 }, ErrInvalidResistance},
		{"nan resistance", func(c *Config) { c.Resistance = math.NaN() }, ErrInvalidResistance},
		{"zero threshold", func(c *Config) { c.DistThreshold = 0 }, ErrInvalidThreshold},
		{"infinite threshold", func(c *Config) { c.DistThreshold = math.Inf(1) }, ErrInvalidThreshold},
		{"negative refresh", func(c *Config) { c.RefreshDuration = -time.Millisecond }, ErrInvalidDuration},
		{"negative reset", func(c *Config) { c.ResetDuration = -time.Millisecond }, ErrInvalidDuration},
		{"missing refresh", func(c *Config) { c.OnRefresh = nil }, ErrMissingRefresh},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := DefaultConfig(func() {})
			tt.mutate(&cfg)
			err := cfg.Validate()
			if !errors.Is(err, tt.want) {
				t.Fatalf("expected %v, got %v", tt.want, err)
			}
			if _, err := New(cfg, NewFakeSurface(), NewFakeScheduler()); !errors.Is(err, tt.want) {
				t.Fatalf("expected New to fail with %v, got %v", tt.want, err)
			}
		})
	}
}

func TestNewRequiresCollaborators(t *testing.T) {
	cfg := DefaultConfig(func() {})
	if _, err := New(cfg, nil, NewFakeScheduler()); !errors.Is(err, ErrMissingSurface) {
		t.Fatalf("expected missing surface error, got %v", err)
	}
	if _, err := New(cfg, NewFakeSurface(), nil); !errors.Is(err, ErrMissingScheduler) {
		t.Fatalf("expected missing scheduler error, got %v", err)
	}
	c, err := New(cfg, NewFakeSurface(), NewFakeScheduler())
	if err != nil {
		t.Fatalf("new controller: %v", err)
	}
	if c.State().Status != StatusReady {
		t.Fatalf("expected ready, got %s", c.State().Status)
	}
	if c.Mounted() {
		t.Fatalf("expected controller to start unmounted")
	}
}
