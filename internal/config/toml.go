// Package config provides configuration helpers and TOML parsing.
package config

import (
	"fmt"
	"os"

	"github.com/BurntSushi/toml"
)

// FileConfig represents the TOML configuration file.
type FileConfig struct {
	Pull      PullConfig      `toml:"pull"`
	Feed      FeedConfig      `toml:"feed"`
	Indicator IndicatorConfig `toml:"indicator"`
}

// PullConfig maps gesture settings. Durations are milliseconds.
type PullConfig struct {
	Resistance      *float64 `toml:"resistance"`
	DistThreshold   *float64 `toml:"dist-threshold"`
	RefreshDuration *int     `toml:"refresh-duration"`
	ResetDuration   *int     `toml:"reset-duration"`
	Disabled        *bool    `toml:"disabled"`
}

// FeedConfig maps feed viewer settings.
type FeedConfig struct {
	Target       *string  `toml:"target"`
	CellHeight   *float64 `toml:"cell-height"`
	Captions     *string  `toml:"captions"`
	CaptionWords *int     `toml:"caption-words"`
}

// IndicatorConfig maps indicator presentation settings.
type IndicatorConfig struct {
	Fade      *bool   `toml:"fade"`
	Rotate    *bool   `toml:"rotate"`
	Center    *bool   `toml:"center"`
	Color     *string `toml:"color"`
	SpinSpeed *int    `toml:"spin-speed"`
}

// LoadConfig reads a TOML config from the given path. Missing file is not an error.
func LoadConfig(path string) (FileConfig, error) {
	if path == "" {
		return FileConfig{}, fmt.Errorf("config path is empty")
	}
	if _, err := os.Stat(path); err != nil {
		if os.IsNotExist(err) {
			return FileConfig{}, nil
		}
		return FileConfig{}, fmt.Errorf("failed to stat config: %w", err)
	}
	var cfg FileConfig
	md, err := toml.DecodeFile(path, &cfg)
	if err != nil {
		return FileConfig{}, fmt.Errorf("failed to decode config: %w", err)
	}
	if undecoded := md.Undecoded(); len(undecoded) > 0 {
		return FileConfig{}, fmt.Errorf("unknown config key %q", undecoded[0].String())
	}
	return cfg, nil
}
