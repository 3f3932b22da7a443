// Package replay runs scripted pointer gestures against a pull controller on
// a virtual clock and records what happened.
package replay

import (
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/BurntSushi/toml"

	"github.com/verte-zerg/pullfeed/internal/config"
	"github.com/verte-zerg/pullfeed/internal/model"
)

// Step actions.
const (
	ActionStart   = "start"
	ActionMove    = "move"
	ActionEnd     = "end"
	ActionWait    = "wait"
	ActionTop     = "top"
	ActionMount   = "mount"
	ActionUnmount = "unmount"
)

var (
	ErrNoSteps       = errors.New("script has no steps")
	ErrUnknownAction = errors.New("unknown action")
	ErrMissingY      = errors.New("missing y")
	ErrMissingTop    = errors.New("missing top")
	ErrNegativeWait  = errors.New("negative wait")
)

// Script is a gesture script. Pull values override the caller's settings.
type Script struct {
	Pull  config.PullConfig `toml:"pull"`
	Steps []Step            `toml:"step"`
}

// Step is one scripted event.
type Step struct {
	Action string   `toml:"action"`
	Y      *float64 `toml:"y"`
	Ms     int      `toml:"ms"`
	Top    *bool    `toml:"top"`
}

// LoadScript reads and validates a script file.
func LoadScript(path string) (Script, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Script{}, fmt.Errorf("failed to read script: %w", err)
	}
	return ParseScript(string(data))
}

// ParseScript decodes and validates a script.
func ParseScript(data string) (Script, error) {
	var s Script
	md, err := toml.Decode(data, &s)
	if err != nil {
		return Script{}, fmt.Errorf("failed to decode script: %w", err)
	}
	if undecoded := md.Undecoded(); len(undecoded) > 0 {
		return Script{}, fmt.Errorf("unknown script key %q", undecoded[0].String())
	}
	if err := s.Validate(); err != nil {
		return Script{}, err
	}
	return s, nil
}

// Validate checks every step. Errors name the 1-based step index.
func (s Script) Validate() error {
	if len(s.Steps) == 0 {
		return ErrNoSteps
	}
	for i, step := range s.Steps {
		if err := step.validate(); err != nil {
			return fmt.Errorf("step %d: %w", i+1, err)
		}
	}
	return nil
}

func (st Step) validate() error {
	switch st.Action {
	case ActionStart, ActionMove:
		if st.Y == nil {
			return fmt.Errorf("%w for %s", ErrMissingY, st.Action)
		}
	case ActionWait:
		if st.Ms < 0 {
			return fmt.Errorf("%w: %dms", ErrNegativeWait, st.Ms)
		}
	case ActionTop:
		if st.Top == nil {
			return ErrMissingTop
		}
	case ActionEnd, ActionMount, ActionUnmount:
	default:
		return fmt.Errorf("%w %q", ErrUnknownAction, st.Action)
	}
	return nil
}

// PullConfig returns base with the script's overrides applied.
func (s Script) PullConfig(base model.PullConfig) model.PullConfig {
	p := s.Pull
	if p.Resistance != nil {
		base.Resistance = *p.Resistance
	}
	if p.DistThreshold != nil {
		base.DistThreshold = *p.DistThreshold
	}
	if p.RefreshDuration != nil {
		base.RefreshDuration = time.Duration(*p.RefreshDuration) * time.Millisecond
	}
	if p.ResetDuration != nil {
		base.ResetDuration = time.Duration(*p.ResetDuration) * time.Millisecond
	}
	if p.Disabled != nil {
		base.Disabled = *p.Disabled
	}
	return base
}
