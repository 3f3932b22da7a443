package pull

import (
	"errors"
	"fmt"
	"math"
	"time"
)

// Defaults used by DefaultConfig.
const (
	DefaultResistance      = 2.5
	DefaultDistThreshold   = 72.0
	DefaultRefreshDuration = 1000 * time.Millisecond
	DefaultResetDuration   = 400 * time.Millisecond
)

var (
	ErrInvalidResistance = errors.New("resistance must be a positive number")
	ErrInvalidThreshold  = errors.New("distance threshold must be a positive number")
	ErrInvalidDuration   = errors.New("duration must be >= 0")
	ErrMissingRefresh    = errors.New("refresh action is required")
	ErrMissingSurface    = errors.New("surface is required")
	ErrMissingScheduler  = errors.New("scheduler is required")
)

// Config is fixed for the lifetime of a Controller.
type Config struct {
	// Resistance divides the raw drag distance.
	Resistance float64
	// DistThreshold is the pulled distance that commits a refresh.
	DistThreshold float64
	// RefreshDuration is how long the refreshing state is held.
	RefreshDuration time.Duration
	// ResetDuration is the delay before returning to ready after an abort or a completed refresh.
	ResetDuration time.Duration
	Disabled      bool

	// ShouldPullToRefresh gates gesture starts. Nil means the surface must be scrolled to the top.
	ShouldPullToRefresh func() bool
	// OnRefresh is invoked once per threshold crossing and never awaited.
	OnRefresh func()
	// OnChange, when set, is called synchronously after every state change.
	OnChange func(prev, next State)
}

// DefaultConfig returns a Config with the documented defaults and the given refresh action.
func DefaultConfig(onRefresh func()) Config {
	return Config{
		Resistance:      DefaultResistance,
		DistThreshold:   DefaultDistThreshold,
		RefreshDuration: DefaultRefreshDuration,
		ResetDuration:   DefaultResetDuration,
		OnRefresh:       onRefresh,
	}
}

// Validate rejects configurations that would produce negative or non-convergent pull fractions.
func (c Config) Validate() error {
	if !positiveFinite(c.Resistance) {
		return fmt.Errorf("%w: got %v", ErrInvalidResistance, c.Resistance)
	}
	if !positiveFinite(c.DistThreshold) {
		return fmt.Errorf("%w: got %v", ErrInvalidThreshold, c.DistThreshold)
	}
	if c.RefreshDuration < 0 {
		return fmt.Errorf("refresh %w: got %v", ErrInvalidDuration, c.RefreshDuration)
	}
	if c.ResetDuration < 0 {
		return fmt.Errorf("reset %w: got %v", ErrInvalidDuration, c.ResetDuration)
	}
	if c.OnRefresh == nil {
		return ErrMissingRefresh
	}
	return nil
}

func positiveFinite(v float64) bool {
	return v > 0 && !math.IsInf(v, 0) && !math.IsNaN(v)
}
