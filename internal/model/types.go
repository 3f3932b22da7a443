// Package model defines shared data structures.
package model

import "time"

// Target selects which part of the screen delivers pull gestures.
type Target string

const (
	TargetScreen Target = "screen"
	TargetFeed   Target = "feed"
)

// PullConfig defines gesture settings.
type PullConfig struct {
	Resistance      float64
	DistThreshold   float64
	RefreshDuration time.Duration
	ResetDuration   time.Duration
	Disabled        bool
}

// FeedConfig defines settings for the feed viewer.
type FeedConfig struct {
	Pull         PullConfig
	Indicator    IndicatorConfig
	Target       Target
	CellHeight   float64
	CaptionsPath string
	CaptionWords int
}

// IndicatorConfig controls how the pull indicator is drawn.
type IndicatorConfig struct {
	Fade      bool
	Rotate    bool
	Center    bool
	Color     string
	SpinSpeed time.Duration
}

// HistoryConfig defines filters for the history report.
type HistoryConfig struct {
	Last  int
	Since *time.Time
}

// Card is a single feed entry.
type Card struct {
	ID        int64
	CreatedAt time.Time
	Caption   string
}

// Outcome is how a pull gesture ended.
type Outcome string

const (
	OutcomeAborted   Outcome = "aborted"
	OutcomeRefreshed Outcome = "refreshed"
)

// Gesture records one pull gesture that produced visible state.
type Gesture struct {
	ID            int64
	StartedAt     time.Time
	EndedAt       time.Time
	Outcome       Outcome
	PeakPulled    float64
	DistThreshold float64
}

// PeakFraction returns the peak pull as a fraction of the threshold.
func (g Gesture) PeakFraction() float64 {
	if g.DistThreshold <= 0 {
		return 0
	}
	return g.PeakPulled / g.DistThreshold
}
