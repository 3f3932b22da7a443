// Package stats summarizes recorded pull gestures.
package stats

import (
	"math"
	"strings"

	"github.com/verte-zerg/pullfeed/internal/model"
)

const sparkChars = " .:-=+*#%@"

// Summary aggregates gesture outcomes.
type Summary struct {
	Total          int
	Refreshed      int
	Aborted        int
	CompletionRate float64
	MeanPeak       float64
}

// Summarize computes outcome counts, the share of gestures that refreshed,
// and the mean peak pull fraction.
func Summarize(gestures []model.Gesture) Summary {
	var s Summary
	var peakSum float64
	for _, g := range gestures {
		s.Total++
		switch g.Outcome {
		case model.OutcomeRefreshed:
			s.Refreshed++
		case model.OutcomeAborted:
			s.Aborted++
		}
		peakSum += g.PeakFraction()
	}
	if s.Total > 0 {
		s.CompletionRate = float64(s.Refreshed) / float64(s.Total)
		s.MeanPeak = peakSum / float64(s.Total)
	}
	return s
}

// PeakSeries returns the peak pull fraction of each gesture.
func PeakSeries(gestures []model.Gesture) []float64 {
	out := make([]float64, len(gestures))
	for i, g := range gestures {
		out[i] = g.PeakFraction()
	}
	return out
}

// MovingAverage computes a rolling mean over the provided window size.
func MovingAverage(values []float64, window int) []float64 {
	if window <= 1 || len(values) == 0 {
		out := make([]float64, len(values))
		copy(out, values)
		return out
	}
	out := make([]float64, len(values))
	var sum float64
	for i := 0; i < len(values); i++ {
		sum += values[i]
		if i >= window {
			sum -= values[i-window]
		}
		den := float64(i + 1)
		if i >= window {
			den = float64(window)
		}
		out[i] = sum / den
	}
	return out
}

// Sparkline renders values in [0, 1] as a single ASCII line. Values outside
// the range are clamped.
func Sparkline(values []float64) string {
	var b strings.Builder
	for _, v := range values {
		v = math.Max(0, math.Min(1, v))
		idx := int(math.Round(v * float64(len(sparkChars)-1)))
		b.WriteByte(sparkChars[idx])
	}
	return b.String()
}
