package pull

import "math"

// PulledDistance damps a positive raw drag distance by resistance and caps
// the result at threshold.
func PulledDistance(raw, resistance, threshold float64) float64 {
	return math.Min(raw/resistance, threshold)
}

// PctPulled returns pulled as a fraction of threshold in [0, 1]. NaN maps to 0.
func PctPulled(pulled, threshold float64) float64 {
	if threshold <= 0 {
		return 0
	}
	pct := pulled / threshold
	if math.IsNaN(pct) || pct < 0 {
		return 0
	}
	if pct > 1 {
		return 1
	}
	return pct
}
