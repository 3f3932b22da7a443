package tui

import (
	"math"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/lucasb-eyer/go-colorful"

	"github.com/verte-zerg/pullfeed/internal/model"
	"github.com/verte-zerg/pullfeed/internal/pull"
)

const fadeFromColor = "#303030"

// Quarter turn, drawn in three steps.
var pullFrames = []string{"|", "/", "-"}

// renderIndicator draws the pull indicator for st. The indicator grows with
// the pulled distance, keeps one row while a completed refresh collapses,
// and is empty at rest.
func renderIndicator(st pull.State, opts model.IndicatorConfig, width int, cellHeight float64, spinFrame string) string {
	rows := indicatorRows(st, cellHeight)
	if rows == 0 || width <= 0 {
		return ""
	}
	style := lipgloss.NewStyle().Foreground(lipgloss.Color(indicatorColor(st, opts)))
	pos := lipgloss.Left
	if opts.Center {
		pos = lipgloss.Center
	}
	lines := make([]string, rows)
	lines[rows-1] = lipgloss.PlaceHorizontal(width, pos, style.Render(indicatorGlyph(st, opts, spinFrame)))
	return strings.Join(lines, "\n")
}

func indicatorRows(st pull.State, cellHeight float64) int {
	if st.Status.Resetting() {
		// Collapsed; a completed refresh keeps its spinner row until reset.
		if st.Status.Spinning() {
			return 1
		}
		return 0
	}
	if st.PulledDistance <= 0 || cellHeight <= 0 {
		return 0
	}
	return int(math.Ceil(st.PulledDistance / cellHeight))
}

func indicatorGlyph(st pull.State, opts model.IndicatorConfig, spinFrame string) string {
	if st.Status.Spinning() && spinFrame != "" {
		return spinFrame
	}
	if !opts.Rotate {
		return pullFrames[0]
	}
	idx := int(math.Round(st.PctPulled * float64(len(pullFrames)-1)))
	if idx < 0 {
		idx = 0
	}
	if idx >= len(pullFrames) {
		idx = len(pullFrames) - 1
	}
	return pullFrames[idx]
}

func indicatorColor(st pull.State, opts model.IndicatorConfig) string {
	if !opts.Fade || st.Status.Spinning() {
		return opts.Color
	}
	blended, ok := blendHex(fadeFromColor, opts.Color, st.PctPulled)
	if !ok {
		return opts.Color
	}
	return blended
}

// blendHex blends two #RRGGBB colors in RGB space. It reports false when
// either color is not a hex color.
func blendHex(from, to string, t float64) (string, bool) {
	fc, err := colorful.Hex(from)
	if err != nil {
		return "", false
	}
	tc, err := colorful.Hex(to)
	if err != nil {
		return "", false
	}
	t = math.Max(0, math.Min(1, t))
	return fc.BlendRgb(tc, t).Hex(), true
}
