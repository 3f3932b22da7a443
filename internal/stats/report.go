package stats

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/mattn/go-runewidth"
	"golang.org/x/term"

	"github.com/verte-zerg/pullfeed/internal/model"
	"github.com/verte-zerg/pullfeed/internal/store"
)

const (
	terminalWidthBackup = 80
	tableRows           = 10
)

// Report contains precomputed data for history rendering.
type Report struct {
	Gestures []model.Gesture
	Summary  Summary
}

// BuildReport loads gestures and summarizes them.
func BuildReport(ctx context.Context, st *store.Store, cfg model.HistoryConfig) (Report, error) {
	gestures, err := st.ListGestures(ctx, cfg)
	if err != nil {
		return Report{}, err
	}
	return Report{Gestures: gestures, Summary: Summarize(gestures)}, nil
}

// RenderReport writes the report sized to the terminal attached to stdout.
func RenderReport(w io.Writer, report Report) error {
	return RenderReportWithWidth(w, report, terminalWidth())
}

// RenderReportWithWidth writes the summary, a sparkline of recent peak pulls
// and a table of the latest gestures.
func RenderReportWithWidth(w io.Writer, report Report, width int) error {
	if report.Summary.Total == 0 {
		_, err := fmt.Fprintln(w, "No gestures recorded.")
		return err
	}
	s := report.Summary
	lines := []string{
		fmt.Sprintf("Gestures:   %d", s.Total),
		fmt.Sprintf("Refreshed:  %d", s.Refreshed),
		fmt.Sprintf("Aborted:    %d", s.Aborted),
		fmt.Sprintf("Completion: %.1f%%", s.CompletionRate*100),
		fmt.Sprintf("Mean peak:  %.1f%%", s.MeanPeak*100),
		"",
	}

	const sparkLabel = "Peaks:      "
	sparkWidth := width - runewidth.StringWidth(sparkLabel)
	if sparkWidth < 1 {
		sparkWidth = 1
	}
	peaks := PeakSeries(report.Gestures)
	if len(peaks) > sparkWidth {
		peaks = peaks[len(peaks)-sparkWidth:]
	}
	lines = append(lines, sparkLabel+Sparkline(peaks), "")

	recent := report.Gestures
	if len(recent) > tableRows {
		recent = recent[len(recent)-tableRows:]
	}
	headers := []string{"Ended", "Outcome", "Peak", "Duration (ms)"}
	rows := make([][]string, 0, len(recent))
	for i := len(recent) - 1; i >= 0; i-- {
		g := recent[i]
		rows = append(rows, []string{
			g.EndedAt.Local().Format("2006-01-02 15:04:05"),
			string(g.Outcome),
			fmt.Sprintf("%.0f%%", g.PeakFraction()*100),
			fmt.Sprintf("%d", g.EndedAt.Sub(g.StartedAt).Milliseconds()),
		})
	}
	lines = append(lines, formatTable(headers, rows, map[int]bool{2: true, 3: true})...)

	for _, line := range lines {
		if _, err := fmt.Fprintln(w, runewidth.Truncate(line, width, "")); err != nil {
			return err
		}
	}
	return nil
}

func terminalWidth() int {
	width, _, err := term.GetSize(int(os.Stdout.Fd()))
	if err != nil || width <= 0 {
		return terminalWidthBackup
	}
	return width
}
