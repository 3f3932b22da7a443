package replay

import (
	"fmt"
	"io"
	"time"

	"github.com/verte-zerg/pullfeed/internal/model"
	"github.com/verte-zerg/pullfeed/internal/pull"
)

// Result summarizes a replay.
type Result struct {
	Transcript  []string
	Transitions int
	Refreshes   int
	Suppressed  int
	Final       pull.State
	Elapsed     time.Duration
}

// Run replays s with pull settings derived from base. Zero-delay timers run
// after every step, the way an event loop would run them before the next
// input arrives.
func Run(s Script, base model.PullConfig) (Result, error) {
	if err := s.Validate(); err != nil {
		return Result{}, err
	}
	sched := pull.NewFakeScheduler()
	surface := pull.NewFakeSurface()

	var res Result
	logf := func(format string, args ...any) {
		res.Transcript = append(res.Transcript, fmt.Sprintf(format, args...))
	}
	event := func(format string, args ...any) {
		logf("%8s  %s", formatClock(sched.Now()), fmt.Sprintf(format, args...))
	}

	p := s.PullConfig(base)
	cfg := pull.DefaultConfig(func() {
		res.Refreshes++
		event("refresh")
	})
	cfg.Resistance = p.Resistance
	cfg.DistThreshold = p.DistThreshold
	cfg.RefreshDuration = p.RefreshDuration
	cfg.ResetDuration = p.ResetDuration
	cfg.Disabled = p.Disabled
	cfg.OnChange = func(prev, next pull.State) {
		res.Transitions++
		event("%s -> %s  pulled=%.1f (%.0f%%)", prev.Status, next.Status, next.PulledDistance, next.PctPulled*100)
	}
	c, err := pull.New(cfg, surface, sched)
	if err != nil {
		return Result{}, fmt.Errorf("invalid pull settings: %w", err)
	}
	c.Mount()

	for i, step := range s.Steps {
		n := i + 1
		switch step.Action {
		case ActionStart:
			logf("step %d  start y=%g", n, *step.Y)
			surface.Start(*step.Y)
		case ActionMove:
			suppressed := surface.Move(*step.Y)
			if suppressed {
				res.Suppressed++
				logf("step %d  move y=%g  suppress scroll", n, *step.Y)
			} else {
				logf("step %d  move y=%g", n, *step.Y)
			}
		case ActionEnd:
			logf("step %d  end", n)
			surface.End()
		case ActionWait:
			logf("step %d  wait %dms", n, step.Ms)
			sched.Advance(time.Duration(step.Ms) * time.Millisecond)
		case ActionTop:
			logf("step %d  top %t", n, *step.Top)
			surface.Top = *step.Top
		case ActionMount:
			logf("step %d  mount", n)
			c.Mount()
		case ActionUnmount:
			logf("step %d  unmount", n)
			c.Unmount()
		}
		sched.Flush()
	}

	res.Final = c.State()
	res.Elapsed = sched.Now()
	return res, nil
}

// WriteTranscript writes the transcript followed by a summary line.
func WriteTranscript(w io.Writer, res Result) error {
	for _, line := range res.Transcript {
		if _, err := fmt.Fprintln(w, line); err != nil {
			return err
		}
	}
	_, err := fmt.Fprintf(w, "final %s after %s: %d transitions, %d refreshes, %d suppressed moves\n",
		res.Final.Status, formatClock(res.Elapsed), res.Transitions, res.Refreshes, res.Suppressed)
	return err
}

func formatClock(d time.Duration) string {
	return fmt.Sprintf("%dms", d.Milliseconds())
}
