package pull

import (
	"math"
	"time"
)

// Controller tracks one pull gesture at a time and sequences the refresh and
// reset timers.
//
// While ignoreInput is set (from an abort or a refresh until the state
// returns to ready) every pointer event is dropped, so at most one
// gesture/refresh cycle is in flight and at most one timer is pending.
type Controller struct {
	cfg        Config
	surface    Surface
	scheduler  Scheduler
	shouldPull func() bool

	state State

	// Gesture session.
	startY      float64
	tracking    bool
	rawDistance float64
	ignoreInput bool

	refreshTimer Timer
	resetTimer   Timer

	// generation invalidates callbacks scheduled before the last Unmount.
	generation uint64
	mounted    bool
}

// New validates cfg and returns a controller in the ready state. The
// controller does not receive events until Mount is called.
func New(cfg Config, surface Surface, scheduler Scheduler) (*Controller, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	if surface == nil {
		return nil, ErrMissingSurface
	}
	if scheduler == nil {
		return nil, ErrMissingScheduler
	}
	c := &Controller{
		cfg:        cfg,
		surface:    surface,
		scheduler:  scheduler,
		shouldPull: cfg.ShouldPullToRefresh,
		state:      State{Status: StatusReady},
	}
	if c.shouldPull == nil {
		c.shouldPull = surface.AtTop
	}
	return c, nil
}

// Mount attaches the controller to its surface. Repeated calls are no-ops.
// Mounting again after Unmount starts over from ready.
func (c *Controller) Mount() {
	if c.mounted {
		return
	}
	if c.generation > 0 {
		c.clearSession()
		c.state = State{Status: StatusReady}
	}
	c.mounted = true
	c.surface.Attach(c)
}

// Unmount cancels pending timers and detaches from the surface. No state
// change happens after it returns. Repeated calls are no-ops.
func (c *Controller) Unmount() {
	if !c.mounted {
		return
	}
	c.mounted = false
	c.generation++
	stopTimer(&c.refreshTimer)
	stopTimer(&c.resetTimer)
	c.surface.Detach(c)
}

// Mounted reports whether the controller is attached to its surface.
func (c *Controller) Mounted() bool {
	return c.mounted
}

// State returns the current presentation state.
func (c *Controller) State() State {
	return c.state
}

// IgnoringInput reports whether an abort or refresh sequence is in flight.
func (c *Controller) IgnoringInput() bool {
	return c.ignoreInput
}

// Tracking reports whether the current gesture qualified as a pull start.
func (c *Controller) Tracking() bool {
	return c.tracking
}

// PointerStart begins tracking a gesture when the controller is ready and
// the pull predicate holds. A start that does not qualify clears any stale
// start from an earlier gesture. Non-finite coordinates are ignored.
func (c *Controller) PointerStart(y float64) {
	if c.cfg.Disabled || c.ignoreInput || !finite(y) {
		return
	}
	// Only the zero-delay reset scheduled by a plain release can be pending
	// here; apply it now so it cannot land in the middle of this gesture.
	if c.resetTimer != nil {
		stopTimer(&c.resetTimer)
		c.reset()
	}
	if c.state.Status == StatusReady && c.shouldPull() {
		c.startY = y
		c.tracking = true
		return
	}
	c.startY = 0
	c.tracking = false
}

// PointerMove updates the pull for a downward drag. Upward drags below the
// start point freeze the pull without shrinking it, as do non-finite
// coordinates.
func (c *Controller) PointerMove(y float64) bool {
	if c.cfg.Disabled || c.ignoreInput || !c.tracking {
		return false
	}
	raw := y - c.startY
	if !(raw > 0) || math.IsInf(raw, 0) {
		return false
	}
	c.rawDistance = raw
	pulled := PulledDistance(c.rawDistance, c.cfg.Resistance, c.cfg.DistThreshold)
	c.setState(StatusPulling, pulled)
	if pulled == c.cfg.DistThreshold {
		c.refresh()
	}
	return true
}

// PointerEnd aborts a pull that never reached the threshold.
func (c *Controller) PointerEnd() {
	if c.cfg.Disabled || c.ignoreInput {
		return
	}
	if c.state.Status == StatusPulling {
		c.ignoreInput = true
		c.setState(StatusPullAborted, 0)
		c.scheduleReset(c.cfg.ResetDuration)
		return
	}
	c.scheduleReset(0)
}

func (c *Controller) refresh() {
	c.ignoreInput = true
	c.setState(StatusRefreshing, c.state.PulledDistance)
	// Scheduled before OnRefresh so a failing refresh action cannot keep the
	// indicator spinning.
	c.refreshTimer = c.after(c.cfg.RefreshDuration, c.completeRefresh)
	c.cfg.OnRefresh()
}

func (c *Controller) completeRefresh() {
	c.refreshTimer = nil
	c.setState(StatusRefreshCompleted, 0)
	c.scheduleReset(c.cfg.ResetDuration)
}

func (c *Controller) scheduleReset(delay time.Duration) {
	stopTimer(&c.resetTimer)
	c.resetTimer = c.after(delay, func() {
		c.resetTimer = nil
		c.reset()
	})
}

func (c *Controller) reset() {
	c.clearSession()
	c.setState(StatusReady, 0)
}

func (c *Controller) clearSession() {
	c.startY = 0
	c.tracking = false
	c.rawDistance = 0
	c.ignoreInput = false
}

func (c *Controller) after(d time.Duration, fn func()) Timer {
	gen := c.generation
	return c.scheduler.AfterFunc(d, func() {
		if gen != c.generation {
			return
		}
		fn()
	})
}

func (c *Controller) setState(status Status, pulled float64) {
	prev := c.state
	next := State{
		Status:         status,
		PulledDistance: pulled,
		PctPulled:      PctPulled(pulled, c.cfg.DistThreshold),
	}
	if prev == next {
		return
	}
	c.state = next
	if c.cfg.OnChange != nil {
		c.cfg.OnChange(prev, next)
	}
}

func finite(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0)
}

func stopTimer(t *Timer) {
	if *t == nil {
		return
	}
	(*t).Stop()
	*t = nil
}
