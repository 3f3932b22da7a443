// Package pull implements the pull-to-refresh gesture controller.
//
// A Controller observes pointer start/move/end events delivered by a
// Surface, damps the vertical drag distance with a resistance divisor,
// and drives a small state machine:
//
//	ready -> pulling -> refreshing -> refreshCompleted -> ready
//	              \-> pullAborted -> ready
//
// Timers are created through an injected Scheduler whose callbacks must run
// on the same event loop that delivers pointer events. The controller is not
// safe for concurrent use.
package pull

// Status is the controller state exposed to presentation.
type Status string

const (
	StatusReady            Status = "ready"
	StatusPulling          Status = "pulling"
	StatusPullAborted      Status = "pullAborted"
	StatusRefreshing       Status = "refreshing"
	StatusRefreshCompleted Status = "refreshCompleted"
)

// Spinning reports whether the indicator should spin.
func (s Status) Spinning() bool {
	return s == StatusRefreshing || s == StatusRefreshCompleted
}

// Resetting reports whether the indicator is collapsing back to rest.
func (s Status) Resetting() bool {
	return s == StatusPullAborted || s == StatusRefreshCompleted
}

// State is the read surface handed to presentation after every change.
type State struct {
	Status         Status
	PulledDistance float64
	PctPulled      float64
}
