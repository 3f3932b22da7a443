package pull

import "time"

// Listener receives pointer lifecycle events with vertical coordinates.
type Listener interface {
	PointerStart(y float64)
	// PointerMove returns true when the host should suppress its default scrolling for the event.
	PointerMove(y float64) bool
	PointerEnd()
}

// Surface delivers pointer events to attached listeners. It may be the whole
// viewport or a sub-region of it.
type Surface interface {
	Attach(l Listener)
	Detach(l Listener)
	// AtTop reports whether the scrollable content is at its top.
	AtTop() bool
}

// Timer is a cancellation handle for a scheduled callback.
type Timer interface {
	// Stop prevents the callback from running. It returns false if the callback already ran or was stopped.
	Stop() bool
}

// Scheduler runs fn after d on the host event loop.
type Scheduler interface {
	AfterFunc(d time.Duration, fn func()) Timer
}
