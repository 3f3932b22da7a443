package pull

import (
	"sort"
	"time"
)

// FakeScheduler is a manual clock. Callbacks only run inside Advance, in
// due-time order, so tests and replays stay deterministic.
type FakeScheduler struct {
	now    time.Duration
	seq    int
	timers []*fakeTimer
}

type fakeTimer struct {
	s     *FakeScheduler
	at    time.Duration
	seq   int
	fn    func()
	done  bool
	fired bool
}

// NewFakeScheduler returns a scheduler whose clock starts at zero.
func NewFakeScheduler() *FakeScheduler {
	return &FakeScheduler{}
}

// AfterFunc schedules fn at Now()+d. Negative delays are treated as zero.
func (s *FakeScheduler) AfterFunc(d time.Duration, fn func()) Timer {
	if d < 0 {
		d = 0
	}
	s.seq++
	t := &fakeTimer{s: s, at: s.now + d, seq: s.seq, fn: fn}
	s.timers = append(s.timers, t)
	return t
}

// Now returns the virtual time elapsed since creation.
func (s *FakeScheduler) Now() time.Duration {
	return s.now
}

// Pending returns the number of timers that have neither fired nor been stopped.
func (s *FakeScheduler) Pending() int {
	return len(s.timers)
}

// Advance moves the clock forward by d, running every callback that becomes
// due, including callbacks scheduled by earlier callbacks.
func (s *FakeScheduler) Advance(d time.Duration) {
	target := s.now + d
	for {
		t := s.nextDue(target)
		if t == nil {
			break
		}
		s.remove(t)
		s.now = t.at
		t.done = true
		t.fired = true
		t.fn()
	}
	s.now = target
}

// Flush runs everything that is due without moving the clock.
func (s *FakeScheduler) Flush() {
	s.Advance(0)
}

func (s *FakeScheduler) nextDue(target time.Duration) *fakeTimer {
	if len(s.timers) == 0 {
		return nil
	}
	sort.SliceStable(s.timers, func(i, j int) bool {
		if s.timers[i].at == s.timers[j].at {
			return s.timers[i].seq < s.timers[j].seq
		}
		return s.timers[i].at < s.timers[j].at
	})
	if s.timers[0].at > target {
		return nil
	}
	return s.timers[0]
}

func (s *FakeScheduler) remove(t *fakeTimer) {
	for i, item := range s.timers {
		if item == t {
			s.timers = append(s.timers[:i], s.timers[i+1:]...)
			return
		}
	}
}

func (t *fakeTimer) Stop() bool {
	if t.done {
		return false
	}
	t.done = true
	t.s.remove(t)
	return true
}

// FakeSurface is a scripted surface. Events are delivered only while a
// listener is attached.
type FakeSurface struct {
	// Top is returned by AtTop.
	Top bool
	// Attaches and Detaches count lifecycle calls.
	Attaches int
	Detaches int
	// Suppressed counts moves whose default scrolling was suppressed.
	Suppressed int

	listener Listener
}

// NewFakeSurface returns a surface scrolled to the top.
func NewFakeSurface() *FakeSurface {
	return &FakeSurface{Top: true}
}

func (f *FakeSurface) Attach(l Listener) {
	f.listener = l
	f.Attaches++
}

func (f *FakeSurface) Detach(l Listener) {
	if f.listener == l {
		f.listener = nil
	}
	f.Detaches++
}

func (f *FakeSurface) AtTop() bool {
	return f.Top
}

// Attached reports whether a listener is attached.
func (f *FakeSurface) Attached() bool {
	return f.listener != nil
}

// Start delivers a pointer start.
func (f *FakeSurface) Start(y float64) {
	if f.listener != nil {
		f.listener.PointerStart(y)
	}
}

// Move delivers a pointer move and reports whether scrolling was suppressed.
func (f *FakeSurface) Move(y float64) bool {
	if f.listener == nil {
		return false
	}
	suppressed := f.listener.PointerMove(y)
	if suppressed {
		f.Suppressed++
	}
	return suppressed
}

// End delivers a pointer end.
func (f *FakeSurface) End() {
	if f.listener != nil {
		f.listener.PointerEnd()
	}
}
