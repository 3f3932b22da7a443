package tui

import (
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/verte-zerg/pullfeed/internal/pull"
)

type timerFiredMsg struct {
	id uint64
}

// tickScheduler runs pull timers on the Bubble Tea event loop. Every timer is
// a tea.Tick carrying an id; a stopped timer forgets its id, so its tick is
// dropped on arrival.
type tickScheduler struct {
	nextID  uint64
	pending map[uint64]func()
	cmds    []tea.Cmd
}

func newTickScheduler() *tickScheduler {
	return &tickScheduler{pending: map[uint64]func(){}}
}

func (s *tickScheduler) AfterFunc(d time.Duration, fn func()) pull.Timer {
	if d < 0 {
		d = 0
	}
	s.nextID++
	id := s.nextID
	s.pending[id] = fn
	s.cmds = append(s.cmds, tea.Tick(d, func(time.Time) tea.Msg {
		return timerFiredMsg{id: id}
	}))
	return tickTimer{s: s, id: id}
}

// fire runs the callback for id if it is still pending.
func (s *tickScheduler) fire(id uint64) bool {
	fn, ok := s.pending[id]
	if !ok {
		return false
	}
	delete(s.pending, id)
	fn()
	return true
}

// drain returns tick commands queued since the last call.
func (s *tickScheduler) drain() []tea.Cmd {
	cmds := s.cmds
	s.cmds = nil
	return cmds
}

type tickTimer struct {
	s  *tickScheduler
	id uint64
}

func (t tickTimer) Stop() bool {
	if _, ok := t.s.pending[t.id]; !ok {
		return false
	}
	delete(t.s.pending, t.id)
	return true
}
