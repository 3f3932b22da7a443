package tui

import (
	tea "github.com/charmbracelet/bubbletea"

	"github.com/verte-zerg/pullfeed/internal/pull"
)

// mouseSurface turns left-button mouse drags into pull pointer events.
// Rows are scaled by cellHeight so pull distances stay in pixels.
//
// With bounds set, only a press inside the bounds starts a gesture; once
// captured, motion and release are delivered wherever they happen.
type mouseSurface struct {
	listener   pull.Listener
	cellHeight float64
	atTop      func() bool

	bounded  bool
	top      int
	height   int
	captured bool
}

func newMouseSurface(cellHeight float64, atTop func() bool) *mouseSurface {
	return &mouseSurface{cellHeight: cellHeight, atTop: atTop}
}

func (s *mouseSurface) Attach(l pull.Listener) {
	s.listener = l
}

func (s *mouseSurface) Detach(l pull.Listener) {
	if s.listener == l {
		s.listener = nil
		s.captured = false
	}
}

func (s *mouseSurface) AtTop() bool {
	if s.atTop == nil {
		return true
	}
	return s.atTop()
}

func (s *mouseSurface) setBounds(top, height int) {
	s.bounded = true
	s.top = top
	s.height = height
}

func (s *mouseSurface) contains(row int) bool {
	if !s.bounded {
		return true
	}
	return row >= s.top && row < s.top+s.height
}

// dispatch delivers msg to the listener and reports whether the host should
// skip its default handling of the event.
func (s *mouseSurface) dispatch(msg tea.MouseMsg) bool {
	if s.listener == nil {
		return false
	}
	y := float64(msg.Y) * s.cellHeight
	switch msg.Action {
	case tea.MouseActionPress:
		if msg.Button != tea.MouseButtonLeft {
			return false
		}
		s.captured = s.contains(msg.Y)
		if s.captured {
			s.listener.PointerStart(y)
		}
		return false
	case tea.MouseActionMotion:
		if !s.captured {
			return false
		}
		return s.listener.PointerMove(y)
	case tea.MouseActionRelease:
		if !s.captured {
			return false
		}
		s.captured = false
		s.listener.PointerEnd()
	}
	return false
}
