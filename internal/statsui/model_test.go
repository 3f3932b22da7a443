package statsui

import (
	"context"
	"path/filepath"
	"strings"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/verte-zerg/pullfeed/internal/model"
	"github.com/verte-zerg/pullfeed/internal/store"
)

func openStore(t *testing.T) *store.Store {
	t.Helper()
	st, err := store.Open(filepath.Join(t.TempDir(), "pullfeed.db"))
	if err != nil {
		t.Fatalf("open store: %v", err)
	}
	t.Cleanup(func() {
		if err := st.Close(); err != nil {
			t.Fatalf("close store: %v", err)
		}
	})
	return st
}

func TestHistoryModelRendersTabs(t *testing.T) {
	st := openStore(t)
	base := time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)
	for i, outcome := range []model.Outcome{model.OutcomeAborted, model.OutcomeRefreshed} {
		_, err := st.InsertGesture(context.Background(), model.Gesture{
			StartedAt:     base.Add(time.Duration(i) * time.Minute),
			EndedAt:       base.Add(time.Duration(i)*time.Minute + 300*time.Millisecond),
			Outcome:       outcome,
			PeakPulled:    36,
			DistThreshold: 72,
		})
		if err != nil {
			t.Fatalf("insert gesture: %v", err)
		}
	}

	m := NewModel(st, model.HistoryConfig{})
	m.Update(tea.WindowSizeMsg{Width: 100, Height: 30})
	view := m.View()
	for _, needle := range []string{"Overview", "Gestures", "Completion", "50.0%", "since=any"} {
		if !strings.Contains(view, needle) {
			t.Fatalf("expected %q in overview:\n%s", needle, view)
		}
	}

	m.Update(tea.KeyMsg{Type: tea.KeyRight})
	if m.activeTab != tabGestures {
		t.Fatalf("expected gestures tab, got %d", m.activeTab)
	}
	view = m.View()
	if !strings.Contains(view, "refreshed") || !strings.Contains(view, "aborted") {
		t.Fatalf("expected gesture rows:\n%s", view)
	}
	if rows := m.gestures.Rows(); len(rows) != 2 || rows[0][1] != "refreshed" {
		t.Fatalf("expected newest gesture first, got %v", rows)
	}

	m.Update(tea.KeyMsg{Type: tea.KeyRight})
	if m.activeTab != tabOverview {
		t.Fatalf("expected tabs to wrap, got %d", m.activeTab)
	}
}

func TestHistoryModelEmpty(t *testing.T) {
	m := NewModel(openStore(t), model.HistoryConfig{Last: 3})
	m.Update(tea.WindowSizeMsg{Width: 60, Height: 20})
	view := m.View()
	if !strings.Contains(view, "No gestures recorded.") || !strings.Contains(view, "last=3") {
		t.Fatalf("unexpected empty view:\n%s", view)
	}
	_, cmd := m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'q'}})
	if cmd == nil {
		t.Fatalf("expected quit command")
	}
}
