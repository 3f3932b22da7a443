package tui

import (
	"context"
	"errors"
	"path/filepath"
	"sort"
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/verte-zerg/pullfeed/internal/feed"
	"github.com/verte-zerg/pullfeed/internal/model"
	"github.com/verte-zerg/pullfeed/internal/pull"
	"github.com/verte-zerg/pullfeed/internal/store"
)

func testFeedConfig() model.FeedConfig {
	return model.FeedConfig{
		Pull: model.PullConfig{
			Resistance:      pull.DefaultResistance,
			DistThreshold:   pull.DefaultDistThreshold,
			RefreshDuration: pull.DefaultRefreshDuration,
			ResetDuration:   pull.DefaultResetDuration,
		},
		Indicator:  model.IndicatorConfig{Rotate: true, Fade: true, Color: "#FFFFFF"},
		Target:     model.TargetScreen,
		CellHeight: 16,
	}
}

func newTestModel(t *testing.T, cfg model.FeedConfig) (*Model, *store.Store) {
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
	m, err := NewModel(cfg, st, feed.New(nil, 0))
	if err != nil {
		t.Fatalf("new model: %v", err)
	}
	m.Init()
	m.Update(tea.WindowSizeMsg{Width: 60, Height: 24})
	return m, st
}

// fireAll runs pending timers in scheduling order until none remain.
func fireAll(m *Model) {
	for len(m.scheduler.pending) > 0 {
		ids := make([]uint64, 0, len(m.scheduler.pending))
		for id := range m.scheduler.pending {
			ids = append(ids, id)
		}
		sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
		m.Update(timerFiredMsg{id: ids[0]})
	}
}

func TestNewModelSeedsFeed(t *testing.T) {
	m, st := newTestModel(t, testFeedConfig())
	if len(m.cards) != 1 {
		t.Fatalf("expected one seeded card, got %d", len(m.cards))
	}
	cards, err := st.ListCards(context.Background(), 0)
	if err != nil {
		t.Fatalf("list cards: %v", err)
	}
	if len(cards) != 1 || cards[0].Caption != feed.DefaultCaptions[0] {
		t.Fatalf("unexpected stored cards: %+v", cards)
	}
	if m.View() == "" {
		t.Fatalf("expected a rendered view")
	}
}

func TestNewModelRejectsInvalidPullConfig(t *testing.T) {
	cfg := testFeedConfig()
	cfg.Pull.Resistance = 0
	st, err := store.Open(filepath.Join(t.TempDir(), "pullfeed.db"))
	if err != nil {
		t.Fatalf("open store: %v", err)
	}
	defer func() {
		if err := st.Close(); err != nil {
			t.Fatalf("close store: %v", err)
		}
	}()
	if _, err := NewModel(cfg, st, feed.New(nil, 0)); err == nil {
		t.Fatalf("expected invalid resistance to fail")
	}
}

func TestDragPastThresholdRefreshes(t *testing.T) {
	m, st := newTestModel(t, testFeedConfig())

	m.Update(press(2))
	_, cmd := m.Update(motion(14))
	if m.state.Status != pull.StatusRefreshing {
		t.Fatalf("expected refreshing, got %s", m.state.Status)
	}
	if cmd == nil {
		t.Fatalf("expected refresh commands")
	}
	if len(m.scheduler.pending) != 1 {
		t.Fatalf("expected refresh timer, got %d", len(m.scheduler.pending))
	}

	m.Update(m.addCardCmd()())
	if len(m.cards) != 2 {
		t.Fatalf("expected new card at the top, got %d cards", len(m.cards))
	}
	if m.cards[0].ID <= m.cards[1].ID {
		t.Fatalf("expected newest card first: %+v", m.cards)
	}

	fireAll(m)
	if m.state.Status != pull.StatusReady {
		t.Fatalf("expected ready after timers, got %s", m.state.Status)
	}

	gestures, err := st.ListGestures(context.Background(), model.HistoryConfig{})
	if err != nil {
		t.Fatalf("list gestures: %v", err)
	}
	if len(gestures) != 1 {
		t.Fatalf("expected one gesture, got %d", len(gestures))
	}
	if gestures[0].Outcome != model.OutcomeRefreshed || gestures[0].PeakPulled != 72 {
		t.Fatalf("unexpected gesture %+v", gestures[0])
	}
}

func TestShortDragAborts(t *testing.T) {
	m, st := newTestModel(t, testFeedConfig())

	m.Update(press(2))
	m.Update(motion(4))
	if m.state.Status != pull.StatusPulling {
		t.Fatalf("expected pulling, got %s", m.state.Status)
	}
	m.Update(release(4))
	if m.state.Status != pull.StatusPullAborted {
		t.Fatalf("expected aborted, got %s", m.state.Status)
	}
	fireAll(m)
	if m.state.Status != pull.StatusReady {
		t.Fatalf("expected ready, got %s", m.state.Status)
	}

	gestures, err := st.ListGestures(context.Background(), model.HistoryConfig{})
	if err != nil {
		t.Fatalf("list gestures: %v", err)
	}
	if len(gestures) != 1 || gestures[0].Outcome != model.OutcomeAborted {
		t.Fatalf("unexpected gestures %+v", gestures)
	}
	if gestures[0].PeakPulled != 12.8 {
		t.Fatalf("expected peak 12.8, got %v", gestures[0].PeakPulled)
	}
}

func TestFeedTargetIgnoresHeaderPress(t *testing.T) {
	cfg := testFeedConfig()
	cfg.Target = model.TargetFeed
	m, _ := newTestModel(t, cfg)

	m.Update(press(0))
	m.Update(motion(14))
	if m.state.Status != pull.StatusReady {
		t.Fatalf("expected header press to be ignored, got %s", m.state.Status)
	}

	m.Update(press(1))
	m.Update(motion(3))
	if m.state.Status != pull.StatusPulling {
		t.Fatalf("expected feed press to start a pull, got %s", m.state.Status)
	}
}

func TestQuitUnmounts(t *testing.T) {
	m, _ := newTestModel(t, testFeedConfig())
	m.Update(press(2))
	m.Update(motion(14))

	_, cmd := m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'q'}})
	if cmd == nil {
		t.Fatalf("expected quit command")
	}
	if m.controller.Mounted() {
		t.Fatalf("expected controller to be unmounted")
	}
	fireAll(m)
	if m.state.Status != pull.StatusRefreshing {
		t.Fatalf("expected no state change after unmount, got %s", m.state.Status)
	}
}

func TestIndicatorGrowsWithPull(t *testing.T) {
	m, _ := newTestModel(t, testFeedConfig())
	before := m.viewport.Height
	m.Update(press(2))
	m.Update(motion(12))
	if m.viewport.Height >= before {
		t.Fatalf("expected indicator to take rows from the feed: %d >= %d", m.viewport.Height, before)
	}
}

func TestCardInsertKeepsGestureError(t *testing.T) {
	m, st := newTestModel(t, testFeedConfig())
	card := m.cards[0]
	if err := st.Close(); err != nil {
		t.Fatalf("close store: %v", err)
	}

	m.Update(press(2))
	m.Update(motion(4))
	m.Update(release(4))
	if !strings.Contains(m.errMsg, "failed to record gesture") {
		t.Fatalf("expected gesture error, got %q", m.errMsg)
	}

	m.Update(cardFailedMsg{err: errors.New("disk full")})
	if !strings.Contains(m.renderFooter(), "failed to record gesture") {
		t.Fatalf("expected store error to take precedence: %q", m.renderFooter())
	}
	m.Update(cardAddedMsg{card: card})
	if m.refreshErr != "" {
		t.Fatalf("expected refresh error to clear, got %q", m.refreshErr)
	}
	if !strings.Contains(m.renderFooter(), "failed to record gesture") {
		t.Fatalf("expected gesture error to survive a card insert: %q", m.renderFooter())
	}
}

func TestCardInsertClearsRefreshError(t *testing.T) {
	m, _ := newTestModel(t, testFeedConfig())
	m.Update(cardFailedMsg{err: errors.New("disk full")})
	if !strings.Contains(m.renderFooter(), "refresh failed: disk full") {
		t.Fatalf("expected refresh error in footer: %q", m.renderFooter())
	}
	m.Update(m.addCardCmd()())
	if strings.Contains(m.renderFooter(), "refresh failed") {
		t.Fatalf("expected refresh error to clear: %q", m.renderFooter())
	}
}
