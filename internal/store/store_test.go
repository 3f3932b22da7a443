package store

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/verte-zerg/pullfeed/internal/model"
)

func openTestStore(t *testing.T) *Store {
	t.Helper()
	st, err := Open(filepath.Join(t.TempDir(), "pullfeed.db"))
	if err != nil {
		t.Fatalf("open store: %v", err)
	}
	t.Cleanup(func() {
		_ = st.Close()
	})
	return st
}

func TestCardsNewestFirst(t *testing.T) {
	st := openTestStore(t)
	ctx := context.Background()
	base := time.Unix(0, 0).UTC()
	for i, caption := range []string{"first", "second", "third"} {
		card, err := st.InsertCard(ctx, base.Add(time.Duration(i)*time.Minute), caption)
		if err != nil {
			t.Fatalf("insert card: %v", err)
		}
		if card.ID == 0 || card.Caption != caption {
			t.Fatalf("unexpected card: %+v", card)
		}
	}

	cards, err := st.ListCards(ctx, 0)
	if err != nil {
		t.Fatalf("list cards: %v", err)
	}
	if len(cards) != 3 {
		t.Fatalf("expected 3 cards, got %d", len(cards))
	}
	if cards[0].Caption != "third" || cards[2].Caption != "first" {
		t.Fatalf("unexpected order: %+v", cards)
	}
	if !cards[2].CreatedAt.Equal(base) {
		t.Fatalf("unexpected created_at %v", cards[2].CreatedAt)
	}

	limited, err := st.ListCards(ctx, 2)
	if err != nil {
		t.Fatalf("list cards: %v", err)
	}
	if len(limited) != 2 || limited[0].Caption != "third" {
		t.Fatalf("unexpected limited cards: %+v", limited)
	}
}

func TestGestureHistoryFilters(t *testing.T) {
	st := openTestStore(t)
	ctx := context.Background()
	base := time.Date(2026, 1, 1, 12, 0, 0, 0, time.UTC)
	outcomes := []model.Outcome{model.OutcomeAborted, model.OutcomeRefreshed, model.OutcomeRefreshed}
	for i, outcome := range outcomes {
		start := base.Add(time.Duration(i) * time.Hour)
		_, err := st.InsertGesture(ctx, model.Gesture{
			StartedAt:     start,
			EndedAt:       start.Add(time.Second),
			Outcome:       outcome,
			PeakPulled:    float64(20 * (i + 1)),
			DistThreshold: 72,
		})
		if err != nil {
			t.Fatalf("insert gesture: %v", err)
		}
	}

	all, err := st.ListGestures(ctx, model.HistoryConfig{})
	if err != nil {
		t.Fatalf("list gestures: %v", err)
	}
	if len(all) != 3 {
		t.Fatalf("expected 3 gestures, got %d", len(all))
	}
	if all[0].Outcome != model.OutcomeAborted || all[0].PeakPulled != 20 {
		t.Fatalf("unexpected first gesture: %+v", all[0])
	}

	last, err := st.ListGestures(ctx, model.HistoryConfig{Last: 2})
	if err != nil {
		t.Fatalf("list gestures: %v", err)
	}
	if len(last) != 2 || last[0].PeakPulled != 40 {
		t.Fatalf("unexpected last gestures: %+v", last)
	}

	since := base.Add(90 * time.Minute)
	recent, err := st.ListGestures(ctx, model.HistoryConfig{Since: &since})
	if err != nil {
		t.Fatalf("list gestures: %v", err)
	}
	if len(recent) != 1 || recent[0].PeakPulled != 60 {
		t.Fatalf("unexpected recent gestures: %+v", recent)
	}
}
