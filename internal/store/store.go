// Package store handles SQLite persistence.
package store

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/verte-zerg/pullfeed/internal/model"

	_ "modernc.org/sqlite" // SQLite driver.
)

// Store wraps SQLite access for cards and gesture history.
type Store struct {
	db *sql.DB
}

// Open opens or creates the SQLite database and applies migrations.
func Open(path string) (*Store, error) {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, err
	}
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, err
	}
	// Refresh commands insert from their own goroutine.
	db.SetMaxOpenConns(1)
	store := &Store{db: db}
	if err := store.migrate(); err != nil {
		if cerr := db.Close(); cerr != nil {
			// Best-effort close on migration failure.
			_ = cerr
		}
		return nil, err
	}
	return store, nil
}

// Close closes the underlying database.
func (s *Store) Close() error {
	return s.db.Close()
}

func (s *Store) migrate() error {
	stmts := []string{
		`CREATE TABLE IF NOT EXISTS cards (
			id INTEGER PRIMARY KEY,
			created_at TEXT NOT NULL,
			caption TEXT NOT NULL
		);`,
		`CREATE TABLE IF NOT EXISTS gestures (
			id INTEGER PRIMARY KEY,
			started_at TEXT NOT NULL,
			ended_at TEXT NOT NULL,
			outcome TEXT NOT NULL,
			peak_pulled REAL NOT NULL,
			dist_threshold REAL NOT NULL
		);`,
		`CREATE INDEX IF NOT EXISTS idx_cards_created_at ON cards(created_at);`,
		`CREATE INDEX IF NOT EXISTS idx_gestures_ended_at ON gestures(ended_at);`,
	}
	for _, stmt := range stmts {
		if _, err := s.db.Exec(stmt); err != nil {
			return err
		}
	}
	return nil
}

// InsertCard stores a card and returns it with its assigned ID.
func (s *Store) InsertCard(ctx context.Context, createdAt time.Time, caption string) (model.Card, error) {
	res, err := s.db.ExecContext(ctx,
		`INSERT INTO cards (created_at, caption) VALUES (?, ?)`,
		createdAt.Format(time.RFC3339Nano),
		caption,
	)
	if err != nil {
		return model.Card{}, err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return model.Card{}, err
	}
	return model.Card{ID: id, CreatedAt: createdAt, Caption: caption}, nil
}

// ListCards returns cards newest first. A non-positive limit returns all cards.
func (s *Store) ListCards(ctx context.Context, limit int) ([]model.Card, error) {
	query := `SELECT id, created_at, caption FROM cards ORDER BY id DESC`
	args := []any{}
	if limit > 0 {
		query += ` LIMIT ?`
		args = append(args, limit)
	}
	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer func() {
		if cerr := rows.Close(); cerr != nil {
			// Best-effort rows close.
			_ = cerr
		}
	}()

	var cards []model.Card
	for rows.Next() {
		var card model.Card
		var createdAt string
		if err := rows.Scan(&card.ID, &createdAt, &card.Caption); err != nil {
			return nil, err
		}
		parsed, err := time.Parse(time.RFC3339Nano, createdAt)
		if err != nil {
			return nil, err
		}
		card.CreatedAt = parsed
		cards = append(cards, card)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return cards, nil
}

// InsertGesture stores a finished gesture.
func (s *Store) InsertGesture(ctx context.Context, g model.Gesture) (int64, error) {
	res, err := s.db.ExecContext(ctx,
		`INSERT INTO gestures (started_at, ended_at, outcome, peak_pulled, dist_threshold)
		 VALUES (?, ?, ?, ?, ?)`,
		g.StartedAt.Format(time.RFC3339Nano),
		g.EndedAt.Format(time.RFC3339Nano),
		string(g.Outcome),
		g.PeakPulled,
		g.DistThreshold,
	)
	if err != nil {
		return 0, err
	}
	return res.LastInsertId()
}

// ListGestures returns gestures filtered by cfg, oldest first.
func (s *Store) ListGestures(ctx context.Context, cfg model.HistoryConfig) ([]model.Gesture, error) {
	clauses := []string{"1=1"}
	args := []any{}
	if cfg.Since != nil {
		clauses = append(clauses, "ended_at >= ?")
		args = append(args, cfg.Since.Format(time.RFC3339Nano))
	}
	query := fmt.Sprintf(`SELECT id, started_at, ended_at, outcome, peak_pulled, dist_threshold
		FROM gestures
		WHERE %s
		ORDER BY ended_at ASC, id ASC`, strings.Join(clauses, " AND "))
	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer func() {
		if cerr := rows.Close(); cerr != nil {
			// Best-effort rows close.
			_ = cerr
		}
	}()

	var gestures []model.Gesture
	for rows.Next() {
		var g model.Gesture
		var startedAt, endedAt, outcome string
		if err := rows.Scan(&g.ID, &startedAt, &endedAt, &outcome, &g.PeakPulled, &g.DistThreshold); err != nil {
			return nil, err
		}
		if g.StartedAt, err = time.Parse(time.RFC3339Nano, startedAt); err != nil {
			return nil, err
		}
		if g.EndedAt, err = time.Parse(time.RFC3339Nano, endedAt); err != nil {
			return nil, err
		}
		g.Outcome = model.Outcome(outcome)
		gestures = append(gestures, g)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	if cfg.Last > 0 && len(gestures) > cfg.Last {
		gestures = gestures[len(gestures)-cfg.Last:]
	}
	return gestures, nil
}
