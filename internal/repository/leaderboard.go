package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"

	"github.com/campuseats/freefood-backend/internal/docstore"
	"github.com/campuseats/freefood-backend/internal/domain"
)

// leaderboardDocID is the single global leaderboard document.
const leaderboardDocID = "global"

type leaderboardRecord struct {
	Entries []leaderboardEntryRecord `json:"entries"`
}

type leaderboardEntryRecord struct {
	ID       string `json:"id"`
	Username string `json:"username"`
	Points   int    `json:"points"`
}

// Leaderboard persists the global ranked leaderboard as one document,
// preserving entry order (the stored order IS the rank order).
type Leaderboard struct {
	store docstore.Store
}

// NewLeaderboard creates the leaderboard repository.
func NewLeaderboard(store docstore.Store) *Leaderboard {
	return &Leaderboard{store: store}
}

// Load fetches the leaderboard entries in rank order. A missing document
// is an empty leaderboard, not an error.
func (r *Leaderboard) Load(ctx context.Context) ([]domain.LeaderboardEntry, error) {
	return r.LoadIn(ctx, r.store)
}

// LoadIn fetches the leaderboard through the given store view.
func (r *Leaderboard) LoadIn(ctx context.Context, view docstore.Reader) ([]domain.LeaderboardEntry, error) {
	var rec leaderboardRecord
	if err := view.Get(ctx, docstore.CollectionLeaderboard, leaderboardDocID, &rec); err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, nil
		}
		return nil, fmt.Errorf("load leaderboard: %w", err)
	}

	entries := make([]domain.LeaderboardEntry, 0, len(rec.Entries))
	for _, e := range rec.Entries {
		id, err := uuid.Parse(e.ID)
		if err != nil {
			return nil, fmt.Errorf("leaderboard entry id %q: %w", e.ID, err)
		}
		entries = append(entries, domain.LeaderboardEntry{
			ID:       id,
			Username: e.Username,
			Points:   e.Points,
		})
	}
	return entries, nil
}

// Save writes the leaderboard entries in the given order.
func (r *Leaderboard) Save(ctx context.Context, entries []domain.LeaderboardEntry) error {
	return r.SaveIn(ctx, r.store, entries)
}

// SaveIn writes the leaderboard through the given store view.
func (r *Leaderboard) SaveIn(ctx context.Context, w docstore.Writer, entries []domain.LeaderboardEntry) error {
	recs := make([]leaderboardEntryRecord, len(entries))
	for i, e := range entries {
		recs[i] = leaderboardEntryRecord{
			ID:       e.ID.String(),
			Username: e.Username,
			Points:   e.Points,
		}
	}
	if err := w.Put(ctx, docstore.CollectionLeaderboard, leaderboardDocID, leaderboardRecord{Entries: recs}); err != nil {
		return fmt.Errorf("save leaderboard: %w", err)
	}
	return nil
}
