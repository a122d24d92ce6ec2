package event

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/campuseats/freefood-backend/internal/docstore"
)

// RenameCreator rewrites oldUsername to newUsername across the whole event
// collection: every matching createdBy field and every matching comment
// author. The rewrite runs in one store transaction so a half-renamed
// collection is never observable. Returns the number of events touched.
func (s *Service) RenameCreator(ctx context.Context, oldUsername, newUsername string) (int, error) {
	touched := 0

	err := s.events.RunTransaction(ctx, func(ctx context.Context, tx docstore.Tx) error {
		touched = 0
		events, err := s.events.ListIn(ctx, tx)
		if err != nil {
			return err
		}

		for i := range events {
			e := &events[i]
			changed := false

			if e.CreatedBy == oldUsername {
				e.CreatedBy = newUsername
				changed = true
			}
			for j := range e.Comments {
				if e.Comments[j].AuthorUsername == oldUsername {
					e.Comments[j].AuthorUsername = newUsername
					changed = true
				}
			}

			if changed {
				if err := s.events.SaveIn(ctx, tx, e); err != nil {
					return err
				}
				touched++
			}
		}
		return nil
	})
	if err != nil {
		return 0, fmt.Errorf("event.RenameCreator: %w", err)
	}

	s.log.InfoContext(ctx, "creator renamed across events",
		slog.String("old", oldUsername),
		slog.String("new", newUsername),
		slog.Int("events", touched))

	return touched, nil
}
