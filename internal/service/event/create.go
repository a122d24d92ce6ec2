package event

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/google/uuid"

	"github.com/campuseats/freefood-backend/internal/docstore"
	"github.com/campuseats/freefood-backend/internal/domain"
)

// Create validates the draft, persists a fresh event and credits the
// creator on the leaderboard.
func (s *Service) Create(ctx context.Context, input CreateEventInput) (*domain.Event, error) {
	if err := input.Validate(); err != nil {
		return nil, err
	}

	now := s.now()
	e := &domain.Event{
		ID:            uuid.New(),
		Title:         strings.TrimSpace(input.Title),
		Description:   strings.TrimSpace(input.Description),
		Location:      input.Location,
		LocationLabel: strings.TrimSpace(input.LocationLabel),
		StartTime:     input.StartTime,
		EndTime:       input.EndTime,
		CreatedBy:     strings.TrimSpace(input.CreatedBy),
		IsActive:      input.EndTime.After(now),
		Tags:          input.Tags,
		CreatedAt:     now,
	}

	// The event and the creator's leaderboard point commit together, so a
	// posting is credited exactly once and a failed credit leaves no
	// half-created event behind (retrying is then safe).
	err := s.events.RunTransaction(ctx, func(ctx context.Context, tx docstore.Tx) error {
		if err := s.events.SaveIn(ctx, tx, e); err != nil {
			return err
		}
		return s.stats.RecordPostedEventIn(ctx, tx, input.CreatorAccountID, e.CreatedBy)
	})
	if err != nil {
		return nil, fmt.Errorf("event.Create: %w", err)
	}

	s.log.InfoContext(ctx, "event created",
		slog.String("event_id", e.ID.String()),
		slog.String("created_by", e.CreatedBy))

	return e, nil
}
