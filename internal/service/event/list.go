package event

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"github.com/campuseats/freefood-backend/internal/domain"
)

// Get fetches one event with its active flag freshly recomputed.
func (s *Service) Get(ctx context.Context, id uuid.UUID) (*domain.Event, error) {
	e, err := s.events.Get(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("event.Get: %w", err)
	}
	e.RefreshActive(s.now())
	return e, nil
}

// List returns all events with their active flags freshly recomputed, so a
// feed rendered from the result never shows an already-ended event as live.
func (s *Service) List(ctx context.Context) ([]domain.Event, error) {
	events, err := s.events.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("event.List: %w", err)
	}
	now := s.now()
	for i := range events {
		events[i].RefreshActive(now)
	}
	return events, nil
}

// ListByCreator returns the events posted under the given username.
func (s *Service) ListByCreator(ctx context.Context, username string) ([]domain.Event, error) {
	events, err := s.events.ByCreator(ctx, username)
	if err != nil {
		return nil, fmt.Errorf("event.ListByCreator: %w", err)
	}
	now := s.now()
	for i := range events {
		events[i].RefreshActive(now)
	}
	return events, nil
}
