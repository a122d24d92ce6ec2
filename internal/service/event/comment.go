package event

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"

	"github.com/campuseats/freefood-backend/internal/domain"
)

// AddComment appends an immutable comment to the event. The text is
// trimmed, rejected if empty, and clamped to the 280-character limit.
// The event's active flag is refreshed as part of the same write.
func (s *Service) AddComment(ctx context.Context, eventID uuid.UUID, text, authorUsername string) (*domain.Event, error) {
	text = strings.TrimSpace(text)
	if text == "" {
		return nil, domain.NewValidationError("text", "comment is empty")
	}
	text = clampRunes(text, domain.MaxCommentLength)

	e, err := s.events.Get(ctx, eventID)
	if err != nil {
		return nil, fmt.Errorf("event.AddComment: %w", err)
	}

	now := s.now()
	e.Comments = append(e.Comments, domain.Comment{
		ID:             uuid.New(),
		Text:           text,
		AuthorUsername: authorUsername,
		Timestamp:      now,
	})
	e.RefreshActive(now)

	if err := s.events.Save(ctx, e); err != nil {
		return nil, fmt.Errorf("event.AddComment save: %w", err)
	}
	return e, nil
}

// clampRunes truncates s to at most n runes.
func clampRunes(s string, n int) string {
	runes := []rune(s)
	if len(runes) <= n {
		return s
	}
	return string(runes[:n])
}
