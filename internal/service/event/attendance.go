package event

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"github.com/campuseats/freefood-backend/internal/domain"
)

// SetAttendance records the account's RSVP on the event. Any prior record
// for the same account is replaced, so at most one attendee entry per
// account exists; repeating the same status is a no-op in effect.
func (s *Service) SetAttendance(ctx context.Context, eventID, accountID uuid.UUID, status domain.AttendanceStatus) (*domain.Event, error) {
	if !domain.IsValidAttendanceStatus(status) {
		return nil, domain.NewValidationError("status", fmt.Sprintf("unknown attendance status %q", status))
	}

	e, err := s.events.Get(ctx, eventID)
	if err != nil {
		return nil, fmt.Errorf("event.SetAttendance: %w", err)
	}

	kept := e.Attendees[:0]
	for _, a := range e.Attendees {
		if a.AccountID != accountID {
			kept = append(kept, a)
		}
	}
	e.Attendees = append(kept, domain.Attendee{
		ID:        uuid.New(),
		AccountID: accountID,
		Status:    status,
	})
	e.RefreshActive(s.now())

	if err := s.events.Save(ctx, e); err != nil {
		return nil, fmt.Errorf("event.SetAttendance save: %w", err)
	}
	return e, nil
}
