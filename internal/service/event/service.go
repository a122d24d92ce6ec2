// Package event implements the event lifecycle engine: posting, comments,
// attendance, time-derived status, and the creator rename cascade.
package event

import (
	"context"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/campuseats/freefood-backend/internal/docstore"
	"github.com/campuseats/freefood-backend/internal/domain"
)

// eventRepo defines the event repository interface needed by the event service.
type eventRepo interface {
	Save(ctx context.Context, e *domain.Event) error
	SaveIn(ctx context.Context, w docstore.Writer, e *domain.Event) error
	Get(ctx context.Context, id uuid.UUID) (*domain.Event, error)
	List(ctx context.Context) ([]domain.Event, error)
	ListIn(ctx context.Context, view docstore.Reader) ([]domain.Event, error)
	ByCreator(ctx context.Context, username string) ([]domain.Event, error)
	RunTransaction(ctx context.Context, fn func(ctx context.Context, tx docstore.Tx) error) error
}

// statsRecorder credits the creator on the leaderboard when an event is
// posted. The credit runs inside the same transaction as the event write.
type statsRecorder interface {
	RecordPostedEventIn(ctx context.Context, tx docstore.Tx, accountID uuid.UUID, username string) error
}

// Service implements event operations.
type Service struct {
	log    *slog.Logger
	events eventRepo
	stats  statsRecorder

	now func() time.Time
}

// NewService creates a new event service instance.
func NewService(logger *slog.Logger, events eventRepo, stats statsRecorder) *Service {
	return &Service{
		log:    logger.With("service", "event"),
		events: events,
		stats:  stats,
		now:    time.Now,
	}
}
