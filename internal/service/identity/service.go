// Package identity implements account lifecycle: signup with email
// verification, signin, and username attachment with the rename cascade.
package identity

import (
	"context"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/campuseats/freefood-backend/internal/config"
	"github.com/campuseats/freefood-backend/internal/domain"
	"github.com/campuseats/freefood-backend/internal/validation"
)

// accountRepo defines the account repository interface needed by the identity service.
type accountRepo interface {
	Save(ctx context.Context, a *domain.Account) error
	Get(ctx context.Context, id uuid.UUID) (*domain.Account, error)
	ByEmail(ctx context.Context, email string) (*domain.Account, error)
	ByVerificationTokenHash(ctx context.Context, hash string) (*domain.Account, error)
}

// usernameRegistry defines the registry interface needed by the identity service.
type usernameRegistry interface {
	Reserve(ctx context.Context, username string, accountID uuid.UUID) error
	Rename(ctx context.Context, accountID uuid.UUID, oldUsername, newUsername string) error
}

// eventRenamer propagates a username change to every event the user created.
type eventRenamer interface {
	RenameCreator(ctx context.Context, oldUsername, newUsername string) (int, error)
}

// leaderboardRenamer propagates a username change to the leaderboard entry.
type leaderboardRenamer interface {
	RenameInLeaderboard(ctx context.Context, oldUsername, newUsername string) error
}

// tokenManager defines the token management interface needed by the identity service.
type tokenManager interface {
	GenerateSessionToken(accountID uuid.UUID) (string, error)
	GenerateVerificationToken() (raw string, hash string, err error)
}

// Service implements identity operations.
type Service struct {
	log      *slog.Logger
	accounts accountRepo
	registry usernameRegistry
	events   eventRenamer
	board    leaderboardRenamer
	tokens   tokenManager
	rules    *validation.Rules
	cfg      config.AuthConfig

	now func() time.Time
}

// NewService creates a new identity service instance.
func NewService(
	logger *slog.Logger,
	accounts accountRepo,
	registry usernameRegistry,
	events eventRenamer,
	board leaderboardRenamer,
	tokens tokenManager,
	rules *validation.Rules,
	cfg config.AuthConfig,
) *Service {
	return &Service{
		log:      logger.With("service", "identity"),
		accounts: accounts,
		registry: registry,
		events:   events,
		board:    board,
		tokens:   tokens,
		rules:    rules,
		cfg:      cfg,
		now:      time.Now,
	}
}
