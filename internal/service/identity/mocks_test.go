package identity

import (
	"context"

	"github.com/google/uuid"

	"github.com/campuseats/freefood-backend/internal/domain"
)

// Hand-rolled fakes with overridable func fields, one per service dependency.

type accountRepoMock struct {
	SaveFunc                    func(ctx context.Context, a *domain.Account) error
	GetFunc                     func(ctx context.Context, id uuid.UUID) (*domain.Account, error)
	ByEmailFunc                 func(ctx context.Context, email string) (*domain.Account, error)
	ByVerificationTokenHashFunc func(ctx context.Context, hash string) (*domain.Account, error)
}

func (m *accountRepoMock) Save(ctx context.Context, a *domain.Account) error {
	return m.SaveFunc(ctx, a)
}

func (m *accountRepoMock) Get(ctx context.Context, id uuid.UUID) (*domain.Account, error) {
	return m.GetFunc(ctx, id)
}

func (m *accountRepoMock) ByEmail(ctx context.Context, email string) (*domain.Account, error) {
	return m.ByEmailFunc(ctx, email)
}

func (m *accountRepoMock) ByVerificationTokenHash(ctx context.Context, hash string) (*domain.Account, error) {
	return m.ByVerificationTokenHashFunc(ctx, hash)
}

type registryMock struct {
	ReserveFunc func(ctx context.Context, username string, accountID uuid.UUID) error
	RenameFunc  func(ctx context.Context, accountID uuid.UUID, oldUsername, newUsername string) error
}

func (m *registryMock) Reserve(ctx context.Context, username string, accountID uuid.UUID) error {
	return m.ReserveFunc(ctx, username, accountID)
}

func (m *registryMock) Rename(ctx context.Context, accountID uuid.UUID, oldUsername, newUsername string) error {
	return m.RenameFunc(ctx, accountID, oldUsername, newUsername)
}

type eventRenamerMock struct {
	RenameCreatorFunc func(ctx context.Context, oldUsername, newUsername string) (int, error)
}

func (m *eventRenamerMock) RenameCreator(ctx context.Context, oldUsername, newUsername string) (int, error) {
	return m.RenameCreatorFunc(ctx, oldUsername, newUsername)
}

type leaderboardRenamerMock struct {
	RenameInLeaderboardFunc func(ctx context.Context, oldUsername, newUsername string) error
}

func (m *leaderboardRenamerMock) RenameInLeaderboard(ctx context.Context, oldUsername, newUsername string) error {
	return m.RenameInLeaderboardFunc(ctx, oldUsername, newUsername)
}

type tokenManagerMock struct {
	GenerateSessionTokenFunc      func(accountID uuid.UUID) (string, error)
	GenerateVerificationTokenFunc func() (string, string, error)
}

func (m *tokenManagerMock) GenerateSessionToken(accountID uuid.UUID) (string, error) {
	return m.GenerateSessionTokenFunc(accountID)
}

func (m *tokenManagerMock) GenerateVerificationToken() (string, string, error) {
	return m.GenerateVerificationTokenFunc()
}
