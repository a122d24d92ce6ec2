package identity

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/google/uuid"

	"github.com/campuseats/freefood-backend/internal/domain"
)

// SetUsername assigns the account its first username by reserving it in the
// registry, and issues a session token so signup finishes authenticated.
// Returns ErrConflict if the name is taken, ErrAlreadyExists if the account
// already picked one (renames go through ChangeUsername).
func (s *Service) SetUsername(ctx context.Context, accountID uuid.UUID, username string) (*SetUsernameResult, error) {
	account, err := s.accounts.Get(ctx, accountID)
	if err != nil {
		return nil, fmt.Errorf("identity.SetUsername: %w", err)
	}
	if account.HasProfile() {
		return nil, fmt.Errorf("identity.SetUsername: account already has a username: %w", domain.ErrAlreadyExists)
	}

	if err := s.registry.Reserve(ctx, username, accountID); err != nil {
		return nil, err
	}

	account.Username = strings.TrimSpace(username)
	if err := s.accounts.Save(ctx, account); err != nil {
		return nil, fmt.Errorf("identity.SetUsername save: %w", err)
	}

	token, err := s.tokens.GenerateSessionToken(account.ID)
	if err != nil {
		return nil, fmt.Errorf("identity.SetUsername issue token: %w", err)
	}

	s.log.InfoContext(ctx, "username assigned",
		slog.String("account_id", accountID.String()),
		slog.String("username", account.Username))

	return &SetUsernameResult{Account: account, SessionToken: token}, nil
}

// ChangeUsername renames the account and cascades the new name to every
// place the old one is embedded: the reservation registry, the createdBy
// field of the user's events, and the leaderboard entry. Leaderboard rank
// and event history survive the rename unchanged.
func (s *Service) ChangeUsername(ctx context.Context, accountID uuid.UUID, newUsername string) (*domain.Account, error) {
	account, err := s.accounts.Get(ctx, accountID)
	if err != nil {
		return nil, fmt.Errorf("identity.ChangeUsername: %w", err)
	}
	if !account.HasProfile() {
		return nil, fmt.Errorf("identity.ChangeUsername: account has no username yet: %w", domain.ErrNotFound)
	}

	oldUsername := account.Username
	display := strings.TrimSpace(newUsername)
	if domain.ReservationKey(display) == domain.ReservationKey(oldUsername) && display == oldUsername {
		return account, nil
	}

	if err := s.registry.Rename(ctx, accountID, oldUsername, display); err != nil {
		return nil, err
	}

	renamed, err := s.events.RenameCreator(ctx, oldUsername, display)
	if err != nil {
		return nil, fmt.Errorf("identity.ChangeUsername rename events: %w", err)
	}
	if err := s.board.RenameInLeaderboard(ctx, oldUsername, display); err != nil {
		return nil, fmt.Errorf("identity.ChangeUsername rename leaderboard: %w", err)
	}

	account.Username = display
	if err := s.accounts.Save(ctx, account); err != nil {
		return nil, fmt.Errorf("identity.ChangeUsername save: %w", err)
	}

	s.log.InfoContext(ctx, "username changed",
		slog.String("account_id", accountID.String()),
		slog.String("old", oldUsername),
		slog.String("new", display),
		slog.Int("events_renamed", renamed))

	return account, nil
}
