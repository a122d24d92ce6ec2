// Package registry manages the bijection between accounts and globally
// unique, case-insensitive usernames.
package registry

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/campuseats/freefood-backend/internal/docstore"
	"github.com/campuseats/freefood-backend/internal/domain"
	"github.com/campuseats/freefood-backend/internal/validation"
)

// reservationRepo defines the reservation repository interface needed by the registry.
type reservationRepo interface {
	Get(ctx context.Context, username string) (*domain.UsernameReservation, error)
	GetIn(ctx context.Context, view docstore.Reader, username string) (*domain.UsernameReservation, error)
	PutIn(ctx context.Context, w docstore.Writer, username string, res *domain.UsernameReservation) error
	DeleteIn(ctx context.Context, w docstore.Writer, username string) error
	Delete(ctx context.Context, username string) error
	ByAccount(ctx context.Context, accountID uuid.UUID) (*domain.UsernameReservation, error)
	RunTransaction(ctx context.Context, fn func(ctx context.Context, tx docstore.Tx) error) error
}

// Service implements username registry operations.
type Service struct {
	log          *slog.Logger
	reservations reservationRepo
	rules        *validation.Rules

	now func() time.Time
}

// NewService creates a new registry service.
func NewService(logger *slog.Logger, reservations reservationRepo, rules *validation.Rules) *Service {
	return &Service{
		log:          logger.With("service", "registry"),
		reservations: reservations,
		rules:        rules,
		now:          time.Now,
	}
}

// IsAvailable reports whether the username can be reserved. A
// badly-formatted username is unavailable and carries the validation reason.
func (s *Service) IsAvailable(ctx context.Context, username string) (bool, error) {
	if err := s.rules.ValidateUsername(username); err != nil {
		return false, domain.NewValidationError("username", err.Error())
	}

	_, err := s.reservations.Get(ctx, username)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return true, nil
		}
		return false, fmt.Errorf("registry.IsAvailable: %w", err)
	}
	return false, nil
}

// Reserve assigns the username to the account, or fails with
// domain.ErrConflict if another account holds it. The read-then-
// conditionally-write runs in a single store transaction, so two signups
// racing for the same name cannot both succeed. Re-reserving an owned
// username is an idempotent success (re-login/retry case).
func (s *Service) Reserve(ctx context.Context, username string, accountID uuid.UUID) error {
	if err := s.rules.ValidateUsername(username); err != nil {
		return domain.NewValidationError("username", err.Error())
	}
	display := strings.TrimSpace(username)

	err := s.reservations.RunTransaction(ctx, func(ctx context.Context, tx docstore.Tx) error {
		existing, err := s.reservations.GetIn(ctx, tx, username)
		if err != nil {
			if !errors.Is(err, domain.ErrNotFound) {
				return err
			}
			return s.reservations.PutIn(ctx, tx, username, &domain.UsernameReservation{
				AccountID:       accountID,
				DisplayUsername: display,
				CreatedAt:       s.now(),
			})
		}
		if existing.AccountID == accountID {
			return nil
		}
		return fmt.Errorf("username %q: %w", display, domain.ErrConflict)
	})
	if err != nil {
		if errors.Is(err, domain.ErrConflict) {
			return err
		}
		// A SQL backend can report the losing insert of a reservation
		// race as a unique violation instead of a serialization failure.
		if errors.Is(err, domain.ErrAlreadyExists) {
			return fmt.Errorf("username %q: %w", display, domain.ErrConflict)
		}
		return fmt.Errorf("registry.Reserve: %w", err)
	}

	s.log.InfoContext(ctx, "username reserved",
		slog.String("username", display),
		slog.String("account_id", accountID.String()))
	return nil
}

// UsernameFor reverse-looks-up the display username owned by the account.
// Returns domain.ErrNotFound if the account has no username yet.
func (s *Service) UsernameFor(ctx context.Context, accountID uuid.UUID) (string, error) {
	res, err := s.reservations.ByAccount(ctx, accountID)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return "", err
		}
		return "", fmt.Errorf("registry.UsernameFor: %w", err)
	}
	return res.DisplayUsername, nil
}

// Release removes the reservation (rename or account deletion).
func (s *Service) Release(ctx context.Context, username string) error {
	if err := s.reservations.Delete(ctx, username); err != nil {
		return fmt.Errorf("registry.Release: %w", err)
	}
	return nil
}

// Rename atomically moves the account's reservation from oldUsername to
// newUsername: the new name is reserved and the old one released in one
// transaction, so no observer sees the account holding zero or two names.
func (s *Service) Rename(ctx context.Context, accountID uuid.UUID, oldUsername, newUsername string) error {
	if err := s.rules.ValidateUsername(newUsername); err != nil {
		return domain.NewValidationError("username", err.Error())
	}
	display := strings.TrimSpace(newUsername)

	err := s.reservations.RunTransaction(ctx, func(ctx context.Context, tx docstore.Tx) error {
		current, err := s.reservations.GetIn(ctx, tx, oldUsername)
		if err != nil {
			return err
		}
		if current.AccountID != accountID {
			return fmt.Errorf("username %q not owned by account: %w", oldUsername, domain.ErrConflict)
		}

		existing, err := s.reservations.GetIn(ctx, tx, newUsername)
		if err == nil && existing.AccountID != accountID {
			return fmt.Errorf("username %q: %w", display, domain.ErrConflict)
		}
		if err != nil && !errors.Is(err, domain.ErrNotFound) {
			return err
		}

		if err := s.reservations.DeleteIn(ctx, tx, oldUsername); err != nil {
			return err
		}
		return s.reservations.PutIn(ctx, tx, newUsername, &domain.UsernameReservation{
			AccountID:       accountID,
			DisplayUsername: display,
			CreatedAt:       s.now(),
		})
	})
	if err != nil {
		if errors.Is(err, domain.ErrConflict) || errors.Is(err, domain.ErrNotFound) {
			return err
		}
		return fmt.Errorf("registry.Rename: %w", err)
	}

	s.log.InfoContext(ctx, "username renamed",
		slog.String("old", oldUsername),
		slog.String("new", display))
	return nil
}
