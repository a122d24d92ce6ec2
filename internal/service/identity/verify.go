package identity

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/campuseats/freefood-backend/internal/auth"
	"github.com/campuseats/freefood-backend/internal/domain"
)

// VerifyEmail consumes a raw verification token. An unknown, already-used
// or timed-out token comes back as ErrCredentialExpired, which the auth
// flow turns into a "request a new link" prompt.
func (s *Service) VerifyEmail(ctx context.Context, rawToken string) (*domain.Account, error) {
	if rawToken == "" {
		return nil, domain.NewValidationError("token", "verification token is empty")
	}

	account, err := s.accounts.ByVerificationTokenHash(ctx, auth.HashToken(rawToken))
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, fmt.Errorf("identity.VerifyEmail: %w", domain.ErrCredentialExpired)
		}
		return nil, fmt.Errorf("identity.VerifyEmail: %w", err)
	}

	if s.now().Sub(account.VerificationSentAt) > s.cfg.VerificationTTL {
		return nil, fmt.Errorf("identity.VerifyEmail: token issued too long ago: %w", domain.ErrCredentialExpired)
	}

	account.EmailVerified = true
	account.VerificationTokenHash = ""
	if err := s.accounts.Save(ctx, account); err != nil {
		return nil, fmt.Errorf("identity.VerifyEmail save: %w", err)
	}

	s.log.InfoContext(ctx, "email verified",
		slog.String("account_id", account.ID.String()))

	return account, nil
}
