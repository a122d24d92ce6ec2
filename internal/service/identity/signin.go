package identity

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"github.com/campuseats/freefood-backend/internal/domain"
)

// SignIn authenticates an email + password pair and issues a session token.
// A wrong password and an unknown email both come back as ErrUnauthorized,
// so the caller cannot probe which addresses are registered.
func (s *Service) SignIn(ctx context.Context, email, password string) (*SignInResult, error) {
	email = strings.ToLower(strings.TrimSpace(email))

	account, err := s.accounts.ByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, fmt.Errorf("identity.SignIn: %w", domain.ErrUnauthorized)
		}
		return nil, fmt.Errorf("identity.SignIn: %w", err)
	}

	if err := bcrypt.CompareHashAndPassword([]byte(account.PasswordHash), []byte(password)); err != nil {
		return nil, fmt.Errorf("identity.SignIn: %w", domain.ErrUnauthorized)
	}

	token, err := s.tokens.GenerateSessionToken(account.ID)
	if err != nil {
		return nil, fmt.Errorf("identity.SignIn issue token: %w", err)
	}

	s.log.InfoContext(ctx, "signed in",
		slog.String("account_id", account.ID.String()))

	return &SignInResult{
		AccountID:         account.ID,
		SessionToken:      token,
		Username:          account.Username,
		NeedsVerification: !account.EmailVerified,
		NeedsUsername:     !account.HasProfile(),
	}, nil
}

// CheckVerification reports how far the pending account has progressed.
// The auth flow polls this while the verification screen is shown. An
// account that already holds a username gets a session token, since no
// onboarding step remains after verification.
func (s *Service) CheckVerification(ctx context.Context, accountID uuid.UUID) (*VerificationStatus, error) {
	account, err := s.accounts.Get(ctx, accountID)
	if err != nil {
		return nil, fmt.Errorf("identity.CheckVerification: %w", err)
	}
	if !account.EmailVerified {
		return &VerificationStatus{}, nil
	}

	status := &VerificationStatus{Verified: true}
	if account.HasProfile() {
		token, err := s.tokens.GenerateSessionToken(account.ID)
		if err != nil {
			return nil, fmt.Errorf("identity.CheckVerification issue token: %w", err)
		}
		status.Username = account.Username
		status.SessionToken = token
	}
	return status, nil
}
