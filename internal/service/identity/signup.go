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

// SignUp creates an unverified account for an institutional email address.
// Returns ErrAlreadyExists if the email is already registered. The result
// carries the raw verification token to deliver to the user.
func (s *Service) SignUp(ctx context.Context, email, password string) (*SignUpResult, error) {
	email = strings.ToLower(strings.TrimSpace(email))

	if err := s.rules.ValidateEmail(email); err != nil {
		return nil, domain.NewValidationError("email", err.Error())
	}
	if err := s.rules.ValidatePassword(password); err != nil {
		return nil, domain.NewValidationError("password", err.Error())
	}

	_, err := s.accounts.ByEmail(ctx, email)
	if err == nil {
		return nil, fmt.Errorf("identity.SignUp: email taken: %w", domain.ErrAlreadyExists)
	}
	if !errors.Is(err, domain.ErrNotFound) {
		return nil, fmt.Errorf("identity.SignUp: %w", err)
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), s.cfg.PasswordHashCost)
	if err != nil {
		return nil, fmt.Errorf("identity.SignUp hash password: %w", err)
	}

	rawToken, tokenHash, err := s.tokens.GenerateVerificationToken()
	if err != nil {
		return nil, fmt.Errorf("identity.SignUp verification token: %w", err)
	}

	now := s.now()
	account := &domain.Account{
		ID:                    uuid.New(),
		Email:                 email,
		PasswordHash:          string(hash),
		VerificationTokenHash: tokenHash,
		VerificationSentAt:    now,
		CreatedAt:             now,
	}
	if err := s.accounts.Save(ctx, account); err != nil {
		return nil, fmt.Errorf("identity.SignUp save account: %w", err)
	}

	s.log.InfoContext(ctx, "account created, verification pending",
		slog.String("account_id", account.ID.String()))

	return &SignUpResult{
		AccountID:         account.ID,
		VerificationToken: rawToken,
	}, nil
}

// ResendVerification issues a fresh verification token for an unverified
// account, invalidating the previous one.
func (s *Service) ResendVerification(ctx context.Context, email string) (string, error) {
	email = strings.ToLower(strings.TrimSpace(email))

	account, err := s.accounts.ByEmail(ctx, email)
	if err != nil {
		return "", fmt.Errorf("identity.ResendVerification: %w", err)
	}
	if account.EmailVerified {
		return "", fmt.Errorf("identity.ResendVerification: email already verified: %w", domain.ErrAlreadyExists)
	}

	rawToken, tokenHash, err := s.tokens.GenerateVerificationToken()
	if err != nil {
		return "", fmt.Errorf("identity.ResendVerification: %w", err)
	}

	account.VerificationTokenHash = tokenHash
	account.VerificationSentAt = s.now()
	if err := s.accounts.Save(ctx, account); err != nil {
		return "", fmt.Errorf("identity.ResendVerification save: %w", err)
	}

	s.log.InfoContext(ctx, "verification token reissued",
		slog.String("account_id", account.ID.String()))

	return rawToken, nil
}
