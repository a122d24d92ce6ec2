package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/campuseats/freefood-backend/internal/docstore"
	"github.com/campuseats/freefood-backend/internal/domain"
)

// accountRecord is the stored shape of a domain.Account.
type accountRecord struct {
	ID                    string    `json:"id"`
	Email                 string    `json:"email"`
	Username              string    `json:"username"`
	EmailVerified         bool      `json:"emailVerified"`
	PasswordHash          string    `json:"passwordHash"`
	VerificationTokenHash string    `json:"verificationTokenHash"`
	VerificationSentAt    time.Time `json:"verificationSentAt"`
	CreatedAt             time.Time `json:"createdAt"`
}

// Accounts persists domain.Account documents.
type Accounts struct {
	store docstore.Store
}

// NewAccounts creates the accounts repository.
func NewAccounts(store docstore.Store) *Accounts {
	return &Accounts{store: store}
}

// Save upserts the full account document.
func (r *Accounts) Save(ctx context.Context, a *domain.Account) error {
	if err := r.store.Put(ctx, docstore.CollectionAccounts, a.ID.String(), accountToRecord(a)); err != nil {
		return fmt.Errorf("save account: %w", err)
	}
	return nil
}

// Get fetches one account by id.
func (r *Accounts) Get(ctx context.Context, id uuid.UUID) (*domain.Account, error) {
	var rec accountRecord
	if err := r.store.Get(ctx, docstore.CollectionAccounts, id.String(), &rec); err != nil {
		return nil, fmt.Errorf("get account: %w", err)
	}
	return accountFromRecord(rec)
}

// ByEmail fetches the account with the given (already normalized) email.
// Returns domain.ErrNotFound if no account matches.
func (r *Accounts) ByEmail(ctx context.Context, email string) (*domain.Account, error) {
	var recs []accountRecord
	if err := r.store.QueryByField(ctx, docstore.CollectionAccounts, "email", email, 1, &recs); err != nil {
		return nil, fmt.Errorf("account by email: %w", err)
	}
	if len(recs) == 0 {
		return nil, fmt.Errorf("account by email: %w", domain.ErrNotFound)
	}
	return accountFromRecord(recs[0])
}

// ByVerificationTokenHash fetches the account holding the given token hash.
func (r *Accounts) ByVerificationTokenHash(ctx context.Context, hash string) (*domain.Account, error) {
	if hash == "" {
		return nil, fmt.Errorf("account by verification token: %w", errors.New("empty hash"))
	}
	var recs []accountRecord
	if err := r.store.QueryByField(ctx, docstore.CollectionAccounts, "verificationTokenHash", hash, 1, &recs); err != nil {
		return nil, fmt.Errorf("account by verification token: %w", err)
	}
	if len(recs) == 0 {
		return nil, fmt.Errorf("account by verification token: %w", domain.ErrNotFound)
	}
	return accountFromRecord(recs[0])
}

// Delete removes the account document.
func (r *Accounts) Delete(ctx context.Context, id uuid.UUID) error {
	if err := r.store.Delete(ctx, docstore.CollectionAccounts, id.String()); err != nil {
		return fmt.Errorf("delete account: %w", err)
	}
	return nil
}

func accountToRecord(a *domain.Account) accountRecord {
	return accountRecord{
		ID:                    a.ID.String(),
		Email:                 a.Email,
		Username:              a.Username,
		EmailVerified:         a.EmailVerified,
		PasswordHash:          a.PasswordHash,
		VerificationTokenHash: a.VerificationTokenHash,
		VerificationSentAt:    a.VerificationSentAt.UTC(),
		CreatedAt:             a.CreatedAt.UTC(),
	}
}

func accountFromRecord(rec accountRecord) (*domain.Account, error) {
	id, err := uuid.Parse(rec.ID)
	if err != nil {
		return nil, fmt.Errorf("account record id %q: %w", rec.ID, err)
	}
	return &domain.Account{
		ID:                    id,
		Email:                 rec.Email,
		Username:              rec.Username,
		EmailVerified:         rec.EmailVerified,
		PasswordHash:          rec.PasswordHash,
		VerificationTokenHash: rec.VerificationTokenHash,
		VerificationSentAt:    rec.VerificationSentAt,
		CreatedAt:             rec.CreatedAt,
	}, nil
}
