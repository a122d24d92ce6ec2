package domain

import (
	"strings"
	"time"

	"github.com/google/uuid"
)

// Account represents a signed-up user identity.
// The username is assigned exactly once via the registry reservation
// transaction and may later change through a rename cascade.
type Account struct {
	ID                    uuid.UUID
	Email                 string
	Username              string
	EmailVerified         bool
	PasswordHash          string
	VerificationTokenHash string
	VerificationSentAt    time.Time
	CreatedAt             time.Time
}

// HasProfile reports whether the account has finished signup, i.e. a
// username has been assigned.
func (a *Account) HasProfile() bool {
	return a.Username != ""
}

// UsernameReservation maps a lowercased username to its owning account.
// At most one reservation exists per lowercased username.
type UsernameReservation struct {
	AccountID       uuid.UUID
	DisplayUsername string
	CreatedAt       time.Time
}

// ReservationKey returns the canonical (lowercased, trimmed) form of a
// username, used as the reservation document id.
func ReservationKey(username string) string {
	return strings.ToLower(strings.TrimSpace(username))
}
