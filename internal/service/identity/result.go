package identity

import (
	"github.com/google/uuid"

	"github.com/campuseats/freefood-backend/internal/domain"
)

// SignUpResult is returned by SignUp.
type SignUpResult struct {
	AccountID uuid.UUID
	// VerificationToken is the raw token to deliver by email, NOT the
	// stored hash.
	VerificationToken string
}

// SignInResult is returned by SignIn. The flags tell the client which
// onboarding step is still missing.
type SignInResult struct {
	AccountID    uuid.UUID
	SessionToken string
	Username     string

	NeedsVerification bool
	NeedsUsername     bool
}

// VerificationStatus is returned by CheckVerification while the client
// polls the verification screen. For an account that is verified and
// already holds a username, Username and SessionToken are populated so
// the caller can finish signing in without another credentials round-trip.
type VerificationStatus struct {
	Verified     bool
	Username     string
	SessionToken string
}

// SetUsernameResult is returned by SetUsername. The session token lets a
// freshly onboarded client proceed straight to authenticated calls.
type SetUsernameResult struct {
	Account      *domain.Account
	SessionToken string
}
