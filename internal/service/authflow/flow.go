// Package authflow drives the signup/signin state machine a client walks
// through: welcome, credentials, email verification, username creation,
// authenticated. It orchestrates the identity service and owns the
// debounced username-availability checking.
package authflow

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"

	"github.com/google/uuid"

	"github.com/campuseats/freefood-backend/internal/domain"
	"github.com/campuseats/freefood-backend/internal/service/identity"
)

// State identifies a step of the auth flow.
type State string

const (
	StateWelcome             State = "welcome"
	StateSignUpOrSignIn      State = "sign_up_or_sign_in"
	StateVerificationPending State = "verification_pending"
	StateUsernameCreation    State = "username_creation"
	StateAuthenticated       State = "authenticated"
)

// identityClient defines the identity service interface needed by the flow.
type identityClient interface {
	SignUp(ctx context.Context, email, password string) (*identity.SignUpResult, error)
	SignIn(ctx context.Context, email, password string) (*identity.SignInResult, error)
	CheckVerification(ctx context.Context, accountID uuid.UUID) (*identity.VerificationStatus, error)
	SetUsername(ctx context.Context, accountID uuid.UUID, username string) (*identity.SetUsernameResult, error)
}

// Flow is one client's walk through the auth state machine. Methods are
// safe for concurrent use; availability results arrive from the debouncer's
// timer goroutine.
type Flow struct {
	mu           sync.Mutex
	state        State
	email        string
	accountID    uuid.UUID
	sessionToken string
	username     string

	log      *slog.Logger
	identity identityClient
	avail    *Debouncer
}

// NewFlow creates a flow in the Welcome state. The debouncer may be nil if
// the client does not need live availability feedback.
func NewFlow(logger *slog.Logger, identity identityClient, avail *Debouncer) *Flow {
	return &Flow{
		state:    StateWelcome,
		log:      logger.With("service", "authflow"),
		identity: identity,
		avail:    avail,
	}
}

// State returns the current state.
func (f *Flow) State() State {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.state
}

// SessionToken returns the issued session token once authenticated.
func (f *Flow) SessionToken() string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.sessionToken
}

// Username returns the username once assigned.
func (f *Flow) Username() string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.username
}

// Start moves from Welcome to the credentials screen.
func (f *Flow) Start() State {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.state == StateWelcome {
		f.state = StateSignUpOrSignIn
	}
	return f.state
}

// SubmitSignUp registers a new account. On success the flow waits for email
// verification; on invalid input it stays in place and returns the error.
func (f *Flow) SubmitSignUp(ctx context.Context, email, password string) (State, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	if f.state != StateSignUpOrSignIn {
		return f.state, fmt.Errorf("authflow: sign-up not allowed in state %q", f.state)
	}

	result, err := f.identity.SignUp(ctx, email, password)
	if err != nil {
		return f.state, err
	}

	f.email = email
	f.accountID = result.AccountID
	f.state = StateVerificationPending
	return f.state, nil
}

// SubmitSignIn authenticates existing credentials. Depending on how far the
// account got during its original signup, the flow lands on Authenticated,
// UsernameCreation (verified but no username yet) or VerificationPending.
func (f *Flow) SubmitSignIn(ctx context.Context, email, password string) (State, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	if f.state != StateSignUpOrSignIn {
		return f.state, fmt.Errorf("authflow: sign-in not allowed in state %q", f.state)
	}

	result, err := f.identity.SignIn(ctx, email, password)
	if err != nil {
		return f.state, err
	}

	f.email = email
	f.accountID = result.AccountID

	switch {
	case result.NeedsVerification:
		f.state = StateVerificationPending
	case result.NeedsUsername:
		f.sessionToken = result.SessionToken
		f.state = StateUsernameCreation
	default:
		f.sessionToken = result.SessionToken
		f.username = result.Username
		f.state = StateAuthenticated
	}
	return f.state, nil
}

// CheckVerification polls whether the pending email has been verified and
// advances accordingly. Still-unverified is not an error; the flow stays
// put. An account that already holds a username (an existing user who
// signed in before verifying) goes straight to Authenticated; only fresh
// accounts land on the username screen. A credential-expired failure
// forces re-login.
func (f *Flow) CheckVerification(ctx context.Context) (State, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	if f.state != StateVerificationPending {
		return f.state, fmt.Errorf("authflow: verification check not allowed in state %q", f.state)
	}

	status, err := f.identity.CheckVerification(ctx, f.accountID)
	if err != nil {
		if errors.Is(err, domain.ErrCredentialExpired) || errors.Is(err, domain.ErrNotFound) {
			f.log.WarnContext(ctx, "verification credentials expired, forcing re-login")
			f.state = StateSignUpOrSignIn
			return f.state, err
		}
		return f.state, err
	}
	if !status.Verified {
		return f.state, nil
	}

	if status.Username != "" {
		f.username = status.Username
		f.sessionToken = status.SessionToken
		f.state = StateAuthenticated
		if f.avail != nil {
			f.avail.Stop()
		}
		return f.state, nil
	}

	f.state = StateUsernameCreation
	return f.state, nil
}

// CreateAccount finishes signup by reserving the chosen username. On a
// conflict or validation failure the flow stays on the username screen.
func (f *Flow) CreateAccount(ctx context.Context, username string) (State, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	if f.state != StateUsernameCreation {
		return f.state, fmt.Errorf("authflow: account creation not allowed in state %q", f.state)
	}

	result, err := f.identity.SetUsername(ctx, f.accountID, username)
	if err != nil {
		return f.state, err
	}

	f.username = result.Account.Username
	f.sessionToken = result.SessionToken
	f.state = StateAuthenticated
	if f.avail != nil {
		f.avail.Stop()
	}
	return f.state, nil
}

// CheckUsernameAvailability schedules a debounced availability lookup for
// the current keystroke, superseding any in-flight one.
func (f *Flow) CheckUsernameAvailability(username string) {
	if f.avail != nil {
		f.avail.Check(username)
	}
}

// SignOut returns to Welcome from any state, clearing every transient field
// and discarding any pending availability check.
func (f *Flow) SignOut() State {
	f.mu.Lock()
	defer f.mu.Unlock()

	f.state = StateWelcome
	f.email = ""
	f.accountID = uuid.Nil
	f.sessionToken = ""
	f.username = ""
	if f.avail != nil {
		f.avail.Stop()
	}
	return f.state
}
