package app

import (
	"context"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/campuseats/freefood-backend/internal/config"
	"github.com/campuseats/freefood-backend/internal/domain"
	"github.com/campuseats/freefood-backend/internal/service/event"
	"github.com/campuseats/freefood-backend/pkg/ctxutil"
)

func testConfig() *config.Config {
	return &config.Config{
		Store: config.StoreConfig{Driver: "memory"},
		Auth: config.AuthConfig{
			JWTSecret:            "test-secret-at-least-32-chars-long!!",
			JWTIssuer:            "freefood-test",
			SessionTTL:           time.Hour,
			PasswordHashCost:     4,
			VerificationTTL:      24 * time.Hour,
			AvailabilityDebounce: 10 * time.Millisecond,
		},
		Campus: config.CampusConfig{
			EmailDomain:          "berkeley.edu",
			ReservedUsernamesRaw: "admin,support",
		},
		Log: config.LogConfig{Level: "error", Format: "text"},
	}
}

// TestApp_FullUserJourney walks a user end to end through the assembled
// application: signup, verification, username creation, posting an event,
// commenting, RSVPing, stats and a rename.
func TestApp_FullUserJourney(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))

	a, err := New(ctx, testConfig(), logger)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	defer a.Close(ctx)

	// Signup and email verification.
	signup, err := a.Identity.SignUp(ctx, "oski@berkeley.edu", "hunter42x")
	if err != nil {
		t.Fatalf("SignUp: %v", err)
	}
	if _, err := a.Identity.VerifyEmail(ctx, signup.VerificationToken); err != nil {
		t.Fatalf("VerifyEmail: %v", err)
	}

	// Username creation ends with a usable session token.
	setRes, err := a.Identity.SetUsername(ctx, signup.AccountID, "Oski")
	if err != nil {
		t.Fatalf("SetUsername: %v", err)
	}
	account := setRes.Account
	if account.Username != "Oski" {
		t.Fatalf("Username = %q", account.Username)
	}
	signupCtx, err := a.Authenticate(ctx, setRes.SessionToken)
	if err != nil {
		t.Fatalf("Authenticate with signup token: %v", err)
	}
	if got, ok := ctxutil.AccountIDFromCtx(signupCtx); !ok || got != signup.AccountID {
		t.Fatalf("signup token account id = %v, %v", got, ok)
	}

	// Sign in and authenticate a context with the session token.
	signin, err := a.Identity.SignIn(ctx, "oski@berkeley.edu", "hunter42x")
	if err != nil {
		t.Fatalf("SignIn: %v", err)
	}
	authedCtx, err := a.Authenticate(ctx, signin.SessionToken)
	if err != nil {
		t.Fatalf("Authenticate: %v", err)
	}
	if got, ok := ctxutil.AccountIDFromCtx(authedCtx); !ok || got != signup.AccountID {
		t.Fatalf("account id in context = %v, %v", got, ok)
	}

	// Post an event.
	start := time.Now().Add(time.Hour)
	e, err := a.Events.Create(authedCtx, event.CreateEventInput{
		Title:            "Free pizza at Soda Hall",
		Description:      "Leftovers from the systems seminar",
		Location:         domain.GeoPoint{Lat: 37.8756, Lng: -122.2588},
		LocationLabel:    "Soda Hall, 4th floor",
		StartTime:        start,
		EndTime:          start.Add(2 * time.Hour),
		Tags:             []domain.Tag{domain.TagPizza},
		CreatedBy:        account.Username,
		CreatorAccountID: account.ID,
	})
	if err != nil {
		t.Fatalf("Create: %v", err)
	}

	// Comment and RSVP.
	if _, err := a.Events.AddComment(authedCtx, e.ID, "headed over", "Oski"); err != nil {
		t.Fatalf("AddComment: %v", err)
	}
	if _, err := a.Events.SetAttendance(authedCtx, e.ID, account.ID, domain.AttendanceGoing); err != nil {
		t.Fatalf("SetAttendance: %v", err)
	}

	// Stats reflect the activity.
	us, err := a.Stats.UserStats(ctx, account.ID, account.Username)
	if err != nil {
		t.Fatalf("UserStats: %v", err)
	}
	if us.EventsPosted != 1 || us.CommentsMade != 1 || us.EventsAttended != 1 || us.Points != 1 || us.LeaderboardRank != 1 {
		t.Fatalf("UserStats = %+v", us)
	}

	// Rename cascades everywhere.
	if _, err := a.Identity.ChangeUsername(ctx, account.ID, "GoldenBear"); err != nil {
		t.Fatalf("ChangeUsername: %v", err)
	}

	got, err := a.Events.Get(ctx, e.ID)
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if got.CreatedBy != "GoldenBear" {
		t.Errorf("CreatedBy after rename = %q", got.CreatedBy)
	}
	if got.Comments[0].AuthorUsername != "GoldenBear" {
		t.Errorf("comment author after rename = %q", got.Comments[0].AuthorUsername)
	}

	board, err := a.Stats.Leaderboard(ctx)
	if err != nil {
		t.Fatalf("Leaderboard: %v", err)
	}
	if len(board) != 1 || board[0].Username != "GoldenBear" || board[0].Points != 1 {
		t.Errorf("leaderboard after rename = %+v", board)
	}

	// The old username is free again, the new one is taken.
	if available, _ := a.Registry.IsAvailable(ctx, "oski"); !available {
		t.Error("old username should be available after rename")
	}
	if available, _ := a.Registry.IsAvailable(ctx, "goldenbear"); available {
		t.Error("new username should be taken")
	}
}

func TestApp_UnknownDriver(t *testing.T) {
	t.Parallel()

	cfg := testConfig()
	cfg.Store.Driver = "cassandra"

	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	if _, err := New(context.Background(), cfg, logger); err == nil {
		t.Fatal("expected error for unknown driver")
	}
}
