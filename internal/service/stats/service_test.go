package stats

import (
	"context"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/campuseats/freefood-backend/internal/docstore"
	"github.com/campuseats/freefood-backend/internal/docstore/memory"
	"github.com/campuseats/freefood-backend/internal/domain"
	"github.com/campuseats/freefood-backend/internal/repository"
)

func newTestService(t *testing.T) (*Service, *repository.Events, *repository.Leaderboard) {
	t.Helper()
	store := memory.New()
	events := repository.NewEvents(store)
	board := repository.NewLeaderboard(store)
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	return NewService(logger, events, board), events, board
}

func makeEvent(createdBy string) *domain.Event {
	now := time.Now().UTC()
	return &domain.Event{
		ID:        uuid.New(),
		Title:     "free food",
		CreatedBy: createdBy,
		StartTime: now,
		EndTime:   now.Add(time.Hour),
		CreatedAt: now,
	}
}

func TestComputeUserStats_EmptyInputsAllZero(t *testing.T) {
	t.Parallel()

	got := ComputeUserStats(nil, nil, uuid.New(), "oski")
	assert.Equal(t, UserStats{}, got)
}

func TestComputeUserStats(t *testing.T) {
	t.Parallel()

	accountID := uuid.New()
	otherID := uuid.New()

	mine := makeEvent("oski")
	mine.Attendees = []domain.Attendee{
		{ID: uuid.New(), AccountID: otherID, Status: domain.AttendanceGoing},
		{ID: uuid.New(), AccountID: uuid.New(), Status: domain.AttendanceGoing},
		{ID: uuid.New(), AccountID: uuid.New(), Status: domain.AttendanceMaybe},
	}

	theirs := makeEvent("bearfan")
	theirs.Attendees = []domain.Attendee{
		{ID: uuid.New(), AccountID: accountID, Status: domain.AttendanceGoing},
	}
	theirs.Comments = []domain.Comment{
		{ID: uuid.New(), Text: "yum", AuthorUsername: "oski"},
		{ID: uuid.New(), Text: "thanks", AuthorUsername: "oski"},
		{ID: uuid.New(), Text: "gone already", AuthorUsername: "someone"},
	}

	maybeOnly := makeEvent("bearfan")
	maybeOnly.Attendees = []domain.Attendee{
		{ID: uuid.New(), AccountID: accountID, Status: domain.AttendanceMaybe},
	}

	board := []domain.LeaderboardEntry{
		{ID: uuid.New(), Username: "bearfan", Points: 5},
		{ID: accountID, Username: "oski", Points: 3},
	}

	got := ComputeUserStats([]domain.Event{*mine, *theirs, *maybeOnly}, board, accountID, "oski")

	assert.Equal(t, 1, got.EventsPosted)
	assert.Equal(t, 1, got.EventsAttended, "only going RSVPs count as attended")
	assert.Equal(t, 2, got.CommentsMade)
	assert.Equal(t, 2, got.LeaderboardRank)
	assert.Equal(t, 3, got.Points)
	assert.Equal(t, 2, got.ImpactScore, "impact counts going attendees on own events only")
}

func TestComputeUserStats_AbsentFromLeaderboard(t *testing.T) {
	t.Parallel()

	board := []domain.LeaderboardEntry{
		{ID: uuid.New(), Username: "bearfan", Points: 5},
	}

	got := ComputeUserStats(nil, board, uuid.New(), "oski")
	assert.Zero(t, got.LeaderboardRank)
	assert.Zero(t, got.Points)
}

func TestRecordPostedEvent_InsertThenIncrement(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	svc, _, boardRepo := newTestService(t)
	accountID := uuid.New()

	require.NoError(t, svc.RecordPostedEvent(ctx, accountID, "oski"))

	board, err := boardRepo.Load(ctx)
	require.NoError(t, err)
	require.Len(t, board, 1)
	assert.Equal(t, accountID, board[0].ID)
	assert.Equal(t, "oski", board[0].Username)
	assert.Equal(t, 1, board[0].Points)

	require.NoError(t, svc.RecordPostedEvent(ctx, accountID, "oski"))

	board, err = boardRepo.Load(ctx)
	require.NoError(t, err)
	require.Len(t, board, 1, "a second post must increment, not insert")
	assert.Equal(t, 2, board[0].Points)
}

func TestRecordPostedEventIn_CreditsWithinTransaction(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	store := memory.New()
	board := repository.NewLeaderboard(store)
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	svc := NewService(logger, repository.NewEvents(store), board)
	accountID := uuid.New()

	err := store.RunTransaction(ctx, func(ctx context.Context, tx docstore.Tx) error {
		return svc.RecordPostedEventIn(ctx, tx, accountID, "oski")
	})
	require.NoError(t, err)

	got, err := board.Load(ctx)
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, accountID, got[0].ID)
	assert.Equal(t, 1, got[0].Points)
}

func TestRecordPostedEvent_StableDescendingOrder(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	svc, _, boardRepo := newTestService(t)

	// CS Department reaches 2 points first; Library Staff ties later and
	// must sort after it.
	require.NoError(t, svc.RecordPostedEvent(ctx, uuid.New(), "CS Department"))
	require.NoError(t, svc.RecordPostedEvent(ctx, uuid.New(), "CS Department"))
	require.NoError(t, svc.RecordPostedEvent(ctx, uuid.New(), "Library Staff"))
	require.NoError(t, svc.RecordPostedEvent(ctx, uuid.New(), "Library Staff"))

	board, err := boardRepo.Load(ctx)
	require.NoError(t, err)
	require.Len(t, board, 2)
	assert.Equal(t, "CS Department", board[0].Username)
	assert.Equal(t, "Library Staff", board[1].Username)

	// A third Library Staff post breaks the tie.
	require.NoError(t, svc.RecordPostedEvent(ctx, uuid.New(), "Library Staff"))

	board, err = boardRepo.Load(ctx)
	require.NoError(t, err)
	assert.Equal(t, "Library Staff", board[0].Username)
	assert.Equal(t, 3, board[0].Points)
}

func TestRenameInLeaderboard_PreservesRankAndPoints(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	svc, _, boardRepo := newTestService(t)
	entryID := uuid.New()

	require.NoError(t, boardRepo.Save(ctx, []domain.LeaderboardEntry{
		{ID: uuid.New(), Username: "top", Points: 9},
		{ID: entryID, Username: "OldName", Points: 4},
		{ID: uuid.New(), Username: "bottom", Points: 1},
	}))

	require.NoError(t, svc.RenameInLeaderboard(ctx, "OldName", "NewName"))

	board, err := boardRepo.Load(ctx)
	require.NoError(t, err)
	require.Len(t, board, 3)
	assert.Equal(t, "NewName", board[1].Username)
	assert.Equal(t, entryID, board[1].ID)
	assert.Equal(t, 4, board[1].Points)
}

func TestRenameInLeaderboard_NoMergeWithExistingEntry(t *testing.T) {
	t.Parallel()

	board := renameInLeaderboard([]domain.LeaderboardEntry{
		{ID: uuid.New(), Username: "OldName", Points: 4},
		{ID: uuid.New(), Username: "NewName", Points: 2},
	}, "OldName", "NewName")

	// Both entries survive under the same username; points are not summed.
	require.Len(t, board, 2)
	assert.Equal(t, 4, board[0].Points)
	assert.Equal(t, 2, board[1].Points)
	assert.Equal(t, "NewName", board[0].Username)
	assert.Equal(t, "NewName", board[1].Username)
}

func TestService_UserStats_EndToEnd(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	svc, eventsRepo, _ := newTestService(t)
	accountID := uuid.New()

	e := makeEvent("oski")
	e.Attendees = []domain.Attendee{
		{ID: uuid.New(), AccountID: uuid.New(), Status: domain.AttendanceGoing},
	}
	require.NoError(t, eventsRepo.Save(ctx, e))
	require.NoError(t, svc.RecordPostedEvent(ctx, accountID, "oski"))

	got, err := svc.UserStats(ctx, accountID, "oski")
	require.NoError(t, err)

	assert.Equal(t, 1, got.EventsPosted)
	assert.Equal(t, 1, got.Points)
	assert.Equal(t, 1, got.LeaderboardRank)
	assert.Equal(t, 1, got.ImpactScore)
}
