package stats

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/google/uuid"

	"github.com/campuseats/freefood-backend/internal/docstore"
	"github.com/campuseats/freefood-backend/internal/domain"
)

// eventLister defines the event repository interface needed by the stats service.
type eventLister interface {
	List(ctx context.Context) ([]domain.Event, error)
}

// leaderboardRepo defines the leaderboard repository interface needed by the stats service.
type leaderboardRepo interface {
	Load(ctx context.Context) ([]domain.LeaderboardEntry, error)
	LoadIn(ctx context.Context, view docstore.Reader) ([]domain.LeaderboardEntry, error)
	Save(ctx context.Context, entries []domain.LeaderboardEntry) error
	SaveIn(ctx context.Context, w docstore.Writer, entries []domain.LeaderboardEntry) error
}

// Service implements aggregation operations over events and the leaderboard.
type Service struct {
	log    *slog.Logger
	events eventLister
	board  leaderboardRepo
}

// NewService creates a new stats service instance.
func NewService(logger *slog.Logger, events eventLister, board leaderboardRepo) *Service {
	return &Service{
		log:    logger.With("service", "stats"),
		events: events,
		board:  board,
	}
}

// UserStats computes the statistics for one user from the current event
// collection and leaderboard.
func (s *Service) UserStats(ctx context.Context, accountID uuid.UUID, username string) (UserStats, error) {
	events, err := s.events.List(ctx)
	if err != nil {
		return UserStats{}, fmt.Errorf("stats.UserStats: %w", err)
	}
	board, err := s.board.Load(ctx)
	if err != nil {
		return UserStats{}, fmt.Errorf("stats.UserStats: %w", err)
	}
	return ComputeUserStats(events, board, accountID, username), nil
}

// Leaderboard returns the current leaderboard in rank order.
func (s *Service) Leaderboard(ctx context.Context) ([]domain.LeaderboardEntry, error) {
	board, err := s.board.Load(ctx)
	if err != nil {
		return nil, fmt.Errorf("stats.Leaderboard: %w", err)
	}
	return board, nil
}

// RecordPostedEvent credits the creator with one leaderboard point and
// persists the re-sorted board. Called once per successfully created event.
func (s *Service) RecordPostedEvent(ctx context.Context, accountID uuid.UUID, username string) error {
	board, err := s.board.Load(ctx)
	if err != nil {
		return fmt.Errorf("stats.RecordPostedEvent: %w", err)
	}

	board = recordPostedEvent(board, accountID, username)

	if err := s.board.Save(ctx, board); err != nil {
		return fmt.Errorf("stats.RecordPostedEvent save: %w", err)
	}

	s.log.DebugContext(ctx, "leaderboard point recorded",
		slog.String("username", username))
	return nil
}

// RecordPostedEventIn is RecordPostedEvent through an open store
// transaction, so the caller can commit the credit together with the
// event write.
func (s *Service) RecordPostedEventIn(ctx context.Context, tx docstore.Tx, accountID uuid.UUID, username string) error {
	board, err := s.board.LoadIn(ctx, tx)
	if err != nil {
		return fmt.Errorf("stats.RecordPostedEventIn: %w", err)
	}

	board = recordPostedEvent(board, accountID, username)

	if err := s.board.SaveIn(ctx, tx, board); err != nil {
		return fmt.Errorf("stats.RecordPostedEventIn save: %w", err)
	}
	return nil
}

// RenameInLeaderboard rewrites the renamed user's entry and persists the
// board. Rank and points are untouched.
func (s *Service) RenameInLeaderboard(ctx context.Context, oldUsername, newUsername string) error {
	board, err := s.board.Load(ctx)
	if err != nil {
		return fmt.Errorf("stats.RenameInLeaderboard: %w", err)
	}

	board = renameInLeaderboard(board, oldUsername, newUsername)

	if err := s.board.Save(ctx, board); err != nil {
		return fmt.Errorf("stats.RenameInLeaderboard save: %w", err)
	}
	return nil
}
