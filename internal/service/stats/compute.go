// Package stats implements the aggregation engine: per-user statistics and
// the global leaderboard, both derived from the event collection.
package stats

import (
	"github.com/google/uuid"

	"github.com/campuseats/freefood-backend/internal/domain"
)

// UserStats summarizes one user's footprint across all events.
type UserStats struct {
	EventsPosted    int
	EventsAttended  int
	CommentsMade    int
	LeaderboardRank int
	Points          int
	ImpactScore     int
}

// ComputeUserStats derives the user's statistics from the full event
// collection and the current leaderboard. Pure: no I/O, inputs unmodified.
//
// Posting and commenting are matched by username (the denormalized author
// string on events), attendance by account id.
func ComputeUserStats(events []domain.Event, board []domain.LeaderboardEntry, accountID uuid.UUID, username string) UserStats {
	var s UserStats

	for i := range events {
		e := &events[i]

		if e.CreatedBy == username {
			s.EventsPosted++
			s.ImpactScore += e.GoingCount()
		}

		if a, ok := e.AttendeeFor(accountID); ok && a.Status == domain.AttendanceGoing {
			s.EventsAttended++
		}

		for _, c := range e.Comments {
			if c.AuthorUsername == username {
				s.CommentsMade++
			}
		}
	}

	s.LeaderboardRank = domain.LeaderboardRank(board, username)
	for _, entry := range board {
		if entry.Username == username {
			s.Points = entry.Points
			break
		}
	}

	return s.clamped()
}

// clamped floors every field at zero. The counts cannot go negative, but
// downstream consumers render these directly, so the floor is enforced here.
func (s UserStats) clamped() UserStats {
	s.EventsPosted = max(s.EventsPosted, 0)
	s.EventsAttended = max(s.EventsAttended, 0)
	s.CommentsMade = max(s.CommentsMade, 0)
	s.LeaderboardRank = max(s.LeaderboardRank, 0)
	s.Points = max(s.Points, 0)
	s.ImpactScore = max(s.ImpactScore, 0)
	return s
}

// recordPostedEvent credits one point to the creator's entry, inserting a
// fresh entry if none exists, and re-sorts descending by points. The sort
// is stable so equal-point entries keep their relative order.
func recordPostedEvent(board []domain.LeaderboardEntry, entryID uuid.UUID, username string) []domain.LeaderboardEntry {
	found := false
	for i := range board {
		if board[i].Username == username {
			board[i].Points++
			found = true
			break
		}
	}
	if !found {
		board = append(board, domain.LeaderboardEntry{
			ID:       entryID,
			Username: username,
			Points:   1,
		})
	}
	domain.SortLeaderboard(board)
	return board
}

// renameInLeaderboard rewrites the username of the matching entry in place,
// keeping its id, points and position. It deliberately does not merge with
// an entry already holding newUsername; both survive side by side.
func renameInLeaderboard(board []domain.LeaderboardEntry, oldUsername, newUsername string) []domain.LeaderboardEntry {
	for i := range board {
		if board[i].Username == oldUsername {
			board[i].Username = newUsername
			break
		}
	}
	return board
}
