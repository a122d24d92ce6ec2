package domain

import (
	"sort"

	"github.com/google/uuid"
)

// LeaderboardEntry awards one point per event a user has created.
// Entries are keyed by creator username, not account id.
type LeaderboardEntry struct {
	ID       uuid.UUID
	Username string
	Points   int
}

// SortLeaderboard orders entries descending by points. The sort is stable:
// equal-point entries keep their relative (first-created-first) order.
func SortLeaderboard(entries []LeaderboardEntry) {
	sort.SliceStable(entries, func(i, j int) bool {
		return entries[i].Points > entries[j].Points
	})
}

// LeaderboardRank returns the 1-based position of username in the sorted
// entries, or 0 if absent.
func LeaderboardRank(entries []LeaderboardEntry, username string) int {
	for i, e := range entries {
		if e.Username == username {
			return i + 1
		}
	}
	return 0
}
