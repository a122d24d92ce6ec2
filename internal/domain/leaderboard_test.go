package domain

import (
	"testing"

	"github.com/google/uuid"
)

func TestSortLeaderboard_StableDescending(t *testing.T) {
	t.Parallel()

	entries := []LeaderboardEntry{
		{ID: uuid.New(), Username: "alice", Points: 1},
		{ID: uuid.New(), Username: "bob", Points: 3},
		{ID: uuid.New(), Username: "carol", Points: 1},
	}

	SortLeaderboard(entries)

	wantOrder := []string{"bob", "alice", "carol"}
	for i, want := range wantOrder {
		if entries[i].Username != want {
			t.Errorf("entries[%d] = %s, want %s", i, entries[i].Username, want)
		}
	}
}

func TestLeaderboardRank(t *testing.T) {
	t.Parallel()

	entries := []LeaderboardEntry{
		{Username: "bob", Points: 3},
		{Username: "alice", Points: 1},
	}

	if got := LeaderboardRank(entries, "alice"); got != 2 {
		t.Errorf("rank of alice = %d, want 2", got)
	}
	if got := LeaderboardRank(entries, "nobody"); got != 0 {
		t.Errorf("rank of absent user = %d, want 0", got)
	}
}
