package gamification

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLeaderboard(t *testing.T) {
	stats := NewUserStats(time.Now())
	stats.TotalPoints = 1000
	stats.Level = ComputeLevel(stats.TotalPoints)

	entries := Leaderboard(stats)
	require.Len(t, entries, len(seedCompetitors)+1)

	for i := 1; i < len(entries); i++ {
		assert.GreaterOrEqual(t, entries[i-1].Points, entries[i].Points, "not sorted at %d", i)
	}

	var found bool
	for i, e := range entries {
		if e.Username == "You" {
			found = true
			assert.Equal(t, 1000, e.Points)
			assert.Equal(t, 3, i, "1000 points slots below Jordan")
		}
	}
	assert.True(t, found)
}

func TestLeaderboardTiesFavorCaller(t *testing.T) {
	stats := NewUserStats(time.Now())
	stats.TotalPoints = 1800

	entries := Leaderboard(stats)
	assert.Equal(t, "You", entries[1].Username, "caller ranks above an equal-points competitor")
}
