package gamification

import "sort"

// seedCompetitors are illustrative placeholder rows shown until a
// server-backed ranking exists.
var seedCompetitors = []LeaderboardEntry{
	{Username: "Alex", Points: 2500, Level: 8, AccountsChecked: 45},
	{Username: "Sam", Points: 1800, Level: 6, AccountsChecked: 32},
	{Username: "Jordan", Points: 1200, Level: 5, AccountsChecked: 28},
	{Username: "Taylor", Points: 950, Level: 4, AccountsChecked: 22},
	{Username: "Casey", Points: 750, Level: 3, AccountsChecked: 18},
	{Username: "Morgan", Points: 500, Level: 2, AccountsChecked: 12},
}

// Leaderboard merges the caller's stats with the placeholder competitors
// and sorts descending by points. Computed on demand, never persisted.
func Leaderboard(stats *UserStats) []LeaderboardEntry {
	entries := make([]LeaderboardEntry, 0, len(seedCompetitors)+1)
	entries = append(entries, LeaderboardEntry{
		Username:        "You",
		Points:          stats.TotalPoints,
		Level:           stats.Level,
		AccountsChecked: stats.AccountsChecked,
	})
	entries = append(entries, seedCompetitors...)

	sort.SliceStable(entries, func(i, j int) bool {
		return entries[i].Points > entries[j].Points
	})

	return entries
}
