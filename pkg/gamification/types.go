package gamification

import "time"

// DayFormat renders a time as a calendar-day string in the local time
// zone. Streaks, the daily challenge, and the engagement ledger all
// compare days through this one format so they can never disagree on
// where a day boundary falls.
const DayFormat = "Mon Jan 2 2006"

// DayString returns the calendar-day string for t
func DayString(t time.Time) string {
	return t.Local().Format(DayFormat)
}

// UserStats is the single persisted gamification record for a profile
type UserStats struct {
	TotalPoints     int                    `json:"totalPoints"`
	Level           int                    `json:"level"`
	AccountsChecked int                    `json:"accountsChecked"`
	CurrentStreak   int                    `json:"currentStreak"`
	LongestStreak   int                    `json:"longestStreak"`
	LastCheckDate   string                 `json:"lastCheckDate"`
	Achievements    []string               `json:"achievements"`
	DailyChallenge  DailyChallengeProgress `json:"dailyChallengeProgress"`

	VSModeUsed        bool  `json:"vsModeUsed,omitempty"`
	LastCheckTime     int64 `json:"lastCheckTime,omitempty"` // unix milliseconds
	ConsecutiveChecks int   `json:"consecutiveChecks,omitempty"`
}

// DailyChallengeProgress tracks progress toward one calendar day's challenge
type DailyChallengeProgress struct {
	AccountsChecked     int    `json:"accountsChecked"`
	HighEngagementFound bool   `json:"highEngagementFound"`
	ChallengeDate       string `json:"challengeDate"`
}

// NewUserStats returns freshly-initialized stats with zeroed counters
func NewUserStats(now time.Time) *UserStats {
	return &UserStats{
		Level:        1,
		Achievements: []string{},
		DailyChallenge: DailyChallengeProgress{
			ChallengeDate: DayString(now),
		},
	}
}

// HasAchievement reports whether the achievement id has been unlocked
func (s *UserStats) HasAchievement(id string) bool {
	for _, a := range s.Achievements {
		if a == id {
			return true
		}
	}
	return false
}

// ResetDailyChallenge zeroes the challenge progress for a new day
func (s *UserStats) ResetDailyChallenge(now time.Time) {
	s.DailyChallenge = DailyChallengeProgress{
		ChallengeDate: DayString(now),
	}
}

// Achievement describes one entry of the achievement catalog. Unlocked is
// not part of the catalog's identity; it is computed per stats record.
type Achievement struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description"`
	Icon        string `json:"icon"`
	Points      int    `json:"points"`
	Unlocked    bool   `json:"unlocked"`
}

// EngagementEntry is one checked account recorded in the day-scoped ledger
type EngagementEntry struct {
	Username       string    `json:"username"`
	EngagementRate float64   `json:"engagementRate"`
	Followers      int       `json:"followers"`
	CheckedAt      time.Time `json:"checkedAt"`
}

// LeaderboardEntry is one row of the local placeholder leaderboard
type LeaderboardEntry struct {
	Username        string `json:"username"`
	Points          int    `json:"points"`
	Level           int    `json:"level"`
	AccountsChecked int    `json:"accountsChecked"`
}

// ChallengeInfo describes the daily challenge and its one-time reward
type ChallengeInfo struct {
	Description string `json:"description"`
	Reward      int    `json:"reward"`
}

// CheckResult is what one engagement check produced
type CheckResult struct {
	PointsEarned         int           `json:"pointsEarned"`
	Stats                *UserStats    `json:"stats"`
	NewAchievements      []Achievement `json:"newAchievements"`
	DailyChallengeReward int           `json:"dailyChallengeReward,omitempty"`
}
