package gamification

import (
	"math"
	"time"
)

// Rate at or above which a check counts as a high-engagement find, for
// both the bonus tier and the daily challenge.
const HighEngagementRate = 6.0

// Window within which back-to-back checks count as consecutive.
const quickCheckWindow = 30 * time.Second

// ComputeLevel derives the level from total points:
// level = floor(sqrt(points/100)) + 1. Level 1 at zero points,
// non-decreasing in points.
func ComputeLevel(totalPoints int) int {
	if totalPoints < 0 {
		return 1
	}
	return int(math.Floor(math.Sqrt(float64(totalPoints)/100))) + 1
}

// PointsForLevel returns the total points threshold at which a level starts
func PointsForLevel(level int) int {
	if level < 1 {
		return 0
	}
	return (level - 1) * (level - 1) * 100
}

// PointsToNextLevel returns the size of the point span between the given
// level and the next
func PointsToNextLevel(level int) int {
	return PointsForLevel(level+1) - PointsForLevel(level)
}

// LevelProgressPercent interpolates totalPoints between the given level's
// lower and upper thresholds, clamped to [0,100]. Clamping keeps the
// value sane when a stale level is passed in.
func LevelProgressPercent(totalPoints, level int) float64 {
	if level < 1 {
		level = 1
	}
	lower := PointsForLevel(level)
	upper := PointsForLevel(level + 1)
	progress := float64(totalPoints-lower) / float64(upper-lower) * 100
	return math.Min(100, math.Max(0, progress))
}

// PointsForCheck returns the points earned by a single check: a base of
// 10 plus one tiered bonus for the highest applicable engagement band.
func PointsForCheck(engagementRate float64) int {
	points := 10

	switch {
	case engagementRate >= HighEngagementRate:
		points += 50
	case engagementRate >= 3:
		points += 20
	case engagementRate >= 1:
		points += 10
	}

	return points
}

// AdvanceStreak updates the consecutive-day streak for a check happening
// at now. Checking again on the same calendar day is a no-op; checking on
// the day after the last check extends the streak; any longer gap (or the
// first-ever check) restarts it at 1. Comparison is by calendar day in
// the local time zone, not by elapsed time.
func AdvanceStreak(stats *UserStats, now time.Time) {
	today := DayString(now)
	yesterday := DayString(now.AddDate(0, 0, -1))

	switch stats.LastCheckDate {
	case today:
		return
	case yesterday:
		stats.CurrentStreak++
	default:
		stats.CurrentStreak = 1
	}

	if stats.CurrentStreak > stats.LongestStreak {
		stats.LongestStreak = stats.CurrentStreak
	}

	stats.LastCheckDate = today
}

// DailyChallenge returns the current challenge descriptor
func DailyChallenge() ChallengeInfo {
	return ChallengeInfo{
		Description: "Check 5 accounts and find one with 6%+ engagement",
		Reward:      100,
	}
}

// DailyChallengeComplete reports whether the day's challenge is done:
// five checks, at least one of them a high-engagement find.
func DailyChallengeComplete(stats *UserStats) bool {
	return stats.DailyChallenge.AccountsChecked >= 5 && stats.DailyChallenge.HighEngagementFound
}
