package gamification

import (
	"time"

	"engage/pkg/logger"
)

// Repository is the persistence boundary for the engine. LoadStats
// applies the day-rollover reset to the daily challenge sub-record and
// falls back to fresh defaults when nothing usable is stored; SaveStats
// and AppendEntry failures are the implementation's to log, and the
// engine treats persistence as best-effort either way.
type Repository interface {
	LoadStats() (*UserStats, error)
	SaveStats(stats *UserStats) error
	AppendEntry(day string, entry EngagementEntry) error
	TopEngagement(day string, limit int) ([]EngagementEntry, error)
	Reset() error
}

// Engine runs the gamification pipeline for engagement-check events
// against an injected repository.
type Engine struct {
	repo    Repository
	catalog Catalog
	logger  logger.Logger
	now     func() time.Time
}

// NewEngine creates an engine with the default achievement catalog
func NewEngine(repo Repository, log logger.Logger) *Engine {
	return NewEngineWithCatalog(repo, DefaultCatalog(), log)
}

// NewEngineWithCatalog creates an engine with a custom catalog
func NewEngineWithCatalog(repo Repository, catalog Catalog, log logger.Logger) *Engine {
	if log == nil {
		log = logger.GetLogger()
	}
	return &Engine{
		repo:    repo,
		catalog: catalog,
		logger:  log,
		now:     time.Now,
	}
}

// Catalog returns the engine's achievement catalog
func (e *Engine) Catalog() Catalog {
	return e.catalog
}

// loadStats fetches the current record, recovering to fresh defaults on
// any storage failure. Gamification never breaks the analytics flow.
func (e *Engine) loadStats(now time.Time) *UserStats {
	stats, err := e.repo.LoadStats()
	if err != nil || stats == nil {
		if err != nil {
			e.logger.WithError(err).Warn("failed to load stats, starting fresh")
		}
		return NewUserStats(now)
	}
	return stats
}

// saveStats persists the record; failures are logged and swallowed so
// the in-memory result of the current operation still reaches the caller.
func (e *Engine) saveStats(stats *UserStats) {
	if err := e.repo.SaveStats(stats); err != nil {
		e.logger.WithError(err).Error("failed to persist stats")
	}
}

// ProcessCheck runs the full gamification pipeline for one engagement
// measurement: points, quick-succession tracking, streak, daily
// challenge, level, achievements, ledger append, persist. When username
// is empty the ledger is left untouched.
func (e *Engine) ProcessCheck(engagementRate float64, username string, followers int) *CheckResult {
	now := e.now()
	today := DayString(now)
	stats := e.loadStats(now)

	pointsEarned := PointsForCheck(engagementRate)
	stats.TotalPoints += pointsEarned
	stats.AccountsChecked++

	// Quick-succession tracking for the speed achievement
	nowMillis := now.UnixMilli()
	if stats.LastCheckTime > 0 && nowMillis-stats.LastCheckTime < quickCheckWindow.Milliseconds() {
		stats.ConsecutiveChecks++
	} else {
		stats.ConsecutiveChecks = 1
	}
	stats.LastCheckTime = nowMillis

	AdvanceStreak(stats, now)

	// The challenge reward fires only on the incomplete-to-complete
	// transition, so completion is sampled before this check counts.
	wasComplete := DailyChallengeComplete(stats)
	stats.DailyChallenge.AccountsChecked++
	if engagementRate >= HighEngagementRate {
		stats.DailyChallenge.HighEngagementFound = true
	}

	var challengeReward int
	if !wasComplete && DailyChallengeComplete(stats) {
		challengeReward = DailyChallenge().Reward
		stats.TotalPoints += challengeReward
		pointsEarned += challengeReward
		e.logger.InfoWithFields("daily challenge completed", map[string]interface{}{
			"reward": challengeReward,
		})
	}

	// Level must be current before evaluation; level achievements read it.
	stats.Level = ComputeLevel(stats.TotalPoints)

	// The top-engagement predicate compares against the ledger as it
	// stood before this check; the entry is appended after evaluation.
	topToday, err := e.repo.TopEngagement(today, 3)
	if err != nil {
		e.logger.WithError(err).Warn("failed to read engagement ledger")
		topToday = nil
	}

	unlocked := e.catalog.Evaluate(stats, &engagementRate, topToday)

	// Achievement points may have moved the level again
	stats.Level = ComputeLevel(stats.TotalPoints)

	if username != "" {
		entry := EngagementEntry{
			Username:       username,
			EngagementRate: engagementRate,
			Followers:      followers,
			CheckedAt:      now,
		}
		if err := e.repo.AppendEntry(today, entry); err != nil {
			e.logger.WithError(err).WithField("username", username).Error("failed to append ledger entry")
		}
	}

	e.saveStats(stats)

	e.logger.DebugWithFields("engagement check processed", map[string]interface{}{
		"username":      username,
		"rate":          engagementRate,
		"points":        pointsEarned,
		"level":         stats.Level,
		"streak":        stats.CurrentStreak,
		"new_unlocks":   len(unlocked),
		"total_points":  stats.TotalPoints,
		"checked_total": stats.AccountsChecked,
	})

	return &CheckResult{
		PointsEarned:         pointsEarned,
		Stats:                stats,
		NewAchievements:      unlocked,
		DailyChallengeReward: challengeReward,
	}
}

// UnlockVSMode unlocks the vs_mode achievement the first time compare
// mode is used. Idempotent: once the id is present this is a no-op
// returning an empty list.
func (e *Engine) UnlockVSMode() []Achievement {
	now := e.now()
	stats := e.loadStats(now)

	if stats.VSModeUsed || stats.HasAchievement("vs_mode") {
		return nil
	}

	entry, ok := e.catalog.Find("vs_mode")
	if !ok {
		return nil
	}

	stats.VSModeUsed = true
	stats.Achievements = append(stats.Achievements, entry.ID)
	stats.TotalPoints += entry.Points
	stats.Level = ComputeLevel(stats.TotalPoints)

	e.saveStats(stats)

	a := entry.Achievement
	a.Unlocked = true
	return []Achievement{a}
}

// Stats returns the current record (with day rollover applied by the load)
func (e *Engine) Stats() *UserStats {
	return e.loadStats(e.now())
}

// Achievements returns the catalog with unlocked flags for the current record
func (e *Engine) Achievements() []Achievement {
	return e.catalog.WithUnlocked(e.Stats())
}

// TopToday returns today's ledger entries sorted by engagement rate
func (e *Engine) TopToday(limit int) []EngagementEntry {
	entries, err := e.repo.TopEngagement(DayString(e.now()), limit)
	if err != nil {
		e.logger.WithError(err).Warn("failed to read engagement ledger")
		return nil
	}
	return entries
}

// ResetAll clears all persisted gamification state
func (e *Engine) ResetAll() error {
	return e.repo.Reset()
}
