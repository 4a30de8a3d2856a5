package gamification

import (
	"errors"
	"sort"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeRepo is an in-memory Repository for engine tests
type fakeRepo struct {
	stats     *UserStats
	ledger    map[string][]EngagementEntry
	now       func() time.Time
	failSaves bool
}

func newFakeRepo(now func() time.Time) *fakeRepo {
	return &fakeRepo{
		ledger: map[string][]EngagementEntry{},
		now:    now,
	}
}

func (f *fakeRepo) LoadStats() (*UserStats, error) {
	if f.stats == nil {
		return NewUserStats(f.now()), nil
	}
	stats := *f.stats
	stats.Achievements = append([]string{}, f.stats.Achievements...)
	if stats.DailyChallenge.ChallengeDate != DayString(f.now()) {
		stats.ResetDailyChallenge(f.now())
	}
	return &stats, nil
}

func (f *fakeRepo) SaveStats(stats *UserStats) error {
	if f.failSaves {
		return errors.New("save failed")
	}
	copied := *stats
	copied.Achievements = append([]string{}, stats.Achievements...)
	f.stats = &copied
	return nil
}

func (f *fakeRepo) AppendEntry(day string, entry EngagementEntry) error {
	if f.failSaves {
		return errors.New("append failed")
	}
	entries := f.ledger[day]
	f.ledger = map[string][]EngagementEntry{day: append(entries, entry)}
	return nil
}

func (f *fakeRepo) TopEngagement(day string, limit int) ([]EngagementEntry, error) {
	entries := append([]EngagementEntry{}, f.ledger[day]...)
	sort.SliceStable(entries, func(i, j int) bool {
		return entries[i].EngagementRate > entries[j].EngagementRate
	})
	if limit > 0 && len(entries) > limit {
		entries = entries[:limit]
	}
	return entries, nil
}

func (f *fakeRepo) Reset() error {
	f.stats = nil
	f.ledger = map[string][]EngagementEntry{}
	return nil
}

func newTestEngine(t *testing.T, start time.Time) (*Engine, *fakeRepo, *time.Time) {
	t.Helper()

	current := start
	repo := newFakeRepo(func() time.Time { return current })
	engine := NewEngine(repo, nil)
	engine.now = func() time.Time { return current }

	return engine, repo, &current
}

func TestProcessCheckFirstHighEngagement(t *testing.T) {
	start := time.Date(2025, 3, 10, 12, 0, 0, 0, time.Local)
	engine, repo, _ := newTestEngine(t, start)

	result := engine.ProcessCheck(6.5, "alice", 1000)
	require.NotNil(t, result)

	// Base 10 + high-engagement tier 50
	assert.Equal(t, 60, result.PointsEarned)

	stats := result.Stats
	assert.Equal(t, 1, stats.AccountsChecked)
	assert.Equal(t, 1, stats.CurrentStreak)
	assert.Equal(t, 1, stats.DailyChallenge.AccountsChecked)
	assert.True(t, stats.DailyChallenge.HighEngagementFound)
	assert.Zero(t, result.DailyChallengeReward)

	// first_check and high_engagement both fire on this one check
	ids := make([]string, 0, len(result.NewAchievements))
	for _, a := range result.NewAchievements {
		ids = append(ids, a.ID)
	}
	assert.ElementsMatch(t, []string{"first_check", "high_engagement"}, ids)

	// 60 check points + 10 + 100 achievement points
	assert.Equal(t, 170, stats.TotalPoints)
	assert.Equal(t, 2, stats.Level, "achievement points can bump the level")
	assert.True(t, stats.HasAchievement("first_check"))

	entries := repo.ledger[DayString(start)]
	require.Len(t, entries, 1)
	assert.Equal(t, "alice", entries[0].Username)
	assert.Equal(t, 6.5, entries[0].EngagementRate)
}

func TestProcessCheckEmptyUsernameSkipsLedger(t *testing.T) {
	start := time.Date(2025, 3, 10, 12, 0, 0, 0, time.Local)
	engine, repo, _ := newTestEngine(t, start)

	result := engine.ProcessCheck(2.0, "", 0)

	assert.Equal(t, 20, result.PointsEarned)
	assert.Empty(t, repo.ledger[DayString(start)])
	assert.Equal(t, 1, result.Stats.AccountsChecked, "the check itself still counts")
}

func TestProcessCheckDailyChallengeReward(t *testing.T) {
	start := time.Date(2025, 3, 10, 9, 0, 0, 0, time.Local)
	engine, _, clock := newTestEngine(t, start)

	rates := []float64{2.0, 1.5, 6.2, 0.5, 2.5}
	var last *CheckResult
	for i, rate := range rates {
		// Spread checks out so quick-succession tracking stays quiet
		*clock = start.Add(time.Duration(i) * time.Hour)
		last = engine.ProcessCheck(rate, "acct", 100)
	}

	require.NotNil(t, last)
	assert.Equal(t, 100, last.DailyChallengeReward, "reward fires on the fifth check")
	assert.Equal(t, 5, last.Stats.DailyChallenge.AccountsChecked)
	assert.True(t, last.Stats.DailyChallenge.HighEngagementFound)
	assert.True(t, last.Stats.HasAchievement("daily_challenge"))

	// A sixth check must not pay the reward again
	*clock = start.Add(6 * time.Hour)
	again := engine.ProcessCheck(2.0, "acct", 100)
	assert.Zero(t, again.DailyChallengeReward)
}

func TestProcessCheckChallengeResetsNextDay(t *testing.T) {
	start := time.Date(2025, 3, 10, 9, 0, 0, 0, time.Local)
	engine, _, clock := newTestEngine(t, start)

	engine.ProcessCheck(2.0, "acct", 100)
	engine.ProcessCheck(2.0, "acct", 100)

	*clock = start.AddDate(0, 0, 1)
	result := engine.ProcessCheck(2.0, "acct", 100)

	assert.Equal(t, 1, result.Stats.DailyChallenge.AccountsChecked)
	assert.Equal(t, DayString(*clock), result.Stats.DailyChallenge.ChallengeDate)
	assert.Equal(t, 2, result.Stats.CurrentStreak, "streak extends across the day boundary")
}

func TestProcessCheckQuickSuccession(t *testing.T) {
	start := time.Date(2025, 3, 10, 9, 0, 0, 0, time.Local)
	engine, _, clock := newTestEngine(t, start)

	engine.ProcessCheck(0.5, "a", 10)
	*clock = start.Add(10 * time.Second)
	result := engine.ProcessCheck(0.5, "b", 10)

	assert.Equal(t, 2, result.Stats.ConsecutiveChecks)
	assert.True(t, result.Stats.HasAchievement("quick_analyzer"))

	// A slow follow-up resets the run
	*clock = start.Add(5 * time.Minute)
	result = engine.ProcessCheck(0.5, "c", 10)
	assert.Equal(t, 1, result.Stats.ConsecutiveChecks)
}

func TestProcessCheckTopEngagementUsesPriorLedger(t *testing.T) {
	start := time.Date(2025, 3, 10, 9, 0, 0, 0, time.Local)
	engine, _, clock := newTestEngine(t, start)

	// First check of the day sees an empty ledger, so no top unlock
	first := engine.ProcessCheck(9.0, "a", 10)
	assert.False(t, containsID(first.NewAchievements, "top_engagement"))

	*clock = start.Add(time.Hour)
	second := engine.ProcessCheck(9.5, "b", 10)
	assert.True(t, containsID(second.NewAchievements, "top_engagement"))
}

func TestProcessCheckSurvivesStorageFailure(t *testing.T) {
	start := time.Date(2025, 3, 10, 9, 0, 0, 0, time.Local)
	engine, repo, _ := newTestEngine(t, start)
	repo.failSaves = true

	result := engine.ProcessCheck(3.5, "alice", 500)

	require.NotNil(t, result)
	assert.Equal(t, 30, result.PointsEarned)
	assert.Equal(t, 1, result.Stats.AccountsChecked)
}

func TestUnlockVSMode(t *testing.T) {
	start := time.Date(2025, 3, 10, 9, 0, 0, 0, time.Local)
	engine, _, _ := newTestEngine(t, start)

	first := engine.UnlockVSMode()
	require.Len(t, first, 1)
	assert.Equal(t, "vs_mode", first[0].ID)
	assert.True(t, first[0].Unlocked)

	stats := engine.Stats()
	assert.True(t, stats.VSModeUsed)
	assert.Equal(t, 75, stats.TotalPoints)

	assert.Empty(t, engine.UnlockVSMode(), "second unlock is a no-op")
}

func TestEngineResetAll(t *testing.T) {
	start := time.Date(2025, 3, 10, 9, 0, 0, 0, time.Local)
	engine, repo, _ := newTestEngine(t, start)

	engine.ProcessCheck(4.0, "alice", 100)
	require.NoError(t, engine.ResetAll())

	assert.Nil(t, repo.stats)
	stats := engine.Stats()
	assert.Zero(t, stats.TotalPoints)
	assert.Equal(t, 1, stats.Level)
}

func TestAchievementsReflectRecord(t *testing.T) {
	start := time.Date(2025, 3, 10, 9, 0, 0, 0, time.Local)
	engine, _, _ := newTestEngine(t, start)

	engine.ProcessCheck(1.0, "alice", 100)

	var unlockedCount int
	for _, a := range engine.Achievements() {
		if a.Unlocked {
			unlockedCount++
			assert.Equal(t, "first_check", a.ID)
		}
	}
	assert.Equal(t, 1, unlockedCount)
}
