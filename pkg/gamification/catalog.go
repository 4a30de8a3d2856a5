package gamification

// UnlockContext carries everything an unlock predicate may inspect: the
// stats record after the current check was applied, the rate of that
// check when one happened, and today's top ledger entries.
type UnlockContext struct {
	Stats    *UserStats
	Rate     *float64
	TopToday []EngagementEntry
}

// UnlockFunc decides whether a catalog entry unlocks for the given context
type UnlockFunc func(ctx UnlockContext) bool

// CatalogEntry pairs an achievement with its unlock predicate
type CatalogEntry struct {
	Achievement
	Unlock UnlockFunc
}

// Catalog is an ordered achievement catalog. Evaluation walks it in
// order, so swapping the catalog swaps the whole achievement set without
// touching the engine.
type Catalog []CatalogEntry

// DefaultCatalog returns the built-in achievement set
func DefaultCatalog() Catalog {
	return Catalog{
		{
			Achievement: Achievement{
				ID:          "first_check",
				Name:        "First Check",
				Description: "Check your first Instagram account",
				Icon:        "🎯",
				Points:      10,
			},
			Unlock: func(ctx UnlockContext) bool {
				return ctx.Stats.AccountsChecked >= 1
			},
		},
		{
			Achievement: Achievement{
				ID:          "three_checks",
				Name:        "Getting Started",
				Description: "Check 3 accounts",
				Icon:        "🔍",
				Points:      30,
			},
			Unlock: func(ctx UnlockContext) bool {
				return ctx.Stats.AccountsChecked >= 3
			},
		},
		{
			Achievement: Achievement{
				ID:          "five_checks",
				Name:        "Explorer",
				Description: "Check 5 accounts",
				Icon:        "📊",
				Points:      50,
			},
			Unlock: func(ctx UnlockContext) bool {
				return ctx.Stats.AccountsChecked >= 5
			},
		},
		{
			Achievement: Achievement{
				ID:          "high_engagement",
				Name:        "Gold Finder",
				Description: "Find an account with 6%+ engagement",
				Icon:        "⭐",
				Points:      100,
			},
			Unlock: func(ctx UnlockContext) bool {
				return ctx.Rate != nil && *ctx.Rate >= HighEngagementRate
			},
		},
		{
			Achievement: Achievement{
				ID:          "vs_mode",
				Name:        "Comparer",
				Description: "Use VS Mode to compare accounts",
				Icon:        "⚔️",
				Points:      75,
			},
			Unlock: func(ctx UnlockContext) bool {
				return ctx.Stats.VSModeUsed
			},
		},
		{
			Achievement: Achievement{
				ID:          "level_2",
				Name:        "Level Up",
				Description: "Reach level 2",
				Icon:        "⬆️",
				Points:      0,
			},
			Unlock: func(ctx UnlockContext) bool {
				return ctx.Stats.Level >= 2
			},
		},
		{
			Achievement: Achievement{
				ID:          "level_3",
				Name:        "Rising Star",
				Description: "Reach level 3",
				Icon:        "🌟",
				Points:      0,
			},
			Unlock: func(ctx UnlockContext) bool {
				return ctx.Stats.Level >= 3
			},
		},
		{
			Achievement: Achievement{
				ID:          "daily_challenge",
				Name:        "Challenge Master",
				Description: "Complete a daily challenge",
				Icon:        "🎖️",
				Points:      150,
			},
			Unlock: func(ctx UnlockContext) bool {
				return DailyChallengeComplete(ctx.Stats)
			},
		},
		{
			Achievement: Achievement{
				ID:          "top_engagement",
				Name:        "Top Finder",
				Description: "Find an account in top 3 engagement",
				Icon:        "🏆",
				Points:      200,
			},
			Unlock: func(ctx UnlockContext) bool {
				if ctx.Rate == nil || len(ctx.TopToday) == 0 {
					return false
				}
				top := ctx.TopToday
				if len(top) > 3 {
					top = top[:3]
				}
				for _, entry := range top {
					if *ctx.Rate >= entry.EngagementRate {
						return true
					}
				}
				return false
			},
		},
		{
			Achievement: Achievement{
				ID:          "quick_analyzer",
				Name:        "Speed Demon",
				Description: "Check 2 accounts in a row",
				Icon:        "⚡",
				Points:      40,
			},
			Unlock: func(ctx UnlockContext) bool {
				return ctx.Stats.ConsecutiveChecks >= 2
			},
		},
	}
}

// Evaluate walks the catalog in order and unlocks every entry whose
// predicate holds and whose id is not yet in the stats record. Each
// unlock appends the id, adds the entry's points (some entries are
// 0-point milestone badges), and is included in the returned list. The
// caller decides how many unlocks to surface.
func (c Catalog) Evaluate(stats *UserStats, rate *float64, topToday []EngagementEntry) []Achievement {
	ctx := UnlockContext{Stats: stats, Rate: rate, TopToday: topToday}

	var unlocked []Achievement
	for _, entry := range c {
		if stats.HasAchievement(entry.ID) {
			continue
		}
		if entry.Unlock == nil || !entry.Unlock(ctx) {
			continue
		}

		stats.Achievements = append(stats.Achievements, entry.ID)
		stats.TotalPoints += entry.Points

		a := entry.Achievement
		a.Unlocked = true
		unlocked = append(unlocked, a)
	}

	return unlocked
}

// Find returns the catalog entry with the given id
func (c Catalog) Find(id string) (CatalogEntry, bool) {
	for _, entry := range c {
		if entry.ID == id {
			return entry, true
		}
	}
	return CatalogEntry{}, false
}

// WithUnlocked returns the full catalog as achievements with the
// per-record unlocked flag filled in from the stats record
func (c Catalog) WithUnlocked(stats *UserStats) []Achievement {
	out := make([]Achievement, 0, len(c))
	for _, entry := range c {
		a := entry.Achievement
		a.Unlocked = stats.HasAchievement(entry.ID)
		out = append(out, a)
	}
	return out
}
