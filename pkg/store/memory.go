package store

import (
	"errors"
	"sort"
	"sync"
	"time"

	"engage/pkg/gamification"
)

// errSaveFailed is returned by MemoryStore when FailSaves is set
var errSaveFailed = errors.New("store: save failed")

// MemoryStore is an in-memory gamification.Repository, used by tests and
// anywhere persistence is not wanted.
type MemoryStore struct {
	mu     sync.Mutex
	stats  *gamification.UserStats
	ledger ledgerData
	now    func() time.Time

	// FailSaves makes SaveStats and AppendEntry return an error, for
	// exercising the best-effort persistence path.
	FailSaves bool
}

// NewMemoryStore creates an empty in-memory store
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		ledger: ledgerData{},
		now:    time.Now,
	}
}

// SetClock overrides the store's notion of now (used by tests)
func (m *MemoryStore) SetClock(now func() time.Time) {
	m.now = now
}

// LoadStats returns a copy of the stored record, with the same
// day-rollover reset the file store applies.
func (m *MemoryStore) LoadStats() (*gamification.UserStats, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	now := m.now()
	if m.stats == nil {
		return gamification.NewUserStats(now), nil
	}

	stats := *m.stats
	stats.Achievements = append([]string{}, m.stats.Achievements...)

	if stats.DailyChallenge.ChallengeDate != gamification.DayString(now) {
		stats.ResetDailyChallenge(now)
	}

	return &stats, nil
}

// SaveStats stores a copy of the record
func (m *MemoryStore) SaveStats(stats *gamification.UserStats) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.FailSaves {
		return errSaveFailed
	}

	copied := *stats
	copied.Achievements = append([]string{}, stats.Achievements...)
	m.stats = &copied
	return nil
}

// AppendEntry appends to the day's ledger, pruning other days
func (m *MemoryStore) AppendEntry(day string, entry gamification.EngagementEntry) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.FailSaves {
		return errSaveFailed
	}

	entries := m.ledger[day]
	m.ledger = ledgerData{day: append(entries, entry)}
	return nil
}

// TopEngagement returns the day's entries sorted descending by rate
func (m *MemoryStore) TopEngagement(day string, limit int) ([]gamification.EngagementEntry, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	entries := m.ledger[day]
	if len(entries) == 0 {
		return nil, nil
	}

	sorted := make([]gamification.EngagementEntry, len(entries))
	copy(sorted, entries)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].EngagementRate > sorted[j].EngagementRate
	})

	if limit > 0 && len(sorted) > limit {
		sorted = sorted[:limit]
	}

	return sorted, nil
}

// Reset clears everything
func (m *MemoryStore) Reset() error {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.stats = nil
	m.ledger = ledgerData{}
	return nil
}
