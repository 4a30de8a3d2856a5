package store

import (
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"sort"
	"time"

	"github.com/goccy/go-json"

	"engage/pkg/gamification"
	"engage/pkg/logger"
)

const (
	statsFileName  = "stats.json"
	ledgerFileName = "engagement.json"
)

// ledgerData maps a calendar-day string to that day's checked accounts.
// Only the current day's key is ever kept; stale days are pruned on write.
type ledgerData map[string][]gamification.EngagementEntry

// FileStore persists the gamification state as two independent JSON
// files under the platform data directory. It implements
// gamification.Repository.
type FileStore struct {
	statsPath  string
	ledgerPath string
	logger     logger.Logger
	now        func() time.Time
}

// NewFileStore creates a file-backed store. An empty dataDir selects the
// platform default data directory.
func NewFileStore(dataDir string, log logger.Logger) (*FileStore, error) {
	if log == nil {
		log = logger.GetLogger()
	}

	if dataDir == "" {
		var err error
		dataDir, err = defaultDataDirectory()
		if err != nil {
			return nil, fmt.Errorf("failed to resolve data directory: %w", err)
		}
	}

	if err := os.MkdirAll(dataDir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create data directory: %w", err)
	}

	return &FileStore{
		statsPath:  filepath.Join(dataDir, statsFileName),
		ledgerPath: filepath.Join(dataDir, ledgerFileName),
		logger:     log,
		now:        time.Now,
	}, nil
}

// LoadStats reads the persisted stats record. A missing or unparsable
// file falls back to freshly-initialized defaults without persisting
// them. A stored daily challenge from a previous day is reset to today's
// zero state; all other fields are left untouched.
func (s *FileStore) LoadStats() (*gamification.UserStats, error) {
	now := s.now()

	data, err := os.ReadFile(s.statsPath)
	if err != nil {
		if !os.IsNotExist(err) {
			s.logger.WithError(err).Warn("failed to read stats file, starting fresh")
		}
		return gamification.NewUserStats(now), nil
	}

	var stats gamification.UserStats
	if err := json.Unmarshal(data, &stats); err != nil {
		s.logger.WithError(err).Warn("corrupted stats file, starting fresh")
		return gamification.NewUserStats(now), nil
	}

	if stats.Achievements == nil {
		stats.Achievements = []string{}
	}

	if stats.DailyChallenge.ChallengeDate != gamification.DayString(now) {
		stats.ResetDailyChallenge(now)
	}

	return &stats, nil
}

// SaveStats serializes and writes the stats record atomically
func (s *FileStore) SaveStats(stats *gamification.UserStats) error {
	if err := s.writeJSON(s.statsPath, stats); err != nil {
		return fmt.Errorf("failed to save stats: %w", err)
	}

	s.logger.DebugWithFields("stats saved", map[string]interface{}{
		"total_points": stats.TotalPoints,
		"level":        stats.Level,
	})

	return nil
}

// AppendEntry appends an entry to the given day's ledger, discarding any
// stored entries from other days.
func (s *FileStore) AppendEntry(day string, entry gamification.EngagementEntry) error {
	ledger := s.readLedger()

	// Only the current day survives a write
	entries := ledger[day]
	ledger = ledgerData{day: append(entries, entry)}

	if err := s.writeJSON(s.ledgerPath, ledger); err != nil {
		return fmt.Errorf("failed to save engagement ledger: %w", err)
	}

	s.logger.DebugWithFields("ledger entry appended", map[string]interface{}{
		"day":      day,
		"username": entry.Username,
		"rate":     entry.EngagementRate,
	})

	return nil
}

// TopEngagement returns the given day's entries sorted descending by
// engagement rate, at most limit of them. A missing or stale ledger
// yields an empty result.
func (s *FileStore) TopEngagement(day string, limit int) ([]gamification.EngagementEntry, error) {
	ledger := s.readLedger()

	entries := ledger[day]
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

// Reset removes all persisted gamification state
func (s *FileStore) Reset() error {
	for _, path := range []string{s.statsPath, s.ledgerPath} {
		if err := os.Remove(path); err != nil && !os.IsNotExist(err) {
			return fmt.Errorf("failed to remove %s: %w", filepath.Base(path), err)
		}
	}

	s.logger.Info("gamification state reset")
	return nil
}

// readLedger loads the ledger file, treating missing or corrupted data
// as an empty ledger.
func (s *FileStore) readLedger() ledgerData {
	data, err := os.ReadFile(s.ledgerPath)
	if err != nil {
		if !os.IsNotExist(err) {
			s.logger.WithError(err).Warn("failed to read engagement ledger")
		}
		return ledgerData{}
	}

	var ledger ledgerData
	if err := json.Unmarshal(data, &ledger); err != nil {
		s.logger.WithError(err).Warn("corrupted engagement ledger, starting fresh")
		return ledgerData{}
	}

	return ledger
}

// writeJSON writes a value to path atomically via a temp file and rename
func (s *FileStore) writeJSON(path string, value interface{}) error {
	data, err := json.MarshalIndent(value, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to encode: %w", err)
	}

	tempPath := path + ".tmp"
	file, err := os.Create(tempPath)
	if err != nil {
		return fmt.Errorf("failed to create temporary file: %w", err)
	}

	if _, err := file.Write(data); err != nil {
		file.Close()
		os.Remove(tempPath)
		return fmt.Errorf("failed to write: %w", err)
	}

	if err := file.Sync(); err != nil {
		file.Close()
		os.Remove(tempPath)
		return fmt.Errorf("failed to sync: %w", err)
	}

	if err := file.Close(); err != nil {
		os.Remove(tempPath)
		return fmt.Errorf("failed to close: %w", err)
	}

	if err := os.Rename(tempPath, path); err != nil {
		os.Remove(tempPath)
		return fmt.Errorf("failed to replace file: %w", err)
	}

	return nil
}

// defaultDataDirectory returns the appropriate data directory for the
// current OS.
func defaultDataDirectory() (string, error) {
	switch runtime.GOOS {
	case "linux":
		if xdgDataHome := os.Getenv("XDG_DATA_HOME"); xdgDataHome != "" {
			return filepath.Join(xdgDataHome, "engage"), nil
		}
		home, err := os.UserHomeDir()
		if err != nil {
			return "", err
		}
		return filepath.Join(home, ".local", "share", "engage"), nil
	case "darwin":
		home, err := os.UserHomeDir()
		if err != nil {
			return "", err
		}
		return filepath.Join(home, "Library", "Application Support", "engage"), nil
	case "windows":
		appData := os.Getenv("APPDATA")
		if appData == "" {
			return "", fmt.Errorf("APPDATA environment variable not set")
		}
		return filepath.Join(appData, "engage"), nil
	default:
		return "", fmt.Errorf("unsupported operating system: %s", runtime.GOOS)
	}
}
