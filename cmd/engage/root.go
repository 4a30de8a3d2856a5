package main

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"engage/pkg/analytics"
	"engage/pkg/auth"
	"engage/pkg/config"
	"engage/pkg/gamification"
	"engage/pkg/logger"
	"engage/pkg/store"
)

var (
	// Version information
	version   = "1.0.0"
	gitCommit = "unknown"
	buildDate = "unknown"

	// Global flags
	configFile string
	logLevel   string
	endpoint   string
	dataDir    string
)

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "engage",
	Short: "Instagram engagement checker with local gamification",
	Long: `engage checks Instagram engagement rates through an analytics endpoint
and keeps a local gamification profile: points, levels, daily streaks,
achievements, a daily challenge, and a same-day top-engagement list.

All gamification state lives on this machine. Engagement metrics come
from an external analytics endpoint configured via --endpoint, a config
file, or the ENGAGE_ENDPOINT environment variable.`,
	Version: fmt.Sprintf("%s (commit: %s, built: %s)", version, gitCommit, buildDate),
}

func init() {
	rootCmd.PersistentFlags().StringVar(&configFile, "config", "", "path to configuration file")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "", "log level (debug, info, warn, error)")
	rootCmd.PersistentFlags().StringVar(&endpoint, "endpoint", "", "analytics endpoint URL")
	rootCmd.PersistentFlags().StringVar(&dataDir, "data-dir", "", "directory for persisted gamification state")
}

// loadConfig loads configuration with global flags applied and
// initializes logging.
func loadConfig() (*config.Config, error) {
	flags := make(map[string]interface{})
	if endpoint != "" {
		flags["endpoint"] = endpoint
	}
	if dataDir != "" {
		flags["data-dir"] = dataDir
	}
	if logLevel != "" {
		flags["log-level"] = logLevel
	}

	cfg, err := config.Load(configFile, flags)
	if err != nil {
		return nil, err
	}

	if err := logger.Initialize(&cfg.Logging); err != nil {
		return nil, err
	}

	return cfg, nil
}

// buildEngine constructs the gamification engine over the file store
func buildEngine(cfg *config.Config) (*gamification.Engine, error) {
	repo, err := store.NewFileStore(cfg.Storage.DataDir, logger.GetLogger())
	if err != nil {
		return nil, fmt.Errorf("failed to open local store: %w", err)
	}
	return gamification.NewEngine(repo, logger.GetLogger()), nil
}

// buildClient constructs the analytics client, resolving a stored API
// token when the config carries none.
func buildClient(cfg *config.Config) *analytics.Client {
	if cfg.Analytics.APIToken == "" {
		token, err := auth.NewManager().Get()
		if err == nil {
			cfg.Analytics.APIToken = token
		} else if !errors.Is(err, auth.ErrTokenNotFound) {
			logger.WithError(err).Warn("failed to read stored API token")
		}
	}
	return analytics.New(&cfg.Analytics, &cfg.Retry, logger.GetLogger())
}
