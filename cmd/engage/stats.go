package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"engage/pkg/gamification"
	"engage/pkg/ui"
)

// statsCmd represents the stats command
var statsCmd = &cobra.Command{
	Use:   "stats",
	Short: "Show your gamification stats",
	Long: `Show the persisted gamification profile: total points, level and
progress toward the next level, streaks, and today's challenge progress.`,
	RunE: runStats,
}

func init() {
	rootCmd.AddCommand(statsCmd)
}

func runStats(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	engine, err := buildEngine(cfg)
	if err != nil {
		return err
	}

	stats := engine.Stats()
	progress := gamification.LevelProgressPercent(stats.TotalPoints, stats.Level)

	ui.PrintHighlight("Your Stats")
	ui.PrintInfo("Level", fmt.Sprintf("%d", stats.Level))
	ui.PrintInfo("Total points", fmt.Sprintf("%d", stats.TotalPoints))
	ui.PrintInfo("Next level", fmt.Sprintf("%s %.0f%% (%d points to go)",
		progressBar(progress), progress,
		gamification.PointsForLevel(stats.Level+1)-stats.TotalPoints))
	ui.PrintInfo("Accounts checked", fmt.Sprintf("%d", stats.AccountsChecked))
	ui.PrintInfo("Current streak", fmt.Sprintf("%d days", stats.CurrentStreak))
	ui.PrintInfo("Longest streak", fmt.Sprintf("%d days", stats.LongestStreak))
	ui.PrintInfo("Achievements", fmt.Sprintf("%d unlocked", len(stats.Achievements)))

	fmt.Println()
	challenge := gamification.DailyChallenge()
	ui.PrintHighlight("Daily Challenge")
	fmt.Println(challenge.Description)
	ui.PrintInfo("Progress", fmt.Sprintf("%d/5 checks, high engagement found: %v",
		stats.DailyChallenge.AccountsChecked, stats.DailyChallenge.HighEngagementFound))
	if gamification.DailyChallengeComplete(stats) {
		ui.PrintSuccess("Complete!")
	} else {
		ui.PrintInfo("Reward", fmt.Sprintf("%d points", challenge.Reward))
	}

	return nil
}

// progressBar renders a 20-cell bar for a 0-100 percentage
func progressBar(percent float64) string {
	filled := int(percent / 5)
	if filled > 20 {
		filled = 20
	}
	return "[" + strings.Repeat("█", filled) + strings.Repeat("░", 20-filled) + "]"
}
