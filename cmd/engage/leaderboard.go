package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"engage/pkg/gamification"
	"engage/pkg/ui"
)

// leaderboardCmd represents the leaderboard command
var leaderboardCmd = &cobra.Command{
	Use:   "leaderboard",
	Short: "Show the local leaderboard",
	Long: `Show a local ranking of your stats against a fixed set of sample
competitors. This is a placeholder for a future server-backed ranking.`,
	RunE: runLeaderboard,
}

func init() {
	rootCmd.AddCommand(leaderboardCmd)
}

func runLeaderboard(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	engine, err := buildEngine(cfg)
	if err != nil {
		return err
	}

	ui.PrintHighlight("Leaderboard")
	for i, entry := range gamification.Leaderboard(engine.Stats()) {
		line := fmt.Sprintf("%2d. %-10s level %d, %d points, %d checks",
			i+1, entry.Username, entry.Level, entry.Points, entry.AccountsChecked)
		if entry.Username == "You" {
			fmt.Println(ui.Green(line))
		} else {
			fmt.Println(line)
		}
	}

	return nil
}
