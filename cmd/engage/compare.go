package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"engage/pkg/ui"
)

// compareCmd represents the compare command
var compareCmd = &cobra.Command{
	Use:   "compare <username> <username>",
	Short: "Compare the engagement of two accounts (VS mode)",
	Long: `Fetch engagement metrics for two accounts and declare the one with the
higher engagement rate the winner. Both checks count toward your stats,
and using compare mode unlocks its own achievement.`,
	Example: `  engage compare natgeo nasa`,
	Args:    cobra.ExactArgs(2),
	RunE:    runCompare,
}

func init() {
	rootCmd.AddCommand(compareCmd)
}

func runCompare(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	engine, err := buildEngine(cfg)
	if err != nil {
		return err
	}
	client := buildClient(cfg)

	left := strings.TrimPrefix(strings.TrimSpace(args[0]), "@")
	right := strings.TrimPrefix(strings.TrimSpace(args[1]), "@")

	leftReport, err := client.CheckEngagement(left)
	if err != nil {
		return fmt.Errorf("failed to check @%s: %w", left, err)
	}
	rightReport, err := client.CheckEngagement(right)
	if err != nil {
		return fmt.Errorf("failed to check @%s: %w", right, err)
	}

	leftRate := leftReport.EngagementRate.Float()
	rightRate := rightReport.EngagementRate.Float()

	ui.PrintHighlight(fmt.Sprintf("@%s vs @%s", leftReport.Username, rightReport.Username))
	ui.PrintInfo("@"+leftReport.Username, fmt.Sprintf("%.2f%% engagement, %d followers", leftRate, leftReport.Followers))
	ui.PrintInfo("@"+rightReport.Username, fmt.Sprintf("%.2f%% engagement, %d followers", rightRate, rightReport.Followers))

	fmt.Println()
	switch {
	case leftRate > rightRate:
		ui.PrintSuccess(fmt.Sprintf("Winner: @%s", leftReport.Username))
	case rightRate > leftRate:
		ui.PrintSuccess(fmt.Sprintf("Winner: @%s", rightReport.Username))
	default:
		ui.PrintWarning("It's a tie")
	}

	leftResult := engine.ProcessCheck(leftRate, leftReport.Username, leftReport.Followers)
	rightResult := engine.ProcessCheck(rightRate, rightReport.Username, rightReport.Followers)

	totalPoints := leftResult.PointsEarned + rightResult.PointsEarned
	for _, a := range engine.UnlockVSMode() {
		totalPoints += a.Points
		ui.PrintSuccess(fmt.Sprintf("Achievement unlocked: %s %s (%s)", a.Icon, a.Name, a.Description))
	}

	for _, a := range append(leftResult.NewAchievements, rightResult.NewAchievements...) {
		ui.PrintSuccess(fmt.Sprintf("Achievement unlocked: %s %s (%s)", a.Icon, a.Name, a.Description))
	}

	fmt.Println()
	ui.PrintSuccess(fmt.Sprintf("+%d points earned", totalPoints))

	return nil
}
