package main

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"engage/pkg/gamification"
	"engage/pkg/logger"
	"engage/pkg/ratelimit"
	"engage/pkg/ui"
)

var checkRateLimit int

// checkCmd represents the check command
var checkCmd = &cobra.Command{
	Use:   "check <username>...",
	Short: "Check engagement for one or more Instagram accounts",
	Long: `Check the engagement rate of one or more Instagram accounts through
the configured analytics endpoint.

Every successful check earns points, advances the daily streak, counts
toward the daily challenge, and can unlock achievements. Checked
accounts are recorded in today's top-engagement list.`,
	Example: `  # Check a single account
  engage check instagram

  # Check several accounts in one run (rate limited)
  engage check natgeo nasa spacex`,
	Args: cobra.MinimumNArgs(1),
	RunE: runCheck,
}

func init() {
	rootCmd.AddCommand(checkCmd)
	checkCmd.Flags().IntVar(&checkRateLimit, "rate-limit", 0, "endpoint requests per minute for batch checks")
}

func runCheck(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	if checkRateLimit > 0 {
		cfg.RateLimit.RequestsPerMinute = checkRateLimit
	}

	engine, err := buildEngine(cfg)
	if err != nil {
		return err
	}
	client := buildClient(cfg)

	limiter := ratelimit.NewTokenBucket(cfg.RateLimit.RequestsPerMinute, time.Minute)

	var failed int
	for i, username := range args {
		username = strings.TrimPrefix(strings.TrimSpace(username), "@")
		if username == "" {
			continue
		}

		if i > 0 {
			limiter.Wait()
		}

		report, err := client.CheckEngagement(username)
		if err != nil {
			failed++
			logger.WithError(err).WithField("username", username).Error("engagement check failed")
			ui.PrintError(fmt.Sprintf("@%s", username), err.Error())
			continue
		}

		result := engine.ProcessCheck(report.EngagementRate.Float(), report.Username, report.Followers)
		printCheckResult(report.Username, report.Followers, report.AvgLikes, report.AvgComments, report.EngagementRate.Float(), result)
	}

	if failed == len(args) {
		return fmt.Errorf("all %d checks failed", failed)
	}
	return nil
}

func printCheckResult(username string, followers, avgLikes, avgComments int, rate float64, result *gamification.CheckResult) {
	fmt.Println()
	ui.PrintHighlight(fmt.Sprintf("@%s", username))
	ui.PrintInfo("Followers", fmt.Sprintf("%d", followers))
	ui.PrintInfo("Avg likes", fmt.Sprintf("%d", avgLikes))
	ui.PrintInfo("Avg comments", fmt.Sprintf("%d", avgComments))
	ui.PrintInfo("Engagement rate", fmt.Sprintf("%.2f%%", rate))

	fmt.Println()
	ui.PrintSuccess(fmt.Sprintf("+%d points (total %d, level %d)",
		result.PointsEarned, result.Stats.TotalPoints, result.Stats.Level))

	if result.Stats.CurrentStreak > 1 {
		ui.PrintInfo("Streak", fmt.Sprintf("%d days", result.Stats.CurrentStreak))
	}

	if result.DailyChallengeReward > 0 {
		ui.PrintSuccess(fmt.Sprintf("Daily challenge complete! +%d bonus points", result.DailyChallengeReward))
	}

	for _, a := range result.NewAchievements {
		ui.PrintSuccess(fmt.Sprintf("Achievement unlocked: %s %s (%s)", a.Icon, a.Name, a.Description))
	}
}
