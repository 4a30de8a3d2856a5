package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"engage/pkg/ui"
)

var topLimit int

// topCmd represents the top command
var topCmd = &cobra.Command{
	Use:   "top",
	Short: "Show today's top accounts by engagement rate",
	Long: `Show the accounts checked today, ranked by engagement rate. The list
resets at the start of each calendar day.`,
	RunE: runTop,
}

func init() {
	rootCmd.AddCommand(topCmd)
	topCmd.Flags().IntVar(&topLimit, "limit", 10, "maximum number of entries to show")
}

func runTop(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	engine, err := buildEngine(cfg)
	if err != nil {
		return err
	}

	entries := engine.TopToday(topLimit)
	if len(entries) == 0 {
		ui.PrintWarning("No accounts checked today yet")
		return nil
	}

	ui.PrintHighlight("Today's Top Engagement")
	for i, entry := range entries {
		fmt.Printf("%2d. %s  %s  %s\n",
			i+1,
			ui.Cyan("@"+entry.Username),
			ui.Yellow(fmt.Sprintf("%.2f%%", entry.EngagementRate)),
			ui.Dim(fmt.Sprintf("%d followers", entry.Followers)))
	}

	return nil
}
