package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"engage/pkg/ui"
)

// achievementsCmd represents the achievements command
var achievementsCmd = &cobra.Command{
	Use:   "achievements",
	Short: "List all achievements and their unlock status",
	RunE:  runAchievements,
}

func init() {
	rootCmd.AddCommand(achievementsCmd)
}

func runAchievements(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	engine, err := buildEngine(cfg)
	if err != nil {
		return err
	}

	ui.PrintHighlight("Achievements")
	for _, a := range engine.Achievements() {
		line := fmt.Sprintf("%s %s (%d pts): %s", a.Icon, a.Name, a.Points, a.Description)
		if a.Unlocked {
			fmt.Println(ui.Green("✓ " + line))
		} else {
			fmt.Println(ui.Dim("✗ " + line))
		}
	}

	return nil
}
