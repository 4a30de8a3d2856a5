package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"engage/pkg/logger"
	"engage/pkg/server"
	"engage/pkg/ui"
)

var serveAddr string

// serveCmd represents the serve command
var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the local engagement API server",
	Long: `Start an HTTP server exposing engagement checks and gamification state
as a JSON API, suitable for driving a dashboard or other local tooling.`,
	RunE: runServe,
}

func init() {
	serveCmd.Flags().StringVar(&serveAddr, "addr", "", "Listen address (overrides config)")
	rootCmd.AddCommand(serveCmd)
}

func runServe(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	engine, err := buildEngine(cfg)
	if err != nil {
		return err
	}
	client := buildClient(cfg)

	srv := server.New(&cfg.Server, cfg.RateLimit.ServerBurst, engine, client, logger.GetLogger())

	addr := cfg.Server.Addr
	if serveAddr != "" {
		addr = serveAddr
	}

	ui.PrintInfo("Listening", addr)
	if err := srv.Run(addr); err != nil {
		return fmt.Errorf("server stopped: %w", err)
	}
	return nil
}
