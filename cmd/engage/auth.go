package main

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"engage/pkg/auth"
	"engage/pkg/ui"
)

// authCmd represents the auth command group
var authCmd = &cobra.Command{
	Use:   "auth",
	Short: "Manage the analytics API token",
}

var authLoginCmd = &cobra.Command{
	Use:   "login",
	Short: "Store an analytics API token",
	Long: `Store an API token for the analytics endpoint. The token is kept in the
system keychain when one is available, otherwise set the ` + auth.EnvToken + `
environment variable instead.`,
	RunE: runAuthLogin,
}

var authLogoutCmd = &cobra.Command{
	Use:   "logout",
	Short: "Remove the stored analytics API token",
	RunE:  runAuthLogout,
}

var authStatusCmd = &cobra.Command{
	Use:   "status",
	Short: "Show whether an analytics API token is available",
	RunE:  runAuthStatus,
}

func init() {
	authCmd.AddCommand(authLoginCmd)
	authCmd.AddCommand(authLogoutCmd)
	authCmd.AddCommand(authStatusCmd)
	rootCmd.AddCommand(authCmd)
}

func runAuthLogin(cmd *cobra.Command, args []string) error {
	fmt.Print("API token: ")
	raw, err := term.ReadPassword(int(os.Stdin.Fd()))
	fmt.Println()
	if err != nil {
		return fmt.Errorf("failed to read token: %w", err)
	}

	token := strings.TrimSpace(string(raw))
	if token == "" {
		return errors.New("token is required")
	}

	if err := auth.NewManager().Set(token); err != nil {
		return fmt.Errorf("failed to store token: %w", err)
	}

	ui.PrintSuccess("Token stored")
	return nil
}

func runAuthLogout(cmd *cobra.Command, args []string) error {
	if err := auth.NewManager().Delete(); err != nil {
		return fmt.Errorf("failed to remove token: %w", err)
	}
	ui.PrintSuccess("Token removed")
	return nil
}

func runAuthStatus(cmd *cobra.Command, args []string) error {
	token, err := auth.NewManager().Get()
	if err != nil {
		if errors.Is(err, auth.ErrTokenNotFound) {
			ui.PrintWarning("No API token stored")
			return nil
		}
		return err
	}

	masked := "****"
	if len(token) > 8 {
		masked = token[:4] + strings.Repeat("*", 4) + token[len(token)-4:]
	}
	ui.PrintInfo("Token", masked)
	return nil
}
