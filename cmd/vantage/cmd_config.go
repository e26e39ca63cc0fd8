package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"vantage/internal/config"
)

// configCmd manages persisted preferences.
var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Manage vantage configuration",
	Long: `Inspect and change the persisted configuration.

Subcommands:
  show      - Print the current configuration
  set-key   - Store the Gemini API key
  set-theme - Set the dashboard theme (light/dark)`,
	RunE: runConfigShow,
}

var configShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Print the current configuration",
	RunE:  runConfigShow,
}

var configSetKeyCmd = &cobra.Command{
	Use:   "set-key <key>",
	Short: "Store the Gemini API key",
	Args:  cobra.ExactArgs(1),
	RunE:  runConfigSetKey,
}

var configSetThemeCmd = &cobra.Command{
	Use:   "set-theme <light|dark>",
	Short: "Set the dashboard theme",
	Args:  cobra.ExactArgs(1),
	RunE:  runConfigSetTheme,
}

func init() {
	configCmd.AddCommand(configShowCmd)
	configCmd.AddCommand(configSetKeyCmd)
	configCmd.AddCommand(configSetThemeCmd)
}

func runConfigShow(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}

	masked := "(not set)"
	if cfg.APIKey != "" {
		masked = "****" + tail(cfg.APIKey, 4)
	}
	if cfg.ResolveAPIKey() != cfg.APIKey {
		masked += fmt.Sprintf(" (overridden by %s)", config.EnvAPIKey)
	}

	fmt.Printf("api_key:                 %s\n", masked)
	fmt.Printf("generate_model:          %s\n", cfg.GenerateModel)
	fmt.Printf("chat_model:              %s\n", cfg.ChatModel)
	fmt.Printf("theme:                   %s\n", cfg.Theme)
	fmt.Printf("request_timeout_seconds: %d\n", cfg.RequestTimeoutSeconds)
	fmt.Printf("geolocate:               %t\n", cfg.Geolocate)
	return nil
}

func runConfigSetKey(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}
	cfg.APIKey = args[0]
	if err := config.Save(cfg); err != nil {
		return err
	}
	fmt.Println("API key saved.")
	return nil
}

func runConfigSetTheme(cmd *cobra.Command, args []string) error {
	if args[0] != "light" && args[0] != "dark" {
		return fmt.Errorf("theme must be light or dark")
	}
	cfg, err := config.Load()
	if err != nil {
		return err
	}
	cfg.Theme = args[0]
	if err := config.Save(cfg); err != nil {
		return err
	}
	fmt.Printf("Theme set to %s.\n", args[0])
	return nil
}

func tail(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[len(s)-n:]
}
