package cli

import (
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"golang.org/x/term"

	"github.com/agentlobby/lobby/internal/config"
)

func newConfigCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "config",
		Short: "Manage Lobby configuration",
		Long:  "Initialize a default configuration file, display the effective configuration, or manage stored settings.",
	}

	cmd.AddCommand(newConfigInitCmd())
	cmd.AddCommand(newConfigShowCmd())
	cmd.AddCommand(newConfigSetCmd())
	cmd.AddCommand(newConfigSetSecretCmd())

	return cmd
}

// ---------- config init ----------

func newConfigInitCmd() *cobra.Command {
	var force bool

	cmd := &cobra.Command{
		Use:   "init",
		Short: "Create a default lobby.yaml configuration file",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runConfigInit(force)
		},
	}

	cmd.Flags().BoolVar(&force, "force", false, "Overwrite existing config file")

	return cmd
}

func runConfigInit(force bool) error {
	path := "lobby.yaml"

	if !force {
		if _, err := os.Stat(path); err == nil {
			return fmt.Errorf("%s already exists (use --force to overwrite)", path)
		}
	}

	if err := config.WriteDefaultConfig(path); err != nil {
		return fmt.Errorf("failed to write config: %w", err)
	}

	fmt.Printf("Created %s\n", path)
	fmt.Println("Edit the file to set your branding and realtime credentials, then run 'lobby serve'.")
	return nil
}

// ---------- config show ----------

func newConfigShowCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "show",
		Short: "Show the current effective configuration",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runConfigShow()
		},
	}

	return cmd
}

func runConfigShow() error {
	// Ensure config is loaded
	initConfig()

	configFile := viper.ConfigFileUsed()
	if configFile != "" {
		fmt.Printf("Config file: %s\n", configFile)
	} else {
		fmt.Println("Config file: (none found, using defaults)")
	}
	fmt.Println()

	settings := viper.AllSettings()
	if len(settings) == 0 {
		fmt.Println("No configuration settings loaded.")
		fmt.Println("Run 'lobby config init' to create a default configuration file.")
		return nil
	}

	for key, value := range settings {
		if strings.Contains(key, "secret") {
			value = "(redacted)"
		}
		fmt.Printf("  %s: %v\n", key, value)
	}

	return nil
}

// ---------- config set ----------

func newConfigSetCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "set <key> <value>",
		Short: "Store a persistent setting (e.g. telemetry.enabled false)",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			store, err := openStore()
			if err != nil {
				return err
			}
			defer store.Close()

			if err := store.SetSetting(cmdCtx(), args[0], args[1]); err != nil {
				return fmt.Errorf("failed to store setting: %w", err)
			}
			fmt.Printf("Set %s = %s\n", args[0], args[1])
			return nil
		},
	}

	return cmd
}

// ---------- config set-secret ----------

// settings keys for credentials entered interactively. serve falls back
// to these when the YAML config and environment leave them empty.
const (
	settingLiveKitAPIKey    = "livekit.api_key"
	settingLiveKitAPISecret = "livekit.api_secret"
)

func newConfigSetSecretCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "set-secret",
		Short: "Store realtime API credentials without echoing them",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runConfigSetSecret()
		},
	}

	return cmd
}

func runConfigSetSecret() error {
	store, err := openStore()
	if err != nil {
		return err
	}
	defer store.Close()

	fmt.Print("API key: ")
	key, err := term.ReadPassword(int(os.Stdin.Fd()))
	fmt.Println()
	if err != nil {
		return fmt.Errorf("failed to read input: %w", err)
	}
	fmt.Print("API secret: ")
	secret, err := term.ReadPassword(int(os.Stdin.Fd()))
	fmt.Println()
	if err != nil {
		return fmt.Errorf("failed to read input: %w", err)
	}

	if len(key) == 0 || len(secret) == 0 {
		return fmt.Errorf("key and secret must not be empty")
	}

	ctx := cmdCtx()
	if err := store.SetSetting(ctx, settingLiveKitAPIKey, string(key)); err != nil {
		return fmt.Errorf("failed to store credentials: %w", err)
	}
	if err := store.SetSetting(ctx, settingLiveKitAPISecret, string(secret)); err != nil {
		return fmt.Errorf("failed to store credentials: %w", err)
	}

	fmt.Println("Credentials stored.")
	return nil
}
