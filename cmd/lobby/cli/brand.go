package cli

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/agentlobby/lobby/internal/config"
	"github.com/agentlobby/lobby/internal/model"
)

func newBrandCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "brand",
		Short: "Manage branding overrides",
		Long:  "Set, inspect, and delete per-deployment branding overrides stored locally. Overrides fill in fields the remote sandbox configuration leaves unset.",
	}

	cmd.AddCommand(newBrandSetCmd())
	cmd.AddCommand(newBrandListCmd())
	cmd.AddCommand(newBrandShowCmd())
	cmd.AddCommand(newBrandDeleteCmd())

	return cmd
}

// ---------- brand set ----------

func newBrandSetCmd() *cobra.Command {
	var b model.Branding

	cmd := &cobra.Command{
		Use:   "set <deployment-id>",
		Short: "Create or update a branding override",
		Long:  "Store a branding override for a deployment. Only the flags you pass are stored; empty fields fall through to the remote configuration and built-in defaults.",
		Example: `  lobby brand set my-sandbox --company "Acme Corp" --accent "#ff5500"
  lobby brand set my-sandbox --logo https://cdn.acme.test/logo.png --logo-dark https://cdn.acme.test/logo-dark.png`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runBrandSet(args[0], b)
		},
	}

	cmd.Flags().StringVar(&b.CompanyName, "company", "", "Company name shown in the header and wordmark")
	cmd.Flags().StringVar(&b.PageTitle, "title", "", "Page title")
	cmd.Flags().StringVar(&b.PageDescription, "description", "", "Page description used in social previews")
	cmd.Flags().StringVar(&b.LogoURL, "logo", "", "Logo image URL")
	cmd.Flags().StringVar(&b.LogoDarkURL, "logo-dark", "", "Logo image URL for the dark theme")
	cmd.Flags().StringVar(&b.FaviconURL, "favicon", "", "Favicon URL")
	cmd.Flags().StringVar(&b.AccentColor, "accent", "", "Accent color (hex, e.g. #002cf2)")
	cmd.Flags().StringVar(&b.AccentDarkColor, "accent-dark", "", "Accent color for the dark theme")
	cmd.Flags().StringVar(&b.BackgroundURL, "background", "", "Preview image background URL")
	cmd.Flags().StringVar(&b.FontURL, "font", "", "Preview image font URL (TTF)")
	cmd.Flags().StringVar(&b.StartButtonText, "button-text", "", "Start call button label")
	cmd.Flags().StringVar(&b.SupportURL, "support", "", "Support link URL")

	return cmd
}

func runBrandSet(deploymentID string, b model.Branding) error {
	if b.IsZero() {
		return fmt.Errorf("no branding fields given (see 'lobby brand set --help')")
	}

	store, err := openStore()
	if err != nil {
		return fmt.Errorf("open store: %w", err)
	}
	defer store.Close()

	// Merge over any existing override so a partial set does not wipe
	// previously stored fields.
	if existing, err := store.GetOverride(cmdCtx(), deploymentID); err == nil {
		b = b.Merge(existing.Branding)
	}

	override, err := store.UpsertOverride(cmdCtx(), deploymentID, b)
	if err != nil {
		return fmt.Errorf("store override: %w", err)
	}

	fmt.Printf("Stored branding override for %q\n", override.DeploymentID)
	return nil
}

// ---------- brand list ----------

func newBrandListCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:     "list",
		Aliases: []string{"ls"},
		Short:   "List branding overrides",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runBrandList()
		},
	}

	return cmd
}

func runBrandList() error {
	store, err := openStore()
	if err != nil {
		return fmt.Errorf("open store: %w", err)
	}
	defer store.Close()

	overrides, err := store.ListOverrides(cmdCtx())
	if err != nil {
		return fmt.Errorf("list overrides: %w", err)
	}

	if len(overrides) == 0 {
		fmt.Println("No branding overrides stored. Use 'lobby brand set' to create one.")
		return nil
	}

	fmt.Printf("%-24s %-24s %-20s\n", "DEPLOYMENT", "COMPANY", "UPDATED")
	fmt.Printf("%-24s %-24s %-20s\n", "----------", "-------", "-------")
	for _, o := range overrides {
		fmt.Printf("%-24s %-24s %-20s\n", o.DeploymentID, o.Branding.CompanyName, o.UpdatedAt.Format("2006-01-02 15:04"))
	}

	return nil
}

// ---------- brand show ----------

func newBrandShowCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "show <deployment-id>",
		Short: "Show a stored branding override as JSON",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runBrandShow(args[0])
		},
	}

	return cmd
}

func runBrandShow(deploymentID string) error {
	store, err := openStore()
	if err != nil {
		return fmt.Errorf("open store: %w", err)
	}
	defer store.Close()

	override, err := store.GetOverride(cmdCtx(), deploymentID)
	if err != nil {
		if errors.Is(err, config.ErrNotFound) {
			return fmt.Errorf("no branding override for %q", deploymentID)
		}
		return fmt.Errorf("get override: %w", err)
	}

	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(override.Branding)
}

// ---------- brand delete ----------

func newBrandDeleteCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:     "delete <deployment-id>",
		Aliases: []string{"rm"},
		Short:   "Delete a branding override",
		Args:    cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runBrandDelete(args[0])
		},
	}

	return cmd
}

func runBrandDelete(deploymentID string) error {
	store, err := openStore()
	if err != nil {
		return fmt.Errorf("open store: %w", err)
	}
	defer store.Close()

	if err := store.DeleteOverride(cmdCtx(), deploymentID); err != nil {
		if errors.Is(err, config.ErrNotFound) {
			return fmt.Errorf("no branding override for %q", deploymentID)
		}
		return fmt.Errorf("delete override: %w", err)
	}

	fmt.Printf("Deleted branding override for %q\n", deploymentID)
	return nil
}
