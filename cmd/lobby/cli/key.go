package cli

import (
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/agentlobby/lobby/internal/config"
	"github.com/agentlobby/lobby/internal/service"
)

func newKeyCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:     "key",
		Aliases: []string{"adminkey"},
		Short:   "Manage admin keys",
		Long:    "Create, list, and revoke admin keys used to authenticate against the Lobby management API.",
	}

	cmd.AddCommand(newKeyCreateCmd())
	cmd.AddCommand(newKeyListCmd())
	cmd.AddCommand(newKeyRevokeCmd())

	return cmd
}

// ---------- key create ----------

func newKeyCreateCmd() *cobra.Command {
	var label string

	cmd := &cobra.Command{
		Use:   "create",
		Short: "Create a new admin key",
		Long:  "Generate a new admin key. The raw key is shown once and cannot be retrieved again.",
		Example: `  lobby key create --label "CI pipeline"
  lobby key create`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runKeyCreate(label)
		},
	}

	cmd.Flags().StringVar(&label, "label", "", "Human-readable label for the key")

	return cmd
}

func runKeyCreate(label string) error {
	store, err := openStore()
	if err != nil {
		return fmt.Errorf("open store: %w", err)
	}
	defer store.Close()

	authSvc := service.NewAuthService(store)
	raw, key, err := authSvc.GenerateAdminKey(cmdCtx(), label)
	if err != nil {
		return fmt.Errorf("create admin key: %w", err)
	}

	fmt.Println("Admin key created:")
	fmt.Println()
	fmt.Printf("  Key:    %s\n", raw)
	fmt.Printf("  Prefix: %s\n", key.KeyPrefix)
	if label != "" {
		fmt.Printf("  Label:  %s\n", label)
	}
	fmt.Println()
	fmt.Println("  Save this key now - it cannot be retrieved again.")
	return nil
}

// ---------- key list ----------

func newKeyListCmd() *cobra.Command {
	var jsonOutput bool

	cmd := &cobra.Command{
		Use:     "list",
		Aliases: []string{"ls"},
		Short:   "List all admin keys",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runKeyList(jsonOutput)
		},
	}

	cmd.Flags().BoolVar(&jsonOutput, "json", false, "Output as JSON")

	return cmd
}

func runKeyList(jsonOutput bool) error {
	store, err := openStore()
	if err != nil {
		return fmt.Errorf("open store: %w", err)
	}
	defer store.Close()

	keys, err := store.ListAdminKeys(cmdCtx())
	if err != nil {
		return fmt.Errorf("list admin keys: %w", err)
	}

	if jsonOutput {
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(keys)
	}

	if len(keys) == 0 {
		fmt.Println("No admin keys configured. Use 'lobby key create' to create one.")
		return nil
	}

	fmt.Printf("%-14s %-24s %-8s %-20s\n", "PREFIX", "LABEL", "ACTIVE", "CREATED")
	fmt.Printf("%-14s %-24s %-8s %-20s\n", "------", "-----", "------", "-------")
	for _, k := range keys {
		active := "yes"
		if !k.IsActive {
			active = "no"
		}
		fmt.Printf("%-14s %-24s %-8s %-20s\n", k.KeyPrefix, k.Label, active, k.CreatedAt.Format("2006-01-02 15:04"))
	}

	return nil
}

// ---------- key revoke ----------

func newKeyRevokeCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "revoke <prefix>",
		Short: "Revoke an admin key by its prefix",
		Long:  "Deactivate an admin key, preventing any further authenticated requests using that key.",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runKeyRevoke(args[0])
		},
	}

	return cmd
}

func runKeyRevoke(prefix string) error {
	store, err := openStore()
	if err != nil {
		return fmt.Errorf("open store: %w", err)
	}
	defer store.Close()

	keys, err := store.ListAdminKeys(cmdCtx())
	if err != nil {
		return fmt.Errorf("list admin keys: %w", err)
	}

	var matched *config.AdminKey
	for i := range keys {
		if strings.HasPrefix(keys[i].KeyPrefix, prefix) {
			matched = &keys[i]
			break
		}
	}
	if matched == nil {
		return fmt.Errorf("no admin key found with prefix %q", prefix)
	}

	if err := store.RevokeAdminKey(cmdCtx(), matched.ID); err != nil {
		return fmt.Errorf("revoke admin key: %w", err)
	}

	fmt.Printf("Revoked admin key with prefix %q\n", matched.KeyPrefix)
	return nil
}
