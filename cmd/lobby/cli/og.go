package cli

import (
	"fmt"
	"log/slog"
	"os"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/agentlobby/lobby/internal/branding"
	"github.com/agentlobby/lobby/internal/config"
	"github.com/agentlobby/lobby/internal/model"
	"github.com/agentlobby/lobby/internal/og"
	"github.com/agentlobby/lobby/internal/sandbox"
)

func newOGCmd() *cobra.Command {
	var (
		out          string
		deploymentID string
	)

	cmd := &cobra.Command{
		Use:   "og",
		Short: "Render a social preview image to a file",
		Long:  "Resolve the branding for a deployment and render the Open Graph preview image as PNG. Useful for checking how a deployment's link preview will look before sharing it.",
		Example: `  lobby og --out preview.png
  lobby og --sandbox-id my-sandbox --out preview.png`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runOG(deploymentID, out)
		},
	}

	cmd.Flags().StringVarP(&out, "out", "o", "og.png", "Output file path")
	cmd.Flags().StringVar(&deploymentID, "sandbox-id", "", "Sandbox deployment ID to resolve branding for")

	return cmd
}

func runOG(deploymentID, out string) error {
	initConfig()

	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelWarn}))

	store, err := openStore()
	if err != nil {
		return fmt.Errorf("open store: %w", err)
	}
	defer store.Close()

	var defaults model.Branding
	if path := viper.ConfigFileUsed(); path != "" {
		if yamlCfg, err := config.LoadYAMLConfig(path); err == nil {
			defaults = yamlCfg.Branding
		}
	}

	endpoint := viper.GetString("sandbox.endpoint")
	if endpoint == "" {
		endpoint = config.DefaultYAMLConfig().Sandbox.Endpoint
	}
	remote := sandbox.NewClient(endpoint, 0)
	resolver := branding.NewResolver(remote, store, defaults, logger)

	if deploymentID == "" {
		deploymentID = viper.GetString("sandbox.id")
	}

	ctx := cmdCtx()
	b := resolver.Resolve(ctx, deploymentID)

	f, err := os.Create(out)
	if err != nil {
		return fmt.Errorf("create output file: %w", err)
	}
	defer f.Close()

	renderer := og.NewRenderer(logger)
	start := time.Now()
	if err := renderer.RenderPNG(ctx, og.Branding{
		CompanyName:     b.CompanyName,
		PageTitle:       b.PageTitle,
		PageDescription: b.PageDescription,
		LogoURL:         b.LogoURL,
		AccentColor:     b.AccentColor,
		BackgroundURL:   b.BackgroundURL,
		FontURL:         b.FontURL,
	}, f); err != nil {
		return fmt.Errorf("render image: %w", err)
	}

	fmt.Printf("Wrote %dx%d preview to %s (%s)\n", og.Width, og.Height, out, time.Since(start).Round(time.Millisecond))
	return nil
}
