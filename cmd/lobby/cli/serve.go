package cli

import (
	"fmt"
	"log/slog"
	"os"
	"os/exec"
	"runtime"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/agentlobby/lobby/internal/branding"
	"github.com/agentlobby/lobby/internal/config"
	"github.com/agentlobby/lobby/internal/model"
	"github.com/agentlobby/lobby/internal/sandbox"
	"github.com/agentlobby/lobby/internal/server"
	"github.com/agentlobby/lobby/internal/service"
	"github.com/agentlobby/lobby/internal/telemetry"
	"github.com/agentlobby/lobby/internal/token"
)

const banner = `
 _    ___  ___  ___ __ __
| |  / _ \| _ )| _ )\ V /
| |_| (_) | _ \| _ \ \ /
|____\___/|___/|___/ |_|
`

func newServeCmd() *cobra.Command {
	var (
		port      int
		host      string
		publicURL string
		sandboxID string
		dev       bool
		detach    bool
	)

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Start the Lobby server",
		Long:  "Start the HTTP server that renders the branded pages and preview images.",
		RunE: func(cmd *cobra.Command, args []string) error {
			if detach {
				return runDetached()
			}
			return runServe(host, port, publicURL, sandboxID, dev)
		},
	}

	cmd.Flags().IntVarP(&port, "port", "p", 8080, "HTTP listen port")
	cmd.Flags().StringVar(&host, "host", "0.0.0.0", "HTTP listen host")
	cmd.Flags().StringVar(&publicURL, "public-url", "", "absolute base URL used in page metadata (default http://<host>:<port>)")
	cmd.Flags().StringVar(&sandboxID, "sandbox-id", "", "fallback sandbox deployment ID")
	cmd.Flags().BoolVar(&dev, "dev", false, "Enable development mode (verbose logging)")
	cmd.Flags().BoolVar(&detach, "detach", false, "Run the server in the background")

	viper.BindPFlag("server.port", cmd.Flags().Lookup("port"))
	viper.BindPFlag("server.host", cmd.Flags().Lookup("host"))
	viper.BindPFlag("server.public_url", cmd.Flags().Lookup("public-url"))
	viper.BindPFlag("sandbox.id", cmd.Flags().Lookup("sandbox-id"))

	return cmd
}

// runDetached re-executes `lobby serve` without --detach as a background
// process, logging to the data dir, and records its PID for status/stop.
func runDetached() error {
	exe, err := os.Executable()
	if err != nil {
		return fmt.Errorf("resolve executable: %w", err)
	}

	args := []string{"serve"}
	for _, a := range os.Args[2:] {
		if a != "--detach" {
			args = append(args, a)
		}
	}

	if err := os.MkdirAll(resolveDataDir(), 0755); err != nil {
		return fmt.Errorf("create data dir: %w", err)
	}
	logFile, err := os.OpenFile(logFilePath(), os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0644)
	if err != nil {
		return fmt.Errorf("open log file: %w", err)
	}
	defer logFile.Close()

	child := exec.Command(exe, args...)
	child.Stdout = logFile
	child.Stderr = logFile
	setSysProcAttr(child)

	if err := child.Start(); err != nil {
		return fmt.Errorf("start background server: %w", err)
	}
	if err := writePID(child.Process.Pid); err != nil {
		return fmt.Errorf("write pid file: %w", err)
	}

	fmt.Printf("Server started in the background (PID %d)\n", child.Process.Pid)
	fmt.Printf("  Logs: %s\n", logFilePath())
	return nil
}

func runServe(host string, port int, publicURL, sandboxID string, dev bool) error {
	fmt.Print(banner)
	fmt.Println()

	// Set up logger
	logLevel := slog.LevelInfo
	if dev {
		logLevel = slog.LevelDebug
	}
	var handler slog.Handler
	if viper.GetString("logging.format") == "json" {
		handler = slog.NewJSONHandler(os.Stderr, &slog.HandlerOptions{Level: logLevel})
	} else {
		handler = slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: logLevel})
	}
	logger := slog.New(handler)

	// 1. Initialize the local store (SQLite)
	store, err := openStore()
	if err != nil {
		return fmt.Errorf("init store: %w", err)
	}
	defer store.Close()
	logger.Info("store initialized", "path", resolveDataDir())

	// 2. Branding defaults from the config file, when one was found
	var defaults model.Branding
	if path := viper.ConfigFileUsed(); path != "" {
		yamlCfg, err := config.LoadYAMLConfig(path)
		if err != nil {
			logger.Warn("failed to load branding defaults from config file", "path", path, "error", err)
		} else {
			defaults = yamlCfg.Branding
		}
	}

	// 3. Sandbox config client
	endpoint := viper.GetString("sandbox.endpoint")
	if endpoint == "" {
		endpoint = config.DefaultYAMLConfig().Sandbox.Endpoint
	}
	timeout, _ := time.ParseDuration(viper.GetString("sandbox.timeout"))
	remote := sandbox.NewClient(endpoint, timeout)

	resolver := branding.NewResolver(remote, store, defaults, logger)
	authSvc := service.NewAuthService(store)

	// 4. Realtime token minter. Credentials come from the config file or
	// environment, falling back to secrets stored via `lobby config set-secret`.
	apiKey := viper.GetString("livekit.api_key")
	apiSecret := viper.GetString("livekit.api_secret")
	if apiKey == "" {
		apiKey, _ = store.GetSetting(cmdCtx(), settingLiveKitAPIKey)
	}
	if apiSecret == "" {
		apiSecret, _ = store.GetSetting(cmdCtx(), settingLiveKitAPISecret)
	}
	minter := token.NewMinter(apiKey, apiSecret, 0)
	if !minter.Configured() {
		logger.Warn("realtime credentials not set - /api/connection-details will return 503",
			"hint", "set LOBBY_LIVEKIT_API_KEY and LOBBY_LIVEKIT_API_SECRET or run: lobby config set-secret")
	}

	host = viper.GetString("server.host")
	port = viper.GetInt("server.port")
	sandboxID = viper.GetString("sandbox.id")
	publicURL = viper.GetString("server.public_url")
	if publicURL == "" {
		displayHost := host
		if displayHost == "0.0.0.0" || displayHost == "" {
			displayHost = "localhost"
		}
		publicURL = fmt.Sprintf("http://%s:%d", displayHost, port)
	}

	// 5. Telemetry
	firstRun := false
	if _, err := store.GetSetting(cmdCtx(), "instance_id"); err != nil {
		firstRun = true
	}
	tracker := telemetry.New(cmdCtx(), store, func() telemetry.Properties {
		return gatherTelemetry(store, sandboxID, minter.Configured())
	})
	if tracker != nil && firstRun {
		telemetry.PrintNotice()
	}
	tracker.Start()
	defer tracker.Shutdown()

	// 6. Build and start HTTP server
	srvCfg := server.DefaultConfig()
	srvCfg.Host = host
	srvCfg.Port = port
	srvCfg.PublicURL = publicURL
	srvCfg.SandboxID = sandboxID
	srvCfg.ServerURL = viper.GetString("livekit.url")
	srvCfg.Version = versionString()
	if origins := viper.GetStringSlice("server.cors.origins"); len(origins) > 0 {
		srvCfg.CORSOrigins = origins
	}

	srv, err := server.New(srvCfg, store, resolver, authSvc, minter, logger)
	if err != nil {
		return fmt.Errorf("init server: %w", err)
	}

	// Record the PID so `lobby status` and `lobby stop` work for foreground
	// runs too.
	if err := writePID(os.Getpid()); err != nil {
		logger.Warn("failed to write pid file", "error", err)
	}
	defer removePID()

	fmt.Printf("→ Lobby %s\n", versionString())
	fmt.Printf("→ Listening on http://%s:%d\n", host, port)
	fmt.Printf("→ Public URL: %s\n", publicURL)
	fmt.Printf("→ OpenAPI:    %s/openapi.json\n", publicURL)
	fmt.Printf("→ Health:     %s/healthz\n", publicURL)
	fmt.Println()

	return srv.ListenAndServe()
}

func gatherTelemetry(store *config.Store, sandboxID string, realtime bool) telemetry.Properties {
	props := telemetry.Properties{
		Version:   versionString(),
		GoVersion: runtime.Version(),
		OS:        runtime.GOOS,
		Arch:      runtime.GOARCH,
		Sandbox:   sandboxID != "",
		Realtime:  realtime,
	}
	if overrides, err := store.ListOverrides(cmdCtx()); err == nil {
		props.Overrides = len(overrides)
	}
	if keys, err := store.ListAdminKeys(cmdCtx()); err == nil {
		props.AdminKeys = len(keys)
	}
	return props
}
