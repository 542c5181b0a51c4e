package server

import (
	"context"
	"fmt"
	"io/fs"
	"log/slog"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"

	"github.com/agentlobby/lobby/internal/branding"
	"github.com/agentlobby/lobby/internal/config"
	"github.com/agentlobby/lobby/internal/handler"
	"github.com/agentlobby/lobby/internal/og"
	"github.com/agentlobby/lobby/internal/page"
	"github.com/agentlobby/lobby/internal/sandbox"
	"github.com/agentlobby/lobby/internal/server/middleware"
	"github.com/agentlobby/lobby/internal/service"
	"github.com/agentlobby/lobby/internal/token"
	"github.com/agentlobby/lobby/internal/ui"
)

// Config holds the HTTP server configuration.
type Config struct {
	Host            string
	Port            int
	PublicURL       string // absolute base URL used in page metadata and QR codes
	SandboxID       string // fallback deployment ID when the header is absent
	ServerURL       string // realtime server URL handed to clients
	Version         string
	ShutdownTimeout time.Duration
	CORSOrigins     []string
	ImageRateLimit  int // renders per minute per client
}

// DefaultConfig returns a Config with sensible production defaults.
func DefaultConfig() Config {
	return Config{
		Host:            "0.0.0.0",
		Port:            8080,
		PublicURL:       "http://localhost:8080",
		Version:         "dev",
		ShutdownTimeout: 30 * time.Second,
		CORSOrigins:     []string{"*"},
		ImageRateLimit:  60,
	}
}

// Server is the top-level HTTP server for Lobby. It owns the Chi router, the
// branding resolver, the local store, and the image renderers.
type Server struct {
	cfg        Config
	router     chi.Router
	store      *config.Store
	resolver   *branding.Resolver
	authSvc    *service.AuthService
	minter     *token.Minter
	httpServer *http.Server
	logger     *slog.Logger
}

// New creates a new Server, wires up all routes and middleware, and returns
// it ready to listen. Call ListenAndServe to start accepting connections.
func New(cfg Config, store *config.Store, resolver *branding.Resolver, authSvc *service.AuthService, minter *token.Minter, logger *slog.Logger) (*Server, error) {
	s := &Server{
		cfg:      cfg,
		store:    store,
		resolver: resolver,
		authSvc:  authSvc,
		minter:   minter,
		logger:   logger,
	}
	if err := s.setupRouter(); err != nil {
		return nil, err
	}
	return s, nil
}

func (s *Server) setupRouter() error {
	pages, err := page.NewRenderer()
	if err != nil {
		return fmt.Errorf("parse page templates: %w", err)
	}

	r := chi.NewRouter()

	// --- Global middleware ---
	r.Use(middleware.RequestID)
	r.Use(middleware.Logger(s.logger))
	r.Use(chimw.Recoverer)
	r.Use(chimw.RealIP)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: s.cfg.CORSOrigins,
		AllowedMethods: []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders: []string{"Accept", "Authorization", "Content-Type", sandbox.HeaderSandboxID},
		ExposedHeaders: []string{"X-Request-ID"},
		MaxAge:         300,
	}))
	r.Use(chimw.Compress(5))

	pageHandler := handler.NewPageHandler(s.resolver, pages, s.cfg.PublicURL, s.cfg.SandboxID, s.logger)
	ogHandler := handler.NewOGHandler(s.resolver, og.NewRenderer(s.logger), s.cfg.SandboxID, s.logger)
	qrHandler := handler.NewQRHandler(s.cfg.PublicURL)
	connHandler := handler.NewConnectionHandler(s.minter, s.cfg.ServerURL, s.logger)
	sysHandler := handler.NewSystemHandler(s.store, s.authSvc, s.resolver, s.cfg.SandboxID)

	// --- Health checks ---
	r.Get("/healthz", s.handleHealthz)
	r.Get("/readyz", s.handleReadyz)

	// --- OpenAPI spec ---
	r.Get("/openapi.json", handler.NewOpenAPIHandler(s.cfg.PublicURL, s.cfg.Version).ServeSpec)

	// --- Pages ---
	r.Get("/", pageHandler.Index)
	r.Get("/embed", pageHandler.Embed)
	r.NotFound(pageHandler.NotFound)

	// --- Public API ---
	r.Route("/api", func(r chi.Router) {
		r.Get("/config", sysHandler.ResolvedConfig)
		r.Get("/connection-details", connHandler.Details)

		// Image rendering is CPU-bound, so it gets its own rate limit.
		r.Group(func(r chi.Router) {
			r.Use(middleware.RateLimitBySandbox(sandbox.HeaderSandboxID, s.cfg.ImageRateLimit))
			r.Get("/og", ogHandler.Serve)
			r.Get("/qr", qrHandler.Serve)
		})

		// System endpoints require an admin key.
		r.Route("/v1/system", func(r chi.Router) {
			r.Use(middleware.RequireAdminKey(s.authSvc))

			r.Get("/branding", sysHandler.ListOverrides)
			r.Get("/branding/{deploymentID}", sysHandler.GetOverride)
			r.Put("/branding/{deploymentID}", sysHandler.PutOverride)
			r.Delete("/branding/{deploymentID}", sysHandler.DeleteOverride)

			r.Get("/keys", sysHandler.ListKeys)
			r.Post("/keys", sysHandler.CreateKey)
			r.Delete("/keys/{keyID}", sysHandler.RevokeKey)
		})
	})

	// --- Embedded static assets ---
	staticFS, err := fs.Sub(ui.Static, "static")
	if err != nil {
		return fmt.Errorf("static asset root: %w", err)
	}
	r.Handle("/static/*", http.StripPrefix("/static/",
		http.FileServer(http.FS(staticFS))))

	s.router = r
	return nil
}

// handleHealthz is a liveness probe. Returns 200 if the process is running.
func (s *Server) handleHealthz(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	w.Write([]byte(`{"status":"ok"}`))
}

// handleReadyz is a readiness probe. Returns 200 when the local store
// answers, or 503 otherwise. The sandbox config service is deliberately not
// checked: the resolver serves defaults without it.
func (s *Server) handleReadyz(w http.ResponseWriter, r *http.Request) {
	if _, err := s.store.GetSetting(r.Context(), "instance_id"); err != nil && err != config.ErrNotFound {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusServiceUnavailable)
		w.Write([]byte(`{"status":"degraded","checks":{"store":"error"}}`))
		return
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	w.Write([]byte(`{"status":"ok","checks":{"store":"ok"}}`))
}

// ListenAndServe starts the HTTP server and blocks until a SIGINT or SIGTERM
// is received. It then performs a graceful shutdown, draining in-flight
// requests before returning.
func (s *Server) ListenAndServe() error {
	addr := fmt.Sprintf("%s:%d", s.cfg.Host, s.cfg.Port)

	s.httpServer = &http.Server{
		Addr:         addr,
		Handler:      s.router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 60 * time.Second,
		IdleTimeout:  120 * time.Second,
	}

	// Listen for shutdown signals
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// Start server in background goroutine
	errCh := make(chan error, 1)
	go func() {
		s.logger.Info("server starting", "addr", addr, "public_url", s.cfg.PublicURL)
		if err := s.httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			errCh <- err
		}
	}()

	// Wait for shutdown signal or server error
	select {
	case err := <-errCh:
		return fmt.Errorf("server listen: %w", err)
	case <-ctx.Done():
		s.logger.Info("shutdown signal received, draining connections...")
	}

	// Graceful shutdown with timeout
	shutdownCtx, cancel := context.WithTimeout(context.Background(), s.cfg.ShutdownTimeout)
	defer cancel()

	if err := s.httpServer.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("server shutdown: %w", err)
	}

	s.logger.Info("server stopped")
	return nil
}

// Router returns the underlying Chi router, useful for testing.
func (s *Server) Router() chi.Router {
	return s.router
}

// ServeHTTP implements http.Handler, delegating to the router.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.router.ServeHTTP(w, r)
}
