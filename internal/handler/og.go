package handler

import (
	"bytes"
	"log/slog"
	"net/http"

	"github.com/agentlobby/lobby/internal/branding"
	"github.com/agentlobby/lobby/internal/og"
	"github.com/agentlobby/lobby/internal/sandbox"
)

// OGHandler serves the dynamically rendered Open Graph preview image.
type OGHandler struct {
	resolver  *branding.Resolver
	renderer  *og.Renderer
	sandboxID string
	logger    *slog.Logger
}

// NewOGHandler creates an OGHandler.
func NewOGHandler(resolver *branding.Resolver, renderer *og.Renderer, sandboxID string, logger *slog.Logger) *OGHandler {
	return &OGHandler{
		resolver:  resolver,
		renderer:  renderer,
		sandboxID: sandboxID,
		logger:    logger,
	}
}

// Serve renders the preview image for the request's deployment.
// GET /api/og
func (h *OGHandler) Serve(w http.ResponseWriter, r *http.Request) {
	b := h.resolver.Resolve(r.Context(), sandbox.IDFromRequest(r, h.sandboxID))

	// Crawlers don't send the theme cookie, so the preview always uses the
	// light logo variant.
	spec := og.Branding{
		CompanyName:     b.CompanyName,
		PageTitle:       b.PageTitle,
		PageDescription: b.PageDescription,
		LogoURL:         b.LogoURL,
		AccentColor:     b.AccentColor,
		BackgroundURL:   b.BackgroundURL,
		FontURL:         b.FontURL,
	}

	var buf bytes.Buffer
	if err := h.renderer.RenderPNG(r.Context(), spec, &buf); err != nil {
		h.logger.Error("og render failed", "error", err)
		writeError(w, http.StatusInternalServerError, "Image rendering failed")
		return
	}

	w.Header().Set("Content-Type", "image/png")
	w.Header().Set("Cache-Control", "public, max-age=300")
	w.Write(buf.Bytes())
}
