package handler

import (
	"bytes"
	"log/slog"
	"net/http"

	"github.com/agentlobby/lobby/internal/branding"
	"github.com/agentlobby/lobby/internal/page"
	"github.com/agentlobby/lobby/internal/sandbox"
)

// PageHandler renders the HTML pages. Branding is resolved once per request
// and handed to the template as an immutable value.
type PageHandler struct {
	resolver  *branding.Resolver
	pages     *page.Renderer
	publicURL string
	sandboxID string // configured fallback when the header is absent
	logger    *slog.Logger
}

// NewPageHandler creates a PageHandler.
func NewPageHandler(resolver *branding.Resolver, pages *page.Renderer, publicURL, sandboxID string, logger *slog.Logger) *PageHandler {
	return &PageHandler{
		resolver:  resolver,
		pages:     pages,
		publicURL: publicURL,
		sandboxID: sandboxID,
		logger:    logger,
	}
}

// Index renders the landing page.
// GET /
func (h *PageHandler) Index(w http.ResponseWriter, r *http.Request) {
	h.render(w, r, "index", http.StatusOK)
}

// Embed renders the compact page for iframe embedding.
// GET /embed
func (h *PageHandler) Embed(w http.ResponseWriter, r *http.Request) {
	h.render(w, r, "embed", http.StatusOK)
}

// NotFound renders the branded 404 page.
func (h *PageHandler) NotFound(w http.ResponseWriter, r *http.Request) {
	h.render(w, r, "notfound", http.StatusNotFound)
}

func (h *PageHandler) render(w http.ResponseWriter, r *http.Request, name string, status int) {
	b := h.resolver.Resolve(r.Context(), sandbox.IDFromRequest(r, h.sandboxID))

	d := page.Data{
		Branding: b,
		Theme:    page.ThemeFromRequest(r),
		PageURL:  h.publicURL + r.URL.Path,
		ImageURL: h.publicURL + "/api/og",
	}

	// Render to a buffer so a template failure can still produce a clean
	// error response instead of a half-written page.
	var buf bytes.Buffer
	if err := h.pages.Render(&buf, name, d); err != nil {
		h.logger.Error("page render failed", "page", name, "error", err)
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	w.Write(buf.Bytes())
}
