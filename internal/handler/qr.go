package handler

import (
	"net/http"
	"strings"

	"github.com/agentlobby/lobby/internal/qr"
)

// QRHandler serves the "join on phone" QR code.
type QRHandler struct {
	publicURL string
}

// NewQRHandler creates a QRHandler.
func NewQRHandler(publicURL string) *QRHandler {
	return &QRHandler{publicURL: publicURL}
}

// Serve renders a QR code pointing at the public page URL. An optional
// `path` query selects a sub-page; anything not rooted at / is rejected.
// GET /api/qr
func (h *QRHandler) Serve(w http.ResponseWriter, r *http.Request) {
	path := r.URL.Query().Get("path")
	if path != "" && (!strings.HasPrefix(path, "/") || strings.HasPrefix(path, "//")) {
		writeError(w, http.StatusBadRequest, "path must be site-relative")
		return
	}

	png, err := qr.PNG(h.publicURL+path, queryInt(r, "size", 0))
	if err != nil {
		writeError(w, http.StatusInternalServerError, "QR rendering failed")
		return
	}

	w.Header().Set("Content-Type", "image/png")
	w.Header().Set("Cache-Control", "public, max-age=86400")
	w.Write(png)
}
