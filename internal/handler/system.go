package handler

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/agentlobby/lobby/internal/branding"
	"github.com/agentlobby/lobby/internal/config"
	"github.com/agentlobby/lobby/internal/model"
	"github.com/agentlobby/lobby/internal/sandbox"
	"github.com/agentlobby/lobby/internal/service"
)

// SystemHandler manages Lobby's own state: branding overrides and admin keys.
type SystemHandler struct {
	store     *config.Store
	authSvc   *service.AuthService
	resolver  *branding.Resolver
	sandboxID string
}

// NewSystemHandler creates a SystemHandler.
func NewSystemHandler(store *config.Store, authSvc *service.AuthService, resolver *branding.Resolver, sandboxID string) *SystemHandler {
	return &SystemHandler{
		store:     store,
		authSvc:   authSvc,
		resolver:  resolver,
		sandboxID: sandboxID,
	}
}

// ---------------------------------------------------------------------------
// Public configuration
// ---------------------------------------------------------------------------

// ResolvedConfig returns the branding the current request resolves to, for
// client-side scripts that need the same values as the rendered markup.
// GET /api/config
func (h *SystemHandler) ResolvedConfig(w http.ResponseWriter, r *http.Request) {
	b := h.resolver.Resolve(r.Context(), sandbox.IDFromRequest(r, h.sandboxID))
	w.Header().Set("Cache-Control", "no-store")
	writeJSON(w, http.StatusOK, b)
}

// ---------------------------------------------------------------------------
// Branding overrides (admin)
// ---------------------------------------------------------------------------

// ListOverrides returns all stored branding overrides.
// GET /api/v1/system/branding
func (h *SystemHandler) ListOverrides(w http.ResponseWriter, r *http.Request) {
	overrides, err := h.store.ListOverrides(r.Context())
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to list overrides")
		return
	}
	writeJSON(w, http.StatusOK, overrides)
}

// GetOverride returns the branding override for one deployment.
// GET /api/v1/system/branding/{deploymentID}
func (h *SystemHandler) GetOverride(w http.ResponseWriter, r *http.Request) {
	deploymentID := chi.URLParam(r, "deploymentID")

	o, err := h.store.GetOverride(r.Context(), deploymentID)
	if err != nil {
		if errors.Is(err, config.ErrNotFound) {
			writeError(w, http.StatusNotFound, "No override for deployment",
				map[string]interface{}{"deployment_id": deploymentID})
			return
		}
		writeError(w, http.StatusInternalServerError, "Failed to load override")
		return
	}
	writeJSON(w, http.StatusOK, o)
}

// PutOverride creates or replaces the branding override for a deployment.
// PUT /api/v1/system/branding/{deploymentID}
func (h *SystemHandler) PutOverride(w http.ResponseWriter, r *http.Request) {
	deploymentID := chi.URLParam(r, "deploymentID")

	var b model.Branding
	if err := readJSON(r, &b); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body: "+err.Error())
		return
	}
	if b.IsZero() {
		writeError(w, http.StatusBadRequest, "Override must set at least one branding field")
		return
	}

	o, err := h.store.UpsertOverride(r.Context(), deploymentID, b)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to store override")
		return
	}
	writeJSON(w, http.StatusOK, o)
}

// DeleteOverride removes the branding override for a deployment.
// DELETE /api/v1/system/branding/{deploymentID}
func (h *SystemHandler) DeleteOverride(w http.ResponseWriter, r *http.Request) {
	deploymentID := chi.URLParam(r, "deploymentID")

	if err := h.store.DeleteOverride(r.Context(), deploymentID); err != nil {
		if errors.Is(err, config.ErrNotFound) {
			writeError(w, http.StatusNotFound, "No override for deployment")
			return
		}
		writeError(w, http.StatusInternalServerError, "Failed to delete override")
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// ---------------------------------------------------------------------------
// Admin key management
// ---------------------------------------------------------------------------

// createKeyRequest is the expected payload for CreateKey.
type createKeyRequest struct {
	Label string `json:"label"`
}

// createKeyResponse echoes the raw key exactly once.
type createKeyResponse struct {
	Key       string `json:"key"`
	KeyPrefix string `json:"keyPrefix"`
	Label     string `json:"label"`
	ID        int64  `json:"id"`
}

// ListKeys returns all admin keys (hashes omitted).
// GET /api/v1/system/keys
func (h *SystemHandler) ListKeys(w http.ResponseWriter, r *http.Request) {
	keys, err := h.store.ListAdminKeys(r.Context())
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to list keys")
		return
	}
	writeJSON(w, http.StatusOK, keys)
}

// CreateKey generates a new admin key. The raw key appears only in this
// response.
// POST /api/v1/system/keys
func (h *SystemHandler) CreateKey(w http.ResponseWriter, r *http.Request) {
	var req createKeyRequest
	if err := readJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body: "+err.Error())
		return
	}

	raw, key, err := h.authSvc.GenerateAdminKey(r.Context(), req.Label)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to create key")
		return
	}
	writeJSON(w, http.StatusCreated, createKeyResponse{
		Key:       raw,
		KeyPrefix: key.KeyPrefix,
		Label:     key.Label,
		ID:        key.ID,
	})
}

// RevokeKey deactivates an admin key.
// DELETE /api/v1/system/keys/{keyID}
func (h *SystemHandler) RevokeKey(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(chi.URLParam(r, "keyID"), 10, 64)
	if err != nil {
		writeError(w, http.StatusBadRequest, "Invalid key ID")
		return
	}

	if err := h.store.RevokeAdminKey(r.Context(), id); err != nil {
		if errors.Is(err, config.ErrNotFound) {
			writeError(w, http.StatusNotFound, "Key not found")
			return
		}
		writeError(w, http.StatusInternalServerError, "Failed to revoke key")
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
