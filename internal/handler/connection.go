package handler

import (
	"log/slog"
	"net/http"

	"github.com/agentlobby/lobby/internal/model"
	"github.com/agentlobby/lobby/internal/token"
)

// ConnectionHandler hands out room connection details for the voice agent.
type ConnectionHandler struct {
	minter    *token.Minter
	serverURL string
	logger    *slog.Logger
}

// NewConnectionHandler creates a ConnectionHandler.
func NewConnectionHandler(minter *token.Minter, serverURL string, logger *slog.Logger) *ConnectionHandler {
	return &ConnectionHandler{
		minter:    minter,
		serverURL: serverURL,
		logger:    logger,
	}
}

// Details mints a fresh room and participant token for one demo session.
// GET /api/connection-details
func (h *ConnectionHandler) Details(w http.ResponseWriter, r *http.Request) {
	if !h.minter.Configured() || h.serverURL == "" {
		writeError(w, http.StatusServiceUnavailable,
			"Realtime server is not configured")
		return
	}

	room := token.RandomRoom()
	identity := token.RandomIdentity()
	name := r.URL.Query().Get("name")
	if name == "" {
		name = "Visitor"
	}

	participantToken, err := h.minter.Mint(room, identity, name)
	if err != nil {
		h.logger.Error("token mint failed", "error", err)
		writeError(w, http.StatusInternalServerError, "Token generation failed")
		return
	}

	// Tokens are single-use by convention; never let intermediaries cache one.
	w.Header().Set("Cache-Control", "no-store")
	writeJSON(w, http.StatusOK, model.ConnectionDetails{
		ServerURL:           h.serverURL,
		RoomName:            room,
		ParticipantIdentity: identity,
		ParticipantName:     name,
		ParticipantToken:    participantToken,
	})
}
