package handler

import (
	"net/http"

	"github.com/agentlobby/lobby/internal/openapi"
)

// OpenAPIHandler serves the OpenAPI description of the public API.
type OpenAPIHandler struct {
	baseURL string
	version string
}

// NewOpenAPIHandler creates an OpenAPIHandler.
func NewOpenAPIHandler(baseURL, version string) *OpenAPIHandler {
	return &OpenAPIHandler{baseURL: baseURL, version: version}
}

// ServeSpec returns the OpenAPI document.
// GET /openapi.json
func (h *OpenAPIHandler) ServeSpec(w http.ResponseWriter, r *http.Request) {
	doc := openapi.GenerateSpec(h.baseURL, h.version)
	writeJSON(w, http.StatusOK, doc)
}
