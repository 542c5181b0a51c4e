// Package sandbox fetches per-deployment branding configuration from the
// hosted sandbox config service. Every fetch is single-shot and request
// scoped; callers are expected to fall back to local values on any error.
package sandbox

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"regexp"
	"time"

	"github.com/agentlobby/lobby/internal/model"
)

const (
	// HeaderSandboxID is the request header carrying the deployment ID.
	HeaderSandboxID = "X-Sandbox-ID"

	defaultTimeout = 2 * time.Second
	maxBodySize    = 1 << 20 // 1MB, config payloads are tiny
)

var (
	ErrNoSandboxID = errors.New("no sandbox id")
	ErrNotFound    = errors.New("sandbox config not found")
)

// sandbox IDs are slug-like tokens; anything else is rejected before it can
// reach the URL path.
var validID = regexp.MustCompile(`^[a-zA-Z0-9_-]{1,64}$`)

// Client talks to the sandbox config service.
type Client struct {
	endpoint   string
	httpClient *http.Client
}

// NewClient creates a sandbox config client. timeout <= 0 uses the default.
func NewClient(endpoint string, timeout time.Duration) *Client {
	if timeout <= 0 {
		timeout = defaultTimeout
	}
	return &Client{
		endpoint:   endpoint,
		httpClient: &http.Client{Timeout: timeout},
	}
}

// FetchBranding retrieves the branding configuration for a sandbox ID.
// Unknown fields in the response are ignored; a malformed payload is an
// error so the caller falls through to the next resolution layer.
func (c *Client) FetchBranding(ctx context.Context, sandboxID string) (model.Branding, error) {
	if sandboxID == "" {
		return model.Branding{}, ErrNoSandboxID
	}
	if !validID.MatchString(sandboxID) {
		return model.Branding{}, fmt.Errorf("invalid sandbox id %q", sandboxID)
	}

	url := fmt.Sprintf("%s/api/sandbox/%s/config", c.endpoint, sandboxID)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return model.Branding{}, fmt.Errorf("build sandbox request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set(HeaderSandboxID, sandboxID)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return model.Branding{}, fmt.Errorf("fetch sandbox config: %w", err)
	}
	defer resp.Body.Close()

	switch {
	case resp.StatusCode == http.StatusNotFound:
		return model.Branding{}, ErrNotFound
	case resp.StatusCode != http.StatusOK:
		return model.Branding{}, fmt.Errorf("sandbox config: unexpected status %d", resp.StatusCode)
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxBodySize))
	if err != nil {
		return model.Branding{}, fmt.Errorf("read sandbox config: %w", err)
	}

	var b model.Branding
	if err := json.Unmarshal(body, &b); err != nil {
		return model.Branding{}, fmt.Errorf("parse sandbox config: %w", err)
	}
	return b, nil
}

// IDFromRequest extracts the sandbox ID for a request: the X-Sandbox-ID
// header wins, then the configured fallback ID.
func IDFromRequest(r *http.Request, fallback string) string {
	if id := r.Header.Get(HeaderSandboxID); id != "" {
		return id
	}
	return fallback
}
