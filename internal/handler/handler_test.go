package handler

import (
	"bytes"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strconv"
	"strings"
	"testing"

	"github.com/go-chi/chi/v5"

	"github.com/agentlobby/lobby/internal/branding"
	"github.com/agentlobby/lobby/internal/config"
	"github.com/agentlobby/lobby/internal/model"
	"github.com/agentlobby/lobby/internal/og"
	"github.com/agentlobby/lobby/internal/page"
	"github.com/agentlobby/lobby/internal/service"
	"github.com/agentlobby/lobby/internal/token"
)

const testPublicURL = "https://demo.acme.test"

// testEnv holds shared state for handler tests: an in-memory store, a
// resolver without a remote layer, and a Chi router with routes mounted
// (no auth middleware).
type testEnv struct {
	store  *config.Store
	router chi.Router
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()

	store, err := config.NewStore("") // in-memory SQLite
	if err != nil {
		t.Fatalf("config.NewStore: %v", err)
	}
	t.Cleanup(func() { store.Close() })

	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	resolver := branding.NewResolver(nil, store, model.Branding{}, logger)
	authSvc := service.NewAuthService(store)

	pages, err := page.NewRenderer()
	if err != nil {
		t.Fatalf("page.NewRenderer: %v", err)
	}

	pageHandler := NewPageHandler(resolver, pages, testPublicURL, "test-sandbox", logger)
	ogHandler := NewOGHandler(resolver, og.NewRenderer(logger), "test-sandbox", logger)
	qrHandler := NewQRHandler(testPublicURL)
	connHandler := NewConnectionHandler(token.NewMinter("testkey", "testsecret", 0), "wss://rtc.acme.test", logger)
	sysHandler := NewSystemHandler(store, authSvc, resolver, "test-sandbox")

	r := chi.NewRouter()
	r.Get("/", pageHandler.Index)
	r.Get("/embed", pageHandler.Embed)
	r.NotFound(pageHandler.NotFound)
	r.Get("/api/config", sysHandler.ResolvedConfig)
	r.Get("/api/og", ogHandler.Serve)
	r.Get("/api/qr", qrHandler.Serve)
	r.Get("/api/connection-details", connHandler.Details)
	r.Route("/api/v1/system", func(r chi.Router) {
		r.Get("/branding", sysHandler.ListOverrides)
		r.Get("/branding/{deploymentID}", sysHandler.GetOverride)
		r.Put("/branding/{deploymentID}", sysHandler.PutOverride)
		r.Delete("/branding/{deploymentID}", sysHandler.DeleteOverride)
		r.Get("/keys", sysHandler.ListKeys)
		r.Post("/keys", sysHandler.CreateKey)
		r.Delete("/keys/{keyID}", sysHandler.RevokeKey)
	})

	return &testEnv{store: store, router: r}
}

func (e *testEnv) do(t *testing.T, method, path string, body any) *httptest.ResponseRecorder {
	t.Helper()
	var reader io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			t.Fatalf("marshal body: %v", err)
		}
		reader = bytes.NewReader(data)
	}
	req := httptest.NewRequest(method, path, reader)
	rec := httptest.NewRecorder()
	e.router.ServeHTTP(rec, req)
	return rec
}

func TestIndexPage(t *testing.T) {
	env := newTestEnv(t)

	rec := env.do(t, http.MethodGet, "/", nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("got %d, want 200", rec.Code)
	}
	if ct := rec.Header().Get("Content-Type"); !strings.HasPrefix(ct, "text/html") {
		t.Errorf("got content type %q", ct)
	}

	html := rec.Body.String()
	if !strings.Contains(html, branding.Defaults().CompanyName) {
		t.Error("index missing default company name")
	}
	if !strings.Contains(html, testPublicURL+"/api/og") {
		t.Error("index missing Open Graph image URL")
	}
}

func TestIndexPageUsesOverride(t *testing.T) {
	env := newTestEnv(t)

	_, err := env.store.UpsertOverride(t.Context(), "test-sandbox", model.Branding{
		CompanyName: "Override Co",
		PageTitle:   "Custom Title",
	})
	if err != nil {
		t.Fatalf("UpsertOverride: %v", err)
	}

	rec := env.do(t, http.MethodGet, "/", nil)
	html := rec.Body.String()
	if !strings.Contains(html, "Override Co") {
		t.Error("index ignores the stored override")
	}
	if !strings.Contains(html, "<title>Custom Title | Override Co</title>") {
		t.Errorf("title not assembled from override: %s", html[:200])
	}
}

func TestNotFoundPage(t *testing.T) {
	env := newTestEnv(t)

	rec := env.do(t, http.MethodGet, "/no-such-page", nil)
	if rec.Code != http.StatusNotFound {
		t.Fatalf("got %d, want 404", rec.Code)
	}
	if !strings.Contains(rec.Body.String(), branding.Defaults().CompanyName) {
		t.Error("404 page lost its branding")
	}
}

func TestResolvedConfig(t *testing.T) {
	env := newTestEnv(t)

	rec := env.do(t, http.MethodGet, "/api/config", nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("got %d, want 200", rec.Code)
	}
	if cc := rec.Header().Get("Cache-Control"); cc != "no-store" {
		t.Errorf("got Cache-Control %q, want no-store", cc)
	}

	var b model.Branding
	if err := json.Unmarshal(rec.Body.Bytes(), &b); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if b.CompanyName != branding.Defaults().CompanyName {
		t.Errorf("got company %q, want default", b.CompanyName)
	}
}

func TestOGImage(t *testing.T) {
	env := newTestEnv(t)

	rec := env.do(t, http.MethodGet, "/api/og", nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("got %d, want 200", rec.Code)
	}
	if ct := rec.Header().Get("Content-Type"); ct != "image/png" {
		t.Errorf("got content type %q, want image/png", ct)
	}
	if !bytes.HasPrefix(rec.Body.Bytes(), []byte("\x89PNG")) {
		t.Error("response is not a PNG")
	}
	if cc := rec.Header().Get("Cache-Control"); !strings.Contains(cc, "max-age") {
		t.Errorf("got Cache-Control %q, want a max-age", cc)
	}
}

func TestQRCode(t *testing.T) {
	env := newTestEnv(t)

	rec := env.do(t, http.MethodGet, "/api/qr?size=192", nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("got %d, want 200", rec.Code)
	}
	if ct := rec.Header().Get("Content-Type"); ct != "image/png" {
		t.Errorf("got content type %q, want image/png", ct)
	}
}

func TestQRCodeRejectsOffsiteTarget(t *testing.T) {
	env := newTestEnv(t)

	for _, path := range []string{"//evil.test/", "http://evil.test"} {
		rec := env.do(t, http.MethodGet, "/api/qr?path="+path, nil)
		if rec.Code != http.StatusBadRequest {
			t.Errorf("path %q: got %d, want 400", path, rec.Code)
		}
	}
}

func TestConnectionDetails(t *testing.T) {
	env := newTestEnv(t)

	rec := env.do(t, http.MethodGet, "/api/connection-details?name=Alice", nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("got %d, want 200", rec.Code)
	}
	if cc := rec.Header().Get("Cache-Control"); cc != "no-store" {
		t.Errorf("got Cache-Control %q, want no-store", cc)
	}

	var details model.ConnectionDetails
	if err := json.Unmarshal(rec.Body.Bytes(), &details); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if details.ServerURL != "wss://rtc.acme.test" {
		t.Errorf("got server URL %q", details.ServerURL)
	}
	if details.ParticipantName != "Alice" {
		t.Errorf("got name %q, want Alice", details.ParticipantName)
	}
	if details.ParticipantToken == "" || details.RoomName == "" || details.ParticipantIdentity == "" {
		t.Errorf("incomplete details: %+v", details)
	}

	// Each call gets its own room.
	rec2 := env.do(t, http.MethodGet, "/api/connection-details", nil)
	var details2 model.ConnectionDetails
	json.Unmarshal(rec2.Body.Bytes(), &details2)
	if details2.RoomName == details.RoomName {
		t.Error("two sessions share a room name")
	}
}

func TestConnectionDetailsUnconfigured(t *testing.T) {
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	h := NewConnectionHandler(token.NewMinter("", "", 0), "", logger)

	rec := httptest.NewRecorder()
	h.Details(rec, httptest.NewRequest(http.MethodGet, "/api/connection-details", nil))
	if rec.Code != http.StatusServiceUnavailable {
		t.Errorf("got %d, want 503", rec.Code)
	}

	var resp model.ErrorResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode error envelope: %v", err)
	}
	if resp.Error.Code != http.StatusServiceUnavailable {
		t.Errorf("got envelope code %d, want 503", resp.Error.Code)
	}
}

func TestOverrideEndpoints(t *testing.T) {
	env := newTestEnv(t)

	// Empty body rejected
	rec := env.do(t, http.MethodPut, "/api/v1/system/branding/sandbox-1", model.Branding{})
	if rec.Code != http.StatusBadRequest {
		t.Errorf("zero override: got %d, want 400", rec.Code)
	}

	// Put
	rec = env.do(t, http.MethodPut, "/api/v1/system/branding/sandbox-1", model.Branding{CompanyName: "Acme"})
	if rec.Code != http.StatusOK {
		t.Fatalf("put: got %d, want 200: %s", rec.Code, rec.Body.String())
	}

	// Get
	rec = env.do(t, http.MethodGet, "/api/v1/system/branding/sandbox-1", nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("get: got %d, want 200", rec.Code)
	}
	var o model.BrandingOverride
	if err := json.Unmarshal(rec.Body.Bytes(), &o); err != nil {
		t.Fatalf("decode override: %v", err)
	}
	if o.Branding.CompanyName != "Acme" {
		t.Errorf("got company %q, want Acme", o.Branding.CompanyName)
	}

	// List
	rec = env.do(t, http.MethodGet, "/api/v1/system/branding", nil)
	var list []model.BrandingOverride
	if err := json.Unmarshal(rec.Body.Bytes(), &list); err != nil {
		t.Fatalf("decode list: %v", err)
	}
	if len(list) != 1 {
		t.Errorf("got %d overrides, want 1", len(list))
	}

	// Delete
	rec = env.do(t, http.MethodDelete, "/api/v1/system/branding/sandbox-1", nil)
	if rec.Code != http.StatusNoContent {
		t.Errorf("delete: got %d, want 204", rec.Code)
	}
	rec = env.do(t, http.MethodGet, "/api/v1/system/branding/sandbox-1", nil)
	if rec.Code != http.StatusNotFound {
		t.Errorf("get after delete: got %d, want 404", rec.Code)
	}
}

func TestKeyEndpoints(t *testing.T) {
	env := newTestEnv(t)

	rec := env.do(t, http.MethodPost, "/api/v1/system/keys", createKeyRequest{Label: "ci"})
	if rec.Code != http.StatusCreated {
		t.Fatalf("create: got %d, want 201: %s", rec.Code, rec.Body.String())
	}
	var created createKeyResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &created); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if !strings.HasPrefix(created.Key, "lbk_") {
		t.Errorf("raw key %q missing prefix", created.Key)
	}

	// List must not leak the raw key or its hash.
	rec = env.do(t, http.MethodGet, "/api/v1/system/keys", nil)
	if strings.Contains(rec.Body.String(), created.Key) {
		t.Error("key list leaks the raw key")
	}
	var keys []config.AdminKey
	if err := json.Unmarshal(rec.Body.Bytes(), &keys); err != nil {
		t.Fatalf("decode keys: %v", err)
	}
	if len(keys) != 1 || keys[0].KeyPrefix != created.KeyPrefix {
		t.Errorf("unexpected key list: %+v", keys)
	}

	// Revoke
	rec = env.do(t, http.MethodDelete, "/api/v1/system/keys/"+strconv.FormatInt(created.ID, 10), nil)
	if rec.Code != http.StatusNoContent {
		t.Errorf("revoke: got %d, want 204", rec.Code)
	}
}
