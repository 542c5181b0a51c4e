package config

import (
	"os"
	"path/filepath"
	"testing"
)

func TestLoadYAMLConfig(t *testing.T) {
	content := `
server:
  host: 127.0.0.1
  port: 9090
  public_url: https://demo.acme.test
sandbox:
  endpoint: https://config.acme.test
  id: my-sandbox
  timeout: 5s
livekit:
  url: wss://rtc.acme.test
  api_key: key123
  api_secret: ${LOBBY_TEST_SECRET}
branding:
  company_name: Acme
  accent: "#ff5500"
  start_button_text: Talk to us
logging:
  level: debug
  format: json
`
	t.Setenv("LOBBY_TEST_SECRET", "expanded-secret")

	path := filepath.Join(t.TempDir(), "lobby.yaml")
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatalf("write temp config: %v", err)
	}

	cfg, err := LoadYAMLConfig(path)
	if err != nil {
		t.Fatalf("LoadYAMLConfig: %v", err)
	}

	if cfg.Server.Port != 9090 {
		t.Errorf("got port %d, want 9090", cfg.Server.Port)
	}
	if cfg.Server.PublicURL != "https://demo.acme.test" {
		t.Errorf("got public URL %q", cfg.Server.PublicURL)
	}
	if cfg.Sandbox.ID != "my-sandbox" {
		t.Errorf("got sandbox ID %q", cfg.Sandbox.ID)
	}
	if cfg.LiveKit.APISecret != "expanded-secret" {
		t.Errorf("env expansion failed: got %q", cfg.LiveKit.APISecret)
	}
	if cfg.Branding.CompanyName != "Acme" {
		t.Errorf("got company %q, want Acme", cfg.Branding.CompanyName)
	}
	if cfg.Branding.StartButtonText != "Talk to us" {
		t.Errorf("got button text %q", cfg.Branding.StartButtonText)
	}
	if cfg.Logging.Format != "json" {
		t.Errorf("got log format %q", cfg.Logging.Format)
	}
}

func TestLoadYAMLConfigMissingFile(t *testing.T) {
	if _, err := LoadYAMLConfig(filepath.Join(t.TempDir(), "nope.yaml")); err == nil {
		t.Fatal("expected error for missing file")
	}
}

func TestWriteDefaultConfigRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "lobby.yaml")
	if err := WriteDefaultConfig(path); err != nil {
		t.Fatalf("WriteDefaultConfig: %v", err)
	}

	cfg, err := LoadYAMLConfig(path)
	if err != nil {
		t.Fatalf("LoadYAMLConfig: %v", err)
	}
	def := DefaultYAMLConfig()
	if cfg.Server.Port != def.Server.Port {
		t.Errorf("got port %d, want %d", cfg.Server.Port, def.Server.Port)
	}
	if cfg.Sandbox.Endpoint != def.Sandbox.Endpoint {
		t.Errorf("got endpoint %q, want %q", cfg.Sandbox.Endpoint, def.Sandbox.Endpoint)
	}
}
