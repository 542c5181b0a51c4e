package service

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/agentlobby/lobby/internal/config"
)

func newTestAuthService(t *testing.T) (*AuthService, *config.Store) {
	t.Helper()
	store, err := config.NewStore("") // in-memory
	if err != nil {
		t.Fatalf("config.NewStore: %v", err)
	}
	t.Cleanup(func() { store.Close() })
	return NewAuthService(store), store
}

func TestGenerateAndValidateAdminKey(t *testing.T) {
	svc, _ := newTestAuthService(t)
	ctx := context.Background()

	raw, key, err := svc.GenerateAdminKey(ctx, "deploy bot")
	if err != nil {
		t.Fatalf("GenerateAdminKey: %v", err)
	}
	if !strings.HasPrefix(raw, "lbk_") {
		t.Errorf("raw key %q missing lbk_ prefix", raw)
	}
	if key.KeyPrefix != raw[:10] {
		t.Errorf("stored prefix %q does not match raw key", key.KeyPrefix)
	}
	if key.KeyHash == raw {
		t.Error("raw key must not be stored as-is")
	}

	principal, err := svc.ValidateAdminKey(ctx, raw)
	if err != nil {
		t.Fatalf("ValidateAdminKey: %v", err)
	}
	if principal.KeyID != key.ID {
		t.Errorf("got principal key ID %d, want %d", principal.KeyID, key.ID)
	}
	if principal.Label != "deploy bot" {
		t.Errorf("got label %q, want %q", principal.Label, "deploy bot")
	}
}

func TestValidateAdminKeyRejectsBadInput(t *testing.T) {
	svc, _ := newTestAuthService(t)
	ctx := context.Background()

	if _, err := svc.ValidateAdminKey(ctx, ""); !errors.Is(err, ErrInvalidCredentials) {
		t.Errorf("empty key: got %v, want ErrInvalidCredentials", err)
	}
	if _, err := svc.ValidateAdminKey(ctx, "lbk_nonexistent"); !errors.Is(err, ErrInvalidCredentials) {
		t.Errorf("unknown key: got %v, want ErrInvalidCredentials", err)
	}
}

func TestValidateAdminKeyRevoked(t *testing.T) {
	svc, store := newTestAuthService(t)
	ctx := context.Background()

	raw, key, err := svc.GenerateAdminKey(ctx, "temp")
	if err != nil {
		t.Fatalf("GenerateAdminKey: %v", err)
	}
	if err := store.RevokeAdminKey(ctx, key.ID); err != nil {
		t.Fatalf("RevokeAdminKey: %v", err)
	}

	if _, err := svc.ValidateAdminKey(ctx, raw); !errors.Is(err, ErrKeyRevoked) {
		t.Errorf("got %v, want ErrKeyRevoked", err)
	}
}
