package service

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"errors"
	"fmt"

	"github.com/agentlobby/lobby/internal/config"
)

var (
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrKeyRevoked         = errors.New("admin key revoked")
)

// AdminPrincipal identifies the admin key a request authenticated with.
type AdminPrincipal struct {
	KeyID int64
	Label string
}

// AuthService validates admin API keys against the store. Admin auth guards
// only the branding override endpoints; everything visitor-facing is public.
type AuthService struct {
	store *config.Store
}

func NewAuthService(store *config.Store) *AuthService {
	return &AuthService{store: store}
}

// ValidateAdminKey checks the provided raw key against stored key hashes.
func (s *AuthService) ValidateAdminKey(ctx context.Context, rawKey string) (*AdminPrincipal, error) {
	if rawKey == "" {
		return nil, ErrInvalidCredentials
	}

	key, err := s.store.GetAdminKeyByHash(ctx, config.HashAdminKey(rawKey))
	if err != nil {
		return nil, ErrInvalidCredentials
	}
	if !key.IsActive {
		return nil, ErrKeyRevoked
	}

	// Update last used timestamp (fire and forget)
	go s.store.UpdateAdminKeyLastUsed(context.Background(), key.ID)

	return &AdminPrincipal{KeyID: key.ID, Label: key.Label}, nil
}

// GenerateAdminKey creates a new admin key, stores its hash, and returns the
// raw key. The raw key is shown once and never persisted.
func (s *AuthService) GenerateAdminKey(ctx context.Context, label string) (string, *config.AdminKey, error) {
	var buf [24]byte
	if _, err := rand.Read(buf[:]); err != nil {
		return "", nil, fmt.Errorf("generate admin key: %w", err)
	}
	raw := "lbk_" + hex.EncodeToString(buf[:])

	key := &config.AdminKey{
		KeyHash:   config.HashAdminKey(raw),
		KeyPrefix: raw[:10],
		Label:     label,
	}
	if err := s.store.CreateAdminKey(ctx, key); err != nil {
		return "", nil, err
	}
	return raw, key, nil
}
