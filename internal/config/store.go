package config

import (
	"context"
	"crypto/sha256"
	"database/sql"
	"encoding/hex"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/jmoiron/sqlx"
	_ "modernc.org/sqlite"

	"github.com/agentlobby/lobby/internal/model"
)

// Store manages Lobby's local state backed by SQLite. It persists
// per-deployment branding overrides, key-value settings, and admin API keys.
type Store struct {
	db *sqlx.DB
}

// NewStore creates a new store. Pass empty string for in-memory.
func NewStore(dataDir string) (*Store, error) {
	var dsn string
	if dataDir == "" {
		dsn = ":memory:?_journal_mode=WAL"
	} else {
		if err := os.MkdirAll(dataDir, 0755); err != nil {
			return nil, fmt.Errorf("create data dir: %w", err)
		}
		dsn = filepath.Join(dataDir, "lobby.db") + "?_journal_mode=WAL&_busy_timeout=5000"
	}

	db, err := sqlx.Connect("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("open store database: %w", err)
	}

	db.SetMaxOpenConns(1) // SQLite doesn't support concurrent writes

	s := &Store{db: db}
	if err := s.migrate(); err != nil {
		return nil, fmt.Errorf("migrate store database: %w", err)
	}
	return s, nil
}

// Close closes the underlying database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

// ---------------------------------------------------------------------------
// Branding overrides
// ---------------------------------------------------------------------------

// overrideRow is a flat struct that maps 1:1 to the branding_overrides table.
// The nested model.Branding doesn't map directly to columns, so we flatten it
// for sqlx scanning.
type overrideRow struct {
	ID              int64     `db:"id"`
	DeploymentID    string    `db:"deployment_id"`
	CompanyName     string    `db:"company_name"`
	PageTitle       string    `db:"page_title"`
	PageDescription string    `db:"page_description"`
	LogoURL         string    `db:"logo_url"`
	LogoDarkURL     string    `db:"logo_dark_url"`
	FaviconURL      string    `db:"favicon_url"`
	AccentColor     string    `db:"accent_color"`
	AccentDarkColor string    `db:"accent_dark_color"`
	BackgroundURL   string    `db:"background_url"`
	FontURL         string    `db:"font_url"`
	StartButtonText string    `db:"start_button_text"`
	SupportURL      string    `db:"support_url"`
	CreatedAt       time.Time `db:"created_at"`
	UpdatedAt       time.Time `db:"updated_at"`
}

func overrideRowFromModel(o *model.BrandingOverride) overrideRow {
	b := o.Branding
	return overrideRow{
		ID:              o.ID,
		DeploymentID:    o.DeploymentID,
		CompanyName:     b.CompanyName,
		PageTitle:       b.PageTitle,
		PageDescription: b.PageDescription,
		LogoURL:         b.LogoURL,
		LogoDarkURL:     b.LogoDarkURL,
		FaviconURL:      b.FaviconURL,
		AccentColor:     b.AccentColor,
		AccentDarkColor: b.AccentDarkColor,
		BackgroundURL:   b.BackgroundURL,
		FontURL:         b.FontURL,
		StartButtonText: b.StartButtonText,
		SupportURL:      b.SupportURL,
		CreatedAt:       o.CreatedAt,
		UpdatedAt:       o.UpdatedAt,
	}
}

func (r overrideRow) toModel() model.BrandingOverride {
	return model.BrandingOverride{
		ID:           r.ID,
		DeploymentID: r.DeploymentID,
		Branding: model.Branding{
			CompanyName:     r.CompanyName,
			PageTitle:       r.PageTitle,
			PageDescription: r.PageDescription,
			LogoURL:         r.LogoURL,
			LogoDarkURL:     r.LogoDarkURL,
			FaviconURL:      r.FaviconURL,
			AccentColor:     r.AccentColor,
			AccentDarkColor: r.AccentDarkColor,
			BackgroundURL:   r.BackgroundURL,
			FontURL:         r.FontURL,
			StartButtonText: r.StartButtonText,
			SupportURL:      r.SupportURL,
		},
		CreatedAt: r.CreatedAt,
		UpdatedAt: r.UpdatedAt,
	}
}

// UpsertOverride inserts or replaces the branding override for a deployment.
// The ID, CreatedAt, and UpdatedAt fields on the returned record are populated.
func (s *Store) UpsertOverride(ctx context.Context, deploymentID string, b model.Branding) (*model.BrandingOverride, error) {
	now := time.Now().UTC()
	o := model.BrandingOverride{
		DeploymentID: deploymentID,
		Branding:     b,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	row := overrideRowFromModel(&o)

	const q = `INSERT INTO branding_overrides
		(deployment_id, company_name, page_title, page_description, logo_url, logo_dark_url,
		 favicon_url, accent_color, accent_dark_color, background_url, font_url,
		 start_button_text, support_url, created_at, updated_at)
		VALUES
		(:deployment_id, :company_name, :page_title, :page_description, :logo_url, :logo_dark_url,
		 :favicon_url, :accent_color, :accent_dark_color, :background_url, :font_url,
		 :start_button_text, :support_url, :created_at, :updated_at)
		ON CONFLICT(deployment_id) DO UPDATE SET
		 company_name = excluded.company_name, page_title = excluded.page_title,
		 page_description = excluded.page_description, logo_url = excluded.logo_url,
		 logo_dark_url = excluded.logo_dark_url, favicon_url = excluded.favicon_url,
		 accent_color = excluded.accent_color, accent_dark_color = excluded.accent_dark_color,
		 background_url = excluded.background_url, font_url = excluded.font_url,
		 start_button_text = excluded.start_button_text, support_url = excluded.support_url,
		 updated_at = excluded.updated_at`

	if _, err := s.db.NamedExecContext(ctx, q, row); err != nil {
		return nil, fmt.Errorf("upsert branding override: %w", err)
	}

	// Re-read so the caller sees the stored ID and original created_at.
	return s.GetOverride(ctx, deploymentID)
}

// GetOverride returns the branding override for a deployment.
func (s *Store) GetOverride(ctx context.Context, deploymentID string) (*model.BrandingOverride, error) {
	var row overrideRow
	err := s.db.GetContext(ctx, &row,
		"SELECT * FROM branding_overrides WHERE deployment_id = ?", deploymentID)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("get branding override: %w", err)
	}
	o := row.toModel()
	return &o, nil
}

// ListOverrides returns all stored branding overrides.
func (s *Store) ListOverrides(ctx context.Context) ([]model.BrandingOverride, error) {
	var rows []overrideRow
	if err := s.db.SelectContext(ctx, &rows,
		"SELECT * FROM branding_overrides ORDER BY deployment_id"); err != nil {
		return nil, fmt.Errorf("list branding overrides: %w", err)
	}

	overrides := make([]model.BrandingOverride, len(rows))
	for i, r := range rows {
		overrides[i] = r.toModel()
	}
	return overrides, nil
}

// DeleteOverride removes the branding override for a deployment.
func (s *Store) DeleteOverride(ctx context.Context, deploymentID string) error {
	result, err := s.db.ExecContext(ctx,
		"DELETE FROM branding_overrides WHERE deployment_id = ?", deploymentID)
	if err != nil {
		return fmt.Errorf("delete branding override: %w", err)
	}
	n, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("delete branding override rows affected: %w", err)
	}
	if n == 0 {
		return ErrNotFound
	}
	return nil
}

// ---------------------------------------------------------------------------
// Settings
// ---------------------------------------------------------------------------

// GetSetting returns the value for a settings key. ErrNotFound when unset.
func (s *Store) GetSetting(ctx context.Context, key string) (string, error) {
	var value string
	err := s.db.GetContext(ctx, &value, "SELECT value FROM settings WHERE key = ?", key)
	if err != nil {
		if err == sql.ErrNoRows {
			return "", ErrNotFound
		}
		return "", fmt.Errorf("get setting: %w", err)
	}
	return value, nil
}

// SetSetting writes a settings key, replacing any existing value.
func (s *Store) SetSetting(ctx context.Context, key, value string) error {
	const q = `INSERT INTO settings (key, value) VALUES (?, ?)
		ON CONFLICT(key) DO UPDATE SET value = excluded.value`
	if _, err := s.db.ExecContext(ctx, q, key, value); err != nil {
		return fmt.Errorf("set setting: %w", err)
	}
	return nil
}

// ---------------------------------------------------------------------------
// Admin API keys
// ---------------------------------------------------------------------------

// AdminKey is a stored admin credential. Only the SHA-256 hash of the raw
// key is persisted.
type AdminKey struct {
	ID        int64      `db:"id" json:"id"`
	KeyHash   string     `db:"key_hash" json:"-"`
	KeyPrefix string     `db:"key_prefix" json:"keyPrefix"`
	Label     string     `db:"label" json:"label"`
	IsActive  bool       `db:"is_active" json:"isActive"`
	CreatedAt time.Time  `db:"created_at" json:"createdAt"`
	LastUsed  *time.Time `db:"last_used" json:"lastUsed,omitempty"`
}

// CreateAdminKey inserts a new admin key record. The ID and CreatedAt fields
// on key are populated after a successful insert.
func (s *Store) CreateAdminKey(ctx context.Context, key *AdminKey) error {
	key.CreatedAt = time.Now().UTC()
	key.IsActive = true

	const q = `INSERT INTO admin_keys (key_hash, key_prefix, label, is_active, created_at)
		VALUES (:key_hash, :key_prefix, :label, :is_active, :created_at)`

	result, err := s.db.NamedExecContext(ctx, q, key)
	if err != nil {
		return fmt.Errorf("insert admin key: %w", err)
	}
	id, err := result.LastInsertId()
	if err != nil {
		return fmt.Errorf("get admin key id: %w", err)
	}
	key.ID = id
	return nil
}

// GetAdminKeyByHash returns the admin key record matching a key hash.
func (s *Store) GetAdminKeyByHash(ctx context.Context, hash string) (*AdminKey, error) {
	var key AdminKey
	err := s.db.GetContext(ctx, &key, "SELECT * FROM admin_keys WHERE key_hash = ?", hash)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("get admin key: %w", err)
	}
	return &key, nil
}

// ListAdminKeys returns all admin keys, newest first.
func (s *Store) ListAdminKeys(ctx context.Context) ([]AdminKey, error) {
	var keys []AdminKey
	if err := s.db.SelectContext(ctx, &keys,
		"SELECT * FROM admin_keys ORDER BY created_at DESC"); err != nil {
		return nil, fmt.Errorf("list admin keys: %w", err)
	}
	return keys, nil
}

// RevokeAdminKey deactivates an admin key by ID.
func (s *Store) RevokeAdminKey(ctx context.Context, id int64) error {
	result, err := s.db.ExecContext(ctx,
		"UPDATE admin_keys SET is_active = 0 WHERE id = ?", id)
	if err != nil {
		return fmt.Errorf("revoke admin key: %w", err)
	}
	n, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("revoke admin key rows affected: %w", err)
	}
	if n == 0 {
		return ErrNotFound
	}
	return nil
}

// UpdateAdminKeyLastUsed stamps the last-used time on an admin key.
func (s *Store) UpdateAdminKeyLastUsed(ctx context.Context, id int64) error {
	_, err := s.db.ExecContext(ctx,
		"UPDATE admin_keys SET last_used = ? WHERE id = ?", time.Now().UTC(), id)
	if err != nil {
		return fmt.Errorf("update admin key last used: %w", err)
	}
	return nil
}

// ---------------------------------------------------------------------------
// Utility
// ---------------------------------------------------------------------------

// HashAdminKey returns the hex-encoded SHA-256 hash of a raw admin key string.
func HashAdminKey(key string) string {
	h := sha256.Sum256([]byte(key))
	return hex.EncodeToString(h[:])
}
