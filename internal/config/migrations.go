package config

import (
	"fmt"
	"strings"
)

func (s *Store) migrate() error {
	migrations := []string{
		`CREATE TABLE IF NOT EXISTS branding_overrides (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			deployment_id TEXT UNIQUE NOT NULL,
			company_name TEXT NOT NULL DEFAULT '',
			page_title TEXT NOT NULL DEFAULT '',
			page_description TEXT NOT NULL DEFAULT '',
			logo_url TEXT NOT NULL DEFAULT '',
			logo_dark_url TEXT NOT NULL DEFAULT '',
			favicon_url TEXT NOT NULL DEFAULT '',
			accent_color TEXT NOT NULL DEFAULT '',
			accent_dark_color TEXT NOT NULL DEFAULT '',
			background_url TEXT NOT NULL DEFAULT '',
			font_url TEXT NOT NULL DEFAULT '',
			start_button_text TEXT NOT NULL DEFAULT '',
			created_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP,
			updated_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP
		)`,

		`CREATE INDEX IF NOT EXISTS idx_branding_overrides_deployment
			ON branding_overrides(deployment_id)`,

		// Key-value settings table (telemetry opt-out, instance ID, etc.)
		`CREATE TABLE IF NOT EXISTS settings (
			key TEXT PRIMARY KEY,
			value TEXT NOT NULL DEFAULT ''
		)`,

		`CREATE TABLE IF NOT EXISTS admin_keys (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			key_hash TEXT UNIQUE NOT NULL,
			key_prefix TEXT NOT NULL,
			label TEXT NOT NULL DEFAULT '',
			is_active INTEGER NOT NULL DEFAULT 1,
			created_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP,
			last_used DATETIME
		)`,

		`CREATE INDEX IF NOT EXISTS idx_admin_keys_hash ON admin_keys(key_hash)`,

		// v2: support links moved into branding (kept for upgraded databases).
		`ALTER TABLE branding_overrides ADD COLUMN support_url TEXT NOT NULL DEFAULT ''`,
	}

	for _, m := range migrations {
		if _, err := s.db.Exec(m); err != nil {
			// SQLite ALTER TABLE ADD COLUMN fails if column already exists;
			// treat "duplicate column" as a no-op for idempotent migrations.
			if strings.Contains(err.Error(), "duplicate column") {
				continue
			}
			return fmt.Errorf("migration failed: %w\nSQL: %s", err, m)
		}
	}
	return nil
}
