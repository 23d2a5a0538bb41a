// internal/storage/settings.go
package storage

import (
	"context"
	"database/sql"

	"sitenotify/internal/common/errors"
)

// Well-known settings keys.
const (
	SettingBackgroundProcessing = "background_processing"
	SettingVAPIDPublicKey       = "vapid_public_key"
	SettingVAPIDPrivateKey      = "vapid_private_key"
	settingTriggerPrefix        = "trigger_enabled:"
)

// SettingsStore is a key-value table for runtime toggles: per-trigger
// enablement, the background-processing switch and integration-wide
// configuration like the VAPID keypair.
type SettingsStore struct {
	db *sql.DB
}

func NewSettingsStore(db *sql.DB) *SettingsStore {
	return &SettingsStore{db: db}
}

// Get returns the stored value, or "" when the key is unset.
func (s *SettingsStore) Get(ctx context.Context, key string) (string, error) {
	var value string
	err := s.db.QueryRowContext(ctx,
		`SELECT value FROM settings WHERE key = $1`, key).Scan(&value)
	if err == sql.ErrNoRows {
		return "", nil
	}
	if err != nil {
		return "", errors.NewStorageError("get setting", err)
	}
	return value, nil
}

// Set upserts one key.
func (s *SettingsStore) Set(ctx context.Context, key, value string) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO settings (key, value, updated_at)
		VALUES ($1, $2, NOW())
		ON CONFLICT (key) DO UPDATE SET value = EXCLUDED.value, updated_at = NOW()`,
		key, value)
	if err != nil {
		return errors.NewStorageError("set setting", err)
	}
	return nil
}

// TriggerEnabled reports whether a trigger slug is switched on.
// Unset means enabled; triggers are opt-out.
func (s *SettingsStore) TriggerEnabled(ctx context.Context, slug string) bool {
	value, err := s.Get(ctx, settingTriggerPrefix+slug)
	if err != nil {
		return true
	}
	return value != "false"
}

// SetTriggerEnabled flips one trigger slug.
func (s *SettingsStore) SetTriggerEnabled(ctx context.Context, slug string, enabled bool) error {
	value := "true"
	if !enabled {
		value = "false"
	}
	return s.Set(ctx, settingTriggerPrefix+slug, value)
}

// BackgroundProcessing reports whether dispatch tuples go to the queue.
func (s *SettingsStore) BackgroundProcessing(ctx context.Context) bool {
	value, err := s.Get(ctx, SettingBackgroundProcessing)
	if err != nil {
		return false
	}
	return value == "true"
}
