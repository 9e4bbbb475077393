package store

import (
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/ayusman/handstrike/internal/config"
)

// configKey is the settings row holding the pipeline configuration.
const configKey = "config"

// LoadConfig returns the persisted pipeline configuration, clamped to its
// documented ranges. When no configuration has been saved yet, the defaults
// are returned.
func (s *Store) LoadConfig() (config.Config, error) {
	var raw string
	err := s.db.QueryRow(`SELECT value FROM settings WHERE key = ?`, configKey).Scan(&raw)
	if errors.Is(err, sql.ErrNoRows) {
		return config.Default(), nil
	}
	if err != nil {
		return config.Config{}, fmt.Errorf("load config: %w", err)
	}

	var cfg config.Config
	if err := json.Unmarshal([]byte(raw), &cfg); err != nil {
		return config.Config{}, fmt.Errorf("parse config: %w", err)
	}

	return cfg.Clamp(), nil
}

// SaveConfig persists the pipeline configuration, clamping it first.
func (s *Store) SaveConfig(cfg config.Config) error {
	raw, err := json.Marshal(cfg.Clamp())
	if err != nil {
		return fmt.Errorf("encode config: %w", err)
	}

	_, err = s.db.Exec(
		`INSERT INTO settings (key, value) VALUES (?, ?)
		 ON CONFLICT(key) DO UPDATE SET value = excluded.value`,
		configKey, string(raw),
	)
	if err != nil {
		return fmt.Errorf("save config: %w", err)
	}
	return nil
}
