package driving

import "github.com/custodia-labs/vnlaw/internal/core/domain"

// SettingsService manages application settings.
type SettingsService interface {
	// Get retrieves current application settings.
	Get() (*domain.AppSettings, error)

	// Set parses and stores a single setting by key.
	Set(key, value string) error

	// Value returns the effective value of a key as text, after
	// environment overrides and defaults.
	Value(key string) (string, error)

	// Keys returns the supported setting keys.
	Keys() []string

	// GetDefaults returns default settings.
	GetDefaults() domain.AppSettings
}
