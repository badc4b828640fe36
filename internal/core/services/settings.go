package services

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/custodia-labs/vnlaw/internal/core/domain"
	"github.com/custodia-labs/vnlaw/internal/core/ports/driven"
	"github.com/custodia-labs/vnlaw/internal/core/ports/driving"
)

// Ensure SettingsService implements the interface.
var _ driving.SettingsService = (*SettingsService)(nil)

// Config keys for settings storage.
const (
	KeyStorageDriver       = "storage.driver"
	KeyStorageDataDir      = "storage.data_dir"
	KeyStoragePostgresDSN  = "storage.postgres_dsn"
	KeyExtractPreferNative = "extract.prefer_native"
	KeyExtractPdftotext    = "extract.pdftotext_path"
	KeyDecreeRelatedLaw    = "decree.related_law_code"
	KeyDecreeEffective     = "decree.effective_start"
)

// Environment variables that take precedence over the config file.
const (
	EnvPostgresDSN = "VNLAW_POSTGRES_DSN"
	EnvDataDir     = "VNLAW_DATA_DIR"
)

var settingKeys = []string{
	KeyStorageDriver,
	KeyStorageDataDir,
	KeyStoragePostgresDSN,
	KeyExtractPreferNative,
	KeyExtractPdftotext,
	KeyDecreeRelatedLaw,
	KeyDecreeEffective,
}

// SettingsService manages application settings.
type SettingsService struct {
	configStore driven.ConfigStore
	lookupEnv   func(string) (string, bool)
}

// NewSettingsService creates a new settings service.
func NewSettingsService(configStore driven.ConfigStore) *SettingsService {
	return &SettingsService{
		configStore: configStore,
		lookupEnv:   os.LookupEnv,
	}
}

// Get retrieves current application settings. Stored values that are
// missing or invalid fall back to defaults.
func (s *SettingsService) Get() (*domain.AppSettings, error) {
	defaults := domain.DefaultAppSettings()
	if s.configStore == nil {
		return &defaults, nil
	}

	driver := domain.StorageDriver(s.getString(KeyStorageDriver, defaults.Storage.Driver.String()))
	if !driver.IsValid() {
		driver = defaults.Storage.Driver
	}

	settings := &domain.AppSettings{
		Storage: domain.StorageSettings{
			Driver:      driver,
			DataDir:     s.getEnvOrString(EnvDataDir, KeyStorageDataDir, defaults.Storage.DataDir),
			PostgresDSN: s.getEnvOrString(EnvPostgresDSN, KeyStoragePostgresDSN, defaults.Storage.PostgresDSN),
		},
		Extract: domain.ExtractSettings{
			PreferNative:  s.getBool(KeyExtractPreferNative, defaults.Extract.PreferNative),
			PdftotextPath: s.getString(KeyExtractPdftotext, defaults.Extract.PdftotextPath),
		},
		Decree: domain.DecreeSettings{
			RelatedLawCode: s.getString(KeyDecreeRelatedLaw, defaults.Decree.RelatedLawCode),
			EffectiveStart: s.getString(KeyDecreeEffective, defaults.Decree.EffectiveStart),
		},
	}
	return settings, nil
}

// Set parses value according to the key's type and stores it.
func (s *SettingsService) Set(key, value string) error {
	if s.configStore == nil {
		return domain.ErrNotImplemented
	}

	value = strings.TrimSpace(value)
	switch key {
	case KeyStorageDriver:
		d := domain.StorageDriver(strings.ToLower(value))
		if !d.IsValid() {
			return fmt.Errorf("%w: storage driver %q", domain.ErrUnsupportedType, value)
		}
		return s.configStore.Set(key, d.String())

	case KeyExtractPreferNative:
		b, err := strconv.ParseBool(value)
		if err != nil {
			return fmt.Errorf("%w: %s must be true or false", domain.ErrInvalidInput, key)
		}
		return s.configStore.Set(key, b)

	case KeyDecreeEffective:
		if _, err := time.Parse(domain.DateLayout, value); err != nil {
			return fmt.Errorf("%w: %s must be YYYY-MM-DD", domain.ErrInvalidInput, key)
		}
		return s.configStore.Set(key, value)

	case KeyStorageDataDir, KeyStoragePostgresDSN, KeyExtractPdftotext, KeyDecreeRelatedLaw:
		return s.configStore.Set(key, value)

	default:
		return fmt.Errorf("%w: unknown setting %q", domain.ErrInvalidInput, key)
	}
}

// Value returns the effective value of key.
func (s *SettingsService) Value(key string) (string, error) {
	settings, err := s.Get()
	if err != nil {
		return "", err
	}
	switch key {
	case KeyStorageDriver:
		return settings.Storage.Driver.String(), nil
	case KeyStorageDataDir:
		return settings.Storage.DataDir, nil
	case KeyStoragePostgresDSN:
		return settings.Storage.PostgresDSN, nil
	case KeyExtractPreferNative:
		return strconv.FormatBool(settings.Extract.PreferNative), nil
	case KeyExtractPdftotext:
		return settings.Extract.PdftotextPath, nil
	case KeyDecreeRelatedLaw:
		return settings.Decree.RelatedLawCode, nil
	case KeyDecreeEffective:
		return settings.Decree.EffectiveStart, nil
	default:
		return "", fmt.Errorf("%w: unknown setting %q", domain.ErrInvalidInput, key)
	}
}

// Keys returns the supported setting keys.
func (s *SettingsService) Keys() []string {
	return append([]string(nil), settingKeys...)
}

// GetDefaults returns default settings.
func (s *SettingsService) GetDefaults() domain.AppSettings {
	return domain.DefaultAppSettings()
}

func (s *SettingsService) getString(key, defaultVal string) string {
	if val := s.configStore.GetString(key); val != "" {
		return val
	}
	return defaultVal
}

func (s *SettingsService) getBool(key string, defaultVal bool) bool {
	if _, ok := s.configStore.Get(key); ok {
		return s.configStore.GetBool(key)
	}
	return defaultVal
}

func (s *SettingsService) getEnvOrString(env, key, defaultVal string) string {
	if s.lookupEnv != nil {
		if val, ok := s.lookupEnv(env); ok && val != "" {
			return val
		}
	}
	return s.getString(key, defaultVal)
}
