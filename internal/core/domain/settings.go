package domain

import (
	"fmt"
	"time"
)

const unknownDescription = "Unknown"

// StorageDriver selects the relational backend for laws and nodes.
type StorageDriver string

// Available storage drivers.
const (
	// StorageSQLite is an embedded database file under the data directory.
	StorageSQLite StorageDriver = "sqlite"

	// StoragePostgres is a PostgreSQL server reached through a DSN.
	StoragePostgres StorageDriver = "postgres"
)

// IsValid returns true if the driver is recognised.
func (d StorageDriver) IsValid() bool {
	switch d {
	case StorageSQLite, StoragePostgres:
		return true
	default:
		return false
	}
}

// String returns the string representation.
func (d StorageDriver) String() string {
	return string(d)
}

// Description returns a human-readable description of the driver.
func (d StorageDriver) Description() string {
	switch d {
	case StorageSQLite:
		return "SQLite (embedded file)"
	case StoragePostgres:
		return "PostgreSQL (server)"
	default:
		return unknownDescription
	}
}

// StorageSettings holds storage backend configuration.
type StorageSettings struct {
	// Driver is the storage backend.
	Driver StorageDriver

	// DataDir holds the SQLite database. Empty means ~/.vnlaw/data.
	DataDir string

	// PostgresDSN is the connection string for the postgres driver.
	PostgresDSN string
}

// ExtractSettings holds PDF text extraction configuration.
type ExtractSettings struct {
	// PreferNative tries the built-in PDF reader before pdftotext.
	PreferNative bool

	// PdftotextPath is the pdftotext executable.
	PdftotextPath string
}

// DecreeSettings holds the defaults applied when importing a decree
// without explicit link or validity information.
type DecreeSettings struct {
	// RelatedLawCode is the law most decrees implement.
	RelatedLawCode string

	// EffectiveStart is a DateLayout date.
	EffectiveStart string
}

// AppSettings holds all application settings.
type AppSettings struct {
	Storage StorageSettings
	Extract ExtractSettings
	Decree  DecreeSettings
}

// DefaultAppSettings returns settings with sensible defaults.
func DefaultAppSettings() AppSettings {
	return AppSettings{
		Storage: StorageSettings{
			Driver: StorageSQLite,
		},
		Extract: ExtractSettings{
			PreferNative:  false,
			PdftotextPath: "pdftotext",
		},
		Decree: DecreeSettings{
			RelatedLawCode: "52/2014/QH13",
			EffectiveStart: "2015-01-01",
		},
	}
}

// Validate checks that the settings can be used to open a store and run
// an import.
func (s AppSettings) Validate() error {
	if !s.Storage.Driver.IsValid() {
		return fmt.Errorf("%w: storage driver %q", ErrUnsupportedType, s.Storage.Driver)
	}
	if s.Storage.Driver == StoragePostgres && s.Storage.PostgresDSN == "" {
		return fmt.Errorf("%w: postgres driver requires storage.postgres_dsn", ErrInvalidInput)
	}
	if s.Decree.EffectiveStart != "" {
		if _, err := time.Parse(DateLayout, s.Decree.EffectiveStart); err != nil {
			return fmt.Errorf("%w: decree.effective_start %q", ErrInvalidInput, s.Decree.EffectiveStart)
		}
	}
	return nil
}

// AllStorageDrivers returns all available storage drivers.
func AllStorageDrivers() []StorageDriver {
	return []StorageDriver{StorageSQLite, StoragePostgres}
}
