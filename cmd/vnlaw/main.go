// Command vnlaw imports Vietnamese laws and decrees into a structured store.
package main

import (
	"context"
	"fmt"
	"os"

	"github.com/custodia-labs/vnlaw/internal/adapters/driven/config/file"
	"github.com/custodia-labs/vnlaw/internal/adapters/driven/storage/postgres"
	"github.com/custodia-labs/vnlaw/internal/adapters/driven/storage/sqlite"
	"github.com/custodia-labs/vnlaw/internal/adapters/driving/cli"
	"github.com/custodia-labs/vnlaw/internal/core/domain"
	"github.com/custodia-labs/vnlaw/internal/core/ports/driven"
	"github.com/custodia-labs/vnlaw/internal/core/services"
	"github.com/custodia-labs/vnlaw/internal/extractors"
	"github.com/custodia-labs/vnlaw/internal/logger"
)

// version is set at build time with -ldflags "-X main.version=...".
var version = "dev"

func main() {
	os.Exit(run())
}

func run() int {
	ctx := context.Background()
	cli.SetVersion(version)

	configStore, err := file.NewConfigStore("")
	if err != nil {
		fmt.Fprintln(os.Stderr, "Error: loading config:", err)
		return 1
	}
	settingsService := services.NewSettingsService(configStore)

	settings, err := settingsService.Get()
	if err != nil {
		fmt.Fprintln(os.Stderr, "Error: reading settings:", err)
		return 1
	}

	registry := extractors.NewDefaultRegistry(settings.Extract)
	svc := cli.Services{
		Settings:        settingsService,
		WatchExtensions: registry.Extensions(),
	}

	// A broken store setup still leaves "vnlaw settings" and dry runs
	// usable; the ingest service then has no transactor.
	var tx driven.Transactor
	store, err := openStore(ctx, settings)
	if err != nil {
		logger.Debug("store unavailable: %v", err)
		svc.StoreErr = err
	} else {
		defer store.Close()
		tx = store
		svc.Laws = services.NewLawService(store)
		svc.Nodes = services.NewNodeService(store)
	}
	svc.Ingest = services.NewIngestService(registry, tx, settingsService)
	cli.SetServices(svc)

	if err := cli.Execute(ctx); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		return 1
	}
	return 0
}

func openStore(ctx context.Context, settings *domain.AppSettings) (driven.Store, error) {
	if err := settings.Validate(); err != nil {
		return nil, err
	}
	switch settings.Storage.Driver {
	case domain.StoragePostgres:
		return postgres.NewStore(ctx, settings.Storage.PostgresDSN)
	default:
		return sqlite.NewStore(settings.Storage.DataDir)
	}
}
