// Package cli implements the vnlaw command line with cobra.
//
// Commands call the driving ports held in package-level variables, which
// main wires through SetServices before Execute.
package cli

import (
	"context"
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/custodia-labs/vnlaw/internal/core/ports/driving"
	"github.com/custodia-labs/vnlaw/internal/logger"
)

// version is set by SetVersion from build flags.
var version = "dev"

var (
	ingestService   driving.IngestService
	lawService      driving.LawService
	nodeService     driving.NodeService
	settingsService driving.SettingsService

	// watchExtensions lists the file extensions the watcher imports.
	watchExtensions []string

	// storeErr explains why store-backed services are missing.
	storeErr error
)

var verbose bool

var rootCmd = &cobra.Command{
	Use:   "vnlaw",
	Short: "Import Vietnamese statutes and decrees into a structured store",
	Long: `vnlaw converts the text of Vietnamese laws and decrees into a tree of
chapters (Chương), articles (Điều), clauses (Khoản) and items (Điểm) and
stores it in SQLite or PostgreSQL with stable sort keys and paths.

Use "vnlaw import" to ingest a PDF or text file, then browse the result with
"vnlaw law" and "vnlaw node", or expose it to AI assistants with
"vnlaw mcp serve".`,
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRun: func(_ *cobra.Command, _ []string) {
		logger.SetVerbose(verbose)
	},
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "print debug logs to stderr")
}

// Services bundles the driving ports the commands use.
type Services struct {
	Ingest   driving.IngestService
	Laws     driving.LawService
	Nodes    driving.NodeService
	Settings driving.SettingsService

	// WatchExtensions are the extensions "vnlaw watch" picks up.
	WatchExtensions []string

	// StoreErr is reported by commands that need a store when none
	// could be opened.
	StoreErr error
}

// SetServices wires the driving ports used by the commands.
func SetServices(s Services) {
	ingestService = s.Ingest
	lawService = s.Laws
	nodeService = s.Nodes
	settingsService = s.Settings
	watchExtensions = s.WatchExtensions
	storeErr = s.StoreErr
}

// SetVersion sets the version reported by "vnlaw version".
func SetVersion(v string) {
	if v != "" {
		version = v
	}
}

// Execute runs the root command.
func Execute(ctx context.Context) error {
	return rootCmd.ExecuteContext(ctx)
}

// notConfigured is returned when a command runs without its service.
func notConfigured(name string) error {
	if storeErr != nil {
		return fmt.Errorf("%s service not configured: %w", name, storeErr)
	}
	return errors.New(name + " service not configured")
}
