package cli

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/custodia-labs/vnlaw/internal/adapters/driving/watch"
	"github.com/custodia-labs/vnlaw/internal/core/domain"
)

var watchFlags struct {
	replace      bool
	preferNative bool
	debounce     time.Duration
}

var watchCmd = &cobra.Command{
	Use:   "watch [dir]",
	Short: "Import documents as they are dropped into a directory",
	Long: `Watch a directory and import every PDF or text file that is created or
rewritten in it. A file is imported once it has not changed for the
debounce period. Codes, titles and document types are inferred from the
file name and content, as with "vnlaw import".

Stop with Ctrl+C.`,
	Args: cobra.ExactArgs(1),
	RunE: runWatch,
}

func init() {
	f := watchCmd.Flags()
	f.BoolVar(&watchFlags.replace, "replace", false, "replace the node tree when a code already exists")
	f.BoolVar(&watchFlags.preferNative, "prefer-native", false, "try the built-in PDF reader before pdftotext")
	f.DurationVar(&watchFlags.debounce, "debounce", watch.DefaultDebounce, "quiet period before a changed file is imported")
	rootCmd.AddCommand(watchCmd)
}

func runWatch(cmd *cobra.Command, args []string) error {
	if ingestService == nil || storeErr != nil {
		return notConfigured("ingest")
	}

	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}
	ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	w := watch.New(ingestService, args[0], watch.Options{
		Extensions: watchExtensions,
		Debounce:   watchFlags.debounce,
		Template: domain.ImportRequest{
			Replace:      watchFlags.replace,
			PreferNative: watchFlags.preferNative,
		},
		OnResult: func(r watch.Result) { printWatchResult(cmd, r) },
	})

	cmd.Println(headerStyle.Render("Watching " + args[0]))
	return w.Run(ctx)
}

func printWatchResult(cmd *cobra.Command, r watch.Result) {
	if r.Err != nil {
		cmd.PrintErrf("%s: %v\n", r.Path, r.Err)
		printExtractHint(cmd, r.Err)
		return
	}
	printImportResult(cmd, r.Import)
}
