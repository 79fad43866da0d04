package cmd

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"assetdump/internal/adapters/filesystem"
	"assetdump/internal/adapters/manifest"
	"assetdump/internal/adapters/sqlite"
	"assetdump/internal/adapters/watch"
	"assetdump/internal/application/commands"
	"assetdump/internal/ports"
)

var (
	watchMode  bool
	force      bool
	noMains    bool
	verbose    bool
	periodSecs int
)

var (
	bannerStyle  = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("#10B981"))
	summaryStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#6B7280"))
	errorStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("#EF4444"))
)

var dumpCmd = &cobra.Command{
	Use:   "dump [output-root]",
	Short: "Write every asset to the output root",
	Long: `dump materializes every asset declared in the manifest under the output
root. Without --watch each asset is written once, unconditionally. With
--watch the process keeps running and re-dumps only what changed, using
filesystem events when available and polling as the fallback.`,
	Args: cobra.MaximumNArgs(1),
	RunE: runDump,
}

func init() {
	dumpCmd.Flags().BoolVarP(&watchMode, "watch", "w", false, "keep running and re-dump when inputs change")
	dumpCmd.Flags().BoolVar(&force, "force", false, "discard the persisted snapshot and start from scratch")
	dumpCmd.Flags().IntVarP(&periodSecs, "period", "p", 1, "polling period in seconds")
	dumpCmd.Flags().BoolVar(&noMains, "no-mains", false, "suppress main asset writes (dump leaves only)")
	dumpCmd.Flags().BoolVarP(&verbose, "verbose", "v", false, "log source locations for every write")

	rootCmd.AddCommand(dumpCmd)
}

func runDump(cmd *cobra.Command, args []string) error {
	if verbose {
		logrus.SetLevel(logrus.DebugLevel)
	}

	outputRoot := viper.GetString("output")
	if len(args) == 1 {
		outputRoot = args[0]
	}

	registry, err := manifest.Open(viper.GetString("manifest"), outputRoot)
	if err != nil {
		return err
	}
	writer := filesystem.NewWriter(verbose)

	if !watchMode {
		dump := commands.NewDumpCommand(registry, writer, !noMains)
		if err := dump.Validate(); err != nil {
			return err
		}
		n, err := dump.Execute()
		if err != nil {
			return err
		}
		fmt.Println(summaryStyle.Render(fmt.Sprintf("dumped %d artifacts to %s", n, registry.OutputRoot())))
		return nil
	}

	store := sqlite.NewStore()
	if err := store.Open(registry.OutputRoot()); err != nil {
		// No persisted-state cache means no restart-safe watch mode.
		return fmt.Errorf("opening snapshot store: %w", err)
	}
	defer store.Close()

	var watcher ports.TreeWatcher
	if tw, err := watch.New(); err != nil {
		logrus.Warnf("filesystem events unavailable, polling only: %v", err)
	} else {
		watcher = tw
	}

	wc := &commands.WatchCommand{
		Registry:  registry,
		Writer:    writer,
		Store:     store,
		Watcher:   watcher,
		Period:    time.Duration(periodSecs) * time.Second,
		Force:     force,
		DumpMains: !noMains,
		OnError: func(err error) {
			fmt.Fprintln(os.Stderr, errorStyle.Render(err.Error()))
		},
	}
	if err := wc.Validate(); err != nil {
		return err
	}

	fmt.Println(bannerStyle.Render(fmt.Sprintf("watching %d assets -> %s (period %ds)",
		len(registry.Names()), registry.OutputRoot(), periodSecs)))

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := wc.Execute(ctx); err != nil && ctx.Err() == nil {
		return err
	}
	return nil
}
