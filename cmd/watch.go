package cmd

import (
	"context"
	"fmt"
	"path/filepath"
	"sync"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/mattsolo1/grove-policyscan/pkg/selector"
	"github.com/mattsolo1/grove-policyscan/pkg/watch"
)

var watchParallel int

// newWatchCmd creates the `watch` command.
func newWatchCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "watch <directory>",
		Short: "Process PDF documents and images as they are dropped into a folder",
		Long: `Watch a folder and run the processor on every supported file created or
written in it. Files already present when watching starts are left alone.
Hidden and partially downloaded files are skipped. Press Ctrl+C to stop.`,
		Args: cobra.ExactArgs(1),
		RunE: runWatch,
	}
	cmd.Flags().IntVarP(&watchParallel, "parallel", "p", 0, "Override watch.max_parallel")
	return cmd
}

func runWatch(cmd *cobra.Command, args []string) error {
	a, err := newApp(cmd, appOptions{})
	if err != nil {
		return err
	}
	defer a.Close()

	dir, err := filepath.Abs(args[0])
	if err != nil {
		return fmt.Errorf("resolve %s: %w", args[0], err)
	}

	lock, err := watch.AcquireLock(dir)
	if err != nil {
		return err
	}
	defer func() {
		if err := lock.Release(); err != nil {
			a.log.WithError(err).Warn("Failed to remove lock file")
		}
	}()

	parallel := a.cfg.Watch.MaxParallel
	if watchParallel > 0 {
		parallel = watchParallel
	}

	ctx, stop := interruptContext(cmd.Context())
	defer stop()

	// Outcome lines from concurrent handlers must not interleave.
	var outMu sync.Mutex
	filters := selector.DefaultFilters()
	w := &watch.Watcher{
		Dir:         dir,
		Match:       func(path string) bool { return selector.Matches(filters, path) },
		Debounce:    a.cfg.Watch.Debounce,
		MaxParallel: parallel,
		Log:         a.log,
		Handler: func(ctx context.Context, path string) {
			o := a.invoke(ctx, path, 0)
			outMu.Lock()
			defer outMu.Unlock()
			fmt.Fprintln(cmd.OutOrStdout(), summarizeOutcome(o))
		},
	}

	fmt.Fprintf(cmd.ErrOrStderr(), "%s Watching %s for %s\n",
		color.YellowString("⚡"), color.CyanString(dir), selector.Describe(filters))
	return w.Run(ctx)
}
