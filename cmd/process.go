package cmd

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"
)

var (
	processTimeout time.Duration
	processJSON    bool
	processLegacy  bool
)

// newProcessCmd creates the `process` command.
func newProcessCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "process <file>",
		Short: "Run the processor on a file and print its output",
		Long: `Run the configured processor with the file as its last argument and wait
for it to finish. On success the processor's standard output is printed
unchanged. Otherwise the failure is reported on standard error and the exit
code tells the cases apart:

  1    the processor exited with a non-zero status
  2    the processor could not be started
  3    the processor timed out
  130  the run was interrupted

With --legacy the result is printed as a single string, prefixed with
"Error: " or "Execution failed: " on failure.`,
		Args: cobra.ExactArgs(1),
		RunE: runProcess,
	}
	cmd.Flags().DurationVar(&processTimeout, "timeout", 0, "Override processor.timeout for this run")
	cmd.Flags().BoolVar(&processJSON, "json", false, "Output the outcome as JSON")
	cmd.Flags().BoolVar(&processLegacy, "legacy", false, "Output the outcome as a single prefixed string")
	return cmd
}

func runProcess(cmd *cobra.Command, args []string) error {
	format, err := resolveFormat(processJSON, processLegacy)
	if err != nil {
		return err
	}

	a, err := newApp(cmd, appOptions{})
	if err != nil {
		return err
	}
	defer a.Close()

	ctx, stop := interruptContext(cmd.Context())
	defer stop()

	o := a.invoke(ctx, args[0], processTimeout)
	if err := renderOutcome(cmd.OutOrStdout(), cmd.ErrOrStderr(), o, format); err != nil {
		return err
	}
	return outcomeError(o)
}

// interruptContext is cancelled on SIGINT or SIGTERM so a running
// processor is killed instead of orphaned.
func interruptContext(parent context.Context) (context.Context, context.CancelFunc) {
	return signal.NotifyContext(parent, os.Interrupt, syscall.SIGTERM)
}
