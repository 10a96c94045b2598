package cmd

import (
	"errors"
	"fmt"
	"io"

	"github.com/charmbracelet/lipgloss"
	"github.com/fatih/color"
	"github.com/muesli/termenv"
	"github.com/spf13/cobra"
)

const envFileName = ".env"

var (
	rootConfigPath string
	rootVerbose    bool
	rootNoColor    bool
)

// Exit codes reported by the binary.
const (
	exitOK           = 0
	exitFailure      = 1
	exitLaunchFailed = 2
	exitTimedOut     = 3
	exitDialogFailed = 4
	exitCanceled     = 130
)

// exitError carries a process exit code. A silent error has already been
// reported to the user.
type exitError struct {
	code   int
	err    error
	silent bool
}

func (e *exitError) Error() string {
	if e.err == nil {
		return fmt.Sprintf("exit status %d", e.code)
	}
	return e.err.Error()
}

func (e *exitError) Unwrap() error {
	return e.err
}

// NewRootCmd creates the policyscan command tree.
func NewRootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "policyscan",
		Short: "Pick a policy document and run the processor on it",
		Long: `policyscan opens a file picker restricted to PDF documents and images,
passes the chosen file to an external processor program and prints what the
processor wrote.

Examples:
  # Pick a file and process it
  policyscan open

  # Process a known file, failing after 30 seconds
  policyscan process --timeout 30s ./scans/policy.pdf

  # Process every file dropped into a folder
  policyscan watch ~/Inbox/policies`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			if rootNoColor {
				color.NoColor = true
				lipgloss.SetColorProfile(termenv.Ascii)
			}
		},
	}

	rootCmd.PersistentFlags().StringVar(&rootConfigPath, "config", "", "Config file (default: ./policyscan.yml or the user config directory)")
	rootCmd.PersistentFlags().BoolVarP(&rootVerbose, "verbose", "v", false, "Enable debug logging")
	rootCmd.PersistentFlags().BoolVar(&rootNoColor, "no-color", false, "Disable colored output")

	rootCmd.AddCommand(
		newSelectCmd(),
		newProcessCmd(),
		newOpenCmd(),
		newWatchCmd(),
		newUICmd(),
		newConfigCmd(),
		newDoctorCmd(),
		NewVersionCmd(),
	)
	return rootCmd
}

// Execute runs the root command and returns the process exit code.
func Execute() int {
	rootCmd := NewRootCmd()
	err := rootCmd.Execute()
	return reportError(rootCmd.ErrOrStderr(), err)
}

func reportError(w io.Writer, err error) int {
	if err == nil {
		return exitOK
	}
	var ee *exitError
	if errors.As(err, &ee) {
		if !ee.silent {
			fmt.Fprintf(w, "%s %v\n", color.RedString("✗"), ee)
		}
		return ee.code
	}
	fmt.Fprintf(w, "%s %v\n", color.RedString("✗"), err)
	return exitFailure
}
