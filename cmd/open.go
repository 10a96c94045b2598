package cmd

import (
	"encoding/json"
	"fmt"

	"github.com/fatih/color"
	"github.com/spf13/cobra"
)

var (
	openJSON   bool
	openLegacy bool
)

// newOpenCmd creates the `open` command.
func newOpenCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "open",
		Short: "Pick a file and run the processor on it",
		Long: `Open the file picker and, if a file is chosen, run the processor on it.
Cancelling the picker is not an error.`,
		Args: cobra.NoArgs,
		RunE: runOpen,
	}
	cmd.Flags().BoolVar(&openJSON, "json", false, "Output the outcome as JSON")
	cmd.Flags().BoolVar(&openLegacy, "legacy", false, "Output the outcome as a single prefixed string")
	return cmd
}

func runOpen(cmd *cobra.Command, args []string) error {
	format, err := resolveFormat(openJSON, openLegacy)
	if err != nil {
		return err
	}

	a, err := newApp(cmd, appOptions{})
	if err != nil {
		return err
	}
	defer a.Close()

	path, ok, err := selectFile(cmd, a)
	if err != nil {
		return err
	}
	if !ok {
		if format == formatJSON {
			return json.NewEncoder(cmd.OutOrStdout()).Encode(selectionJSON{Selected: false})
		}
		fmt.Fprintln(cmd.ErrOrStderr(), "No file selected.")
		return nil
	}
	if format == formatText {
		fmt.Fprintf(cmd.ErrOrStderr(), "%s Processing %s\n", color.YellowString("⚡"), color.CyanString(path))
	}

	ctx, stop := interruptContext(cmd.Context())
	defer stop()

	o := a.invoke(ctx, path, 0)
	if err := renderOutcome(cmd.OutOrStdout(), cmd.ErrOrStderr(), o, format); err != nil {
		return err
	}
	return outcomeError(o)
}
