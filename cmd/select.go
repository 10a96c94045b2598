package cmd

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var selectJSON bool

// selectionJSON is the --json rendering of a selection.
type selectionJSON struct {
	Selected bool   `json:"selected"`
	Path     string `json:"path,omitempty"`
}

// newSelectCmd creates the `select` command.
func newSelectCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "select",
		Short: "Open the file picker and print the chosen path",
		Long: `Open the file picker restricted to PDF documents and images and print the
absolute path of the chosen file. Nothing is printed when the picker is
cancelled.`,
		Args: cobra.NoArgs,
		RunE: runSelect,
	}
	cmd.Flags().BoolVar(&selectJSON, "json", false, "Output the selection as JSON")
	return cmd
}

func runSelect(cmd *cobra.Command, args []string) error {
	a, err := newApp(cmd, appOptions{})
	if err != nil {
		return err
	}
	defer a.Close()

	path, ok, err := selectFile(cmd, a)
	if err != nil {
		return err
	}

	if selectJSON {
		enc := json.NewEncoder(cmd.OutOrStdout())
		return enc.Encode(selectionJSON{Selected: ok, Path: path})
	}
	if ok {
		fmt.Fprintln(cmd.OutOrStdout(), path)
	}
	return nil
}

// selectFile shows the picker. Prompts go to stderr so stdout carries only
// results.
func selectFile(cmd *cobra.Command, a *app) (string, bool, error) {
	sel, err := a.selector(os.Stdin, cmd.ErrOrStderr())
	if err != nil {
		return "", false, &exitError{code: exitDialogFailed, err: err}
	}
	path, ok, err := sel.Select(cmd.Context())
	if err != nil {
		return "", false, selectionError(err)
	}
	if ok {
		a.recordSelection(path)
	}
	return path, ok, nil
}

// selectionError maps a failed selection to an exit code. An interrupted
// dialog is a cancel, not a dialog failure.
func selectionError(err error) error {
	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return &exitError{code: exitCanceled, err: err}
	}
	return &exitError{code: exitDialogFailed, err: err}
}
