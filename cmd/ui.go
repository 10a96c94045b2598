package cmd

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"github.com/mattsolo1/grove-policyscan/cmd/app_tui"
	"github.com/mattsolo1/grove-policyscan/pkg/invoker"
	"github.com/mattsolo1/grove-policyscan/pkg/selector"
	"github.com/mattsolo1/grove-policyscan/pkg/state"
)

var uiLast bool

// newUICmd creates the `ui` command.
func newUICmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "ui [file]",
		Short: "Interactive picker and result viewer",
		Long: `Open a terminal UI: press o to choose a file in the native dialog, enter to
run the processor on it, esc to cancel a run in progress and q to quit. The
processor output can be scrolled with the arrow keys.

Logs are written to ui.log in the state directory unless log.file is set.`,
		Args: cobra.MaximumNArgs(1),
		RunE: runUI,
	}
	cmd.Flags().BoolVar(&uiLast, "last", false, "Preselect the last chosen file")
	return cmd
}

func runUI(cmd *cobra.Command, args []string) error {
	opts := appOptions{}
	if dir, err := stateDir(); err == nil {
		opts.defaultLogFile = filepath.Join(dir, "ui.log")
	}
	a, err := newApp(cmd, opts)
	if err != nil {
		return err
	}
	defer a.Close()

	sel, err := a.selector(os.Stdin, cmd.ErrOrStderr())
	if err != nil {
		return &exitError{code: exitDialogFailed, err: err}
	}
	if sel.BackendName() == selector.BackendPrompt {
		return &exitError{
			code: exitDialogFailed,
			err:  errors.New("the ui needs a graphical file dialog; use 'policyscan open' in a plain terminal"),
		}
	}

	modelOpts := []app_tui.Option{
		app_tui.OnSelect(a.recordSelection),
	}
	if initial := initialUIPath(a, args); initial != "" {
		modelOpts = append(modelOpts, app_tui.WithInitialPath(initial))
	}

	model := app_tui.New(sel, uiProcessor{a: a}, modelOpts...)
	program := tea.NewProgram(model, tea.WithAltScreen())
	if _, err := program.Run(); err != nil {
		return fmt.Errorf("error running ui: %w", err)
	}
	return nil
}

// uiProcessor runs the processor through the app so outcomes are recorded
// and announced like in the other commands.
type uiProcessor struct {
	a *app
}

func (p uiProcessor) Invoke(ctx context.Context, path string) invoker.Outcome {
	return p.a.invoke(ctx, path, 0)
}

func initialUIPath(a *app, args []string) string {
	if len(args) == 1 {
		if abs, err := filepath.Abs(args[0]); err == nil {
			return abs
		}
		return args[0]
	}
	if !uiLast || a.store == nil {
		return ""
	}
	st, err := a.store.Load()
	if err != nil {
		a.log.WithError(err).Warn("Failed to load state")
		return ""
	}
	if _, err := os.Stat(st.LastFile); err != nil {
		return ""
	}
	return st.LastFile
}

func stateDir() (string, error) {
	p, err := state.DefaultPath()
	if err != nil {
		return "", err
	}
	return filepath.Dir(p), nil
}
