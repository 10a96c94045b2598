package cmd

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"runtime"
	"strings"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/mattsolo1/grove-policyscan/pkg/exec"
	"github.com/mattsolo1/grove-policyscan/pkg/selector"
)

// newDoctorCmd creates the `doctor` command.
func newDoctorCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "doctor",
		Short: "Check that the processor and file picker are usable",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := newApp(cmd, appOptions{})
			if err != nil {
				return err
			}
			defer a.Close()

			out := cmd.OutOrStdout()
			if a.configFile != "" {
				fmt.Fprintf(out, "Config: %s\n", a.configFile)
			} else {
				fmt.Fprintln(out, "Config: defaults (no policyscan.yml found)")
			}

			checks := runDoctorChecks(a.cfg, a.executor)
			failed := 0
			for _, c := range checks {
				printCheck(out, c)
				if !c.ok && !c.warning {
					failed++
				}
			}
			if failed > 0 {
				return &exitError{code: exitFailure, err: fmt.Errorf("%d check(s) failed", failed)}
			}
			return nil
		},
	}
}

type doctorCheck struct {
	name    string
	detail  string
	ok      bool
	warning bool
}

func runDoctorChecks(cfg *Config, executor exec.CommandExecutor) []doctorCheck {
	var checks []doctorCheck

	resolved, err := executor.LookPath(cfg.Processor.Command)
	if err != nil {
		checks = append(checks, doctorCheck{name: "processor command", detail: err.Error()})
	} else {
		checks = append(checks, doctorCheck{name: "processor command", detail: resolved, ok: true})
	}

	if script := processorScript(cfg.Processor); script != "" {
		if _, err := os.Stat(script); err != nil {
			checks = append(checks, doctorCheck{name: "processor script", detail: script + " not found", warning: true})
		} else {
			checks = append(checks, doctorCheck{name: "processor script", detail: script, ok: true})
		}
	}

	backend, err := selector.NewBackend(cfg.Dialog.Backend, os.Stdin, io.Discard)
	if err != nil {
		checks = append(checks, doctorCheck{name: "dialog backend", detail: err.Error()})
		return checks
	}
	checks = append(checks, doctorCheck{name: "dialog backend", detail: backend.Name(), ok: true})

	if backend.Name() == selector.BackendZenity && runtime.GOOS != "windows" && runtime.GOOS != "darwin" {
		checks = append(checks, dialogHelperCheck(executor))
	}
	return checks
}

// processorScript returns the first argument when it names a file, resolved
// against the working directory.
func processorScript(p ProcessorConfig) string {
	if len(p.Args) == 0 {
		return ""
	}
	arg := p.Args[0]
	if strings.HasPrefix(arg, "-") || filepath.Ext(arg) == "" {
		return ""
	}
	if !filepath.IsAbs(arg) && p.WorkDir != "" {
		arg = filepath.Join(p.WorkDir, arg)
	}
	return arg
}

// dialogHelperCheck looks for one of the programs zenity drives on Linux.
func dialogHelperCheck(executor exec.CommandExecutor) doctorCheck {
	for _, name := range []string{"zenity", "qarma", "matedialog", "kdialog"} {
		if path, err := executor.LookPath(name); err == nil {
			return doctorCheck{name: "dialog helper", detail: path, ok: true}
		}
	}
	return doctorCheck{
		name:    "dialog helper",
		detail:  "none of zenity, qarma, matedialog or kdialog found; set dialog.backend to prompt",
		warning: true,
	}
}

func printCheck(w io.Writer, c doctorCheck) {
	mark := color.GreenString("✓")
	switch {
	case c.warning:
		mark = color.YellowString("⚠")
	case !c.ok:
		mark = color.RedString("✗")
	}
	fmt.Fprintf(w, "%s %s: %s\n", mark, c.name, c.detail)
}
