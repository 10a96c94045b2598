package cmd

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"
	"unicode/utf8"

	"github.com/fatih/color"

	"github.com/mattsolo1/grove-policyscan/pkg/invoker"
)

type outputFormat int

const (
	formatText outputFormat = iota
	formatJSON
	formatLegacy
)

func resolveFormat(jsonOutput, legacy bool) (outputFormat, error) {
	switch {
	case jsonOutput && legacy:
		return formatText, fmt.Errorf("--json and --legacy cannot be used together")
	case jsonOutput:
		return formatJSON, nil
	case legacy:
		return formatLegacy, nil
	}
	return formatText, nil
}

// outcomeJSON is the --json rendering of an outcome.
type outcomeJSON struct {
	Kind       string `json:"kind"`
	Path       string `json:"path"`
	RequestID  string `json:"request_id"`
	Output     string `json:"output,omitempty"`
	Stderr     string `json:"stderr,omitempty"`
	ExitCode   int    `json:"exit_code"`
	Error      string `json:"error,omitempty"`
	DurationMS int64  `json:"duration_ms"`
}

func toJSON(o invoker.Outcome) outcomeJSON {
	j := outcomeJSON{
		Kind:       o.Kind.String(),
		Path:       o.Path,
		RequestID:  o.RequestID,
		Stderr:     o.Stderr,
		ExitCode:   o.ExitCode,
		DurationMS: o.Duration.Milliseconds(),
	}
	if o.OK() {
		j.Output = o.Stdout
	}
	if o.Err != nil {
		j.Error = o.Err.Error()
	}
	return j
}

// renderOutcome writes o. Successful output goes to stdout verbatim;
// failures go to stderr unless a machine-readable format was requested.
func renderOutcome(stdout, stderr io.Writer, o invoker.Outcome, format outputFormat) error {
	switch format {
	case formatJSON:
		enc := json.NewEncoder(stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(toJSON(o))
	case formatLegacy:
		_, err := fmt.Fprint(stdout, o.String())
		return err
	}

	switch o.Kind {
	case invoker.Succeeded:
		_, err := fmt.Fprint(stdout, o.Stdout)
		return err
	case invoker.ExitFailed:
		fmt.Fprintf(stderr, "%s Processor failed with exit status %d\n", color.RedString("✗"), o.ExitCode)
		if text := strings.TrimRight(o.Stderr, "\n"); text != "" {
			fmt.Fprintln(stderr, indent(text, "  "))
		}
	case invoker.LaunchFailed:
		fmt.Fprintf(stderr, "%s Could not start processor: %v\n", color.RedString("✗"), o.Err)
	case invoker.TimedOut:
		fmt.Fprintf(stderr, "%s %v\n", color.YellowString("⏱"), o.Err)
	case invoker.Canceled:
		fmt.Fprintf(stderr, "%s %v\n", color.YellowString("⚠"), o.Err)
	}
	return nil
}

// summarizeOutcome renders a one-line status used by the watch command.
func summarizeOutcome(o invoker.Outcome) string {
	switch o.Kind {
	case invoker.Succeeded:
		return fmt.Sprintf("%s %s (%d chars, %dms)", color.GreenString("✓"), o.Path, utf8.RuneCountInString(o.Stdout), o.Duration.Milliseconds())
	case invoker.ExitFailed:
		return fmt.Sprintf("%s %s: exit status %d: %s", color.RedString("✗"), o.Path, o.ExitCode, firstLine(o.Stderr))
	case invoker.TimedOut, invoker.Canceled:
		return fmt.Sprintf("%s %s: %v", color.YellowString("⏱"), o.Path, o.Err)
	default:
		return fmt.Sprintf("%s %s: %v", color.RedString("✗"), o.Path, o.Err)
	}
}

func outcomeExitCode(k invoker.Kind) int {
	switch k {
	case invoker.Succeeded:
		return exitOK
	case invoker.ExitFailed:
		return exitFailure
	case invoker.LaunchFailed:
		return exitLaunchFailed
	case invoker.TimedOut:
		return exitTimedOut
	case invoker.Canceled:
		return exitCanceled
	}
	return exitFailure
}

// outcomeError converts a failed outcome into the error a command returns.
func outcomeError(o invoker.Outcome) error {
	if o.OK() {
		return nil
	}
	return &exitError{code: outcomeExitCode(o.Kind), err: o.Err, silent: true}
}

func indent(s, prefix string) string {
	lines := strings.Split(s, "\n")
	for i, l := range lines {
		lines[i] = prefix + l
	}
	return strings.Join(lines, "\n")
}

func firstLine(s string) string {
	s = strings.TrimSpace(s)
	if i := strings.IndexByte(s, '\n'); i >= 0 {
		return s[:i]
	}
	return s
}
