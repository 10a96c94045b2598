package app_tui

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"

	"github.com/mattsolo1/grove-policyscan/pkg/invoker"
)

func (m Model) View() string {
	if m.quitting {
		return ""
	}

	var b strings.Builder
	b.WriteString(titleStyle.Render("Policy Scan"))
	b.WriteString("\n\n")

	file := labelStyle.Render("none")
	if m.path != "" {
		file = pathStyle.Render(m.path)
	}
	b.WriteString(labelStyle.Render("File: ") + file)
	b.WriteString("\n")
	b.WriteString(m.statusLine())
	b.WriteString("\n")

	if m.outcome != nil {
		b.WriteString(outputStyle.Width(m.viewport.Width).Render(m.viewport.View()))
		b.WriteString("\n")
	}

	b.WriteString(m.help.View(m.keys))
	return lipgloss.NewStyle().Margin(1, 2).Render(b.String())
}

func (m Model) statusLine() string {
	switch {
	case m.phase == phaseSelecting:
		return labelStyle.Render("Waiting for file dialog…")
	case m.phase == phaseProcessing:
		line := m.spinner.View() + " Processing"
		if m.notice != "" {
			line += " " + noticeStyle.Render(m.notice)
		}
		return line
	case m.err != nil:
		return errorStyle.Render("✗ " + m.err.Error())
	case m.notice != "":
		return noticeStyle.Render(m.notice)
	case m.outcome != nil:
		return kindLabel(*m.outcome)
	default:
		return labelStyle.Render("Ready")
	}
}

func kindLabel(o invoker.Outcome) string {
	style := kindStyles[o.Kind]
	switch o.Kind {
	case invoker.Succeeded:
		return style.Render("✓ Processed") + labelStyle.Render(fmt.Sprintf(" in %s", o.Duration.Round(time.Millisecond)))
	case invoker.ExitFailed:
		return style.Render(fmt.Sprintf("✗ Processor failed (exit %d)", o.ExitCode))
	case invoker.LaunchFailed:
		return style.Render("✗ Processor could not be started")
	case invoker.TimedOut:
		return style.Render("✗ Processor timed out")
	case invoker.Canceled:
		return style.Render("Canceled")
	default:
		return o.Kind.String()
	}
}

// outcomeBody is the viewport text: stdout on success, the failure cause otherwise.
func outcomeBody(o invoker.Outcome) string {
	switch o.Kind {
	case invoker.Succeeded:
		if o.Stdout == "" {
			return labelStyle.Render("(no output)")
		}
		return o.Stdout
	case invoker.ExitFailed:
		if o.Stderr == "" {
			return labelStyle.Render("(no error output)")
		}
		return o.Stderr
	default:
		if o.Err != nil {
			return o.Err.Error()
		}
		return o.String()
	}
}
