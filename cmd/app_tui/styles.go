package app_tui

import (
	"github.com/charmbracelet/lipgloss"

	"github.com/mattsolo1/grove-policyscan/pkg/invoker"
)

var (
	colorGreen  = lipgloss.Color("2")
	colorYellow = lipgloss.Color("3")
	colorBlue   = lipgloss.Color("4")
	colorPink   = lipgloss.Color("5")
	colorMuted  = lipgloss.Color("8")

	titleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(colorBlue)
	labelStyle   = lipgloss.NewStyle().Foreground(colorMuted)
	pathStyle    = lipgloss.NewStyle().Bold(true)
	spinnerStyle = lipgloss.NewStyle().Foreground(colorBlue)
	noticeStyle  = lipgloss.NewStyle().Foreground(colorYellow)
	errorStyle   = lipgloss.NewStyle().Foreground(colorPink)

	outputStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(colorMuted).
			Padding(0, 1)

	kindStyles = map[invoker.Kind]lipgloss.Style{
		invoker.Succeeded:    lipgloss.NewStyle().Foreground(colorGreen).Bold(true),
		invoker.ExitFailed:   lipgloss.NewStyle().Foreground(colorPink).Bold(true),
		invoker.LaunchFailed: lipgloss.NewStyle().Foreground(colorPink).Bold(true),
		invoker.TimedOut:     lipgloss.NewStyle().Foreground(colorYellow).Bold(true),
		invoker.Canceled:     lipgloss.NewStyle().Foreground(colorYellow),
	}
)
