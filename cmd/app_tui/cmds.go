package app_tui

import (
	"context"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/mattsolo1/grove-policyscan/pkg/invoker"
)

type selectedMsg struct {
	path string
	ok   bool
	err  error
}

type outcomeMsg struct {
	outcome invoker.Outcome
}

func selectCmd(p Picker) tea.Cmd {
	return func() tea.Msg {
		path, ok, err := p.Select(context.Background())
		return selectedMsg{path: path, ok: ok, err: err}
	}
}

func processCmd(ctx context.Context, p Processor, path string) tea.Cmd {
	return func() tea.Msg {
		return outcomeMsg{outcome: p.Invoke(ctx, path)}
	}
}
