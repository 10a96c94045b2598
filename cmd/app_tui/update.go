package app_tui

import (
	"context"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
)

// chrome is the number of lines drawn around the output viewport.
const chrome = 8

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.help.Width = msg.Width
		m.viewport.Width = max(msg.Width-4, 10)
		m.viewport.Height = max(msg.Height-chrome, 3)
		return m, nil

	case tea.KeyMsg:
		return m.handleKey(msg)

	case selectedMsg:
		m.phase = phaseIdle
		m.err = nil
		m.notice = ""
		switch {
		case msg.err != nil:
			m.err = msg.err
		case !msg.ok:
			m.notice = "No file selected."
		default:
			m.path = msg.path
			m.outcome = nil
			m.viewport.SetContent("")
			if m.onSelect != nil {
				m.onSelect(msg.path)
			}
		}
		return m, nil

	case outcomeMsg:
		o := msg.outcome
		m.phase = phaseDone
		m.outcome = &o
		m.notice = ""
		if m.cancel != nil {
			m.cancel()
			m.cancel = nil
		}
		m.viewport.SetContent(outcomeBody(o))
		m.viewport.GotoTop()
		if m.onOutcome != nil {
			m.onOutcome(o)
		}
		return m, nil

	case spinner.TickMsg:
		if m.phase != phaseProcessing {
			return m, nil
		}
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd
	}

	return m, nil
}

func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Quit):
		if m.cancel != nil {
			m.cancel()
			m.cancel = nil
		}
		m.quitting = true
		return m, tea.Quit

	case key.Matches(msg, m.keys.Help):
		m.help.ShowAll = !m.help.ShowAll
		return m, nil

	case key.Matches(msg, m.keys.Open):
		if m.busy() {
			return m, nil
		}
		m.phase = phaseSelecting
		m.notice = ""
		m.err = nil
		return m, selectCmd(m.picker)

	case key.Matches(msg, m.keys.Process):
		if m.busy() {
			return m, nil
		}
		if m.path == "" {
			m.notice = "Press o to choose a file first."
			return m, nil
		}
		m, run := m.startRun()
		return m, tea.Batch(run, m.spinner.Tick)

	case key.Matches(msg, m.keys.Cancel):
		if m.phase == phaseProcessing && m.cancel != nil {
			m.cancel()
			m.cancel = nil
			m.notice = "Canceling…"
		}
		return m, nil
	}

	var cmd tea.Cmd
	m.viewport, cmd = m.viewport.Update(msg)
	return m, cmd
}

// startRun moves to the processing phase and returns the command running
// the processor under a cancellable context.
func (m Model) startRun() (Model, tea.Cmd) {
	ctx, cancel := context.WithCancel(context.Background())
	m.cancel = cancel
	m.phase = phaseProcessing
	m.notice = ""
	m.err = nil
	return m, processCmd(ctx, m.processor, m.path)
}
