// Package app_tui is the interactive front end: pick a file, run the
// processor, read the result.
package app_tui

import (
	"context"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/mattsolo1/grove-policyscan/pkg/invoker"
)

// Picker shows the file dialog.
type Picker interface {
	Select(ctx context.Context) (path string, ok bool, err error)
}

// Processor runs the external processor.
type Processor interface {
	Invoke(ctx context.Context, path string) invoker.Outcome
}

type phase int

const (
	phaseIdle phase = iota
	phaseSelecting
	phaseProcessing
	phaseDone
)

// Model is the bubbletea model of the UI.
type Model struct {
	picker    Picker
	processor Processor
	onSelect  func(path string)
	onOutcome func(o invoker.Outcome)

	keys     KeyMap
	help     help.Model
	spinner  spinner.Model
	viewport viewport.Model

	phase   phase
	path    string
	outcome *invoker.Outcome
	err     error
	notice  string
	cancel  context.CancelFunc

	width    int
	height   int
	quitting bool
}

// Option configures a Model.
type Option func(*Model)

// WithInitialPath preselects a file.
func WithInitialPath(path string) Option {
	return func(m *Model) { m.path = path }
}

// OnSelect is called with every confirmed selection.
func OnSelect(fn func(path string)) Option {
	return func(m *Model) { m.onSelect = fn }
}

// OnOutcome is called with every finished run.
func OnOutcome(fn func(o invoker.Outcome)) Option {
	return func(m *Model) { m.onOutcome = fn }
}

// New creates the model.
func New(picker Picker, processor Processor, opts ...Option) Model {
	m := Model{
		picker:    picker,
		processor: processor,
		keys:      NewKeyMap(),
		help:      help.New(),
		spinner:   spinner.New(spinner.WithSpinner(spinner.Dot), spinner.WithStyle(spinnerStyle)),
		viewport:  viewport.New(80, 20),
	}
	for _, opt := range opts {
		opt(&m)
	}
	return m
}

func (m Model) Init() tea.Cmd {
	return nil
}

// Outcome returns the last finished run, if any.
func (m Model) Outcome() (invoker.Outcome, bool) {
	if m.outcome == nil {
		return invoker.Outcome{}, false
	}
	return *m.outcome, true
}

// Path returns the selected file.
func (m Model) Path() string {
	return m.path
}

func (m Model) busy() bool {
	return m.phase == phaseSelecting || m.phase == phaseProcessing
}
