// Package selector presents a file picker restricted to the supported
// document and image types.
package selector

import (
	"context"
	"errors"
	"fmt"
	"io"
	"path/filepath"

	"github.com/sirupsen/logrus"
)

var (
	// ErrCanceled is returned by a Backend when the user dismisses the dialog.
	ErrCanceled = errors.New("file selection canceled")
	// ErrUnavailable wraps failures of the dialog system itself.
	ErrUnavailable = errors.New("file dialog unavailable")
)

// Request is what a Backend is asked to show.
type Request struct {
	Title    string
	Filters  []FilterGroup
	StartDir string
}

// Backend shows a blocking file dialog. It returns ErrCanceled when the
// user cancels.
type Backend interface {
	Name() string
	PickFile(ctx context.Context, req Request) (string, error)
}

// Selector asks a Backend for a single file.
type Selector struct {
	backend  Backend
	filters  []FilterGroup
	title    string
	startDir string
	log      logrus.FieldLogger
}

// Option configures a Selector.
type Option func(*Selector)

// WithTitle sets the dialog title.
func WithTitle(title string) Option {
	return func(s *Selector) { s.title = title }
}

// WithStartDir sets the directory the dialog opens in.
func WithStartDir(dir string) Option {
	return func(s *Selector) { s.startDir = dir }
}

// WithLogger sets the logger.
func WithLogger(l logrus.FieldLogger) Option {
	return func(s *Selector) { s.log = l }
}

// New creates a Selector over backend offering the default filters.
func New(backend Backend, opts ...Option) *Selector {
	s := &Selector{
		backend: backend,
		filters: DefaultFilters(),
		title:   "Select a policy document",
	}
	for _, opt := range opts {
		opt(s)
	}
	if s.log == nil {
		l := logrus.New()
		l.SetOutput(io.Discard)
		s.log = l
	}
	return s
}

// BackendName names the dialog backend in use.
func (s *Selector) BackendName() string {
	return s.backend.Name()
}

// Filters returns the groups offered by the dialog.
func (s *Selector) Filters() []FilterGroup {
	return s.filters
}

// Select blocks until the user picks a file or cancels. A cancel returns
// ok == false with a nil error; a failing dialog returns an error. When ctx
// ends first its error is returned as is.
func (s *Selector) Select(ctx context.Context) (path string, ok bool, err error) {
	log := s.log.WithField("backend", s.backend.Name())

	picked, err := s.backend.PickFile(ctx, Request{
		Title:    s.title,
		Filters:  s.filters,
		StartDir: s.startDir,
	})
	if errors.Is(err, ErrCanceled) {
		log.Debug("File selection canceled")
		return "", false, nil
	}
	if ctxErr := ctx.Err(); err != nil && ctxErr != nil && errors.Is(err, ctxErr) {
		log.WithError(err).Debug("File selection interrupted")
		return "", false, err
	}
	if err != nil {
		log.WithError(err).Error("File dialog failed")
		return "", false, fmt.Errorf("select file: %w", err)
	}
	if picked == "" {
		return "", false, nil
	}

	abs, err := filepath.Abs(picked)
	if err != nil {
		return "", false, fmt.Errorf("resolve selected path %q: %w", picked, err)
	}
	log.WithField("path", abs).Info("File selected")
	return abs, true, nil
}
