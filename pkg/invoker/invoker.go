// Package invoker runs the external processor on a selected file and
// classifies how the run ended.
package invoker

import (
	"context"
	"errors"
	"fmt"
	"io"
	"time"
	"unicode/utf8"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/mattsolo1/grove-policyscan/pkg/exec"
)

// Config describes the processor program. The selected path is appended
// after Args as the last argument.
type Config struct {
	Command string
	Args    []string
	WorkDir string
	Env     []string
	// Timeout bounds a single run. Zero disables it.
	Timeout time.Duration
}

// Invoker launches the processor. It holds no per-call state and is safe
// for concurrent use.
type Invoker struct {
	cfg      Config
	executor exec.CommandExecutor
	log      logrus.FieldLogger
}

// Option configures an Invoker.
type Option func(*Invoker)

// WithExecutor replaces the command executor.
func WithExecutor(e exec.CommandExecutor) Option {
	return func(i *Invoker) { i.executor = e }
}

// WithLogger sets the logger diagnostics are written to.
func WithLogger(l logrus.FieldLogger) Option {
	return func(i *Invoker) { i.log = l }
}

// New creates an Invoker for cfg.
func New(cfg Config, opts ...Option) *Invoker {
	i := &Invoker{
		cfg:      cfg,
		executor: &exec.RealCommandExecutor{},
	}
	for _, opt := range opts {
		opt(i)
	}
	if i.log == nil {
		l := logrus.New()
		l.SetOutput(io.Discard)
		i.log = l
	}
	return i
}

// Config returns the processor configuration.
func (i *Invoker) Config() Config {
	return i.cfg
}

// Invoke runs the processor with path as its argument and waits for it.
// The path is not checked for existence or type.
func (i *Invoker) Invoke(ctx context.Context, path string) Outcome {
	out := Outcome{
		Path:      path,
		RequestID: uuid.NewString(),
	}
	log := i.log.WithFields(logrus.Fields{
		"request_id": out.RequestID,
		"path":       path,
	})

	if i.cfg.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, i.cfg.Timeout)
		defer cancel()
	}

	args := make([]string, 0, len(i.cfg.Args)+1)
	args = append(args, i.cfg.Args...)
	args = append(args, path)

	log.WithFields(logrus.Fields{
		"command": i.cfg.Command,
		"args":    args,
		"timeout": i.cfg.Timeout.String(),
	}).Debug("Invoking processor")

	start := time.Now()
	res, err := i.executor.Run(ctx, exec.Command{
		Name: i.cfg.Command,
		Args: args,
		Dir:  i.cfg.WorkDir,
		Env:  i.cfg.Env,
	})
	out.Duration = time.Since(start)
	out.ExitCode = -1
	if res != nil {
		out.Stdout = decodeLossy(res.Stdout)
		out.Stderr = decodeLossy(res.Stderr)
		out.ExitCode = res.ExitCode
		if res.Duration > 0 {
			out.Duration = res.Duration
		}
	}

	var (
		startErr *exec.StartError
		execErr  *exec.ExecError
	)
	switch {
	case err == nil:
		out.Kind = Succeeded
		out.ExitCode = 0
	case errors.Is(err, context.DeadlineExceeded):
		out.Kind = TimedOut
		out.Err = ErrTimeout
		if i.cfg.Timeout > 0 {
			out.Err = fmt.Errorf("%w after %s", ErrTimeout, i.cfg.Timeout)
		}
	case errors.Is(err, context.Canceled):
		out.Kind = Canceled
		out.Err = fmt.Errorf("processor run canceled: %w", err)
	case errors.As(err, &execErr):
		out.Kind = ExitFailed
		out.ExitCode = execErr.ExitCode
		if res == nil {
			out.Stderr = decodeLossy([]byte(execErr.Output))
		}
		out.Err = &ExitError{Code: out.ExitCode, Stderr: out.Stderr}
	case errors.As(err, &startErr):
		out.Kind = LaunchFailed
		out.Err = &LaunchError{Command: i.cfg.Command, Err: startErr.Err}
	default:
		out.Kind = LaunchFailed
		out.Err = &LaunchError{Command: i.cfg.Command, Err: err}
	}

	fields := logrus.Fields{
		"kind":        out.Kind.String(),
		"exit_code":   out.ExitCode,
		"duration_ms": out.Duration.Milliseconds(),
	}
	switch out.Kind {
	case Succeeded:
		log.WithFields(fields).
			WithField("chars", utf8.RuneCountInString(out.Stdout)).
			Info("Processor succeeded")
	case ExitFailed:
		log.WithFields(fields).WithField("stderr", out.Stderr).Warn("Processor exited with failure")
	default:
		log.WithFields(fields).WithError(out.Err).Error("Processor did not complete")
	}

	return out
}
