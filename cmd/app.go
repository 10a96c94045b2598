package cmd

import (
	"context"
	"io"
	"os"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/mattsolo1/grove-policyscan/pkg/exec"
	"github.com/mattsolo1/grove-policyscan/pkg/invoker"
	"github.com/mattsolo1/grove-policyscan/pkg/logging"
	"github.com/mattsolo1/grove-policyscan/pkg/notify"
	"github.com/mattsolo1/grove-policyscan/pkg/selector"
	"github.com/mattsolo1/grove-policyscan/pkg/state"
)

// app holds the components a command needs, built from the configuration.
type app struct {
	cfg        *Config
	configFile string
	log        *logrus.Logger
	logCloser  io.Closer
	executor   exec.CommandExecutor
	invoker    *invoker.Invoker
	store      *state.Store
	notifier   notify.Notifier
}

// appOptions adjust how newApp builds the components.
type appOptions struct {
	// logFallback receives logs when log.file is not configured.
	logFallback io.Writer
	// defaultLogFile is used when log.file is not configured.
	defaultLogFile string
}

func newApp(cmd *cobra.Command, opts appOptions) (*app, error) {
	cfg, used, err := loadConfig(rootConfigPath, envFileName)
	if err != nil {
		return nil, err
	}

	logCfg := cfg.Log
	if rootVerbose {
		logCfg.Level = "debug"
	}
	if logCfg.File == "" {
		logCfg.File = opts.defaultLogFile
	}
	fallback := opts.logFallback
	if fallback == nil {
		fallback = cmd.ErrOrStderr()
	}
	logger, closer, err := logging.New(logCfg, fallback)
	if err != nil {
		return nil, err
	}

	a := &app{
		cfg:        cfg,
		configFile: used,
		log:        logger,
		logCloser:  closer,
		executor:   &exec.RealCommandExecutor{},
		notifier:   notify.Nop{},
	}
	if cfg.Notify.Enabled {
		a.notifier = notify.Desktop{}
	}
	a.invoker = invoker.New(cfg.InvokerConfig(),
		invoker.WithExecutor(a.executor),
		invoker.WithLogger(logger),
	)

	if store, err := state.NewDefaultStore(); err == nil {
		a.store = store
	} else {
		logger.WithError(err).Warn("State file unavailable; selections will not be remembered")
	}

	if used != "" {
		logger.WithField("config_file", used).Debug("Loaded configuration")
	}
	return a, nil
}

func (a *app) Close() error {
	return a.logCloser.Close()
}

// selector builds the file selector for the configured backend.
func (a *app) selector(in *os.File, out io.Writer) (*selector.Selector, error) {
	backend, err := selector.NewBackend(a.cfg.Dialog.Backend, in, out)
	if err != nil {
		return nil, err
	}
	opts := []selector.Option{
		selector.WithTitle(a.cfg.Dialog.Title),
		selector.WithLogger(a.log),
	}
	if a.cfg.Dialog.RememberLastDir && a.store != nil {
		if dir := a.store.LastDir(); dir != "" {
			opts = append(opts, selector.WithStartDir(dir))
		}
	}
	return selector.New(backend, opts...), nil
}

// recordSelection remembers path; failures are logged and otherwise ignored.
func (a *app) recordSelection(path string) {
	if a.store == nil {
		return
	}
	if err := a.store.RecordSelection(path); err != nil {
		a.log.WithError(err).Warn("Failed to record selection")
	}
}

// finish records and announces an outcome.
func (a *app) finish(o invoker.Outcome) {
	if a.store != nil {
		if err := a.store.RecordOutcome(o.Kind.String(), time.Now()); err != nil {
			a.log.WithError(err).Warn("Failed to record outcome")
		}
	}
	if err := notify.Outcome(a.notifier, o); err != nil {
		a.log.WithError(err).Debug("Notification failed")
	}
}

// invoke runs the processor, honouring a per-command timeout override.
func (a *app) invoke(ctx context.Context, path string, timeout time.Duration) invoker.Outcome {
	inv := a.invoker
	if timeout > 0 {
		cfg := inv.Config()
		cfg.Timeout = timeout
		inv = invoker.New(cfg, invoker.WithExecutor(a.executor), invoker.WithLogger(a.log))
	}
	o := inv.Invoke(ctx, path)
	a.finish(o)
	return o
}
