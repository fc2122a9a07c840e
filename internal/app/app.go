package app

import (
	"context"
	"errors"
	"fmt"

	"go.uber.org/zap"
	"k8s.io/utils/clock"

	"github.com/vicrodh/qbz-control/internal/config"
	"github.com/vicrodh/qbz-control/internal/engine"
	"github.com/vicrodh/qbz-control/internal/logging"
	"github.com/vicrodh/qbz-control/internal/session"
	"github.com/vicrodh/qbz-control/internal/ui"
)

var _ ui.Actions = (*engine.Dispatcher)(nil)

// Options configure qbzctl. Empty fields use the config file or defaults.
type Options struct {
	ConfigPath  string
	SessionPath string
	LogPath     string
	LogLevel    string
	// Console logs to stderr instead of the log file. Used by one-shot
	// subcommands; the TUI owns the terminal and always logs to a file.
	Console bool
}

// Env is the assembled runtime shared by the TUI and the subcommands.
type Env struct {
	Config   config.Config
	Logger   *zap.SugaredLogger
	Sessions *session.Store
	Engine   *engine.Engine
	Clock    clock.WithTickerAndDelayedExecution
}

// Setup loads configuration and builds the logger, session store and engine.
// Callers must Close the returned Env.
func Setup(ctx context.Context, opts Options) (*Env, error) {
	cfg, err := config.Load(opts.ConfigPath)
	if err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}
	if opts.SessionPath != "" {
		cfg.SessionFile = opts.SessionPath
	}
	if opts.LogPath != "" {
		if cfg.LogFile, err = session.ExpandPath(opts.LogPath); err != nil {
			return nil, fmt.Errorf("log path: %w", err)
		}
	}
	if opts.LogLevel != "" {
		cfg.LogLevel = opts.LogLevel
	}

	var logger *zap.SugaredLogger
	if opts.Console {
		logger, err = logging.NewConsole(cfg.LogLevel)
	} else {
		logger, err = logging.New(cfg.LogFile, cfg.LogLevel)
	}
	if err != nil {
		return nil, fmt.Errorf("init logger: %w", err)
	}

	sessions, err := session.NewStore(cfg.SessionFile)
	if err != nil {
		_ = logger.Sync()
		return nil, fmt.Errorf("open session store: %w", err)
	}

	clk := clock.RealClock{}
	eng := engine.New(ctx, engine.Options{
		Logger:           logger.Named("engine"),
		Clock:            clk,
		PollInterval:     cfg.PollInterval,
		PushDebounce:     cfg.PushDebounce,
		VolumeDebounce:   cfg.VolumeDebounce,
		SeekDebounce:     cfg.SeekDebounce,
		RequestTimeout:   cfg.RequestTimeout,
		PushReconnectMax: cfg.PushReconnectMax,
	})

	return &Env{Config: cfg, Logger: logger, Sessions: sessions, Engine: eng, Clock: clk}, nil
}

// Close tears down the engine and flushes the logger.
func (e *Env) Close() error {
	err := e.Engine.Close()
	// Sync on stderr fails with EINVAL on some terminals; nothing to report.
	_ = e.Logger.Sync()
	return err
}

// Run boots the qbzctl TUI until the user quits or the context is cancelled.
func Run(ctx context.Context, opts Options) (err error) {
	env, err := Setup(ctx, opts)
	if err != nil {
		return err
	}
	defer func() {
		if cerr := env.Close(); cerr != nil {
			err = errors.Join(err, fmt.Errorf("shutdown: %w", cerr))
		}
	}()

	env.Logger.Infow("starting qbzctl",
		"session_file", env.Sessions.Path(),
		"poll_interval", env.Config.PollInterval,
	)

	// Connect before the UI starts so the first frame shows the outcome.
	sess := env.Sessions.Load()
	if sess.Complete() {
		if _, err := env.Engine.Connect(ctx, sess); err != nil {
			env.Logger.Warnw("initial connect failed", "error", err)
		}
	}

	StartSessionWatcher(ctx, env, sess)

	return ui.Run(ui.Options{
		Context: ctx,
		Store:   env.Engine.Store(),
		Actions: env.Engine.Actions(),
		Reconnect: func(ctx context.Context) error {
			_, err := env.Engine.Reconnect(ctx, env.Sessions.Load())
			return err
		},
		LogPath:   logPathFor(env, opts),
		ThemeName: env.Config.Theme,
	})
}

// logPathFor returns the file the log pane tails, or "" when logging to
// the console.
func logPathFor(env *Env, opts Options) string {
	if opts.Console {
		return ""
	}
	return env.Config.LogFile
}
