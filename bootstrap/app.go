package bootstrap

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/kbukum/pipekit/logger"
)

// App runs a finite job with a uniform lifecycle: validated config, logger
// initialization, start hooks, the task itself and stop hooks. The type
// parameter C is the config type; any struct embedding
// config.ServiceConfig satisfies Config.
//
//	app, err := bootstrap.NewApp(&cfg)
//	app.OnStart(startServer)
//	app.OnStop(stopServer)
//	err = app.RunTask(ctx, job.Run)
type App[C Config] struct {
	Name    string
	Version string
	Cfg     C
	Logger  *logger.Logger

	gracefulTimeout time.Duration
	signals         []os.Signal

	onStart []Hook
	onStop  []Hook
}

// NewApp applies defaults to cfg, validates it and initializes the logger.
func NewApp[C Config](cfg C, opts ...Option) (*App[C], error) {
	cfg.ApplyDefaults()
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("config validation: %w", err)
	}

	base := cfg.GetServiceConfig()
	o := resolveOptions(opts)

	app := &App[C]{
		Name:            base.Name,
		Version:         base.Version,
		Cfg:             cfg,
		gracefulTimeout: o.gracefulTimeout,
		signals:         o.signals,
	}

	if o.logger != nil {
		app.Logger = o.logger
	} else {
		logger.Init(&base.Logging)
		logger.RegisterDefaults()
		app.Logger = logger.GetGlobalLogger()
	}
	return app, nil
}

// RunTask runs the start hooks, then task, then the stop hooks. The task's
// context is canceled on SIGINT or SIGTERM. Stop hooks always run once the
// start hooks have succeeded, and the task's error wins over theirs.
func (a *App[C]) RunTask(ctx context.Context, task func(ctx context.Context) error) error {
	a.Logger.Info("starting application", logger.Fields("name", a.Name, "version", a.Version))

	if err := runHooks(ctx, a.onStart); err != nil {
		return fmt.Errorf("onStart hook failed: %w", err)
	}

	taskCtx, stop := signal.NotifyContext(ctx, a.signals...)
	defer stop()

	start := time.Now()
	taskErr := task(taskCtx)
	if taskCtx.Err() != nil && ctx.Err() == nil {
		a.Logger.Info("task canceled by signal")
	}
	a.Logger.Info("task finished", logger.DurationFields("task", time.Since(start)))

	if stopErr := a.shutdown(); stopErr != nil && taskErr == nil {
		return stopErr
	}
	return taskErr
}

// shutdown runs the stop hooks within the graceful timeout.
func (a *App[C]) shutdown() error {
	ctx, cancel := context.WithTimeout(context.Background(), a.gracefulTimeout)
	defer cancel()

	var firstErr error
	for i := len(a.onStop) - 1; i >= 0; i-- {
		if err := a.onStop[i](ctx); err != nil {
			a.Logger.Error("onStop hook error", logger.Fields(logger.FieldError, err.Error()))
			if firstErr == nil {
				firstErr = err
			}
		}
	}
	a.Logger.Info("application shutdown complete")
	return firstErr
}

var defaultSignals = []os.Signal{syscall.SIGINT, syscall.SIGTERM}
