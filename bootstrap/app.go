package bootstrap

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/kbukum/streamkit/logger"
	"github.com/kbukum/streamkit/observability"
	"github.com/kbukum/streamkit/stream"
)

// App represents a streamkit binary with uniform lifecycle management.
// The type parameter C is the config type; any struct embedding
// config.ServiceConfig satisfies Config.
type App[C Config] struct {
	Name    string
	Version string
	Cfg     C
	Logger  *logger.Logger
	Metrics *observability.StreamMetrics
	Summary *Summary

	gracefulTimeout time.Duration
	onStart         []Hook
	onStop          []Hook
}

// NewApp creates an application from a typed config. It applies defaults,
// validates the config and initializes the logger.
func NewApp[C Config](cfg C, opts ...Option) (*App[C], error) {
	cfg.ApplyDefaults()
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("config validation: %w", err)
	}
	base := cfg.GetServiceConfig()

	app := &App[C]{
		Name:            base.Name,
		Version:         base.Version,
		Cfg:             cfg,
		gracefulTimeout: 15 * time.Second,
	}

	o := resolveOptions(opts)
	if o.gracefulTimeout != nil {
		app.gracefulTimeout = *o.gracefulTimeout
	}
	if o.logger != nil {
		app.Logger = o.logger
		logger.SetGlobalLogger(o.logger)
	} else {
		logger.Init(base.Logging)
		app.Logger = logger.GetGlobalLogger()
	}
	logger.RegisterDefaults()

	app.Summary = NewSummary(base.Name, base.Version)
	return app, nil
}

// StreamOptions returns the stream options derived from the config.
// Call it from within the task, after telemetry is initialized.
func (a *App[C]) StreamOptions() []stream.Option {
	return a.Cfg.GetServiceConfig().Stream.Options(a.Metrics)
}

// RunTask runs a finite task. The task's context is canceled on SIGINT or
// SIGTERM; shutdown hooks run whether or not the task fails.
func (a *App[C]) RunTask(ctx context.Context, task func(ctx context.Context) error) error {
	start := time.Now()
	a.Logger.Info("starting application", logger.Fields("name", a.Name, "version", a.Version))

	if err := a.startTelemetry(ctx); err != nil {
		return fmt.Errorf("telemetry: %w", err)
	}
	if err := runHooks(ctx, a.onStart); err != nil {
		_ = a.stop()
		return fmt.Errorf("onStart hook failed: %w", err)
	}
	a.Summary.SetStartupDuration(time.Since(start))

	taskCtx, cancel := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer cancel()

	taskErr := task(taskCtx)
	if taskErr != nil && taskCtx.Err() != nil && ctx.Err() == nil {
		a.Logger.Info("task canceled by signal")
	}

	if stopErr := a.stop(); stopErr != nil && taskErr == nil {
		return stopErr
	}
	return taskErr
}

// DisplaySummary writes the run summary to w.
func (a *App[C]) DisplaySummary(w io.Writer) {
	a.Summary.Display(w)
}

// startTelemetry initializes tracing and metrics exporters when enabled
// and always creates the stream instruments, which bind to the no-op
// provider otherwise.
func (a *App[C]) startTelemetry(ctx context.Context) error {
	tc := a.Cfg.GetServiceConfig().Telemetry
	if tc.Enabled {
		tp, err := observability.InitTracer(ctx, tc)
		if err != nil {
			return err
		}
		a.OnStop(tp.Shutdown)

		mp, err := observability.InitMeter(ctx, tc)
		if err != nil {
			return err
		}
		a.OnStop(mp.Shutdown)
	}

	m, err := observability.NewStreamMetrics(observability.Meter(a.Name))
	if err != nil {
		return err
	}
	a.Metrics = m
	return nil
}

// stop runs the stop hooks within the graceful timeout.
func (a *App[C]) stop() error {
	ctx, cancel := context.WithTimeout(context.Background(), a.gracefulTimeout)
	defer cancel()

	err := runStopHooks(ctx, a.onStop)
	if err != nil {
		a.Logger.Error("shutdown completed with errors", logger.ErrorFields("shutdown", err))
		return err
	}
	a.Logger.Debug("shutdown complete")
	return nil
}
