// Package bootstrap gives streamkit binaries a uniform lifecycle.
//
// NewApp applies config defaults, validates, initializes the logger and
// registers the component loggers. RunTask starts telemetry when enabled,
// runs the task with SIGINT/SIGTERM cancellation and shuts telemetry down
// within the graceful timeout.
//
//	app, err := bootstrap.NewApp(cfg)
//	err = app.RunTask(ctx, func(ctx context.Context) error {
//	    return runPlans(ctx, app.StreamOptions())
//	})
package bootstrap
