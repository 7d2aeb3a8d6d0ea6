// Package bootstrap runs a kvrest command with a uniform lifecycle.
//
// An App applies config defaults, validates, initializes the global logger,
// starts registered components, runs the task with SIGINT/SIGTERM
// cancellation and stops everything in reverse order.
//
//	app, err := bootstrap.NewApp(&settings)
//	app.RegisterComponent(kvrest.NewComponent(settings.Client()))
//	err = app.RunTask(ctx, func(ctx context.Context) error { ... })
package bootstrap
