// Command kvrest talks to a kvrest key-value service from the shell.
//
//	kvrest --api-key KEY create-bucket photos
//	kvrest put photos cover '{"w":800}'
//	kvrest get photos cover
//	kvrest admin create-kv team-a --master-key MASTER
//
// Settings come from config.yml, .env, KVREST_* environment variables and
// flags, in increasing precedence.
package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"maps"
	"os"
	"text/tabwriter"

	"github.com/spf13/pflag"

	"github.com/kbukum/kvrest/bootstrap"
	"github.com/kbukum/kvrest/config"
	apperrors "github.com/kbukum/kvrest/errors"
	"github.com/kbukum/kvrest/kvrest"
	"github.com/kbukum/kvrest/logger"
	"github.com/kbukum/kvrest/version"
)

const (
	exitOK    = 0
	exitError = 1
	exitUsage = 2
)

func main() {
	os.Exit(run(context.Background(), os.Args[1:], os.Stdout, os.Stderr))
}

// usageError marks mistakes on the command line.
type usageError struct {
	err error
}

func (e *usageError) Error() string { return e.err.Error() }
func (e *usageError) Unwrap() error { return e.err }

func usageErrorf(format string, args ...any) error {
	return &usageError{err: fmt.Errorf(format, args...)}
}

func run(ctx context.Context, args []string, stdout, stderr io.Writer) int {
	err := execute(ctx, args, stdout, stderr)
	if err == nil || errors.Is(err, pflag.ErrHelp) {
		return exitOK
	}
	fmt.Fprintf(stderr, "error: %v\n", err)
	return exitCode(err)
}

func exitCode(err error) int {
	var ue *usageError
	if errors.As(err, &ue) {
		return exitUsage
	}
	if apperrors.IsInputCode(kvrest.ToAppError(err).Code) {
		return exitUsage
	}
	return exitError
}

func newGlobalFlags(w io.Writer) *pflag.FlagSet {
	fs := pflag.NewFlagSet("kvrest", pflag.ContinueOnError)
	fs.SetOutput(w)
	fs.SetInterspersed(false)
	fs.String("config", "", "path to config.yml (searched in standard locations when empty)")
	fs.String("env-file", "", "path to a .env file")
	fs.String("api-key", "", "API key (env KVREST_API_KEY)")
	fs.String("base-url", "", "service base URL (default "+kvrest.DefaultBaseURL+")")
	fs.Duration("timeout", 0, "per-request timeout (default 30s)")
	fs.String("log-level", "", "debug, info, warn or error (default warn)")
	fs.String("log-format", "", "console or json")
	fs.String("otel-endpoint", "", "OTLP/HTTP collector host:port; enables traces and metrics")
	fs.Usage = func() { printUsage(w, fs) }
	return fs
}

func printUsage(w io.Writer, fs *pflag.FlagSet) {
	fmt.Fprintf(w, "Usage: kvrest [flags] <command> [args]\n\nCommands:\n")
	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	for _, c := range commands {
		fmt.Fprintf(tw, "  %s\t%s\n", c.usage(), c.summary)
	}
	tw.Flush()
	fmt.Fprintf(w, "\nFlags:\n%s", fs.FlagUsages())
}

func execute(ctx context.Context, args []string, stdout, stderr io.Writer) error {
	global := newGlobalFlags(stderr)
	if err := global.Parse(args); err != nil {
		if errors.Is(err, pflag.ErrHelp) {
			return err
		}
		return &usageError{err: err}
	}

	rest := global.Args()
	if len(rest) == 0 {
		global.Usage()
		return usageErrorf("missing command")
	}
	name, rest := rest[0], rest[1:]
	if name == "admin" {
		if len(rest) == 0 {
			return usageErrorf("admin: missing subcommand (create-kv, change-key)")
		}
		name, rest = "admin "+rest[0], rest[1:]
	}
	cmd, ok := lookupCommand(name)
	if !ok {
		return usageErrorf("unknown command %q", name)
	}

	cmdFlags := pflag.NewFlagSet(name, pflag.ContinueOnError)
	cmdFlags.SetOutput(stderr)
	if cmd.flags != nil {
		cmd.flags(cmdFlags)
	}
	if err := cmdFlags.Parse(rest); err != nil {
		if errors.Is(err, pflag.ErrHelp) {
			return err
		}
		return &usageError{err: err}
	}
	if cmdFlags.NArg() != len(cmd.args) {
		return usageErrorf("usage: kvrest %s", cmd.usage())
	}

	e := &env{flags: cmdFlags, args: cmdFlags.Args(), out: stdout}
	if cmd.kind == needsNothing {
		return cmd.run(ctx, e)
	}

	settings, err := loadSettings(global, cmdFlags)
	if err != nil {
		return err
	}
	app, err := bootstrap.NewApp(settings)
	if err != nil {
		return &usageError{err: err}
	}
	e.app = app
	logger.Register("kvrest", app.Logger.WithComponent("kvrest").WithFields(map[string]interface{}{
		"command": cmd.name,
	}))

	opts, err := setupTelemetry(ctx, app)
	if err != nil {
		return err
	}

	task := func(ctx context.Context) error { return cmd.run(ctx, e) }
	switch cmd.kind {
	case needsClient:
		comp := kvrest.NewComponent(settings.clientConfig(), opts...)
		if err := app.RegisterComponent(comp); err != nil {
			return err
		}
		app.OnConfigure(func(_ context.Context, _ *bootstrap.App[*Settings]) error {
			e.client = comp.Client()
			return nil
		})
	case needsAdmin:
		task = func(ctx context.Context) error {
			admin, err := kvrest.NewAdmin(settings.adminConfig(), opts...)
			if err != nil {
				return err
			}
			defer admin.Close()
			e.admin = admin
			return cmd.run(ctx, e)
		}
	}
	return app.RunTask(ctx, task)
}

// loadSettings layers config files, environment and both flag sets.
func loadSettings(global, cmdFlags *pflag.FlagSet) (*Settings, error) {
	all := pflag.NewFlagSet("kvrest", pflag.ContinueOnError)
	all.AddFlagSet(global)
	all.AddFlagSet(cmdFlags)

	keys := maps.Clone(flagKeys)
	for name, key := range commandFlagKeys {
		if cmdFlags.Lookup(name) != nil {
			keys[name] = key
		}
	}

	configFile, _ := global.GetString("config")
	envFile, _ := global.GetString("env-file")

	var s Settings
	err := config.LoadConfig(serviceName, &s,
		config.WithConfigFile(configFile),
		config.WithEnvFile(envFile),
		config.WithFlags(all, keys),
	)
	if err != nil {
		return nil, err
	}
	return &s, nil
}

func versionString() string {
	return version.GetVersionInfo().String()
}
