// Command pipekit reads lines from a file or stdin, maps every line through
// the configured mappers and writes the results to stdout. While it runs
// the progress server, when enabled, reports pipe statuses, tracker
// progress and run history.
package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"os"

	"github.com/kbukum/pipekit/bootstrap"
	"github.com/kbukum/pipekit/config"
	"github.com/kbukum/pipekit/observability"
	"github.com/kbukum/pipekit/server"
	"github.com/kbukum/pipekit/version"
)

const (
	exitOK    = 0
	exitError = 1
	exitUsage = 2
)

func main() {
	os.Exit(run(context.Background(), os.Args[1:], os.Stdin, os.Stdout, os.Stderr))
}

type cliFlags struct {
	configFile string
	envFile    string
	input      string
	serve      bool
	version    bool
}

func parseFlags(args []string, stderr io.Writer) (*cliFlags, error) {
	var f cliFlags
	flags := flag.NewFlagSet(serviceName, flag.ContinueOnError)
	flags.SetOutput(stderr)
	flags.StringVar(&f.configFile, "config", "", "path to config.yml")
	flags.StringVar(&f.envFile, "env", "", "path to a .env file")
	flags.StringVar(&f.input, "input", "", "file to read lines from (default stdin)")
	flags.BoolVar(&f.serve, "serve", false, "start the progress server even if disabled in config")
	flags.BoolVar(&f.version, "version", false, "print version information and exit")
	if err := flags.Parse(args); err != nil {
		return nil, err
	}
	return &f, nil
}

func run(ctx context.Context, args []string, stdin io.Reader, stdout, stderr io.Writer) int {
	f, err := parseFlags(args, stderr)
	if err != nil {
		return exitUsage
	}
	if f.version {
		fmt.Fprintln(stdout, version.GetVersionInfo().String())
		return exitOK
	}

	var cfg AppConfig
	opts := []config.LoaderOption{config.WithEnvPrefix("PIPEKIT")}
	if f.configFile != "" {
		opts = append(opts, config.WithConfigFile(f.configFile))
	}
	if f.envFile != "" {
		opts = append(opts, config.WithEnvFile(f.envFile))
	}
	if err := config.LoadConfig(serviceName, &cfg, opts...); err != nil {
		fmt.Fprintf(stderr, "pipekit: %v\n", err)
		return exitError
	}
	if f.serve {
		cfg.Server.Enabled = true
	}

	app, err := bootstrap.NewApp(&cfg)
	if err != nil {
		fmt.Fprintf(stderr, "pipekit: %v\n", err)
		return exitError
	}

	tel := newTelemetry(cfg.Telemetry, &cfg.ServiceConfig)
	app.OnStart(tel.start)
	app.OnStop(tel.stop)

	monitor := server.NewMonitor()
	if cfg.Server.Enabled {
		srv := server.New(cfg.Server, app.Logger)
		srv.ApplyDefaults(cfg.Name, monitor)
		app.OnStart(srv.Start)
		app.OnStop(srv.Stop)
	}

	err = app.RunTask(ctx, func(ctx context.Context) error {
		in, closeIn, err := openInput(f.input, stdin)
		if err != nil {
			return err
		}
		defer closeIn()

		metrics, err := observability.NewMetrics(observability.Meter("github.com/kbukum/pipekit/cmd/pipekit"))
		if err != nil {
			return err
		}

		j, err := newJob(cfg.Pipeline, in, stdout, jobDeps{log: app.Logger, metrics: metrics, observer: monitor})
		if err != nil {
			return err
		}
		monitor.AddPipes(j.pipes()...)
		monitor.AddTracker(j.runner.Tracker())
		return j.run(ctx)
	})
	if err != nil {
		fmt.Fprintf(stderr, "pipekit: %v\n", err)
		return exitError
	}
	return exitOK
}

// openInput opens path, or returns stdin when path is empty.
func openInput(path string, stdin io.Reader) (io.Reader, func(), error) {
	if path == "" {
		return stdin, func() {}, nil
	}
	file, err := os.Open(path)
	if err != nil {
		return nil, nil, fmt.Errorf("opening input: %w", err)
	}
	return file, func() { _ = file.Close() }, nil
}
