// pattern: Imperative Shell
package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"

	flag "github.com/spf13/pflag"

	"rigit/internal/cli"
	"rigit/internal/config"
	"rigit/internal/logging"
)

var version = "dev"

func main() {
	os.Exit(run(os.Args[1:], os.Stderr))
}

func run(args []string, stderr io.Writer) int {
	flags := flag.NewFlagSet("rigit", flag.ContinueOnError)
	// Stop parsing flags after the first non-flag arg (the subcommand),
	// so that --help after a subcommand is handled by the subcommand.
	flags.SetInterspersed(false)
	flags.SetOutput(stderr)

	configDir := flags.StringP("config-dir", "c", "", "config directory (default: $XDG_CONFIG_HOME/rigit)")
	verbose := flags.BoolP("verbose", "v", false, "mirror logs to stderr")

	flags.Usage = func() {
		app := cli.BuildApp(version, &cli.Env{Stderr: stderr})
		app.PrintHelp(stderr)
		flags.PrintDefaults()
	}

	if err := flags.Parse(args); err != nil {
		if err == flag.ErrHelp {
			return cli.ExitOK
		}
		return cli.ExitUsage
	}

	dir := resolveConfigDir(*configDir)
	cfg, cfgErr := config.LoadDir(dir)

	logManager, err := newLogManager(dir, cfg.LogLevel, *verbose, stderr)
	if err != nil {
		fmt.Fprintf(stderr, "Failed to initialize logging: %v\n", err)
		return cli.ExitError
	}
	defer func() { _ = logManager.Close() }()

	appLogger := logManager.For("app")
	appLogger.Debug("starting", "version", version, "args", flags.Args())
	if cfgErr != nil {
		appLogger.Error("failed to load config", "dir", dir, "error", cfgErr)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	env := cli.NewEnv(cfg, cfgErr, logManager)
	env.Stderr = stderr
	app := cli.BuildApp(version, env)
	code := app.Execute(ctx, flags.Args())
	appLogger.Debug("finished", "exit_code", code)
	return code
}

// resolveConfigDir returns configDir, or the XDG default when it is empty.
func resolveConfigDir(configDir string) string {
	if configDir != "" {
		return configDir
	}
	return config.Dir()
}

func newLogManager(dir, level string, verbose bool, stderr io.Writer) (*logging.Manager, error) {
	cfg := logging.Config{
		FilePath:   filepath.Join(dir, "rigit.log"),
		MaxSizeMB:  10,
		MaxBackups: 3,
		MaxAgeDays: 7,
		Level:      level,
	}
	if verbose {
		cfg.Console = stderr
		cfg.Level = "debug"
	}
	return logging.NewManager(cfg)
}
