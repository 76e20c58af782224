// Package main is the entry point for the richedit terminal editor.
package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"github.com/rs/zerolog"
	"github.com/urfave/cli/v3"

	"github.com/dshills/richedit/internal/config"
	"github.com/dshills/richedit/internal/logging"
)

// Version information (set via ldflags during build).
var (
	version = "dev"
	commit  = "unknown"
)

// flags holds the global command line flags.
type flags struct {
	configPath string
	logLevel   string
	logFile    string
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	f := &flags{}
	app := &cli.Command{
		Name:      "richedit",
		Usage:     "Edit rich-text documents in the terminal",
		UsageText: "richedit [global options] command [command options]",
		Version:   fmt.Sprintf("%s (%s)", version, commit),
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:        "config",
				Aliases:     []string{"c"},
				Usage:       "path to a YAML or TOML config file",
				Sources:     cli.EnvVars("RICHEDIT_CONFIG"),
				Destination: &f.configPath,
			},
			&cli.StringFlag{
				Name:        "log-level",
				Usage:       "log level (debug, info, warn, error); overrides the config file",
				Destination: &f.logLevel,
			},
			&cli.StringFlag{
				Name:        "log-file",
				Usage:       "write logs to this file (logs are discarded otherwise)",
				Sources:     cli.EnvVars("RICHEDIT_LOG_FILE"),
				Destination: &f.logFile,
			},
		},
		Commands: []*cli.Command{
			newEditCmd(f).command(),
			newRenderCmd(f).command(),
			newValidateCmd(f).command(),
		},
	}

	if err := app.Run(ctx, os.Args); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

// setup loads the configuration and builds the logger. The returned
// closer releases the log file.
func (f *flags) setup() (config.Options, zerolog.Logger, func(), error) {
	opts := config.Default()
	if f.configPath != "" {
		loaded, err := config.Load(f.configPath)
		if err != nil {
			return opts, zerolog.Nop(), nil, err
		}
		opts = loaded
	}
	if err := opts.ApplyEnv(nil); err != nil {
		return opts, zerolog.Nop(), nil, err
	}

	level := opts.LogLevel
	if f.logLevel != "" {
		level = f.logLevel
	}

	var w io.Writer = io.Discard
	closer := func() {}
	if f.logFile != "" {
		file, err := os.OpenFile(f.logFile, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
		if err != nil {
			return opts, zerolog.Nop(), nil, fmt.Errorf("open log file: %w", err)
		}
		w = file
		closer = func() { _ = file.Close() }
	}
	return opts, logging.New(w, level), closer, nil
}

// readPayload reads a saved document. A missing file is an empty document.
func readPayload(path string) (string, error) {
	if path == "" {
		return "", nil
	}
	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return "", nil
	}
	if err != nil {
		return "", fmt.Errorf("read %s: %w", path, err)
	}
	return string(data), nil
}
