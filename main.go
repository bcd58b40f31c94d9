package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/urfave/cli/v2"

	"github.com/insightdelivered/cardstatement/internal/config"
)

var (
	// Version information (set via ldflags during build)
	version = "dev"
	commit  = "unknown"
	date    = "unknown"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := newApp().RunContext(ctx, os.Args); err != nil {
		log.Fatal(err)
	}
}

func newApp() *cli.App {
	return &cli.App{
		Name:  "cardstatement",
		Usage: "Credit card statement to structured data converter",
		Description: `Splits a credit card statement into fees, refunds, primary card and
supplementary card expenses, and exports each section as CSV, an XLSX workbook, JSON or YAML.

Examples:
  # Convert one statement to per-section CSV files
  cardstatement convert march.pdf

  # Several statements, JSON output, with a vendor expense summary
  cardstatement convert --format json --summary-print jan.pdf feb.pdf mar.pdf

  # Password protected statement
  cardstatement convert --password 1234 april.pdf

  # Run the HTTP API
  cardstatement serve`,
		Version: fmt.Sprintf("%s (commit: %s, built: %s)", version, commit, date),
		Commands: []*cli.Command{
			convertCommand(),
			serveCommand(),
		},
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:  "config",
				Usage: "YAML config file (default from " + config.FileEnvVar + "); environment variables override it",
			},
			&cli.StringFlag{
				Name:  "log-level",
				Usage: "Log level (debug, info, warn, error); overrides LOG_LEVEL",
			},
		},
	}
}

// loadConfig reads the shared settings; flags given on the command line win.
func loadConfig(c *cli.Context) (*config.Config, error) {
	var (
		cfg *config.Config
		err error
	)
	if path := c.String("config"); path != "" {
		cfg, err = config.LoadFile(path)
	} else {
		cfg, err = config.Load()
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}
	if c.IsSet("log-level") {
		cfg.LogLevel = c.String("log-level")
	}
	return cfg, nil
}
