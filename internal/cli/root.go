package cli

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"github.com/williampepple1/fbref-stats/internal/config"
	"github.com/williampepple1/fbref-stats/internal/logger"
)

const defaultConfigFile = "config.yml"

// options are the persistent flags shared by every command
type options struct {
	configFile string
	envFile    string
	logFile    string
	debug      bool
	url        string
	workers    int
}

// Execute runs the root command until it finishes or the process is
// interrupted, and exits non-zero on failure
func Execute() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	cmd := newRootCmd()
	if err := cmd.ExecuteContext(ctx); err != nil {
		stop()
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	opts := &options{}

	cmd := &cobra.Command{
		Use:          "fbref-stats",
		Short:        "Scrape, enrich and rank fbref player and team stats",
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runTable(cmd, opts, "")
		},
	}

	f := cmd.PersistentFlags()
	f.StringVarP(&opts.configFile, "config", "c", defaultConfigFile, "YAML configuration file")
	f.StringVar(&opts.envFile, "env-file", ".env", "dotenv file loaded before the configuration")
	f.StringVar(&opts.logFile, "log-file", "", "write JSON logs to this file instead of stderr")
	f.BoolVar(&opts.debug, "debug", false, "enable verbose logging")
	f.StringVar(&opts.url, "url", "", "stats page to scrape (overrides source.url)")
	f.IntVarP(&opts.workers, "workers", "w", 0, "concurrent schedule fetches (overrides scraper.workers)")

	cmd.AddCommand(runCmd(opts))
	cmd.AddCommand(tableCmd(opts, config.TablePlayer))
	cmd.AddCommand(tableCmd(opts, config.TableTeam))
	cmd.AddCommand(tablesCmd(opts))
	cmd.AddCommand(historyCmd(opts))
	return cmd
}

// setup loads the environment, the configuration and the logger. The
// returned cleanup closes the log file.
func setup(cmd *cobra.Command, opts *options) (*config.AppConfig, func(), error) {
	if opts.envFile != "" {
		if err := godotenv.Load(opts.envFile); err != nil && !errors.Is(err, fs.ErrNotExist) {
			return nil, nil, fmt.Errorf("error loading %s: %w", opts.envFile, err)
		}
	}

	cfg, err := loadConfig(cmd, opts)
	if err != nil {
		return nil, nil, err
	}

	cleanup, err := logger.Setup(logger.Config{File: opts.logFile, Debug: opts.debug})
	if err != nil {
		return nil, nil, fmt.Errorf("error setting up logger: %w", err)
	}
	return cfg, func() { _ = cleanup() }, nil
}

// loadConfig reads the config file when present. A missing file is only an
// error when --config was given explicitly.
func loadConfig(cmd *cobra.Command, opts *options) (*config.AppConfig, error) {
	cfg, err := config.Load(opts.configFile)
	switch {
	case err == nil:
	case errors.Is(err, fs.ErrNotExist) && !cmd.Flags().Changed("config"):
		cfg = config.CreateDefault()
	default:
		return nil, fmt.Errorf("error loading configuration: %w", err)
	}

	cfg.ApplyEnv()
	if opts.url != "" {
		cfg.Source.URL = opts.url
	}
	if opts.workers > 0 {
		cfg.Scraper.Workers = opts.workers
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}
