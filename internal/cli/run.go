package cli

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/williampepple1/fbref-stats/internal/config"
	"github.com/williampepple1/fbref-stats/internal/enrich"
	"github.com/williampepple1/fbref-stats/internal/logger"
	"github.com/williampepple1/fbref-stats/internal/metrics"
	"github.com/williampepple1/fbref-stats/internal/output"
	"github.com/williampepple1/fbref-stats/internal/pipeline"
	"github.com/williampepple1/fbref-stats/internal/scraper"
	"github.com/williampepple1/fbref-stats/internal/store"
)

func runCmd(opts *options) *cobra.Command {
	return &cobra.Command{
		Use:   "run",
		Short: "Build the table named by the configuration",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runTable(cmd, opts, "")
		},
	}
}

func tableCmd(opts *options, name string) *cobra.Command {
	return &cobra.Command{
		Use:   name,
		Short: fmt.Sprintf("Build the %s table", name),
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runTable(cmd, opts, name)
		},
	}
}

// runTable runs the pipeline for name, or for the configured table when
// name is empty
func runTable(cmd *cobra.Command, opts *options, name string) error {
	cfg, cleanup, err := setup(cmd, opts)
	if err != nil {
		return err
	}
	defer cleanup()
	log := logger.L()

	if name == "" {
		name = cfg.Table
	}
	view, err := pipeline.ViewFor(cfg, name)
	if err != nil {
		return err
	}

	s, err := scraper.New(cfg, log)
	if err != nil {
		return err
	}
	defer func() {
		if err := s.Close(); err != nil {
			log.Error("scraper.close_failed", "error", err)
		}
	}()

	var st *store.Store
	if cfg.Output.SQLitePath != "" {
		st, err = store.Open(cfg.Output.SQLitePath)
		if err != nil {
			return err
		}
		defer st.Close()
	}

	var m *metrics.Metrics
	if cfg.Output.MetricsFile != "" {
		m = metrics.New()
	}

	p := &pipeline.Pipeline{
		Scraper:     s,
		View:        view,
		SourceURL:   cfg.Source.URL,
		BaseURL:     cfg.Source.BaseURL,
		Workers:     cfg.Scraper.Workers,
		RateLimit:   cfg.Scraper.RateLimit,
		Console:     cmd.OutOrStdout(),
		Writer:      output.NewResultWriter(cfg.Output.CSVDir, output.FormatCSV, enrich.LinkColumn),
		PlotsDir:    cfg.Output.PlotsDir,
		Store:       st,
		Metrics:     m,
		MetricsFile: cfg.Output.MetricsFile,
		Logger:      log,
	}

	start := time.Now()
	res, err := p.Run(cmd.Context())
	if err != nil {
		log.Error("pipeline.failed", "subject", name, "error", err)
		return err
	}

	fmt.Fprintf(cmd.OutOrStdout(), "\n%d %s rows in %v\n", res.Records.Len(), name, time.Since(start).Round(time.Millisecond))
	fmt.Fprintf(cmd.OutOrStdout(), "CSV saved to %s\n", res.CSVPath)
	if res.PlotPath != "" {
		fmt.Fprintf(cmd.OutOrStdout(), "Plot saved to %s\n", res.PlotPath)
	}
	if res.RunID != 0 {
		fmt.Fprintf(cmd.OutOrStdout(), "Snapshot %d stored in %s\n", res.RunID, cfg.Output.SQLitePath)
	}
	return nil
}

func tablesCmd(opts *options) *cobra.Command {
	return &cobra.Command{
		Use:   "tables",
		Short: "List the table ids found on the stats page",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, cleanup, err := setup(cmd, opts)
			if err != nil {
				return err
			}
			defer cleanup()

			s, err := scraper.New(cfg, logger.L())
			if err != nil {
				return err
			}
			defer s.Close()

			ids, err := pipeline.ListTables(cmd.Context(), s, cfg.Source.URL)
			if err != nil {
				return err
			}
			for _, id := range ids {
				fmt.Fprintln(cmd.OutOrStdout(), id)
			}
			return nil
		},
	}
}

func historyCmd(opts *options) *cobra.Command {
	var columns []string

	c := &cobra.Command{
		Use:   "history [player|team]",
		Short: "Print the latest stored snapshot",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, cleanup, err := setup(cmd, opts)
			if err != nil {
				return err
			}
			defer cleanup()

			if cfg.Output.SQLitePath == "" {
				return fmt.Errorf("%w: output.sqlite_path is not set", config.ErrInvalidConfig)
			}
			subject := cfg.Table
			if len(args) == 1 {
				subject = args[0]
			}

			st, err := store.Open(cfg.Output.SQLitePath)
			if err != nil {
				return err
			}
			defer st.Close()

			run, err := st.LatestRun(cmd.Context(), subject)
			if err != nil {
				return err
			}
			set, err := st.LoadSnapshot(cmd.Context(), run.ID)
			if err != nil {
				return err
			}

			fmt.Fprintf(cmd.OutOrStdout(), "Run %d, %s, %s\n\n", run.ID, run.CreatedAt.Format(time.RFC3339), run.SourceURL)
			return output.PrintTable(cmd.OutOrStdout(), set, columns)
		},
	}

	c.Flags().StringSliceVar(&columns, "columns", nil, "columns to print (default all)")
	return c
}
