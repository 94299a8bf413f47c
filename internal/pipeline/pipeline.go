// Package pipeline turns one fbref stats page into a filtered, enriched and
// sorted table and hands it to every configured sink.
package pipeline

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"time"

	"github.com/williampepple1/fbref-stats/internal/enrich"
	"github.com/williampepple1/fbref-stats/internal/extraction"
	"github.com/williampepple1/fbref-stats/internal/fixtures"
	"github.com/williampepple1/fbref-stats/internal/metrics"
	"github.com/williampepple1/fbref-stats/internal/output"
	"github.com/williampepple1/fbref-stats/internal/plot"
	"github.com/williampepple1/fbref-stats/internal/scraper"
	"github.com/williampepple1/fbref-stats/internal/store"
	"github.com/williampepple1/fbref-stats/internal/table"
	"github.com/williampepple1/fbref-stats/pkg/models"
)

// Pipeline runs one view against one stats page. Nil sinks are skipped.
type Pipeline struct {
	Scraper   scraper.Scraper
	View      View
	SourceURL string
	BaseURL   string

	Workers   int
	RateLimit time.Duration

	Console     io.Writer
	Writer      *output.ResultWriter
	PlotsDir    string
	Store       *store.Store
	Metrics     *metrics.Metrics
	MetricsFile string

	Logger *slog.Logger
	Now    func() time.Time
}

// Result describes what a run produced
type Result struct {
	Records  *models.RecordSet
	CSVPath  string
	PlotPath string
	RunID    int64
}

func (p *Pipeline) logger() *slog.Logger {
	if p.Logger == nil {
		return slog.Default()
	}
	return p.Logger
}

func (p *Pipeline) now() time.Time {
	if p.Now == nil {
		return time.Now()
	}
	return p.Now()
}

// Run fetches the stats page, processes it and writes every sink
func (p *Pipeline) Run(ctx context.Context) (res *Result, err error) {
	name := p.View.Table.Name
	start := p.now()
	defer func() {
		p.Metrics.RunFinished(name, p.now().Sub(start), err)
		if werr := p.Metrics.WriteTextfile(p.MetricsFile); werr != nil {
			p.logger().Error("pipeline.metrics_failed", "error", werr)
		}
	}()

	p.logger().Info("pipeline.fetching", "subject", name, "url", p.SourceURL)
	markup, err := p.Scraper.Fetch(ctx, p.SourceURL)
	if err != nil {
		return nil, err
	}
	page, err := extraction.NewPage(p.SourceURL, markup)
	if err != nil {
		return nil, err
	}

	set, err := p.Process(ctx, page)
	if err != nil {
		return nil, err
	}
	res = &Result{Records: set}

	if p.Console != nil {
		if err := output.PrintTable(p.Console, set, p.View.Table.PrintColumns); err != nil {
			return nil, fmt.Errorf("error printing table: %w", err)
		}
	}

	if p.Writer != nil {
		res.CSVPath, err = p.Writer.SaveToFile(set, p.View.Table.CSVFileName)
		if err != nil {
			return nil, err
		}
		p.logger().Info("pipeline.saved", "path", res.CSVPath, "records", set.Len())
	}

	if sc := p.View.Table.Plot; sc != nil {
		res.PlotPath, err = sc.Save(set, p.PlotsDir, p.View.Table.PlotFileName)
		switch {
		case errors.Is(err, plot.ErrNoPoints):
			p.logger().Warn("pipeline.plot_skipped", "x", sc.XAxis, "y", sc.YAxis)
		case err != nil:
			return nil, err
		default:
			p.logger().Info("pipeline.plotted", "path", res.PlotPath)
		}
	}

	if p.Store != nil {
		res.RunID, err = p.Store.SaveSnapshot(ctx, name, p.SourceURL, set, p.now())
		if err != nil {
			return nil, err
		}
		p.logger().Info("pipeline.snapshot", "run_id", res.RunID)
	}

	return res, nil
}

// Process builds the finished table from an already fetched page
func (p *Pipeline) Process(ctx context.Context, page *extraction.Page) (*models.RecordSet, error) {
	tc := p.View.Table
	tables, err := p.View.Subject.RawTables(page)
	if err != nil {
		return nil, err
	}

	raw, err := tables.Subject.WithBase(p.BaseURL)
	if err != nil {
		return nil, err
	}
	numeric := table.Columns(tc.NumericColumns...)
	set, err := table.Parse(raw, tc.MergeHeaders, numeric)
	if err != nil {
		return nil, fmt.Errorf("error parsing %s table: %w", tc.Name, err)
	}
	p.Metrics.Records(tc.Name, "parsed", set.Len())

	links := p.View.Subject.LinkSpec().Links(raw)
	set, err = enrich.Enrich(set, links, tc.ActualField, tc.ExpectedField)
	if err != nil {
		return nil, err
	}

	set = Filter(set, tc.Filter)
	p.Metrics.Records(tc.Name, "filtered", set.Len())
	p.logger().Info("pipeline.filtered", "subject", tc.Name, "records", set.Len())

	if tc.Fixtures != nil && tables.Opponents != nil {
		opponents, err := table.Parse(tables.Opponents, tc.MergeHeaders, numeric)
		if err != nil {
			return nil, fmt.Errorf("error parsing opponent table: %w", err)
		}
		agg := &fixtures.Aggregator{
			Fetch:       p.fetchSchedule,
			Competition: tc.Fixtures.Competition,
			Count:       tc.Fixtures.Count,
			NameField:   tc.NameField,
			Workers:     p.Workers,
			RateLimit:   p.RateLimit,
			Logger:      p.logger(),
		}
		if p.Metrics != nil {
			agg.Observer = p.Metrics
		}
		set, err = agg.AggregateAll(ctx, set, opponents)
		if err != nil {
			return nil, err
		}
	}

	return Sort(set, tc.Filter), nil
}

// fetchSchedule loads an entity page and returns its fixture table
func (p *Pipeline) fetchSchedule(ctx context.Context, link models.Link) (*table.RawTable, error) {
	markup, err := p.Scraper.Fetch(ctx, link.URL)
	if err != nil {
		return nil, err
	}
	page, err := extraction.NewPage(link.URL, markup)
	if err != nil {
		return nil, err
	}
	return page.Table(ScheduleTableID)
}

// ListTables fetches url and returns the ids of every table on it
func ListTables(ctx context.Context, s scraper.Scraper, url string) ([]string, error) {
	markup, err := s.Fetch(ctx, url)
	if err != nil {
		return nil, err
	}
	page, err := extraction.NewPage(url, markup)
	if err != nil {
		return nil, err
	}
	return page.TableIDs(), nil
}
