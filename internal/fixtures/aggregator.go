package fixtures

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/williampepple1/fbref-stats/internal/enrich"
	"github.com/williampepple1/fbref-stats/internal/worker"
	"github.com/williampepple1/fbref-stats/pkg/models"
)

// Observer is told about schedule lookups as they happen
type Observer interface {
	ScheduleFetched(d time.Duration, err error)
	OpponentUnmatched(opponent string)
}

// Aggregator resolves next-fixture figures for every entity of a table
type Aggregator struct {
	Fetch       ScheduleFetcher
	Competition string
	Count       int

	NameField string
	SumField  string
	MeanField string

	// Workers above 1 fetches schedules concurrently
	Workers   int
	RateLimit time.Duration

	Logger   *slog.Logger
	Observer Observer
}

func (a *Aggregator) fields() (string, string, string) {
	name, sum, mean := a.NameField, a.SumField, a.MeanField
	if name == "" {
		name = DefaultNameField
	}
	if sum == "" {
		sum = DefaultSumField
	}
	if mean == "" {
		mean = DefaultMeanField
	}
	return name, sum, mean
}

func (a *Aggregator) logger() *slog.Logger {
	if a.Logger == nil {
		return slog.Default()
	}
	return a.Logger
}

// Aggregate computes the figures for a single entity
func (a *Aggregator) Aggregate(ctx context.Context, link models.Link, opponents *models.RecordSet) (models.AggregateFigures, error) {
	if !link.Valid || a.Count <= 0 {
		return models.AggregateFigures{}, nil
	}

	start := time.Now()
	raw, err := a.Fetch(ctx, link)
	if a.Observer != nil {
		a.Observer.ScheduleFetched(time.Since(start), err)
	}
	if err != nil {
		return models.AggregateFigures{}, fmt.Errorf("error fetching schedule for %s: %w", link.URL, err)
	}

	list, err := ParseSchedule(raw, a.Competition, a.Count)
	if err != nil {
		return models.AggregateFigures{}, err
	}

	name, sum, mean := a.fields()
	figures, unmatched := Summarise(list, opponents, name, sum, mean)
	for _, o := range unmatched {
		a.logger().Warn("fixtures.unmatched_opponent", "opponent", o, "url", link.URL)
		if a.Observer != nil {
			a.Observer.OpponentUnmatched(o)
		}
	}
	return figures, nil
}

// ColumnNames returns the fixture list, sum and mean column names for n fixtures
func ColumnNames(n int) (list, sum, mean string) {
	prefix := fmt.Sprintf("Next %d Fixtures", n)
	return prefix, prefix + " xG", prefix + " average xGp90"
}

// AggregateAll adds fixture columns to every record of set, reading each
// entity's link from the enrich link column. Records keep their order. The
// first fetch failure aborts the whole call and no further schedules are
// fetched.
func (a *Aggregator) AggregateAll(ctx context.Context, set *models.RecordSet, opponents *models.RecordSet) (*models.RecordSet, error) {
	jobs := make([]worker.Job, set.Len())
	for i, r := range set.Records {
		jobs[i] = worker.Job{Index: i, Link: enrich.LinkOf(r)}
	}

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	// the first failure cancels the jobs that have not started yet
	var once sync.Once
	var firstErr error
	handler := func(ctx context.Context, job worker.Job) (models.AggregateFigures, error) {
		figures, err := a.Aggregate(ctx, job.Link, opponents)
		if err != nil {
			once.Do(func() {
				firstErr = err
				cancel()
			})
		}
		return figures, err
	}
	results := worker.NewPool(a.Workers, a.RateLimit, len(jobs), handler, a.logger()).Run(ctx, jobs)
	if firstErr != nil {
		return nil, firstErr
	}

	listCol, sumCol, meanCol := ColumnNames(a.Count)
	out := models.NewRecordSet(set.Columns)
	out.AddColumn(listCol)
	out.AddColumn(sumCol)
	out.AddColumn(meanCol)

	for i, r := range set.Records {
		if err := results[i].Err; err != nil {
			return nil, err
		}
		figures := results[i].Figures
		enriched := make(models.Record, len(r)+3)
		for k, v := range r {
			enriched[k] = v
		}
		enriched[listCol] = models.Text(figures.FixtureList())
		enriched[sumCol] = models.Number(figures.Sum)
		enriched[meanCol] = models.Number(figures.Mean)
		out.Records = append(out.Records, enriched)

		a.logger().Info("fixtures.aggregated",
			"entity", r.String(a.nameField()),
			"fixtures", len(figures.Fixtures),
			"matched", figures.Matched,
			"sum", figures.Sum,
			"mean", figures.Mean,
		)
	}
	return out, nil
}

func (a *Aggregator) nameField() string {
	name, _, _ := a.fields()
	return name
}
