package worker

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/williampepple1/fbref-stats/pkg/models"
)

// Job is one entity whose schedule has to be looked up
type Job struct {
	Index int
	Link  models.Link
}

// Result carries the aggregate figures for one job
type Result struct {
	Index    int
	Link     models.Link
	Figures  models.AggregateFigures
	Err      error
	Duration time.Duration
}

// Handler processes a single job
type Handler func(ctx context.Context, job Job) (models.AggregateFigures, error)

// Pool manages a pool of worker goroutines
type Pool struct {
	Workers   int
	RateLimit time.Duration
	Handler   Handler
	Logger    *slog.Logger
	Jobs      chan Job
	Results   chan Result
	WaitGroup *sync.WaitGroup
}

// NewPool creates a new worker pool sized for the given number of jobs
func NewPool(workers int, rateLimit time.Duration, size int, handler Handler, logger *slog.Logger) *Pool {
	if workers < 1 {
		workers = 1
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Pool{
		Workers:   workers,
		RateLimit: rateLimit,
		Handler:   handler,
		Logger:    logger,
		Jobs:      make(chan Job, size),
		Results:   make(chan Result, size),
		WaitGroup: &sync.WaitGroup{},
	}
}

// Start starts the worker pool. Results is closed once every worker is done.
func (p *Pool) Start(ctx context.Context) {
	var tick <-chan time.Time
	var rateLimiter *time.Ticker
	if p.RateLimit > 0 {
		rateLimiter = time.NewTicker(p.RateLimit)
		tick = rateLimiter.C
	}

	for w := 1; w <= p.Workers; w++ {
		p.WaitGroup.Add(1)
		go p.worker(ctx, w, tick)
	}

	go func() {
		p.WaitGroup.Wait()
		if rateLimiter != nil {
			rateLimiter.Stop()
		}
		close(p.Results)
	}()
}

// worker processes jobs until the jobs channel is drained. Jobs taken after
// ctx is done are answered with its error without running the handler.
func (p *Pool) worker(ctx context.Context, id int, tick <-chan time.Time) {
	defer p.WaitGroup.Done()

	for job := range p.Jobs {
		if tick != nil {
			select {
			case <-tick:
			case <-ctx.Done():
				p.Results <- Result{Index: job.Index, Link: job.Link, Err: ctx.Err()}
				continue
			}
		}

		if err := ctx.Err(); err != nil {
			p.Results <- Result{Index: job.Index, Link: job.Link, Err: err}
			continue
		}

		start := time.Now()
		p.Logger.Debug("worker.job", "worker", id, "index", job.Index, "url", job.Link.String())
		figures, err := p.Handler(ctx, job)
		p.Results <- Result{
			Index:    job.Index,
			Link:     job.Link,
			Figures:  figures,
			Err:      err,
			Duration: time.Since(start),
		}
	}
}

// AddJobs queues jobs and closes the jobs channel
func (p *Pool) AddJobs(jobs []Job) {
	for _, job := range jobs {
		p.Jobs <- job
	}
	close(p.Jobs)
}

// Run starts the pool, feeds it the jobs and returns results indexed by
// Job.Index, so the output order never depends on completion order.
func (p *Pool) Run(ctx context.Context, jobs []Job) []Result {
	p.Start(ctx)
	p.AddJobs(jobs)

	results := make([]Result, len(jobs))
	for result := range p.Results {
		if result.Index >= 0 && result.Index < len(results) {
			results[result.Index] = result
		}
	}
	return results
}
