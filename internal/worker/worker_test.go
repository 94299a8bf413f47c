package worker

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/williampepple1/fbref-stats/pkg/models"
)

func jobs(n int) []Job {
	out := make([]Job, n)
	for i := range out {
		out[i] = Job{Index: i, Link: models.NewLink("/team/" + string(rune('a'+i)))}
	}
	return out
}

func TestPool_RunKeepsInputOrder(t *testing.T) {
	handler := func(_ context.Context, job Job) (models.AggregateFigures, error) {
		// later jobs finish first
		time.Sleep(time.Duration(5-job.Index) * time.Millisecond)
		return models.AggregateFigures{Sum: float64(job.Index)}, nil
	}

	pool := NewPool(3, 0, 5, handler, nil)
	results := pool.Run(context.Background(), jobs(5))

	require.Len(t, results, 5)
	for i, r := range results {
		assert.Equal(t, i, r.Index)
		assert.Equal(t, float64(i), r.Figures.Sum)
		assert.NoError(t, r.Err)
	}
}

func TestPool_PropagatesErrors(t *testing.T) {
	boom := errors.New("boom")
	handler := func(_ context.Context, job Job) (models.AggregateFigures, error) {
		if job.Index == 1 {
			return models.AggregateFigures{}, boom
		}
		return models.AggregateFigures{}, nil
	}

	results := NewPool(1, time.Millisecond, 3, handler, nil).Run(context.Background(), jobs(3))

	assert.NoError(t, results[0].Err)
	assert.ErrorIs(t, results[1].Err, boom)
	assert.NoError(t, results[2].Err)
}

func TestPool_SingleWorkerIsSequential(t *testing.T) {
	var inFlight, peak int32
	handler := func(_ context.Context, _ Job) (models.AggregateFigures, error) {
		n := atomic.AddInt32(&inFlight, 1)
		if n > atomic.LoadInt32(&peak) {
			atomic.StoreInt32(&peak, n)
		}
		time.Sleep(time.Millisecond)
		atomic.AddInt32(&inFlight, -1)
		return models.AggregateFigures{}, nil
	}

	NewPool(0, 0, 4, handler, nil).Run(context.Background(), jobs(4))
	assert.Equal(t, int32(1), atomic.LoadInt32(&peak))
}

func TestPool_CancelledContextSkipsJobs(t *testing.T) {
	var calls int32
	handler := func(_ context.Context, _ Job) (models.AggregateFigures, error) {
		atomic.AddInt32(&calls, 1)
		return models.AggregateFigures{}, nil
	}

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	results := NewPool(2, 0, 4, handler, nil).Run(ctx, jobs(4))

	require.Len(t, results, 4)
	for _, r := range results {
		assert.ErrorIs(t, r.Err, context.Canceled)
	}
	assert.Zero(t, atomic.LoadInt32(&calls))
}
