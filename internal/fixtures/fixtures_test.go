package fixtures

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/williampepple1/fbref-stats/internal/enrich"
	"github.com/williampepple1/fbref-stats/internal/table"
	"github.com/williampepple1/fbref-stats/pkg/models"
)

const scheduleHTML = `
<table id="matchlogs_for">
  <thead>
    <tr><th>Date</th><th>Comp</th><th>Venue</th><th>Result</th><th>Opponent</th></tr>
  </thead>
  <tbody>
    <tr><th>2024-08-17</th><td>Premier League</td><td>Home</td><td>W</td><td>Wolves</td></tr>
    <tr><th>2024-08-24</th><td>Premier League</td><td>Away</td><td></td><td>Aston Villa</td></tr>
    <tr><th>2024-08-27</th><td>EFL Cup</td><td>Home</td><td></td><td>Bolton</td></tr>
    <tr><th>2024-08-31</th><td>Premier League</td><td>Home</td><td></td><td>Brighton</td></tr>
    <tr><th>2024-09-15</th><td>Premier League</td><td>Away</td><td></td><td>Nowhere Town</td></tr>
  </tbody>
</table>`

func opponentStats() *models.RecordSet {
	set := models.NewRecordSet([]string{"Squad", "Expected_xG", "Per 90 Minutes_xG"})
	set.Records = []models.Record{
		{"Squad": models.Text("vs Aston Villa"), "Expected_xG": models.Number(12.4), "Per 90 Minutes_xG": models.Number(1.24)},
		{"Squad": models.Text("vs Brighton"), "Expected_xG": models.Number(10.1), "Per 90 Minutes_xG": models.Number(1.02)},
		{"Squad": models.Text("vs Wolves"), "Expected_xG": models.Number(15.0), "Per 90 Minutes_xG": models.Number(1.50)},
	}
	return set
}

func schedule(t *testing.T) *table.RawTable {
	t.Helper()
	raw, err := table.FromHTML(scheduleHTML)
	require.NoError(t, err)
	return raw
}

func staticFetcher(raw *table.RawTable) ScheduleFetcher {
	return func(context.Context, models.Link) (*table.RawTable, error) {
		return raw, nil
	}
}

func TestParseSchedule(t *testing.T) {
	list, err := ParseSchedule(schedule(t), "Premier League", 5)
	require.NoError(t, err)

	assert.Equal(t, []models.Fixture{
		{Opponent: "Aston Villa", Venue: models.Away},
		{Opponent: "Brighton", Venue: models.Home},
		{Opponent: "Nowhere Town", Venue: models.Away},
	}, list, "played and other-competition rows are skipped, never padded")
}

func TestParseSchedule_StopsAtN(t *testing.T) {
	list, err := ParseSchedule(schedule(t), "Premier League", 2)
	require.NoError(t, err)
	require.Len(t, list, 2)
	assert.Equal(t, "Brighton", list[1].Opponent)

	list, err = ParseSchedule(schedule(t), "Premier League", 0)
	require.NoError(t, err)
	assert.Empty(t, list)
}

func TestResolve(t *testing.T) {
	set := models.NewRecordSet([]string{"Squad"})
	set.Records = []models.Record{
		{"Squad": models.Text("vs Manchester Utd")},
		{"Squad": models.Text("vs Manchester City")},
		{"Squad": models.Text("vs Newcastle Utd")},
	}

	r, ok := Resolve(set, "Squad", "manchester city")
	require.True(t, ok)
	assert.Equal(t, "vs Manchester City", r.String("Squad"))

	r, ok = Resolve(set, "Squad", "Utd")
	require.True(t, ok)
	assert.Equal(t, "vs Manchester Utd", r.String("Squad"), "first substring match wins")

	_, ok = Resolve(set, "Squad", "Arsenal")
	assert.False(t, ok)
}

func TestAggregate(t *testing.T) {
	list, figures, err := Aggregate(context.Background(), models.NewLink("/en/squads/1/Arsenal-Stats"),
		staticFetcher(schedule(t)), opponentStats(), "Premier League", 5)
	require.NoError(t, err)

	require.Len(t, list, 3)
	assert.Equal(t, 2, figures.Matched)
	assert.Equal(t, 22.5, figures.Sum)
	// (1.24 + 1.02) / 3 fixtures, Nowhere Town has no stats row
	assert.Equal(t, 0.75, figures.Mean)
	assert.Equal(t, "Aston Villa (A), Brighton (H), Nowhere Town (A)", figures.FixtureList())
}

func TestAggregate_NoFixtures(t *testing.T) {
	list, figures, err := Aggregate(context.Background(), models.NewLink("/x"),
		staticFetcher(schedule(t)), opponentStats(), "Champions League", 5)
	require.NoError(t, err)

	assert.Empty(t, list)
	assert.Equal(t, 0.0, figures.Sum)
	assert.Equal(t, 0.0, figures.Mean)
}

func TestAggregate_MissingLinkSkipsFetch(t *testing.T) {
	fetch := func(context.Context, models.Link) (*table.RawTable, error) {
		t.Fatal("fetch must not be called without a link")
		return nil, nil
	}

	list, figures, err := Aggregate(context.Background(), models.NoLink, fetch, opponentStats(), "Premier League", 5)
	require.NoError(t, err)
	assert.Empty(t, list)
	assert.Zero(t, figures.Matched)
}

func TestAggregate_FetchFailurePropagates(t *testing.T) {
	boom := errors.New("page unavailable")
	fetch := func(context.Context, models.Link) (*table.RawTable, error) {
		return nil, boom
	}

	_, _, err := Aggregate(context.Background(), models.NewLink("/x"), fetch, opponentStats(), "Premier League", 5)
	assert.ErrorIs(t, err, boom)
}

type recordingObserver struct {
	mu        sync.Mutex
	fetches   int
	unmatched []string
}

func (o *recordingObserver) ScheduleFetched(time.Duration, error) {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.fetches++
}

func (o *recordingObserver) OpponentUnmatched(name string) {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.unmatched = append(o.unmatched, name)
}

func TestAggregator_AggregateAll(t *testing.T) {
	set := models.NewRecordSet([]string{"Squad", enrich.LinkColumn})
	set.Records = []models.Record{
		{"Squad": models.Text("Arsenal"), enrich.LinkColumn: models.Text("/en/squads/1/Arsenal-Stats")},
		{"Squad": models.Text("Ghost FC"), enrich.LinkColumn: models.Text("")},
		{"Squad": models.Text("Chelsea"), enrich.LinkColumn: models.Text("/en/squads/2/Chelsea-Stats")},
	}

	observer := &recordingObserver{}
	a := &Aggregator{
		Fetch:       staticFetcher(schedule(t)),
		Competition: "Premier League",
		Count:       2,
		Workers:     2,
		Observer:    observer,
	}

	out, err := a.AggregateAll(context.Background(), set, opponentStats())
	require.NoError(t, err)

	listCol, sumCol, meanCol := ColumnNames(2)
	assert.Equal(t, "Next 2 Fixtures", listCol)
	assert.Equal(t, []string{"Squad", enrich.LinkColumn, listCol, sumCol, meanCol}, out.Columns)

	require.Equal(t, 3, out.Len())
	assert.Equal(t, "Arsenal", out.Records[0].String("Squad"))
	assert.Equal(t, "Aston Villa (A), Brighton (H)", out.Records[0].String(listCol))
	assert.Equal(t, 22.5, out.Records[0].Float(sumCol))
	assert.Equal(t, 1.13, out.Records[0].Float(meanCol))

	assert.Equal(t, "", out.Records[1].String(listCol))
	assert.Equal(t, 0.0, out.Records[1].Float(sumCol))
	assert.Equal(t, "Chelsea", out.Records[2].String("Squad"))

	assert.Equal(t, 2, observer.fetches)
	assert.Empty(t, observer.unmatched)
}

func TestAggregator_AggregateAllFailsOnFetchError(t *testing.T) {
	set := models.NewRecordSet([]string{"Squad", enrich.LinkColumn})
	set.Records = []models.Record{
		{"Squad": models.Text("Arsenal"), enrich.LinkColumn: models.Text("/en/squads/1/Arsenal-Stats")},
	}
	boom := errors.New("timeout")
	a := &Aggregator{
		Fetch: func(context.Context, models.Link) (*table.RawTable, error) {
			return nil, boom
		},
		Competition: "Premier League",
		Count:       5,
	}

	_, err := a.AggregateAll(context.Background(), set, opponentStats())
	assert.ErrorIs(t, err, boom)
}

func TestAggregator_AggregateAllUnmatchedOpponentCounts(t *testing.T) {
	set := models.NewRecordSet([]string{"Squad", enrich.LinkColumn})
	set.Records = []models.Record{
		{"Squad": models.Text("Arsenal"), enrich.LinkColumn: models.Text("/en/squads/1/Arsenal-Stats")},
	}
	a := &Aggregator{
		Fetch:       staticFetcher(schedule(t)),
		Competition: "Premier League",
		Count:       3,
	}

	out, err := a.AggregateAll(context.Background(), set, opponentStats())
	require.NoError(t, err)

	listCol, sumCol, meanCol := ColumnNames(3)
	assert.Equal(t, "Aston Villa (A), Brighton (H), Nowhere Town (A)", out.Records[0].String(listCol))
	assert.Equal(t, 22.5, out.Records[0].Float(sumCol))
	assert.Equal(t, 0.75, out.Records[0].Float(meanCol))
}

func TestAggregator_AggregateAllStopsAfterFirstError(t *testing.T) {
	set := models.NewRecordSet([]string{"Squad", enrich.LinkColumn})
	for i := 0; i < 20; i++ {
		set.Records = append(set.Records, models.Record{
			"Squad":           models.Text("Team"),
			enrich.LinkColumn: models.Text("/en/squads/x/Team-Stats"),
		})
	}

	boom := errors.New("site down")
	var fetches int32
	a := &Aggregator{
		Fetch: func(context.Context, models.Link) (*table.RawTable, error) {
			atomic.AddInt32(&fetches, 1)
			return nil, boom
		},
		Competition: "Premier League",
		Count:       5,
		Workers:     1,
	}

	out, err := a.AggregateAll(context.Background(), set, opponentStats())
	assert.Nil(t, out)
	assert.ErrorIs(t, err, boom)
	assert.Equal(t, int32(1), atomic.LoadInt32(&fetches))
}
