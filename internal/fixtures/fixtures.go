// Package fixtures looks up an entity's next unplayed fixtures and scores
// them against the opponents' statistics.
package fixtures

import (
	"context"
	"fmt"
	"math"
	"strings"

	"github.com/williampepple1/fbref-stats/internal/enrich"
	"github.com/williampepple1/fbref-stats/internal/table"
	"github.com/williampepple1/fbref-stats/pkg/models"
)

const (
	DefaultCompetition = "Premier League"
	DefaultCount       = 5
	DefaultNameField   = "Squad"
	DefaultSumField    = "Expected_xG"
	DefaultMeanField   = "Per 90 Minutes_xG"

	CompColumn     = "Comp"
	ResultColumn   = "Result"
	VenueColumn    = "Venue"
	OpponentColumn = "Opponent"

	// opponentPrefix starts every squad name in "against" tables
	opponentPrefix = "vs "
)

// ScheduleFetcher returns the schedule table behind an entity link
type ScheduleFetcher func(ctx context.Context, link models.Link) (*table.RawTable, error)

// ParseSchedule reads a single-header schedule table and returns, in table
// order, up to n fixtures of the competition that have no result yet.
func ParseSchedule(raw *table.RawTable, competition string, n int) ([]models.Fixture, error) {
	if n <= 0 {
		return nil, nil
	}
	set, err := table.Parse(raw, false, nil)
	if err != nil {
		return nil, fmt.Errorf("error parsing schedule: %w", err)
	}

	var out []models.Fixture
	for _, row := range set.Records {
		if !strings.Contains(row.String(CompColumn), competition) {
			continue
		}
		if !row.Get(ResultColumn).IsMissing() {
			continue
		}
		opponent := strings.TrimSpace(row.String(OpponentColumn))
		if opponent == "" {
			continue
		}
		out = append(out, models.Fixture{
			Opponent: opponent,
			Venue:    models.ParseVenue(row.String(VenueColumn)),
		})
		if len(out) >= n {
			break
		}
	}
	return out, nil
}

// Resolve finds the opponent's stats row. A case-insensitive exact match on
// the squad name (ignoring a leading "vs ") wins; otherwise the first row
// whose name contains the opponent, case-insensitively, is used.
func Resolve(opponents *models.RecordSet, nameField, opponent string) (models.Record, bool) {
	want := strings.ToLower(strings.TrimSpace(opponent))
	if want == "" || opponents == nil {
		return nil, false
	}

	for _, r := range opponents.Records {
		name := strings.ToLower(strings.TrimSpace(r.String(nameField)))
		if strings.TrimPrefix(name, opponentPrefix) == want {
			return r, true
		}
	}
	for _, r := range opponents.Records {
		if strings.Contains(strings.ToLower(r.String(nameField)), want) {
			return r, true
		}
	}
	return nil, false
}

// Summarise adds up sumField and averages meanField over the opponents of
// the fixtures. The mean divides by the number of fixtures and is 0 when
// there are none. Unresolved opponents add nothing but still count.
func Summarise(list []models.Fixture, opponents *models.RecordSet, nameField, sumField, meanField string) (models.AggregateFigures, []string) {
	figures := models.AggregateFigures{Fixtures: list}
	var unmatched []string

	var sum, meanSum float64
	for _, f := range list {
		r, ok := Resolve(opponents, nameField, f.Opponent)
		if !ok {
			unmatched = append(unmatched, f.Opponent)
			continue
		}
		figures.Matched++
		if v := r.Float(sumField); !math.IsNaN(v) {
			sum += v
		}
		if v := r.Float(meanField); !math.IsNaN(v) {
			meanSum += v
		}
	}

	figures.Sum = enrich.Round(sum, 2)
	if len(list) > 0 {
		figures.Mean = enrich.Round(meanSum/float64(len(list)), 2)
	}
	return figures, unmatched
}

// Aggregate fetches the schedule behind link and summarises the next n
// fixtures of competition using the default metric fields. A missing link
// yields no fixtures; fetch failures are returned as is.
func Aggregate(ctx context.Context, link models.Link, fetch ScheduleFetcher, opponents *models.RecordSet, competition string, n int) ([]models.Fixture, models.AggregateFigures, error) {
	a := &Aggregator{Fetch: fetch, Competition: competition, Count: n}
	figures, err := a.Aggregate(ctx, link, opponents)
	if err != nil {
		return nil, models.AggregateFigures{}, err
	}
	return figures.Fixtures, figures, nil
}
