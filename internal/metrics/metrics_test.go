package metrics

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMetrics_WriteTextfile(t *testing.T) {
	m := New()
	m.RunFinished("team", 2*time.Second, nil)
	m.Records("team", "parsed", 20)
	m.ScheduleFetched(time.Second, nil)
	m.ScheduleFetched(time.Second, errors.New("timeout"))
	m.OpponentUnmatched("Nowhere Town")

	path := filepath.Join(t.TempDir(), "fbref.prom")
	require.NoError(t, m.WriteTextfile(path))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	out := string(data)

	assert.Contains(t, out, `fbref_scrape_success{subject="team"} 1`)
	assert.Contains(t, out, `fbref_records{stage="parsed",subject="team"} 20`)
	assert.Contains(t, out, `fbref_schedule_fetches_total{outcome="error"} 1`)
	assert.Contains(t, out, `fbref_unmatched_opponents_total 1`)
}

func TestMetrics_NilIsNoop(t *testing.T) {
	var m *Metrics
	m.RunFinished("player", time.Second, errors.New("boom"))
	m.Records("player", "parsed", 1)
	m.ScheduleFetched(time.Second, nil)
	m.OpponentUnmatched("x")
	assert.NoError(t, m.WriteTextfile("ignored"))
}
