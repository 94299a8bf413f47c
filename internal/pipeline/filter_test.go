package pipeline

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/williampepple1/fbref-stats/pkg/models"
)

func players() *models.RecordSet {
	set := models.NewRecordSet([]string{"Player", "Pos", "Playing Time_Min", "Per 90 Minutes_xG+xAG"})
	add := func(name, pos, min, xgi string) {
		set.Records = append(set.Records, models.Record{
			"Player":                models.Text(name),
			"Pos":                   models.Text(pos),
			"Playing Time_Min":      models.Coerce(min),
			"Per 90 Minutes_xG+xAG": models.Text(xgi),
		})
	}
	add("A", "Forward", "900", "0.80")
	add("B", "MF,FW", "450", "0.35")
	add("C", "DF", "0", "0.05")
	add("D", "", "1,200", "")
	add("Player", "Pos", "Min", "xG+xAG")
	return set
}

func names(set *models.RecordSet) []string {
	out := make([]string, set.Len())
	for i, r := range set.Records {
		out[i] = r.String("Player")
	}
	return out
}

func TestFilterAndSort_AllowList(t *testing.T) {
	spec := FilterSpec{
		NameField:     "Player",
		Names:         []string{"B", "A"},
		Thresholds:    []Threshold{{Field: "Playing Time_Min", Min: 10000}},
		CategoryField: "Pos",
		Category:      "goalkeeper",
		SortBy:        "Per 90 Minutes_xG+xAG",
	}

	out := FilterAndSort(players(), spec)
	assert.Equal(t, []string{"A", "B"}, names(out), "allow-list ignores thresholds and category")
}

func TestFilterAndSort_Thresholds(t *testing.T) {
	spec := FilterSpec{
		NameField:  "Player",
		Thresholds: []Threshold{{Field: "Playing Time_Min", Min: 0}},
		SortBy:     "Playing Time_Min",
	}

	out := FilterAndSort(players(), spec)
	assert.Equal(t, []string{"D", "A", "B"}, names(out), "strict threshold drops zero minutes and header rows")
}

func TestFilterAndSort_InclusiveThreshold(t *testing.T) {
	spec := FilterSpec{
		Thresholds: []Threshold{{Field: "Per 90 Minutes_xG+xAG", Min: 0.35, Inclusive: true}},
		SortBy:     "Per 90 Minutes_xG+xAG",
		Ascending:  true,
	}

	out := FilterAndSort(players(), spec)
	assert.Equal(t, []string{"B", "A"}, names(out))
	assert.True(t, out.Records[0]["Per 90 Minutes_xG+xAG"].Numeric, "sort column is coerced")
}

func TestFilter_Category(t *testing.T) {
	spec := FilterSpec{CategoryField: "Pos", Category: "forward"}

	out := Filter(players(), spec)
	assert.Equal(t, []string{"A"}, names(out))

	spec.Category = "fw"
	assert.Equal(t, []string{"B"}, names(Filter(players(), spec)))

	spec.Category = ""
	assert.Len(t, Filter(players(), spec).Records, 5, "empty category keeps every row")
}

func TestSort_MissingValuesRankLowest(t *testing.T) {
	spec := FilterSpec{SortBy: "Per 90 Minutes_xG+xAG"}

	desc := Sort(players(), spec)
	assert.Equal(t, []string{"A", "B", "C", "D", "Player"}, names(desc))

	spec.Ascending = true
	asc := Sort(players(), spec)
	assert.Equal(t, []string{"D", "Player", "C", "B", "A"}, names(asc), "ties keep input order")
}

func TestSort_DoesNotMutateInput(t *testing.T) {
	set := players()
	_ = Sort(set, FilterSpec{SortBy: "Per 90 Minutes_xG+xAG"})

	require.Equal(t, "A", set.Records[0].String("Player"))
	assert.False(t, set.Records[0]["Per 90 Minutes_xG+xAG"].Numeric)
}
