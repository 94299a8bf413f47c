package pipeline

import (
	"math"
	"sort"
	"strings"

	"github.com/williampepple1/fbref-stats/pkg/models"
)

// Threshold keeps records whose Field is above Min, or at least Min when
// Inclusive is set. Missing numbers never pass.
type Threshold struct {
	Field     string
	Min       float64
	Inclusive bool
}

func (t Threshold) pass(r models.Record) bool {
	v := r.Float(t.Field)
	if math.IsNaN(v) {
		return false
	}
	if t.Inclusive {
		return v >= t.Min
	}
	return v > t.Min
}

// FilterSpec selects and orders records. A non-empty Names allow-list
// disables Thresholds and Category entirely.
type FilterSpec struct {
	NameField string
	Names     []string

	Thresholds []Threshold

	CategoryField string
	Category      string

	SortBy    string
	Ascending bool
}

// Filter applies the allow-list or the thresholds and category match
func Filter(set *models.RecordSet, spec FilterSpec) *models.RecordSet {
	var keep func(models.Record) bool
	if len(spec.Names) > 0 {
		allowed := make(map[string]bool, len(spec.Names))
		for _, n := range spec.Names {
			allowed[n] = true
		}
		keep = func(r models.Record) bool {
			return allowed[r.String(spec.NameField)]
		}
	} else {
		category := strings.ToLower(spec.Category)
		keep = func(r models.Record) bool {
			for _, t := range spec.Thresholds {
				if !t.pass(r) {
					return false
				}
			}
			if category == "" {
				return true
			}
			v, ok := r[spec.CategoryField]
			if !ok || v.IsMissing() {
				return false
			}
			return strings.Contains(strings.ToLower(v.String()), category)
		}
	}

	out := make([]models.Record, 0, set.Len())
	for _, r := range set.Records {
		if keep(r) {
			out = append(out, r)
		}
	}
	return set.WithRecords(out)
}

// sortValue maps missing numbers to the lowest possible value
func sortValue(r models.Record, field string) float64 {
	v := r.Float(field)
	if math.IsNaN(v) {
		return math.Inf(-1)
	}
	return v
}

// Sort orders records by the numeric value of spec.SortBy. Records whose
// key is missing rank below every number. Ties keep their current order.
// The sort column itself is stored coerced to a number.
func Sort(set *models.RecordSet, spec FilterSpec) *models.RecordSet {
	out := make([]models.Record, len(set.Records))
	copy(out, set.Records)
	if spec.SortBy == "" {
		return set.WithRecords(out)
	}

	for i, r := range out {
		if _, ok := r[spec.SortBy]; !ok {
			continue
		}
		coerced := make(models.Record, len(r))
		for k, v := range r {
			coerced[k] = v
		}
		coerced[spec.SortBy] = models.Number(r.Float(spec.SortBy))
		out[i] = coerced
	}

	sort.SliceStable(out, func(i, j int) bool {
		a, b := sortValue(out[i], spec.SortBy), sortValue(out[j], spec.SortBy)
		if spec.Ascending {
			return a < b
		}
		return a > b
	})
	return set.WithRecords(out)
}

// FilterAndSort filters then sorts, returning records in a fresh order
func FilterAndSort(set *models.RecordSet, spec FilterSpec) *models.RecordSet {
	return Sort(Filter(set, spec), spec)
}
