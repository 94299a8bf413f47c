// Package enrich joins per-row entity links onto parsed records and adds
// derived metrics.
package enrich

import (
	"errors"
	"fmt"
	"math"

	"github.com/williampepple1/fbref-stats/pkg/models"
)

const (
	// LinkColumn holds the entity detail page of each record
	LinkColumn = "url"
	// OverperformanceColumn holds actual minus expected outcome
	OverperformanceColumn = "Overperformance"

	DefaultActualField   = "Performance_Gls"
	DefaultExpectedField = "Expected_xG"
)

// ErrMisaligned is matched by every AlignmentError
var ErrMisaligned = errors.New("records and links are misaligned")

// AlignmentError reports two sequences that should correspond 1:1 but do not
type AlignmentError struct {
	Records int
	Links   int
}

func (e *AlignmentError) Error() string {
	return fmt.Sprintf("%v: %d records, %d links", ErrMisaligned, e.Records, e.Links)
}

// Is lets errors.Is match ErrMisaligned
func (e *AlignmentError) Is(target error) bool {
	return target == ErrMisaligned
}

// Round rounds to the given number of decimal places. NaN stays NaN.
func Round(v float64, places int) float64 {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return v
	}
	p := math.Pow(10, float64(places))
	return math.Round(v*p) / p
}

// Overperformance returns actual minus expected rounded to 3 places.
// A missing operand gives a missing result.
func Overperformance(actual, expected float64) float64 {
	return Round(actual-expected, 3)
}

// Enrich pairs the i-th record with the i-th link and derives the
// overperformance column from actualField and expectedField. The input set
// is left untouched. Sequences of different length fail with AlignmentError.
func Enrich(set *models.RecordSet, links []models.Link, actualField, expectedField string) (*models.RecordSet, error) {
	if set.Len() != len(links) {
		return nil, &AlignmentError{Records: set.Len(), Links: len(links)}
	}
	if actualField == "" {
		actualField = DefaultActualField
	}
	if expectedField == "" {
		expectedField = DefaultExpectedField
	}

	out := models.NewRecordSet(set.Columns)
	out.AddColumn(LinkColumn)
	out.AddColumn(OverperformanceColumn)

	for i, record := range set.Records {
		enriched := make(models.Record, len(record)+2)
		for k, v := range record {
			enriched[k] = v
		}
		enriched[LinkColumn] = models.Text(links[i].String())
		enriched[OverperformanceColumn] = models.Number(
			Overperformance(record.Float(actualField), record.Float(expectedField)),
		)
		out.Records = append(out.Records, enriched)
	}

	return out, nil
}

// LinkOf reads back the link stored by Enrich
func LinkOf(r models.Record) models.Link {
	s := r.String(LinkColumn)
	if s == "" {
		return models.NoLink
	}
	return models.NewLink(s)
}
