package table

import (
	"errors"

	"github.com/PuerkitoBio/goquery"
	"github.com/williampepple1/fbref-stats/pkg/models"
)

// ErrNoHeader is returned when a table has no header row to name columns
var ErrNoHeader = errors.New("table has no header row")

// Parse converts a raw table into records, one per data row, in row order.
// With merge set the two header rows are flattened via MergeHeaders. Columns
// listed in numeric are coerced, with NaN standing in for unparsable cells.
// Rows with the wrong number of cells are padded or truncated, never dropped.
func Parse(t *RawTable, merge bool, numeric map[string]bool) (*models.RecordSet, error) {
	columns := t.columns(merge)
	if len(columns) == 0 {
		return nil, ErrNoHeader
	}

	set := models.NewRecordSet(columns)
	t.dataRows().Each(func(_ int, row *goquery.Selection) {
		cells := row.Children().Filter("th, td")
		record := make(models.Record, len(columns))
		for i, column := range columns {
			text := ""
			if i < cells.Length() {
				text = cellText(cells.Eq(i))
			}
			if numeric[column] {
				record[column] = models.Coerce(text)
			} else {
				record[column] = models.Text(text)
			}
		}
		set.Records = append(set.Records, record)
	})

	return set, nil
}

// Columns returns the set-like lookup Parse expects for numeric columns
func Columns(names ...string) map[string]bool {
	out := make(map[string]bool, len(names))
	for _, n := range names {
		out[n] = true
	}
	return out
}
