package output

import (
	"fmt"
	"io"
	"strings"
	"text/tabwriter"

	"github.com/williampepple1/fbref-stats/pkg/models"
)

// PrintTable writes the given columns of the set as an aligned table.
// Columns missing from the set are skipped.
func PrintTable(w io.Writer, set *models.RecordSet, columns []string) error {
	var cols []string
	for _, c := range columns {
		if set.HasColumn(c) {
			cols = append(cols, c)
		}
	}
	if len(cols) == 0 {
		cols = set.Columns
	}

	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, strings.Join(cols, "\t"))
	row := make([]string, len(cols))
	for _, r := range set.Records {
		for i, c := range cols {
			row[i] = r.String(c)
		}
		fmt.Fprintln(tw, strings.Join(row, "\t"))
	}
	return tw.Flush()
}
