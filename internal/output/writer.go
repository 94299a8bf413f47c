// Package output writes finished record sets to files and the console.
package output

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"

	"github.com/williampepple1/fbref-stats/pkg/models"
)

const (
	FormatCSV  = "csv"
	FormatJSON = "json"
)

// TimestampLayout suffixes every exported file name
const TimestampLayout = "20060102_150405"

// ResultWriter writes record sets into a directory
type ResultWriter struct {
	Dir    string
	Format string
	// Drop lists columns left out of the export
	Drop []string
	Now  func() time.Time
}

// NewResultWriter creates a new result writer
func NewResultWriter(dir, format string, drop ...string) *ResultWriter {
	return &ResultWriter{
		Dir:    dir,
		Format: format,
		Drop:   drop,
		Now:    time.Now,
	}
}

// FileName returns "<name>_<timestamp>.<format>"
func (w *ResultWriter) FileName(name string) string {
	return fmt.Sprintf("%s_%s.%s", name, w.Now().Format(TimestampLayout), w.Format)
}

// SaveToFile writes the set under a timestamped name and returns the path
func (w *ResultWriter) SaveToFile(set *models.RecordSet, name string) (string, error) {
	if err := os.MkdirAll(w.Dir, 0o755); err != nil {
		return "", fmt.Errorf("error creating output directory: %w", err)
	}
	path := filepath.Join(w.Dir, w.FileName(name))

	f, err := os.Create(path)
	if err != nil {
		return "", fmt.Errorf("error creating %s: %w", path, err)
	}

	if err := w.Write(f, set); err != nil {
		f.Close()
		return "", err
	}
	if err := f.Close(); err != nil {
		return "", fmt.Errorf("error closing %s: %w", path, err)
	}
	return path, nil
}

// Write encodes the set in the configured format
func (w *ResultWriter) Write(out io.Writer, set *models.RecordSet) error {
	columns := w.columns(set)

	switch w.Format {
	case FormatCSV:
		cw := csv.NewWriter(out)
		if err := cw.Write(columns); err != nil {
			return err
		}
		row := make([]string, len(columns))
		for _, r := range set.Records {
			for i, c := range columns {
				row[i] = r.String(c)
			}
			if err := cw.Write(row); err != nil {
				return err
			}
		}
		cw.Flush()
		return cw.Error()

	case FormatJSON:
		rows := make([]map[string]string, 0, set.Len())
		for _, r := range set.Records {
			row := make(map[string]string, len(columns))
			for _, c := range columns {
				row[c] = r.String(c)
			}
			rows = append(rows, row)
		}
		enc := json.NewEncoder(out)
		enc.SetIndent("", "  ")
		return enc.Encode(rows)

	default:
		return fmt.Errorf("unsupported output format: %s", w.Format)
	}
}

func (w *ResultWriter) columns(set *models.RecordSet) []string {
	drop := make(map[string]bool, len(w.Drop))
	for _, d := range w.Drop {
		drop[d] = true
	}
	var columns []string
	for _, c := range set.Columns {
		if !drop[c] {
			columns = append(columns, c)
		}
	}
	return columns
}
