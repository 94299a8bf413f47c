// Package plot draws labelled scatter plots of two record columns.
package plot

import (
	"errors"
	"fmt"
	"image/color"
	"math"
	"os"
	"path/filepath"

	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/vg"
	"gonum.org/v1/plot/vg/draw"

	"github.com/williampepple1/fbref-stats/pkg/models"
)

// ErrNoPoints is returned when no record has both axis values
var ErrNoPoints = errors.New("no plottable points")

// Scatter describes one plot
type Scatter struct {
	XAxis     string
	YAxis     string
	NameField string
}

// Points collects the records that have numeric values on both axes
func (s Scatter) Points(set *models.RecordSet) (plotter.XYs, []string) {
	var pts plotter.XYs
	var names []string
	for _, r := range set.Records {
		x, y := r.Float(s.XAxis), r.Float(s.YAxis)
		if math.IsNaN(x) || math.IsNaN(y) || math.IsInf(x, 0) || math.IsInf(y, 0) {
			continue
		}
		pts = append(pts, plotter.XY{X: x, Y: y})
		names = append(names, r.String(s.NameField))
	}
	return pts, names
}

// Save draws the plot into dir/fileName. A file name without extension is
// saved as PNG.
func (s Scatter) Save(set *models.RecordSet, dir, fileName string) (string, error) {
	pts, names := s.Points(set)
	if len(pts) == 0 {
		return "", ErrNoPoints
	}

	p := plot.New()
	p.Title.Text = s.XAxis + " vs " + s.YAxis
	p.X.Label.Text = s.XAxis
	p.Y.Label.Text = s.YAxis

	sc, err := plotter.NewScatter(pts)
	if err != nil {
		return "", fmt.Errorf("error building scatter: %w", err)
	}
	sc.Color = color.RGBA{B: 255, A: 255}
	sc.Shape = draw.CircleGlyph{}
	sc.Radius = vg.Points(3)
	p.Add(sc)

	labels, err := plotter.NewLabels(plotter.XYLabels{XYs: pts, Labels: names})
	if err != nil {
		return "", fmt.Errorf("error building labels: %w", err)
	}
	for i := range labels.TextStyle {
		labels.TextStyle[i].Font.Size = vg.Points(5)
	}
	p.Add(labels)

	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", fmt.Errorf("error creating plot directory: %w", err)
	}
	if filepath.Ext(fileName) == "" {
		fileName += ".png"
	}
	path := filepath.Join(dir, fileName)

	if err := p.Save(10*vg.Inch, 6*vg.Inch, path); err != nil {
		return "", fmt.Errorf("error saving plot: %w", err)
	}
	return path, nil
}
