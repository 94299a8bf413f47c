package table

import (
	"fmt"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/williampepple1/fbref-stats/pkg/models"
)

// CellTag selects which kind of cell a link column is made of
type CellTag int

const (
	// CellHeader scans th cells
	CellHeader CellTag = iota
	// CellData scans td cells
	CellData
)

func (c CellTag) selector() string {
	if c == CellHeader {
		return "th"
	}
	return "td"
}

// ParseCellTag maps "th"/"header" and "td"/"data" to a CellTag
func ParseCellTag(s string) (CellTag, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "th", "header":
		return CellHeader, nil
	case "td", "data", "":
		return CellData, nil
	default:
		return CellData, fmt.Errorf("unknown cell tag %q", s)
	}
}

// LinkSpec locates the link column of a table
type LinkSpec struct {
	Column   int
	Tag      CellTag
	SkipRows int
}

// ExtractLinks walks every row after the first skipRows and returns the href
// of the anchor in the column-th cell of the given kind. Rows missing the
// cell or the anchor yield models.NoLink.
func ExtractLinks(t *RawTable, column int, tag CellTag, skipRows int) []models.Link {
	rows := t.rows()
	if skipRows < 0 {
		skipRows = 0
	}

	var links []models.Link
	rows.Each(func(i int, row *goquery.Selection) {
		if i < skipRows {
			return
		}
		links = append(links, t.linkInRow(row, column, tag))
	})
	return links
}

// Links runs ExtractLinks with a LinkSpec
func (s LinkSpec) Links(t *RawTable) []models.Link {
	return ExtractLinks(t, s.Column, s.Tag, s.SkipRows)
}

func (t *RawTable) linkInRow(row *goquery.Selection, column int, tag CellTag) models.Link {
	cells := row.Children().Filter(tag.selector())
	if column < 0 || column >= cells.Length() {
		return models.NoLink
	}
	href, ok := cells.Eq(column).Find("a").First().Attr("href")
	if !ok || strings.TrimSpace(href) == "" {
		return models.NoLink
	}
	return models.NewLink(t.resolve(strings.TrimSpace(href)))
}
