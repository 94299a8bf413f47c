package table

import (
	"strconv"
	"strings"

	"github.com/PuerkitoBio/goquery"
)

// Unnamed marks a header group cell that carries no label
const Unnamed = "Unnamed"

// Separator joins group and leaf labels
const Separator = "_"

// IsUnnamed reports whether a group label is the "no group" placeholder
func IsUnnamed(group string) bool {
	g := strings.TrimSpace(group)
	return g == "" || strings.Contains(g, Unnamed)
}

// MergeHeaders flattens a two-row header into one name per column.
// A column under an unnamed group keeps its leaf label, every other column
// becomes "group_leaf". Names repeated under the same group stay repeated.
func MergeHeaders(groups, leaves []string) []string {
	names := make([]string, len(leaves))
	for i, leaf := range leaves {
		group := ""
		if i < len(groups) {
			group = groups[i]
		}
		if IsUnnamed(group) {
			names[i] = strings.TrimSpace(leaf)
			continue
		}
		names[i] = strings.Trim(strings.TrimSpace(group)+Separator+strings.TrimSpace(leaf), Separator)
	}
	return names
}

// expandRow reads a header row, repeating each cell over its colspan
func expandRow(row *goquery.Selection) []string {
	var labels []string
	row.Children().Filter("th, td").Each(func(_ int, cell *goquery.Selection) {
		span, err := strconv.Atoi(cell.AttrOr("colspan", "1"))
		if err != nil || span < 1 {
			span = 1
		}
		text := cellText(cell)
		for i := 0; i < span; i++ {
			labels = append(labels, text)
		}
	})
	return labels
}

// columns works out the flat column names of the table
func (t *RawTable) columns(merge bool) []string {
	head := t.headerRows()
	if head.Length() == 0 {
		return nil
	}
	leaves := expandRow(head.Last())
	if !merge || head.Length() < 2 {
		return leaves
	}
	groups := expandRow(head.Eq(head.Length() - 2))
	return MergeHeaders(groups, leaves)
}
