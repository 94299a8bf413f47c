// Package table turns raw HTML stats tables into flat, typed record sets.
package table

import (
	"errors"
	"fmt"
	"net/url"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"golang.org/x/net/html"
)

// ErrNoTable is returned when markup holds no <table> element
var ErrNoTable = errors.New("no table element found")

// RawTable is a captured <table> element. It is never modified after capture.
type RawTable struct {
	sel  *goquery.Selection
	base *url.URL
}

// FromHTML parses markup and captures the first table in it
func FromHTML(markup string) (*RawTable, error) {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(markup))
	if err != nil {
		return nil, fmt.Errorf("error parsing table markup: %w", err)
	}
	return FromSelection(doc.Selection)
}

// FromSelection captures the table at or below the selection
func FromSelection(sel *goquery.Selection) (*RawTable, error) {
	t := sel.Filter("table")
	if t.Length() == 0 {
		t = sel.Find("table")
	}
	if t.Length() == 0 {
		return nil, ErrNoTable
	}
	return &RawTable{sel: t.First()}, nil
}

// FromNode captures the table at or below an html node
func FromNode(n *html.Node) (*RawTable, error) {
	return FromSelection(goquery.NewDocumentFromNode(n).Selection)
}

// WithBase returns a copy whose links are resolved against base
func (t *RawTable) WithBase(base string) (*RawTable, error) {
	if base == "" {
		return &RawTable{sel: t.sel}, nil
	}
	u, err := url.Parse(base)
	if err != nil {
		return nil, fmt.Errorf("invalid base url %q: %w", base, err)
	}
	return &RawTable{sel: t.sel, base: u}, nil
}

// ID returns the table's id attribute
func (t *RawTable) ID() string {
	return t.sel.AttrOr("id", "")
}

// HTML returns the outer markup of the table
func (t *RawTable) HTML() (string, error) {
	return goquery.OuterHtml(t.sel)
}

// rows returns every tr of the table in document order, including header rows
func (t *RawTable) rows() *goquery.Selection {
	return t.sel.Find("tr")
}

// headerRows returns the rows used as header. Tables without a thead use
// their first row.
func (t *RawTable) headerRows() *goquery.Selection {
	head := t.sel.Find("thead tr")
	if head.Length() > 0 {
		return head
	}
	return t.rows().First()
}

// dataRows returns the rows that become records
func (t *RawTable) dataRows() *goquery.Selection {
	if t.sel.Find("thead").Length() == 0 {
		return t.rows().Slice(1, goquery.ToEnd)
	}
	return t.sel.Find("tbody tr, tfoot tr")
}

func (t *RawTable) resolve(href string) string {
	if t.base == nil {
		return href
	}
	ref, err := url.Parse(href)
	if err != nil {
		return href
	}
	return t.base.ResolveReference(ref).String()
}

func cellText(s *goquery.Selection) string {
	return strings.Join(strings.Fields(s.Text()), " ")
}
