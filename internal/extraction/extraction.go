package extraction

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"golang.org/x/net/html"

	"github.com/williampepple1/fbref-stats/internal/table"
)

// Page is a fetched stats page from which tables are pulled by id
type Page struct {
	URL string
	doc *goquery.Document
}

// TableNotFoundError reports a table id missing from a page
type TableNotFoundError struct {
	ID  string
	URL string
}

func (e *TableNotFoundError) Error() string {
	return fmt.Sprintf("table %q not found on %s", e.ID, e.URL)
}

// NewPage parses the page markup
func NewPage(url, markup string) (*Page, error) {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(markup))
	if err != nil {
		return nil, fmt.Errorf("error parsing page %s: %w", url, err)
	}
	return &Page{URL: url, doc: doc}, nil
}

// Table finds the table with the given id. Tables that the page ships
// inside HTML comments are found too.
func (p *Page) Table(id string) (*table.RawTable, error) {
	if sel := p.doc.Find("table#" + id); sel.Length() > 0 {
		return table.FromSelection(sel.First())
	}

	idAttr := regexp.MustCompile(`id=["']` + regexp.QuoteMeta(id) + `["']`)
	for _, comment := range comments(p.doc.Selection) {
		if !idAttr.MatchString(comment) {
			continue
		}
		doc, err := goquery.NewDocumentFromReader(strings.NewReader(comment))
		if err != nil {
			continue
		}
		if sel := doc.Find("table#" + id); sel.Length() > 0 {
			return table.FromSelection(sel.First())
		}
	}

	return nil, &TableNotFoundError{ID: id, URL: p.URL}
}

// TableIDs lists the ids of every table on the page, commented ones last
func (p *Page) TableIDs() []string {
	var ids []string
	collect := func(sel *goquery.Selection) {
		sel.Find("table[id]").Each(func(_ int, t *goquery.Selection) {
			ids = append(ids, t.AttrOr("id", ""))
		})
	}
	collect(p.doc.Selection)
	for _, comment := range comments(p.doc.Selection) {
		if doc, err := goquery.NewDocumentFromReader(strings.NewReader(comment)); err == nil {
			collect(doc.Selection)
		}
	}
	return ids
}

// comments returns the text of every comment node holding a table
func comments(sel *goquery.Selection) []string {
	var out []string
	var walk func(n *html.Node)
	walk = func(n *html.Node) {
		if n.Type == html.CommentNode && strings.Contains(n.Data, "<table") {
			out = append(out, n.Data)
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	for _, n := range sel.Nodes {
		walk(n)
	}
	return out
}
