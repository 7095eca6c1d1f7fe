package page

import (
	"errors"
	"fmt"
	"io"
	"net/url"
	"strconv"
	"strings"

	"feedmark/core/reconcile"

	"github.com/PuerkitoBio/goquery"
)

var (
	// ErrBadID is returned when an item carries an id that is not a positive integer.
	ErrBadID = fmt.Errorf("%w: malformed item id", reconcile.ErrInvariant)
	// ErrOrder is returned when rendered ids do not strictly decrease.
	ErrOrder = fmt.Errorf("%w: item ids out of order", reconcile.ErrInvariant)
	// ErrNoURL is returned when a page is parsed without a usable URL.
	ErrNoURL = errors.New("page URL is required")
)

// Page is a rendered feed page: its address and its parsed document.
type Page struct {
	URL *url.URL
	Doc *goquery.Document
	sel Selectors
}

// Parse reads an HTML document rendered at rawURL.
func Parse(rawURL string, r io.Reader, sel Selectors) (*Page, error) {
	if strings.TrimSpace(rawURL) == "" {
		return nil, ErrNoURL
	}
	u, err := url.Parse(rawURL)
	if err != nil {
		return nil, fmt.Errorf("parse page url: %w", err)
	}
	doc, err := goquery.NewDocumentFromReader(r)
	if err != nil {
		return nil, fmt.Errorf("parse document: %w", err)
	}
	return &Page{URL: u, Doc: doc, sel: sel}, nil
}

// Selectors returns the selectors the page was parsed with.
func (p *Page) Selectors() Selectors {
	return p.sel
}

// Items returns the content items in document order, skipping excluded ones.
func (p *Page) Items() *goquery.Selection {
	items := p.Doc.Find(p.sel.Item)
	if p.sel.Exclude != "" {
		items = items.Not(p.sel.Exclude)
	}
	return items
}

// ItemIDs returns the rendered item ids, newest first. Any id that is not a
// positive integer, or that breaks strict ordering, is a fatal error.
func (p *Page) ItemIDs() ([]int64, error) {
	var (
		ids []int64
		err error
	)
	p.Items().EachWithBreak(func(i int, s *goquery.Selection) bool {
		raw, _ := s.Attr(p.sel.IDAttr)
		id, perr := strconv.ParseInt(strings.TrimSpace(raw), 10, 64)
		if perr != nil || id <= 0 {
			err = fmt.Errorf("%w: item %d has %s=%q", ErrBadID, i, p.sel.IDAttr, raw)
			return false
		}
		if n := len(ids); n > 0 && ids[n-1] <= id {
			err = fmt.Errorf("%w: item %d id %d follows %d", ErrOrder, i, id, ids[n-1])
			return false
		}
		ids = append(ids, id)
		return true
	})
	if err != nil {
		return nil, err
	}
	return ids, nil
}

// Item returns the rendered item with the given id.
func (p *Page) Item(id int64) *goquery.Selection {
	want := strconv.FormatInt(id, 10)
	return p.Items().FilterFunction(func(_ int, s *goquery.Selection) bool {
		raw, _ := s.Attr(p.sel.IDAttr)
		return strings.TrimSpace(raw) == want
	}).First()
}

// NextURL returns the resolved href of the next-page link.
func (p *Page) NextURL() (*url.URL, bool) {
	return p.linkURL(p.sel.NextLink)
}

// CanonicalURL returns the resolved href of the canonical link.
func (p *Page) CanonicalURL() (*url.URL, bool) {
	return p.linkURL(p.sel.Canonical)
}

func (p *Page) linkURL(selector string) (*url.URL, bool) {
	if selector == "" {
		return nil, false
	}
	href, ok := p.Doc.Find(selector).First().Attr("href")
	if !ok || strings.TrimSpace(href) == "" {
		return nil, false
	}
	ref, err := url.Parse(strings.TrimSpace(href))
	if err != nil {
		return nil, false
	}
	return p.URL.ResolveReference(ref), true
}

// EndlessScroll reports whether the surface loads more items without a reload.
func (p *Page) EndlessScroll() bool {
	return p.sel.EndlessScroll != "" && p.Doc.Find(p.sel.EndlessScroll).Length() > 0
}

// Controls returns the insertion point for user controls, if present.
func (p *Page) Controls() *goquery.Selection {
	if p.sel.Controls == "" {
		return p.Doc.Selection.Slice(0, 0)
	}
	return p.Doc.Find(p.sel.Controls).First()
}

// HTML renders the current document.
func (p *Page) HTML() (string, error) {
	return p.Doc.Html()
}
