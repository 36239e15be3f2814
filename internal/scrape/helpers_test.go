package scrape

import (
	"context"
	"fmt"
	"strings"
	"testing"

	"github.com/PuerkitoBio/goquery"
	"github.com/stretchr/testify/require"
)

func docFromHTML(t *testing.T, html string) *goquery.Document {
	t.Helper()
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	require.NoError(t, err)
	return doc
}

// fakeFetcher serves canned pages keyed by URL.
type fakeFetcher struct {
	pages   map[string]string
	errs    map[string]error
	fetched []string
}

func (f *fakeFetcher) Fetch(_ context.Context, rawURL string) (*goquery.Document, error) {
	f.fetched = append(f.fetched, rawURL)
	if err, ok := f.errs[rawURL]; ok {
		return nil, err
	}
	html, ok := f.pages[rawURL]
	if !ok {
		return nil, fmt.Errorf("no page for %s", rawURL)
	}
	return goquery.NewDocumentFromReader(strings.NewReader(html))
}

// listingPage builds a minimal listing document for tests.
func listingPage(price, area, location, floor string, links ...string) string {
	var b strings.Builder
	b.WriteString("<html><body><h1>二子玉川ライズ タワー&レジデンス</h1><dl>")
	fmt.Fprintf(&b, "<dt>価格</dt><dd>%s</dd>", price)
	b.WriteString("<dt>間取り</dt><dd>2LDK</dd>")
	fmt.Fprintf(&b, "<dt>専有面積</dt><dd>%s</dd>", area)
	fmt.Fprintf(&b, "<dt>所在地</dt><dd>%s</dd>", location)
	fmt.Fprintf(&b, "<dt>所在階数</dt><dd>%s</dd>", floor)
	b.WriteString("<dt>築年月</dt><dd>2011年1月</dd>")
	b.WriteString("</dl>")
	for _, link := range links {
		fmt.Fprintf(&b, `<a href="%s">他の物件</a>`, link)
	}
	b.WriteString("</body></html>")
	return b.String()
}
