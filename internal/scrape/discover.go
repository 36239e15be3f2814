package scrape

import (
	"context"
	"sort"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"
	"go.uber.org/zap"
)

// defaultBaseURL absolutizes relative listing links.
const defaultBaseURL = "https://www.livable.co.jp"

// skipLinkFragments marks hrefs that are never listing pages.
var skipLinkFragments = []string{
	"mailto:", "javascript:", "line.me", "twitter.com", "facebook.com",
}

// Discoverer walks listing pages breadth-first, following "other units in
// this building" links until no new listings appear.
type Discoverer struct {
	fetcher  Fetcher
	baseURL  string
	delay    time.Duration
	maxPages int
	logger   *zap.Logger
}

// NewDiscoverer builds a Discoverer. baseURL may be empty to use the
// production listing host; maxPages bounds the walk.
func NewDiscoverer(fetcher Fetcher, baseURL string, delay time.Duration, maxPages int, logger *zap.Logger) *Discoverer {
	if baseURL == "" {
		baseURL = defaultBaseURL
	}
	return &Discoverer{
		fetcher:  fetcher,
		baseURL:  baseURL,
		delay:    delay,
		maxPages: maxPages,
		logger:   logger,
	}
}

// Discover returns the sorted URLs of every listing reachable from seeds.
// Fetch failures skip the page rather than aborting the walk.
func (d *Discoverer) Discover(ctx context.Context, seeds []string) ([]string, error) {
	queue := make([]string, 0, len(seeds))
	for _, s := range seeds {
		queue = append(queue, d.absolutize(s))
	}

	discovered := make(map[string]string) // property ID -> URL

	for len(queue) > 0 {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		current := queue[0]
		queue = queue[1:]

		id := ExtractPropertyID(current)
		if id == "" {
			continue
		}
		if _, seen := discovered[id]; seen {
			continue
		}
		if len(discovered) >= d.maxPages {
			d.logger.Warn("Discovery page budget reached", zap.Int("max_pages", d.maxPages))
			break
		}
		discovered[id] = current
		d.logger.Debug("Discovered listing", zap.String("kanri_no", id), zap.Int("total", len(discovered)))

		doc, err := d.fetcher.Fetch(ctx, current)
		if err != nil {
			d.logger.Warn("Discovery fetch failed", zap.String("url", current), zap.Error(err))
			continue
		}
		for _, link := range d.relatedListings(doc, current) {
			if _, seen := discovered[ExtractPropertyID(link)]; !seen {
				queue = append(queue, link)
			}
		}

		if len(queue) > 0 {
			if err := sleep(ctx, d.delay); err != nil {
				return nil, err
			}
		}
	}

	urls := make([]string, 0, len(discovered))
	for _, u := range discovered {
		urls = append(urls, u)
	}
	sort.Strings(urls)

	d.logger.Info("Listing discovery finished", zap.Int("listings", len(urls)))
	return urls, nil
}

// relatedListings extracts every listing link on the page except self-links.
func (d *Discoverer) relatedListings(doc *goquery.Document, pageURL string) []string {
	seen := make(map[string]struct{})
	var links []string

	doc.Find("a[href]").Each(func(_ int, a *goquery.Selection) {
		href := a.AttrOr("href", "")
		if ExtractPropertyID(href) == "" || skipLink(href) {
			return
		}
		href = d.absolutize(href)
		if href == pageURL {
			return
		}
		if _, dup := seen[href]; dup {
			return
		}
		seen[href] = struct{}{}
		links = append(links, href)
	})

	return links
}

func (d *Discoverer) absolutize(href string) string {
	if strings.HasPrefix(href, "http") {
		return href
	}
	return d.baseURL + href
}

func skipLink(href string) bool {
	for _, frag := range skipLinkFragments {
		if strings.Contains(href, frag) {
			return true
		}
	}
	return false
}

// sleep pauses for the duration unless the context ends first.
func sleep(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return nil
	}
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}
