package scrape

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/ymatsuda/rise-tracker/internal/metrics"
)

// Config captures every knob that influences a scrape run.
type Config struct {
	// Seeds start the auto-discovery walk.
	Seeds []string
	// ManualURLs are scraped as-is when AutoDiscover is off.
	ManualURLs []string
	// AutoDiscover toggles the discovery walk plus area filter.
	AutoDiscover bool
	// MinArea and MaxArea bound the area filter as [MinArea, MaxArea).
	MinArea float64
	MaxArea float64
	// BaseURL overrides the listing host (used by tests).
	BaseURL string
	// FetchDelay paces listing fetches; DiscoverDelay paces the walk.
	FetchDelay    time.Duration
	DiscoverDelay time.Duration
	// MaxPages bounds discovery.
	MaxPages int
}

// Service runs the scrape: discover (or take) listing URLs, fetch and parse
// each one, and filter by floor area in auto-discover mode.
type Service struct {
	fetcher Fetcher
	cfg     Config
	logger  *zap.Logger
}

// NewService wires a Service from its collaborators.
func NewService(fetcher Fetcher, cfg Config, logger *zap.Logger) *Service {
	return &Service{
		fetcher: fetcher,
		cfg:     cfg,
		logger:  logger,
	}
}

// Run performs one full scrape. Individual listing failures are recorded in
// the result; only a run yielding zero valid listings is an error.
func (s *Service) Run(ctx context.Context) (Result, error) {
	urls, err := s.listingURLs(ctx)
	if err != nil {
		return Result{}, err
	}

	result := Result{TotalDiscovered: len(urls)}

	for i, url := range urls {
		prop := s.scrapeOne(ctx, url)

		if prop.Err != "" {
			metrics.RecordScrapePage("failed")
			result.Properties = append(result.Properties, prop)
		} else if !s.cfg.AutoDiscover || s.areaInRange(prop) {
			metrics.RecordScrapePage("fetched")
			result.Properties = append(result.Properties, prop)
		} else {
			metrics.RecordScrapePage("filtered")
			s.logger.Debug("Listing outside area range",
				zap.String("kanri_no", prop.KanriNo),
				zap.Float64("area", prop.Area))
		}

		if i < len(urls)-1 {
			if err := sleep(ctx, s.cfg.FetchDelay); err != nil {
				return Result{}, err
			}
		}
	}

	valid := result.Valid()
	if len(valid) == 0 {
		return Result{}, fmt.Errorf("no valid listings scraped from %d URLs", len(urls))
	}

	metrics.SetPropertiesTracked(len(valid))
	s.logger.Info("Scrape finished",
		zap.Int("discovered", result.TotalDiscovered),
		zap.Int("valid", len(valid)),
		zap.Int("failed", len(result.Failed())))

	return result, nil
}

func (s *Service) listingURLs(ctx context.Context) ([]string, error) {
	if !s.cfg.AutoDiscover {
		s.logger.Info("Manual listing mode", zap.Int("urls", len(s.cfg.ManualURLs)))
		return s.cfg.ManualURLs, nil
	}

	discoverer := NewDiscoverer(s.fetcher, s.cfg.BaseURL, s.cfg.DiscoverDelay, s.cfg.MaxPages, s.logger)
	urls, err := discoverer.Discover(ctx, s.cfg.Seeds)
	if err != nil {
		return nil, fmt.Errorf("discover listings: %w", err)
	}
	if len(urls) == 0 {
		return nil, fmt.Errorf("no listings discovered from %d seeds", len(s.cfg.Seeds))
	}
	return urls, nil
}

func (s *Service) scrapeOne(ctx context.Context, url string) Property {
	s.logger.Debug("Fetching listing", zap.String("url", url))
	doc, err := s.fetcher.Fetch(ctx, url)
	if err != nil {
		s.logger.Warn("Listing fetch failed", zap.String("url", url), zap.Error(err))
		return Property{URL: url, KanriNo: kanriNoFromURL(url), Err: err.Error()}
	}
	return ParseProperty(url, doc)
}

func (s *Service) areaInRange(p Property) bool {
	return p.Area >= s.cfg.MinArea && p.Area < s.cfg.MaxArea
}
