// Package pipeline glues the scraper, price tracker, and site generator into
// one data refresh run.
package pipeline

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"go.uber.org/zap"

	"github.com/ymatsuda/rise-tracker/internal/scrape"
	"github.com/ymatsuda/rise-tracker/internal/site"
	"github.com/ymatsuda/rise-tracker/internal/tracker"
)

// jst anchors dates and report filenames to Japan time.
var jst = time.FixedZone("JST", 9*60*60)

// Clock returns the current time (useful for testing).
type Clock interface {
	Now() time.Time
}

// Scraper produces the listing set for one run.
type Scraper interface {
	Run(ctx context.Context) (scrape.Result, error)
}

// Pipeline performs scrape → detect changes → save history → generate site.
type Pipeline struct {
	scraper   Scraper
	tracker   *tracker.Tracker
	generator *site.Generator
	reportDir string
	clock     Clock
	logger    *zap.Logger
}

// New wires a Pipeline from its collaborators. Change reports land in
// reportDir as changes_YYYYMMDD.md.
func New(scraper Scraper, tr *tracker.Tracker, generator *site.Generator, reportDir string, clock Clock, logger *zap.Logger) *Pipeline {
	return &Pipeline{
		scraper:   scraper,
		tracker:   tr,
		generator: generator,
		reportDir: reportDir,
		clock:     clock,
		logger:    logger,
	}
}

// Run executes one refresh. The working directory holds the only output;
// nothing is cleaned up when a later stage fails.
func (p *Pipeline) Run(ctx context.Context) error {
	now := p.clock.Now().In(jst)

	result, err := p.scraper.Run(ctx)
	if err != nil {
		return fmt.Errorf("scrape: %w", err)
	}

	changes, err := p.tracker.DetectChanges(result.Properties)
	if err != nil {
		return fmt.Errorf("detect changes: %w", err)
	}
	if changes.Any() {
		p.logger.Info("Changes detected",
			zap.Int("price_changes", len(changes.PriceChanges)),
			zap.Int("new", len(changes.NewProperties)),
			zap.Int("ended", len(changes.EndedProperties)),
			zap.Int("staff_changes", len(changes.StaffChanges)))
		if err := p.writeChangeReport(changes, now); err != nil {
			return err
		}
	} else {
		p.logger.Info("No changes since last run")
	}

	if err := p.tracker.Save(result.Properties, now); err != nil {
		return fmt.Errorf("save history: %w", err)
	}

	if err := p.generator.Write(result, now); err != nil {
		return fmt.Errorf("generate site: %w", err)
	}

	return nil
}

// Scrape lets the Pipeline stand in as the update pipeline's scraper step.
func (p *Pipeline) Scrape(ctx context.Context) error {
	return p.Run(ctx)
}

func (p *Pipeline) writeChangeReport(changes tracker.Changes, now time.Time) error {
	report := tracker.BuildReport(changes, now)
	path := filepath.Join(p.reportDir, fmt.Sprintf("changes_%s.md", now.Format("20060102")))
	if err := os.WriteFile(path, []byte(report), 0o644); err != nil {
		return fmt.Errorf("write change report: %w", err)
	}
	p.logger.Info("Change report written", zap.String("path", path))
	return nil
}
