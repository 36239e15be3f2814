// Package site renders the publishable comparison artifacts: index.html,
// latest.md, and a timestamped Markdown copy.
package site

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"time"

	"go.uber.org/zap"

	"github.com/ymatsuda/rise-tracker/internal/scrape"
)

// jst is the display time zone for generated artifacts.
var jst = time.FixedZone("JST", 9*60*60)

// Generator writes site artifacts into one output directory.
type Generator struct {
	dir    string
	logger *zap.Logger
}

// NewGenerator creates a Generator rooted at dir.
func NewGenerator(dir string, logger *zap.Logger) *Generator {
	return &Generator{dir: dir, logger: logger}
}

// Write renders every artifact for the scrape result: index.html, latest.md,
// and comparison_table_YYYYMMDD_HHMMSS.md.
func (g *Generator) Write(result scrape.Result, now time.Time) error {
	if err := os.MkdirAll(g.dir, 0o750); err != nil {
		return fmt.Errorf("create site dir: %w", err)
	}

	table := BuildComparisonTable(result, now)

	stamped := filepath.Join(g.dir,
		fmt.Sprintf("comparison_table_%s.md", now.In(jst).Format("20060102_150405")))
	if err := os.WriteFile(stamped, []byte(table), 0o644); err != nil {
		return fmt.Errorf("write %s: %w", stamped, err)
	}

	latest := filepath.Join(g.dir, "latest.md")
	if err := os.WriteFile(latest, []byte(table), 0o644); err != nil {
		return fmt.Errorf("write %s: %w", latest, err)
	}

	indexPath := filepath.Join(g.dir, "index.html")
	f, err := os.Create(indexPath)
	if err != nil {
		return fmt.Errorf("create %s: %w", indexPath, err)
	}
	defer f.Close()
	if err := renderHTML(f, result, now); err != nil {
		return fmt.Errorf("render %s: %w", indexPath, err)
	}

	g.logger.Info("Site artifacts written",
		zap.String("dir", g.dir),
		zap.Int("listings", len(result.Valid())))
	return nil
}

// sortedByUnitPrice orders listings cheapest per square meter first.
func sortedByUnitPrice(props []scrape.Property) []scrape.Property {
	out := make([]scrape.Property, len(props))
	copy(out, props)
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].PricePerSqm < out[j].PricePerSqm
	})
	return out
}
