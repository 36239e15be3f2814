// Package tracker persists per-listing price history and detects changes
// between scrape runs.
package tracker

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"go.uber.org/zap"

	"github.com/ymatsuda/rise-tracker/internal/scrape"
)

// dateLayout keys history points and snapshot files.
const dateLayout = "2006-01-02"

// Point is one day's observation of a listing.
type Point struct {
	Date          string  `json:"date"`
	Price         int     `json:"price"`
	PricePerSqm   float64 `json:"price_per_sqm"`
	PricePerTsubo float64 `json:"price_per_tsubo"`
	Area          float64 `json:"area"`
}

// Entry is the persisted history and summary for one listing.
type Entry struct {
	History      []Point `json:"history"`
	FirstSeen    string  `json:"first_seen"`
	InitialPrice int     `json:"initial_price"`
	CurrentPrice int     `json:"current_price"`
	CurrentArea  float64 `json:"current_area"`
	MaxPrice     int     `json:"max_price"`
	MinPrice     int     `json:"min_price"`
	TotalChange  int     `json:"total_change"`
	Building     string  `json:"building"`
	Floor        string  `json:"floor"`
	Madori       string  `json:"madori"`
	Staff        string  `json:"staff"`
}

// snapshot is the daily copy written under the history directory.
type snapshot struct {
	Date       string            `json:"date"`
	Properties []scrape.Property `json:"properties"`
}

// Tracker reads and writes the price history store.
type Tracker struct {
	dataFile   string
	historyDir string
	logger     *zap.Logger
}

// New creates a Tracker rooted at dataFile with daily snapshots in historyDir.
func New(dataFile, historyDir string, logger *zap.Logger) *Tracker {
	return &Tracker{
		dataFile:   dataFile,
		historyDir: historyDir,
		logger:     logger,
	}
}

// Load reads the previous run's data. A missing store is an empty map, not
// an error, so first runs work against a fresh repository.
func (t *Tracker) Load() (map[string]Entry, error) {
	data, err := os.ReadFile(t.dataFile)
	if os.IsNotExist(err) {
		return map[string]Entry{}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("read tracker store: %w", err)
	}

	entries := map[string]Entry{}
	if err := json.Unmarshal(data, &entries); err != nil {
		return nil, fmt.Errorf("decode tracker store: %w", err)
	}
	return entries, nil
}

// Save folds the current listings into the history store and writes the
// daily snapshot. Points are appended at most once per day.
func (t *Tracker) Save(props []scrape.Property, now time.Time) error {
	previous, err := t.Load()
	if err != nil {
		return err
	}

	today := now.Format(dateLayout)
	entries := make(map[string]Entry, len(props))

	for _, p := range props {
		if p.Err != "" || p.KanriNo == "" {
			continue
		}

		var history []Point
		if prev, ok := previous[p.KanriNo]; ok {
			history = prev.History
		}
		if len(history) == 0 || history[len(history)-1].Date != today {
			history = append(history, Point{
				Date:          today,
				Price:         p.Price,
				PricePerSqm:   p.PricePerSqm,
				PricePerTsubo: p.PricePerTsubo,
				Area:          p.Area,
			})
		}

		entry := Entry{
			History:      history,
			FirstSeen:    history[0].Date,
			InitialPrice: history[0].Price,
			CurrentPrice: p.Price,
			CurrentArea:  p.Area,
			TotalChange:  p.Price - history[0].Price,
			Building:     p.Building,
			Floor:        p.Floor,
			Madori:       p.Madori,
			Staff:        p.Staff,
		}
		for _, point := range history {
			if point.Price == 0 {
				continue
			}
			if entry.MaxPrice == 0 || point.Price > entry.MaxPrice {
				entry.MaxPrice = point.Price
			}
			if entry.MinPrice == 0 || point.Price < entry.MinPrice {
				entry.MinPrice = point.Price
			}
		}

		entries[p.KanriNo] = entry
	}

	if err := writeJSON(t.dataFile, entries); err != nil {
		return fmt.Errorf("write tracker store: %w", err)
	}

	if err := os.MkdirAll(t.historyDir, 0o750); err != nil {
		return fmt.Errorf("create history dir: %w", err)
	}
	snap := snapshot{Date: today}
	for _, p := range props {
		if p.Err == "" {
			snap.Properties = append(snap.Properties, p)
		}
	}
	snapPath := filepath.Join(t.historyDir, today+".json")
	if err := writeJSON(snapPath, snap); err != nil {
		return fmt.Errorf("write snapshot: %w", err)
	}

	t.logger.Info("Price history saved",
		zap.Int("listings", len(entries)),
		zap.String("snapshot", snapPath))
	return nil
}

// PriceHistory returns the recorded points for one listing, oldest first.
func (t *Tracker) PriceHistory(kanriNo string) ([]Point, error) {
	entries, err := t.Load()
	if err != nil {
		return nil, err
	}
	entry, ok := entries[kanriNo]
	if !ok {
		return nil, nil
	}
	return entry.History, nil
}

func writeJSON(path string, v any) error {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal %s: %w", path, err)
	}
	return os.WriteFile(path, data, 0o644)
}
