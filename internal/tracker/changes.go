package tracker

import (
	"github.com/ymatsuda/rise-tracker/internal/scrape"
)

// PriceChange records a listing whose asking price moved between runs.
type PriceChange struct {
	KanriNo      string  `json:"kanri_no"`
	Building     string  `json:"building"`
	Floor        string  `json:"floor"`
	Madori       string  `json:"madori"`
	Area         float64 `json:"area"`
	Before       int     `json:"before"`
	After        int     `json:"after"`
	ChangeAmount int     `json:"change_amount"`
	ChangeRate   float64 `json:"change_rate"`
}

// NewProperty records a listing seen for the first time.
type NewProperty struct {
	KanriNo       string  `json:"kanri_no"`
	Price         int     `json:"price"`
	Area          float64 `json:"area"`
	Building      string  `json:"building"`
	Floor         string  `json:"floor"`
	Madori        string  `json:"madori"`
	PricePerTsubo float64 `json:"price_per_tsubo"`
}

// EndedProperty records a listing that disappeared since the last run.
type EndedProperty struct {
	KanriNo    string `json:"kanri_no"`
	Building   string `json:"building"`
	Floor      string `json:"floor"`
	Madori     string `json:"madori"`
	FinalPrice int    `json:"final_price"`
}

// StaffChange records a listing whose sales contact changed.
type StaffChange struct {
	KanriNo  string `json:"kanri_no"`
	Building string `json:"building"`
	Floor    string `json:"floor"`
	Before   string `json:"before"`
	After    string `json:"after"`
}

// Changes is everything that differs from the previous run.
type Changes struct {
	PriceChanges    []PriceChange   `json:"price_changes"`
	NewProperties   []NewProperty   `json:"new_properties"`
	EndedProperties []EndedProperty `json:"ended_properties"`
	StaffChanges    []StaffChange   `json:"staff_changes"`
}

// Any reports whether anything changed at all.
func (c Changes) Any() bool {
	return len(c.PriceChanges) > 0 ||
		len(c.NewProperties) > 0 ||
		len(c.EndedProperties) > 0 ||
		len(c.StaffChanges) > 0
}

// DetectChanges diffs the current listings against the stored history.
func (t *Tracker) DetectChanges(props []scrape.Property) (Changes, error) {
	previous, err := t.Load()
	if err != nil {
		return Changes{}, err
	}

	var changes Changes
	currentIDs := make(map[string]struct{})

	for _, p := range props {
		if p.Err != "" || p.KanriNo == "" {
			continue
		}
		currentIDs[p.KanriNo] = struct{}{}

		prev, known := previous[p.KanriNo]
		if !known {
			changes.NewProperties = append(changes.NewProperties, NewProperty{
				KanriNo:       p.KanriNo,
				Price:         p.Price,
				Area:          p.Area,
				Building:      p.Building,
				Floor:         p.Floor,
				Madori:        p.Madori,
				PricePerTsubo: p.PricePerTsubo,
			})
			continue
		}

		if p.Price > 0 && prev.CurrentPrice > 0 && p.Price != prev.CurrentPrice {
			amount := p.Price - prev.CurrentPrice
			changes.PriceChanges = append(changes.PriceChanges, PriceChange{
				KanriNo:      p.KanriNo,
				Building:     p.Building,
				Floor:        p.Floor,
				Madori:       p.Madori,
				Area:         p.Area,
				Before:       prev.CurrentPrice,
				After:        p.Price,
				ChangeAmount: amount,
				ChangeRate:   float64(amount) / float64(prev.CurrentPrice) * 100,
			})
		}

		if p.Staff != "" && prev.Staff != "" && p.Staff != prev.Staff {
			changes.StaffChanges = append(changes.StaffChanges, StaffChange{
				KanriNo:  p.KanriNo,
				Building: p.Building,
				Floor:    p.Floor,
				Before:   prev.Staff,
				After:    p.Staff,
			})
		}
	}

	for kanriNo, prev := range previous {
		if _, still := currentIDs[kanriNo]; still {
			continue
		}
		changes.EndedProperties = append(changes.EndedProperties, EndedProperty{
			KanriNo:    kanriNo,
			Building:   prev.Building,
			Floor:      prev.Floor,
			Madori:     prev.Madori,
			FinalPrice: prev.CurrentPrice,
		})
	}

	return changes, nil
}
