// Package scrape collects used-condo listings for the Futako-Tamagawa Rise
// towers from their listing pages and derives the comparison figures the
// site is built from.
package scrape

// Property holds everything extracted from one listing page.
// Prices are in units of 10,000 yen (万円), areas in square meters.
type Property struct {
	URL           string  `json:"url"`
	KanriNo       string  `json:"kanri_no"`
	Price         int     `json:"price,omitempty"`
	Madori        string  `json:"madori,omitempty"`
	Area          float64 `json:"area,omitempty"`
	Building      string  `json:"building,omitempty"`
	Floor         string  `json:"floor,omitempty"`
	Built         string  `json:"built,omitempty"`
	Direction     string  `json:"direction,omitempty"`
	Reform        string  `json:"reform,omitempty"`
	FavoriteCount int     `json:"favorite_count"`
	Staff         string  `json:"staff,omitempty"`
	PricePerSqm   float64 `json:"price_per_sqm,omitempty"`
	PricePerTsubo float64 `json:"price_per_tsubo,omitempty"`
	Err           string  `json:"error,omitempty"`
}

// Valid reports whether the listing parsed well enough to compare:
// it fetched cleanly and has the derived unit prices.
func (p Property) Valid() bool {
	return p.Err == "" && p.PricePerSqm > 0
}

// Result is the outcome of one scrape run.
type Result struct {
	// Properties holds every listing visited, including failed ones.
	Properties []Property
	// TotalDiscovered counts the listing URLs the run attempted.
	TotalDiscovered int
}

// Valid returns only the listings usable for comparison.
func (r Result) Valid() []Property {
	out := make([]Property, 0, len(r.Properties))
	for _, p := range r.Properties {
		if p.Valid() {
			out = append(out, p)
		}
	}
	return out
}

// Failed returns the listings whose fetch or parse failed.
func (r Result) Failed() []Property {
	var out []Property
	for _, p := range r.Properties {
		if p.Err != "" {
			out = append(out, p)
		}
	}
	return out
}
