package scrape

import (
	"regexp"
	"strconv"
	"strings"

	"github.com/PuerkitoBio/goquery"
)

// tsuboPerSqm converts square meters to tsubo (1 tsubo = 3.3 m²).
const tsuboPerSqm = 3.3

var (
	propertyIDPattern  = regexp.MustCompile(`/mansion/(C[A-Z0-9]+)/?`)
	okuPricePattern    = regexp.MustCompile(`(\d+)億([\d,]+)?万円`)
	manPricePattern    = regexp.MustCompile(`([\d,]+)万円`)
	areaPattern        = regexp.MustCompile(`([\d.]+)\s*m`)
	floorPattern       = regexp.MustCompile(`(\d+)階.*?地上(\d+)階`)
	simpleFloorPattern = regexp.MustCompile(`(\d+)階`)
	favoritePattern    = regexp.MustCompile(`(\d+)\s*件\s*お気に入り`)
	romajiOnlyPattern  = regexp.MustCompile(`^[a-zA-Z]+$`)
)

// buildings are the three Rise tower wings a listing can belong to.
var buildings = []string{"イースト", "ウエスト", "セントラル"}

// ExtractPropertyID pulls the listing's management number out of its URL.
// Returns "" when the URL is not a listing page.
func ExtractPropertyID(rawURL string) string {
	m := propertyIDPattern.FindStringSubmatch(rawURL)
	if m == nil {
		return ""
	}
	return m[1]
}

// ParseProperty extracts the comparison fields from one listing page.
func ParseProperty(pageURL string, doc *goquery.Document) Property {
	p := Property{
		URL:     pageURL,
		KanriNo: kanriNoFromURL(pageURL),
		Reform:  "無",
	}

	if v := dlValue(doc, "価格"); v != "" {
		p.Price = parsePrice(v)
	}
	if v := dlValue(doc, "間取り"); v != "" {
		p.Madori = v
	}
	if v := dlValue(doc, "専有面積"); v != "" {
		p.Area = parseArea(v)
	}

	p.Building = buildingName(dlValue(doc, "所在地"))
	if p.Building == "" {
		p.Building = buildingName(doc.Find("h1").First().Text())
	}

	if v := dlValue(doc, "所在階"); v != "" {
		p.Floor = parseFloor(v)
	}
	if v := dlValue(doc, "築年月"); v != "" {
		p.Built = v
	}
	if v := dlValue(doc, "向き"); v != "" {
		p.Direction = v
	}

	// Reform state is rarely its own field; infer it from the equipment and
	// remarks sections as well.
	for _, v := range []string{
		dlValue(doc, "リフォーム"),
		dlValue(doc, "リノベーション"),
		dlValue(doc, "設備・条件"),
		dlValue(doc, "備考"),
	} {
		if isReformed(v) {
			p.Reform = "有"
			break
		}
	}

	p.FavoriteCount = parseFavoriteCount(doc)
	p.Staff = parseStaff(doc)

	if p.Price > 0 && p.Area > 0 {
		p.PricePerSqm = float64(p.Price) / p.Area
		p.PricePerTsubo = float64(p.Price) / (p.Area / tsuboPerSqm)
	}

	return p
}

func kanriNoFromURL(rawURL string) string {
	if id := ExtractPropertyID(rawURL); id != "" {
		return id
	}
	trimmed := strings.TrimRight(rawURL, "/")
	if i := strings.LastIndex(trimmed, "/"); i >= 0 {
		return trimmed[i+1:]
	}
	return trimmed
}

// dlValue finds the dd paired with the dt whose text contains keyword.
func dlValue(doc *goquery.Document, keyword string) string {
	var value string
	doc.Find("dt").EachWithBreak(func(_ int, dt *goquery.Selection) bool {
		if !strings.Contains(dt.Text(), keyword) {
			return true
		}
		dd := dt.NextAllFiltered("dd").First()
		if dd.Length() > 0 {
			value = strings.TrimSpace(dd.Text())
		}
		return false
	})
	return value
}

// parsePrice handles both "1億5,800万円" and "9,800万円" forms, returning the
// amount in 万円. Returns 0 when no price is recognized.
func parsePrice(raw string) int {
	if strings.Contains(raw, "億") {
		m := okuPricePattern.FindStringSubmatch(raw)
		if m == nil {
			return 0
		}
		oku, err := strconv.Atoi(m[1])
		if err != nil {
			return 0
		}
		man := 0
		if m[2] != "" {
			man, err = strconv.Atoi(strings.ReplaceAll(m[2], ",", ""))
			if err != nil {
				return 0
			}
		}
		return oku*10000 + man
	}

	m := manPricePattern.FindStringSubmatch(raw)
	if m == nil {
		return 0
	}
	price, err := strconv.Atoi(strings.ReplaceAll(m[1], ",", ""))
	if err != nil {
		return 0
	}
	return price
}

// parseArea extracts the numeric area from forms like "壁芯70.32m2".
func parseArea(raw string) float64 {
	m := areaPattern.FindStringSubmatch(raw)
	if m == nil {
		return 0
	}
	area, err := strconv.ParseFloat(m[1], 64)
	if err != nil {
		return 0
	}
	return area
}

// parseFloor turns "17階 / 地上42階 地下1階" into "17/42", falling back to
// the bare floor number when the building height is absent.
func parseFloor(raw string) string {
	if m := floorPattern.FindStringSubmatch(raw); m != nil {
		return m[1] + "/" + m[2]
	}
	if m := simpleFloorPattern.FindStringSubmatch(raw); m != nil {
		return m[1]
	}
	return ""
}

func buildingName(text string) string {
	for _, b := range buildings {
		if strings.Contains(text, b) {
			return b
		}
	}
	return ""
}

func isReformed(value string) bool {
	if value == "" {
		return false
	}
	mentioned := strings.Contains(value, "リフォーム") ||
		strings.Contains(value, "リノベーション") ||
		strings.Contains(value, "改修")
	done := strings.Contains(value, "済") || strings.Contains(value, "有")
	return mentioned && done
}

func parseFavoriteCount(doc *goquery.Document) int {
	m := favoritePattern.FindStringSubmatch(doc.Text())
	if m == nil {
		return 0
	}
	count, err := strconv.Atoi(m[1])
	if err != nil {
		return 0
	}
	return count
}

// parseStaff finds the sales contact: the paragraph after the "私が担当"
// blurb, or the contact-person name element as a fallback.
func parseStaff(doc *goquery.Document) string {
	var staff string
	doc.Find("p").EachWithBreak(func(_ int, s *goquery.Selection) bool {
		if !strings.Contains(s.Text(), "私が担当") {
			return true
		}
		next := s.NextAllFiltered("p").First()
		if next.Length() > 0 {
			staff = strings.TrimSpace(next.Text())
		}
		return false
	})
	if staff != "" {
		return staff
	}

	doc.Find("p[class*='contact-person__name']").EachWithBreak(func(_ int, s *goquery.Selection) bool {
		text := strings.TrimSpace(s.Text())
		// Skip the romanized reading shown under the name.
		if text != "" && !romajiOnlyPattern.MatchString(text) {
			staff = text
			return false
		}
		return true
	})
	return staff
}
