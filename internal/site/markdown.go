package site

import (
	"fmt"
	"strings"
	"time"

	"github.com/ymatsuda/rise-tracker/internal/scrape"
)

// BuildComparisonTable renders the Markdown comparison table, listings
// sorted cheapest per square meter first.
func BuildComparisonTable(result scrape.Result, now time.Time) string {
	valid := sortedByUnitPrice(result.Valid())
	if len(valid) == 0 {
		return "# エラー\n\n有効な物件情報が取得できませんでした。\n"
	}

	var b strings.Builder
	b.WriteString("# 二子玉川ライズ 中古マンション比較表\n\n")
	fmt.Fprintf(&b, "**作成日時**: %s\n\n", now.In(jst).Format("2006年01月02日 15:04"))
	b.WriteString("## 比較表（平米単価順）\n\n")

	headers := []string{
		"管理番号", "販売価格", "平米単価", "坪単価", "間取り", "専有面積",
		"棟名", "階数", "築年月", "向き", "リフォーム", "お気に入り", "担当者",
	}
	b.WriteString("| " + strings.Join(headers, " | ") + " |\n")
	b.WriteString("|" + strings.Repeat("---|", len(headers)) + "\n")

	for _, p := range valid {
		row := []string{
			orDash(p.KanriNo),
			fmt.Sprintf("%s万円", groupDigits(p.Price)),
			fmt.Sprintf("%.2f万円/㎡", p.PricePerSqm),
			fmt.Sprintf("%.1f万円/坪", p.PricePerTsubo),
			orDash(p.Madori),
			fmt.Sprintf("%.2f㎡", p.Area),
			orDash(p.Building),
			orDash(p.Floor),
			orDash(p.Built),
			orDash(p.Direction),
			orDash(p.Reform),
			fmt.Sprintf("%d", p.FavoriteCount),
			orDash(p.Staff),
		}
		b.WriteString("| " + strings.Join(row, " | ") + " |\n")
	}

	b.WriteString("\n## 二子玉川ライズ 中古マンション物件一覧\n\n")
	for i, p := range valid {
		fmt.Fprintf(&b, "%d. **%s** - %s %s %s %.2f㎡\n   %s\n\n",
			i+1, orDash(p.KanriNo), orDash(p.Building), orDash(p.Floor),
			orDash(p.Madori), p.Area, p.URL)
	}

	if failed := result.Failed(); len(failed) > 0 {
		b.WriteString("\n## 取得に失敗した物件\n\n")
		for _, p := range failed {
			fmt.Fprintf(&b, "- **%s**: %s\n  %s\n\n", orDash(p.KanriNo), p.Err, p.URL)
		}
	}

	return b.String()
}

func orDash(s string) string {
	if s == "" {
		return "-"
	}
	return s
}

// groupDigits formats n with comma thousands separators.
func groupDigits(n int) string {
	s := fmt.Sprintf("%d", n)
	neg := strings.HasPrefix(s, "-")
	if neg {
		s = s[1:]
	}
	var parts []string
	for len(s) > 3 {
		parts = append([]string{s[len(s)-3:]}, parts...)
		s = s[:len(s)-3]
	}
	parts = append([]string{s}, parts...)
	out := strings.Join(parts, ",")
	if neg {
		out = "-" + out
	}
	return out
}
