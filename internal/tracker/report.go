package tracker

import (
	"fmt"
	"strings"
	"time"
)

// BuildReport renders the detected changes as a Markdown report.
func BuildReport(changes Changes, now time.Time) string {
	var b strings.Builder

	fmt.Fprintf(&b, "# 変更検出レポート (%s)\n\n", now.Format("2006年01月02日"))

	if !changes.Any() {
		b.WriteString("## 変更なし\n\n")
		b.WriteString("前回からの変更はありませんでした。\n")
		return b.String()
	}

	if len(changes.PriceChanges) > 0 {
		b.WriteString("## 価格変更\n\n")
		b.WriteString("| 管理番号 | 物件 | 変更前 | 変更後 | 変動額 | 変動率 |\n")
		b.WriteString("|---|---|---|---|---|---|\n")
		for _, c := range changes.PriceChanges {
			fmt.Fprintf(&b, "| %s | %s %s %s | %s万円 | %s万円 | %+d万円 | %+.1f%% |\n",
				c.KanriNo, c.Building, c.Floor, c.Madori,
				groupDigits(c.Before), groupDigits(c.After),
				c.ChangeAmount, c.ChangeRate)
		}
		b.WriteString("\n")
	}

	if len(changes.NewProperties) > 0 {
		b.WriteString("## 新規追加物件\n\n")
		b.WriteString("| 管理番号 | 販売価格 | 専有面積 | 坪単価 | 棟名 | 階数 | 間取り |\n")
		b.WriteString("|---|---|---|---|---|---|---|\n")
		for _, p := range changes.NewProperties {
			fmt.Fprintf(&b, "| %s | %s万円 | %.2f㎡ | %.1f万円/坪 | %s | %s | %s |\n",
				p.KanriNo, groupDigits(p.Price), p.Area, p.PricePerTsubo,
				p.Building, p.Floor, p.Madori)
		}
		b.WriteString("\n")
	}

	if len(changes.EndedProperties) > 0 {
		b.WriteString("## 販売終了物件\n\n")
		b.WriteString("| 管理番号 | 物件 | 最終価格 |\n")
		b.WriteString("|---|---|---|\n")
		for _, p := range changes.EndedProperties {
			fmt.Fprintf(&b, "| %s | %s %s %s | %s万円 |\n",
				p.KanriNo, p.Building, p.Floor, p.Madori, groupDigits(p.FinalPrice))
		}
		b.WriteString("\n")
	}

	if len(changes.StaffChanges) > 0 {
		b.WriteString("## 担当者変更\n\n")
		b.WriteString("| 管理番号 | 物件 | 変更前 | 変更後 |\n")
		b.WriteString("|---|---|---|---|\n")
		for _, c := range changes.StaffChanges {
			fmt.Fprintf(&b, "| %s | %s %s | %s | %s |\n",
				c.KanriNo, c.Building, c.Floor, c.Before, c.After)
		}
		b.WriteString("\n")
	}

	return b.String()
}

// groupDigits formats n with comma thousands separators, e.g. 15800 → "15,800".
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
