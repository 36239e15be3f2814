package site

import (
	"fmt"
	"html/template"
	"io"
	"time"

	"github.com/ymatsuda/rise-tracker/internal/scrape"
)

// htmlRow is one rendered table row.
type htmlRow struct {
	Rank          int
	KanriNo       string
	Price         string
	PricePerSqm   string
	PricePerTsubo string
	Madori        string
	Area          string
	Building      string
	BuildingClass string
	Floor         string
	Built         string
	Direction     string
	Reform        string
	ReformClass   string
	Favorites     string
	Staff         string
	URL           string
}

// htmlPage is the template context for index.html.
type htmlPage struct {
	UpdatedAt       string
	TotalDiscovered int
	ShownCount      int
	Rows            []htmlRow
}

var indexTemplate = template.Must(template.New("index").Parse(`<!DOCTYPE html>
<html lang="ja">
<head>
    <meta charset="UTF-8">
    <meta name="viewport" content="width=device-width, initial-scale=1.0">
    <title>RISE比較表</title>
    <style>
        * { margin: 0; padding: 0; box-sizing: border-box; }
        :root {
            --bg-primary: #f8fafc;
            --bg-secondary: #ffffff;
            --text-primary: #1e293b;
            --text-secondary: #64748b;
            --accent: #3b82f6;
            --border-color: #e2e8f0;
        }
        body {
            font-family: -apple-system, BlinkMacSystemFont, 'Segoe UI', 'Noto Sans JP', sans-serif;
            background: var(--bg-primary);
            color: var(--text-primary);
            min-height: 100vh;
            padding: 2rem 1rem;
        }
        .container { max-width: 1400px; margin: 0 auto; }
        .header { text-align: center; margin-bottom: 2rem; }
        .header h1 { font-size: 2rem; font-weight: 800; color: var(--accent); }
        .header .subtitle { color: var(--text-secondary); margin-top: 0.5rem; }
        table {
            width: 100%;
            border-collapse: collapse;
            background: var(--bg-secondary);
            box-shadow: 0 4px 6px -1px rgba(0, 0, 0, 0.1);
        }
        th, td {
            padding: 0.6rem 0.8rem;
            border-bottom: 1px solid var(--border-color);
            text-align: left;
            white-space: nowrap;
        }
        th { background: var(--accent); color: #fff; font-weight: 600; }
        tr:hover { background: #eff6ff; }
        .rank { font-weight: 700; color: var(--accent); }
        .price { font-weight: 700; }
        .badge {
            display: inline-block;
            padding: 0.15rem 0.5rem;
            border-radius: 9999px;
            font-size: 0.8rem;
        }
        .badge-east { background: #dbeafe; color: #1d4ed8; }
        .badge-west { background: #fce7f3; color: #be185d; }
        .badge-central { background: #dcfce7; color: #15803d; }
        .badge-other { background: var(--border-color); color: var(--text-secondary); }
        .badge-reform-yes { background: #fef3c7; color: #b45309; }
        .badge-reform-no { background: var(--border-color); color: var(--text-secondary); }
        .table-wrap { overflow-x: auto; }
        .footer { margin-top: 2rem; text-align: center; color: var(--text-secondary); font-size: 0.85rem; }
    </style>
</head>
<body>
    <div class="container">
        <div class="header">
            <h1>二子玉川ライズ 中古マンション比較表</h1>
            <p class="subtitle">更新日時: {{.UpdatedAt}} ／ 発見 {{.TotalDiscovered}}件中 {{.ShownCount}}件を表示</p>
        </div>
        <div class="table-wrap">
            <table>
                <thead>
                    <tr>
                        <th>順位</th><th>管理番号</th><th>販売価格</th><th>平米単価</th><th>坪単価</th>
                        <th>間取り</th><th>専有面積</th><th>棟名</th><th>階数</th><th>築年月</th>
                        <th>向き</th><th>リフォーム</th><th>お気に入り</th><th>担当者</th><th>リンク</th>
                    </tr>
                </thead>
                <tbody>
{{- range .Rows}}
                    <tr>
                        <td><span class="rank">{{.Rank}}位</span></td>
                        <td>{{.KanriNo}}</td>
                        <td><span class="price">{{.Price}}</span></td>
                        <td>{{.PricePerSqm}}</td>
                        <td>{{.PricePerTsubo}}</td>
                        <td>{{.Madori}}</td>
                        <td>{{.Area}}</td>
                        <td><span class="badge badge-{{.BuildingClass}}">{{.Building}}</span></td>
                        <td>{{.Floor}}</td>
                        <td>{{.Built}}</td>
                        <td>{{.Direction}}</td>
                        <td><span class="badge badge-reform-{{.ReformClass}}">{{.Reform}}</span></td>
                        <td>{{.Favorites}}</td>
                        <td>{{.Staff}}</td>
                        <td><a href="{{.URL}}" target="_blank" rel="noopener">詳細 →</a></td>
                    </tr>
{{- end}}
                </tbody>
            </table>
        </div>
        <div class="footer">
            <p>東急リバブル 二子玉川センター ／ TEL: 0120-938-291（無料）</p>
        </div>
    </div>
</body>
</html>
`))

// renderHTML writes the full index.html document.
func renderHTML(w io.Writer, result scrape.Result, now time.Time) error {
	valid := sortedByUnitPrice(result.Valid())

	page := htmlPage{
		UpdatedAt:       now.In(jst).Format("2006年01月02日 15:04"),
		TotalDiscovered: result.TotalDiscovered,
		ShownCount:      len(valid),
	}

	for i, p := range valid {
		favorites := "-"
		if p.FavoriteCount > 0 {
			favorites = fmt.Sprintf("%d", p.FavoriteCount)
		}
		page.Rows = append(page.Rows, htmlRow{
			Rank:          i + 1,
			KanriNo:       orDash(p.KanriNo),
			Price:         groupDigits(p.Price) + "万円",
			PricePerSqm:   fmt.Sprintf("%.2f万円/㎡", p.PricePerSqm),
			PricePerTsubo: fmt.Sprintf("%.1f万円/坪", p.PricePerTsubo),
			Madori:        orDash(p.Madori),
			Area:          fmt.Sprintf("%.2f㎡", p.Area),
			Building:      orDash(p.Building),
			BuildingClass: buildingClass(p.Building),
			Floor:         orDash(p.Floor),
			Built:         orDash(p.Built),
			Direction:     orDash(p.Direction),
			Reform:        orDash(p.Reform),
			ReformClass:   reformClass(p.Reform),
			Favorites:     favorites,
			Staff:         orDash(p.Staff),
			URL:           p.URL,
		})
	}

	return indexTemplate.Execute(w, page)
}

func buildingClass(building string) string {
	switch building {
	case "イースト":
		return "east"
	case "ウエスト":
		return "west"
	case "セントラル":
		return "central"
	default:
		return "other"
	}
}

func reformClass(reform string) string {
	if reform == "有" {
		return "yes"
	}
	return "no"
}
