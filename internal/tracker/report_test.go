package tracker

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestBuildReportNoChanges(t *testing.T) {
	report := BuildReport(Changes{}, time.Date(2024, 1, 5, 9, 3, 0, 0, time.UTC))

	require.Contains(t, report, "# 変更検出レポート (2024年01月05日)")
	require.Contains(t, report, "## 変更なし")
	require.NotContains(t, report, "## 価格変更")
}

func TestBuildReportAllSections(t *testing.T) {
	changes := Changes{
		PriceChanges: []PriceChange{{
			KanriNo: "C11111111", Building: "イースト", Floor: "17/42", Madori: "2LDK",
			Area: 70.0, Before: 10000, After: 9500, ChangeAmount: -500, ChangeRate: -5.0,
		}},
		NewProperties: []NewProperty{{
			KanriNo: "C22222222", Price: 15800, Area: 70.32,
			Building: "ウエスト", Floor: "30/42", Madori: "3LDK", PricePerTsubo: 741.5,
		}},
		EndedProperties: []EndedProperty{{
			KanriNo: "C33333333", Building: "セントラル", Floor: "5/11", Madori: "1LDK", FinalPrice: 7200,
		}},
		StaffChanges: []StaffChange{{
			KanriNo: "C11111111", Building: "イースト", Floor: "17/42", Before: "行方", After: "佐藤",
		}},
	}

	report := BuildReport(changes, time.Date(2024, 1, 5, 0, 0, 0, 0, time.UTC))

	require.Contains(t, report, "## 価格変更")
	require.Contains(t, report, "| C11111111 | イースト 17/42 2LDK | 10,000万円 | 9,500万円 | -500万円 | -5.0% |")
	require.Contains(t, report, "## 新規追加物件")
	require.Contains(t, report, "| C22222222 | 15,800万円 | 70.32㎡ | 741.5万円/坪 | ウエスト | 30/42 | 3LDK |")
	require.Contains(t, report, "## 販売終了物件")
	require.Contains(t, report, "| C33333333 | セントラル 5/11 1LDK | 7,200万円 |")
	require.Contains(t, report, "## 担当者変更")
	require.Contains(t, report, "| C11111111 | イースト 17/42 | 行方 | 佐藤 |")
	require.NotContains(t, report, "## 変更なし")
}

func TestGroupDigits(t *testing.T) {
	tests := []struct {
		n    int
		want string
	}{
		{0, "0"},
		{480, "480"},
		{9800, "9,800"},
		{15800, "15,800"},
		{1234567, "1,234,567"},
		{-500, "-500"},
		{-15800, "-15,800"},
	}
	for _, tt := range tests {
		require.Equal(t, tt.want, groupDigits(tt.n))
	}
}
