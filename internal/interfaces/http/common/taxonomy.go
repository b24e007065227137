package common

import (
	"fmt"
	"strings"
)

// FilterAll 表示行政區・分類「不限」的保留值。
const FilterAll = "all"

var (
	// DistrictsByCity 定義各城市允許的行政區。店家資料的 district 欄位
	// 必須落在所屬城市的清單內。
	DistrictsByCity = map[string][]string{
		"台南市": {
			"中西區", "東區", "南區", "北區", "安平區", "安南區",
			"永康區", "歸仁區", "新化區", "左鎮區", "玉井區", "楠西區",
			"南化區", "仁德區", "關廟區", "龍崎區", "官田區", "麻豆區",
			"佳里區", "西港區", "七股區", "將軍區", "學甲區", "北門區",
			"新營區", "後壁區", "白河區", "東山區", "六甲區", "下營區",
			"柳營區", "鹽水區", "善化區", "大內區", "山上區", "新市區",
			"安定區",
		},
	}

	// AllowedCategories 定義店家分類的固定清單。
	AllowedCategories = []string{
		"台式", "日式", "韓式", "泰式", "義式", "美式",
		"火鍋", "燒烤", "早午餐", "甜點", "咖啡廳", "小吃",
		"素食", "海鮮", "飲料", "宵夜",
	}

	districtSets       = makeDistrictSets(DistrictsByCity)
	allDistrictSet     = makeAllDistrictSet(DistrictsByCity)
	allowedCategorySet = makeStringSet(AllowedCategories)
)

func makeStringSet(items []string) map[string]struct{} {
	set := make(map[string]struct{}, len(items))
	for _, item := range items {
		item = strings.TrimSpace(item)
		if item == "" {
			continue
		}
		set[item] = struct{}{}
	}
	return set
}

func makeDistrictSets(byCity map[string][]string) map[string]map[string]struct{} {
	sets := make(map[string]map[string]struct{}, len(byCity))
	for city, districts := range byCity {
		sets[city] = makeStringSet(districts)
	}
	return sets
}

func makeAllDistrictSet(byCity map[string][]string) map[string]struct{} {
	set := make(map[string]struct{})
	for _, districts := range byCity {
		for _, district := range districts {
			set[strings.TrimSpace(district)] = struct{}{}
		}
	}
	return set
}

// IsKnownDistrict 判斷名稱是否為任一城市的有效行政區。
// 搜尋功能以此決定是否追加行政區完全一致查詢。
func IsKnownDistrict(name string) bool {
	_, ok := allDistrictSet[strings.TrimSpace(name)]
	return ok
}

// ValidDistrict 驗證行政區屬於指定城市。FilterAll 與空字串視為「不限」。
func ValidDistrict(city, district string) bool {
	district = strings.TrimSpace(district)
	if district == "" || district == FilterAll {
		return true
	}
	set, ok := districtSets[strings.TrimSpace(city)]
	if !ok {
		return false
	}
	_, ok = set[district]
	return ok
}

// CanonicalCategory normalises category aliases into the canonical labels.
func CanonicalCategory(input string) string {
	trimmed := strings.TrimSpace(input)
	if trimmed == "" {
		return ""
	}

	switch strings.ToLower(trimmed) {
	case "hotpot", "hot_pot":
		return "火鍋"
	case "bbq", "yakiniku":
		return "燒烤"
	case "brunch":
		return "早午餐"
	case "dessert", "sweets":
		return "甜點"
	case "cafe", "coffee":
		return "咖啡廳"
	case "vegetarian", "veggie":
		return "素食"
	case "drink", "drinks", "bubble_tea":
		return "飲料"
	}

	return trimmed
}

// NormalizeCategory 驗證並正規化分類。FilterAll 與空字串視為「不限」。
func NormalizeCategory(input string) (string, error) {
	canonical := CanonicalCategory(input)
	if canonical == "" || canonical == FilterAll {
		return "", nil
	}
	if _, ok := allowedCategorySet[canonical]; !ok {
		return "", fmt.Errorf("無效的分類: %s", input)
	}
	return canonical, nil
}
