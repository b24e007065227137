package recommend

import (
	"strings"

	"github.com/hsuanlin/tainan-eats-services/api/internal/public/domain"
)

// CriteriaAll は行政區・分類で「不限」を表す予約値。
const CriteriaAll = "all"

// Criteria narrows a store collection by geography and category.
// District/Category に空文字または CriteriaAll を指定するとその条件は適用されない。
type Criteria struct {
	City     string
	District string
	Category string
}

// Filter applies geographic and category predicates to a store collection.
// Stores lacking a city are treated as belonging to DefaultCity; legacy
// records predate the city field and this is the single place that fallback
// happens.
type Filter struct {
	DefaultCity string
}

// Apply returns the subset of stores matching the criteria. Pure, no I/O.
func (f Filter) Apply(stores []domain.Store, criteria Criteria) []domain.Store {
	matched := make([]domain.Store, 0, len(stores))
	for _, store := range stores {
		if !f.matchCity(store, criteria.City) {
			continue
		}
		if !matchValue(store.District, criteria.District) {
			continue
		}
		if !matchValue(store.Category, criteria.Category) {
			continue
		}
		matched = append(matched, store)
	}
	return matched
}

func (f Filter) matchCity(store domain.Store, city string) bool {
	city = strings.TrimSpace(city)
	if city == "" || city == CriteriaAll {
		return true
	}
	storeCity := strings.TrimSpace(store.City)
	if storeCity == "" {
		storeCity = f.DefaultCity
	}
	return storeCity == city
}

func matchValue(value, want string) bool {
	want = strings.TrimSpace(want)
	if want == "" || want == CriteriaAll {
		return true
	}
	return strings.TrimSpace(value) == want
}
