package search

import "github.com/hsuanlin/tainan-eats-services/api/internal/public/domain"

// Merge combines any number of result sets into one list with each distinct
// store ID appearing exactly once. When an ID appears in several sets, the
// record from the last set containing it wins; output order is the insertion
// order of the first appearance of each ID.
func Merge(sets ...[]domain.Store) []domain.Store {
	order := make([]string, 0)
	byID := make(map[string]domain.Store)
	for _, set := range sets {
		for _, store := range set {
			if _, seen := byID[store.ID]; !seen {
				order = append(order, store.ID)
			}
			byID[store.ID] = store
		}
	}
	merged := make([]domain.Store, 0, len(order))
	for _, id := range order {
		merged = append(merged, byID[id])
	}
	return merged
}
