package recommend

import (
	"math/rand"

	"github.com/hsuanlin/tainan-eats-services/api/internal/public/domain"
)

// shuffleStores performs an in-place Fisher–Yates permutation so that every
// ordering of the input is equally likely.
func shuffleStores(rng *rand.Rand, stores []domain.Store) {
	for i := len(stores) - 1; i > 0; i-- {
		j := rng.Intn(i + 1)
		stores[i], stores[j] = stores[j], stores[i]
	}
}
