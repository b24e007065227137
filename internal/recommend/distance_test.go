package recommend

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestDistanceKm(t *testing.T) {
	t.Run("同一地點為零", func(t *testing.T) {
		assert.Zero(t, DistanceKm(22.9971, 120.2125, 22.9971, 120.2125))
	})

	t.Run("緯度一度約 111 公里", func(t *testing.T) {
		assert.InDelta(t, 111.19, DistanceKm(0, 0, 1, 0), 0.1)
	})

	t.Run("赤道上經度一度約 111 公里", func(t *testing.T) {
		assert.InDelta(t, 111.19, DistanceKm(0, 0, 0, 1), 0.1)
	})

	t.Run("對稱", func(t *testing.T) {
		a := DistanceKm(22.99, 120.21, 23.05, 120.18)
		b := DistanceKm(23.05, 120.18, 22.99, 120.21)
		assert.Equal(t, a, b)
	})

	t.Run("台南市區內距離合理", func(t *testing.T) {
		// 台南車站到安平古堡直線約 5.3 公里。
		d := DistanceKm(22.9971, 120.2125, 23.0012, 120.1606)
		assert.InDelta(t, 5.3, d, 0.3)
	})
}
