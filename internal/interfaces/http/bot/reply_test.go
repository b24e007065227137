package bot

import (
	"testing"

	"github.com/stretchr/testify/assert"

	publicdomain "github.com/hsuanlin/tainan-eats-services/api/internal/public/domain"
	"github.com/hsuanlin/tainan-eats-services/api/internal/recommend"
)

func TestFormatRecommendation(t *testing.T) {
	stores := []recommend.Enriched{
		{
			Store:       publicdomain.Store{Name: "文章牛肉湯", Category: "小吃", Address: "台南市安平區安平路590號"},
			Rating:      4.2,
			ReviewCount: 1200,
		},
		{
			Store: publicdomain.Store{Name: "無名甜品店"},
		},
	}

	message := formatRecommendation("安平區", stores)

	assert.Contains(t, message, "安平區的推薦店家")
	assert.Contains(t, message, "1. 文章牛肉湯（小吃）")
	assert.Contains(t, message, "台南市安平區安平路590號")
	assert.Contains(t, message, "評分 4.2（1200 則評論）")
	assert.Contains(t, message, "2. 無名甜品店")
	assert.NotContains(t, message, "評分 0.0", "沒有評分資料時不顯示評分列")
}
