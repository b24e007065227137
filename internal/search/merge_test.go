package search

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/hsuanlin/tainan-eats-services/api/internal/public/domain"
)

func TestMerge(t *testing.T) {
	t.Run("保留首次出現的順序", func(t *testing.T) {
		a := []domain.Store{{ID: "1", Name: "甲"}, {ID: "2", Name: "乙"}}
		b := []domain.Store{{ID: "3", Name: "丙"}, {ID: "1", Name: "甲"}}

		merged := Merge(a, b)

		ids := make([]string, 0, len(merged))
		for _, store := range merged {
			ids = append(ids, store.ID)
		}
		assert.Equal(t, []string{"1", "2", "3"}, ids)
	})

	t.Run("相同 ID 以後出現的資料為準", func(t *testing.T) {
		stale := []domain.Store{{ID: "1", Name: "舊店名", Category: "台式"}}
		fresh := []domain.Store{{ID: "1", Name: "新店名", Category: "台式", Address: "台南市東區"}}

		merged := Merge(stale, fresh)

		assert.Len(t, merged, 1)
		assert.Equal(t, "新店名", merged[0].Name)
		assert.Equal(t, "台南市東區", merged[0].Address)
	})

	t.Run("空集合", func(t *testing.T) {
		assert.Empty(t, Merge())
		assert.Empty(t, Merge(nil, nil))
	})
}
