package admin

import (
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/hsuanlin/tainan-eats-services/api/internal/interfaces/http/common"
)

func TestAuditActor(t *testing.T) {
	t.Run("取出驗證後的操作者", func(t *testing.T) {
		r := httptest.NewRequest("POST", "/admin/stores", nil)
		ctx := common.ContextWithUser(r.Context(), common.AuthenticatedUser{ID: "admin-1", Name: "管理員"})
		assert.Equal(t, "admin-1", auditActor(r.WithContext(ctx)))
	})

	t.Run("未驗證時回傳 unknown", func(t *testing.T) {
		r := httptest.NewRequest("POST", "/admin/stores", nil)
		assert.Equal(t, "unknown", auditActor(r))
	})
}
