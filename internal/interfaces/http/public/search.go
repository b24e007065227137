package public

import (
	"context"
	"net/http"
	"strings"
	"time"

	"github.com/hsuanlin/tainan-eats-services/api/internal/interfaces/http/common"
	"github.com/hsuanlin/tainan-eats-services/api/internal/search"
)

func (h *Handler) searchHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
		defer cancel()

		query := r.URL.Query()
		page, _ := common.ParsePositiveInt(query.Get("page"), 1)
		perPage, _ := common.ParsePositiveInt(query.Get("perPage"), search.DefaultPerPage)

		req := search.Request{
			Query:     strings.TrimSpace(query.Get("q")),
			Page:      page,
			PerPage:   perPage,
			SortField: strings.TrimSpace(query.Get("sort")),
			SortOrder: strings.TrimSpace(query.Get("order")),
		}

		result, err := h.search.Search(ctx, req)
		if err != nil {
			h.logger.Printf("store search failed q=%q err=%v", req.Query, err)
			common.WriteJSON(h.logger, w, http.StatusInternalServerError, map[string]string{"error": "店家搜尋失敗"})
			return
		}

		items := make([]storeSummaryResponse, 0, len(result.Items))
		for _, store := range result.Items {
			items = append(items, buildStoreSummaryResponse(store))
		}

		common.WriteJSON(h.logger, w, http.StatusOK, searchResponse{
			Items:   items,
			Page:    page,
			PerPage: perPage,
			Total:   result.Total,
		})
	}
}
