package bot

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/hsuanlin/tainan-eats-services/api/internal/interfaces/http/common"
	"github.com/hsuanlin/tainan-eats-services/api/internal/recommend"
)

const usageMessage = "想吃什麼呢？輸入「推薦 <行政區> [分類]」試試。\n例如：推薦 東區 火鍋"

type webhookRequest struct {
	UserID string `json:"userId"`
	Text   string `json:"text"`
}

func (h *Handler) webhookHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req webhookRequest
		if err := json.NewDecoder(io.LimitReader(r.Body, common.MaxRequestBody)).Decode(&req); err != nil {
			common.WriteJSON(h.logger, w, http.StatusBadRequest, map[string]string{"error": "請求格式錯誤"})
			return
		}

		userID := strings.TrimSpace(req.UserID)
		if userID == "" {
			common.WriteJSON(h.logger, w, http.StatusBadRequest, map[string]string{"error": "缺少 userId"})
			return
		}

		cmd, ok := parseCommand(req.Text)
		if !ok {
			// 與推薦無關的訊息直接忽略，gateway 端不需要回覆。
			common.WriteJSON(h.logger, w, http.StatusOK, map[string]string{"status": "ignored"})
			return
		}

		ctx, cancel := context.WithTimeout(r.Context(), 15*time.Second)
		defer cancel()

		reply := h.buildReply(ctx, cmd)
		if err := h.sendMessengerMessage(ctx, userID, reply); err != nil {
			h.logger.Printf("機器人回覆傳送失敗 userId=%s err=%v", userID, err)
			common.WriteJSON(h.logger, w, http.StatusBadGateway, map[string]string{"error": "回覆傳送失敗"})
			return
		}

		common.WriteJSON(h.logger, w, http.StatusOK, map[string]string{"status": "ok"})
	}
}

// buildReply 依指令內容產生回覆文字。行政區或分類無效時回覆使用說明。
func (h *Handler) buildReply(ctx context.Context, cmd command) string {
	if cmd.District == "" || !common.ValidDistrict(h.defaultCity, cmd.District) {
		return usageMessage
	}

	category := cmd.Category
	if category != "" {
		normalized, err := common.NormalizeCategory(category)
		if err != nil {
			return usageMessage
		}
		category = normalized
	}

	candidates, err := h.storeQueries.All(ctx)
	if err != nil {
		h.logger.Printf("推薦候選取得失敗: %v", err)
		return "系統暫時無法提供推薦，請稍後再試。"
	}

	// 機器人只推薦營業中的店家，Considered 用來區分「查無店家」與「都打烊了」。
	pool := h.filter.Apply(candidates, recommend.Criteria{City: h.defaultCity, District: cmd.District})
	result := h.selector.Select(ctx, pool, recommend.Request{
		TargetCount:      recommend.DefaultTargetCount,
		PriorityCategory: category,
		OpenNowOnly:      true,
	})

	if len(result.Stores) == 0 {
		if result.Considered == 0 {
			return fmt.Sprintf("%s目前還沒有店家資料，換個行政區試試？", cmd.District)
		}
		return fmt.Sprintf("%s的店家目前都沒有營業，晚點再問問看。", cmd.District)
	}

	return formatRecommendation(cmd.District, result.Stores)
}

// formatRecommendation 把推薦結果組成一則訊息。
func formatRecommendation(district string, stores []recommend.Enriched) string {
	var builder strings.Builder
	builder.WriteString(fmt.Sprintf("%s的推薦店家來囉！\n", district))
	for i, store := range stores {
		builder.WriteString(fmt.Sprintf("%d. %s", i+1, store.Name))
		if store.Category != "" {
			builder.WriteString(fmt.Sprintf("（%s）", store.Category))
		}
		builder.WriteString("\n")
		if store.Address != "" {
			builder.WriteString("　" + store.Address + "\n")
		}
		if store.Rating > 0 {
			builder.WriteString(fmt.Sprintf("　評分 %.1f（%d 則評論）\n", store.Rating, store.ReviewCount))
		}
	}
	return strings.TrimRight(builder.String(), "\n")
}
