package public

import (
	"context"
	"net/http"
	"strings"
	"time"

	"github.com/hsuanlin/tainan-eats-services/api/internal/interfaces/http/common"
	publicdomain "github.com/hsuanlin/tainan-eats-services/api/internal/public/domain"
	"github.com/hsuanlin/tainan-eats-services/api/internal/recommend"
)

const (
	// nearMeRadiusKm 適用於「附近推薦」的隨機抽選模式。
	nearMeRadiusKm = 2.0
	// pointSearchRadiusKm 適用於定點搜尋的距離排序模式。
	pointSearchRadiusKm = 1.0
	// pointSearchTargetCount 定點搜尋最多回傳的店家數。
	pointSearchTargetCount = 20
)

func (h *Handler) recommendHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx, cancel := context.WithTimeout(r.Context(), 15*time.Second)
		defer cancel()

		query := r.URL.Query()
		city := strings.TrimSpace(query.Get("city"))
		if city == "" {
			city = h.defaultCity
		}
		district := strings.TrimSpace(query.Get("district"))
		if district != "" && district != common.FilterAll && !common.ValidDistrict(city, district) {
			common.WriteJSON(h.logger, w, http.StatusBadRequest, map[string]string{"error": "無效的行政區: " + district})
			return
		}

		category := strings.TrimSpace(query.Get("category"))
		if category != "" && category != common.FilterAll {
			normalized, err := common.NormalizeCategory(category)
			if err != nil {
				common.WriteJSON(h.logger, w, http.StatusBadRequest, map[string]string{"error": err.Error()})
				return
			}
			category = normalized
		}

		count, _ := common.ParsePositiveInt(query.Get("count"), recommend.DefaultTargetCount)
		openNow := query.Get("openNow") == "true"

		candidates, err := h.storeQueries.All(ctx)
		if err != nil {
			h.logger.Printf("recommendation candidate fetch failed: %v", err)
			common.WriteJSON(h.logger, w, http.StatusInternalServerError, map[string]string{"error": "取得推薦候選失敗"})
			return
		}

		pool := h.filter.Apply(candidates, recommend.Criteria{City: city, District: district})
		result := h.selector.Select(ctx, pool, recommend.Request{
			TargetCount:      count,
			PriorityCategory: category,
			OpenNowOnly:      openNow,
			Mode:             recommend.ModeSample,
		})

		common.WriteJSON(h.logger, w, http.StatusOK, buildRecommendResponse(result, district))
	}
}

func (h *Handler) recommendNearbyHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx, cancel := context.WithTimeout(r.Context(), 15*time.Second)
		defer cancel()

		query := r.URL.Query()
		lat, okLat := common.ParseFloat(query.Get("lat"))
		lng, okLng := common.ParseFloat(query.Get("lng"))
		if !okLat || !okLng {
			common.WriteJSON(h.logger, w, http.StatusBadRequest, map[string]string{"error": "座標格式錯誤"})
			return
		}
		if lat < -90 || lat > 90 || lng < -180 || lng > 180 {
			common.WriteJSON(h.logger, w, http.StatusBadRequest, map[string]string{"error": "座標超出範圍"})
			return
		}

		category := strings.TrimSpace(query.Get("category"))
		if category != "" && category != common.FilterAll {
			normalized, err := common.NormalizeCategory(category)
			if err != nil {
				common.WriteJSON(h.logger, w, http.StatusBadRequest, map[string]string{"error": err.Error()})
				return
			}
			category = normalized
		}

		mode := recommend.ModeSample
		radius := nearMeRadiusKm
		count := recommend.DefaultTargetCount
		if strings.TrimSpace(query.Get("mode")) == string(recommend.ModeRank) {
			mode = recommend.ModeRank
			radius = pointSearchRadiusKm
			count = pointSearchTargetCount
		}
		if v, ok := common.ParseFloat(query.Get("radiusKm")); ok && v > 0 {
			radius = v
		}
		if v, ok := common.ParsePositiveInt(query.Get("count"), count); ok {
			count = v
		}
		openNow := query.Get("openNow") == "true"

		candidates, err := h.storeQueries.All(ctx)
		if err != nil {
			h.logger.Printf("recommendation candidate fetch failed: %v", err)
			common.WriteJSON(h.logger, w, http.StatusInternalServerError, map[string]string{"error": "取得推薦候選失敗"})
			return
		}

		origin := publicdomain.Coordinates{Lat: lat, Lng: lng}
		result := h.selector.SelectNearby(ctx, candidates, origin, radius, recommend.Request{
			TargetCount:      count,
			PriorityCategory: category,
			OpenNowOnly:      openNow,
			Mode:             mode,
		})

		// 反向地理編碼取得行政區名稱僅供顯示，失敗時留空。
		district := ""
		if h.places != nil {
			district = h.places.DistrictOf(ctx, lat, lng)
		}

		common.WriteJSON(h.logger, w, http.StatusOK, buildRecommendResponse(result, district))
	}
}
