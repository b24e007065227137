package admin

import (
	"fmt"
	"net/http"
	"strings"
	"unicode/utf8"

	adminapp "github.com/hsuanlin/tainan-eats-services/api/internal/admin/application"
	"github.com/hsuanlin/tainan-eats-services/api/internal/interfaces/http/common"
)

// auditActor 取出 JWT 驗證後的操作者識別，供異動紀錄使用。
func auditActor(r *http.Request) string {
	if user, ok := common.UserFromContext(r.Context()); ok && user.ID != "" {
		return user.ID
	}
	return "unknown"
}

// buildStoreCommand 驗證請求內容並轉成應用層命令。
// 行政區與分類依公開的分類表檢查，避免後台打錯字污染資料。
func (h *Handler) buildStoreCommand(req adminStoreRequest) (adminapp.UpsertStoreCommand, error) {
	name := strings.TrimSpace(req.Name)
	if name == "" {
		return adminapp.UpsertStoreCommand{}, fmt.Errorf("店名不可為空")
	}

	city := strings.TrimSpace(req.City)
	district := strings.TrimSpace(req.District)
	if district != "" && !common.ValidDistrict(city, district) {
		return adminapp.UpsertStoreCommand{}, fmt.Errorf("無效的行政區: %s", district)
	}

	category := strings.TrimSpace(req.Category)
	if category != "" {
		normalized, err := common.NormalizeCategory(category)
		if err != nil {
			return adminapp.UpsertStoreCommand{}, err
		}
		category = normalized
	}

	if len(req.PhotoURLs) > common.MaxStorePhotoCount {
		return adminapp.UpsertStoreCommand{}, fmt.Errorf("照片最多 %d 張", common.MaxStorePhotoCount)
	}

	description := strings.TrimSpace(req.Description)
	if utf8.RuneCountInString(description) > common.MaxStoreDescriptionRunes {
		return adminapp.UpsertStoreCommand{}, fmt.Errorf("介紹文字最多 %d 字", common.MaxStoreDescriptionRunes)
	}

	cmd := adminapp.UpsertStoreCommand{
		Name:        name,
		City:        city,
		District:    district,
		Category:    category,
		Address:     strings.TrimSpace(req.Address),
		Phone:       strings.TrimSpace(req.Phone),
		PlaceID:     strings.TrimSpace(req.PlaceID),
		PhotoURLs:   req.PhotoURLs,
		Description: description,
	}
	if req.Coordinates != nil {
		cmd.Coordinates = &adminapp.CoordinatesCommand{Lat: req.Coordinates.Lat, Lng: req.Coordinates.Lng}
	}
	for _, period := range req.OpeningPeriods {
		cmd.OpeningPeriods = append(cmd.OpeningPeriods, adminapp.OpeningPeriodCommand{
			Weekday: period.Weekday,
			Open:    strings.TrimSpace(period.Open),
			Close:   strings.TrimSpace(period.Close),
		})
	}
	return cmd, nil
}
