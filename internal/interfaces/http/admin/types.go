package admin

import (
	"time"

	admindomain "github.com/hsuanlin/tainan-eats-services/api/internal/admin/domain"
)

type adminStoreRequest struct {
	Name           string                      `json:"name"`
	City           string                      `json:"city"`
	District       string                      `json:"district"`
	Category       string                      `json:"category"`
	Address        string                      `json:"address"`
	Phone          string                      `json:"phone"`
	Coordinates    *adminCoordinatesPayload    `json:"coordinates"`
	PlaceID        string                      `json:"placeId"`
	OpeningPeriods []adminOpeningPeriodPayload `json:"openingPeriods"`
	PhotoURLs      []string                    `json:"photoUrls"`
	Description    string                      `json:"description"`
}

type adminCoordinatesPayload struct {
	Lat float64 `json:"lat"`
	Lng float64 `json:"lng"`
}

type adminOpeningPeriodPayload struct {
	Weekday int    `json:"weekday"`
	Open    string `json:"open"`
	Close   string `json:"close"`
}

type adminStoreResponse struct {
	ID             string                      `json:"id"`
	Name           string                      `json:"name"`
	City           string                      `json:"city,omitempty"`
	District       string                      `json:"district,omitempty"`
	Category       string                      `json:"category,omitempty"`
	Address        string                      `json:"address,omitempty"`
	Phone          string                      `json:"phone,omitempty"`
	Coordinates    *adminCoordinatesPayload    `json:"coordinates,omitempty"`
	PlaceID        string                      `json:"placeId,omitempty"`
	OpeningPeriods []adminOpeningPeriodPayload `json:"openingPeriods,omitempty"`
	PhotoURLs      []string                    `json:"photoUrls,omitempty"`
	Description    string                      `json:"description,omitempty"`
	LastEditedAt   *time.Time                  `json:"lastEditedAt,omitempty"`
	CreatedAt      *time.Time                  `json:"createdAt,omitempty"`
}

type adminStoreCreateResponse struct {
	Store   adminStoreResponse `json:"store"`
	Created bool               `json:"created"`
}

// adminStoreDomainToResponse 把 Admin 領域模型轉成回應 DTO。
func adminStoreDomainToResponse(store admindomain.Store) adminStoreResponse {
	resp := adminStoreResponse{
		ID:          store.ID,
		Name:        store.Name,
		City:        store.City.String(),
		District:    store.District.String(),
		Category:    store.Category.String(),
		Address:     store.Address,
		Phone:       store.Phone,
		PlaceID:     store.PlaceID,
		PhotoURLs:   store.PhotoURLs.Strings(),
		Description: store.Description,
	}
	if store.Coordinates != nil {
		resp.Coordinates = &adminCoordinatesPayload{Lat: store.Coordinates.Lat, Lng: store.Coordinates.Lng}
	}
	for _, period := range store.OpeningPeriods {
		resp.OpeningPeriods = append(resp.OpeningPeriods, adminOpeningPeriodPayload{
			Weekday: int(period.Weekday),
			Open:    period.Open,
			Close:   period.Close,
		})
	}
	if !store.LastEditedAt.IsZero() {
		edited := store.LastEditedAt
		resp.LastEditedAt = &edited
	}
	if !store.CreatedAt.IsZero() {
		created := store.CreatedAt
		resp.CreatedAt = &created
	}
	return resp
}
