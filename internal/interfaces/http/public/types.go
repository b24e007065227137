package public

import (
	"time"

	publicdomain "github.com/hsuanlin/tainan-eats-services/api/internal/public/domain"
	"github.com/hsuanlin/tainan-eats-services/api/internal/recommend"
)

type storeSummaryResponse struct {
	ID       string `json:"id"`
	Name     string `json:"name"`
	City     string `json:"city,omitempty"`
	District string `json:"district,omitempty"`
	Category string `json:"category,omitempty"`
	Address  string `json:"address,omitempty"`
	PhotoURL string `json:"photoUrl,omitempty"`
}

type storeDetailResponse struct {
	ID             string                  `json:"id"`
	Name           string                  `json:"name"`
	City           string                  `json:"city,omitempty"`
	District       string                  `json:"district,omitempty"`
	Category       string                  `json:"category,omitempty"`
	Address        string                  `json:"address,omitempty"`
	Phone          string                  `json:"phone,omitempty"`
	Coordinates    *coordinatesPayload     `json:"coordinates,omitempty"`
	OpeningPeriods []openingPeriodResponse `json:"openingPeriods,omitempty"`
	PhotoURLs      []string                `json:"photoUrls,omitempty"`
	Description    string                  `json:"description,omitempty"`
	IsOpenNow      *bool                   `json:"isOpenNow,omitempty"`
	LastEditedAt   *time.Time              `json:"lastEditedAt,omitempty"`
}

type coordinatesPayload struct {
	Lat float64 `json:"lat"`
	Lng float64 `json:"lng"`
}

type openingPeriodResponse struct {
	Weekday int    `json:"weekday"`
	Open    string `json:"open"`
	Close   string `json:"close"`
}

type storeListResponse struct {
	Items []storeSummaryResponse `json:"items"`
	Page  int                    `json:"page"`
	Limit int                    `json:"limit"`
	Total int                    `json:"total"`
}

type searchResponse struct {
	Items   []storeSummaryResponse `json:"items"`
	Page    int                    `json:"page"`
	PerPage int                    `json:"perPage"`
	Total   int                    `json:"total"`
}

type recommendedStoreResponse struct {
	ID          string              `json:"id"`
	Name        string              `json:"name"`
	City        string              `json:"city,omitempty"`
	District    string              `json:"district,omitempty"`
	Category    string              `json:"category,omitempty"`
	Address     string              `json:"address,omitempty"`
	Phone       string              `json:"phone,omitempty"`
	Coordinates *coordinatesPayload `json:"coordinates,omitempty"`
	PhotoURL    string              `json:"photoUrl,omitempty"`
	Rating      float64             `json:"rating,omitempty"`
	ReviewCount int                 `json:"reviewCount,omitempty"`
	IsOpenNow   *bool               `json:"isOpenNow,omitempty"`
	DistanceKm  *float64            `json:"distanceKm,omitempty"`
}

type recommendResponse struct {
	Items      []recommendedStoreResponse `json:"items"`
	Considered int                        `json:"considered"`
	District   string                     `json:"district,omitempty"`
}

// buildStoreSummaryResponse 把 Store 領域模型轉成列表用 DTO。
func buildStoreSummaryResponse(store publicdomain.Store) storeSummaryResponse {
	summary := storeSummaryResponse{
		ID:       store.ID,
		Name:     store.Name,
		City:     store.City,
		District: store.District,
		Category: store.Category,
		Address:  store.Address,
	}
	if len(store.PhotoURLs) > 0 {
		summary.PhotoURL = store.PhotoURLs[0]
	}
	return summary
}

func buildStoreDetailResponse(store publicdomain.Store, now time.Time) storeDetailResponse {
	detail := storeDetailResponse{
		ID:          store.ID,
		Name:        store.Name,
		City:        store.City,
		District:    store.District,
		Category:    store.Category,
		Address:     store.Address,
		Phone:       store.Phone,
		PhotoURLs:   store.PhotoURLs,
		Description: store.Description,
	}
	if store.Coordinates != nil {
		detail.Coordinates = &coordinatesPayload{Lat: store.Coordinates.Lat, Lng: store.Coordinates.Lng}
	}
	for _, period := range store.OpeningPeriods {
		detail.OpeningPeriods = append(detail.OpeningPeriods, openingPeriodResponse{
			Weekday: int(period.Weekday),
			Open:    period.Open,
			Close:   period.Close,
		})
	}
	if len(store.OpeningPeriods) > 0 {
		open := store.IsOpenAt(now)
		detail.IsOpenNow = &open
	}
	if !store.LastEditedAt.IsZero() {
		edited := store.LastEditedAt
		detail.LastEditedAt = &edited
	}
	return detail
}

func buildRecommendedStoreResponse(store recommend.Enriched) recommendedStoreResponse {
	item := recommendedStoreResponse{
		ID:          store.ID,
		Name:        store.Name,
		City:        store.City,
		District:    store.District,
		Category:    store.Category,
		Address:     store.Address,
		Phone:       store.Phone,
		PhotoURL:    store.PhotoURL,
		Rating:      store.Rating,
		ReviewCount: store.ReviewCount,
		IsOpenNow:   store.IsOpenNow,
		DistanceKm:  store.DistanceKm,
	}
	if item.PhotoURL == "" && len(store.PhotoURLs) > 0 {
		item.PhotoURL = store.PhotoURLs[0]
	}
	if store.Coordinates != nil {
		item.Coordinates = &coordinatesPayload{Lat: store.Coordinates.Lat, Lng: store.Coordinates.Lng}
	}
	return item
}

func buildRecommendResponse(result recommend.Result, district string) recommendResponse {
	items := make([]recommendedStoreResponse, 0, len(result.Stores))
	for _, store := range result.Stores {
		items = append(items, buildRecommendedStoreResponse(store))
	}
	return recommendResponse{
		Items:      items,
		Considered: result.Considered,
		District:   district,
	}
}
