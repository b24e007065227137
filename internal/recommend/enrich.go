package recommend

import (
	"context"
	"errors"

	"github.com/hsuanlin/tainan-eats-services/api/internal/public/domain"
)

var (
	errNoEnricher = errors.New("外部查詢服務未設定")
	errNoPlaceID  = errors.New("店家未登錄 place ID")
)

// Enricher fetches external place details for a store. Implementations are
// expected to be fallible and rate limited; callers treat any error as "no
// enrichment available".
type Enricher interface {
	Details(ctx context.Context, placeID string) (*PlaceDetails, error)
}

// PlaceDetails は外部供應商回傳的店家補充資訊。
type PlaceDetails struct {
	PhotoURL    string
	PhoneNumber string
	Rating      float64
	ReviewCount int
	// OpenNow is nil when the provider has no opening-hours data.
	OpenNow *bool
}

// Enriched decorates a Store with request-scoped lookup results. It is never
// persisted; it exists only for the duration of a response.
type Enriched struct {
	domain.Store
	PhotoURL    string
	Rating      float64
	ReviewCount int
	IsOpenNow   *bool
	DistanceKm  *float64
}
