package places

import (
	"context"
	"fmt"
	"log"
	"strings"
	"time"

	"github.com/patrickmn/go-cache"
	"golang.org/x/time/rate"
	"googlemaps.github.io/maps"

	"github.com/hsuanlin/tainan-eats-services/api/internal/recommend"
)

const (
	// lookupTimeout bounds every provider call; on expiry the caller
	// proceeds without enrichment instead of hanging.
	lookupTimeout = 5 * time.Second

	detailCacheTTL     = 5 * time.Minute
	detailCacheCleanup = 10 * time.Minute

	photoMaxWidth = 400
)

// Client wraps the Google Maps places API as the enrichment/geocoding
// collaborator. Calls are rate limited and results cached briefly so a burst
// of recommendations does not hammer the provider quota.
type Client struct {
	maps    *maps.Client
	limiter *rate.Limiter
	cache   *cache.Cache
	logger  *log.Logger
	apiKey  string
}

// New 建立外部地點服務的用戶端。ratePerSecond 為對供應商的呼叫上限。
func New(apiKey string, ratePerSecond float64, logger *log.Logger) (*Client, error) {
	mapsClient, err := maps.NewClient(maps.WithAPIKey(apiKey))
	if err != nil {
		return nil, fmt.Errorf("建立 Google Maps 用戶端失敗: %w", err)
	}
	if ratePerSecond <= 0 {
		ratePerSecond = 10
	}
	return &Client{
		maps:    mapsClient,
		limiter: rate.NewLimiter(rate.Limit(ratePerSecond), int(ratePerSecond)),
		cache:   cache.New(detailCacheTTL, detailCacheCleanup),
		logger:  logger,
		apiKey:  apiKey,
	}, nil
}

// Details implements recommend.Enricher. Failures and timeouts surface as
// errors; the selector treats them as "no enrichment available".
func (c *Client) Details(ctx context.Context, placeID string) (*recommend.PlaceDetails, error) {
	placeID = strings.TrimSpace(placeID)
	if placeID == "" {
		return nil, fmt.Errorf("place ID 為空")
	}

	if cached, found := c.cache.Get(placeID); found {
		details := cached.(recommend.PlaceDetails)
		return &details, nil
	}

	ctx, cancel := context.WithTimeout(ctx, lookupTimeout)
	defer cancel()

	if err := c.limiter.Wait(ctx); err != nil {
		return nil, fmt.Errorf("等待呼叫額度逾時: %w", err)
	}

	result, err := c.maps.PlaceDetails(ctx, &maps.PlaceDetailsRequest{
		PlaceID:  placeID,
		Language: "zh-TW",
		Fields: []maps.PlaceDetailsFieldMask{
			maps.PlaceDetailsFieldMaskPhotos,
			maps.PlaceDetailsFieldMaskOpeningHours,
			maps.PlaceDetailsFieldMaskFormattedPhoneNumber,
			maps.PlaceDetailsFieldMaskRatings,
			maps.PlaceDetailsFieldMaskUserRatingsTotal,
		},
	})
	if err != nil {
		return nil, fmt.Errorf("地點詳細資訊查詢失敗: %w", err)
	}

	details := recommend.PlaceDetails{
		PhoneNumber: result.FormattedPhoneNumber,
		Rating:      float64(result.Rating),
		ReviewCount: result.UserRatingsTotal,
	}
	if len(result.Photos) > 0 {
		details.PhotoURL = c.photoURL(result.Photos[0].PhotoReference)
	}
	if result.OpeningHours != nil && result.OpeningHours.OpenNow != nil {
		open := *result.OpeningHours.OpenNow
		details.OpenNow = &open
	}

	c.cache.Set(placeID, details, cache.DefaultExpiration)
	return &details, nil
}

// DistrictOf 將座標反查為行政區名稱。失敗或逾時時回傳空字串，由呼叫端
// 以預設值代替，不視為錯誤。
func (c *Client) DistrictOf(ctx context.Context, lat, lng float64) string {
	ctx, cancel := context.WithTimeout(ctx, lookupTimeout)
	defer cancel()

	if err := c.limiter.Wait(ctx); err != nil {
		return ""
	}

	results, err := c.maps.ReverseGeocode(ctx, &maps.GeocodingRequest{
		LatLng:   &maps.LatLng{Lat: lat, Lng: lng},
		Language: "zh-TW",
	})
	if err != nil {
		if c.logger != nil {
			c.logger.Printf("座標反查行政區失敗: %v", err)
		}
		return ""
	}

	for _, result := range results {
		for _, component := range result.AddressComponents {
			if !hasDistrictType(component.Types) {
				continue
			}
			if strings.HasSuffix(component.LongName, "區") {
				return component.LongName
			}
		}
	}
	return ""
}

func hasDistrictType(types []string) bool {
	for _, t := range types {
		if t == "administrative_area_level_2" || t == "administrative_area_level_3" {
			return true
		}
	}
	return false
}

func (c *Client) photoURL(reference string) string {
	if strings.TrimSpace(reference) == "" {
		return ""
	}
	return fmt.Sprintf(
		"https://maps.googleapis.com/maps/api/place/photo?maxwidth=%d&photoreference=%s&key=%s",
		photoMaxWidth, reference, c.apiKey,
	)
}
