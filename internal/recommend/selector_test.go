package recommend

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log"
	"math/rand"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hsuanlin/tainan-eats-services/api/internal/public/domain"
)

// fakeEnricher 記錄查詢順序並依 placeID 回傳預先設定的結果。
type fakeEnricher struct {
	mu      sync.Mutex
	details map[string]*PlaceDetails
	err     error
	calls   []string
}

func (f *fakeEnricher) Details(_ context.Context, placeID string) (*PlaceDetails, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls = append(f.calls, placeID)
	if f.err != nil {
		return nil, f.err
	}
	if d, ok := f.details[placeID]; ok {
		return d, nil
	}
	return &PlaceDetails{}, nil
}

func (f *fakeEnricher) callCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.calls)
}

func newTestSelector(enricher Enricher) *Selector {
	return NewSelector(enricher, rand.New(rand.NewSource(1)), log.New(io.Discard, "", 0))
}

func makeStores(n int, category string) []domain.Store {
	stores := make([]domain.Store, 0, n)
	for i := 0; i < n; i++ {
		id := fmt.Sprintf("%s-%d", category, i)
		stores = append(stores, domain.Store{ID: id, Name: id, Category: category, PlaceID: "place-" + id})
	}
	return stores
}

func openDetails(open bool) *PlaceDetails {
	return &PlaceDetails{OpenNow: &open}
}

func storeIDs(stores []Enriched) []string {
	ids := make([]string, 0, len(stores))
	for _, s := range stores {
		ids = append(ids, s.ID)
	}
	return ids
}

func TestSelectTargetCount(t *testing.T) {
	selector := newTestSelector(nil)
	candidates := makeStores(10, "小吃")

	result := selector.Select(context.Background(), candidates, Request{TargetCount: 3})

	assert.Len(t, result.Stores, 3)
	assert.Equal(t, 10, result.Considered)

	seen := map[string]struct{}{}
	for _, id := range storeIDs(result.Stores) {
		_, dup := seen[id]
		assert.False(t, dup, "結果不可重複: %s", id)
		seen[id] = struct{}{}
	}
}

func TestSelectFewerCandidatesThanTarget(t *testing.T) {
	selector := newTestSelector(nil)
	candidates := makeStores(2, "甜點")

	result := selector.Select(context.Background(), candidates, Request{TargetCount: 3})

	assert.Len(t, result.Stores, 2)
	assert.Equal(t, 2, result.Considered)
}

func TestSelectPriorityCategoryBackfill(t *testing.T) {
	selector := newTestSelector(nil)
	candidates := append(makeStores(2, "火鍋"), makeStores(8, "台式")...)

	result := selector.Select(context.Background(), candidates, Request{TargetCount: 3, PriorityCategory: "火鍋"})

	require.Len(t, result.Stores, 3)
	hotpot := 0
	for _, store := range result.Stores {
		if store.Category == "火鍋" {
			hotpot++
		}
	}
	assert.Equal(t, 2, hotpot, "優先分類應全數入選，不足再補其他分類")
}

func TestSelectPriorityCategoryEnough(t *testing.T) {
	selector := newTestSelector(nil)
	candidates := append(makeStores(5, "火鍋"), makeStores(5, "台式")...)

	result := selector.Select(context.Background(), candidates, Request{TargetCount: 3, PriorityCategory: "火鍋"})

	require.Len(t, result.Stores, 3)
	for _, store := range result.Stores {
		assert.Equal(t, "火鍋", store.Category)
	}
}

func TestSelectOpenNowEarlyStop(t *testing.T) {
	candidates := makeStores(6, "小吃")
	details := make(map[string]*PlaceDetails, len(candidates))
	for _, store := range candidates {
		details[store.PlaceID] = openDetails(true)
	}
	enricher := &fakeEnricher{details: details}
	selector := newTestSelector(enricher)

	result := selector.Select(context.Background(), candidates, Request{TargetCount: 3, OpenNowOnly: true})

	assert.Len(t, result.Stores, 3)
	assert.Equal(t, 6, result.Considered)
	assert.Equal(t, 3, enricher.callCount(), "湊滿後不應再查詢剩餘店家")
	for _, store := range result.Stores {
		require.NotNil(t, store.IsOpenNow)
		assert.True(t, *store.IsOpenNow)
	}
}

func TestSelectOpenNowSkipsClosedAndUnknown(t *testing.T) {
	candidates := makeStores(4, "咖啡廳")
	details := map[string]*PlaceDetails{
		candidates[0].PlaceID: openDetails(false),
		candidates[1].PlaceID: {}, // 無營業時間資料
		candidates[2].PlaceID: openDetails(true),
		candidates[3].PlaceID: openDetails(false),
	}
	selector := newTestSelector(&fakeEnricher{details: details})

	result := selector.Select(context.Background(), candidates, Request{TargetCount: 3, OpenNowOnly: true})

	assert.Len(t, result.Stores, 1)
	assert.Equal(t, 4, result.Considered)
}

func TestSelectOpenNowLookupFailure(t *testing.T) {
	candidates := makeStores(3, "燒烤")
	enricher := &fakeEnricher{err: errors.New("quota exceeded")}
	selector := newTestSelector(enricher)

	result := selector.Select(context.Background(), candidates, Request{TargetCount: 3, OpenNowOnly: true})

	assert.Empty(t, result.Stores)
	assert.Equal(t, 3, result.Considered)
	assert.Equal(t, 3, enricher.callCount(), "查詢失敗應跳過，不中斷整輪")
}

func TestSelectOpenNowStrictCategory(t *testing.T) {
	hotpot := makeStores(2, "火鍋")
	other := makeStores(4, "台式")
	details := make(map[string]*PlaceDetails)
	for _, store := range append(append([]domain.Store{}, hotpot...), other...) {
		details[store.PlaceID] = openDetails(true)
	}
	selector := newTestSelector(&fakeEnricher{details: details})

	result := selector.Select(context.Background(), append(hotpot, other...), Request{
		TargetCount:      3,
		PriorityCategory: "火鍋",
		OpenNowOnly:      true,
	})

	assert.Len(t, result.Stores, 2, "限定營業中時不向其他分類補位")
	assert.Equal(t, 2, result.Considered)
	for _, store := range result.Stores {
		assert.Equal(t, "火鍋", store.Category)
	}
}

func TestSelectEnrichFailureKeepsStore(t *testing.T) {
	candidates := makeStores(3, "甜點")
	selector := newTestSelector(&fakeEnricher{err: errors.New("backend down")})

	result := selector.Select(context.Background(), candidates, Request{TargetCount: 3})

	assert.Len(t, result.Stores, 3, "補充資訊失敗不影響入選")
	for _, store := range result.Stores {
		assert.Empty(t, store.PhotoURL)
		assert.Nil(t, store.IsOpenNow)
	}
}

func nearbyStore(id string, lat, lng float64) domain.Store {
	return domain.Store{ID: id, Name: id, Coordinates: &domain.Coordinates{Lat: lat, Lng: lng}}
}

func TestSelectNearbyRadiusBoundary(t *testing.T) {
	selector := newTestSelector(nil)
	origin := domain.Coordinates{Lat: 23.0, Lng: 120.2}
	target := nearbyStore("boundary", 23.01, 120.2)
	exact := DistanceKm(origin.Lat, origin.Lng, 23.01, 120.2)

	t.Run("距離恰等於半徑者入選", func(t *testing.T) {
		result := selector.SelectNearby(context.Background(), []domain.Store{target}, origin, exact, Request{TargetCount: 3})
		assert.Len(t, result.Stores, 1)
		require.NotNil(t, result.Stores[0].DistanceKm)
		assert.Equal(t, exact, *result.Stores[0].DistanceKm)
	})

	t.Run("超出半徑者排除", func(t *testing.T) {
		result := selector.SelectNearby(context.Background(), []domain.Store{target}, origin, exact*0.99, Request{TargetCount: 3})
		assert.Empty(t, result.Stores)
		assert.Zero(t, result.Considered)
	})
}

func TestSelectNearbyExcludesMissingCoordinates(t *testing.T) {
	selector := newTestSelector(nil)
	origin := domain.Coordinates{Lat: 23.0, Lng: 120.2}
	stores := []domain.Store{
		{ID: "no-coords", Name: "no-coords"},
		nearbyStore("near", 23.001, 120.2),
	}

	result := selector.SelectNearby(context.Background(), stores, origin, 2, Request{TargetCount: 3})

	assert.Equal(t, []string{"near"}, storeIDs(result.Stores))
	assert.Equal(t, 1, result.Considered)
}

func TestSelectNearbyRankOrdersByDistance(t *testing.T) {
	selector := newTestSelector(nil)
	origin := domain.Coordinates{Lat: 23.0, Lng: 120.2}
	stores := []domain.Store{
		nearbyStore("far", 23.008, 120.2),
		nearbyStore("nearest", 23.001, 120.2),
		nearbyStore("middle", 23.004, 120.2),
	}

	result := selector.SelectNearby(context.Background(), stores, origin, 2, Request{TargetCount: 2, Mode: ModeRank})

	assert.Equal(t, []string{"nearest", "middle"}, storeIDs(result.Stores))
	assert.Equal(t, 3, result.Considered)
	for _, store := range result.Stores {
		require.NotNil(t, store.DistanceKm)
	}
}

func TestSelectNearbySampleMode(t *testing.T) {
	selector := newTestSelector(nil)
	origin := domain.Coordinates{Lat: 23.0, Lng: 120.2}
	stores := make([]domain.Store, 0, 6)
	for i := 0; i < 6; i++ {
		stores = append(stores, nearbyStore(fmt.Sprintf("s%d", i), 23.0+float64(i)*0.001, 120.2))
	}

	result := selector.SelectNearby(context.Background(), stores, origin, 2, Request{TargetCount: 3, Mode: ModeSample})

	assert.Len(t, result.Stores, 3)
	assert.Equal(t, 6, result.Considered)
}

func TestSelectEmptyCandidates(t *testing.T) {
	selector := newTestSelector(&fakeEnricher{})

	t.Run("一般抽選", func(t *testing.T) {
		result := selector.Select(context.Background(), nil, Request{TargetCount: 3})
		assert.Empty(t, result.Stores)
		assert.Zero(t, result.Considered)
	})

	t.Run("限定營業中", func(t *testing.T) {
		result := selector.Select(context.Background(), []domain.Store{}, Request{TargetCount: 3, OpenNowOnly: true})
		assert.Empty(t, result.Stores)
		assert.Zero(t, result.Considered)
	})
}

func TestSelectNearbyEmptyCandidates(t *testing.T) {
	selector := newTestSelector(nil)
	origin := domain.Coordinates{Lat: 23.0, Lng: 120.2}

	result := selector.SelectNearby(context.Background(), nil, origin, 2, Request{TargetCount: 3})

	assert.Empty(t, result.Stores)
	assert.Zero(t, result.Considered)
}

// 同一個 Selector 會被多個 handler goroutine 共用，亂數來源必須可併發使用。
// 搭配 -race 執行可偵測退化。
func TestSelectConcurrentUse(t *testing.T) {
	enricher := &fakeEnricher{details: map[string]*PlaceDetails{}}
	selector := newTestSelector(enricher)
	candidates := makeStores(20, "台式")
	origin := domain.Coordinates{Lat: 23.0, Lng: 120.2}

	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			result := selector.Select(context.Background(), candidates, Request{TargetCount: 3})
			assert.Len(t, result.Stores, 3)
			selector.SelectNearby(context.Background(), candidates, origin, 2, Request{TargetCount: 3, Mode: ModeSample})
		}()
	}
	wg.Wait()
}
