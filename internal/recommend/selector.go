package recommend

import (
	"context"
	"log"
	"math/rand"
	"sort"
	"strings"
	"sync"

	"golang.org/x/sync/errgroup"

	"github.com/hsuanlin/tainan-eats-services/api/internal/public/domain"
)

// DefaultTargetCount 為未指定件數時的推薦數。
const DefaultTargetCount = 3

// enrichConcurrency bounds the in-flight detail lookups in the non-open-now
// path so the provider's rate limit is not flooded by a single request.
const enrichConcurrency = 4

// Mode selects how candidates are ordered.
type Mode string

const (
	// ModeSample 隨機抽選（地圖頁、網頁端、聊天機器人共用）。
	ModeSample Mode = "sample"
	// ModeRank 依距離由近到遠排序（定點搜尋用）。
	ModeRank Mode = "rank"
)

// Request carries the selection parameters shared by every call site.
type Request struct {
	TargetCount      int
	PriorityCategory string
	OpenNowOnly      bool
	Mode             Mode
}

// Result is an ordered selection plus the number of candidates examined.
// Considered lets callers tell "no candidates at all" apart from "candidates
// existed but none were open".
type Result struct {
	Stores     []Enriched
	Considered int
}

// Selector implements the shared recommendation policy. The original three
// call sites (map view, web client, bot) each supply parameters through
// Request; the algorithm itself lives here exactly once.
type Selector struct {
	enricher Enricher
	logger   *log.Logger

	// rngMu serializes access to rng; a *rand.Rand is not goroutine-safe
	// and one Selector serves every handler goroutine.
	rngMu sync.Mutex
	rng   *rand.Rand
}

// NewSelector constructs a Selector. enricher may be nil when no external
// lookup provider is configured; open-now selection then finds nothing open
// and plain selection returns undecorated stores.
func NewSelector(enricher Enricher, rng *rand.Rand, logger *log.Logger) *Selector {
	return &Selector{enricher: enricher, rng: rng, logger: logger}
}

func (s *Selector) shuffle(stores []domain.Store) {
	s.rngMu.Lock()
	shuffleStores(s.rng, stores)
	s.rngMu.Unlock()
}

// Select picks up to TargetCount stores from candidates.
//
// 非限定營業中：指定優先分類時先從該分類隨機抽選，不足再由其他分類隨機補滿；
// 未指定分類時全體隨機抽選。補照片為盡力而為，單筆失敗不影響結果。
//
// 限定營業中：分類為嚴格過濾（不補位），打亂後依序向外部供應商查詢營業狀態，
// 湊滿 TargetCount 即停止。查詢失敗或已打烊者跳過。
func (s *Selector) Select(ctx context.Context, candidates []domain.Store, req Request) Result {
	target := normalizeTarget(req.TargetCount)

	if req.OpenNowOnly {
		pool := filterCategory(candidates, req.PriorityCategory)
		s.shuffle(pool)
		return s.selectOpen(ctx, pool, nil, target)
	}

	picked := s.samplePool(candidates, req.PriorityCategory, target)
	return Result{
		Stores:     s.enrichAll(ctx, picked, nil),
		Considered: len(candidates),
	}
}

// SelectNearby runs the same policy over a pool pre-filtered by distance from
// origin instead of city/district. Stores without coordinates are excluded
// before any distance computation; a store at exactly radiusKm is included.
// Results carry the computed distance.
func (s *Selector) SelectNearby(ctx context.Context, stores []domain.Store, origin domain.Coordinates, radiusKm float64, req Request) Result {
	target := normalizeTarget(req.TargetCount)

	pool := make([]domain.Store, 0, len(stores))
	distances := make(map[string]float64, len(stores))
	for _, store := range stores {
		if !store.HasCoordinates() {
			continue
		}
		d := DistanceKm(origin.Lat, origin.Lng, store.Coordinates.Lat, store.Coordinates.Lng)
		if d > radiusKm {
			continue
		}
		pool = append(pool, store)
		distances[store.ID] = d
	}

	if req.Mode == ModeRank {
		ranked := filterCategory(pool, req.PriorityCategory)
		sort.SliceStable(ranked, func(i, j int) bool {
			return distances[ranked[i].ID] < distances[ranked[j].ID]
		})
		if req.OpenNowOnly {
			return s.selectOpen(ctx, ranked, distances, target)
		}
		considered := len(ranked)
		if len(ranked) > target {
			ranked = ranked[:target]
		}
		return Result{Stores: s.enrichAll(ctx, ranked, distances), Considered: considered}
	}

	if req.OpenNowOnly {
		filtered := filterCategory(pool, req.PriorityCategory)
		s.shuffle(filtered)
		return s.selectOpen(ctx, filtered, distances, target)
	}

	picked := s.samplePool(pool, req.PriorityCategory, target)
	return Result{Stores: s.enrichAll(ctx, picked, distances), Considered: len(pool)}
}

// samplePool implements category-priority backfill: take up to target from the
// priority partition, then fill the remainder from the rest. Both partitions
// are shuffled independently so neither pick is biased. Never duplicates,
// never returns fewer than min(target, len(candidates)).
func (s *Selector) samplePool(candidates []domain.Store, priorityCategory string, target int) []domain.Store {
	priority := strings.TrimSpace(priorityCategory)
	if priority == "" || priority == CriteriaAll {
		pool := append([]domain.Store(nil), candidates...)
		s.shuffle(pool)
		if len(pool) > target {
			pool = pool[:target]
		}
		return pool
	}

	inCategory := make([]domain.Store, 0, len(candidates))
	others := make([]domain.Store, 0, len(candidates))
	for _, store := range candidates {
		if strings.TrimSpace(store.Category) == priority {
			inCategory = append(inCategory, store)
		} else {
			others = append(others, store)
		}
	}
	s.shuffle(inCategory)
	s.shuffle(others)

	picked := inCategory
	if len(picked) > target {
		picked = picked[:target]
	}
	if remainder := target - len(picked); remainder > 0 {
		if remainder > len(others) {
			remainder = len(others)
		}
		picked = append(picked, others[:remainder]...)
	}
	return picked
}

// selectOpen walks pool in order, fetching details one at a time, and stops as
// soon as target open stores are accepted. Candidates after the last accepted
// hit are never queried.
func (s *Selector) selectOpen(ctx context.Context, pool []domain.Store, distances map[string]float64, target int) Result {
	result := Result{Considered: len(pool)}
	for _, store := range pool {
		if len(result.Stores) >= target {
			break
		}
		if ctx.Err() != nil {
			break
		}
		details, err := s.lookup(ctx, store)
		if err != nil {
			if s.logger != nil {
				s.logger.Printf("店家 %s 詳細資訊查詢失敗，略過: %v", store.ID, err)
			}
			continue
		}
		if details.OpenNow == nil || !*details.OpenNow {
			continue
		}
		result.Stores = append(result.Stores, decorate(store, details, distances))
	}
	return result
}

// enrichAll decorates the already-selected stores concurrently. Lookup
// failures leave the store undecorated rather than aborting the selection.
func (s *Selector) enrichAll(ctx context.Context, picked []domain.Store, distances map[string]float64) []Enriched {
	enriched := make([]Enriched, len(picked))
	group, groupCtx := errgroup.WithContext(ctx)
	group.SetLimit(enrichConcurrency)
	for i, store := range picked {
		i, store := i, store
		group.Go(func() error {
			details, err := s.lookup(groupCtx, store)
			if err != nil {
				if s.logger != nil {
					s.logger.Printf("店家 %s 補充資訊取得失敗: %v", store.ID, err)
				}
				enriched[i] = decorate(store, nil, distances)
				return nil
			}
			enriched[i] = decorate(store, details, distances)
			return nil
		})
	}
	// Goroutines above always return nil; Wait only synchronises.
	_ = group.Wait()
	return enriched
}

func (s *Selector) lookup(ctx context.Context, store domain.Store) (*PlaceDetails, error) {
	if s.enricher == nil {
		return nil, errNoEnricher
	}
	if strings.TrimSpace(store.PlaceID) == "" {
		return nil, errNoPlaceID
	}
	return s.enricher.Details(ctx, store.PlaceID)
}

func decorate(store domain.Store, details *PlaceDetails, distances map[string]float64) Enriched {
	e := Enriched{Store: store}
	if distances != nil {
		if d, ok := distances[store.ID]; ok {
			value := d
			e.DistanceKm = &value
		}
	}
	if details == nil {
		return e
	}
	e.PhotoURL = details.PhotoURL
	e.Rating = details.Rating
	e.ReviewCount = details.ReviewCount
	e.IsOpenNow = details.OpenNow
	if details.PhoneNumber != "" {
		e.Phone = details.PhoneNumber
	}
	return e
}

func filterCategory(stores []domain.Store, category string) []domain.Store {
	category = strings.TrimSpace(category)
	if category == "" || category == CriteriaAll {
		return append([]domain.Store(nil), stores...)
	}
	filtered := make([]domain.Store, 0, len(stores))
	for _, store := range stores {
		if strings.TrimSpace(store.Category) == category {
			filtered = append(filtered, store)
		}
	}
	return filtered
}

func normalizeTarget(target int) int {
	if target <= 0 {
		return DefaultTargetCount
	}
	return target
}
