package search

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"unicode/utf8"

	"golang.org/x/text/collate"
	"golang.org/x/text/language"

	"github.com/hsuanlin/tainan-eats-services/api/internal/public/domain"
)

// DefaultPerPage は未指定時的每頁件數。
const DefaultPerPage = 10

// StoreFinder is the query port the search service needs from the backing
// store: lexicographic range scans for prefix matching, an exact district
// lookup, and sorted offset/limit listing with a count.
type StoreFinder interface {
	FindPage(ctx context.Context, sortField string, descending bool, offset, limit int) ([]domain.Store, error)
	Count(ctx context.Context) (int, error)
	// FindByFieldRange returns stores whose field value is >= lower and,
	// when upper is non-empty, < upper.
	FindByFieldRange(ctx context.Context, field, lower, upper string) ([]domain.Store, error)
	FindByDistrict(ctx context.Context, district string) ([]domain.Store, error)
}

// Request carries free-text search parameters.
type Request struct {
	Query     string
	Page      int
	PerPage   int
	SortField string
	// SortOrder is "asc" or "desc"; anything else behaves as "asc".
	SortOrder string
}

// Response is one page of matches plus the size of the whole merged set.
type Response struct {
	Items []domain.Store
	Total int
}

// Service implements multi-field prefix search: independent prefix queries
// against name/category/address plus an exact district query, merged through
// Merge and sorted with locale-aware comparison.
type Service struct {
	finder     StoreFinder
	isDistrict func(string) bool
	collator   *collate.Collator
}

// NewService 建立搜尋服務。isDistrict 判斷輸入是否為已知行政區名稱。
func NewService(finder StoreFinder, isDistrict func(string) bool) *Service {
	return &Service{
		finder:     finder,
		isDistrict: isDistrict,
		collator:   collate.New(language.TraditionalChinese),
	}
}

// Search runs the query and returns the requested page. A failing store query
// is propagated as a hard error, distinguishable from an empty result.
func (s *Service) Search(ctx context.Context, req Request) (Response, error) {
	page := req.Page
	if page < 1 {
		page = 1
	}
	perPage := req.PerPage
	if perPage < 1 {
		perPage = DefaultPerPage
	}
	descending := strings.EqualFold(strings.TrimSpace(req.SortOrder), "desc")
	query := strings.TrimSpace(req.Query)

	if query == "" {
		total, err := s.finder.Count(ctx)
		if err != nil {
			return Response{}, fmt.Errorf("店家件數查詢失敗: %w", err)
		}
		items, err := s.finder.FindPage(ctx, req.SortField, descending, (page-1)*perPage, perPage)
		if err != nil {
			return Response{}, fmt.Errorf("店家列表查詢失敗: %w", err)
		}
		return Response{Items: items, Total: total}, nil
	}

	upper := nextPrefix(query)
	sets := make([][]domain.Store, 0, 4)
	for _, field := range []string{"name", "category", "address"} {
		matched, err := s.finder.FindByFieldRange(ctx, field, query, upper)
		if err != nil {
			return Response{}, fmt.Errorf("%s 前綴查詢失敗: %w", field, err)
		}
		sets = append(sets, matched)
	}
	if s.isDistrict != nil && s.isDistrict(query) {
		matched, err := s.finder.FindByDistrict(ctx, query)
		if err != nil {
			return Response{}, fmt.Errorf("行政區查詢失敗: %w", err)
		}
		sets = append(sets, matched)
	}

	merged := Merge(sets...)
	s.sortStores(merged, req.SortField, descending)

	total := len(merged)
	start := (page - 1) * perPage
	if start > total {
		start = total
	}
	end := start + perPage
	if end > total {
		end = total
	}
	return Response{Items: merged[start:end], Total: total}, nil
}

// sortStores orders the merged set with locale-aware string comparison.
// Equal keys keep their first-seen order from the merge step.
func (s *Service) sortStores(stores []domain.Store, sortField string, descending bool) {
	key := sortKey(sortField)
	sort.SliceStable(stores, func(i, j int) bool {
		cmp := s.collator.CompareString(key(stores[i]), key(stores[j]))
		if descending {
			return cmp > 0
		}
		return cmp < 0
	})
}

func sortKey(field string) func(domain.Store) string {
	switch strings.TrimSpace(field) {
	case "category":
		return func(s domain.Store) string { return s.Category }
	case "address":
		return func(s domain.Store) string { return s.Address }
	case "district":
		return func(s domain.Store) string { return s.District }
	default:
		return func(s domain.Store) string { return s.Name }
	}
}

// nextPrefix returns the smallest string greater than every string with the
// given prefix, for use as an exclusive range upper bound. The final code
// point is incremented; code points that cannot be incremented (max rune) are
// dropped and the carry moves left. An empty return means the range has no
// upper bound.
func nextPrefix(prefix string) string {
	runes := []rune(prefix)
	for i := len(runes) - 1; i >= 0; i-- {
		if runes[i] < utf8.MaxRune {
			runes[i] = incrementRune(runes[i])
			return string(runes[:i+1])
		}
	}
	return ""
}

// incrementRune steps past the UTF-16 surrogate block, which is not valid in
// UTF-8 strings.
func incrementRune(r rune) rune {
	if r+1 >= 0xD800 && r+1 <= 0xDFFF {
		return 0xE000
	}
	return r + 1
}
