package application

import (
	"context"

	"github.com/hsuanlin/tainan-eats-services/api/internal/public/domain"
)

// StoreRepository abstracts read access to stores.
// StoreRepository 是 Public 情境下讀取店家的馬路（port）。
type StoreRepository interface {
	Find(ctx context.Context, filter StoreFilter, paging Paging) ([]domain.Store, error)
	FindByID(ctx context.Context, id string) (*domain.Store, error)
	// FindAll returns the whole catalog snapshot used as the recommendation
	// candidate pool. Filtering happens in-memory so legacy records without a
	// city field still participate.
	FindAll(ctx context.Context) ([]domain.Store, error)
}

// StoreFilter expresses search criteria for stores.
type StoreFilter struct {
	City     string
	District string
	Category string
	Keyword  string
}

// Paging controls pagination.
type Paging struct {
	Page  int
	Limit int
	Sort  string
}

// StoreQueryService describes read use-cases.
// StoreQueryService 提供店家相關的查詢用例。
type StoreQueryService interface {
	List(ctx context.Context, filter StoreFilter, paging Paging) ([]domain.Store, error)
	Detail(ctx context.Context, id string) (*domain.Store, error)
	All(ctx context.Context) ([]domain.Store, error)
}
