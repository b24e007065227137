package application

import (
	"context"

	admindomain "github.com/hsuanlin/tainan-eats-services/api/internal/admin/domain"
)

// StoreRepository exposes admin operations on stores.
type StoreRepository interface {
	Find(ctx context.Context, filter StoreFilter, paging Paging) ([]admindomain.Store, error)
	FindByID(ctx context.Context, id string) (*admindomain.Store, error)
	Create(ctx context.Context, store *admindomain.Store) error
	Update(ctx context.Context, store *admindomain.Store) error
	Delete(ctx context.Context, id string) error
}

// StoreFilter expresses admin search criteria.
type StoreFilter struct {
	City     string
	District string
	Category string
	Keyword  string
	Limit    int
}

// Paging controls pagination.
type Paging struct {
	Page  int
	Limit int
	Sort  string
}

// StoreService describes admin store use-cases.
type StoreService interface {
	List(ctx context.Context, filter StoreFilter, paging Paging) ([]admindomain.Store, error)
	Detail(ctx context.Context, id string) (*admindomain.Store, error)
	Create(ctx context.Context, cmd UpsertStoreCommand) (*admindomain.Store, error)
	Update(ctx context.Context, id string, cmd UpsertStoreCommand) (*admindomain.Store, error)
	Delete(ctx context.Context, id string) error
}

// UpsertStoreCommand contains inputs for creating/updating stores.
type UpsertStoreCommand struct {
	Name           string
	City           string
	District       string
	Category       string
	Address        string
	Phone          string
	Coordinates    *CoordinatesCommand
	PlaceID        string
	OpeningPeriods []OpeningPeriodCommand
	PhotoURLs      []string
	Description    string
}

// CoordinatesCommand is a raw latitude/longitude pair from the request.
type CoordinatesCommand struct {
	Lat float64
	Lng float64
}

// OpeningPeriodCommand is one raw weekly opening period from the request.
type OpeningPeriodCommand struct {
	Weekday int
	Open    string
	Close   string
}
