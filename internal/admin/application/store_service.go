package application

import (
	"context"

	admindomain "github.com/hsuanlin/tainan-eats-services/api/internal/admin/domain"
)

const maxStorePhotos = 10

// storeService implements StoreService.
type storeService struct {
	repo StoreRepository
}

func NewStoreService(repo StoreRepository) StoreService {
	return &storeService{repo: repo}
}

func (s *storeService) List(ctx context.Context, filter StoreFilter, paging Paging) ([]admindomain.Store, error) {
	return s.repo.Find(ctx, filter, paging)
}

func (s *storeService) Detail(ctx context.Context, id string) (*admindomain.Store, error) {
	return s.repo.FindByID(ctx, id)
}

func (s *storeService) Create(ctx context.Context, cmd UpsertStoreCommand) (*admindomain.Store, error) {
	store, err := buildStore("", cmd)
	if err != nil {
		return nil, err
	}
	if err := s.repo.Create(ctx, store); err != nil {
		return nil, err
	}
	return store, nil
}

func (s *storeService) Update(ctx context.Context, id string, cmd UpsertStoreCommand) (*admindomain.Store, error) {
	store, err := buildStore(id, cmd)
	if err != nil {
		return nil, err
	}
	if err := s.repo.Update(ctx, store); err != nil {
		return nil, err
	}
	return store, nil
}

func (s *storeService) Delete(ctx context.Context, id string) error {
	return s.repo.Delete(ctx, id)
}

// buildStore 透過值物件驗證指令內容並組成 Store 聚合。
func buildStore(id string, cmd UpsertStoreCommand) (*admindomain.Store, error) {
	city, err := admindomain.NewCity(cmd.City)
	if err != nil {
		return nil, err
	}
	district, err := admindomain.NewDistrict(cmd.District)
	if err != nil {
		return nil, err
	}
	category, err := admindomain.NewCategory(cmd.Category)
	if err != nil {
		return nil, err
	}
	photos, err := admindomain.NewPhotoURLList(cmd.PhotoURLs, maxStorePhotos)
	if err != nil {
		return nil, err
	}

	var coordinates *admindomain.Coordinates
	if cmd.Coordinates != nil {
		coordinates, err = admindomain.NewCoordinates(cmd.Coordinates.Lat, cmd.Coordinates.Lng)
		if err != nil {
			return nil, err
		}
	}

	periods := make(admindomain.OpeningPeriodList, 0, len(cmd.OpeningPeriods))
	for _, raw := range cmd.OpeningPeriods {
		period, err := admindomain.NewOpeningPeriod(raw.Weekday, raw.Open, raw.Close)
		if err != nil {
			return nil, err
		}
		periods = append(periods, period)
	}

	return &admindomain.Store{
		ID:             id,
		Name:           cmd.Name,
		City:           city,
		District:       district,
		Category:       category,
		Address:        cmd.Address,
		Phone:          cmd.Phone,
		Coordinates:    coordinates,
		PlaceID:        cmd.PlaceID,
		OpeningPeriods: periods,
		PhotoURLs:      photos,
		Description:    cmd.Description,
	}, nil
}
