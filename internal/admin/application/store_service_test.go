package application

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/mongo"

	admindomain "github.com/hsuanlin/tainan-eats-services/api/internal/admin/domain"
)

type fakeStoreRepository struct {
	createdID string
	updateErr error
	lastSaved *admindomain.Store
}

func (f *fakeStoreRepository) Find(context.Context, StoreFilter, Paging) ([]admindomain.Store, error) {
	return nil, nil
}

func (f *fakeStoreRepository) FindByID(context.Context, string) (*admindomain.Store, error) {
	return nil, nil
}

func (f *fakeStoreRepository) Create(_ context.Context, store *admindomain.Store) error {
	store.ID = f.createdID
	f.lastSaved = store
	return nil
}

func (f *fakeStoreRepository) Update(_ context.Context, store *admindomain.Store) error {
	f.lastSaved = store
	return f.updateErr
}

func (f *fakeStoreRepository) Delete(context.Context, string) error {
	return nil
}

func validCommand() UpsertStoreCommand {
	return UpsertStoreCommand{
		Name:     "阿堂鹹粥",
		City:     "台南市",
		District: "中西區",
		Category: "小吃",
		Address:  "台南市中西區西門路一段728號",
	}
}

// 新增後回傳的店家要帶出儲存層配發的 ID，後台介面才能直接導到編輯頁。
func TestStoreServiceCreateReturnsAssignedID(t *testing.T) {
	repo := &fakeStoreRepository{createdID: "66f0a1b2c3d4e5f6a7b8c9d0"}
	service := NewStoreService(repo)

	store, err := service.Create(context.Background(), validCommand())

	require.NoError(t, err)
	assert.Equal(t, "66f0a1b2c3d4e5f6a7b8c9d0", store.ID)
	assert.Equal(t, "阿堂鹹粥", store.Name)
}

func TestStoreServiceUpdateMissingStore(t *testing.T) {
	repo := &fakeStoreRepository{updateErr: mongo.ErrNoDocuments}
	service := NewStoreService(repo)

	_, err := service.Update(context.Background(), "66f0a1b2c3d4e5f6a7b8c9d0", validCommand())

	assert.ErrorIs(t, err, mongo.ErrNoDocuments)
}
