package bot

import (
	"context"
	"io"
	"log"
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"

	publicapp "github.com/hsuanlin/tainan-eats-services/api/internal/public/application"
	publicdomain "github.com/hsuanlin/tainan-eats-services/api/internal/public/domain"
	"github.com/hsuanlin/tainan-eats-services/api/internal/recommend"
)

type fakeStoreQueries struct {
	stores []publicdomain.Store
	err    error
}

func (f *fakeStoreQueries) List(context.Context, publicapp.StoreFilter, publicapp.Paging) ([]publicdomain.Store, error) {
	return nil, nil
}

func (f *fakeStoreQueries) Detail(context.Context, string) (*publicdomain.Store, error) {
	return nil, nil
}

func (f *fakeStoreQueries) All(context.Context) ([]publicdomain.Store, error) {
	return f.stores, f.err
}

type fakeDetailProvider struct {
	open bool
}

func (f *fakeDetailProvider) Details(context.Context, string) (*recommend.PlaceDetails, error) {
	open := f.open
	return &recommend.PlaceDetails{OpenNow: &open}, nil
}

func newBotHandler(queries publicapp.StoreQueryService, enricher recommend.Enricher) *Handler {
	logger := log.New(io.Discard, "", 0)
	return NewHandler(Config{
		Logger:       logger,
		StoreQueries: queries,
		Selector:     recommend.NewSelector(enricher, rand.New(rand.NewSource(1)), logger),
		Filter:       recommend.Filter{DefaultCity: "台南市"},
		DefaultCity:  "台南市",
	})
}

func botStore(name, district string) publicdomain.Store {
	return publicdomain.Store{
		ID:       name,
		Name:     name,
		City:     "台南市",
		District: district,
		Category: "小吃",
		PlaceID:  "place-" + name,
	}
}

func TestBuildReply(t *testing.T) {
	ctx := context.Background()

	t.Run("無效行政區回覆使用說明", func(t *testing.T) {
		h := newBotHandler(&fakeStoreQueries{}, nil)
		reply := h.buildReply(ctx, command{District: "信義區"})
		assert.Equal(t, usageMessage, reply)
	})

	t.Run("行政區內查無店家", func(t *testing.T) {
		queries := &fakeStoreQueries{stores: []publicdomain.Store{botStore("阿堂鹹粥", "中西區")}}
		h := newBotHandler(queries, &fakeDetailProvider{open: true})
		reply := h.buildReply(ctx, command{District: "東區"})
		assert.Contains(t, reply, "東區目前還沒有店家資料")
	})

	t.Run("有店家但都已打烊", func(t *testing.T) {
		queries := &fakeStoreQueries{stores: []publicdomain.Store{
			botStore("阿堂鹹粥", "中西區"),
			botStore("福記肉圓", "中西區"),
		}}
		h := newBotHandler(queries, &fakeDetailProvider{open: false})
		reply := h.buildReply(ctx, command{District: "中西區"})
		assert.Contains(t, reply, "中西區的店家目前都沒有營業")
	})

	t.Run("推薦營業中店家", func(t *testing.T) {
		queries := &fakeStoreQueries{stores: []publicdomain.Store{botStore("阿堂鹹粥", "中西區")}}
		h := newBotHandler(queries, &fakeDetailProvider{open: true})
		reply := h.buildReply(ctx, command{District: "中西區"})
		assert.Contains(t, reply, "中西區的推薦店家")
		assert.Contains(t, reply, "阿堂鹹粥")
	})
}
