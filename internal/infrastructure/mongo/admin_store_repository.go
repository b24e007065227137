package mongo

import (
	"context"
	"errors"
	"fmt"
	"regexp"
	"strings"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/hsuanlin/tainan-eats-services/api/internal/admin/application"
	admindomain "github.com/hsuanlin/tainan-eats-services/api/internal/admin/domain"
)

// ErrStoreExists 表示同名同行政區的店家已存在。
var ErrStoreExists = errors.New("店家已存在")

// AdminStoreRepository 是管理後台 Store 聚合的 Mongo 實作。
type AdminStoreRepository struct {
	collection *mongo.Collection
}

// NewAdminStoreRepository 綁定 MongoDB 集合並生成 AdminStoreRepository。
func NewAdminStoreRepository(db *mongo.Database, collection string) *AdminStoreRepository {
	return &AdminStoreRepository{collection: db.Collection(collection)}
}

// Find 回傳支援模糊搜尋與件數上限的管理用店家列表。
func (r *AdminStoreRepository) Find(ctx context.Context, filter application.StoreFilter, paging application.Paging) ([]admindomain.Store, error) {
	clauses := make([]bson.M, 0)
	if filter.City != "" {
		clauses = append(clauses, bson.M{"city": filter.City})
	}
	if filter.District != "" {
		clauses = append(clauses, bson.M{"district": filter.District})
	}
	if filter.Category != "" {
		clauses = append(clauses, bson.M{"category": filter.Category})
	}
	if filter.Keyword != "" {
		pattern := regexp.QuoteMeta(filter.Keyword)
		regex := primitive.Regex{Pattern: pattern, Options: "i"}
		clauses = append(clauses, bson.M{"$or": bson.A{
			bson.M{"name": regex},
			bson.M{"address": regex},
		}})
	}

	mongoFilter := bson.M{}
	if len(clauses) == 1 {
		mongoFilter = clauses[0]
	} else if len(clauses) > 1 {
		mongoFilter["$and"] = clauses
	}

	limit := filter.Limit
	if limit <= 0 {
		limit = paging.Limit
	}
	if limit <= 0 {
		limit = 20
	}
	if limit > 100 {
		limit = 100
	}

	opts := options.Find().
		SetSort(bson.D{{Key: "lastEditedAt", Value: -1}, {Key: "name", Value: 1}}).
		SetLimit(int64(limit))

	cursor, err := r.collection.Find(ctx, mongoFilter, opts)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	stores := make([]admindomain.Store, 0)
	for cursor.Next(ctx) {
		var doc StoreDocument
		if err := cursor.Decode(&doc); err != nil {
			return nil, err
		}
		store, err := mapAdminStore(doc)
		if err != nil {
			return nil, err
		}
		stores = append(stores, store)
	}
	if err := cursor.Err(); err != nil {
		return nil, err
	}
	return stores, nil
}

// FindByID 以 16 進位 ObjectID 取得單一店家並轉成值物件。
func (r *AdminStoreRepository) FindByID(ctx context.Context, id string) (*admindomain.Store, error) {
	objectID, err := primitive.ObjectIDFromHex(strings.TrimSpace(id))
	if err != nil {
		return nil, err
	}
	var doc StoreDocument
	if err := r.collection.FindOne(ctx, bson.M{"_id": objectID}).Decode(&doc); err != nil {
		return nil, err
	}
	store, err := mapAdminStore(doc)
	if err != nil {
		return nil, err
	}
	return &store, nil
}

// Create 先檢查「店名＋行政區」重複後再新增店家，並回填產生的 ID。
func (r *AdminStoreRepository) Create(ctx context.Context, store *admindomain.Store) error {
	filter := bson.M{
		"name":     strings.TrimSpace(store.Name),
		"district": store.District.String(),
	}
	if err := r.collection.FindOne(ctx, filter).Err(); err == nil {
		return ErrStoreExists
	} else if !errors.Is(err, mongo.ErrNoDocuments) {
		return err
	}
	payload, err := buildStoreDocument(store, true)
	if err != nil {
		return err
	}
	result, err := r.collection.InsertOne(ctx, payload)
	if err != nil {
		return err
	}
	if oid, ok := result.InsertedID.(primitive.ObjectID); ok {
		store.ID = oid.Hex()
	}
	return nil
}

// Update 以 ObjectID 替換店家內容，僅保存經值物件整形過的資料。
// 不存在時回傳 mongo.ErrNoDocuments。
func (r *AdminStoreRepository) Update(ctx context.Context, store *admindomain.Store) error {
	objectID, err := primitive.ObjectIDFromHex(strings.TrimSpace(store.ID))
	if err != nil {
		return err
	}
	update, err := buildStoreDocument(store, false)
	if err != nil {
		return err
	}
	result, err := r.collection.UpdateByID(ctx, objectID, bson.M{"$set": update})
	if err != nil {
		return err
	}
	if result.MatchedCount == 0 {
		return mongo.ErrNoDocuments
	}
	return nil
}

// Delete 刪除指定店家。不存在時回傳 mongo.ErrNoDocuments。
func (r *AdminStoreRepository) Delete(ctx context.Context, id string) error {
	objectID, err := primitive.ObjectIDFromHex(strings.TrimSpace(id))
	if err != nil {
		return err
	}
	result, err := r.collection.DeleteOne(ctx, bson.M{"_id": objectID})
	if err != nil {
		return err
	}
	if result.DeletedCount == 0 {
		return mongo.ErrNoDocuments
	}
	return nil
}

// mapAdminStore 將 Mongo 文件轉換為 Admin 領域的 Store。
func mapAdminStore(doc StoreDocument) (admindomain.Store, error) {
	city, err := admindomain.NewCity(doc.City)
	if err != nil {
		// Legacy records predate the city field; surface them under an
		// empty city so the admin UI can fix them.
		city = admindomain.City("")
	}
	district, err := admindomain.NewDistrict(doc.District)
	if err != nil {
		district = admindomain.District("")
	}
	category, err := admindomain.NewCategory(doc.Category)
	if err != nil {
		category = admindomain.Category("")
	}
	photos, err := admindomain.NewPhotoURLList(doc.PhotoURLs, 0)
	if err != nil {
		return admindomain.Store{}, err
	}

	var coordinates *admindomain.Coordinates
	if doc.Coordinates != nil {
		coordinates, err = admindomain.NewCoordinates(doc.Coordinates.Lat, doc.Coordinates.Lng)
		if err != nil {
			return admindomain.Store{}, err
		}
	}

	periods := make(admindomain.OpeningPeriodList, 0, len(doc.OpeningPeriods))
	for _, raw := range doc.OpeningPeriods {
		period, err := admindomain.NewOpeningPeriod(raw.Weekday, raw.Open, raw.Close)
		if err != nil {
			return admindomain.Store{}, fmt.Errorf("店家 %s 的營業時段無效: %w", doc.ID.Hex(), err)
		}
		periods = append(periods, period)
	}

	store := admindomain.Store{
		ID:             doc.ID.Hex(),
		Name:           doc.Name,
		City:           city,
		District:       district,
		Category:       category,
		Address:        doc.Address,
		Phone:          doc.Phone,
		Coordinates:    coordinates,
		PlaceID:        doc.PlaceID,
		OpeningPeriods: periods,
		PhotoURLs:      photos,
		Description:    doc.Description,
	}
	if doc.LastEditedAt != nil {
		store.LastEditedAt = *doc.LastEditedAt
	}
	if doc.CreatedAt != nil {
		store.CreatedAt = *doc.CreatedAt
	}
	return store, nil
}

// buildStoreDocument 將 Store 聚合展開為 Mongo 用 BSON。lastEditedAt 由
// 伺服器在此指派，作為列表預設排序的依據。
func buildStoreDocument(store *admindomain.Store, includeCreated bool) (bson.M, error) {
	if store == nil {
		return nil, fmt.Errorf("store payload is nil")
	}

	periods := make([]OpeningPeriodDocument, 0, len(store.OpeningPeriods))
	for _, period := range store.OpeningPeriods {
		periods = append(periods, OpeningPeriodDocument{
			Weekday: int(period.Weekday),
			Open:    period.Open,
			Close:   period.Close,
		})
	}

	payload := bson.M{
		"name":           strings.TrimSpace(store.Name),
		"city":           store.City.String(),
		"district":       store.District.String(),
		"category":       store.Category.String(),
		"address":        strings.TrimSpace(store.Address),
		"phone":          strings.TrimSpace(store.Phone),
		"placeId":        strings.TrimSpace(store.PlaceID),
		"openingPeriods": periods,
		"photoURLs":      store.PhotoURLs.Strings(),
		"description":    store.Description,
		"lastEditedAt":   time.Now().UTC(),
	}
	if store.Coordinates != nil {
		payload["coordinates"] = CoordinatesDocument{Lat: store.Coordinates.Lat, Lng: store.Coordinates.Lng}
	}
	if includeCreated {
		payload["createdAt"] = time.Now().UTC()
	}
	return payload, nil
}
