package mongo

import (
	"context"
	"fmt"
	"regexp"
	"strings"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/hsuanlin/tainan-eats-services/api/internal/public/application"
	"github.com/hsuanlin/tainan-eats-services/api/internal/public/domain"
)

// searchableFields are the document fields the prefix-search port may range
// over. Anything else is rejected before it reaches the database.
var searchableFields = map[string]string{
	"name":     "name",
	"category": "category",
	"address":  "address",
}

// StoreRepository implements application.StoreRepository and the search
// service's StoreFinder port using MongoDB.
type StoreRepository struct {
	collection *mongo.Collection
}

// NewStoreRepository creates a new Mongo-backed store repository.
func NewStoreRepository(db *mongo.Database, collectionName string) *StoreRepository {
	return &StoreRepository{collection: db.Collection(collectionName)}
}

// Find returns stores filtered according to the provided criteria, sorted by
// last edit (newest first) unless the paging sort key says otherwise.
func (r *StoreRepository) Find(ctx context.Context, filter application.StoreFilter, paging application.Paging) ([]domain.Store, error) {
	mongoFilter := bson.M{}
	if filter.City != "" {
		mongoFilter["city"] = strings.TrimSpace(filter.City)
	}
	if filter.District != "" {
		mongoFilter["district"] = strings.TrimSpace(filter.District)
	}
	if filter.Category != "" {
		mongoFilter["category"] = strings.TrimSpace(filter.Category)
	}
	if filter.Keyword != "" {
		pattern := regexp.QuoteMeta(filter.Keyword)
		regex := primitive.Regex{Pattern: pattern, Options: "i"}
		mongoFilter["$or"] = bson.A{
			bson.M{"name": regex},
			bson.M{"address": regex},
		}
	}

	opts := options.Find().SetSort(listSort(paging.Sort))
	cursor, err := r.collection.Find(ctx, mongoFilter, opts)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	return decodeStores(ctx, cursor)
}

// FindByID returns a single store by its identifier.
func (r *StoreRepository) FindByID(ctx context.Context, id string) (*domain.Store, error) {
	objectID, err := primitive.ObjectIDFromHex(strings.TrimSpace(id))
	if err != nil {
		return nil, err
	}
	var doc StoreDocument
	if err := r.collection.FindOne(ctx, bson.M{"_id": objectID}).Decode(&doc); err != nil {
		return nil, err
	}
	store := mapStoreDocument(doc)
	return &store, nil
}

// FindAll returns the whole catalog as the recommendation candidate pool.
func (r *StoreRepository) FindAll(ctx context.Context) ([]domain.Store, error) {
	cursor, err := r.collection.Find(ctx, bson.M{})
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	return decodeStores(ctx, cursor)
}

// FindPage returns one repository-side sorted page for the empty-query
// listing path of the search service.
func (r *StoreRepository) FindPage(ctx context.Context, sortField string, descending bool, offset, limit int) ([]domain.Store, error) {
	direction := 1
	if descending {
		direction = -1
	}
	field, ok := searchableFields[strings.TrimSpace(sortField)]
	if !ok {
		field = "name"
	}

	opts := options.Find().
		SetSort(bson.D{{Key: field, Value: direction}}).
		SetSkip(int64(offset)).
		SetLimit(int64(limit))
	cursor, err := r.collection.Find(ctx, bson.M{}, opts)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	return decodeStores(ctx, cursor)
}

// Count returns the total number of stores.
func (r *StoreRepository) Count(ctx context.Context) (int, error) {
	count, err := r.collection.CountDocuments(ctx, bson.M{})
	return int(count), err
}

// FindByFieldRange 以字典序範圍（>= lower、< upper）查詢指定欄位，
// 供前綴搜尋使用。upper 為空字串時不設上界。
func (r *StoreRepository) FindByFieldRange(ctx context.Context, field, lower, upper string) ([]domain.Store, error) {
	column, ok := searchableFields[strings.TrimSpace(field)]
	if !ok {
		return nil, fmt.Errorf("不支援的搜尋欄位: %s", field)
	}

	bound := bson.M{"$gte": lower}
	if upper != "" {
		bound["$lt"] = upper
	}
	cursor, err := r.collection.Find(ctx, bson.M{column: bound})
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	return decodeStores(ctx, cursor)
}

// FindByDistrict returns stores whose district exactly equals the label.
func (r *StoreRepository) FindByDistrict(ctx context.Context, district string) ([]domain.Store, error) {
	cursor, err := r.collection.Find(ctx, bson.M{"district": strings.TrimSpace(district)})
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	return decodeStores(ctx, cursor)
}

func decodeStores(ctx context.Context, cursor *mongo.Cursor) ([]domain.Store, error) {
	stores := make([]domain.Store, 0)
	for cursor.Next(ctx) {
		var doc StoreDocument
		if err := cursor.Decode(&doc); err != nil {
			return nil, err
		}
		stores = append(stores, mapStoreDocument(doc))
	}
	if err := cursor.Err(); err != nil {
		return nil, err
	}
	return stores, nil
}

func listSort(sortKey string) bson.D {
	switch sortKey {
	case "name":
		return bson.D{{Key: "name", Value: 1}}
	default:
		return bson.D{{Key: "lastEditedAt", Value: -1}}
	}
}

// mapStoreDocument 將 Mongo 文件轉換為 Public 領域的 Store。
func mapStoreDocument(doc StoreDocument) domain.Store {
	lastEdited := time.Time{}
	if doc.LastEditedAt != nil {
		lastEdited = *doc.LastEditedAt
	} else if doc.CreatedAt != nil {
		lastEdited = *doc.CreatedAt
	}

	var coordinates *domain.Coordinates
	if doc.Coordinates != nil {
		coordinates = &domain.Coordinates{Lat: doc.Coordinates.Lat, Lng: doc.Coordinates.Lng}
	}

	periods := make([]domain.OpeningPeriod, 0, len(doc.OpeningPeriods))
	for _, period := range doc.OpeningPeriods {
		periods = append(periods, domain.OpeningPeriod{
			Weekday: time.Weekday(period.Weekday % 7),
			Open:    period.Open,
			Close:   period.Close,
		})
	}

	return domain.Store{
		ID:             doc.ID.Hex(),
		Name:           doc.Name,
		City:           doc.City,
		District:       doc.District,
		Category:       doc.Category,
		Address:        doc.Address,
		Phone:          doc.Phone,
		Coordinates:    coordinates,
		PlaceID:        doc.PlaceID,
		OpeningPeriods: periods,
		PhotoURLs:      append([]string{}, doc.PhotoURLs...),
		Description:    doc.Description,
		LastEditedAt:   lastEdited,
	}
}
