package main

import (
	"context"
	"encoding/csv"
	"flag"
	"io"
	"log"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	mongodoc "github.com/hsuanlin/tainan-eats-services/api/internal/infrastructure/mongo"
	"github.com/hsuanlin/tainan-eats-services/api/internal/interfaces/http/common"
)

// insertChunkSize 限制單次 InsertMany 的件數，避免超過 BSON 批次上限。
const insertChunkSize = 490

type importOptions struct {
	filePath string
	drop     bool
}

func main() {
	opts := parseFlags()
	_ = godotenv.Load()

	logger := log.New(os.Stdout, "[tainan-eats-import] ", log.LstdFlags)

	mongoURI := envOrDefault("MONGO_URI", "mongodb://localhost:27017")
	dbName := envOrDefault("MONGO_DB", "tainan-eats")
	collectionName := envOrDefault("STORE_COLLECTION", "stores")
	defaultCity := envOrDefault("DEFAULT_CITY", "台南市")

	file, err := os.Open(opts.filePath)
	if err != nil {
		logger.Fatalf("開啟 CSV 檔失敗: %v", err)
	}
	defer file.Close()

	docs, skipped := readStoreDocuments(logger, file, defaultCity)
	if len(docs) == 0 {
		logger.Fatal("CSV 內沒有可匯入的店家資料")
	}
	logger.Printf("讀入 %d 筆店家，略過 %d 筆", len(docs), skipped)

	ctx, cancel := context.WithTimeout(context.Background(), 60*time.Second)
	defer cancel()

	client, err := mongo.Connect(ctx, options.Client().ApplyURI(mongoURI))
	if err != nil {
		logger.Fatalf("MongoDB 連線失敗: %v", err)
	}
	defer func() {
		_ = client.Disconnect(context.Background())
	}()

	collection := client.Database(dbName).Collection(collectionName)

	if opts.drop {
		if err := collection.Drop(ctx); err != nil {
			logger.Fatalf("刪除既有 collection 失敗: %v", err)
		}
		logger.Printf("已刪除既有 collection %s", collectionName)
	}

	if err := ensureIndexes(ctx, collection); err != nil {
		logger.Fatalf("建立索引失敗: %v", err)
	}

	inserted := insertInChunks(ctx, logger, collection, docs)
	logger.Printf("匯入完成: 成功 %d / %d 筆", inserted, len(docs))
}

func parseFlags() importOptions {
	opts := importOptions{}
	flag.StringVar(&opts.filePath, "file", "stores.csv", "店家 CSV 檔路徑")
	flag.BoolVar(&opts.drop, "drop", false, "匯入前刪除既有 collection")
	flag.Parse()
	return opts
}

// readStoreDocuments 逐列讀取 CSV 並轉成店家文件。
// 欄位順序: name, city, district, category, address, phone, lat, lng, placeId, description。
// 格式錯誤的列記錄後跳過，不中斷整批匯入。
func readStoreDocuments(logger *log.Logger, r io.Reader, defaultCity string) ([]any, int) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1

	docs := make([]any, 0, 256)
	skipped := 0
	line := 0
	for {
		record, err := reader.Read()
		if err == io.EOF {
			break
		}
		line++
		if err != nil {
			logger.Printf("第 %d 列讀取失敗，跳過: %v", line, err)
			skipped++
			continue
		}
		if line == 1 && strings.EqualFold(strings.TrimSpace(record[0]), "name") {
			continue
		}
		if len(record) < 5 {
			logger.Printf("第 %d 列欄位不足，跳過", line)
			skipped++
			continue
		}

		doc, err := buildDocument(record, defaultCity)
		if err != nil {
			logger.Printf("第 %d 列資料無效，跳過: %v", line, err)
			skipped++
			continue
		}
		docs = append(docs, doc)
	}
	return docs, skipped
}

func buildDocument(record []string, defaultCity string) (mongodoc.StoreDocument, error) {
	field := func(i int) string {
		if i < len(record) {
			return strings.TrimSpace(record[i])
		}
		return ""
	}

	name := field(0)
	if name == "" {
		return mongodoc.StoreDocument{}, errEmptyName
	}

	city := field(1)
	if city == "" {
		city = defaultCity
	}

	district := field(2)
	if district != "" && !common.ValidDistrict(city, district) {
		return mongodoc.StoreDocument{}, errBadDistrict(district)
	}

	category := field(3)
	if category != "" {
		normalized, err := common.NormalizeCategory(category)
		if err != nil {
			return mongodoc.StoreDocument{}, err
		}
		category = normalized
	}

	now := time.Now().UTC()
	doc := mongodoc.StoreDocument{
		ID:           primitive.NewObjectID(),
		Name:         name,
		City:         city,
		District:     district,
		Category:     category,
		Address:      field(4),
		Phone:        field(5),
		PlaceID:      field(8),
		Description:  field(9),
		LastEditedAt: &now,
		CreatedAt:    &now,
	}

	latRaw, lngRaw := field(6), field(7)
	if latRaw != "" && lngRaw != "" {
		lat, latErr := strconv.ParseFloat(latRaw, 64)
		lng, lngErr := strconv.ParseFloat(lngRaw, 64)
		if latErr != nil || lngErr != nil || lat < -90 || lat > 90 || lng < -180 || lng > 180 {
			return mongodoc.StoreDocument{}, errBadCoordinates(latRaw, lngRaw)
		}
		doc.Coordinates = &mongodoc.CoordinatesDocument{Lat: lat, Lng: lng}
	}

	return doc, nil
}

// insertInChunks 分批寫入。單批失敗時記錄錯誤並繼續下一批。
func insertInChunks(ctx context.Context, logger *log.Logger, collection *mongo.Collection, docs []any) int {
	inserted := 0
	for start := 0; start < len(docs); start += insertChunkSize {
		end := start + insertChunkSize
		if end > len(docs) {
			end = len(docs)
		}
		result, err := collection.InsertMany(ctx, docs[start:end], options.InsertMany().SetOrdered(false))
		if result != nil {
			inserted += len(result.InsertedIDs)
		}
		if err != nil {
			logger.Printf("第 %d〜%d 筆批次寫入失敗: %v", start+1, end, err)
		}
	}
	return inserted
}

func ensureIndexes(ctx context.Context, collection *mongo.Collection) error {
	models := []mongo.IndexModel{
		{Keys: bson.D{{Key: "name", Value: 1}, {Key: "district", Value: 1}}},
		{Keys: bson.D{{Key: "district", Value: 1}}},
		{Keys: bson.D{{Key: "category", Value: 1}}},
	}
	_, err := collection.Indexes().CreateMany(ctx, models)
	return err
}

func envOrDefault(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
