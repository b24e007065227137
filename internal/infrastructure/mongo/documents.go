package mongo

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// StoreDocument 是 MongoDB 上店家結構的 Go 表現。
type StoreDocument struct {
	ID             primitive.ObjectID      `bson:"_id"`
	Name           string                  `bson:"name"`
	City           string                  `bson:"city,omitempty"`
	District       string                  `bson:"district,omitempty"`
	Category       string                  `bson:"category,omitempty"`
	Address        string                  `bson:"address,omitempty"`
	Phone          string                  `bson:"phone,omitempty"`
	Coordinates    *CoordinatesDocument    `bson:"coordinates,omitempty"`
	PlaceID        string                  `bson:"placeId,omitempty"`
	OpeningPeriods []OpeningPeriodDocument `bson:"openingPeriods,omitempty"`
	PhotoURLs      []string                `bson:"photoURLs,omitempty"`
	Description    string                  `bson:"description,omitempty"`
	LastEditedAt   *time.Time              `bson:"lastEditedAt,omitempty"`
	CreatedAt      *time.Time              `bson:"createdAt,omitempty"`
}

// CoordinatesDocument 為內嵌的座標欄位。缺少座標的店家不寫入本欄位。
type CoordinatesDocument struct {
	Lat float64 `bson:"lat"`
	Lng float64 `bson:"lng"`
}

// OpeningPeriodDocument 為週間營業時段的內嵌文件。
type OpeningPeriodDocument struct {
	Weekday int    `bson:"weekday"`
	Open    string `bson:"open"`
	Close   string `bson:"close"`
}
