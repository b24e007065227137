package domain

import (
	"fmt"
	"net/url"
	"regexp"
	"strings"
	"time"
)

var clockPattern = regexp.MustCompile(`^([01][0-9]|2[0-3]):[0-5][0-9]$`)

type City string

func NewCity(value string) (City, error) {
	trimmed := strings.TrimSpace(value)
	if trimmed == "" {
		return "", fmt.Errorf("城市為必填")
	}
	return City(trimmed), nil
}

func (c City) String() string {
	return string(c)
}

type District string

func NewDistrict(value string) (District, error) {
	trimmed := strings.TrimSpace(value)
	if trimmed == "" {
		return "", fmt.Errorf("行政區為必填")
	}
	return District(trimmed), nil
}

func (d District) String() string {
	return string(d)
}

type Category string

func NewCategory(value string) (Category, error) {
	trimmed := strings.TrimSpace(value)
	if trimmed == "" {
		return "", fmt.Errorf("分類為必填")
	}
	return Category(trimmed), nil
}

func (c Category) String() string {
	return string(c)
}

// Coordinates 驗證後的座標。缺少座標的店家以 nil 表示，不得出現 (0,0) 假值。
type Coordinates struct {
	Lat float64
	Lng float64
}

func NewCoordinates(lat, lng float64) (*Coordinates, error) {
	if lat < -90 || lat > 90 {
		return nil, fmt.Errorf("緯度超出範圍: %f", lat)
	}
	if lng < -180 || lng > 180 {
		return nil, fmt.Errorf("經度超出範圍: %f", lng)
	}
	return &Coordinates{Lat: lat, Lng: lng}, nil
}

// OpeningPeriod 為驗證後的單一營業時段。
type OpeningPeriod struct {
	Weekday time.Weekday
	Open    string
	Close   string
}

func NewOpeningPeriod(weekday int, open, close string) (OpeningPeriod, error) {
	if weekday < 0 || weekday > 6 {
		return OpeningPeriod{}, fmt.Errorf("星期值無效: %d", weekday)
	}
	open = strings.TrimSpace(open)
	close = strings.TrimSpace(close)
	if !clockPattern.MatchString(open) {
		return OpeningPeriod{}, fmt.Errorf("開始時間格式無效: %s", open)
	}
	if !clockPattern.MatchString(close) {
		return OpeningPeriod{}, fmt.Errorf("結束時間格式無效: %s", close)
	}
	return OpeningPeriod{Weekday: time.Weekday(weekday), Open: open, Close: close}, nil
}

type OpeningPeriodList []OpeningPeriod

// URL 為通過格式檢查的網址，空字串視為未填。
type URL string

func NewURL(value string) (URL, error) {
	trimmed := strings.TrimSpace(value)
	if trimmed == "" {
		return "", nil
	}
	if _, err := url.ParseRequestURI(trimmed); err != nil {
		return "", fmt.Errorf("網址無效: %w", err)
	}
	return URL(trimmed), nil
}

func (u URL) String() string {
	return string(u)
}

type PhotoURL string

func NewPhotoURL(value string) (PhotoURL, error) {
	u, err := NewURL(value)
	if err != nil {
		return "", fmt.Errorf("照片網址無效: %w", err)
	}
	if u == "" {
		return "", fmt.Errorf("照片網址為必填")
	}
	return PhotoURL(u), nil
}

func (u PhotoURL) String() string {
	return string(u)
}

type PhotoURLList []PhotoURL

func NewPhotoURLList(values []string, limit int) (PhotoURLList, error) {
	if len(values) == 0 {
		return nil, nil
	}
	if limit > 0 && len(values) > limit {
		return nil, fmt.Errorf("照片數量不可超過 %d 張", limit)
	}
	result := make([]PhotoURL, 0, len(values))
	for _, raw := range values {
		urlValue, err := NewPhotoURL(raw)
		if err != nil {
			return nil, err
		}
		result = append(result, urlValue)
	}
	return PhotoURLList(result), nil
}

func (l PhotoURLList) Strings() []string {
	result := make([]string, 0, len(l))
	for _, v := range l {
		result = append(result, string(v))
	}
	return result
}
