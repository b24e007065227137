package domain

import (
	"strconv"
	"strings"
	"time"
)

// Store represents a publicly visible restaurant entity.
type Store struct {
	ID             string
	Name           string
	City           string
	District       string
	Category       string
	Address        string
	Phone          string
	Coordinates    *Coordinates
	PlaceID        string
	OpeningPeriods []OpeningPeriod
	PhotoURLs      []string
	Description    string
	LastEditedAt   time.Time
}

// Coordinates is a WGS84 latitude/longitude pair.
type Coordinates struct {
	Lat float64
	Lng float64
}

// OpeningPeriod は週間營業時段中的一段。Open/Close 為 "HH:MM" 格式，
// Close 小於等於 Open 時視為跨夜營業。
type OpeningPeriod struct {
	Weekday time.Weekday
	Open    string
	Close   string
}

// HasCoordinates reports whether the store can participate in spatial
// operations. Stores without coordinates are filtered out upstream and must
// never reach a distance computation.
func (s Store) HasCoordinates() bool {
	return s.Coordinates != nil
}

// IsOpenAt 依週間營業時段判斷指定時刻是否營業中。
// 未登錄任何時段時一律回傳 false。
func (s Store) IsOpenAt(t time.Time) bool {
	if len(s.OpeningPeriods) == 0 {
		return false
	}
	minutes := t.Hour()*60 + t.Minute()
	for _, period := range s.OpeningPeriods {
		open, okOpen := parseClock(period.Open)
		closeAt, okClose := parseClock(period.Close)
		if !okOpen || !okClose {
			continue
		}
		if closeAt > open {
			if period.Weekday == t.Weekday() && minutes >= open && minutes < closeAt {
				return true
			}
			continue
		}
		// Overnight period: the tail belongs to the following weekday.
		if period.Weekday == t.Weekday() && minutes >= open {
			return true
		}
		if nextWeekday(period.Weekday) == t.Weekday() && minutes < closeAt {
			return true
		}
	}
	return false
}

func nextWeekday(d time.Weekday) time.Weekday {
	return time.Weekday((int(d) + 1) % 7)
}

func parseClock(value string) (int, bool) {
	parts := strings.SplitN(strings.TrimSpace(value), ":", 2)
	if len(parts) != 2 {
		return 0, false
	}
	hour, err := strconv.Atoi(parts[0])
	if err != nil || hour < 0 || hour > 23 {
		return 0, false
	}
	minute, err := strconv.Atoi(parts[1])
	if err != nil || minute < 0 || minute > 59 {
		return 0, false
	}
	return hour*60 + minute, true
}
