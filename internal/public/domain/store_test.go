package domain

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestIsOpenAt(t *testing.T) {
	lunch := OpeningPeriod{Weekday: time.Monday, Open: "11:00", Close: "14:00"}
	overnight := OpeningPeriod{Weekday: time.Friday, Open: "22:00", Close: "02:00"}

	monday := func(hour, minute int) time.Time {
		return time.Date(2026, 8, 31, hour, minute, 0, 0, time.UTC)
	}
	friday := func(hour, minute int) time.Time {
		return time.Date(2026, 9, 4, hour, minute, 0, 0, time.UTC)
	}
	saturday := func(hour, minute int) time.Time {
		return time.Date(2026, 9, 5, hour, minute, 0, 0, time.UTC)
	}

	tests := []struct {
		name    string
		periods []OpeningPeriod
		at      time.Time
		want    bool
	}{
		{name: "營業時段內", periods: []OpeningPeriod{lunch}, at: monday(12, 30), want: true},
		{name: "開店時刻", periods: []OpeningPeriod{lunch}, at: monday(11, 0), want: true},
		{name: "打烊時刻不算營業", periods: []OpeningPeriod{lunch}, at: monday(14, 0), want: false},
		{name: "開店前", periods: []OpeningPeriod{lunch}, at: monday(10, 59), want: false},
		{name: "星期不符", periods: []OpeningPeriod{lunch}, at: friday(12, 0), want: false},
		{name: "跨夜前半", periods: []OpeningPeriod{overnight}, at: friday(23, 30), want: true},
		{name: "跨夜後半落在隔天", periods: []OpeningPeriod{overnight}, at: saturday(1, 30), want: true},
		{name: "跨夜打烊後", periods: []OpeningPeriod{overnight}, at: saturday(2, 0), want: false},
		{name: "無時段一律打烊", periods: nil, at: monday(12, 0), want: false},
		{name: "時段格式錯誤視為打烊", periods: []OpeningPeriod{{Weekday: time.Monday, Open: "11時", Close: "14:00"}}, at: monday(12, 0), want: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			store := Store{OpeningPeriods: tt.periods}
			assert.Equal(t, tt.want, store.IsOpenAt(tt.at))
		})
	}
}

func TestHasCoordinates(t *testing.T) {
	assert.False(t, Store{}.HasCoordinates())
	assert.True(t, Store{Coordinates: &Coordinates{Lat: 23.0, Lng: 120.2}}.HasCoordinates())
}
