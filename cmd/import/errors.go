package main

import (
	"errors"
	"fmt"
)

var errEmptyName = errors.New("店名為空")

func errBadDistrict(district string) error {
	return fmt.Errorf("無效的行政區: %s", district)
}

func errBadCoordinates(lat, lng string) error {
	return fmt.Errorf("座標格式無效: lat=%s lng=%s", lat, lng)
}
