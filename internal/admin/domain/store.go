package domain

import "time"

// Store aggregates data required for admin curation, with inputs normalised
// through the value objects in this package.
type Store struct {
	ID             string
	Name           string
	City           City
	District       District
	Category       Category
	Address        string
	Phone          string
	Coordinates    *Coordinates
	PlaceID        string
	OpeningPeriods OpeningPeriodList
	PhotoURLs      PhotoURLList
	Description    string
	LastEditedAt   time.Time
	CreatedAt      time.Time
}
