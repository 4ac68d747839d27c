package domain

import "time"

// Coordinates is a WGS84 position.
type Coordinates struct {
	Latitude  float64 `json:"latitude"`
	Longitude float64 `json:"longitude"`
}

// FoodVendor is a restaurant or food stall shown in recommendation lists.
// Distance is in metres from the user's current position.
type FoodVendor struct {
	ID                   string       `json:"id"`
	Name                 string       `json:"name"`
	Rating               float64      `json:"rating"`
	Address              string       `json:"address"`
	Phone                *string      `json:"phone,omitempty"`
	Images               []string     `json:"images,omitempty"`
	Categories           []string     `json:"categories"`
	AveragePrice         float64      `json:"averagePrice"`
	Distance             *float64     `json:"distance,omitempty"`
	OpeningHours         []string     `json:"openingHours,omitempty"`
	IsOpen               *bool        `json:"isOpen,omitempty"`
	RecommendationReason *string      `json:"recommendationReason,omitempty"`
	Coordinates          *Coordinates `json:"coordinates,omitempty"`
}

// SearchHistory is one remembered food search.
type SearchHistory struct {
	Keyword     string    `json:"keyword"`
	Timestamp   time.Time `json:"timestamp"`
	ResultCount *int      `json:"resultCount,omitempty"`
}

// MaxSearchHistory is the number of most recent searches kept.
const MaxSearchHistory = 20
