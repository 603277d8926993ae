package models

import "time"

// Car availability states. A car in maintenance cannot be booked until the
// open maintenance log is resolved.
const (
	CarAvailable   = "available"
	CarRented      = "rented"
	CarMaintenance = "maintenance"
)

// Car is a rentable vehicle stationed at a location.
type Car struct {
	ID             int64     `json:"id"`
	LocationID     int64     `json:"location_id"`
	Make           string    `json:"make"`
	Model          string    `json:"model"`
	Year           int       `json:"year"`
	Plate          string    `json:"plate"`
	DailyRateCents int64     `json:"daily_rate_cents"`
	Status         string    `json:"status"`
	CreatedAt      time.Time `json:"created_at"`

	// PhotoURLs is populated on catalog detail reads when media storage is
	// configured; it is never persisted.
	PhotoURLs []string `json:"photo_urls,omitempty"`
}

// CarPhoto records an object-storage key for a car image.
type CarPhoto struct {
	ID         int64     `json:"id"`
	CarID      int64     `json:"car_id"`
	StorageKey string    `json:"storage_key"`
	CreatedAt  time.Time `json:"created_at"`
}
