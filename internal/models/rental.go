package models

import "time"

// Rental lifecycle states.
const (
	RentalBooked    = "booked"
	RentalCancelled = "cancelled"
	RentalReturned  = "returned"
)

// Rental is a customer booking of a car for a date range.
type Rental struct {
	ID         int64     `json:"id"`
	UserID     int64     `json:"user_id"`
	CarID      int64     `json:"car_id"`
	LocationID int64     `json:"location_id"`
	StartDate  time.Time `json:"start_date"`
	EndDate    time.Time `json:"end_date"`
	Status     string    `json:"status"`
	PriceCents int64     `json:"price_cents"`
	PromoCode  string    `json:"promo_code,omitempty"`
	CreatedAt  time.Time `json:"created_at"`
}
