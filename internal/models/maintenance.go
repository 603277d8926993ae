package models

import "time"

// MaintenanceLog records service work on a car. An unresolved log keeps the
// car out of the bookable fleet.
type MaintenanceLog struct {
	ID          int64      `json:"id"`
	CarID       int64      `json:"car_id"`
	Description string     `json:"description"`
	CreatedAt   time.Time  `json:"created_at"`
	ResolvedAt  *time.Time `json:"resolved_at,omitempty"`
}
