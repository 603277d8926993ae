package models

import "time"

// LoginSession is an audit record of a successful login. It carries no
// authority; session validity lives entirely in the signed token.
type LoginSession struct {
	ID        string    `json:"id"`
	UserID    int64     `json:"user_id"`
	IP        string    `json:"ip"`
	UserAgent string    `json:"user_agent"`
	CreatedAt time.Time `json:"created_at"`
}

// DashboardStats aggregates back-office counters.
type DashboardStats struct {
	FleetSize         int64 `json:"fleet_size"`
	AvailableCars     int64 `json:"available_cars"`
	ActiveRentals     int64 `json:"active_rentals"`
	RevenueCentsTotal int64 `json:"revenue_cents_total"`
}
