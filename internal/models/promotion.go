package models

import "time"

// Promotion is a discount code valid inside a date window.
type Promotion struct {
	ID              int64     `json:"id"`
	Code            string    `json:"code"`
	Description     string    `json:"description,omitempty"`
	DiscountPercent int       `json:"discount_percent"`
	StartsAt        time.Time `json:"starts_at"`
	EndsAt          time.Time `json:"ends_at"`
	CreatedAt       time.Time `json:"created_at"`
}

// ActiveAt reports whether the promotion can be applied at t.
func (p Promotion) ActiveAt(t time.Time) bool {
	return !t.Before(p.StartsAt) && t.Before(p.EndsAt)
}
