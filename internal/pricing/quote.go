// Package pricing computes rental quotes from daily rates and promotions.
package pricing

import "time"

// rentalDay is the billing unit; any partial day is billed as a full day.
const rentalDay = 24 * time.Hour

// Days returns the number of billable days between start and end. A range
// shorter than one day still bills one day.
func Days(start, end time.Time) int64 {
	if !end.After(start) {
		return 0
	}
	d := end.Sub(start)
	days := int64(d / rentalDay)
	if d%rentalDay != 0 {
		days++
	}
	return days
}

// Quote prices a rental: billable days times the daily rate, minus a
// percentage discount. The discount is clamped to [0, 100] so a bad
// promotion row can never produce a negative price.
func Quote(dailyRateCents int64, start, end time.Time, discountPercent int) int64 {
	days := Days(start, end)
	if days == 0 {
		return 0
	}
	total := days * dailyRateCents
	if discountPercent < 0 {
		discountPercent = 0
	}
	if discountPercent > 100 {
		discountPercent = 100
	}
	return total - total*int64(discountPercent)/100
}
