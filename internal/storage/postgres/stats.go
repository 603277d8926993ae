package postgres

import (
	"context"

	"github.com/driveline/rental-be/internal/models"
)

// DashboardStats aggregates the back-office counters in a single query.
func (s *Store) DashboardStats(ctx context.Context) (models.DashboardStats, error) {
	const query = `
	SELECT
		(SELECT COUNT(*) FROM cars),
		(SELECT COUNT(*) FROM cars WHERE status = 'available'),
		(SELECT COUNT(*) FROM rentals WHERE status = 'booked'),
		(SELECT COALESCE(SUM(price_cents), 0) FROM rentals WHERE status <> 'cancelled');`
	var stats models.DashboardStats
	err := s.pool.QueryRow(ctx, query).Scan(
		&stats.FleetSize, &stats.AvailableCars, &stats.ActiveRentals, &stats.RevenueCentsTotal)
	if err != nil {
		return models.DashboardStats{}, err
	}
	return stats, nil
}
