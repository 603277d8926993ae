package postgres

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"

	"github.com/driveline/rental-be/internal/models"
	"github.com/driveline/rental-be/internal/storage"
)

// CreateLocation inserts a branch.
func (s *Store) CreateLocation(ctx context.Context, loc models.Location) (models.Location, error) {
	const query = `
	INSERT INTO locations (name, address, city)
	VALUES ($1, $2, $3)
	RETURNING id, name, address, city, created_at;`
	return scanLocation(s.pool.QueryRow(ctx, query, loc.Name, loc.Address, loc.City))
}

// FindLocationByID fetches a branch by primary key.
func (s *Store) FindLocationByID(ctx context.Context, id int64) (models.Location, error) {
	const query = `SELECT id, name, address, city, created_at FROM locations WHERE id = $1;`
	return scanLocation(s.pool.QueryRow(ctx, query, id))
}

// ListLocations returns all branches.
func (s *Store) ListLocations(ctx context.Context) ([]models.Location, error) {
	const query = `SELECT id, name, address, city, created_at FROM locations ORDER BY id;`
	rows, err := s.pool.Query(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var locations []models.Location
	for rows.Next() {
		loc, err := scanLocation(rows)
		if err != nil {
			return nil, err
		}
		locations = append(locations, loc)
	}
	return locations, rows.Err()
}

func scanLocation(row pgx.Row) (models.Location, error) {
	var loc models.Location
	err := row.Scan(&loc.ID, &loc.Name, &loc.Address, &loc.City, &loc.CreatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return models.Location{}, storage.ErrNotFound
		}
		return models.Location{}, err
	}
	return loc, nil
}
