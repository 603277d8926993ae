package postgres

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"

	"github.com/driveline/rental-be/internal/models"
	"github.com/driveline/rental-be/internal/storage"
)

const carColumns = `id, location_id, make, model, year, plate, daily_rate_cents, status, created_at`

// CreateCar inserts a fleet vehicle.
func (s *Store) CreateCar(ctx context.Context, car models.Car) (models.Car, error) {
	const query = `
	INSERT INTO cars (location_id, make, model, year, plate, daily_rate_cents, status)
	VALUES ($1, $2, $3, $4, $5, $6, $7)
	RETURNING ` + carColumns + `;`
	row := s.pool.QueryRow(ctx, query, car.LocationID, car.Make, car.Model, car.Year, car.Plate, car.DailyRateCents, models.CarAvailable)
	created, err := scanCar(row)
	if err != nil {
		if isUniqueViolation(err) {
			return models.Car{}, storage.ErrAlreadyExists
		}
		return models.Car{}, err
	}
	return created, nil
}

// UpdateCar rewrites the mutable fields of a car.
func (s *Store) UpdateCar(ctx context.Context, car models.Car) (models.Car, error) {
	const query = `
	UPDATE cars
	SET location_id = $2, make = $3, model = $4, year = $5, plate = $6, daily_rate_cents = $7
	WHERE id = $1
	RETURNING ` + carColumns + `;`
	row := s.pool.QueryRow(ctx, query, car.ID, car.LocationID, car.Make, car.Model, car.Year, car.Plate, car.DailyRateCents)
	updated, err := scanCar(row)
	if err != nil {
		if isUniqueViolation(err) {
			return models.Car{}, storage.ErrAlreadyExists
		}
		return models.Car{}, err
	}
	return updated, nil
}

// DeleteCar removes a car from the fleet.
func (s *Store) DeleteCar(ctx context.Context, id int64) error {
	tag, err := s.pool.Exec(ctx, `DELETE FROM cars WHERE id = $1;`, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return storage.ErrNotFound
	}
	return nil
}

// FindCarByID fetches a car by primary key.
func (s *Store) FindCarByID(ctx context.Context, id int64) (models.Car, error) {
	const query = `SELECT ` + carColumns + ` FROM cars WHERE id = $1;`
	return scanCar(s.pool.QueryRow(ctx, query, id))
}

// ListCars returns the fleet, optionally narrowed by location and availability.
func (s *Store) ListCars(ctx context.Context, filter storage.CarFilter) ([]models.Car, error) {
	const query = `
	SELECT ` + carColumns + `
	FROM cars
	WHERE ($1 = 0 OR location_id = $1)
	  AND (NOT $2 OR status = 'available')
	ORDER BY id;`
	rows, err := s.pool.Query(ctx, query, filter.LocationID, filter.OnlyAvailable)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var cars []models.Car
	for rows.Next() {
		car, err := scanCar(rows)
		if err != nil {
			return nil, err
		}
		cars = append(cars, car)
	}
	return cars, rows.Err()
}

// SetCarStatus flips a car's availability state.
func (s *Store) SetCarStatus(ctx context.Context, id int64, status string) error {
	tag, err := s.pool.Exec(ctx, `UPDATE cars SET status = $2 WHERE id = $1;`, id, status)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return storage.ErrNotFound
	}
	return nil
}

// AddCarPhoto records an uploaded photo's storage key.
func (s *Store) AddCarPhoto(ctx context.Context, photo models.CarPhoto) (models.CarPhoto, error) {
	const query = `
	INSERT INTO car_photos (car_id, storage_key)
	VALUES ($1, $2)
	RETURNING id, car_id, storage_key, created_at;`
	row := s.pool.QueryRow(ctx, query, photo.CarID, photo.StorageKey)
	var created models.CarPhoto
	if err := row.Scan(&created.ID, &created.CarID, &created.StorageKey, &created.CreatedAt); err != nil {
		return models.CarPhoto{}, err
	}
	return created, nil
}

// ListCarPhotos returns the photo keys for a car.
func (s *Store) ListCarPhotos(ctx context.Context, carID int64) ([]models.CarPhoto, error) {
	const query = `
	SELECT id, car_id, storage_key, created_at
	FROM car_photos
	WHERE car_id = $1
	ORDER BY id;`
	rows, err := s.pool.Query(ctx, query, carID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var photos []models.CarPhoto
	for rows.Next() {
		var photo models.CarPhoto
		if err := rows.Scan(&photo.ID, &photo.CarID, &photo.StorageKey, &photo.CreatedAt); err != nil {
			return nil, err
		}
		photos = append(photos, photo)
	}
	return photos, rows.Err()
}

func scanCar(row pgx.Row) (models.Car, error) {
	var car models.Car
	err := row.Scan(&car.ID, &car.LocationID, &car.Make, &car.Model, &car.Year, &car.Plate, &car.DailyRateCents, &car.Status, &car.CreatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return models.Car{}, storage.ErrNotFound
		}
		return models.Car{}, err
	}
	return car, nil
}
