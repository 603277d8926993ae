package postgres

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"

	"github.com/driveline/rental-be/internal/models"
	"github.com/driveline/rental-be/internal/storage"
)

const rentalColumns = `id, user_id, car_id, location_id, start_date, end_date, status, price_cents, promo_code, created_at`

// BookRental creates a booking and flips the car to rented in one
// transaction. The car row is locked so two concurrent bookings of the same
// car cannot both succeed.
func (s *Store) BookRental(ctx context.Context, rental models.Rental) (models.Rental, error) {
	tx, err := s.pool.Begin(ctx)
	if err != nil {
		return models.Rental{}, err
	}
	defer tx.Rollback(ctx)

	var status string
	err = tx.QueryRow(ctx, `SELECT status FROM cars WHERE id = $1 FOR UPDATE;`, rental.CarID).Scan(&status)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return models.Rental{}, storage.ErrNotFound
		}
		return models.Rental{}, err
	}
	if status != models.CarAvailable {
		return models.Rental{}, storage.ErrConflict
	}

	const insert = `
	INSERT INTO rentals (user_id, car_id, location_id, start_date, end_date, status, price_cents, promo_code)
	VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
	RETURNING ` + rentalColumns + `;`
	row := tx.QueryRow(ctx, insert,
		rental.UserID, rental.CarID, rental.LocationID,
		rental.StartDate, rental.EndDate, models.RentalBooked,
		rental.PriceCents, rental.PromoCode)
	created, err := scanRental(row)
	if err != nil {
		return models.Rental{}, err
	}

	if _, err := tx.Exec(ctx, `UPDATE cars SET status = $2 WHERE id = $1;`, rental.CarID, models.CarRented); err != nil {
		return models.Rental{}, err
	}

	if err := tx.Commit(ctx); err != nil {
		return models.Rental{}, err
	}
	return created, nil
}

// FindRentalByID fetches a rental by primary key.
func (s *Store) FindRentalByID(ctx context.Context, id int64) (models.Rental, error) {
	const query = `SELECT ` + rentalColumns + ` FROM rentals WHERE id = $1;`
	return scanRental(s.pool.QueryRow(ctx, query, id))
}

// ListRentalsByUser returns a customer's rentals, newest first.
func (s *Store) ListRentalsByUser(ctx context.Context, userID int64) ([]models.Rental, error) {
	const query = `
	SELECT ` + rentalColumns + `
	FROM rentals
	WHERE user_id = $1
	ORDER BY created_at DESC;`
	rows, err := s.pool.Query(ctx, query, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var rentals []models.Rental
	for rows.Next() {
		rental, err := scanRental(rows)
		if err != nil {
			return nil, err
		}
		rentals = append(rentals, rental)
	}
	return rentals, rows.Err()
}

// CloseRental moves a booked rental to cancelled or returned and frees the
// car in the same transaction. Closing a rental that is not booked returns
// ErrConflict.
func (s *Store) CloseRental(ctx context.Context, id int64, status string) (models.Rental, error) {
	tx, err := s.pool.Begin(ctx)
	if err != nil {
		return models.Rental{}, err
	}
	defer tx.Rollback(ctx)

	const query = `
	UPDATE rentals
	SET status = $2
	WHERE id = $1 AND status = 'booked'
	RETURNING ` + rentalColumns + `;`
	closed, err := scanRental(tx.QueryRow(ctx, query, id, status))
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			// Distinguish missing rental from wrong state.
			if _, findErr := scanRental(tx.QueryRow(ctx, `SELECT `+rentalColumns+` FROM rentals WHERE id = $1;`, id)); findErr == nil {
				return models.Rental{}, storage.ErrConflict
			}
			return models.Rental{}, storage.ErrNotFound
		}
		return models.Rental{}, err
	}

	if _, err := tx.Exec(ctx, `UPDATE cars SET status = $2 WHERE id = $1;`, closed.CarID, models.CarAvailable); err != nil {
		return models.Rental{}, err
	}

	if err := tx.Commit(ctx); err != nil {
		return models.Rental{}, err
	}
	return closed, nil
}

func scanRental(row pgx.Row) (models.Rental, error) {
	var rental models.Rental
	err := row.Scan(&rental.ID, &rental.UserID, &rental.CarID, &rental.LocationID,
		&rental.StartDate, &rental.EndDate, &rental.Status, &rental.PriceCents,
		&rental.PromoCode, &rental.CreatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return models.Rental{}, storage.ErrNotFound
		}
		return models.Rental{}, err
	}
	return rental, nil
}
