package postgres

import (
	"context"
	"errors"
	"time"

	"github.com/jackc/pgx/v5"

	"github.com/driveline/rental-be/internal/models"
	"github.com/driveline/rental-be/internal/storage"
)

// CreateMaintenanceLog records service work and pulls the car out of the
// bookable fleet until the log is resolved.
func (s *Store) CreateMaintenanceLog(ctx context.Context, log models.MaintenanceLog) (models.MaintenanceLog, error) {
	tx, err := s.pool.Begin(ctx)
	if err != nil {
		return models.MaintenanceLog{}, err
	}
	defer tx.Rollback(ctx)

	const insert = `
	INSERT INTO maintenance_logs (car_id, description)
	VALUES ($1, $2)
	RETURNING id, car_id, description, created_at, resolved_at;`
	created, err := scanMaintenanceLog(tx.QueryRow(ctx, insert, log.CarID, log.Description))
	if err != nil {
		return models.MaintenanceLog{}, err
	}

	tag, err := tx.Exec(ctx, `UPDATE cars SET status = $2 WHERE id = $1;`, log.CarID, models.CarMaintenance)
	if err != nil {
		return models.MaintenanceLog{}, err
	}
	if tag.RowsAffected() == 0 {
		return models.MaintenanceLog{}, storage.ErrNotFound
	}

	if err := tx.Commit(ctx); err != nil {
		return models.MaintenanceLog{}, err
	}
	return created, nil
}

// ListMaintenanceByCar returns a car's service history, newest first.
func (s *Store) ListMaintenanceByCar(ctx context.Context, carID int64) ([]models.MaintenanceLog, error) {
	const query = `
	SELECT id, car_id, description, created_at, resolved_at
	FROM maintenance_logs
	WHERE car_id = $1
	ORDER BY created_at DESC;`
	rows, err := s.pool.Query(ctx, query, carID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var logs []models.MaintenanceLog
	for rows.Next() {
		log, err := scanMaintenanceLog(rows)
		if err != nil {
			return nil, err
		}
		logs = append(logs, log)
	}
	return logs, rows.Err()
}

// ResolveMaintenanceLog closes a service log and, when the car has no other
// open logs, returns it to the available fleet.
func (s *Store) ResolveMaintenanceLog(ctx context.Context, id int64, resolvedAt time.Time) (models.MaintenanceLog, error) {
	tx, err := s.pool.Begin(ctx)
	if err != nil {
		return models.MaintenanceLog{}, err
	}
	defer tx.Rollback(ctx)

	const query = `
	UPDATE maintenance_logs
	SET resolved_at = $2
	WHERE id = $1 AND resolved_at IS NULL
	RETURNING id, car_id, description, created_at, resolved_at;`
	resolved, err := scanMaintenanceLog(tx.QueryRow(ctx, query, id, resolvedAt))
	if err != nil {
		return models.MaintenanceLog{}, err
	}

	var open int64
	if err := tx.QueryRow(ctx,
		`SELECT COUNT(*) FROM maintenance_logs WHERE car_id = $1 AND resolved_at IS NULL;`,
		resolved.CarID).Scan(&open); err != nil {
		return models.MaintenanceLog{}, err
	}
	if open == 0 {
		if _, err := tx.Exec(ctx,
			`UPDATE cars SET status = $2 WHERE id = $1 AND status = $3;`,
			resolved.CarID, models.CarAvailable, models.CarMaintenance); err != nil {
			return models.MaintenanceLog{}, err
		}
	}

	if err := tx.Commit(ctx); err != nil {
		return models.MaintenanceLog{}, err
	}
	return resolved, nil
}

func scanMaintenanceLog(row pgx.Row) (models.MaintenanceLog, error) {
	var log models.MaintenanceLog
	err := row.Scan(&log.ID, &log.CarID, &log.Description, &log.CreatedAt, &log.ResolvedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return models.MaintenanceLog{}, storage.ErrNotFound
		}
		return models.MaintenanceLog{}, err
	}
	return log, nil
}
