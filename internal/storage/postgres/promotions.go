package postgres

import (
	"context"
	"errors"
	"time"

	"github.com/jackc/pgx/v5"

	"github.com/driveline/rental-be/internal/models"
	"github.com/driveline/rental-be/internal/storage"
)

const promoColumns = `id, code, description, discount_percent, starts_at, ends_at, created_at`

// CreatePromotion inserts a discount code.
func (s *Store) CreatePromotion(ctx context.Context, promo models.Promotion) (models.Promotion, error) {
	const query = `
	INSERT INTO promotions (code, description, discount_percent, starts_at, ends_at)
	VALUES ($1, $2, $3, $4, $5)
	RETURNING ` + promoColumns + `;`
	row := s.pool.QueryRow(ctx, query, promo.Code, promo.Description, promo.DiscountPercent, promo.StartsAt, promo.EndsAt)
	created, err := scanPromotion(row)
	if err != nil {
		if isUniqueViolation(err) {
			return models.Promotion{}, storage.ErrAlreadyExists
		}
		return models.Promotion{}, err
	}
	return created, nil
}

// UpdatePromotion rewrites a promotion's fields.
func (s *Store) UpdatePromotion(ctx context.Context, promo models.Promotion) (models.Promotion, error) {
	const query = `
	UPDATE promotions
	SET code = $2, description = $3, discount_percent = $4, starts_at = $5, ends_at = $6
	WHERE id = $1
	RETURNING ` + promoColumns + `;`
	row := s.pool.QueryRow(ctx, query, promo.ID, promo.Code, promo.Description, promo.DiscountPercent, promo.StartsAt, promo.EndsAt)
	updated, err := scanPromotion(row)
	if err != nil {
		if isUniqueViolation(err) {
			return models.Promotion{}, storage.ErrAlreadyExists
		}
		return models.Promotion{}, err
	}
	return updated, nil
}

// DeletePromotion removes a discount code.
func (s *Store) DeletePromotion(ctx context.Context, id int64) error {
	tag, err := s.pool.Exec(ctx, `DELETE FROM promotions WHERE id = $1;`, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return storage.ErrNotFound
	}
	return nil
}

// FindPromotionByCode fetches a promotion by its code.
func (s *Store) FindPromotionByCode(ctx context.Context, code string) (models.Promotion, error) {
	const query = `SELECT ` + promoColumns + ` FROM promotions WHERE code = $1;`
	return scanPromotion(s.pool.QueryRow(ctx, query, code))
}

// ListActivePromotions returns promotions whose window contains now.
func (s *Store) ListActivePromotions(ctx context.Context, now time.Time) ([]models.Promotion, error) {
	const query = `
	SELECT ` + promoColumns + `
	FROM promotions
	WHERE starts_at <= $1 AND ends_at > $1
	ORDER BY id;`
	rows, err := s.pool.Query(ctx, query, now)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var promos []models.Promotion
	for rows.Next() {
		promo, err := scanPromotion(rows)
		if err != nil {
			return nil, err
		}
		promos = append(promos, promo)
	}
	return promos, rows.Err()
}

func scanPromotion(row pgx.Row) (models.Promotion, error) {
	var promo models.Promotion
	err := row.Scan(&promo.ID, &promo.Code, &promo.Description, &promo.DiscountPercent, &promo.StartsAt, &promo.EndsAt, &promo.CreatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return models.Promotion{}, storage.ErrNotFound
		}
		return models.Promotion{}, err
	}
	return promo, nil
}
