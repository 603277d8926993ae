package postgres

import (
	"context"

	"github.com/driveline/rental-be/internal/models"
)

// RecordLogin inserts a login audit row.
func (s *Store) RecordLogin(ctx context.Context, session models.LoginSession) error {
	const query = `
	INSERT INTO login_sessions (id, user_id, ip, user_agent)
	VALUES ($1, $2, $3, $4);`
	_, err := s.pool.Exec(ctx, query, session.ID, session.UserID, session.IP, session.UserAgent)
	return err
}

// ListLoginsByUser returns the most recent login audit entries for a user.
func (s *Store) ListLoginsByUser(ctx context.Context, userID int64, limit int) ([]models.LoginSession, error) {
	const query = `
	SELECT id, user_id, ip, user_agent, created_at
	FROM login_sessions
	WHERE user_id = $1
	ORDER BY created_at DESC
	LIMIT $2;`
	rows, err := s.pool.Query(ctx, query, userID, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var sessions []models.LoginSession
	for rows.Next() {
		var sess models.LoginSession
		if err := rows.Scan(&sess.ID, &sess.UserID, &sess.IP, &sess.UserAgent, &sess.CreatedAt); err != nil {
			return nil, err
		}
		sessions = append(sessions, sess)
	}
	return sessions, rows.Err()
}
