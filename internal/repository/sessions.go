package repository

import (
	"context"
	"time"

	"panelhub/server/internal/model"
)

func (s *Store) CreateSession(ctx context.Context, session model.UserSession) error {
	_, err := s.pool.Exec(ctx, `
		INSERT INTO user_sessions (id, user_id, token_hash, user_agent, ip_address, issued_at, expires_at, last_used_at, is_active)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
	`, session.ID, session.UserID, session.TokenHash, session.UserAgent, session.IPAddress,
		session.IssuedAt, session.ExpiresAt, session.LastUsedAt, session.IsActive)
	return mapErr(err)
}

func (s *Store) ListActiveSessions(ctx context.Context, userID string, now time.Time) ([]model.UserSession, error) {
	rows, err := s.pool.Query(ctx, `
		SELECT id, user_id, token_hash, user_agent, ip_address, issued_at, expires_at, last_used_at, is_active
		FROM user_sessions
		WHERE user_id = $1 AND is_active AND expires_at > $2
		ORDER BY last_used_at DESC
	`, userID, now)
	if err != nil {
		return nil, mapErr(err)
	}
	defer rows.Close()

	var sessions []model.UserSession
	for rows.Next() {
		var sess model.UserSession
		if err := rows.Scan(
			&sess.ID,
			&sess.UserID,
			&sess.TokenHash,
			&sess.UserAgent,
			&sess.IPAddress,
			&sess.IssuedAt,
			&sess.ExpiresAt,
			&sess.LastUsedAt,
			&sess.IsActive,
		); err != nil {
			return nil, mapErr(err)
		}
		sessions = append(sessions, sess)
	}
	return sessions, mapErr(rows.Err())
}

func (s *Store) RevokeSession(ctx context.Context, sessionID, userID string) error {
	tag, err := s.pool.Exec(ctx, `
		UPDATE user_sessions SET is_active = FALSE WHERE id = $1 AND user_id = $2
	`, sessionID, userID)
	if err != nil {
		return mapErr(err)
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

func (s *Store) RevokeAllSessions(ctx context.Context, userID string) error {
	_, err := s.pool.Exec(ctx, `
		UPDATE user_sessions SET is_active = FALSE WHERE user_id = $1
	`, userID)
	return mapErr(err)
}

func (s *Store) RecordActivity(ctx context.Context, activity model.UserActivity) error {
	_, err := s.pool.Exec(ctx, `
		INSERT INTO user_activity (id, user_id, action, detail, created_at)
		VALUES ($1, $2, $3, $4, $5)
	`, activity.ID, activity.UserID, activity.Action, activity.Detail, activity.CreatedAt)
	return mapErr(err)
}

func (s *Store) ListActivity(ctx context.Context, userID string, limit int) ([]model.UserActivity, error) {
	rows, err := s.pool.Query(ctx, `
		SELECT id, user_id, action, detail, created_at
		FROM user_activity
		WHERE user_id = $1
		ORDER BY created_at DESC
		LIMIT $2
	`, userID, limit)
	if err != nil {
		return nil, mapErr(err)
	}
	defer rows.Close()

	var items []model.UserActivity
	for rows.Next() {
		var item model.UserActivity
		if err := rows.Scan(&item.ID, &item.UserID, &item.Action, &item.Detail, &item.CreatedAt); err != nil {
			return nil, mapErr(err)
		}
		items = append(items, item)
	}
	return items, mapErr(rows.Err())
}
