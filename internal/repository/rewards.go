package repository

import (
	"context"
	"time"

	"github.com/jackc/pgx/v5"

	"panelhub/server/internal/model"
)

const rewardColumns = `id, name, description, points_cost, category, is_active, created_at, updated_at`

func scanReward(row pgx.Row) (model.Reward, error) {
	var rw model.Reward
	err := row.Scan(
		&rw.ID,
		&rw.Name,
		&rw.Description,
		&rw.PointsCost,
		&rw.Category,
		&rw.IsActive,
		&rw.CreatedAt,
		&rw.UpdatedAt,
	)
	return rw, mapErr(err)
}

func (s *Store) CreateReward(ctx context.Context, rw model.Reward) error {
	_, err := s.pool.Exec(ctx, `
		INSERT INTO rewards (id, name, description, points_cost, category, is_active, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $7)
	`, rw.ID, rw.Name, rw.Description, rw.PointsCost, rw.Category, rw.IsActive, rw.CreatedAt)
	return mapErr(err)
}

func (s *Store) GetReward(ctx context.Context, rewardID string) (model.Reward, error) {
	row := s.pool.QueryRow(ctx, `SELECT `+rewardColumns+` FROM rewards WHERE id = $1`, rewardID)
	return scanReward(row)
}

func (s *Store) ListRewards(ctx context.Context, activeOnly bool) ([]model.Reward, error) {
	rows, err := s.pool.Query(ctx, `
		SELECT `+rewardColumns+`
		FROM rewards
		WHERE (NOT $1 OR is_active)
		ORDER BY points_cost ASC
	`, activeOnly)
	if err != nil {
		return nil, mapErr(err)
	}
	defer rows.Close()

	var rewards []model.Reward
	for rows.Next() {
		rw, err := scanReward(rows)
		if err != nil {
			return nil, err
		}
		rewards = append(rewards, rw)
	}
	return rewards, mapErr(rows.Err())
}

func (s *Store) UpdateReward(ctx context.Context, rw model.Reward, now time.Time) error {
	tag, err := s.pool.Exec(ctx, `
		UPDATE rewards SET name = $2, description = $3, points_cost = $4, category = $5, is_active = $6, updated_at = $7
		WHERE id = $1
	`, rw.ID, rw.Name, rw.Description, rw.PointsCost, rw.Category, rw.IsActive, now)
	if err != nil {
		return mapErr(err)
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

func (s *Store) DeleteReward(ctx context.Context, rewardID string) error {
	tag, err := s.pool.Exec(ctx, `DELETE FROM rewards WHERE id = $1`, rewardID)
	if err != nil {
		return mapErr(err)
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

// RedeemReward debits the balance and records the redemption in one
// transaction. The decrement is guarded by points >= cost, so two
// concurrent redemptions can never drive the balance negative.
func (s *Store) RedeemReward(ctx context.Context, redemption model.RewardRedemption) error {
	return s.WithTx(ctx, func(tx pgx.Tx) error {
		tag, err := tx.Exec(ctx, `
			UPDATE users SET points = points - $2, updated_at = $3
			WHERE id = $1 AND points >= $2
		`, redemption.UserID, redemption.PointsSpent, redemption.CreatedAt)
		if err != nil {
			return mapErr(err)
		}
		if tag.RowsAffected() == 0 {
			return ErrInsufficientPoints
		}
		_, err = tx.Exec(ctx, `
			INSERT INTO reward_redemptions (id, reward_id, user_id, points_spent, status, created_at, updated_at)
			VALUES ($1, $2, $3, $4, $5, $6, $6)
		`, redemption.ID, redemption.RewardID, redemption.UserID, redemption.PointsSpent, redemption.Status, redemption.CreatedAt)
		return mapErr(err)
	})
}

func (s *Store) ListRedemptionsByUser(ctx context.Context, userID string) ([]model.RewardRedemption, error) {
	return s.listRedemptions(ctx, `
		SELECT id, reward_id, user_id, points_spent, status, created_at, updated_at
		FROM reward_redemptions
		WHERE user_id = $1
		ORDER BY created_at DESC
	`, userID)
}

func (s *Store) ListAllRedemptions(ctx context.Context, status string) ([]model.RewardRedemption, error) {
	return s.listRedemptions(ctx, `
		SELECT id, reward_id, user_id, points_spent, status, created_at, updated_at
		FROM reward_redemptions
		WHERE ($1 = '' OR status = $1)
		ORDER BY created_at DESC
	`, status)
}

func (s *Store) listRedemptions(ctx context.Context, sql string, args ...interface{}) ([]model.RewardRedemption, error) {
	rows, err := s.pool.Query(ctx, sql, args...)
	if err != nil {
		return nil, mapErr(err)
	}
	defer rows.Close()

	var redemptions []model.RewardRedemption
	for rows.Next() {
		var rd model.RewardRedemption
		if err := rows.Scan(&rd.ID, &rd.RewardID, &rd.UserID, &rd.PointsSpent, &rd.Status, &rd.CreatedAt, &rd.UpdatedAt); err != nil {
			return nil, mapErr(err)
		}
		redemptions = append(redemptions, rd)
	}
	return redemptions, mapErr(rows.Err())
}

// SetRedemptionStatus moves a pending redemption forward. Rejecting a
// pending redemption refunds the points in the same transaction.
func (s *Store) SetRedemptionStatus(ctx context.Context, redemptionID, status string, now time.Time) error {
	return s.WithTx(ctx, func(tx pgx.Tx) error {
		var userID string
		var pointsSpent int
		var previous string
		row := tx.QueryRow(ctx, `
			UPDATE reward_redemptions rr
			SET status = $2, updated_at = $3
			FROM (SELECT id, status AS prev FROM reward_redemptions WHERE id = $1 FOR UPDATE) old
			WHERE rr.id = old.id
			RETURNING rr.user_id, rr.points_spent, old.prev
		`, redemptionID, status, now)
		if err := row.Scan(&userID, &pointsSpent, &previous); err != nil {
			return mapErr(err)
		}
		if status == model.RedemptionStatusRejected && previous == model.RedemptionStatusPending {
			if _, err := tx.Exec(ctx, `
				UPDATE users SET points = points + $2, updated_at = $3 WHERE id = $1
			`, userID, pointsSpent, now); err != nil {
				return mapErr(err)
			}
		}
		return nil
	})
}
