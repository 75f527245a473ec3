package repository

import (
	"context"
	"time"

	"github.com/jackc/pgx/v5"

	"panelhub/server/internal/model"
)

const bidColumns = `id, project_id, vendor_id, bid_amount, message, status, created_at, updated_at`

func scanBid(row pgx.Row) (model.Bid, error) {
	var b model.Bid
	err := row.Scan(
		&b.ID,
		&b.ProjectID,
		&b.VendorID,
		&b.BidAmount,
		&b.Message,
		&b.Status,
		&b.CreatedAt,
		&b.UpdatedAt,
	)
	return b, mapErr(err)
}

// CreateBid relies on the (project_id, vendor_id) unique constraint;
// a second bid from the same vendor surfaces as ErrConflict.
func (s *Store) CreateBid(ctx context.Context, b model.Bid) error {
	_, err := s.pool.Exec(ctx, `
		INSERT INTO bids (id, project_id, vendor_id, bid_amount, message, status, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $7)
	`, b.ID, b.ProjectID, b.VendorID, b.BidAmount, b.Message, b.Status, b.CreatedAt)
	return mapErr(err)
}

func (s *Store) GetBid(ctx context.Context, bidID string) (model.Bid, error) {
	row := s.pool.QueryRow(ctx, `SELECT `+bidColumns+` FROM bids WHERE id = $1`, bidID)
	return scanBid(row)
}

func (s *Store) ListBidsByProject(ctx context.Context, projectID string) ([]model.Bid, error) {
	return s.listBids(ctx, `
		SELECT `+bidColumns+` FROM bids WHERE project_id = $1 ORDER BY created_at DESC
	`, projectID)
}

func (s *Store) ListBidsByVendor(ctx context.Context, vendorID string) ([]model.Bid, error) {
	return s.listBids(ctx, `
		SELECT `+bidColumns+` FROM bids WHERE vendor_id = $1 ORDER BY created_at DESC
	`, vendorID)
}

func (s *Store) listBids(ctx context.Context, sql string, args ...interface{}) ([]model.Bid, error) {
	rows, err := s.pool.Query(ctx, sql, args...)
	if err != nil {
		return nil, mapErr(err)
	}
	defer rows.Close()

	var bids []model.Bid
	for rows.Next() {
		b, err := scanBid(rows)
		if err != nil {
			return nil, err
		}
		bids = append(bids, b)
	}
	return bids, mapErr(rows.Err())
}

func (s *Store) HasBid(ctx context.Context, projectID, vendorID string) (bool, error) {
	return exists(ctx, s.pool, `SELECT 1 FROM bids WHERE project_id = $1 AND vendor_id = $2`, projectID, vendorID)
}

func (s *Store) UpdateBid(ctx context.Context, bidID string, amount float64, message *string, status string, now time.Time) error {
	tag, err := s.pool.Exec(ctx, `
		UPDATE bids SET bid_amount = $2, message = $3, status = $4, updated_at = $5 WHERE id = $1
	`, bidID, amount, message, status, now)
	if err != nil {
		return mapErr(err)
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

func (s *Store) DeleteBid(ctx context.Context, bidID string) error {
	tag, err := s.pool.Exec(ctx, `DELETE FROM bids WHERE id = $1`, bidID)
	if err != nil {
		return mapErr(err)
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}
