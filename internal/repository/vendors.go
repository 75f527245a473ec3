package repository

import (
	"context"
	"time"

	"github.com/jackc/pgx/v5"

	"panelhub/server/internal/model"
)

const vendorColumns = `
	id, email, password_hash, name, company, phone, website, status,
	otp_hash, otp_expires_at, description, services, industries,
	founded_year, employee_count, certifications, created_at, updated_at`

func scanVendor(row pgx.Row) (model.Vendor, error) {
	var v model.Vendor
	err := row.Scan(
		&v.ID,
		&v.Email,
		&v.PasswordHash,
		&v.Name,
		&v.Company,
		&v.Phone,
		&v.Website,
		&v.Status,
		&v.OTPHash,
		&v.OTPExpiresAt,
		&v.Description,
		&v.Services,
		&v.Industries,
		&v.FoundedYear,
		&v.EmployeeCount,
		&v.Certifications,
		&v.CreatedAt,
		&v.UpdatedAt,
	)
	return v, mapErr(err)
}

func (s *Store) CreateVendor(ctx context.Context, v model.Vendor) error {
	_, err := s.pool.Exec(ctx, `
		INSERT INTO vendors (id, email, password_hash, name, company, phone, website, status, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $9)
	`, v.ID, v.Email, v.PasswordHash, v.Name, v.Company, v.Phone, v.Website, v.Status, v.CreatedAt)
	return mapErr(err)
}

func (s *Store) GetVendorByEmail(ctx context.Context, email string) (model.Vendor, error) {
	row := s.pool.QueryRow(ctx, `SELECT `+vendorColumns+` FROM vendors WHERE lower(email) = lower($1)`, email)
	return scanVendor(row)
}

func (s *Store) GetVendorByID(ctx context.Context, vendorID string) (model.Vendor, error) {
	row := s.pool.QueryRow(ctx, `SELECT `+vendorColumns+` FROM vendors WHERE id = $1`, vendorID)
	return scanVendor(row)
}

func (s *Store) UpdateVendorProfile(ctx context.Context, v model.Vendor, now time.Time) error {
	tag, err := s.pool.Exec(ctx, `
		UPDATE vendors SET name = $2, company = $3, phone = $4, website = $5,
			description = $6, services = $7, industries = $8,
			founded_year = $9, employee_count = $10, certifications = $11, updated_at = $12
		WHERE id = $1
	`, v.ID, v.Name, v.Company, v.Phone, v.Website,
		v.Description, v.Services, v.Industries,
		v.FoundedYear, v.EmployeeCount, v.Certifications, now)
	if err != nil {
		return mapErr(err)
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

func (s *Store) SetVendorOTP(ctx context.Context, vendorID, otpHash string, expiresAt, now time.Time) error {
	tag, err := s.pool.Exec(ctx, `
		UPDATE vendors SET otp_hash = $2, otp_expires_at = $3, updated_at = $4 WHERE id = $1
	`, vendorID, otpHash, expiresAt, now)
	if err != nil {
		return mapErr(err)
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

// ConsumeVendorOTP verifies and activates in one conditional update.
func (s *Store) ConsumeVendorOTP(ctx context.Context, vendorID, otpHash string, now time.Time) error {
	tag, err := s.pool.Exec(ctx, `
		UPDATE vendors SET otp_hash = NULL, otp_expires_at = NULL, status = 'active', updated_at = $3
		WHERE id = $1 AND otp_hash = $2 AND otp_expires_at > $3
	`, vendorID, otpHash, now)
	if err != nil {
		return mapErr(err)
	}
	if tag.RowsAffected() == 0 {
		return ErrConflict
	}
	return nil
}

func (s *Store) ListRecentVendors(ctx context.Context, limit int) ([]model.Vendor, error) {
	rows, err := s.pool.Query(ctx, `
		SELECT `+vendorColumns+`
		FROM vendors
		WHERE status = 'active'
		ORDER BY created_at DESC
		LIMIT $1
	`, limit)
	if err != nil {
		return nil, mapErr(err)
	}
	defer rows.Close()

	var vendors []model.Vendor
	for rows.Next() {
		v, err := scanVendor(rows)
		if err != nil {
			return nil, err
		}
		vendors = append(vendors, v)
	}
	return vendors, mapErr(rows.Err())
}

type VendorAnalytics struct {
	ProjectsPosted   int
	ProjectsAssigned int
	BidsPlaced       int
	BidsReceived     int
	MessagesSent     int
	MessagesReceived int
}

func (s *Store) GetVendorAnalytics(ctx context.Context, vendorID string) (VendorAnalytics, error) {
	var a VendorAnalytics
	err := s.pool.QueryRow(ctx, `
		SELECT
			(SELECT count(*) FROM projects WHERE posted_by = $1),
			(SELECT count(*) FROM projects WHERE assigned_to = $1),
			(SELECT count(*) FROM bids WHERE vendor_id = $1),
			(SELECT count(*) FROM bids b JOIN projects p ON p.id = b.project_id WHERE p.posted_by = $1),
			(SELECT count(*) FROM messages WHERE sender_id = $1),
			(SELECT count(*) FROM messages WHERE receiver_id = $1)
	`, vendorID).Scan(
		&a.ProjectsPosted,
		&a.ProjectsAssigned,
		&a.BidsPlaced,
		&a.BidsReceived,
		&a.MessagesSent,
		&a.MessagesReceived,
	)
	return a, mapErr(err)
}
