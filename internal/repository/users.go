package repository

import (
	"context"
	"time"

	"github.com/jackc/pgx/v5"

	"panelhub/server/internal/model"
)

const userColumns = `
	id, email, password_hash, first_name, last_name, role,
	is_active, is_email_verified, otp_hash, otp_purpose, otp_expires_at,
	points, total_points,
	phone, date_of_birth, gender, country, city, occupation, education,
	employment, industry, income_range, household_size, marital_status,
	language, interests,
	email_notifications, survey_invites, marketing_emails,
	profile_visibility, show_activity, allow_data_sharing,
	password_changed_at, created_at, updated_at`

func scanUser(row pgx.Row) (model.User, error) {
	var u model.User
	err := row.Scan(
		&u.ID,
		&u.Email,
		&u.PasswordHash,
		&u.FirstName,
		&u.LastName,
		&u.Role,
		&u.IsActive,
		&u.IsEmailVerified,
		&u.OTPHash,
		&u.OTPPurpose,
		&u.OTPExpiresAt,
		&u.Points,
		&u.TotalPoints,
		&u.Profile.Phone,
		&u.Profile.DateOfBirth,
		&u.Profile.Gender,
		&u.Profile.Country,
		&u.Profile.City,
		&u.Profile.Occupation,
		&u.Profile.Education,
		&u.Profile.Employment,
		&u.Profile.Industry,
		&u.Profile.IncomeRange,
		&u.Profile.HouseholdSize,
		&u.Profile.MaritalStatus,
		&u.Profile.Language,
		&u.Profile.Interests,
		&u.Notifications.EmailNotifications,
		&u.Notifications.SurveyInvites,
		&u.Notifications.MarketingEmails,
		&u.Privacy.ProfileVisibility,
		&u.Privacy.ShowActivity,
		&u.Privacy.AllowDataSharing,
		&u.PasswordChangedAt,
		&u.CreatedAt,
		&u.UpdatedAt,
	)
	return u, mapErr(err)
}

func (s *Store) CreateUser(ctx context.Context, u model.User) error {
	_, err := s.pool.Exec(ctx, `
		INSERT INTO users (id, email, password_hash, first_name, last_name, role, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $7)
	`, u.ID, u.Email, u.PasswordHash, u.FirstName, u.LastName, u.Role, u.CreatedAt)
	return mapErr(err)
}

func (s *Store) GetUserByEmail(ctx context.Context, email string) (model.User, error) {
	row := s.pool.QueryRow(ctx, `SELECT `+userColumns+` FROM users WHERE lower(email) = lower($1)`, email)
	return scanUser(row)
}

func (s *Store) GetUserByID(ctx context.Context, userID string) (model.User, error) {
	row := s.pool.QueryRow(ctx, `SELECT `+userColumns+` FROM users WHERE id = $1`, userID)
	return scanUser(row)
}

func (s *Store) ListUsers(ctx context.Context, role string, limit, offset int) ([]model.User, int, error) {
	var total int
	if err := s.pool.QueryRow(ctx, `
		SELECT count(*) FROM users WHERE ($1 = '' OR role = $1)
	`, role).Scan(&total); err != nil {
		return nil, 0, mapErr(err)
	}

	rows, err := s.pool.Query(ctx, `
		SELECT `+userColumns+`
		FROM users
		WHERE ($1 = '' OR role = $1)
		ORDER BY created_at DESC
		LIMIT $2 OFFSET $3
	`, role, limit, offset)
	if err != nil {
		return nil, 0, mapErr(err)
	}
	defer rows.Close()

	var users []model.User
	for rows.Next() {
		u, err := scanUser(rows)
		if err != nil {
			return nil, 0, err
		}
		users = append(users, u)
	}
	return users, total, mapErr(rows.Err())
}

func (s *Store) UpdateUser(ctx context.Context, userID, firstName, lastName, role string, now time.Time) error {
	tag, err := s.pool.Exec(ctx, `
		UPDATE users SET first_name = $2, last_name = $3, role = $4, updated_at = $5
		WHERE id = $1
	`, userID, firstName, lastName, role, now)
	if err != nil {
		return mapErr(err)
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

func (s *Store) UpdateUserProfile(ctx context.Context, userID string, firstName, lastName string, p model.UserProfile, now time.Time) error {
	tag, err := s.pool.Exec(ctx, `
		UPDATE users SET
			first_name = $2, last_name = $3,
			phone = $4, date_of_birth = $5, gender = $6, country = $7, city = $8,
			occupation = $9, education = $10, employment = $11, industry = $12,
			income_range = $13, household_size = $14, marital_status = $15,
			language = $16, interests = $17, updated_at = $18
		WHERE id = $1
	`, userID, firstName, lastName,
		p.Phone, p.DateOfBirth, p.Gender, p.Country, p.City,
		p.Occupation, p.Education, p.Employment, p.Industry,
		p.IncomeRange, p.HouseholdSize, p.MaritalStatus,
		p.Language, p.Interests, now)
	if err != nil {
		return mapErr(err)
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

func (s *Store) UpdateNotificationSettings(ctx context.Context, userID string, n model.NotificationSettings, now time.Time) error {
	tag, err := s.pool.Exec(ctx, `
		UPDATE users SET email_notifications = $2, survey_invites = $3, marketing_emails = $4, updated_at = $5
		WHERE id = $1
	`, userID, n.EmailNotifications, n.SurveyInvites, n.MarketingEmails, now)
	if err != nil {
		return mapErr(err)
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

func (s *Store) UpdatePrivacySettings(ctx context.Context, userID string, p model.PrivacySettings, now time.Time) error {
	tag, err := s.pool.Exec(ctx, `
		UPDATE users SET profile_visibility = $2, show_activity = $3, allow_data_sharing = $4, updated_at = $5
		WHERE id = $1
	`, userID, p.ProfileVisibility, p.ShowActivity, p.AllowDataSharing, now)
	if err != nil {
		return mapErr(err)
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

func (s *Store) SetUserActive(ctx context.Context, userID string, active bool, now time.Time) error {
	tag, err := s.pool.Exec(ctx, `
		UPDATE users SET is_active = $2, updated_at = $3 WHERE id = $1
	`, userID, active, now)
	if err != nil {
		return mapErr(err)
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

func (s *Store) DeleteUser(ctx context.Context, userID string) error {
	tag, err := s.pool.Exec(ctx, `DELETE FROM users WHERE id = $1`, userID)
	if err != nil {
		return mapErr(err)
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

// SetUserOTP replaces any active code; one live OTP per user.
func (s *Store) SetUserOTP(ctx context.Context, userID, otpHash, purpose string, expiresAt, now time.Time) error {
	tag, err := s.pool.Exec(ctx, `
		UPDATE users SET otp_hash = $2, otp_purpose = $3, otp_expires_at = $4, updated_at = $5
		WHERE id = $1
	`, userID, otpHash, purpose, expiresAt, now)
	if err != nil {
		return mapErr(err)
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

// ConsumeUserOTP clears the stored code in the same statement that
// checks it, so a code verifies at most once. Consuming a verify_email
// code flips is_email_verified in the same statement. Zero rows means
// wrong, expired, or already consumed; callers do not distinguish.
func (s *Store) ConsumeUserOTP(ctx context.Context, userID, otpHash, purpose string, now time.Time) error {
	tag, err := s.pool.Exec(ctx, `
		UPDATE users SET otp_hash = NULL, otp_purpose = NULL, otp_expires_at = NULL,
			is_email_verified = (is_email_verified OR $3 = 'verify_email'),
			updated_at = $4
		WHERE id = $1 AND otp_hash = $2 AND otp_purpose = $3 AND otp_expires_at > $4
	`, userID, otpHash, purpose, now)
	if err != nil {
		return mapErr(err)
	}
	if tag.RowsAffected() == 0 {
		return ErrConflict
	}
	return nil
}

func (s *Store) UpdatePassword(ctx context.Context, userID, passwordHash string, now time.Time) error {
	tag, err := s.pool.Exec(ctx, `
		UPDATE users SET password_hash = $2, password_changed_at = $3, updated_at = $3
		WHERE id = $1
	`, userID, passwordHash, now)
	if err != nil {
		return mapErr(err)
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}
