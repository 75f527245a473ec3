package repository

import (
	"context"
	"time"

	"panelhub/server/internal/model"
)

func (s *Store) GetSystemSettings(ctx context.Context) (model.SystemSettings, error) {
	var settings model.SystemSettings
	err := s.pool.QueryRow(ctx, `
		SELECT site_name, support_email, maintenance_mode, min_redemption_points, updated_at
		FROM system_settings
		WHERE id = 1
	`).Scan(
		&settings.SiteName,
		&settings.SupportEmail,
		&settings.MaintenanceMode,
		&settings.MinRedemptionPoints,
		&settings.UpdatedAt,
	)
	return settings, mapErr(err)
}

func (s *Store) UpdateSystemSettings(ctx context.Context, settings model.SystemSettings, now time.Time) error {
	_, err := s.pool.Exec(ctx, `
		UPDATE system_settings
		SET site_name = $1, support_email = $2, maintenance_mode = $3, min_redemption_points = $4, updated_at = $5
		WHERE id = 1
	`, settings.SiteName, settings.SupportEmail, settings.MaintenanceMode, settings.MinRedemptionPoints, now)
	return mapErr(err)
}
