package repository

import (
	"context"
	"time"

	"github.com/jackc/pgx/v5"

	"panelhub/server/internal/model"
)

const projectColumns = `
	id, posted_by, assigned_to, title, description, budget, deadline, status,
	category, target_audience, sample_size, cpi, loi, ir, currency, timeline,
	requirements, deliverables, survey_type, quota_requirements, quality_checks,
	data_format, reporting_requirements, special_instructions,
	created_at, updated_at`

func scanProject(row pgx.Row) (model.Project, error) {
	var p model.Project
	err := row.Scan(
		&p.ID,
		&p.PostedBy,
		&p.AssignedTo,
		&p.Title,
		&p.Description,
		&p.Budget,
		&p.Deadline,
		&p.Status,
		&p.Details.Category,
		&p.Details.TargetAudience,
		&p.Details.SampleSize,
		&p.Details.CPI,
		&p.Details.LOI,
		&p.Details.IR,
		&p.Details.Currency,
		&p.Details.Timeline,
		&p.Details.Requirements,
		&p.Details.Deliverables,
		&p.Details.SurveyType,
		&p.Details.QuotaRequirements,
		&p.Details.QualityChecks,
		&p.Details.DataFormat,
		&p.Details.ReportingRequirements,
		&p.Details.SpecialInstructions,
		&p.CreatedAt,
		&p.UpdatedAt,
	)
	return p, mapErr(err)
}

func (s *Store) CreateProject(ctx context.Context, p model.Project) error {
	_, err := s.pool.Exec(ctx, `
		INSERT INTO projects (id, posted_by, title, description, budget, deadline, status,
			category, target_audience, sample_size, cpi, loi, ir, currency, timeline,
			requirements, deliverables, survey_type, quota_requirements, quality_checks,
			data_format, reporting_requirements, special_instructions, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7,
			$8, $9, $10, $11, $12, $13, $14, $15,
			$16, $17, $18, $19, $20,
			$21, $22, $23, $24, $24)
	`, p.ID, p.PostedBy, p.Title, p.Description, p.Budget, p.Deadline, p.Status,
		p.Details.Category, p.Details.TargetAudience, p.Details.SampleSize, p.Details.CPI,
		p.Details.LOI, p.Details.IR, p.Details.Currency, p.Details.Timeline,
		p.Details.Requirements, p.Details.Deliverables, p.Details.SurveyType,
		p.Details.QuotaRequirements, p.Details.QualityChecks,
		p.Details.DataFormat, p.Details.ReportingRequirements, p.Details.SpecialInstructions,
		p.CreatedAt)
	return mapErr(err)
}

func (s *Store) GetProject(ctx context.Context, projectID string) (model.Project, error) {
	row := s.pool.QueryRow(ctx, `SELECT `+projectColumns+` FROM projects WHERE id = $1`, projectID)
	return scanProject(row)
}

func (s *Store) ListProjectsByVendor(ctx context.Context, vendorID string) ([]model.Project, error) {
	return s.listProjects(ctx, `
		SELECT `+projectColumns+`
		FROM projects
		WHERE posted_by = $1 OR assigned_to = $1
		ORDER BY created_at DESC
	`, vendorID)
}

// ListOpenProjects is the marketplace view: open projects posted by
// someone else.
func (s *Store) ListOpenProjects(ctx context.Context, excludeVendorID string) ([]model.Project, error) {
	return s.listProjects(ctx, `
		SELECT `+projectColumns+`
		FROM projects
		WHERE status = 'open' AND posted_by <> $1
		ORDER BY created_at DESC
	`, excludeVendorID)
}

func (s *Store) listProjects(ctx context.Context, sql string, args ...interface{}) ([]model.Project, error) {
	rows, err := s.pool.Query(ctx, sql, args...)
	if err != nil {
		return nil, mapErr(err)
	}
	defer rows.Close()

	var projects []model.Project
	for rows.Next() {
		p, err := scanProject(rows)
		if err != nil {
			return nil, err
		}
		projects = append(projects, p)
	}
	return projects, mapErr(rows.Err())
}

func (s *Store) UpdateProject(ctx context.Context, p model.Project, now time.Time) error {
	tag, err := s.pool.Exec(ctx, `
		UPDATE projects SET title = $2, description = $3, budget = $4, deadline = $5, status = $6,
			category = $7, target_audience = $8, sample_size = $9, cpi = $10, loi = $11, ir = $12,
			currency = $13, timeline = $14, requirements = $15, deliverables = $16,
			survey_type = $17, quota_requirements = $18, quality_checks = $19,
			data_format = $20, reporting_requirements = $21, special_instructions = $22,
			updated_at = $23
		WHERE id = $1
	`, p.ID, p.Title, p.Description, p.Budget, p.Deadline, p.Status,
		p.Details.Category, p.Details.TargetAudience, p.Details.SampleSize, p.Details.CPI,
		p.Details.LOI, p.Details.IR, p.Details.Currency, p.Details.Timeline,
		p.Details.Requirements, p.Details.Deliverables, p.Details.SurveyType,
		p.Details.QuotaRequirements, p.Details.QualityChecks,
		p.Details.DataFormat, p.Details.ReportingRequirements, p.Details.SpecialInstructions,
		now)
	if err != nil {
		return mapErr(err)
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

func (s *Store) DeleteProject(ctx context.Context, projectID string) error {
	tag, err := s.pool.Exec(ctx, `DELETE FROM projects WHERE id = $1`, projectID)
	if err != nil {
		return mapErr(err)
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

// AssignProject marks the project assigned and settles its bids in the
// same transaction: the assignee's pending bid is accepted, every other
// pending bid is rejected.
func (s *Store) AssignProject(ctx context.Context, projectID, assigneeID string, now time.Time) error {
	return s.WithTx(ctx, func(tx pgx.Tx) error {
		tag, err := tx.Exec(ctx, `
			UPDATE projects SET assigned_to = $2, status = 'assigned', updated_at = $3 WHERE id = $1
		`, projectID, assigneeID, now)
		if err != nil {
			return mapErr(err)
		}
		if tag.RowsAffected() == 0 {
			return ErrNotFound
		}
		if _, err := tx.Exec(ctx, `
			UPDATE bids SET status = 'accepted', updated_at = $3
			WHERE project_id = $1 AND vendor_id = $2 AND status = 'pending'
		`, projectID, assigneeID, now); err != nil {
			return mapErr(err)
		}
		_, err = tx.Exec(ctx, `
			UPDATE bids SET status = 'rejected', updated_at = $3
			WHERE project_id = $1 AND vendor_id <> $2 AND status = 'pending'
		`, projectID, assigneeID, now)
		return mapErr(err)
	})
}
