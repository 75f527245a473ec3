package repository

import (
	"context"
	"time"

	"github.com/jackc/pgx/v5"

	"panelhub/server/internal/model"
)

const surveyColumns = `
	id, created_by, title, description, questions, target_criteria,
	reward_points, estimated_minutes, status, response_count, max_responses,
	created_at, updated_at`

func scanSurvey(row pgx.Row) (model.Survey, error) {
	var sv model.Survey
	err := row.Scan(
		&sv.ID,
		&sv.CreatedBy,
		&sv.Title,
		&sv.Description,
		&sv.Questions,
		&sv.TargetCriteria,
		&sv.RewardPoints,
		&sv.EstimatedMinutes,
		&sv.Status,
		&sv.ResponseCount,
		&sv.MaxResponses,
		&sv.CreatedAt,
		&sv.UpdatedAt,
	)
	return sv, mapErr(err)
}

func (s *Store) CreateSurvey(ctx context.Context, sv model.Survey) error {
	_, err := s.pool.Exec(ctx, `
		INSERT INTO surveys (id, created_by, title, description, questions, target_criteria,
			reward_points, estimated_minutes, status, max_responses, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $11)
	`, sv.ID, sv.CreatedBy, sv.Title, sv.Description, sv.Questions, sv.TargetCriteria,
		sv.RewardPoints, sv.EstimatedMinutes, sv.Status, sv.MaxResponses, sv.CreatedAt)
	return mapErr(err)
}

func (s *Store) GetSurvey(ctx context.Context, surveyID string) (model.Survey, error) {
	row := s.pool.QueryRow(ctx, `SELECT `+surveyColumns+` FROM surveys WHERE id = $1`, surveyID)
	return scanSurvey(row)
}

func (s *Store) ListActiveSurveys(ctx context.Context) ([]model.Survey, error) {
	return s.listSurveys(ctx, `WHERE status = 'active' ORDER BY created_at DESC`)
}

func (s *Store) ListSurveysByCreator(ctx context.Context, creatorID string) ([]model.Survey, error) {
	return s.listSurveys(ctx, `WHERE created_by = $1 ORDER BY created_at DESC`, creatorID)
}

func (s *Store) ListAllSurveys(ctx context.Context) ([]model.Survey, error) {
	return s.listSurveys(ctx, `ORDER BY created_at DESC`)
}

func (s *Store) listSurveys(ctx context.Context, tail string, args ...interface{}) ([]model.Survey, error) {
	rows, err := s.pool.Query(ctx, `SELECT `+surveyColumns+` FROM surveys `+tail, args...)
	if err != nil {
		return nil, mapErr(err)
	}
	defer rows.Close()

	var surveys []model.Survey
	for rows.Next() {
		sv, err := scanSurvey(rows)
		if err != nil {
			return nil, err
		}
		surveys = append(surveys, sv)
	}
	return surveys, mapErr(rows.Err())
}

func (s *Store) UpdateSurvey(ctx context.Context, sv model.Survey, now time.Time) error {
	tag, err := s.pool.Exec(ctx, `
		UPDATE surveys SET title = $2, description = $3, questions = $4, target_criteria = $5,
			reward_points = $6, estimated_minutes = $7, max_responses = $8, updated_at = $9
		WHERE id = $1
	`, sv.ID, sv.Title, sv.Description, sv.Questions, sv.TargetCriteria,
		sv.RewardPoints, sv.EstimatedMinutes, sv.MaxResponses, now)
	if err != nil {
		return mapErr(err)
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

func (s *Store) SetSurveyStatus(ctx context.Context, surveyID, status string, now time.Time) error {
	tag, err := s.pool.Exec(ctx, `
		UPDATE surveys SET status = $2, updated_at = $3 WHERE id = $1
	`, surveyID, status, now)
	if err != nil {
		return mapErr(err)
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

func (s *Store) DeleteSurvey(ctx context.Context, surveyID string) error {
	tag, err := s.pool.Exec(ctx, `DELETE FROM surveys WHERE id = $1`, surveyID)
	if err != nil {
		return mapErr(err)
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}
