package repository

import (
	"context"
	"encoding/json"
	"time"

	"github.com/jackc/pgx/v5"

	"panelhub/server/internal/model"
)

const responseColumns = `
	id, survey_id, respondent_id, status, answers,
	started_at, completed_at, points_awarded, qualified`

func scanResponse(row pgx.Row) (model.SurveyResponse, error) {
	var resp model.SurveyResponse
	err := row.Scan(
		&resp.ID,
		&resp.SurveyID,
		&resp.RespondentID,
		&resp.Status,
		&resp.Answers,
		&resp.StartedAt,
		&resp.CompletedAt,
		&resp.PointsAwarded,
		&resp.Qualified,
	)
	return resp, mapErr(err)
}

func (s *Store) CreateResponse(ctx context.Context, resp model.SurveyResponse) error {
	_, err := s.pool.Exec(ctx, `
		INSERT INTO survey_responses (id, survey_id, respondent_id, status, answers, started_at)
		VALUES ($1, $2, $3, $4, $5, $6)
	`, resp.ID, resp.SurveyID, resp.RespondentID, resp.Status, resp.Answers, resp.StartedAt)
	return mapErr(err)
}

func (s *Store) GetResponse(ctx context.Context, responseID string) (model.SurveyResponse, error) {
	row := s.pool.QueryRow(ctx, `SELECT `+responseColumns+` FROM survey_responses WHERE id = $1`, responseID)
	return scanResponse(row)
}

func (s *Store) GetInProgressResponse(ctx context.Context, surveyID, respondentID string) (model.SurveyResponse, error) {
	row := s.pool.QueryRow(ctx, `
		SELECT `+responseColumns+`
		FROM survey_responses
		WHERE survey_id = $1 AND respondent_id = $2 AND status = 'in_progress'
	`, surveyID, respondentID)
	return scanResponse(row)
}

// SaveAnswers only touches rows still in progress. A zero-row result
// means the response has already reached a terminal state.
func (s *Store) SaveAnswers(ctx context.Context, responseID string, answers json.RawMessage) error {
	tag, err := s.pool.Exec(ctx, `
		UPDATE survey_responses SET answers = $2
		WHERE id = $1 AND status = 'in_progress'
	`, responseID, answers)
	if err != nil {
		return mapErr(err)
	}
	if tag.RowsAffected() == 0 {
		return ErrConflict
	}
	return nil
}

// CompleteResponse flips the row out of in_progress and, when the
// respondent qualified, credits the reward and bumps the survey's
// response counter in the same transaction. The status flip is a
// conditional update so a response completes at most once.
func (s *Store) CompleteResponse(ctx context.Context, responseID string, qualified bool, answers json.RawMessage, points int, now time.Time) error {
	status := model.ResponseStatusDisqualified
	awarded := 0
	if qualified {
		status = model.ResponseStatusCompleted
		awarded = points
	}
	return s.WithTx(ctx, func(tx pgx.Tx) error {
		var surveyID, respondentID string
		row := tx.QueryRow(ctx, `
			UPDATE survey_responses
			SET status = $2, completed_at = $3, points_awarded = $4, qualified = $5,
				answers = CASE WHEN $6::jsonb IS NULL THEN answers ELSE $6::jsonb END
			WHERE id = $1 AND status = 'in_progress'
			RETURNING survey_id, respondent_id
		`, responseID, status, now, awarded, qualified, answers)
		if err := row.Scan(&surveyID, &respondentID); err != nil {
			if mapErr(err) == ErrNotFound {
				return ErrConflict
			}
			return mapErr(err)
		}
		if _, err := tx.Exec(ctx, `
			UPDATE surveys SET response_count = response_count + 1, updated_at = $2 WHERE id = $1
		`, surveyID, now); err != nil {
			return mapErr(err)
		}
		if qualified && awarded > 0 {
			if _, err := tx.Exec(ctx, `
				UPDATE users SET points = points + $2, total_points = total_points + $2, updated_at = $3
				WHERE id = $1
			`, respondentID, awarded, now); err != nil {
				return mapErr(err)
			}
		}
		return nil
	})
}

func (s *Store) ListResponsesByUser(ctx context.Context, userID string, limit int) ([]model.SurveyResponse, error) {
	return s.listResponses(ctx, `
		SELECT `+responseColumns+`
		FROM survey_responses
		WHERE respondent_id = $1
		ORDER BY started_at DESC
		LIMIT $2
	`, userID, limit)
}

func (s *Store) ListResponsesBySurvey(ctx context.Context, surveyID string) ([]model.SurveyResponse, error) {
	return s.listResponses(ctx, `
		SELECT `+responseColumns+`
		FROM survey_responses
		WHERE survey_id = $1
		ORDER BY started_at DESC
	`, surveyID)
}

func (s *Store) listResponses(ctx context.Context, sql string, args ...interface{}) ([]model.SurveyResponse, error) {
	rows, err := s.pool.Query(ctx, sql, args...)
	if err != nil {
		return nil, mapErr(err)
	}
	defer rows.Close()

	var responses []model.SurveyResponse
	for rows.Next() {
		resp, err := scanResponse(rows)
		if err != nil {
			return nil, err
		}
		responses = append(responses, resp)
	}
	return responses, mapErr(rows.Err())
}

func (s *Store) CountResponsesByUser(ctx context.Context, userID, status string) (int, error) {
	var count int
	err := s.pool.QueryRow(ctx, `
		SELECT count(*) FROM survey_responses
		WHERE respondent_id = $1 AND ($2 = '' OR status = $2)
	`, userID, status).Scan(&count)
	return count, mapErr(err)
}
