package repository

import (
	"context"
	"time"
)

type MonthlyPoint struct {
	Month string
	Value int
}

type PanelistMonthly struct {
	Points  []MonthlyPoint
	Surveys []MonthlyPoint
	Rewards []MonthlyPoint
}

// GetPanelistMonthly aggregates the caller's last n months of points
// earned, surveys completed, and rewards redeemed. Months with no
// activity are filled with zeroes so the series always has n entries.
func (s *Store) GetPanelistMonthly(ctx context.Context, userID string, months int, now time.Time) (PanelistMonthly, error) {
	since := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, time.UTC).AddDate(0, -(months - 1), 0)

	points, err := s.countGroups(ctx, `
		SELECT to_char(date_trunc('month', completed_at), 'YYYY-MM'), coalesce(sum(points_awarded), 0)
		FROM survey_responses
		WHERE respondent_id = $1 AND status = 'completed' AND completed_at >= $2
		GROUP BY 1
	`, userID, since)
	if err != nil {
		return PanelistMonthly{}, err
	}
	surveys, err := s.countGroups(ctx, `
		SELECT to_char(date_trunc('month', completed_at), 'YYYY-MM'), count(*)
		FROM survey_responses
		WHERE respondent_id = $1 AND status = 'completed' AND completed_at >= $2
		GROUP BY 1
	`, userID, since)
	if err != nil {
		return PanelistMonthly{}, err
	}
	rewards, err := s.countGroups(ctx, `
		SELECT to_char(date_trunc('month', created_at), 'YYYY-MM'), count(*)
		FROM reward_redemptions
		WHERE user_id = $1 AND created_at >= $2
		GROUP BY 1
	`, userID, since)
	if err != nil {
		return PanelistMonthly{}, err
	}

	return PanelistMonthly{
		Points:  fillMonths(points, since, months),
		Surveys: fillMonths(surveys, since, months),
		Rewards: fillMonths(rewards, since, months),
	}, nil
}

// countGroups runs a two-column (label, count) aggregate into a map.
func (s *Store) countGroups(ctx context.Context, sql string, args ...interface{}) (map[string]int, error) {
	rows, err := s.pool.Query(ctx, sql, args...)
	if err != nil {
		return nil, mapErr(err)
	}
	defer rows.Close()

	series := make(map[string]int)
	for rows.Next() {
		var month string
		var value int
		if err := rows.Scan(&month, &value); err != nil {
			return nil, mapErr(err)
		}
		series[month] = value
	}
	return series, mapErr(rows.Err())
}

func fillMonths(series map[string]int, since time.Time, months int) []MonthlyPoint {
	out := make([]MonthlyPoint, 0, months)
	for i := 0; i < months; i++ {
		month := since.AddDate(0, i, 0).Format("2006-01")
		out = append(out, MonthlyPoint{Month: month, Value: series[month]})
	}
	return out
}

type PanelistDemographics struct {
	Gender    map[string]int
	Country   map[string]int
	Education map[string]int
}

// GetPanelistDemographics groups active panelists by the main profile
// dimensions. Unset fields land in the "unknown" bucket.
func (s *Store) GetPanelistDemographics(ctx context.Context) (PanelistDemographics, error) {
	var d PanelistDemographics
	var err error
	if d.Gender, err = s.countGroups(ctx, `
		SELECT coalesce(nullif(gender, ''), 'unknown'), count(*)
		FROM users WHERE role = 'panelist' AND is_active GROUP BY 1
	`); err != nil {
		return PanelistDemographics{}, err
	}
	if d.Country, err = s.countGroups(ctx, `
		SELECT coalesce(nullif(country, ''), 'unknown'), count(*)
		FROM users WHERE role = 'panelist' AND is_active GROUP BY 1
	`); err != nil {
		return PanelistDemographics{}, err
	}
	if d.Education, err = s.countGroups(ctx, `
		SELECT coalesce(nullif(education, ''), 'unknown'), count(*)
		FROM users WHERE role = 'panelist' AND is_active GROUP BY 1
	`); err != nil {
		return PanelistDemographics{}, err
	}
	return d, nil
}

type PanelistStats struct {
	Points            int
	TotalPoints       int
	SurveysCompleted  int
	SurveysInProgress int
	Redemptions       int
}

func (s *Store) GetPanelistStats(ctx context.Context, panelistID string) (PanelistStats, error) {
	var st PanelistStats
	err := s.pool.QueryRow(ctx, `
		SELECT u.points, u.total_points,
			(SELECT count(*) FROM survey_responses WHERE respondent_id = u.id AND status = 'completed'),
			(SELECT count(*) FROM survey_responses WHERE respondent_id = u.id AND status = 'in_progress'),
			(SELECT count(*) FROM reward_redemptions WHERE user_id = u.id)
		FROM users u WHERE u.id = $1
	`, panelistID).Scan(&st.Points, &st.TotalPoints, &st.SurveysCompleted, &st.SurveysInProgress, &st.Redemptions)
	return st, mapErr(err)
}

type UsersOverview struct {
	ByRole           map[string]int
	ActiveUsers      int
	VerifiedUsers    int
	TotalSurveys     int
	TotalResponses   int
	TotalRedemptions int
}

func (s *Store) GetUsersOverview(ctx context.Context) (UsersOverview, error) {
	byRole, err := s.countGroups(ctx, `SELECT role, count(*) FROM users GROUP BY role`)
	if err != nil {
		return UsersOverview{}, err
	}
	o := UsersOverview{ByRole: byRole}
	err = s.pool.QueryRow(ctx, `
		SELECT
			(SELECT count(*) FROM users WHERE is_active),
			(SELECT count(*) FROM users WHERE is_email_verified),
			(SELECT count(*) FROM surveys),
			(SELECT count(*) FROM survey_responses WHERE status = 'completed'),
			(SELECT count(*) FROM reward_redemptions)
	`).Scan(&o.ActiveUsers, &o.VerifiedUsers, &o.TotalSurveys, &o.TotalResponses, &o.TotalRedemptions)
	if err != nil {
		return UsersOverview{}, mapErr(err)
	}
	return o, nil
}
