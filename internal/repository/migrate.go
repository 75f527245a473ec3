package repository

import "context"

// Migrate applies the schema idempotently at startup.
func (s *Store) Migrate(ctx context.Context) error {
	statements := []string{
		`CREATE TABLE IF NOT EXISTS users (
			id UUID PRIMARY KEY,
			email TEXT NOT NULL,
			password_hash TEXT NOT NULL,
			first_name TEXT NOT NULL DEFAULT '',
			last_name TEXT NOT NULL DEFAULT '',
			role TEXT NOT NULL DEFAULT 'panelist',
			is_active BOOLEAN NOT NULL DEFAULT TRUE,
			is_email_verified BOOLEAN NOT NULL DEFAULT FALSE,
			otp_hash TEXT,
			otp_purpose TEXT,
			otp_expires_at TIMESTAMPTZ,
			points INTEGER NOT NULL DEFAULT 0,
			total_points INTEGER NOT NULL DEFAULT 0,
			phone TEXT,
			date_of_birth TIMESTAMPTZ,
			gender TEXT,
			country TEXT,
			city TEXT,
			occupation TEXT,
			education TEXT,
			employment TEXT,
			industry TEXT,
			income_range TEXT,
			household_size INTEGER,
			marital_status TEXT,
			language TEXT,
			interests TEXT[] NOT NULL DEFAULT '{}',
			email_notifications BOOLEAN NOT NULL DEFAULT TRUE,
			survey_invites BOOLEAN NOT NULL DEFAULT TRUE,
			marketing_emails BOOLEAN NOT NULL DEFAULT FALSE,
			profile_visibility TEXT NOT NULL DEFAULT 'private',
			show_activity BOOLEAN NOT NULL DEFAULT FALSE,
			allow_data_sharing BOOLEAN NOT NULL DEFAULT FALSE,
			password_changed_at TIMESTAMPTZ,
			created_at TIMESTAMPTZ NOT NULL DEFAULT now(),
			updated_at TIMESTAMPTZ NOT NULL DEFAULT now()
		)`,
		`CREATE UNIQUE INDEX IF NOT EXISTS users_email_key ON users (lower(email))`,
		`CREATE TABLE IF NOT EXISTS user_sessions (
			id UUID PRIMARY KEY,
			user_id UUID NOT NULL REFERENCES users(id) ON DELETE CASCADE,
			token_hash TEXT NOT NULL,
			user_agent TEXT,
			ip_address TEXT,
			issued_at TIMESTAMPTZ NOT NULL,
			expires_at TIMESTAMPTZ NOT NULL,
			last_used_at TIMESTAMPTZ NOT NULL,
			is_active BOOLEAN NOT NULL DEFAULT TRUE
		)`,
		`CREATE INDEX IF NOT EXISTS user_sessions_user_idx ON user_sessions (user_id)`,
		`CREATE TABLE IF NOT EXISTS user_activity (
			id UUID PRIMARY KEY,
			user_id UUID NOT NULL REFERENCES users(id) ON DELETE CASCADE,
			action TEXT NOT NULL,
			detail TEXT,
			created_at TIMESTAMPTZ NOT NULL DEFAULT now()
		)`,
		`CREATE INDEX IF NOT EXISTS user_activity_user_idx ON user_activity (user_id, created_at DESC)`,
		`CREATE TABLE IF NOT EXISTS vendors (
			id UUID PRIMARY KEY,
			email TEXT NOT NULL,
			password_hash TEXT NOT NULL,
			name TEXT NOT NULL,
			company TEXT,
			phone TEXT,
			website TEXT,
			status TEXT NOT NULL DEFAULT 'pending_verification',
			otp_hash TEXT,
			otp_expires_at TIMESTAMPTZ,
			description TEXT,
			services TEXT[] NOT NULL DEFAULT '{}',
			industries TEXT[] NOT NULL DEFAULT '{}',
			founded_year INTEGER,
			employee_count INTEGER,
			certifications TEXT[] NOT NULL DEFAULT '{}',
			created_at TIMESTAMPTZ NOT NULL DEFAULT now(),
			updated_at TIMESTAMPTZ NOT NULL DEFAULT now()
		)`,
		`CREATE UNIQUE INDEX IF NOT EXISTS vendors_email_key ON vendors (lower(email))`,
		`CREATE TABLE IF NOT EXISTS surveys (
			id UUID PRIMARY KEY,
			created_by UUID NOT NULL REFERENCES users(id) ON DELETE CASCADE,
			title TEXT NOT NULL,
			description TEXT NOT NULL DEFAULT '',
			questions JSONB NOT NULL DEFAULT '[]',
			target_criteria JSONB NOT NULL DEFAULT '{}',
			reward_points INTEGER NOT NULL DEFAULT 0,
			estimated_minutes INTEGER NOT NULL DEFAULT 0,
			status TEXT NOT NULL DEFAULT 'draft',
			response_count INTEGER NOT NULL DEFAULT 0,
			max_responses INTEGER,
			created_at TIMESTAMPTZ NOT NULL DEFAULT now(),
			updated_at TIMESTAMPTZ NOT NULL DEFAULT now()
		)`,
		`CREATE INDEX IF NOT EXISTS surveys_status_idx ON surveys (status)`,
		`CREATE TABLE IF NOT EXISTS survey_responses (
			id UUID PRIMARY KEY,
			survey_id UUID NOT NULL REFERENCES surveys(id) ON DELETE CASCADE,
			respondent_id UUID NOT NULL REFERENCES users(id) ON DELETE CASCADE,
			status TEXT NOT NULL DEFAULT 'in_progress',
			answers JSONB NOT NULL DEFAULT '{}',
			started_at TIMESTAMPTZ NOT NULL,
			completed_at TIMESTAMPTZ,
			points_awarded INTEGER NOT NULL DEFAULT 0,
			qualified BOOLEAN
		)`,
		`CREATE UNIQUE INDEX IF NOT EXISTS survey_responses_in_progress_key
			ON survey_responses (survey_id, respondent_id)
			WHERE status = 'in_progress'`,
		`CREATE INDEX IF NOT EXISTS survey_responses_respondent_idx ON survey_responses (respondent_id, started_at DESC)`,
		`CREATE TABLE IF NOT EXISTS rewards (
			id UUID PRIMARY KEY,
			name TEXT NOT NULL,
			description TEXT NOT NULL DEFAULT '',
			points_cost INTEGER NOT NULL,
			category TEXT NOT NULL DEFAULT 'general',
			is_active BOOLEAN NOT NULL DEFAULT TRUE,
			created_at TIMESTAMPTZ NOT NULL DEFAULT now(),
			updated_at TIMESTAMPTZ NOT NULL DEFAULT now()
		)`,
		`CREATE TABLE IF NOT EXISTS reward_redemptions (
			id UUID PRIMARY KEY,
			reward_id UUID NOT NULL REFERENCES rewards(id) ON DELETE CASCADE,
			user_id UUID NOT NULL REFERENCES users(id) ON DELETE CASCADE,
			points_spent INTEGER NOT NULL,
			status TEXT NOT NULL DEFAULT 'pending',
			created_at TIMESTAMPTZ NOT NULL DEFAULT now(),
			updated_at TIMESTAMPTZ NOT NULL DEFAULT now()
		)`,
		`CREATE INDEX IF NOT EXISTS reward_redemptions_user_idx ON reward_redemptions (user_id, created_at DESC)`,
		`CREATE TABLE IF NOT EXISTS projects (
			id UUID PRIMARY KEY,
			posted_by UUID NOT NULL REFERENCES vendors(id) ON DELETE CASCADE,
			assigned_to UUID REFERENCES vendors(id) ON DELETE SET NULL,
			title TEXT NOT NULL,
			description TEXT NOT NULL DEFAULT '',
			budget NUMERIC NOT NULL DEFAULT 0,
			deadline TIMESTAMPTZ,
			status TEXT NOT NULL DEFAULT 'open',
			category TEXT NOT NULL DEFAULT 'General',
			target_audience TEXT NOT NULL DEFAULT 'General Population',
			sample_size INTEGER NOT NULL DEFAULT 100,
			cpi NUMERIC NOT NULL DEFAULT 0,
			loi INTEGER NOT NULL DEFAULT 0,
			ir INTEGER NOT NULL DEFAULT 0,
			currency TEXT NOT NULL DEFAULT 'USD',
			timeline TEXT NOT NULL DEFAULT '',
			requirements TEXT NOT NULL DEFAULT '',
			deliverables TEXT NOT NULL DEFAULT '',
			survey_type TEXT NOT NULL DEFAULT 'Online',
			quota_requirements TEXT NOT NULL DEFAULT '',
			quality_checks TEXT NOT NULL DEFAULT '',
			data_format TEXT NOT NULL DEFAULT 'SPSS',
			reporting_requirements TEXT NOT NULL DEFAULT '',
			special_instructions TEXT NOT NULL DEFAULT '',
			created_at TIMESTAMPTZ NOT NULL DEFAULT now(),
			updated_at TIMESTAMPTZ NOT NULL DEFAULT now()
		)`,
		`CREATE INDEX IF NOT EXISTS projects_status_idx ON projects (status, created_at DESC)`,
		`CREATE TABLE IF NOT EXISTS bids (
			id UUID PRIMARY KEY,
			project_id UUID NOT NULL REFERENCES projects(id) ON DELETE CASCADE,
			vendor_id UUID NOT NULL REFERENCES vendors(id) ON DELETE CASCADE,
			bid_amount NUMERIC NOT NULL,
			message TEXT,
			status TEXT NOT NULL DEFAULT 'pending',
			created_at TIMESTAMPTZ NOT NULL DEFAULT now(),
			updated_at TIMESTAMPTZ NOT NULL DEFAULT now(),
			UNIQUE (project_id, vendor_id)
		)`,
		`CREATE TABLE IF NOT EXISTS messages (
			id UUID PRIMARY KEY,
			project_id UUID NOT NULL REFERENCES projects(id) ON DELETE CASCADE,
			sender_id UUID NOT NULL REFERENCES vendors(id) ON DELETE CASCADE,
			receiver_id UUID NOT NULL REFERENCES vendors(id) ON DELETE CASCADE,
			body TEXT NOT NULL,
			sent_at TIMESTAMPTZ NOT NULL DEFAULT now()
		)`,
		`CREATE INDEX IF NOT EXISTS messages_project_idx ON messages (project_id, sent_at)`,
		`CREATE TABLE IF NOT EXISTS support_tickets (
			id UUID PRIMARY KEY,
			user_id UUID NOT NULL REFERENCES users(id) ON DELETE CASCADE,
			category TEXT NOT NULL,
			priority TEXT NOT NULL,
			subject TEXT NOT NULL,
			message TEXT NOT NULL,
			status TEXT NOT NULL DEFAULT 'open',
			created_at TIMESTAMPTZ NOT NULL DEFAULT now()
		)`,
		`CREATE TABLE IF NOT EXISTS system_settings (
			id INTEGER PRIMARY KEY CHECK (id = 1),
			site_name TEXT NOT NULL DEFAULT 'PanelHub',
			support_email TEXT NOT NULL DEFAULT 'support@panelhub.example',
			maintenance_mode BOOLEAN NOT NULL DEFAULT FALSE,
			min_redemption_points INTEGER NOT NULL DEFAULT 100,
			updated_at TIMESTAMPTZ NOT NULL DEFAULT now()
		)`,
		`INSERT INTO system_settings (id) VALUES (1) ON CONFLICT (id) DO NOTHING`,
	}

	for _, stmt := range statements {
		if _, err := s.pool.Exec(ctx, stmt); err != nil {
			return err
		}
	}
	return nil
}
