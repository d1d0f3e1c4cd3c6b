package storage

import (
	"context"
	"fmt"
)

// schema is idempotent; Migrate runs it on every start when enabled.
var schema = []string{
	`CREATE TABLE IF NOT EXISTS users (
		id BIGSERIAL PRIMARY KEY,
		username VARCHAR(150) NOT NULL,
		email VARCHAR(254) NOT NULL UNIQUE,
		user_type VARCHAR(10) NOT NULL DEFAULT 'applicant'
			CHECK (user_type IN ('recruiter', 'applicant'))
	)`,
	`CREATE TABLE IF NOT EXISTS recruiter_profiles (
		id BIGSERIAL PRIMARY KEY,
		user_id BIGINT NOT NULL UNIQUE REFERENCES users(id) ON DELETE CASCADE,
		company_name VARCHAR(255) NOT NULL
	)`,
	`CREATE TABLE IF NOT EXISTS applicant_profiles (
		id BIGSERIAL PRIMARY KEY,
		user_id BIGINT NOT NULL UNIQUE REFERENCES users(id) ON DELETE CASCADE,
		resume VARCHAR(100) NOT NULL DEFAULT '',
		skills TEXT NOT NULL DEFAULT ''
	)`,
	`CREATE TABLE IF NOT EXISTS jobs (
		id BIGSERIAL PRIMARY KEY,
		recruiter_id BIGINT NOT NULL REFERENCES recruiter_profiles(id) ON DELETE CASCADE,
		title VARCHAR(255) NOT NULL,
		description TEXT NOT NULL DEFAULT '',
		location VARCHAR(255) NOT NULL DEFAULT '',
		created_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
	)`,
	`CREATE TABLE IF NOT EXISTS applications (
		id BIGSERIAL PRIMARY KEY,
		job_id BIGINT NOT NULL REFERENCES jobs(id) ON DELETE CASCADE,
		applicant_id BIGINT NOT NULL REFERENCES applicant_profiles(id) ON DELETE CASCADE,
		status VARCHAR(20) NOT NULL DEFAULT 'submitted'
			CHECK (status IN ('submitted', 'reviewed', 'interview_pending', 'interview_scheduled', 'interview', 'offered', 'rejected')),
		applied_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
		CONSTRAINT applications_job_applicant_key UNIQUE (job_id, applicant_id)
	)`,
	`CREATE TABLE IF NOT EXISTS interviews (
		id BIGSERIAL PRIMARY KEY,
		application_id BIGINT NOT NULL UNIQUE REFERENCES applications(id) ON DELETE CASCADE,
		scheduled_time TIMESTAMPTZ NULL,
		scheduling_token UUID NOT NULL UNIQUE,
		is_scheduled BOOLEAN NOT NULL DEFAULT FALSE,
		CONSTRAINT interviews_scheduled_consistency CHECK ((scheduled_time IS NOT NULL) = is_scheduled)
	)`,
	`CREATE INDEX IF NOT EXISTS applications_job_id_idx ON applications (job_id)`,
	`CREATE INDEX IF NOT EXISTS interviews_scheduled_time_idx ON interviews (scheduled_time) WHERE is_scheduled`,
}

func (db *DB) Migrate(ctx context.Context) error {
	for i, stmt := range schema {
		if _, err := db.connection.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("migrate step %d: %w", i+1, err)
		}
	}
	return nil
}
