package storage

import (
	"context"

	"github.com/google/uuid"

	"recruit-api/internal/domain"
)

const applicationColumns = `a.id, a.job_id, a.applicant_id, j.recruiter_id, a.status, a.applied_at`

type rowScanner interface {
	Scan(dest ...any) error
}

func scanApplication(row rowScanner) (*domain.Application, error) {
	var app domain.Application
	if err := row.Scan(&app.ID, &app.JobID, &app.ApplicantID, &app.RecruiterID, &app.Status, &app.AppliedAt); err != nil {
		return nil, err
	}
	return &app, nil
}

func (db *DB) GetApplication(ctx context.Context, id int64) (*domain.Application, error) {
	row := db.connection.QueryRowContext(ctx, `SELECT `+applicationColumns+`
		FROM applications a
		JOIN jobs j ON j.id = a.job_id
		WHERE a.id = $1`, id)
	app, err := scanApplication(row)
	if err != nil {
		return nil, classify(err, "application")
	}
	return app, nil
}

func (db *DB) CreateApplication(ctx context.Context, jobID, applicantID int64) (*domain.Application, error) {
	row := db.connection.QueryRowContext(ctx, `WITH inserted AS (
			INSERT INTO applications (job_id, applicant_id, status, applied_at)
			VALUES ($1, $2, $3, NOW())
			RETURNING id, job_id, applicant_id, status, applied_at
		)
		SELECT a.id, a.job_id, a.applicant_id, j.recruiter_id, a.status, a.applied_at
		FROM inserted a
		JOIN jobs j ON j.id = a.job_id`, jobID, applicantID, domain.StatusSubmitted)
	app, err := scanApplication(row)
	if err != nil {
		return nil, classify(err, "application")
	}
	return app, nil
}

func (db *DB) GetJob(ctx context.Context, id int64) (*domain.Job, error) {
	var job domain.Job
	err := db.connection.QueryRowContext(ctx, `SELECT id, recruiter_id, title, description, location, created_at
		FROM jobs WHERE id = $1`, id).
		Scan(&job.ID, &job.RecruiterID, &job.Title, &job.Description, &job.Location, &job.CreatedAt)
	if err != nil {
		return nil, classify(err, "job")
	}
	return &job, nil
}

// ApplicationContact joins the applicant's email, the job title and the
// interview token, if one was issued.
func (db *DB) ApplicationContact(ctx context.Context, applicationID int64) (*domain.ApplicationContact, error) {
	var (
		contact domain.ApplicationContact
		token   uuid.NullUUID
	)
	err := db.connection.QueryRowContext(ctx, `SELECT a.id, u.email, j.title, a.status, i.scheduling_token
		FROM applications a
		JOIN applicant_profiles p ON p.id = a.applicant_id
		JOIN users u ON u.id = p.user_id
		JOIN jobs j ON j.id = a.job_id
		LEFT JOIN interviews i ON i.application_id = a.id
		WHERE a.id = $1`, applicationID).
		Scan(&contact.ApplicationID, &contact.ApplicantEmail, &contact.JobTitle, &contact.Status, &token)
	if err != nil {
		return nil, classify(err, "application")
	}
	if token.Valid {
		contact.SchedulingToken = &token.UUID
	}
	return &contact, nil
}

// ApplicationsMissingInterview lists invited applications that have no
// interview row, oldest first.
func (db *DB) ApplicationsMissingInterview(ctx context.Context, limit int) ([]int64, error) {
	rows, err := db.connection.QueryContext(ctx, `SELECT a.id
		FROM applications a
		LEFT JOIN interviews i ON i.application_id = a.id
		WHERE a.status = $1 AND i.id IS NULL
		ORDER BY a.applied_at
		LIMIT $2`, domain.StatusInterviewPending, limit)
	if err != nil {
		return nil, classify(err, "applications")
	}
	defer rows.Close()

	var ids []int64
	for rows.Next() {
		var id int64
		if err := rows.Scan(&id); err != nil {
			return nil, classify(err, "applications")
		}
		ids = append(ids, id)
	}
	return ids, rows.Err()
}
