package storage

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/google/uuid"

	"recruit-api/internal/common"
	"recruit-api/internal/domain"
)

const interviewColumns = `i.id, i.application_id, a.job_id, i.scheduled_time, i.scheduling_token, i.is_scheduled`

func scanInterview(row rowScanner) (*domain.Interview, error) {
	var (
		iv        domain.Interview
		scheduled sql.NullTime
	)
	if err := row.Scan(&iv.ID, &iv.ApplicationID, &iv.JobID, &scheduled, &iv.SchedulingToken, &iv.IsScheduled); err != nil {
		return nil, err
	}
	if scheduled.Valid {
		at := scheduled.Time.UTC()
		iv.ScheduledTime = &at
	}
	return &iv, nil
}

func (db *DB) FindUnscheduledInterview(ctx context.Context, token uuid.UUID) (*domain.Interview, error) {
	row := db.connection.QueryRowContext(ctx, `SELECT `+interviewColumns+`
		FROM interviews i
		JOIN applications a ON a.id = i.application_id
		WHERE i.scheduling_token = $1 AND NOT i.is_scheduled`, token.String())
	iv, err := scanInterview(row)
	if err != nil {
		return nil, classify(err, "interview")
	}
	return iv, nil
}

var (
	_ domain.Store = (*DB)(nil)
	_ domain.Tx    = (*pgTx)(nil)
)

// pgTx implements domain.Tx on top of one *sql.Tx.
type pgTx struct {
	tx *sql.Tx
}

func (t *pgTx) LockApplicationForRecruiter(ctx context.Context, applicationID, recruiterID int64) (*domain.Application, error) {
	row := t.tx.QueryRowContext(ctx, `SELECT `+applicationColumns+`
		FROM applications a
		JOIN jobs j ON j.id = a.job_id
		WHERE a.id = $1 AND j.recruiter_id = $2
		FOR UPDATE OF a`, applicationID, recruiterID)
	app, err := scanApplication(row)
	if err != nil {
		return nil, classify(err, "application")
	}
	return app, nil
}

func (t *pgTx) UpdateApplicationStatus(ctx context.Context, applicationID int64, status domain.Status) error {
	if !status.Valid() {
		return common.NewError(common.CodeInvalidArgument, "unknown status "+string(status), nil)
	}
	res, err := t.tx.ExecContext(ctx, `UPDATE applications SET status = $1 WHERE id = $2`, status, applicationID)
	if err != nil {
		return classify(err, "application")
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return common.NewError(common.CodeNotFound, "application not found", nil)
	}
	return nil
}

func (t *pgTx) GetOrCreateInterview(ctx context.Context, applicationID int64) (*domain.Interview, bool, error) {
	row := t.tx.QueryRowContext(ctx, `WITH inserted AS (
			INSERT INTO interviews (application_id, scheduling_token, is_scheduled)
			VALUES ($1, $2, FALSE)
			ON CONFLICT (application_id) DO NOTHING
			RETURNING id, application_id, scheduled_time, scheduling_token, is_scheduled
		)
		SELECT `+interviewColumns+`
		FROM inserted i
		JOIN applications a ON a.id = i.application_id`, applicationID, domain.NewSchedulingToken().String())
	iv, err := scanInterview(row)
	if err == nil {
		return iv, true, nil
	}
	if !errors.Is(err, sql.ErrNoRows) {
		return nil, false, classify(err, "interview")
	}

	row = t.tx.QueryRowContext(ctx, `SELECT `+interviewColumns+`
		FROM interviews i
		JOIN applications a ON a.id = i.application_id
		WHERE i.application_id = $1`, applicationID)
	iv, err = scanInterview(row)
	if err != nil {
		return nil, false, classify(err, "interview")
	}
	return iv, false, nil
}

func (t *pgTx) LockUnscheduledInterview(ctx context.Context, token uuid.UUID) (*domain.Interview, error) {
	row := t.tx.QueryRowContext(ctx, `SELECT `+interviewColumns+`
		FROM interviews i
		JOIN applications a ON a.id = i.application_id
		WHERE i.scheduling_token = $1 AND NOT i.is_scheduled
		FOR UPDATE OF i`, token.String())
	iv, err := scanInterview(row)
	if err != nil {
		return nil, classify(err, "interview")
	}
	return iv, nil
}

func (t *pgTx) LockJob(ctx context.Context, jobID int64) error {
	var id int64
	err := t.tx.QueryRowContext(ctx, `SELECT id FROM jobs WHERE id = $1 FOR UPDATE`, jobID).Scan(&id)
	return classify(err, "job")
}

func (t *pgTx) CountScheduledBetween(ctx context.Context, jobID, excludeInterviewID int64, from, to time.Time) (int, error) {
	var n int
	err := t.tx.QueryRowContext(ctx, `SELECT COUNT(*)
		FROM interviews i
		JOIN applications a ON a.id = i.application_id
		WHERE a.job_id = $1
		  AND i.id <> $2
		  AND i.is_scheduled
		  AND i.scheduled_time BETWEEN $3 AND $4`, jobID, excludeInterviewID, from.UTC(), to.UTC()).Scan(&n)
	if err != nil {
		return 0, classify(err, "interviews")
	}
	return n, nil
}

func (t *pgTx) MarkInterviewScheduled(ctx context.Context, interviewID int64, at time.Time) error {
	res, err := t.tx.ExecContext(ctx, `UPDATE interviews
		SET scheduled_time = $1, is_scheduled = TRUE
		WHERE id = $2 AND NOT is_scheduled`, at.UTC(), interviewID)
	if err != nil {
		return classify(err, "interview")
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return common.NewError(common.CodeNotFound, "interview not found", nil)
	}
	return nil
}
