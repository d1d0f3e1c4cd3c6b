package domain

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// Store is the persistence contract of the core. Implementations report
// missing rows as common.CodeNotFound and uniqueness violations as
// common.CodeConflict.
type Store interface {
	// InTx runs fn in one transaction; it commits when fn returns nil.
	InTx(ctx context.Context, fn func(ctx context.Context, tx Tx) error) error

	GetApplication(ctx context.Context, id int64) (*Application, error)
	CreateApplication(ctx context.Context, jobID, applicantID int64) (*Application, error)
	GetJob(ctx context.Context, id int64) (*Job, error)
	FindUnscheduledInterview(ctx context.Context, token uuid.UUID) (*Interview, error)
	ApplicationContact(ctx context.Context, applicationID int64) (*ApplicationContact, error)
}

// Tx holds row locks until the surrounding InTx returns.
type Tx interface {
	// LockApplicationForRecruiter returns the application only when its job is
	// owned by recruiterID.
	LockApplicationForRecruiter(ctx context.Context, applicationID, recruiterID int64) (*Application, error)
	UpdateApplicationStatus(ctx context.Context, applicationID int64, status Status) error
	// GetOrCreateInterview reports whether the interview was created.
	GetOrCreateInterview(ctx context.Context, applicationID int64) (*Interview, bool, error)

	LockUnscheduledInterview(ctx context.Context, token uuid.UUID) (*Interview, error)
	// LockJob serializes every scheduling transaction for one job.
	LockJob(ctx context.Context, jobID int64) error
	// CountScheduledBetween counts scheduled interviews of jobID, other than
	// excludeInterviewID, with from <= scheduled_time <= to.
	CountScheduledBetween(ctx context.Context, jobID, excludeInterviewID int64, from, to time.Time) (int, error)
	MarkInterviewScheduled(ctx context.Context, interviewID int64, at time.Time) error
}
