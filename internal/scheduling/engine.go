// Package scheduling validates and commits the interview time an applicant
// picks through a scheduling link.
package scheduling

import (
	"context"
	"log"
	"time"

	"github.com/google/uuid"

	"recruit-api/internal/common"
	"recruit-api/internal/domain"
	"recruit-api/internal/notify"
)

// DefaultConflictWindow is how close, on either side, another scheduled
// interview for the same job may not be.
const DefaultConflictWindow = 30 * time.Minute

type Publisher interface {
	Publish(cmd notify.Command) bool
}

type Engine struct {
	store     domain.Store
	publisher Publisher
	window    time.Duration
	now       func() time.Time
}

type Option func(*Engine)

// WithClock replaces time.Now.
func WithClock(now func() time.Time) Option {
	return func(e *Engine) { e.now = now }
}

func WithConflictWindow(window time.Duration) Option {
	return func(e *Engine) {
		if window > 0 {
			e.window = window
		}
	}
}

func NewEngine(store domain.Store, publisher Publisher, opts ...Option) *Engine {
	e := &Engine{
		store:     store,
		publisher: publisher,
		window:    DefaultConflictWindow,
		now:       time.Now,
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// LookupUnscheduled returns the interview for token while it is still
// unscheduled. A consumed token is reported exactly like an unknown one.
func (e *Engine) LookupUnscheduled(ctx context.Context, token uuid.UUID) (*domain.Interview, error) {
	interview, err := e.store.FindUnscheduledInterview(ctx, token)
	if err != nil {
		if common.Is(err, common.CodeNotFound) {
			return nil, errInvalidLink()
		}
		return nil, err
	}
	return interview, nil
}

// Schedule books proposed for the interview behind token.
//
// The conflict check and the commit run in one transaction that first locks
// the interview row and then the job row, so two schedules for the same job
// cannot both pass the check.
func (e *Engine) Schedule(ctx context.Context, token uuid.UUID, proposed time.Time) error {
	if _, err := e.LookupUnscheduled(ctx, token); err != nil {
		return err
	}
	if err := ValidateSlot(proposed, e.now()); err != nil {
		return err
	}

	var applicationID int64
	err := e.store.InTx(ctx, func(ctx context.Context, tx domain.Tx) error {
		interview, err := tx.LockUnscheduledInterview(ctx, token)
		if err != nil {
			if common.Is(err, common.CodeNotFound) {
				return errInvalidLink()
			}
			return err
		}
		if err := tx.LockJob(ctx, interview.JobID); err != nil {
			return err
		}

		conflicts, err := tx.CountScheduledBetween(ctx, interview.JobID, interview.ID, proposed.Add(-e.window), proposed.Add(e.window))
		if err != nil {
			return err
		}
		if conflicts > 0 {
			return common.NewError(common.CodeConflict, "this time slot is unavailable, please choose another time", nil)
		}

		if err := tx.MarkInterviewScheduled(ctx, interview.ID, proposed); err != nil {
			return err
		}
		applicationID = interview.ApplicationID
		return tx.UpdateApplicationStatus(ctx, interview.ApplicationID, domain.StatusInterviewScheduled)
	})
	if err != nil {
		return err
	}

	log.Printf("[Scheduling] Application %d scheduled at %s", applicationID, proposed.UTC().Format(time.RFC3339))
	if e.publisher != nil {
		e.publisher.Publish(notify.StatusUpdateRequested{ApplicationID: applicationID, Status: domain.StatusInterviewScheduled})
	}
	return nil
}

func errInvalidLink() error {
	return common.NewError(common.CodeNotFound, "invalid or expired scheduling link", nil)
}
