// Package lifecycle owns recruiter-driven transitions of an application's
// status and the submission of new applications.
package lifecycle

import (
	"context"
	"fmt"
	"log"
	"strings"

	"recruit-api/internal/access"
	"recruit-api/internal/common"
	"recruit-api/internal/domain"
	"recruit-api/internal/notify"
)

// Action is a recruiter decision on an application.
type Action string

const (
	ActionInvite Action = "invite"
	ActionReject Action = "reject"
)

// Publisher accepts notification commands without blocking.
type Publisher interface {
	Publish(cmd notify.Command) bool
}

type Manager struct {
	store     domain.Store
	publisher Publisher
}

func NewManager(store domain.Store, publisher Publisher) *Manager {
	return &Manager{store: store, publisher: publisher}
}

// ParseAction normalizes raw request input into an Action.
func ParseAction(raw string) (Action, error) {
	action := Action(strings.ToLower(strings.TrimSpace(raw)))
	switch action {
	case ActionInvite, ActionReject:
		return action, nil
	default:
		return "", common.NewError(common.CodeInvalidArgument, "invalid action, must be 'invite' or 'reject'", nil)
	}
}

// Advance applies action to the application on behalf of caller. The
// application is looked up among the caller's own jobs only, so a caller
// that does not own it gets the same not-found error as for a missing id.
//
// On invite the interview and its scheduling token are created in the same
// transaction as the status change. Notifications are published after the
// commit and their outcome never affects the result.
func (m *Manager) Advance(ctx context.Context, applicationID int64, caller domain.Caller, action Action) error {
	action, err := ParseAction(string(action))
	if err != nil {
		return err
	}
	if !caller.IsRecruiter() {
		return errApplicationNotFound()
	}

	err = m.store.InTx(ctx, func(ctx context.Context, tx domain.Tx) error {
		app, err := tx.LockApplicationForRecruiter(ctx, applicationID, caller.RecruiterID)
		if err != nil {
			return err
		}
		if !access.OwnsJob(caller, app) {
			return errApplicationNotFound()
		}
		// Repeating a rejection is allowed; nothing else leaves a terminal status.
		if app.Status.Terminal() && !(action == ActionReject && app.Status == domain.StatusRejected) {
			return common.NewError(common.CodeInvalidArgument,
				fmt.Sprintf("application is already %s", app.Status), nil)
		}

		switch action {
		case ActionInvite:
			if err := tx.UpdateApplicationStatus(ctx, app.ID, domain.StatusInterviewPending); err != nil {
				return err
			}
			interview, created, err := tx.GetOrCreateInterview(ctx, app.ID)
			if err != nil {
				return err
			}
			if created {
				log.Printf("[Lifecycle] Created interview %d for application %d", interview.ID, app.ID)
			}
			return nil
		default:
			return tx.UpdateApplicationStatus(ctx, app.ID, domain.StatusRejected)
		}
	})
	if err != nil {
		return err
	}

	var cmd notify.Command
	if action == ActionInvite {
		cmd = notify.InterviewInvitationRequested{ApplicationID: applicationID}
	} else {
		cmd = notify.RejectionRequested{ApplicationID: applicationID}
	}
	m.publish(cmd)
	log.Printf("[Lifecycle] Application %d advanced with %s by recruiter %d", applicationID, action, caller.RecruiterID)
	return nil
}

// Submit records caller's application to jobID with status submitted.
func (m *Manager) Submit(ctx context.Context, caller domain.Caller, jobID int64) (*domain.Application, error) {
	if !caller.IsApplicant() {
		return nil, common.NewError(common.CodeForbidden, "only applicants can apply to jobs", nil)
	}
	if _, err := m.store.GetJob(ctx, jobID); err != nil {
		return nil, err
	}
	app, err := m.store.CreateApplication(ctx, jobID, caller.ApplicantID)
	if err != nil {
		if common.Is(err, common.CodeConflict) {
			return nil, common.NewError(common.CodeConflict, "already applied", err)
		}
		return nil, err
	}
	return app, nil
}

func (m *Manager) publish(cmd notify.Command) {
	if m.publisher == nil {
		return
	}
	if !m.publisher.Publish(cmd) {
		log.Printf("[Lifecycle] %s for application %d was not queued", cmd.Kind(), cmd.Application())
	}
}

func errApplicationNotFound() error {
	return common.NewError(common.CodeNotFound, "application not found", nil)
}
