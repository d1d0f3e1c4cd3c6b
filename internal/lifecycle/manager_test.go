package lifecycle

import (
	"context"
	"sync"
	"testing"
	"time"

	"recruit-api/internal/common"
	"recruit-api/internal/domain"
	"recruit-api/internal/notify"
	"recruit-api/internal/scheduling"
	"recruit-api/internal/storage/memory"
)

type recordingPublisher struct {
	mu     sync.Mutex
	cmds   []notify.Command
	refuse bool
}

func (p *recordingPublisher) Publish(cmd notify.Command) bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.refuse {
		return false
	}
	p.cmds = append(p.cmds, cmd)
	return true
}

func (p *recordingPublisher) commands() []notify.Command {
	p.mu.Lock()
	defer p.mu.Unlock()
	return append([]notify.Command(nil), p.cmds...)
}

type fixture struct {
	store       *memory.Store
	publisher   *recordingPublisher
	manager     *Manager
	recruiter   domain.Caller
	applicant   domain.Caller
	application *domain.Application
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	store := memory.New()
	recruiterID := store.AddRecruiter("Acme")
	applicantID := store.AddApplicant("ada@example.com")
	job := store.AddJob(recruiterID, "Backend Engineer")
	pub := &recordingPublisher{}

	f := &fixture{
		store:     store,
		publisher: pub,
		manager:   NewManager(store, pub),
		recruiter: domain.Caller{UserID: 1, Type: domain.UserRecruiter, RecruiterID: recruiterID},
		applicant: domain.Caller{UserID: 2, Type: domain.UserApplicant, ApplicantID: applicantID},
	}
	app, err := f.manager.Submit(context.Background(), f.applicant, job.ID)
	if err != nil {
		t.Fatalf("Submit: %v", err)
	}
	f.application = app
	return f
}

func (f *fixture) status(t *testing.T) domain.Status {
	t.Helper()
	app, err := f.store.GetApplication(context.Background(), f.application.ID)
	if err != nil {
		t.Fatalf("GetApplication: %v", err)
	}
	return app.Status
}

func TestSubmitStartsAsSubmitted(t *testing.T) {
	f := newFixture(t)
	if f.application.Status != domain.StatusSubmitted {
		t.Fatalf("status = %s, want submitted", f.application.Status)
	}
}

func TestSubmitTwiceIsConflict(t *testing.T) {
	f := newFixture(t)
	_, err := f.manager.Submit(context.Background(), f.applicant, f.application.JobID)
	if !common.Is(err, common.CodeConflict) {
		t.Fatalf("expected conflict, got %v", err)
	}
}

func TestSubmitRequiresApplicantAndJob(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	if _, err := f.manager.Submit(ctx, f.recruiter, f.application.JobID); !common.Is(err, common.CodeForbidden) {
		t.Fatalf("recruiter submit: expected forbidden, got %v", err)
	}
	if _, err := f.manager.Submit(ctx, f.applicant, 9999); !common.Is(err, common.CodeNotFound) {
		t.Fatalf("unknown job: expected not found, got %v", err)
	}
}

func TestAdvanceInviteCreatesInterviewAndNotifies(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	if err := f.manager.Advance(ctx, f.application.ID, f.recruiter, ActionInvite); err != nil {
		t.Fatalf("Advance: %v", err)
	}
	if got := f.status(t); got != domain.StatusInterviewPending {
		t.Fatalf("status = %s, want interview_pending", got)
	}
	iv, ok := f.store.InterviewForApplication(f.application.ID)
	if !ok {
		t.Fatal("interview was not created")
	}
	if iv.IsScheduled || iv.ScheduledTime != nil {
		t.Fatalf("new interview should be unscheduled: %+v", iv)
	}
	cmds := f.publisher.commands()
	if len(cmds) != 1 {
		t.Fatalf("published %d commands, want 1", len(cmds))
	}
	if c, ok := cmds[0].(notify.InterviewInvitationRequested); !ok || c.ApplicationID != f.application.ID {
		t.Fatalf("unexpected command %#v", cmds[0])
	}
}

func TestAdvanceInviteTwiceReusesToken(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	if err := f.manager.Advance(ctx, f.application.ID, f.recruiter, ActionInvite); err != nil {
		t.Fatalf("first invite: %v", err)
	}
	first, _ := f.store.InterviewForApplication(f.application.ID)
	if err := f.manager.Advance(ctx, f.application.ID, f.recruiter, ActionInvite); err != nil {
		t.Fatalf("second invite: %v", err)
	}
	second, _ := f.store.InterviewForApplication(f.application.ID)
	if first.ID != second.ID || first.SchedulingToken != second.SchedulingToken {
		t.Fatalf("interview was reissued: %+v vs %+v", first, second)
	}
	if n := len(f.publisher.commands()); n != 2 {
		t.Fatalf("published %d commands, want 2", n)
	}
}

func TestAdvanceRejectIsRepeatable(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	for i := 0; i < 2; i++ {
		if err := f.manager.Advance(ctx, f.application.ID, f.recruiter, ActionReject); err != nil {
			t.Fatalf("reject #%d: %v", i+1, err)
		}
		if got := f.status(t); got != domain.StatusRejected {
			t.Fatalf("status = %s, want rejected", got)
		}
	}
	cmds := f.publisher.commands()
	if len(cmds) != 2 {
		t.Fatalf("published %d commands, want 2", len(cmds))
	}
	for _, cmd := range cmds {
		if _, ok := cmd.(notify.RejectionRequested); !ok {
			t.Fatalf("unexpected command %#v", cmd)
		}
	}
	if _, ok := f.store.InterviewForApplication(f.application.ID); ok {
		t.Fatal("reject must not create an interview")
	}
}

func TestAdvanceInvalidActionMutatesNothing(t *testing.T) {
	f := newFixture(t)
	err := f.manager.Advance(context.Background(), f.application.ID, f.recruiter, Action("hire"))
	if !common.Is(err, common.CodeInvalidArgument) {
		t.Fatalf("expected invalid argument, got %v", err)
	}
	if got := f.status(t); got != domain.StatusSubmitted {
		t.Fatalf("status = %s, want submitted", got)
	}
	if n := len(f.publisher.commands()); n != 0 {
		t.Fatalf("published %d commands, want 0", n)
	}
}

func TestAdvanceHidesApplicationsOfOtherRecruiters(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	other := domain.Caller{UserID: 9, Type: domain.UserRecruiter, RecruiterID: f.store.AddRecruiter("Globex")}

	cases := map[string]struct {
		caller domain.Caller
		id     int64
	}{
		"other recruiter": {other, f.application.ID},
		"applicant":       {f.applicant, f.application.ID},
		"unknown id":      {f.recruiter, 424242},
	}
	for name, tc := range cases {
		t.Run(name, func(t *testing.T) {
			err := f.manager.Advance(ctx, tc.id, tc.caller, ActionReject)
			if !common.Is(err, common.CodeNotFound) {
				t.Fatalf("expected not found, got %v", err)
			}
		})
	}
	if got := f.status(t); got != domain.StatusSubmitted {
		t.Fatalf("status = %s, want submitted", got)
	}
}

func TestAdvanceSucceedsWhenQueueRefuses(t *testing.T) {
	f := newFixture(t)
	f.publisher.refuse = true

	if err := f.manager.Advance(context.Background(), f.application.ID, f.recruiter, ActionReject); err != nil {
		t.Fatalf("Advance: %v", err)
	}
	if got := f.status(t); got != domain.StatusRejected {
		t.Fatalf("status = %s, want rejected", got)
	}
}

func TestParseAction(t *testing.T) {
	for raw, want := range map[string]Action{"invite": ActionInvite, " Reject ": ActionReject} {
		got, err := ParseAction(raw)
		if err != nil || got != want {
			t.Fatalf("ParseAction(%q) = %q, %v", raw, got, err)
		}
	}
	if _, err := ParseAction(""); !common.Is(err, common.CodeInvalidArgument) {
		t.Fatalf("empty action: %v", err)
	}
}

func TestInviteThenScheduleEndToEnd(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	now := time.Date(2026, time.October, 15, 12, 0, 0, 0, time.UTC)
	engine := scheduling.NewEngine(f.store, f.publisher, scheduling.WithClock(func() time.Time { return now }))

	if err := f.manager.Advance(ctx, f.application.ID, f.recruiter, ActionInvite); err != nil {
		t.Fatalf("invite: %v", err)
	}
	iv, _ := f.store.InterviewForApplication(f.application.ID)

	// The following Tuesday at 14:30.
	tuesday := time.Date(2026, time.October, 20, 14, 30, 0, 0, time.UTC)
	if err := engine.Schedule(ctx, iv.SchedulingToken, tuesday); err != nil {
		t.Fatalf("schedule: %v", err)
	}

	if got := f.status(t); got != domain.StatusInterviewScheduled {
		t.Fatalf("status = %s, want interview_scheduled", got)
	}
	scheduled, _ := f.store.InterviewForApplication(f.application.ID)
	if !scheduled.IsScheduled {
		t.Fatal("interview should be scheduled")
	}
}

func TestAdvanceNormalizesActionSpelling(t *testing.T) {
	for _, raw := range []string{"INVITE", " Invite "} {
		t.Run(raw, func(t *testing.T) {
			f := newFixture(t)
			if err := f.manager.Advance(context.Background(), f.application.ID, f.recruiter, Action(raw)); err != nil {
				t.Fatalf("Advance: %v", err)
			}
			if got := f.status(t); got != domain.StatusInterviewPending {
				t.Fatalf("status = %s, want interview_pending", got)
			}
			cmds := f.publisher.commands()
			if len(cmds) != 1 {
				t.Fatalf("published %d commands, want 1", len(cmds))
			}
			if _, ok := cmds[0].(notify.InterviewInvitationRequested); !ok {
				t.Fatalf("unexpected command %#v", cmds[0])
			}
		})
	}
}

func (f *fixture) setStatus(t *testing.T, status domain.Status) {
	t.Helper()
	err := f.store.InTx(context.Background(), func(ctx context.Context, tx domain.Tx) error {
		return tx.UpdateApplicationStatus(ctx, f.application.ID, status)
	})
	if err != nil {
		t.Fatalf("set status: %v", err)
	}
}

func TestAdvanceLeavesTerminalStatuses(t *testing.T) {
	cases := []struct {
		from   domain.Status
		action Action
		ok     bool
	}{
		{domain.StatusOffered, ActionReject, false},
		{domain.StatusOffered, ActionInvite, false},
		{domain.StatusRejected, ActionInvite, false},
		{domain.StatusRejected, ActionReject, true},
		{domain.StatusInterviewScheduled, ActionReject, true},
	}
	for _, tc := range cases {
		t.Run(string(tc.from)+"/"+string(tc.action), func(t *testing.T) {
			f := newFixture(t)
			f.setStatus(t, tc.from)

			err := f.manager.Advance(context.Background(), f.application.ID, f.recruiter, tc.action)
			if tc.ok {
				if err != nil {
					t.Fatalf("Advance: %v", err)
				}
				return
			}
			if !common.Is(err, common.CodeInvalidArgument) {
				t.Fatalf("expected invalid argument, got %v", err)
			}
			if got := f.status(t); got != tc.from {
				t.Fatalf("status = %s, want %s", got, tc.from)
			}
			if n := len(f.publisher.commands()); n != 0 {
				t.Fatalf("published %d commands, want 0", n)
			}
			if _, ok := f.store.InterviewForApplication(f.application.ID); ok {
				t.Fatal("interview created for a terminal application")
			}
		})
	}
}
