// Package memory is a process-local implementation of domain.Store. A single
// mutex is held for the whole of every transaction, which gives the same
// per-job serialization the Postgres store gets from row locks.
package memory

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"

	"recruit-api/internal/common"
	"recruit-api/internal/domain"
)

var (
	_ domain.Store = (*Store)(nil)
	_ domain.Tx    = (*memTx)(nil)
)

type person struct {
	id    int64
	email string
	name  string
}

type Store struct {
	mu sync.Mutex

	nextID       int64
	recruiters   map[int64]person
	applicants   map[int64]person
	jobs         map[int64]domain.Job
	applications map[int64]domain.Application
	interviews   map[int64]domain.Interview
	byToken      map[uuid.UUID]int64
	byApp        map[int64]int64

	now func() time.Time
}

func New() *Store {
	return &Store{
		recruiters:   make(map[int64]person),
		applicants:   make(map[int64]person),
		jobs:         make(map[int64]domain.Job),
		applications: make(map[int64]domain.Application),
		interviews:   make(map[int64]domain.Interview),
		byToken:      make(map[uuid.UUID]int64),
		byApp:        make(map[int64]int64),
		now:          time.Now,
	}
}

func (s *Store) id() int64 {
	s.nextID++
	return s.nextID
}

// AddRecruiter registers a recruiter profile and returns its id.
func (s *Store) AddRecruiter(companyName string) int64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	id := s.id()
	s.recruiters[id] = person{id: id, name: companyName}
	return id
}

// AddApplicant registers an applicant profile and returns its id.
func (s *Store) AddApplicant(email string) int64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	id := s.id()
	s.applicants[id] = person{id: id, email: email}
	return id
}

func (s *Store) AddJob(recruiterID int64, title string) domain.Job {
	s.mu.Lock()
	defer s.mu.Unlock()
	job := domain.Job{ID: s.id(), RecruiterID: recruiterID, Title: title, CreatedAt: s.now().UTC()}
	s.jobs[job.ID] = job
	return job
}

// InterviewForApplication returns the interview of an application, if any.
func (s *Store) InterviewForApplication(applicationID int64) (*domain.Interview, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	id, ok := s.byApp[applicationID]
	if !ok {
		return nil, false
	}
	iv := s.interviews[id]
	return &iv, true
}

func (s *Store) InTx(ctx context.Context, fn func(ctx context.Context, tx domain.Tx) error) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	tx := &memTx{
		s:          s,
		statuses:   make(map[int64]domain.Status),
		interviews: make(map[int64]domain.Interview),
	}
	if err := fn(ctx, tx); err != nil {
		return err
	}
	tx.commit()
	return nil
}

func (s *Store) GetApplication(ctx context.Context, id int64) (*domain.Application, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	app, ok := s.applications[id]
	if !ok {
		return nil, errNotFound("application not found")
	}
	return &app, nil
}

func (s *Store) CreateApplication(ctx context.Context, jobID, applicantID int64) (*domain.Application, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	job, ok := s.jobs[jobID]
	if !ok {
		return nil, errNotFound("job not found")
	}
	if _, ok := s.applicants[applicantID]; !ok {
		return nil, errNotFound("applicant not found")
	}
	for _, existing := range s.applications {
		if existing.JobID == jobID && existing.ApplicantID == applicantID {
			return nil, common.NewError(common.CodeConflict, "application already exists", nil)
		}
	}
	app := domain.Application{
		ID:          s.id(),
		JobID:       jobID,
		ApplicantID: applicantID,
		RecruiterID: job.RecruiterID,
		Status:      domain.StatusSubmitted,
		AppliedAt:   s.now().UTC(),
	}
	s.applications[app.ID] = app
	return &app, nil
}

func (s *Store) GetJob(ctx context.Context, id int64) (*domain.Job, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	job, ok := s.jobs[id]
	if !ok {
		return nil, errNotFound("job not found")
	}
	return &job, nil
}

func (s *Store) FindUnscheduledInterview(ctx context.Context, token uuid.UUID) (*domain.Interview, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	id, ok := s.byToken[token]
	if !ok {
		return nil, errNotFound("interview not found")
	}
	iv := s.interviews[id]
	if iv.IsScheduled {
		return nil, errNotFound("interview not found")
	}
	return &iv, nil
}

func (s *Store) ApplicationContact(ctx context.Context, applicationID int64) (*domain.ApplicationContact, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	app, ok := s.applications[applicationID]
	if !ok {
		return nil, errNotFound("application not found")
	}
	contact := &domain.ApplicationContact{
		ApplicationID:  app.ID,
		ApplicantEmail: s.applicants[app.ApplicantID].email,
		JobTitle:       s.jobs[app.JobID].Title,
		Status:         app.Status,
	}
	if id, ok := s.byApp[app.ID]; ok {
		token := s.interviews[id].SchedulingToken
		contact.SchedulingToken = &token
	}
	return contact, nil
}

// memTx stages writes and applies them only when the callback succeeds.
type memTx struct {
	s          *Store
	statuses   map[int64]domain.Status
	interviews map[int64]domain.Interview
}

func (t *memTx) interview(id int64) (domain.Interview, bool) {
	if iv, ok := t.interviews[id]; ok {
		return iv, true
	}
	iv, ok := t.s.interviews[id]
	return iv, ok
}

func (t *memTx) LockApplicationForRecruiter(ctx context.Context, applicationID, recruiterID int64) (*domain.Application, error) {
	app, ok := t.s.applications[applicationID]
	if !ok || app.RecruiterID != recruiterID {
		return nil, errNotFound("application not found")
	}
	if status, ok := t.statuses[applicationID]; ok {
		app.Status = status
	}
	return &app, nil
}

func (t *memTx) UpdateApplicationStatus(ctx context.Context, applicationID int64, status domain.Status) error {
	if !status.Valid() {
		return errInvalidStatus(status)
	}
	if _, ok := t.s.applications[applicationID]; !ok {
		return errNotFound("application not found")
	}
	t.statuses[applicationID] = status
	return nil
}

func (t *memTx) GetOrCreateInterview(ctx context.Context, applicationID int64) (*domain.Interview, bool, error) {
	for _, iv := range t.interviews {
		if iv.ApplicationID == applicationID {
			return &iv, false, nil
		}
	}
	if id, ok := t.s.byApp[applicationID]; ok {
		iv := t.s.interviews[id]
		return &iv, false, nil
	}
	app, ok := t.s.applications[applicationID]
	if !ok {
		return nil, false, errNotFound("application not found")
	}
	iv := domain.Interview{
		ID:              t.s.id(),
		ApplicationID:   applicationID,
		JobID:           app.JobID,
		SchedulingToken: domain.NewSchedulingToken(),
	}
	t.interviews[iv.ID] = iv
	return &iv, true, nil
}

func (t *memTx) LockUnscheduledInterview(ctx context.Context, token uuid.UUID) (*domain.Interview, error) {
	id, ok := t.s.byToken[token]
	if !ok {
		for _, iv := range t.interviews {
			if iv.SchedulingToken == token {
				id, ok = iv.ID, true
				break
			}
		}
	}
	if !ok {
		return nil, errNotFound("interview not found")
	}
	iv, _ := t.interview(id)
	if iv.IsScheduled {
		return nil, errNotFound("interview not found")
	}
	return &iv, nil
}

func (t *memTx) LockJob(ctx context.Context, jobID int64) error {
	if _, ok := t.s.jobs[jobID]; !ok {
		return errNotFound("job not found")
	}
	return nil
}

func (t *memTx) CountScheduledBetween(ctx context.Context, jobID, excludeInterviewID int64, from, to time.Time) (int, error) {
	seen := make(map[int64]bool)
	count := 0
	check := func(iv domain.Interview) {
		if seen[iv.ID] {
			return
		}
		seen[iv.ID] = true
		if iv.ID == excludeInterviewID || iv.JobID != jobID || !iv.IsScheduled || iv.ScheduledTime == nil {
			return
		}
		at := *iv.ScheduledTime
		if !at.Before(from) && !at.After(to) {
			count++
		}
	}
	for _, iv := range t.interviews {
		check(iv)
	}
	for _, iv := range t.s.interviews {
		check(iv)
	}
	return count, nil
}

func (t *memTx) MarkInterviewScheduled(ctx context.Context, interviewID int64, at time.Time) error {
	iv, ok := t.interview(interviewID)
	if !ok {
		return errNotFound("interview not found")
	}
	at = at.UTC()
	iv.ScheduledTime = &at
	iv.IsScheduled = true
	t.interviews[iv.ID] = iv
	return nil
}

func (t *memTx) commit() {
	for id, status := range t.statuses {
		app := t.s.applications[id]
		app.Status = status
		t.s.applications[id] = app
	}
	for id, iv := range t.interviews {
		t.s.interviews[id] = iv
		t.s.byToken[iv.SchedulingToken] = id
		t.s.byApp[iv.ApplicationID] = id
	}
}

func errInvalidStatus(status domain.Status) error {
	return common.NewError(common.CodeInvalidArgument, "unknown status "+string(status), nil)
}

func errNotFound(message string) error {
	return common.NewError(common.CodeNotFound, message, nil)
}
