package domain

import (
	"time"

	"github.com/google/uuid"
)

// Status is the persisted lifecycle state of an application.
type Status string

const (
	StatusSubmitted          Status = "submitted"
	StatusReviewed           Status = "reviewed"
	StatusInterviewPending   Status = "interview_pending"
	StatusInterviewScheduled Status = "interview_scheduled"
	StatusInterview          Status = "interview"
	StatusOffered            Status = "offered"
	StatusRejected           Status = "rejected"
)

func (s Status) Valid() bool {
	switch s {
	case StatusSubmitted, StatusReviewed, StatusInterviewPending, StatusInterviewScheduled,
		StatusInterview, StatusOffered, StatusRejected:
		return true
	default:
		return false
	}
}

// Terminal reports whether s is final. Only a repeated rejection is accepted
// on a terminal application.
func (s Status) Terminal() bool {
	return s == StatusOffered || s == StatusRejected
}

func (s Status) String() string {
	return string(s)
}

// Application is one applicant's submission to one job. RecruiterID is the
// owner of the job and is filled in by reads that join the job.
type Application struct {
	ID          int64     `json:"id"`
	JobID       int64     `json:"job_id"`
	ApplicantID int64     `json:"applicant_id"`
	RecruiterID int64     `json:"-"`
	Status      Status    `json:"status"`
	AppliedAt   time.Time `json:"applied_at"`
}

type Job struct {
	ID          int64     `json:"id"`
	RecruiterID int64     `json:"recruiter_id"`
	Title       string    `json:"title"`
	Description string    `json:"description"`
	Location    string    `json:"location"`
	CreatedAt   time.Time `json:"created_at"`
}

// ApplicationContact is what the notification worker needs to address and
// word a message about one application.
type ApplicationContact struct {
	ApplicationID   int64
	ApplicantEmail  string
	JobTitle        string
	Status          Status
	SchedulingToken *uuid.UUID
}
