package domain

import (
	"time"

	"github.com/google/uuid"
)

// Interview holds the scheduling state of exactly one application.
// ScheduledTime is non-nil iff IsScheduled.
type Interview struct {
	ID              int64      `json:"id"`
	ApplicationID   int64      `json:"application_id"`
	JobID           int64      `json:"-"`
	ScheduledTime   *time.Time `json:"scheduled_time"`
	SchedulingToken uuid.UUID  `json:"-"`
	IsScheduled     bool       `json:"is_scheduled"`
}

// NewSchedulingToken returns a random (version 4) token. It carries no
// information about the application or job it grants access to.
func NewSchedulingToken() uuid.UUID {
	return uuid.New()
}
