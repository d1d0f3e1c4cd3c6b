package notify

import "recruit-api/internal/domain"

// Command is a notification request emitted by the core after a committed
// state change.
type Command interface {
	Application() int64
	Kind() string
}

// StatusUpdateRequested asks for a generic "your application is now X" mail.
type StatusUpdateRequested struct {
	ApplicationID int64
	Status        domain.Status
}

// InterviewInvitationRequested asks for the mail carrying the scheduling link.
// The interview and its token already exist when it is emitted.
type InterviewInvitationRequested struct {
	ApplicationID int64
}

type RejectionRequested struct {
	ApplicationID int64
}

func (c StatusUpdateRequested) Application() int64        { return c.ApplicationID }
func (c InterviewInvitationRequested) Application() int64 { return c.ApplicationID }
func (c RejectionRequested) Application() int64           { return c.ApplicationID }

func (StatusUpdateRequested) Kind() string        { return "status_update" }
func (InterviewInvitationRequested) Kind() string { return "interview_invitation" }
func (RejectionRequested) Kind() string           { return "rejection" }
