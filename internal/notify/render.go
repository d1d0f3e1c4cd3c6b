package notify

import (
	"bytes"
	"fmt"
	"strings"
	"text/template"

	"recruit-api/internal/domain"
)

var (
	statusUpdateBody = template.Must(template.New("status_update").Parse(
		`Dear Applicant,

Your application for the position of {{.JobTitle}} has been updated to: {{.Status}}.

Best Regards,
The Hiring Team
`))

	invitationBody = template.Must(template.New("interview_invitation").Parse(
		`Dear Applicant,

Congratulations! We would like to invite you for an interview for the position of {{.JobTitle}}.

Please use the following link to schedule your interview: {{.Link}}

Best Regards,
The Hiring Team
`))

	rejectionBody = template.Must(template.New("rejection").Parse(
		`Dear Applicant,

Thank you for your interest in the {{.JobTitle}} position. After careful consideration, we have decided not to move forward with your application at this time.

We wish you the best of luck in your job search.

Best Regards,
The Hiring Team
`))
)

type messageData struct {
	JobTitle string
	Status   domain.Status
	Link     string
}

// ScheduleLink joins the configured base URL and a scheduling token.
func ScheduleLink(baseURL, token string) string {
	return strings.TrimRight(baseURL, "/") + "/" + token + "/"
}

// render builds the message for cmd. It fails for an invitation whose
// application has no interview yet.
func render(cfg Config, cmd Command, contact *domain.ApplicationContact) (Message, error) {
	msg := Message{
		From: cfg.FromAddress,
		To:   contact.ApplicantEmail,
	}
	data := messageData{JobTitle: contact.JobTitle, Status: contact.Status}

	var tmpl *template.Template
	switch c := cmd.(type) {
	case StatusUpdateRequested:
		if c.Status != "" {
			data.Status = c.Status
		}
		msg.Subject = fmt.Sprintf("Update on your application for %s", contact.JobTitle)
		tmpl = statusUpdateBody
	case InterviewInvitationRequested:
		if contact.SchedulingToken == nil {
			return Message{}, fmt.Errorf("application %d has no interview to schedule", contact.ApplicationID)
		}
		data.Link = ScheduleLink(cfg.ScheduleBaseURL, contact.SchedulingToken.String())
		msg.Subject = fmt.Sprintf("Invitation to Interview for %s", contact.JobTitle)
		msg.Link = data.Link
		tmpl = invitationBody
	case RejectionRequested:
		msg.Subject = fmt.Sprintf("Update on your application for %s", contact.JobTitle)
		tmpl = rejectionBody
	default:
		return Message{}, fmt.Errorf("unknown notification command %T", cmd)
	}

	var buf bytes.Buffer
	if err := tmpl.Execute(&buf, data); err != nil {
		return Message{}, fmt.Errorf("render %s: %w", cmd.Kind(), err)
	}
	msg.Body = buf.String()
	return msg, nil
}
