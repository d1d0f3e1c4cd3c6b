package notify

import (
	"context"
	"errors"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"

	"recruit-api/internal/common"
	"recruit-api/internal/domain"
	apphttp "recruit-api/pkg/http"
)

type fakeContacts struct {
	byID map[int64]*domain.ApplicationContact
}

func (f *fakeContacts) ApplicationContact(ctx context.Context, id int64) (*domain.ApplicationContact, error) {
	c, ok := f.byID[id]
	if !ok {
		return nil, common.NewError(common.CodeNotFound, "application not found", nil)
	}
	return c, nil
}

type recordingSender struct {
	mu   sync.Mutex
	sent []Message
	err  error
}

func (r *recordingSender) Send(ctx context.Context, msg Message) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.sent = append(r.sent, msg)
	return r.err
}

func (r *recordingSender) messages() []Message {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]Message(nil), r.sent...)
}

func testConfig() Config {
	return Config{FromAddress: "no-reply@jrats.com", ScheduleBaseURL: "http://localhost:8080/api/interview/schedule/"}
}

func TestDeliverInvitationEmbedsScheduleLink(t *testing.T) {
	token := uuid.MustParse("6f1c8a62-3c1b-4d5e-9a2f-0b1c2d3e4f50")
	contacts := &fakeContacts{byID: map[int64]*domain.ApplicationContact{
		1: {ApplicationID: 1, ApplicantEmail: "ada@example.com", JobTitle: "Backend Engineer", Status: domain.StatusInterviewPending, SchedulingToken: &token},
	}}
	sender := &recordingSender{}
	d := NewDispatcher(testConfig(), contacts, sender)

	if err := d.Deliver(context.Background(), InterviewInvitationRequested{ApplicationID: 1}); err != nil {
		t.Fatalf("Deliver: %v", err)
	}
	sent := sender.messages()
	if len(sent) != 1 {
		t.Fatalf("sent %d messages, want 1", len(sent))
	}
	msg := sent[0]
	wantLink := "http://localhost:8080/api/interview/schedule/6f1c8a62-3c1b-4d5e-9a2f-0b1c2d3e4f50/"
	if msg.Link != wantLink {
		t.Fatalf("link = %q, want %q", msg.Link, wantLink)
	}
	if !strings.Contains(msg.Body, wantLink) {
		t.Fatalf("body does not contain link: %q", msg.Body)
	}
	if msg.To != "ada@example.com" || msg.From != "no-reply@jrats.com" {
		t.Fatalf("unexpected addressing: %+v", msg)
	}
	if msg.Subject != "Invitation to Interview for Backend Engineer" {
		t.Fatalf("subject = %q", msg.Subject)
	}
}

func TestDeliverInvitationWithoutInterviewFails(t *testing.T) {
	contacts := &fakeContacts{byID: map[int64]*domain.ApplicationContact{
		2: {ApplicationID: 2, ApplicantEmail: "bob@example.com", JobTitle: "SRE"},
	}}
	sender := &recordingSender{}
	d := NewDispatcher(testConfig(), contacts, sender)

	if err := d.Deliver(context.Background(), InterviewInvitationRequested{ApplicationID: 2}); err == nil {
		t.Fatal("expected error for application without interview")
	}
	if len(sender.messages()) != 0 {
		t.Fatal("nothing should be sent")
	}
}

func TestDeliverStatusUpdateAndRejection(t *testing.T) {
	contacts := &fakeContacts{byID: map[int64]*domain.ApplicationContact{
		3: {ApplicationID: 3, ApplicantEmail: "cy@example.com", JobTitle: "Designer", Status: domain.StatusRejected},
	}}
	sender := &recordingSender{}
	d := NewDispatcher(testConfig(), contacts, sender)
	ctx := context.Background()

	if err := d.Deliver(ctx, StatusUpdateRequested{ApplicationID: 3, Status: domain.StatusInterviewScheduled}); err != nil {
		t.Fatalf("status update: %v", err)
	}
	if err := d.Deliver(ctx, RejectionRequested{ApplicationID: 3}); err != nil {
		t.Fatalf("rejection: %v", err)
	}
	sent := sender.messages()
	if !strings.Contains(sent[0].Body, "has been updated to: interview_scheduled") {
		t.Fatalf("status body = %q", sent[0].Body)
	}
	if !strings.Contains(sent[1].Body, "not to move forward") {
		t.Fatalf("rejection body = %q", sent[1].Body)
	}
	if sent[1].Subject != "Update on your application for Designer" {
		t.Fatalf("rejection subject = %q", sent[1].Subject)
	}
}

func TestPublishDropsWhenQueueFull(t *testing.T) {
	d := NewDispatcher(Config{QueueSize: 1}, &fakeContacts{}, &recordingSender{})

	if !d.Publish(RejectionRequested{ApplicationID: 1}) {
		t.Fatal("first publish should be queued")
	}
	if d.Publish(RejectionRequested{ApplicationID: 2}) {
		t.Fatal("second publish should be dropped")
	}
}

func TestWorkerDrainsInOrderAndSwallowsFailures(t *testing.T) {
	contacts := &fakeContacts{byID: map[int64]*domain.ApplicationContact{
		1: {ApplicationID: 1, ApplicantEmail: "a@example.com", JobTitle: "A"},
		2: {ApplicationID: 2, ApplicantEmail: "b@example.com", JobTitle: "B"},
	}}
	sender := &recordingSender{err: errors.New("smtp down")}
	d := NewDispatcher(testConfig(), contacts, sender)
	d.Start()

	d.Publish(RejectionRequested{ApplicationID: 1})
	d.Publish(RejectionRequested{ApplicationID: 99})
	d.Publish(RejectionRequested{ApplicationID: 2})

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	if err := d.Close(ctx); err != nil {
		t.Fatalf("Close: %v", err)
	}

	sent := sender.messages()
	if len(sent) != 2 {
		t.Fatalf("sent %d messages, want 2", len(sent))
	}
	if sent[0].To != "a@example.com" || sent[1].To != "b@example.com" {
		t.Fatalf("unexpected order: %v, %v", sent[0].To, sent[1].To)
	}
	if d.Publish(RejectionRequested{ApplicationID: 1}) {
		t.Fatal("publish after close should be dropped")
	}
}

func TestParseDiscordWebhook(t *testing.T) {
	id, token, err := parseDiscordWebhook("https://discord.com/api/webhooks/123456/abc-DEF_ghi")
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	if id != "123456" || token != "abc-DEF_ghi" {
		t.Fatalf("got id=%q token=%q", id, token)
	}
	for _, bad := range []string{"", "https://discord.com/api/webhooks/123456", "https://example.com/hook"} {
		if _, _, err := parseDiscordWebhook(bad); err == nil {
			t.Fatalf("expected error for %q", bad)
		}
	}
}

func TestMultiSenderJoinsErrors(t *testing.T) {
	ok := &recordingSender{}
	failing := &recordingSender{err: errors.New("boom")}
	err := MultiSender{failing, ok}.Send(context.Background(), Message{To: "x@example.com"})
	if err == nil || !strings.Contains(err.Error(), "boom") {
		t.Fatalf("expected joined error, got %v", err)
	}
	if len(ok.messages()) != 1 {
		t.Fatal("healthy sender should still receive the message")
	}
}

func TestBuildSender(t *testing.T) {
	client := apphttp.NewClient(time.Second)

	s, err := BuildSender(client, "", "")
	if err != nil {
		t.Fatalf("BuildSender: %v", err)
	}
	if _, ok := s.(LogSender); !ok {
		t.Fatalf("default sender = %T, want LogSender", s)
	}

	s, err = BuildSender(client, "http://relay.local/send", "https://discord.com/api/webhooks/1/abc")
	if err != nil {
		t.Fatalf("BuildSender: %v", err)
	}
	multi, ok := s.(MultiSender)
	if !ok || len(multi) != 2 {
		t.Fatalf("sender = %#v, want two senders", s)
	}
	if _, ok := multi[0].(*WebhookSender); !ok {
		t.Fatalf("first sender = %T", multi[0])
	}

	if _, err := BuildSender(client, "", "https://example.com/nope"); err == nil {
		t.Fatal("expected invalid discord url error")
	}
}
