package notify

import (
	"context"
	"errors"
	"fmt"
	"log"
	"strings"

	"github.com/bwmarrin/discordgo"

	apphttp "recruit-api/pkg/http"
)

// Message is a rendered mail. Link is set for invitations.
type Message struct {
	From    string `json:"from"`
	To      string `json:"to"`
	Subject string `json:"subject"`
	Body    string `json:"body"`
	Link    string `json:"-"`
}

type Sender interface {
	Send(ctx context.Context, msg Message) error
}

// LogSender writes messages to the process log instead of delivering them.
type LogSender struct{}

func (LogSender) Send(_ context.Context, msg Message) error {
	if msg.Link != "" {
		log.Printf("--- INTERVIEW SCHEDULING LINK FOR %s ---\n%s\n-------------------------------------------------", msg.To, msg.Link)
	}
	log.Printf("[Mail] to=%s subject=%q\n%s", msg.To, msg.Subject, msg.Body)
	return nil
}

// WebhookSender posts each message as JSON to a mail relay.
type WebhookSender struct {
	client *apphttp.Client
	url    string
}

func NewWebhookSender(client *apphttp.Client, url string) *WebhookSender {
	return &WebhookSender{client: client, url: url}
}

func (s *WebhookSender) Send(ctx context.Context, msg Message) error {
	if err := s.client.PostJSON(ctx, s.url, msg); err != nil {
		return fmt.Errorf("mail relay: %w", err)
	}
	return nil
}

// DiscordSender mirrors a one-line summary of each message to a team channel
// through a Discord webhook. Bodies are not posted: invitation bodies carry
// the scheduling link, which must only reach the applicant.
type DiscordSender struct {
	session   *discordgo.Session
	webhookID string
	token     string
}

// NewDiscordSender accepts a webhook URL of the form
// https://discord.com/api/webhooks/{id}/{token}.
func NewDiscordSender(webhookURL string) (*DiscordSender, error) {
	id, token, err := parseDiscordWebhook(webhookURL)
	if err != nil {
		return nil, err
	}
	session, err := discordgo.New("")
	if err != nil {
		return nil, fmt.Errorf("create discord session: %w", err)
	}
	return &DiscordSender{session: session, webhookID: id, token: token}, nil
}

func (s *DiscordSender) Send(_ context.Context, msg Message) error {
	params := &discordgo.WebhookParams{
		Content: fmt.Sprintf("**%s** → %s", msg.Subject, msg.To),
	}
	if _, err := s.session.WebhookExecute(s.webhookID, s.token, false, params); err != nil {
		return fmt.Errorf("discord webhook: %w", err)
	}
	return nil
}

func parseDiscordWebhook(raw string) (id, token string, err error) {
	const marker = "/api/webhooks/"
	idx := strings.Index(raw, marker)
	if idx < 0 {
		return "", "", fmt.Errorf("invalid discord webhook url")
	}
	parts := strings.Split(strings.Trim(raw[idx+len(marker):], "/"), "/")
	if len(parts) != 2 || parts[0] == "" || parts[1] == "" {
		return "", "", fmt.Errorf("invalid discord webhook url")
	}
	return parts[0], parts[1], nil
}

// MultiSender sends to every sender and joins their errors.
type MultiSender []Sender

func (m MultiSender) Send(ctx context.Context, msg Message) error {
	var errs []error
	for _, s := range m {
		if err := s.Send(ctx, msg); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

// BuildSender returns the mail relay sender when mailWebhook is set, or the
// log sender otherwise, mirrored to Discord when discordWebhook is set.
func BuildSender(client *apphttp.Client, mailWebhook, discordWebhook string) (Sender, error) {
	senders := MultiSender{}
	if mailWebhook != "" {
		senders = append(senders, NewWebhookSender(client, mailWebhook))
	} else {
		senders = append(senders, LogSender{})
	}
	if discordWebhook != "" {
		discord, err := NewDiscordSender(discordWebhook)
		if err != nil {
			return nil, err
		}
		senders = append(senders, discord)
	}
	if len(senders) == 1 {
		return senders[0], nil
	}
	return senders, nil
}
