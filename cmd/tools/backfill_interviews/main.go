package main

import (
	"context"
	"flag"
	"log"
	"time"

	"recruit-api/internal/config"
	"recruit-api/internal/domain"
	"recruit-api/internal/notify"
	"recruit-api/internal/storage"
	apphttp "recruit-api/pkg/http"
)

// Issues the missing interview and scheduling token for applications that
// are interview_pending without one, optionally re-sending the invitation.
func main() {
	var dryRun, resend bool
	var limit int
	flag.BoolVar(&dryRun, "dry-run", true, "If true, do not persist updates; just print changes")
	flag.IntVar(&limit, "limit", 200, "Max number of applications to process in one run")
	flag.BoolVar(&resend, "notify", false, "Send the invitation again once the interview exists")
	flag.Parse()

	cfg, err := config.LoadStorageConfig()
	if err != nil {
		log.Fatalf("config: %v", err)
	}
	if cfg.StorageDriver != "postgres" {
		log.Fatal("backfill only runs against postgres storage")
	}

	log.Printf("Connecting to DB...")
	db, err := storage.NewDBWithOptions(cfg.DatabaseURL, storage.Options{
		Driver:          cfg.DBDriver,
		MaxOpenConns:    2,
		MaxIdleConns:    1,
		ConnMaxLifetime: cfg.DBConnMaxLifetime,
		PingTimeout:     30 * time.Second,
	})
	if err != nil {
		log.Fatalf("failed to connect to db: %v", err)
	}
	defer db.Close()

	ctx := context.Background()
	ids, err := db.ApplicationsMissingInterview(ctx, limit)
	if err != nil {
		log.Fatalf("query failed: %v", err)
	}
	log.Printf("Found %d interview_pending applications without an interview (limit %d)", len(ids), limit)

	var dispatcher *notify.Dispatcher
	if resend && !dryRun {
		sender, err := notify.BuildSender(apphttp.NewClient(cfg.NotifySendTimeout), cfg.MailWebhookURL, cfg.DiscordWebhookURL)
		if err != nil {
			log.Fatalf("notifications: %v", err)
		}
		dispatcher = notify.NewDispatcher(notify.Config{
			FromAddress:     cfg.MailFrom,
			ScheduleBaseURL: cfg.ScheduleBaseURL,
			SendTimeout:     cfg.NotifySendTimeout,
		}, db, sender)
	}

	created := 0
	for _, id := range ids {
		if dryRun {
			log.Printf("[dry-run] would create interview for application %d", id)
			continue
		}
		err := db.InTx(ctx, func(ctx context.Context, tx domain.Tx) error {
			iv, isNew, err := tx.GetOrCreateInterview(ctx, id)
			if err != nil {
				return err
			}
			if isNew {
				created++
				log.Printf("Created interview %d for application %d", iv.ID, id)
			}
			return nil
		})
		if err != nil {
			log.Printf("application %d: %v", id, err)
			continue
		}
		if dispatcher != nil {
			if err := dispatcher.Deliver(ctx, notify.InterviewInvitationRequested{ApplicationID: id}); err != nil {
				log.Printf("application %d: invitation not sent: %v", id, err)
			}
		}
	}

	log.Printf("Done. Created %d interviews (dry-run=%v)", created, dryRun)
}
