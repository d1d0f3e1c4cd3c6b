package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	_ "recruit-api/docs" // Swagger docs
	"recruit-api/internal/api"
	"recruit-api/internal/config"
	"recruit-api/internal/domain"
	"recruit-api/internal/lifecycle"
	"recruit-api/internal/notify"
	"recruit-api/internal/scheduling"
	"recruit-api/internal/storage"
	"recruit-api/internal/storage/memory"
	apphttp "recruit-api/pkg/http"
)

// @title Recruitment API
// @version 1.0
// @description Job applications, recruiter decisions and self-service interview scheduling

// @license.name MIT
// @license.url https://opensource.org/licenses/MIT

// @BasePath /api

// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization

func main() {
	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatal("config: ", err)
	}

	var store domain.Store
	switch cfg.StorageDriver {
	case "memory":
		log.Println("Using in-memory storage, data is lost on restart")
		mem := memory.New()
		if cfg.MemorySeed != "" {
			seed, err := memory.LoadSeedFile(cfg.MemorySeed)
			if err != nil {
				log.Fatal("memory seed: ", err)
			}
			if err := mem.Load(seed); err != nil {
				log.Fatal("memory seed: ", err)
			}
			log.Printf("Seeded %d recruiters, %d applicants, %d jobs from %s",
				len(seed.Recruiters), len(seed.Applicants), len(seed.Jobs), cfg.MemorySeed)
		} else {
			log.Println("Warning: MEMORY_SEED not set, the store has no jobs or profiles")
		}
		store = mem
	default:
		log.Printf("Connecting to database (driver=%s)...", cfg.DBDriver)
		db, err := storage.NewDBWithOptions(cfg.DatabaseURL, storage.Options{
			Driver:          cfg.DBDriver,
			MaxOpenConns:    cfg.DBMaxOpenConns,
			MaxIdleConns:    cfg.DBMaxIdleConns,
			ConnMaxLifetime: cfg.DBConnMaxLifetime,
			PingTimeout:     30 * time.Second,
		})
		if err != nil {
			log.Fatal("db open: ", err)
		}
		defer db.Close()
		log.Println("Database connected successfully!")

		if cfg.AutoMigrate {
			ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
			err := db.Migrate(ctx)
			cancel()
			if err != nil {
				log.Fatal("migrate: ", err)
			}
		}
		store = db
	}

	sender, err := notify.BuildSender(apphttp.NewClient(cfg.NotifySendTimeout), cfg.MailWebhookURL, cfg.DiscordWebhookURL)
	if err != nil {
		log.Fatal("notifications: ", err)
	}
	dispatcher := notify.NewDispatcher(notify.Config{
		FromAddress:     cfg.MailFrom,
		ScheduleBaseURL: cfg.ScheduleBaseURL,
		QueueSize:       cfg.NotifyQueueSize,
		SendTimeout:     cfg.NotifySendTimeout,
	}, store, sender)
	dispatcher.Start()

	var limiter api.Limiter = api.NewMemoryLimiter()
	if cfg.RedisURL != "" {
		redisLimiter, err := api.NewRedisLimiterFromURL(cfg.RedisURL)
		if err != nil {
			log.Fatal("redis: ", err)
		}
		defer redisLimiter.Close()
		limiter = redisLimiter
		log.Println("Rate limiting backed by Redis")
	}

	apiSrv := api.NewAPI(api.Options{
		Store:      store,
		Lifecycle:  lifecycle.NewManager(store, dispatcher),
		Scheduler:  scheduling.NewEngine(store, dispatcher, scheduling.WithConflictWindow(cfg.ConflictWindow)),
		Auth:       api.NewAuthenticator(cfg.JWTSecret),
		Limiter:    limiter,
		RateLimit:  cfg.ScheduleRateLimit,
		RateWindow: cfg.ScheduleRateWindow,
	})
	router := api.NewRouter(apiSrv)

	srv := &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  120 * time.Second,
	}

	idleConnsClosed := make(chan struct{})
	go func() {
		sigCh := make(chan os.Signal, 1)
		signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
		<-sigCh
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := srv.Shutdown(ctx); err != nil {
			log.Println("server shutdown:", err)
		}
		if err := dispatcher.Close(ctx); err != nil {
			log.Println("notification queue not drained:", err)
		}
		close(idleConnsClosed)
	}()

	log.Printf("API server listening on :%s\n", cfg.Port)
	if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		log.Fatal(err)
	}

	<-idleConnsClosed
}
