package main

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/internhub-api/internal/application/reminder"
	"github.com/internhub-api/internal/config"
	"github.com/internhub-api/internal/infrastructure/dynamo"
	jwtinfra "github.com/internhub-api/internal/infrastructure/jwt"
	redisinfra "github.com/internhub-api/internal/infrastructure/redis"
	s3infra "github.com/internhub-api/internal/infrastructure/s3"
	"github.com/internhub-api/internal/infrastructure/sns"
	transporthttp "github.com/internhub-api/internal/transport/http"
	"github.com/joho/godotenv"
	"github.com/robfig/cron/v3"
)

func main() {
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, reading from environment")
	}

	cfg := config.Load()
	ctx := context.Background()

	// Bootstrap DynamoDB tables (creates them if they don't exist).
	dynamoClient := dynamo.NewClient(cfg)
	dynamo.Bootstrap(ctx, dynamoClient, cfg.DynamoTables)

	jwtProvider, err := jwtinfra.NewProvider(cfg)
	if err != nil {
		log.Fatalf("JWT provider: %v", err)
	}

	s3Store := s3infra.NewStore(s3infra.NewClient(cfg), cfg.S3BucketName)

	events, err := sns.NewPublisher(cfg)
	if err != nil {
		log.Printf("WARN: SNS publisher not available: %v", err)
	}

	deps := &transporthttp.Deps{
		StudentRepo:      dynamo.NewStudentRepo(dynamoClient, cfg.DynamoTables.Students),
		RecruiterRepo:    dynamo.NewRecruiterRepo(dynamoClient, cfg.DynamoTables.Recruiters),
		AdminRepo:        dynamo.NewAdminRepo(dynamoClient, cfg.DynamoTables.Admins),
		InternshipRepo:   dynamo.NewInternshipRepo(dynamoClient, cfg.DynamoTables.Internships),
		ApplicationRepo:  dynamo.NewApplicationRepo(dynamoClient, cfg.DynamoTables.Applications),
		NotificationRepo: dynamo.NewNotificationRepo(dynamoClient, cfg.DynamoTables.Notifications),
		S3Store:          s3Store,
		Events:           events,
		JWTProvider:      jwtProvider,
	}
	if cfg.RedisURL != "" {
		if client, err := redisinfra.NewClient(ctx, cfg.RedisURL); err == nil {
			deps.Redis = client
			defer client.Close()
		} else {
			log.Printf("WARN: redis not available, apply limit is per instance: %v", err)
		}
	}

	svc := transporthttp.NewServices(cfg, deps)
	if err := svc.Sessions.SeedAdmin(ctx, cfg.AdminEmail, cfg.AdminPassword); err != nil {
		log.Printf("WARN: admin seed failed: %v", err)
	}

	scheduler := cron.New(cron.WithLocation(time.UTC))
	job := reminder.NewJob(reminder.JobDeps{
		InternshipRepo: deps.InternshipRepo,
		Notifier:       svc.Notifications,
		Window:         cfg.ReminderWindow,
	})
	if _, err := reminder.Schedule(scheduler, cfg.ReminderSchedule, job); err != nil {
		log.Printf("WARN: deadline reminders disabled: %v", err)
	}
	scheduler.Start()

	srv := &http.Server{
		Addr:         fmt.Sprintf(":%s", cfg.AppPort),
		Handler:      transporthttp.NewRouter(cfg, deps, svc),
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		log.Printf("Server starting on :%s (env=%s)", cfg.AppPort, cfg.AppEnv)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("server error: %v", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Println("Shutting down server...")
	<-scheduler.Stop().Done()
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Fatalf("forced shutdown: %v", err)
	}
	log.Println("Server stopped")
}
