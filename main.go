package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"learnhub/config"
	"learnhub/database"
	"learnhub/logger"
	"learnhub/metrics"
	"learnhub/middleware"
	"learnhub/notify"
	"learnhub/routers"
	"learnhub/scheduler"
	"learnhub/services"
	"learnhub/storage"
)

func main() {
	cfg := config.LoadConfig()

	mode := "development"
	if cfg.IsProduction() {
		mode = "production"
	}
	log, err := logger.New(mode)
	if err != nil {
		panic(err)
	}
	defer log.Sync()

	store, err := database.ConnectDb(cfg, log)
	if err != nil {
		log.Fatal("failed to connect to database", "driver", cfg.DBDriver, "error", err)
	}

	m := metrics.New("learnhub")

	uploads, err := newUploader(cfg, log)
	if err != nil {
		log.Fatal("failed to set up upload storage", "driver", cfg.UploadDriver, "error", err)
	}

	var notifiers []notify.Notifier
	if cfg.SendGridAPIKey != "" && cfg.EmailSender != "" {
		notifiers = append(notifiers, notify.NewSendGridMailer(cfg.SendGridAPIKey, cfg.EmailSender, cfg.EmailSenderName))
	}
	if cfg.EnrollmentWebhookURL != "" {
		notifiers = append(notifiers, notify.NewWebhook(cfg.EnrollmentWebhookURL))
	}
	dispatcher := notify.NewDispatcher(log, m, notifiers...)

	jwt := middleware.NewJWT(cfg.JWTKey)
	enrollments := services.NewEnrollmentService(store, dispatcher, log, m)

	jobs, err := scheduler.Start(cfg.ReconcileCron, scheduler.NewReconciler(store, log, m), log)
	if err != nil {
		log.Fatal("failed to start scheduler", "error", err)
	}

	app := routers.NewApp(routers.Deps{
		Log:           log,
		Metrics:       m,
		JWT:           jwt,
		Uploads:       uploads,
		Auth:          services.NewAuthService(store, jwt, cfg.SaltRound, log, m),
		Courses:       services.NewCourseService(store, log),
		Enrollments:   enrollments,
		Admin:         services.NewAdminService(store, log),
		CORSOrigins:   cfg.CORSOrigins,
		AccessLogging: !cfg.IsProduction(),
	})

	go func() {
		log.Info("Server is running", "port", cfg.Port, "db", cfg.DBDriver, "uploads", cfg.UploadDriver, "notifiers", len(notifiers))
		if err := app.Listen(":" + cfg.Port); err != nil {
			log.Fatal("server stopped", "error", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)
	<-quit
	log.Info("shutting down")

	if err := app.ShutdownWithTimeout(10 * time.Second); err != nil {
		log.Error("server shutdown failed", "error", err)
	}
	if jobs != nil {
		<-jobs.Stop().Done()
	}
	enrollments.Wait()
	if err := store.Close(); err != nil {
		log.Error("failed to close database", "error", err)
	}
}

func newUploader(cfg *config.Config, log *logger.Logger) (storage.Uploader, error) {
	if cfg.UploadDriver == "minio" {
		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()
		return storage.NewMinIO(ctx, storage.MinIOConfig{
			Endpoint:  cfg.MinIOEndpoint,
			AccessKey: cfg.MinIOAccessKey,
			SecretKey: cfg.MinIOSecretKey,
			Bucket:    cfg.MinIOBucket,
			UseSSL:    cfg.MinIOUseSSL,
		}, log)
	}
	return storage.NewLocal(cfg.UploadDir)
}
