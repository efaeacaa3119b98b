package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"github.com/nats-io/nats.go"
	"github.com/rs/zerolog"

	"github.com/internlink/internlink-api/internal/config"
	"github.com/internlink/internlink-api/internal/database"
	"github.com/internlink/internlink-api/internal/handler"
	"github.com/internlink/internlink-api/internal/middleware"
	"github.com/internlink/internlink-api/internal/models"
	"github.com/internlink/internlink-api/internal/repository"
	"github.com/internlink/internlink-api/internal/router"
	"github.com/internlink/internlink-api/internal/service"
	cloud "github.com/internlink/internlink-api/pkg/cloudinary"
	"github.com/internlink/internlink-api/pkg/pdf"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load configuration: %v", err)
	}

	logger := zerolog.New(os.Stdout).With().Timestamp().Logger()

	db, err := database.ConnectPostgres(cfg.DatabaseURL)
	if err != nil {
		log.Fatalf("failed to connect to database: %v", err)
	}

	if err := db.AutoMigrate(
		&models.User{},
		&models.Internship{},
		&models.ReportEvent{},
		&models.EventNotification{},
		&models.Submission{},
		&models.SubmissionAttachment{},
		&models.Notification{},
	); err != nil {
		log.Fatalf("failed to migrate database: %v", err)
	}

	redisClient, err := database.ConnectRedis(cfg.RedisURL)
	if err != nil {
		log.Fatalf("failed to connect to redis: %v", err)
	}
	defer redisClient.Close()

	var natsConn *nats.Conn
	if cfg.NATSURL != "" {
		natsConn, err = nats.Connect(cfg.NATSURL)
		if err != nil {
			log.Fatalf("failed to connect to nats: %v", err)
		}
		defer natsConn.Close()
	}

	uploader, err := cloud.New(cloud.Config{
		CloudName: cfg.CloudinaryCloudName,
		APIKey:    cfg.CloudinaryAPIKey,
		APISecret: cfg.CloudinaryAPISecret,
		Folder:    cfg.CloudinaryUploadFolder,
	}, logger)
	if err != nil {
		log.Fatalf("failed to create cloudinary client: %v", err)
	}

	validate := validator.New(validator.WithRequiredStructEnabled())

	eventRepo := repository.NewReportEventRepository(db)
	submissionRepo := repository.NewSubmissionRepository(db)
	internshipRepo := repository.NewInternshipRepository(db)
	eventNotificationRepo := repository.NewEventNotificationRepository(db)
	notificationRepo := repository.NewNotificationRepository(db)

	appCtx, stopConsumers := context.WithCancel(context.Background())
	defer stopConsumers()

	notificationService := service.NewNotificationService(notificationRepo, redisClient, cfg.NotificationChannel, natsConn, validate, logger)
	notificationService.Start(appCtx)

	eventService := service.NewReportEventService(eventRepo, submissionRepo, internshipRepo, eventNotificationRepo, notificationService, validate, logger)
	submissionService := service.NewSubmissionService(submissionRepo, eventRepo, internshipRepo, notificationService, uploader, validate, service.AttachmentLimits{
		MaxCount:  cfg.MaxAttachments,
		MaxSizeMB: cfg.MaxAttachmentSizeMB,
	}, logger)
	dashboardService := service.NewStudentDashboardService(eventRepo, submissionRepo, internshipRepo, redisClient, cfg.DashboardCacheTTL, logger)

	eventHandler := handler.NewReportEventHandler(eventService, logger)
	submissionHandler := handler.NewSubmissionHandler(submissionService, pdf.NewUnconfigured(logger), logger)
	notificationHandler := handler.NewNotificationHandler(notificationService, logger, 30*time.Second)
	dashboardHandler := handler.NewStudentDashboardHandler(dashboardService, logger)

	app := fiber.New(fiber.Config{
		AppName:      cfg.AppName,
		ServerHeader: cfg.AppName,
	})

	middleware.Register(app, middleware.Config{Logger: &logger})
	router.Register(app, cfg, router.Dependencies{
		ReportEventHandler:  eventHandler,
		SubmissionHandler:   submissionHandler,
		NotificationHandler: notificationHandler,
		DashboardHandler:    dashboardHandler,
		JWTMiddleware:       middleware.JWTProtected(cfg.JWTSecret),
	})

	go func() {
		if err := app.Listen(cfg.HTTPAddress()); err != nil {
			log.Fatalf("failed to start server: %v", err)
		}
	}()

	waitForShutdown(app)
}

func waitForShutdown(app *fiber.App) {
	shutdownCtx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	<-shutdownCtx.Done()

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := app.ShutdownWithContext(ctx); err != nil {
		log.Printf("graceful shutdown failed: %v", err)
	}

	log.Println("server stopped")
}
