// File: hireloop/main.go
package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"hireloop/config"
	"hireloop/cron"
	"hireloop/database"
	auditRepoPkg "hireloop/database/repository/audit"
	bookingRepoPkg "hireloop/database/repository/booking"
	participantRepoPkg "hireloop/database/repository/participant"
	"hireloop/handlers"
	"hireloop/middleware"
	"hireloop/routes"
	"hireloop/services/calendar"
	"hireloop/services/notification"
	"hireloop/services/scheduling"
	"hireloop/services/tasks"
	"hireloop/utils"

	"github.com/gin-gonic/gin"
	"github.com/go-redis/redis/v8"
	"github.com/hibiken/asynq"
)

func main() {
	config.LoadConfig()
	logger := utils.GetLogger()

	database.InitDB()
	utils.InitRedis()
	utils.FirebaseInit()

	// Create the Gin router.
	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(utils.ErrorHandler())
	router.Use(gin.Logger())
	router.Use(middleware.RateLimitMiddleware())

	// repositories.
	bookingRepo := bookingRepoPkg.NewMongoBookingRepo(utils.GetLockCacheClient())
	participantRepo := participantRepoPkg.NewMongoParticipantRepo()
	auditRepo := auditRepoPkg.NewMongoAuditRepo()

	for name, ensure := range map[string]func() error{
		"bookings":     bookingRepo.EnsureIndexes,
		"participants": participantRepo.EnsureIndexes,
	} {
		if err := ensure(); err != nil {
			logger.Sugar().Fatalf("main: failed to ensure %s indexes: %v", name, err)
		}
	}

	// Optional integrations: the engine runs without them and reports their
	// absence through result warnings, never hard failures.
	ctx := context.Background()
	var calendarSync scheduling.CalendarSync
	var notifier scheduling.Notifier
	if config.AppConfig.GoogleCredentialsFile != "" {
		if cs, err := calendar.NewGoogleCalendarSync(ctx); err != nil {
			logger.Sugar().Warnf("main: calendar sync disabled: %v", err)
		} else {
			calendarSync = cs
		}
		if n, err := notification.NewDefaultNotifier(ctx); err != nil {
			logger.Sugar().Warnf("main: email notifier disabled: %v", err)
		} else {
			notifier = n
		}
	}

	reminderClient := asynq.NewClient(asynq.RedisClientOpt{
		Addr:     config.AppConfig.RedisAddr,
		Password: config.AppConfig.RedisPassword,
		DB:       config.AppConfig.RedisReminderQueueDB,
	})
	defer reminderClient.Close()

	// scheduling engine.
	availability := &scheduling.AvailabilityResolver{Directory: participantRepo}
	detector := &scheduling.ConflictDetector{Bookings: bookingRepo}
	suggester := &scheduling.SlotSuggester{Availability: availability, Detector: detector}
	detector.Suggester = suggester

	engine := &scheduling.Orchestrator{
		Directory:    participantRepo,
		Bookings:     bookingRepo,
		Availability: availability,
		Detector:     detector,
		Suggester:    suggester,
		Alerts: &scheduling.AlertDispatcher{
			Notifier: notifier,
			Audit:    auditRepo,
			Logger:   logger,
		},
		Calendar:             calendarSync,
		Notifier:             notifier,
		Reminders:            &tasks.AsynqReminderScheduler{Client: reminderClient},
		Logger:               logger,
		DefaultReminderHours: config.AppConfig.DefaultReminderHours,
	}

	schedulingHandler := handlers.NewSchedulingHandler(engine, logger)
	participantHandler := handlers.NewParticipantHandler(participantRepo, auditRepo)
	routes.RegisterRoutes(router, schedulingHandler, participantHandler)

	if notifier != nil {
		cron.InitReminderWorker(notifier, participantRepo)
	} else {
		logger.Sugar().Warn("main: reminder worker not started, no notifier configured")
	}

	utils.StartHealthMonitor(
		[]*redis.Client{utils.GetCacheClient(), utils.GetLockCacheClient()},
		database.MongoClient,
	)

	// Start the HTTP server.
	port := config.AppConfig.AppPort
	if port == "" {
		port = "8080"
	}
	srv := &http.Server{
		Addr:    "0.0.0.0:" + port,
		Handler: router,
	}

	logger.Sugar().Infof("Starting server on %s...", srv.Addr)
	go func() {
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Sugar().Fatalf("main: server failed to start: %v", err)
		}
	}()

	// Wait for an OS signal to gracefully shutdown.
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	logger.Sugar().Info("main: server is shutting down...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Sugar().Fatalf("main: server forced to shutdown: %v", err)
	}

	logger.Sugar().Info("main: server stopped gracefully")
}
