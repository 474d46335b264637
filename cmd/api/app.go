package main

import (
	"fmt"

	appService "remindbridge/internal/application/service"
	"remindbridge/internal/domain/repository"
	"remindbridge/internal/infrastructure/assistant"
	"remindbridge/internal/infrastructure/database"
	"remindbridge/internal/infrastructure/queue"
	"remindbridge/internal/infrastructure/scheduler"
	"remindbridge/internal/infrastructure/whatsapp"
	"remindbridge/internal/pkg/config"
	appLogger "remindbridge/internal/pkg/logger"

	"gorm.io/gorm"
)

// application holds everything built from the configuration at startup.
type application struct {
	cfg *config.Config
	log appLogger.Logger
	db  *gorm.DB

	cacheStore   repository.TagCacheStore
	reminderSvc  appService.ReminderService
	deliverySvc  appService.DeliveryService
	cacheSvc     appService.CacheService
	schedulerSvc appService.SchedulerService
}

func newApplication() (*application, error) {
	// --- Configuration ---
	cfg, err := config.Load()
	if err != nil {
		return nil, fmt.Errorf("failed to load configuration: %w", err)
	}
	appLog := appLogger.New(cfg.LogLevel)
	appLog.Info("Logger initialized.")
	for _, warning := range cfg.Warnings {
		appLog.Warn("config: " + warning)
	}

	// --- Infrastructure ---
	db, err := database.NewDB(cfg, appLog)
	if err != nil {
		return nil, err
	}
	reminderRepo := database.NewReminderRepository(db)
	cacheStore := database.NewTagCacheStore(db)
	appLog.Info("Database and repositories initialized.")

	if cfg.QueueBaseURL == "" {
		appLog.Warn("QUEUE_BASE_URL not set, reminders cannot be enqueued")
	}
	jobQueue := queue.NewClient(queue.Options{
		BaseURL:    cfg.QueueBaseURL,
		Token:      cfg.QueueToken,
		RatePerSec: cfg.QueueRatePerSec,
		Timeout:    cfg.QueueTimeout,
	}, appLog)
	sender := whatsapp.NewClient(cfg.TwilioAccountSID, cfg.TwilioAuthToken, cfg.TwilioWhatsAppNumber, appLog)
	composer := assistant.NewClient(cfg.OpenAIAPIKey, cfg.OpenAIModel, appLog)
	cronScheduler := scheduler.NewScheduler(cfg.LocalTimezone, appLog)

	// --- Application Services ---
	cacheSvc := appService.NewCacheService(cacheStore, cfg.CacheStatsConcurrency, appLog)
	reminderSvc := appService.NewReminderService(cfg, reminderRepo, jobQueue, cacheSvc, appLog)
	deliverySvc := appService.NewDeliveryService(cfg, reminderRepo, sender, composer, cacheSvc, appLog)
	schedulerSvc := appService.NewSchedulerService(cfg, cronScheduler, reminderRepo, reminderSvc, appLog)
	appLog.Info("Application services initialized.")

	return &application{
		cfg:          cfg,
		log:          appLog,
		db:           db,
		cacheStore:   cacheStore,
		reminderSvc:  reminderSvc,
		deliverySvc:  deliverySvc,
		cacheSvc:     cacheSvc,
		schedulerSvc: schedulerSvc,
	}, nil
}

func (a *application) close() {
	a.schedulerSvc.Stop()
	if err := database.CloseDB(a.db); err != nil {
		a.log.Error("Error closing database", err)
	}
}
