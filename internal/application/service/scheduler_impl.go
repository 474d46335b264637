package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"remindbridge/internal/domain/repository"
	"remindbridge/internal/infrastructure/scheduler"
	"remindbridge/internal/pkg/config"
	appErrors "remindbridge/internal/pkg/errors"
	"remindbridge/internal/pkg/logger"
)

// runTimeout caps a single periodic run over all users.
const runTimeout = 5 * time.Minute

type schedulerService struct {
	cfg           *config.Config
	cronScheduler *scheduler.Scheduler
	reminderRepo  repository.ReminderRepository
	reminderSvc   ReminderService
	log           logger.Logger
	now           func() time.Time
}

// NewSchedulerService creates a new instance of SchedulerService implementation.
func NewSchedulerService(
	cfg *config.Config,
	cronScheduler *scheduler.Scheduler,
	reminderRepo repository.ReminderRepository,
	reminderSvc ReminderService,
	log logger.Logger,
) SchedulerService {
	return &schedulerService{
		cfg:           cfg,
		cronScheduler: cronScheduler,
		reminderRepo:  reminderRepo,
		reminderSvc:   reminderSvc,
		log:           log,
		now:           time.Now,
	}
}

func (s *schedulerService) Start() error {
	if s.cfg.ReminderCronSpec == "" {
		s.log.Info("REMINDER_CRON_SPEC not set, periodic reminder processing disabled")
		return nil
	}

	entryID, err := s.cronScheduler.AddJob(s.cfg.ReminderCronSpec, func() {
		ctx, cancel := context.WithTimeout(context.Background(), runTimeout)
		defer cancel()
		if _, err := s.RunOnce(ctx); err != nil {
			s.log.Error("Periodic reminder processing failed", err)
		}
	})
	if err != nil {
		return fmt.Errorf("failed to schedule reminder processing %q: %w", s.cfg.ReminderCronSpec, err)
	}
	s.cronScheduler.Start()
	s.log.Info(fmt.Sprintf("Scheduled reminder processing with spec %q (Job ID: %d)", s.cfg.ReminderCronSpec, entryID))
	for _, entry := range s.cronScheduler.GetEntries() {
		if entry.ID == entryID {
			s.log.Info(fmt.Sprintf("Next reminder processing run at %s", entry.Next.Format(time.RFC3339)))
		}
	}
	return nil
}

func (s *schedulerService) RunOnce(ctx context.Context) (int, error) {
	start, end := dayBounds(s.now(), s.cfg.LocalTimezone)
	userIDs, err := s.reminderRepo.FindUserIDsWithUnsentBetween(ctx, start, end)
	if err != nil {
		return 0, appErrors.Upstream(err, "failed to list users with reminders today")
	}

	queued := 0
	for _, userID := range userIDs {
		if ctx.Err() != nil {
			return queued, ctx.Err()
		}
		result, err := s.reminderSvc.ProcessTodayReminders(ctx, userID)
		if err != nil {
			// Every user would fail the same way.
			if errors.Is(err, appErrors.ErrConfiguration) {
				return queued, err
			}
			s.log.Error(fmt.Sprintf("Failed to process reminders for user %s", userID), err)
			continue
		}
		queued += result.RemindersProcessed
	}
	s.log.Info(fmt.Sprintf("Periodic run queued %d reminders across %d users", queued, len(userIDs)))
	return queued, nil
}

func (s *schedulerService) Stop() {
	s.cronScheduler.Stop()
}
