package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"remindbridge/internal/application/dto"
	"remindbridge/internal/domain/constant"
	"remindbridge/internal/domain/entity"
	"remindbridge/internal/domain/repository"
	"remindbridge/internal/pkg/config"
	appErrors "remindbridge/internal/pkg/errors"
	"remindbridge/internal/pkg/logger"

	"github.com/google/uuid"
)

// JobQueue submits jobs to the external queue.
type JobQueue interface {
	Enqueue(ctx context.Context, req dto.EnqueueRequest) (string, error)
}

// idempotencyNamespace scopes the deterministic idempotency keys sent with each enqueue.
var idempotencyNamespace = uuid.MustParse("6f1c2a54-2f55-4f7e-9d1a-6a9a0f2d3b11")

// reminderIdempotencyKey is stable for one reminder on one local day, so a
// re-enqueue of the same reminder on the same day can be recognized by the queue.
func reminderIdempotencyKey(reminderID string, day time.Time) string {
	return uuid.NewSHA1(idempotencyNamespace, []byte(reminderID+"|"+day.Format("2006-01-02"))).String()
}

// TagInvalidator drops cached responses carrying a tag.
type TagInvalidator interface {
	RevalidateTag(ctx context.Context, tag string) (int, error)
}

type reminderService struct {
	cfg          *config.Config
	reminderRepo repository.ReminderRepository
	jobQueue     JobQueue
	cache        TagInvalidator
	log          logger.Logger
	now          func() time.Time
}

// NewReminderService creates a new instance of ReminderService implementation.
func NewReminderService(
	cfg *config.Config,
	reminderRepo repository.ReminderRepository,
	jobQueue JobQueue,
	cache TagInvalidator,
	log logger.Logger,
) ReminderService {
	return &reminderService{
		cfg:          cfg,
		reminderRepo: reminderRepo,
		jobQueue:     jobQueue,
		cache:        cache,
		log:          log,
		now:          time.Now,
	}
}

// outcome is the result of handing one reminder to the queue.
type outcome interface {
	apply(r *dto.ProcessResult)
}

type enqueued struct{ job dto.QueuedJob }

type skippedIncomplete struct {
	reminderID string
	missing    []string
}

type failed struct {
	reminderID string
	reason     string
}

func (o enqueued) apply(r *dto.ProcessResult) {
	r.RemindersProcessed++
	r.QueuedJobs = append(r.QueuedJobs, o.job)
}

func (o skippedIncomplete) apply(r *dto.ProcessResult) {
	r.Errors = append(r.Errors, dto.ReminderError{
		ReminderID: o.reminderID,
		Error:      fmt.Sprintf("reminder %s is missing required fields: %s", o.reminderID, strings.Join(o.missing, ", ")),
	})
}

func (o failed) apply(r *dto.ProcessResult) {
	r.Errors = append(r.Errors, dto.ReminderError{ReminderID: o.reminderID, Error: o.reason})
}

// ProcessTodayReminders enqueues a send job for every reminder of the user that
// is due now. Reminders are handled one at a time; a failing reminder is
// recorded and never stops the rest of the batch.
func (s *reminderService) ProcessTodayReminders(ctx context.Context, userID string) (*dto.ProcessResult, error) {
	userID = strings.TrimSpace(userID)
	if userID == "" {
		return nil, appErrors.Validation("user id is required")
	}
	if s.cfg.APIBaseURL == "" {
		s.log.Error("API_BASE_URL is not configured, cannot build job targets", nil)
		return nil, appErrors.Configuration("API_BASE_URL is not configured")
	}

	log := s.log.With("user_id", userID)
	loc := s.cfg.LocalTimezone
	now := s.now().In(loc)
	start, end := dayBounds(now, loc)

	reminders, err := s.reminderRepo.FindByUserIDBetween(ctx, userID, start, end, s.cfg.ReminderBatchLimit)
	if err != nil {
		s.log.Error(fmt.Sprintf("Failed to load today's reminders for user %s", userID), err)
		return nil, appErrors.Upstream(err, "failed to load reminders")
	}

	due := selectDue(reminders, now, loc, s.cfg.ReminderDueWindow)
	result := &dto.ProcessResult{
		Success:        true,
		TotalReminders: len(due),
		QueuedJobs:     []dto.QueuedJob{},
	}
	if len(due) == 0 {
		result.Message = "No reminders due"
		log.Debug(fmt.Sprintf("No reminders due (%d today)", len(reminders)))
		return result, nil
	}

	for _, reminder := range due {
		s.processReminder(ctx, log, reminder, now).apply(result)
	}

	result.Message = fmt.Sprintf("Queued %d of %d reminders", result.RemindersProcessed, result.TotalReminders)
	if n := len(result.Errors); n > 0 {
		result.Message += fmt.Sprintf(", %d failed", n)
	}
	log.Info(result.Message)

	if result.RemindersProcessed > 0 {
		s.invalidate(ctx, userID)
	}
	return result, nil
}

func (s *reminderService) processReminder(ctx context.Context, log logger.Logger, reminder *entity.Reminder, now time.Time) outcome {
	if missing := s.missingFields(reminder); len(missing) > 0 {
		log.Warn(fmt.Sprintf("Skipping reminder %s: missing %s", reminder.ID, strings.Join(missing, ", ")))
		return skippedIncomplete{reminderID: reminder.ID, missing: missing}
	}

	message := buildReminderMessage(reminder, s.cfg.LocalTimezone)
	jobID, err := s.jobQueue.Enqueue(ctx, dto.EnqueueRequest{
		Path: s.cfg.APIBaseURL + SendReminderActionPath,
		Data: dto.ReminderJobData{
			ReminderID: reminder.ID,
			UserID:     reminder.UserID,
			SessionID:  s.cfg.QueueSessionID,
			UserName:   reminder.UserName,
			UserPhone:  reminder.UserPhone,
			Message:    message,
		},
		IdempotencyKey: reminderIdempotencyKey(reminder.ID, now),
	})
	if err != nil {
		log.Error(fmt.Sprintf("Failed to enqueue reminder %s", reminder.ID), err)
		return failed{reminderID: reminder.ID, reason: fmt.Sprintf("failed to enqueue reminder %s: %v", reminder.ID, err)}
	}

	if err := s.reminderRepo.MarkProcessing(ctx, reminder.ID, jobID, now); err != nil {
		log.Error(fmt.Sprintf("Reminder %s enqueued as job %s but status update failed", reminder.ID, jobID), err)
		return failed{reminderID: reminder.ID, reason: fmt.Sprintf("job %s enqueued but reminder %s was not marked processing: %v", jobID, reminder.ID, err)}
	}

	log.Debug(fmt.Sprintf("Queued reminder %s as job %s", reminder.ID, jobID))
	return enqueued{job: dto.QueuedJob{
		JobID:      jobID,
		ReminderID: reminder.ID,
		UserName:   reminder.UserName,
		UserPhone:  reminder.UserPhone,
	}}
}

func (s *reminderService) missingFields(r *entity.Reminder) []string {
	var missing []string
	if strings.TrimSpace(r.UserID) == "" {
		missing = append(missing, "userId")
	}
	if s.cfg.QueueSessionID == "" {
		missing = append(missing, "sessionId")
	}
	if strings.TrimSpace(r.UserPhone) == "" {
		missing = append(missing, "userPhone")
	}
	if strings.TrimSpace(r.UserName) == "" {
		missing = append(missing, "userName")
	}
	return missing
}

// buildReminderMessage renders the plain text sent to the user.
func buildReminderMessage(r *entity.Reminder, loc *time.Location) string {
	if isAllDay(r.EventDate, loc) {
		return fmt.Sprintf("Hi %s, a reminder for today: %s", r.UserName, r.Note)
	}
	return fmt.Sprintf("Hi %s, a reminder for %s: %s", r.UserName, r.EventDate.In(loc).Format("15:04"), r.Note)
}

func (s *reminderService) invalidate(ctx context.Context, userID string) {
	if s.cache == nil {
		return
	}
	if _, err := s.cache.RevalidateTag(ctx, ReminderListTag(userID)); err != nil {
		s.log.Warn(fmt.Sprintf("Failed to revalidate reminder cache for user %s: %v", userID, err))
	}
}

// CreateReminder stores a new pending reminder.
func (s *reminderService) CreateReminder(ctx context.Context, req dto.CreateReminderRequest) (*dto.ReminderResponse, error) {
	req.UserID = strings.TrimSpace(req.UserID)
	req.Note = strings.TrimSpace(req.Note)
	switch {
	case req.UserID == "":
		return nil, appErrors.Validation("userId is required")
	case req.Note == "":
		return nil, appErrors.Validation("note is required")
	case req.EventDate.IsZero():
		return nil, appErrors.Validation("eventDate is required")
	}

	reminder := &entity.Reminder{
		ID:        uuid.NewString(),
		UserID:    req.UserID,
		Note:      req.Note,
		EventDate: req.EventDate,
		Status:    constant.StatusPending,
		UserName:  strings.TrimSpace(req.UserName),
		UserPhone: strings.TrimSpace(req.UserPhone),
	}
	if err := s.reminderRepo.Create(ctx, reminder); err != nil {
		s.log.Error(fmt.Sprintf("Failed to create reminder for user %s", req.UserID), err)
		return nil, appErrors.Upstream(err, "failed to create reminder")
	}
	s.log.Info(fmt.Sprintf("Created reminder %s for user %s at %v", reminder.ID, reminder.UserID, reminder.EventDate))

	s.invalidate(ctx, reminder.UserID)
	resp := dto.ToReminderResponse(reminder)
	return &resp, nil
}

// ListReminders retrieves every reminder of a user ordered by event date.
func (s *reminderService) ListReminders(ctx context.Context, userID string) ([]dto.ReminderResponse, error) {
	userID = strings.TrimSpace(userID)
	if userID == "" {
		return nil, appErrors.Validation("user id is required")
	}
	reminders, err := s.reminderRepo.FindByUserID(ctx, userID)
	if err != nil {
		s.log.Error(fmt.Sprintf("Failed to list reminders for user %s", userID), err)
		return nil, appErrors.Upstream(err, "failed to list reminders")
	}
	return dto.ToReminderResponseList(reminders), nil
}
