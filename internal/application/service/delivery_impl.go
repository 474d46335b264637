package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"remindbridge/internal/application/dto"
	"remindbridge/internal/domain/constant"
	"remindbridge/internal/domain/repository"
	"remindbridge/internal/pkg/config"
	appErrors "remindbridge/internal/pkg/errors"
	"remindbridge/internal/pkg/logger"
)

// MessageSender delivers a text message to a phone number.
type MessageSender interface {
	SendMessage(ctx context.Context, to, body string) (string, error)
}

// MessageComposer phrases the reminder text. It must always return a usable message.
type MessageComposer interface {
	ComposeReminder(ctx context.Context, userName, plain string) string
}

type deliveryService struct {
	cfg          *config.Config
	reminderRepo repository.ReminderRepository
	sender       MessageSender
	composer     MessageComposer
	cache        TagInvalidator
	log          logger.Logger
	now          func() time.Time
}

// NewDeliveryService creates a new instance of DeliveryService implementation.
// composer may be nil, in which case the queued message is sent as is.
func NewDeliveryService(
	cfg *config.Config,
	reminderRepo repository.ReminderRepository,
	sender MessageSender,
	composer MessageComposer,
	cache TagInvalidator,
	log logger.Logger,
) DeliveryService {
	return &deliveryService{
		cfg:          cfg,
		reminderRepo: reminderRepo,
		sender:       sender,
		composer:     composer,
		cache:        cache,
		log:          log,
		now:          time.Now,
	}
}

// DeliverReminder sends one claimed reminder. Repeated calls for a reminder
// that is already sent succeed without sending again. The reminder is moved
// to sent before the message goes out, so concurrent deliveries of the same
// reminder send at most once; a failed send moves it back to processing.
func (s *deliveryService) DeliverReminder(ctx context.Context, req dto.ReminderJobData) (*dto.DeliveryResult, error) {
	req.ReminderID = strings.TrimSpace(req.ReminderID)
	req.UserID = strings.TrimSpace(req.UserID)
	req.UserPhone = strings.TrimSpace(req.UserPhone)
	switch {
	case req.ReminderID == "":
		return nil, appErrors.Validation("reminderId is required")
	case req.UserID == "":
		return nil, appErrors.Validation("userId is required")
	case req.UserPhone == "":
		return nil, appErrors.Validation("userPhone is required")
	}

	reminder, err := s.reminderRepo.FindByID(ctx, req.ReminderID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, appErrors.NotFound("reminder %s not found", req.ReminderID)
		}
		s.log.Error(fmt.Sprintf("Failed to load reminder %s for delivery", req.ReminderID), err)
		return nil, appErrors.Upstream(err, "failed to load reminder")
	}
	if reminder.UserID != req.UserID {
		return nil, appErrors.Validation("reminder %s does not belong to user %s", req.ReminderID, req.UserID)
	}

	switch reminder.Status {
	case constant.StatusSent:
		s.log.Info(fmt.Sprintf("Reminder %s already sent, skipping delivery", reminder.ID))
		return &dto.DeliveryResult{ReminderID: reminder.ID, AlreadySent: true}, nil
	case constant.StatusPending:
		return nil, appErrors.Validation("reminder %s has not been queued", reminder.ID)
	}

	plain := strings.TrimSpace(req.Message)
	if plain == "" {
		plain = buildReminderMessage(reminder, s.cfg.LocalTimezone)
	}
	userName := req.UserName
	if userName == "" {
		userName = reminder.UserName
	}
	text := plain
	if s.composer != nil {
		text = s.composer.ComposeReminder(ctx, userName, plain)
	}

	if s.sender == nil {
		return nil, appErrors.Configuration("messaging gateway is not configured")
	}
	claimed, err := s.reminderRepo.TransitionStatus(ctx, reminder.ID, constant.StatusProcessing, constant.StatusSent, s.now())
	if err != nil {
		s.log.Error(fmt.Sprintf("Failed to claim reminder %s for delivery", reminder.ID), err)
		return nil, appErrors.Upstream(err, "failed to claim reminder")
	}
	if !claimed {
		s.log.Info(fmt.Sprintf("Reminder %s was claimed by another delivery, skipping", reminder.ID))
		return &dto.DeliveryResult{ReminderID: reminder.ID, AlreadySent: true}, nil
	}

	sid, err := s.sender.SendMessage(ctx, req.UserPhone, text)
	if err != nil {
		s.log.Error(fmt.Sprintf("Failed to send reminder %s to %s", reminder.ID, req.UserPhone), err)
		if _, revertErr := s.reminderRepo.TransitionStatus(ctx, reminder.ID, constant.StatusSent, constant.StatusProcessing, s.now()); revertErr != nil {
			s.log.Error(fmt.Sprintf("Failed to release reminder %s after send failure", reminder.ID), revertErr)
		}
		return nil, appErrors.Upstream(err, "failed to send reminder")
	}
	s.log.Info(fmt.Sprintf("Delivered reminder %s to user %s (message %s)", reminder.ID, reminder.UserID, sid))

	if s.cache != nil {
		if _, err := s.cache.RevalidateTag(ctx, ReminderListTag(reminder.UserID)); err != nil {
			s.log.Warn(fmt.Sprintf("Failed to revalidate reminder cache for user %s: %v", reminder.UserID, err))
		}
	}
	return &dto.DeliveryResult{ReminderID: reminder.ID, MessageSID: sid}, nil
}
