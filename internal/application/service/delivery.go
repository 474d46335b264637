package service

import (
	"context"

	"remindbridge/internal/application/dto"
)

// DeliveryService sends reminders that the job queue hands back.
type DeliveryService interface {
	// DeliverReminder sends one claimed reminder to its user and marks it sent.
	DeliverReminder(ctx context.Context, req dto.ReminderJobData) (*dto.DeliveryResult, error)
}
