package service

import (
	"context"

	"remindbridge/internal/application/dto"
)

// SendReminderActionPath is the route the queue calls back for each job.
const SendReminderActionPath = "/actions/send-reminder"

// ReminderListTag is the response-cache tag of a user's reminder list.
func ReminderListTag(userID string) string {
	return "reminders:" + userID
}

// ReminderService defines the interface for reminder-related business logic.
type ReminderService interface {
	// ProcessTodayReminders hands the user's reminders that are due now to the job queue.
	ProcessTodayReminders(ctx context.Context, userID string) (*dto.ProcessResult, error)
	// CreateReminder stores a new pending reminder.
	CreateReminder(ctx context.Context, req dto.CreateReminderRequest) (*dto.ReminderResponse, error)
	// ListReminders retrieves every reminder of a user ordered by event date.
	ListReminders(ctx context.Context, userID string) ([]dto.ReminderResponse, error)
}
