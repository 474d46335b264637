package dto

import (
	"time"

	"remindbridge/internal/domain/constant"
	"remindbridge/internal/domain/entity"
)

// ReminderResponse is the DTO for sending reminder information to the client.
type ReminderResponse struct {
	ID        string                  `json:"id"`
	UserID    string                  `json:"userId"`
	Note      string                  `json:"note"`
	EventDate time.Time               `json:"eventDate"`
	Status    constant.ReminderStatus `json:"status"`
	UserName  string                  `json:"userName,omitempty"`
	UserPhone string                  `json:"userPhone,omitempty"`
}

// ToReminderResponse converts an entity.Reminder to a ReminderResponse DTO.
func ToReminderResponse(r *entity.Reminder) ReminderResponse {
	return ReminderResponse{
		ID:        r.ID,
		UserID:    r.UserID,
		Note:      r.Note,
		EventDate: r.EventDate,
		Status:    r.Status,
		UserName:  r.UserName,
		UserPhone: r.UserPhone,
	}
}

// ToReminderResponseList converts a slice of entity.Reminder to a slice of ReminderResponse DTOs.
func ToReminderResponseList(reminders []*entity.Reminder) []ReminderResponse {
	list := make([]ReminderResponse, len(reminders))
	for i, r := range reminders {
		list[i] = ToReminderResponse(r)
	}
	return list
}

// CreateReminderRequest is the DTO for creating a new reminder.
type CreateReminderRequest struct {
	UserID    string    `json:"userId"`
	Note      string    `json:"note"`
	EventDate time.Time `json:"eventDate"`
	UserName  string    `json:"userName"`
	UserPhone string    `json:"userPhone"`
}

// ReminderJobData is the job payload handed to the queue. The queue posts it
// back unchanged to the send-reminder action.
type ReminderJobData struct {
	ReminderID string `json:"reminderId"`
	UserID     string `json:"userId"`
	SessionID  string `json:"sessionId"`
	UserName   string `json:"userName"`
	UserPhone  string `json:"userPhone"`
	Message    string `json:"message"`
}

// QueuedJob summarizes one reminder handed to the queue.
type QueuedJob struct {
	JobID      string `json:"jobId"`
	ReminderID string `json:"reminderId"`
	UserName   string `json:"userName"`
	UserPhone  string `json:"userPhone"`
}

// ReminderError records why a single reminder of a batch was not queued.
type ReminderError struct {
	ReminderID string `json:"reminderId"`
	Error      string `json:"error"`
}

// ProcessResult is the summary of one ProcessTodayReminders invocation.
type ProcessResult struct {
	Success            bool            `json:"success"`
	Message            string          `json:"message"`
	RemindersProcessed int             `json:"remindersProcessed"`
	TotalReminders     int             `json:"totalReminders"`
	QueuedJobs         []QueuedJob     `json:"queuedJobs"`
	Errors             []ReminderError `json:"errors,omitempty"`
}

// DeliveryResult is returned by the send-reminder action.
type DeliveryResult struct {
	ReminderID  string `json:"reminderId"`
	MessageSID  string `json:"messageSid,omitempty"`
	AlreadySent bool   `json:"alreadySent,omitempty"`
}
