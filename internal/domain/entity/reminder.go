package entity

import (
	"time"

	"remindbridge/internal/domain/constant"
)

// Reminder represents a user-scheduled note to be delivered over WhatsApp.
type Reminder struct {
	ID                  string                  `gorm:"primaryKey;size:36"`
	UserID              string                  `gorm:"column:user_id;index:idx_reminders_user_event,priority:1;not null"`
	Note                string                  `gorm:"column:note;type:text"`
	EventDate           time.Time               `gorm:"column:event_date;index:idx_reminders_user_event,priority:2"`
	Status              constant.ReminderStatus `gorm:"column:status;size:16;not null;default:'pending'"`
	UserName            string                  `gorm:"column:user_name"`
	UserPhone           string                  `gorm:"column:user_phone"`
	JobID               *string                 `gorm:"column:job_id"`
	ProcessingStartedAt *time.Time              `gorm:"column:processing_started_at"`
	SentAt              *time.Time              `gorm:"column:sent_at"`
	CreatedAt           time.Time
	UpdatedAt           time.Time
}

// TableName specifies the table name for the Reminder entity.
func (Reminder) TableName() string {
	return "reminders"
}
