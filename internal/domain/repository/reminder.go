package repository

import (
	"context"
	"time"

	"remindbridge/internal/domain/constant"
	"remindbridge/internal/domain/entity"

	"github.com/pkg/errors"
)

// ErrNotFound is returned (wrapped) when a lookup or update matches no reminder.
var ErrNotFound = errors.New("record not found")

// ReminderRepository defines the interface for reminder data operations.
type ReminderRepository interface {
	// FindByID retrieves a reminder by its ID.
	FindByID(ctx context.Context, id string) (*entity.Reminder, error)
	// FindByUserID retrieves all reminders for a specific user ordered by event date.
	FindByUserID(ctx context.Context, userID string) ([]*entity.Reminder, error)
	// FindByUserIDBetween retrieves at most limit reminders of a user whose event date
	// falls within [from, to], ordered by event date ascending.
	FindByUserIDBetween(ctx context.Context, userID string, from, to time.Time, limit int) ([]*entity.Reminder, error)
	// FindUserIDsWithUnsentBetween lists distinct users owning non-sent reminders within [from, to].
	FindUserIDsWithUnsentBetween(ctx context.Context, from, to time.Time) ([]string, error)
	// Create creates a new reminder.
	Create(ctx context.Context, reminder *entity.Reminder) error
	// MarkProcessing moves a reminder to processing and records the job that carries it.
	MarkProcessing(ctx context.Context, id, jobID string, startedAt time.Time) error
	// TransitionStatus moves a reminder from one status to another only if it is
	// still in from. SentAt is set to at when moving to StatusSent and cleared
	// otherwise. It reports whether the row changed.
	TransitionStatus(ctx context.Context, id string, from, to constant.ReminderStatus, at time.Time) (bool, error)
}
