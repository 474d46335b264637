package database

import (
	"context"
	"errors"
	"fmt"
	"time"

	"remindbridge/internal/domain/constant"
	"remindbridge/internal/domain/entity"
	"remindbridge/internal/domain/repository"

	"gorm.io/gorm"
)

type reminderRepository struct {
	db *gorm.DB
}

// NewReminderRepository creates a new instance of ReminderRepository.
func NewReminderRepository(db *gorm.DB) repository.ReminderRepository {
	return &reminderRepository{db: db}
}

// FindByID retrieves a reminder by its ID.
func (r *reminderRepository) FindByID(ctx context.Context, id string) (*entity.Reminder, error) {
	var reminder entity.Reminder
	if err := r.db.WithContext(ctx).Where("id = ?", id).First(&reminder).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("reminder with ID %s not found: %w", id, repository.ErrNotFound)
		}
		return nil, fmt.Errorf("failed to find reminder by id %s: %w", id, err)
	}
	return &reminder, nil
}

// FindByUserID retrieves all reminders for a specific user.
func (r *reminderRepository) FindByUserID(ctx context.Context, userID string) ([]*entity.Reminder, error) {
	var reminders []*entity.Reminder
	if err := r.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("event_date asc").Order("id asc").
		Find(&reminders).Error; err != nil {
		return nil, fmt.Errorf("failed to find reminders by user_id %s: %w", userID, err)
	}
	return reminders, nil
}

// FindByUserIDBetween retrieves reminders of a user with event_date in [from, to].
func (r *reminderRepository) FindByUserIDBetween(ctx context.Context, userID string, from, to time.Time, limit int) ([]*entity.Reminder, error) {
	var reminders []*entity.Reminder
	if err := r.db.WithContext(ctx).
		Where("user_id = ? AND event_date >= ? AND event_date <= ?", userID, from.UTC(), to.UTC()).
		Order("event_date asc").Order("id asc").
		Limit(limit).
		Find(&reminders).Error; err != nil {
		return nil, fmt.Errorf("failed to find reminders for user_id %s between %v and %v: %w", userID, from, to, err)
	}
	return reminders, nil
}

// FindUserIDsWithUnsentBetween lists users that still own unsent reminders in [from, to].
func (r *reminderRepository) FindUserIDsWithUnsentBetween(ctx context.Context, from, to time.Time) ([]string, error) {
	var userIDs []string
	if err := r.db.WithContext(ctx).
		Model(&entity.Reminder{}).
		Where("event_date >= ? AND event_date <= ? AND status <> ?", from.UTC(), to.UTC(), constant.StatusSent).
		Distinct().
		Order("user_id asc").
		Pluck("user_id", &userIDs).Error; err != nil {
		return nil, fmt.Errorf("failed to list users with unsent reminders: %w", err)
	}
	return userIDs, nil
}

// Create creates a new reminder. EventDate is stored in UTC so range queries
// compare consistently on every driver.
func (r *reminderRepository) Create(ctx context.Context, reminder *entity.Reminder) error {
	reminder.EventDate = reminder.EventDate.UTC()
	if err := r.db.WithContext(ctx).Create(reminder).Error; err != nil {
		return fmt.Errorf("failed to create reminder for user %s: %w", reminder.UserID, err)
	}
	return nil
}

// MarkProcessing moves a reminder to processing. Only the listed columns are written.
func (r *reminderRepository) MarkProcessing(ctx context.Context, id, jobID string, startedAt time.Time) error {
	result := r.db.WithContext(ctx).
		Model(&entity.Reminder{}).
		Where("id = ?", id).
		Updates(map[string]any{
			"status":                constant.StatusProcessing,
			"job_id":                jobID,
			"processing_started_at": startedAt.UTC(),
		})
	if result.Error != nil {
		return fmt.Errorf("failed to mark reminder %s processing: %w", id, result.Error)
	}
	if result.RowsAffected == 0 {
		return fmt.Errorf("reminder with ID %s not found: %w", id, repository.ErrNotFound)
	}
	return nil
}

// TransitionStatus is a compare-and-set on status; concurrent callers racing
// on the same from status see exactly one true.
func (r *reminderRepository) TransitionStatus(ctx context.Context, id string, from, to constant.ReminderStatus, at time.Time) (bool, error) {
	if !from.Valid() || !to.Valid() {
		return false, fmt.Errorf("invalid reminder status transition %q -> %q", from, to)
	}
	updates := map[string]any{"status": to, "sent_at": nil}
	if to == constant.StatusSent {
		updates["sent_at"] = at.UTC()
	}
	result := r.db.WithContext(ctx).
		Model(&entity.Reminder{}).
		Where("id = ? AND status = ?", id, from).
		Updates(updates)
	if result.Error != nil {
		return false, fmt.Errorf("failed to move reminder %s from %s to %s: %w", id, from, to, result.Error)
	}
	return result.RowsAffected == 1, nil
}
