package service

import "context"

// SchedulerService runs reminder processing on a timer.
type SchedulerService interface {
	// Start registers the periodic job, if one is configured, and starts the scheduler.
	Start() error
	// RunOnce processes today's reminders of every user that still has unsent ones.
	// It returns the number of reminders queued.
	RunOnce(ctx context.Context) (int, error)
	// Stop stops the underlying scheduler.
	Stop()
}
