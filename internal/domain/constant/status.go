package constant

// ReminderStatus defines the delivery state of a reminder.
type ReminderStatus string

const (
	// StatusPending represents a reminder that has not been handed to the job queue yet.
	StatusPending ReminderStatus = "pending"
	// StatusProcessing represents a reminder whose delivery job has been enqueued.
	StatusProcessing ReminderStatus = "processing"
	// StatusSent represents a reminder whose message was delivered.
	StatusSent ReminderStatus = "sent"
)

func (s ReminderStatus) String() string {
	return string(s)
}

// Valid reports whether s is one of the known statuses.
func (s ReminderStatus) Valid() bool {
	switch s {
	case StatusPending, StatusProcessing, StatusSent:
		return true
	}
	return false
}

// Claimed reports whether a reminder in this status must not be enqueued again.
func (s ReminderStatus) Claimed() bool {
	return s == StatusProcessing || s == StatusSent
}
